package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"nomadeAdmin/internal/modules/admin/application/port"
)

// prompt prints label and reads one trimmed line. A final line without newline is accepted.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.errOut, label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *App) password() (string, error) {
	fmt.Fprint(a.errOut, "Password: ")
	raw, err := a.readPassword()
	fmt.Fprintln(a.errOut)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// confirmer asks y/N on the terminal. assumeYes skips the question.
func (a *App) confirmer(assumeYes bool) port.Confirmer {
	return port.ConfirmerFunc(func(_ context.Context, question string) (bool, error) {
		if assumeYes {
			return true, nil
		}
		answer, err := a.prompt(question + " [y/N] ")
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	})
}

// parseAssignments turns field=value arguments into form edits.
func parseAssignments(args []string) (map[string]any, error) {
	fields := make(map[string]any, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		fields[name] = value
	}
	return fields, nil
}
