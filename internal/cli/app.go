// Package cli implements adminctl, the terminal front of the admin console. Commands drive
// the same list, form and gallery controllers as the HTTP surface.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"nomadeAdmin/internal/modules/admin/application/usecase"
	"nomadeAdmin/internal/modules/admin/infrastructure"
	"nomadeAdmin/internal/shared/auth"
)

var errUnknownEntity = errors.New("unknown entity")

// Deps are the collaborators adminctl runs against.
type Deps struct {
	Session   *auth.Session
	SessionUC *usecase.SessionUseCase
	Registry  *infrastructure.Registry
	In        io.Reader
	Out       io.Writer
	Err       io.Writer
	// ReadPassword reads a password without echo. Defaults to the terminal on stdin.
	ReadPassword func() ([]byte, error)
}

type App struct {
	session      *auth.Session
	sessionUC    *usecase.SessionUseCase
	registry     *infrastructure.Registry
	in           *bufio.Reader
	out          io.Writer
	errOut       io.Writer
	readPassword func() ([]byte, error)
}

func NewApp(deps Deps) *App {
	if deps.In == nil {
		deps.In = os.Stdin
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Err == nil {
		deps.Err = os.Stderr
	}
	if deps.ReadPassword == nil {
		deps.ReadPassword = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }
	}
	return &App{
		session:      deps.Session,
		sessionUC:    deps.SessionUC,
		registry:     deps.Registry,
		in:           bufio.NewReader(deps.In),
		out:          deps.Out,
		errOut:       deps.Err,
		readPassword: deps.ReadPassword,
	}
}

func (a *App) binding(entity string) (*infrastructure.Binding, error) {
	binding, ok := a.registry.Binding(entity)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownEntity, entity)
	}
	return binding, nil
}
