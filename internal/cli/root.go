package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"nomadeAdmin/internal/modules/admin/application/usecase"
)

const annotationPublic = "public"

// NewRootCommand builds the adminctl command tree. Every command except login and the
// entity listing needs a signed-in session.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "adminctl",
		Short:         "Operate the Nomade booking catalog from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationPublic] == "true" {
				return nil
			}
			return app.session.Require()
		},
	}
	root.SetOut(app.out)
	root.SetErr(app.errOut)

	root.AddCommand(
		app.loginCommand(),
		app.logoutCommand(),
		app.whoamiCommand(),
		app.entitiesCommand(),
		app.listCommand(),
		app.showCommand(),
		app.statsCommand(),
		app.createCommand(),
		app.updateCommand(),
		app.deleteCommand(),
		app.galleryCommand(),
	)
	return root
}

func public(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationPublic] = "true"
	return cmd
}

// reportInvalid prints field errors of a rejected form, one per line.
func (a *App) reportInvalid(err error) error {
	var invalid *usecase.ValidationError
	if !errors.As(err, &invalid) {
		return err
	}
	names := make([]string, 0, len(invalid.Fields))
	for name := range invalid.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(a.errOut, "  %s: %s\n", name, invalid.Fields[name])
	}
	return err
}
