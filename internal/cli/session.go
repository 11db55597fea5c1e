package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *App) loginCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session for later commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(email) == "" {
				var err error
				if email, err = a.prompt("Email: "); err != nil {
					return err
				}
			}
			password, err := a.password()
			if err != nil {
				return err
			}
			record, err := a.sessionUC.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed in as %s\n", record.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "operator email")
	return public(cmd)
}

func (a *App) logoutCommand() *cobra.Command {
	return public(&cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.sessionUC.Logout(cmd.Context(), a.session.Token()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	})
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in operator",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			user, _ := a.sessionUC.Current(a.session.Token())
			fmt.Fprintln(a.out, user.Email)
			return nil
		},
	}
}
