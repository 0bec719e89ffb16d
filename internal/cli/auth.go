package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/okr-dashboard/internal/client"
)

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [username-or-email]",
		Short: "Log in and store the session token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var identifier string
			if len(args) == 1 {
				identifier = args[0]
			} else {
				var err error
				if identifier, err = a.prompt(cmd, "Username or email: "); err != nil {
					return err
				}
			}

			password, err := a.promptSecret(cmd, "Password: ")
			if err != nil {
				return err
			}
			if identifier == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}

			user, err := a.session.Login(cmd.Context(), identifier, password)
			if err != nil {
				return err
			}
			a.user = user

			out := cmd.OutOrStdout()
			printSuccess(out, "Logged in as %s (%s)", user.Username, positionName(*user))
			fmt.Fprintf(out, "Next: %s\n", routeCommands[client.LandingRoute(user)])
			return nil
		},
	}
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (a *app) meCmd() *cobra.Command {
	return guarded(client.RouteProfile, &cobra.Command{
		Use:   "me",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderProfile(cmd.OutOrStdout(), a.user)
			return nil
		},
	})
}
