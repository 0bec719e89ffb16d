package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/okr-dashboard/internal/client"
)

func (a *app) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Client preferences",
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "guide [on|off]",
		Short:     "Show or toggle the guide tips",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Guide: %s\n", onOff(a.user.IsInstruct))
				return nil
			}

			var enabled bool
			switch args[0] {
			case "on":
				enabled = true
			case "off":
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}

			user, err := a.session.Client.SetGuide(cmd.Context(), a.user.ID, enabled)
			if err != nil {
				return err
			}
			a.user = user
			printSuccess(cmd.OutOrStdout(), "Guide %s", onOff(user.IsInstruct))
			a.hint(cmd.OutOrStdout(), "turn tips off with `okrctl settings guide off`")
			return nil
		},
	})
	return guardedAll(client.RouteSettings, cmd)
}

func (a *app) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderProfile(cmd.OutOrStdout(), a.user)
			return nil
		},
	}

	update := &cobra.Command{
		Use:   "update",
		Short: "Change your name, email or phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields := map[string]any{}
			for _, name := range []string{"name", "email", "phone"} {
				if cmd.Flags().Changed(name) {
					fields[name], _ = cmd.Flags().GetString(name)
				}
			}
			if len(fields) == 0 {
				return fmt.Errorf("nothing to change")
			}

			user, err := a.session.Client.UpdateUser(cmd.Context(), a.user.ID, fields)
			if err != nil {
				return err
			}
			a.user = user
			printSuccess(cmd.OutOrStdout(), "Profile updated")
			return nil
		},
	}
	update.Flags().String("name", "", "display name")
	update.Flags().String("email", "", "email address")
	update.Flags().String("phone", "", "phone number")

	password := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current, err := a.promptSecret(cmd, "Current password: ")
			if err != nil {
				return err
			}
			next, err := a.promptSecret(cmd, "New password: ")
			if err != nil {
				return err
			}
			confirm, err := a.promptSecret(cmd, "Confirm new password: ")
			if err != nil {
				return err
			}

			if err := a.session.Client.ChangePassword(cmd.Context(), current, next, confirm); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Password changed")
			return nil
		},
	}

	cmd.AddCommand(update, password)
	guarded(client.RouteProfile, cmd)
	return guardedAll(client.RouteProfile, cmd)
}
