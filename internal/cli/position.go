package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yukikurage/okr-dashboard/internal/client"
)

func (a *app) positionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "position",
		Aliases: []string{"positions"},
		Short:   "Manage positions (administrators only)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List positions",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				resp, err := a.session.Client.ListPositions(cmd.Context(), 1, 100)
				if err != nil {
					return err
				}
				renderPositions(cmd.OutOrStdout(), resp.Data)
				return nil
			},
		},
		a.positionAddCmd(),
		a.positionEditCmd(),
		&cobra.Command{
			Use:     "rm ID",
			Aliases: []string{"delete"},
			Short:   "Delete a position; its users become unassigned",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.session.Client.DeletePosition(cmd.Context(), id); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Deleted position #%d", id)
				return nil
			},
		},
	)
	return guardedAll(client.RoutePosition, cmd)
}

func (a *app) positionAddCmd() *cobra.Command {
	var isAdmin bool

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a position",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := a.session.Client.CreatePosition(cmd.Context(), strings.Join(args, " "), isAdmin)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Created position #%d %s", position.ID, position.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&isAdmin, "admin", false, "grant administrator access")
	return cmd
}

func (a *app) positionEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Rename a position or change its admin flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			fields := map[string]any{}
			if cmd.Flags().Changed("name") {
				fields["name"], _ = cmd.Flags().GetString("name")
			}
			if cmd.Flags().Changed("admin") {
				fields["is_admin"], _ = cmd.Flags().GetBool("admin")
			}
			if len(fields) == 0 {
				return fmt.Errorf("nothing to change")
			}

			position, err := a.session.Client.UpdatePosition(cmd.Context(), id, fields)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Updated position #%d %s", position.ID, position.Name)
			return nil
		},
	}

	cmd.Flags().String("name", "", "new name")
	cmd.Flags().Bool("admin", false, "administrator access")
	return cmd
}
