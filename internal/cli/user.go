package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/okr-dashboard/internal/client"
)

func (a *app) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "user",
		Aliases: []string{"users"},
		Short:   "Manage users (administrators only)",
	}
	cmd.AddCommand(
		a.userListCmd(),
		a.userAddCmd(),
		a.userEditCmd(),
		a.userDeleteCmd(),
	)
	guardedAll(client.RouteUsers, cmd)

	cmd.AddCommand(guarded(client.RouteManageTask, a.userTasksCmd()))
	return cmd
}

func (a *app) userListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.session.Client.ListUsers(cmd.Context(), page, pageSize)
			if err != nil {
				return err
			}
			renderUsers(cmd.OutOrStdout(), resp.Data)
			p := resp.Meta.Pagination
			fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d (%d users)\n", p.Page, p.PageCount, p.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "users per page")
	return cmd
}

func (a *app) userAddCmd() *cobra.Command {
	var user client.NewUser
	var positionID uint64

	cmd := &cobra.Command{
		Use:   "add USERNAME EMAIL",
		Short: "Create a user; a password is generated unless --password is given",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user.Username, user.Email = args[0], args[1]
			if positionID != 0 {
				user.PositionID = &positionID
			}

			resp, err := a.session.Client.CreateUser(cmd.Context(), user)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuccess(out, "Created user #%d %s", resp.Data.ID, resp.Data.Username)
			if resp.GeneratedPassword != "" {
				fmt.Fprintf(out, "Initial password: %s\n", resp.GeneratedPassword)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&user.Name, "name", "", "display name")
	cmd.Flags().StringVar(&user.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&user.Password, "password", "", "initial password")
	cmd.Flags().Uint64Var(&positionID, "position", 0, "position id")
	return cmd
}

func (a *app) userEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change user fields; only the given flags are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			fields := map[string]any{}
			for _, name := range []string{"name", "email", "phone"} {
				if flags.Changed(name) {
					fields[name], _ = flags.GetString(name)
				}
			}
			if flags.Changed("position") {
				positionID, _ := flags.GetUint64("position")
				if positionID == 0 {
					fields["postion"] = nil
				} else {
					fields["postion"] = positionID
				}
			}
			if flags.Changed("blocked") {
				fields["blocked"], _ = flags.GetBool("blocked")
			}
			if flags.Changed("confirmed") {
				fields["confirmed"], _ = flags.GetBool("confirmed")
			}
			if len(fields) == 0 {
				return fmt.Errorf("nothing to change")
			}

			updated, err := a.session.Client.UpdateUser(cmd.Context(), id, fields)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Updated user #%d", updated.ID)
			return nil
		},
	}

	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("phone", "", "phone number")
	cmd.Flags().Uint64("position", 0, "position id, 0 to unassign")
	cmd.Flags().Bool("blocked", false, "block or unblock the user")
	cmd.Flags().Bool("confirmed", false, "confirmation flag")
	return cmd
}

func (a *app) userDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a user and their tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.session.Client.DeleteUser(cmd.Context(), id); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted user #%d", id)
			return nil
		},
	}
}

func (a *app) userTasksCmd() *cobra.Command {
	var date, pdfPath string

	cmd := &cobra.Command{
		Use:   "tasks ID",
		Short: "Show a user's tasks for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := client.ParseDate(date); err != nil {
				return err
			}

			user, err := a.session.Client.GetUser(cmd.Context(), id, false)
			if err != nil {
				return err
			}
			return a.showDay(cmd, user.ID, user.Username, date, pdfPath)
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "day to show (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write the day view to this PDF file")
	return cmd
}
