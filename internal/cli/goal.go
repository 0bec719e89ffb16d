package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yukikurage/okr-dashboard/internal/client"
	"github.com/yukikurage/okr-dashboard/internal/models"
)

func (a *app) goalCmd() *cobra.Command {
	var userID uint64

	cmd := &cobra.Command{
		Use:     "goal",
		Aliases: []string{"goals"},
		Short:   "Manage daily, weekly, monthly, quarterly and yearly goals",
	}
	cmd.PersistentFlags().Uint64Var(&userID, "user", 0, "goal owner (default yourself)")

	owner := func() uint64 {
		if userID != 0 {
			return userID
		}
		return a.user.ID
	}

	cmd.AddCommand(
		a.goalListCmd(owner),
		a.goalAddCmd(owner),
		a.goalEditCmd(owner),
		a.goalDeleteCmd(owner),
	)
	return guardedAll(client.RouteGoal, cmd)
}

func parsePeriod(arg string) (string, error) {
	period := models.GoalPeriod(strings.ToLower(strings.TrimSpace(arg)))
	if !period.Valid() {
		names := make([]string, len(models.GoalPeriods))
		for i, p := range models.GoalPeriods {
			names[i] = string(p)
		}
		return "", fmt.Errorf("unknown period %q, want one of %s", arg, strings.Join(names, ", "))
	}
	return string(period), nil
}

func (a *app) goalListCmd(owner func() uint64) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list PERIOD",
		Short: "List the goals of a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := parsePeriod(args[0])
			if err != nil {
				return err
			}
			if _, err := client.ParseDate(date); err != nil {
				return err
			}

			goals, err := a.session.Client.Goals(cmd.Context(), owner(), period, date)
			if err != nil {
				return err
			}
			renderGoals(cmd.OutOrStdout(), period, goals)
			a.hint(cmd.OutOrStdout(), "update progress with `okrctl goal edit %s ID --progress N`", period)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "only goals created on this day (YYYY-MM-DD)")
	return cmd
}

func (a *app) goalAddCmd(owner func() uint64) *cobra.Command {
	var goal client.NewGoal

	cmd := &cobra.Command{
		Use:   "add PERIOD NAME",
		Short: "Add a goal",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := parsePeriod(args[0])
			if err != nil {
				return err
			}
			goal.Name = strings.Join(args[1:], " ")

			goals, err := a.session.Client.AddGoal(cmd.Context(), owner(), period, goal)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Added goal %q", goal.Name)
			renderGoals(cmd.OutOrStdout(), period, goals)
			return nil
		},
	}

	cmd.Flags().StringVar(&goal.Description, "description", "", "goal description")
	cmd.Flags().IntVarP(&goal.Quantity, "quantity", "q", 0, "target quantity")
	return cmd
}

func (a *app) goalEditCmd(owner func() uint64) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit PERIOD ID",
		Short: "Change goal fields; only the given flags are sent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := parsePeriod(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			fields := map[string]any{}
			if flags.Changed("name") {
				fields["name"], _ = flags.GetString("name")
			}
			if flags.Changed("description") {
				fields["description"], _ = flags.GetString("description")
			}
			if flags.Changed("quantity") {
				fields["quantity"], _ = flags.GetInt("quantity")
			}
			if flags.Changed("progress") {
				fields["progress"], _ = flags.GetInt("progress")
			}
			if len(fields) == 0 {
				return fmt.Errorf("nothing to change")
			}

			goals, err := a.session.Client.EditGoal(cmd.Context(), owner(), period, args[1], fields)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Updated goal %s", args[1])
			renderGoals(cmd.OutOrStdout(), period, goals)
			return nil
		},
	}

	cmd.Flags().String("name", "", "new name")
	cmd.Flags().String("description", "", "new description")
	cmd.Flags().Int("quantity", 0, "target quantity")
	cmd.Flags().Int("progress", 0, "progress (0-100)")
	return cmd
}

func (a *app) goalDeleteCmd(owner func() uint64) *cobra.Command {
	return &cobra.Command{
		Use:     "rm PERIOD ID",
		Aliases: []string{"delete"},
		Short:   "Delete a goal",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := parsePeriod(args[0])
			if err != nil {
				return err
			}

			goals, err := a.session.Client.DeleteGoal(cmd.Context(), owner(), period, args[1])
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted goal %s", args[1])
			renderGoals(cmd.OutOrStdout(), period, goals)
			return nil
		},
	}
}
