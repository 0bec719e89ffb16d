package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yukikurage/okr-dashboard/internal/client"
	"github.com/yukikurage/okr-dashboard/internal/dto"
	"github.com/yukikurage/okr-dashboard/internal/models"
	"github.com/yukikurage/okr-dashboard/internal/report"
)

func parseID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func writePDF(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func (a *app) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage your daily tasks",
	}
	cmd.AddCommand(
		a.taskListCmd(),
		a.taskAddCmd(),
		a.taskEditCmd(),
		a.taskStartCmd(),
		a.taskProgressCmd(),
		a.taskCompleteCmd(),
		a.taskDeleteCmd(),
		a.taskSuggestCmd(),
	)
	return guardedAll(client.RouteTask, cmd)
}

// showDay renders a user's day view, or writes it as PDF when pdfPath is
// set.
func (a *app) showDay(cmd *cobra.Command, userID uint64, owner, date, pdfPath string) error {
	view, err := a.session.Client.DayTasks(cmd.Context(), userID, date)
	if err != nil {
		return err
	}

	if pdfPath != "" {
		err := writePDF(pdfPath, func(f *os.File) error {
			return report.Tasks(f, owner, view, time.Now())
		})
		if err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), "Wrote %s", pdfPath)
		return nil
	}

	renderDay(cmd.OutOrStdout(), view)
	return nil
}

func (a *app) taskListCmd() *cobra.Command {
	var date, status, pdfPath string
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your tasks for a day, most relevant first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := client.ParseDate(date); err != nil {
				return err
			}
			if !all && status == "" {
				if err := a.showDay(cmd, a.user.ID, a.user.Username, date, pdfPath); err != nil {
					return err
				}
				a.hint(cmd.OutOrStdout(), "start a task with `okrctl task start ID`")
				return nil
			}

			page, err := a.session.Client.ListTasks(cmd.Context(), client.TaskQuery{Status: status, Date: date, PageSize: 100})
			if err != nil {
				return err
			}
			renderTasks(cmd.OutOrStdout(), page.Data)
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d tasks\n", len(page.Data), page.Meta.Pagination.Total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "day to show (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&status, "status", "", "only tasks with this status")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every visible task instead of one day")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write the day view to this PDF file")
	return cmd
}

func (a *app) taskAddCmd() *cobra.Command {
	var task client.NewTask
	var deadline string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task.Title = strings.Join(args, " ")
			d, err := client.ParseDate(deadline)
			if err != nil {
				return err
			}
			task.Deadline = d

			created, err := a.session.Client.CreateTask(cmd.Context(), task)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Created task #%d", created.ID)
			renderTask(cmd.OutOrStdout(), created)
			return nil
		},
	}

	cmd.Flags().StringVar(&task.Description, "description", "", "task description")
	cmd.Flags().Float64Var(&task.Hours, "hours", 0, "estimated hours")
	cmd.Flags().BoolVarP(&task.IsImportant, "important", "i", false, "mark the task important")
	cmd.Flags().BoolVar(&task.Repeat, "repeat", false, "repeat the task")
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline (YYYY-MM-DD)")
	cmd.Flags().Uint64Var(&task.UserID, "for", 0, "owner user id (administrators only)")
	return cmd
}

func (a *app) taskEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change task fields; only the given flags are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			fields := map[string]any{}
			for _, name := range []string{"title", "description"} {
				if flags.Changed(name) {
					fields[name], _ = flags.GetString(name)
				}
			}
			if flags.Changed("status") {
				v, _ := flags.GetString("status")
				if status := models.TaskStatus(v); !status.Valid() {
					return fmt.Errorf("unknown status %q", v)
				}
				fields["status"] = v
			}
			if flags.Changed("hours") {
				fields["hours"], _ = flags.GetFloat64("hours")
			}
			if flags.Changed("important") {
				fields["is_important"], _ = flags.GetBool("important")
			}
			if flags.Changed("repeat") {
				fields["repeat"], _ = flags.GetBool("repeat")
			}
			if flags.Changed("progress") {
				fields["progress"], _ = flags.GetInt("progress")
			}
			if flags.Changed("deadline") {
				v, _ := flags.GetString("deadline")
				if v == "" || v == "none" {
					fields["deadline"] = nil
				} else {
					d, err := client.ParseDate(v)
					if err != nil {
						return err
					}
					fields["deadline"] = d
				}
			}
			if len(fields) == 0 {
				return fmt.Errorf("nothing to change")
			}

			updated, err := a.session.Client.UpdateTask(cmd.Context(), id, fields)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Updated task #%d", updated.ID)
			renderTask(cmd.OutOrStdout(), updated)
			return nil
		},
	}

	cmd.Flags().String("title", "", "new title")
	cmd.Flags().String("description", "", "new description")
	cmd.Flags().String("status", "", "None, In progress, Pending or Done")
	cmd.Flags().Float64("hours", 0, "estimated hours")
	cmd.Flags().Bool("important", false, "importance flag")
	cmd.Flags().Bool("repeat", false, "repeat flag")
	cmd.Flags().Int("progress", 0, "progress (0-100)")
	cmd.Flags().String("deadline", "", "deadline (YYYY-MM-DD, or none to clear)")
	return cmd
}

// taskActionCmd builds a command that applies action to one task.
func (a *app) taskActionCmd(use, short, done string, action func(cmd *cobra.Command, id uint64) (*dto.TaskDTO, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := action(cmd, id)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "%s task #%d", done, task.ID)
			renderTask(cmd.OutOrStdout(), task)
			return nil
		},
	}
}

func (a *app) taskStartCmd() *cobra.Command {
	return a.taskActionCmd("start", "Start working on a task", "Started", func(cmd *cobra.Command, id uint64) (*dto.TaskDTO, error) {
		return a.session.Client.StartTask(cmd.Context(), id)
	})
}

func (a *app) taskCompleteCmd() *cobra.Command {
	cmd := a.taskActionCmd("done", "Mark a task done", "Completed", func(cmd *cobra.Command, id uint64) (*dto.TaskDTO, error) {
		return a.session.Client.CompleteTask(cmd.Context(), id)
	})
	cmd.Aliases = []string{"complete"}
	return cmd
}

func (a *app) taskProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress ID PERCENT",
		Short: "Set a task's progress (0-100)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			progress, err := strconv.Atoi(strings.TrimSuffix(args[1], "%"))
			if err != nil {
				return fmt.Errorf("invalid progress %q", args[1])
			}

			task, err := a.session.Client.UpdateProgress(cmd.Context(), id, progress)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Task #%d is at %d%%", task.ID, task.Progress)
			return nil
		},
	}
}

func (a *app) taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.session.Client.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted task #%d", id)
			return a.showDay(cmd, a.user.ID, a.user.Username, "", "")
		},
	}
}

func (a *app) taskSuggestCmd() *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "suggest TEXT",
		Short: "Extract task drafts from free text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts, err := a.session.Client.SuggestTasks(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			renderDrafts(cmd.OutOrStdout(), drafts)
			if !create {
				a.hint(cmd.OutOrStdout(), "rerun with --create to add these tasks")
				return nil
			}

			for _, d := range drafts {
				created, err := a.session.Client.CreateTask(cmd.Context(), client.NewTask{
					Title:       d.Title,
					Description: d.Description,
					Deadline:    d.Deadline,
					IsImportant: d.IsImportant,
					Hours:       d.Hours,
				})
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Created task #%d %s", created.ID, created.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&create, "create", false, "create every suggested task")
	return cmd
}
