package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/yukikurage/okr-dashboard/internal/dto"
	"github.com/yukikurage/okr-dashboard/internal/models"
)

var (
	primaryColor = lipgloss.Color("#7D56F4")
	greenColor   = lipgloss.Color("#04B575")
	redColor     = lipgloss.Color("#FF5F87")
	yellowColor  = lipgloss.Color("#F3C623")
	mutedColor   = lipgloss.Color("#6C6C6C")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	hintStyle    = lipgloss.NewStyle().Italic(true).Foreground(mutedColor)
	successStyle = lipgloss.NewStyle().Foreground(greenColor)
	barStyle     = lipgloss.NewStyle().Foreground(primaryColor)
)

var statusStyles = map[models.TaskStatus]lipgloss.Style{
	models.TaskStatusNone:       lipgloss.NewStyle().Foreground(mutedColor),
	models.TaskStatusInProgress: lipgloss.NewStyle().Foreground(yellowColor),
	models.TaskStatusPending:    lipgloss.NewStyle().Foreground(redColor),
	models.TaskStatusDone:       lipgloss.NewStyle().Foreground(greenColor),
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(format, args...)))
}

func formatDeadline(task dto.TaskDTO) string {
	if task.Deadline == nil {
		return "-"
	}
	return task.Deadline.Format("2006-01-02")
}

func formatStatus(status models.TaskStatus) string {
	style, ok := statusStyles[status]
	if !ok {
		return string(status)
	}
	return style.Render(string(status))
}

func renderTasks(w io.Writer, tasks []dto.TaskDTO) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, hintStyle.Render("No tasks."))
		return
	}

	t := newTable("ID", "", "TITLE", "STATUS", "PROGRESS", "HOURS", "DEADLINE")
	for _, task := range tasks {
		mark := ""
		if task.IsImportant {
			mark = "★"
		}
		t.Row(
			strconv.FormatUint(task.ID, 10),
			mark,
			task.Title,
			formatStatus(task.Status),
			fmt.Sprintf("%d%%", task.Progress),
			strconv.FormatFloat(task.Hours, 'f', -1, 64),
			formatDeadline(task),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func renderDay(w io.Writer, view *dto.DayViewResponse) {
	printTitle(w, "Tasks for "+view.Date)
	renderTasks(w, view.Data)
	fmt.Fprintf(w, "Total hours: %s\n", strconv.FormatFloat(view.TotalHours, 'f', -1, 64))
}

func renderTask(w io.Writer, task *dto.TaskDTO) {
	renderTasks(w, []dto.TaskDTO{*task})
}

func renderDrafts(w io.Writer, drafts []dto.TaskDraft) {
	t := newTable("#", "TITLE", "HOURS", "IMPORTANT", "DEADLINE")
	for i, d := range drafts {
		deadline := "-"
		if d.Deadline != nil {
			deadline = d.Deadline.Format("2006-01-02")
		}
		t.Row(strconv.Itoa(i+1), d.Title, strconv.FormatFloat(d.Hours, 'f', -1, 64), strconv.FormatBool(d.IsImportant), deadline)
	}
	fmt.Fprintln(w, t.Render())
}

func renderGoals(w io.Writer, period string, goals []models.Goal) {
	printTitle(w, "Goals: "+period)
	if len(goals) == 0 {
		fmt.Fprintln(w, hintStyle.Render("No goals."))
		return
	}

	t := newTable("ID", "NAME", "QUANTITY", "PROGRESS", "CREATED")
	for _, g := range goals {
		t.Row(g.ID, g.Name, strconv.Itoa(g.Quantity), progressBar(g.Progress, 10), g.CreatedAt.Format("2006-01-02"))
	}
	fmt.Fprintln(w, t.Render())
}

func positionName(u dto.UserDTO) string {
	if u.Position == nil {
		return "-"
	}
	return u.Position.Name
}

func renderUsers(w io.Writer, users []dto.UserDTO) {
	t := newTable("ID", "USERNAME", "NAME", "EMAIL", "POSITION", "BLOCKED")
	for _, u := range users {
		t.Row(strconv.FormatUint(u.ID, 10), u.Username, u.Name, u.Email, positionName(u), strconv.FormatBool(u.Blocked))
	}
	fmt.Fprintln(w, t.Render())
}

func renderProfile(w io.Writer, u *dto.UserDTO) {
	printTitle(w, u.Username)
	rows := [][]string{
		{"ID", strconv.FormatUint(u.ID, 10)},
		{"Name", u.Name},
		{"Email", u.Email},
		{"Phone", u.Phone},
		{"Position", positionName(*u)},
		{"Guide", onOff(u.IsInstruct)},
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 0 {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

func renderPositions(w io.Writer, positions []dto.PositionDTO) {
	t := newTable("ID", "NAME", "ADMIN")
	for _, p := range positions {
		t.Row(strconv.FormatUint(p.ID, 10), p.Name, strconv.FormatBool(p.IsAdmin))
	}
	fmt.Fprintln(w, t.Render())
}

func renderBuckets(w io.Writer, title string, buckets []dto.Bucket) {
	printTitle(w, title)

	maxValue := 0
	for _, b := range buckets {
		maxValue = max(maxValue, b.Value)
	}

	t := newTable("", "COUNT", "")
	for _, b := range buckets {
		width := 0
		if maxValue > 0 {
			width = b.Value * 30 / maxValue
		}
		t.Row(b.Type, strconv.Itoa(b.Value), barStyle.Render(strings.Repeat("█", width)))
	}
	fmt.Fprintln(w, t.Render())
}

func renderDashboard(w io.Writer, stats *dto.DashboardStats) {
	fmt.Fprintf(w, "Users: %d  Tasks: %d  Positions: %d\n\n", stats.TotalUsers, stats.TotalTasks, len(stats.Positions))
	renderBuckets(w, "Users by position", stats.UsersByPosition)
	renderBuckets(w, "Tasks by status", stats.TasksByStatus)
	renderBuckets(w, "Deadlines", stats.Deadlines)
}

func progressBar(progress, width int) string {
	filled := progress * width / 100
	return strings.Repeat("■", filled) + strings.Repeat("□", width-filled) + fmt.Sprintf(" %d%%", progress)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
