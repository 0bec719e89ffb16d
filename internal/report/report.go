// Package report renders dashboard statistics and task lists as PDF.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/yukikurage/okr-dashboard/internal/dto"
)

const (
	pageWidth  = 190.0
	labelWidth = 60.0
	valueWidth = 20.0
	barHeight  = 6.0
)

func newDocument(title string, generatedAt time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, title)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, "Generated "+generatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(12)
	return pdf
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, text)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
}

// bucketChart draws one horizontal bar per bucket scaled to the largest
// value.
func bucketChart(pdf *fpdf.Fpdf, buckets []dto.Bucket) {
	if len(buckets) == 0 {
		pdf.Cell(0, 8, "  - No data.")
		pdf.Ln(8)
		return
	}

	maxValue := 0
	for _, b := range buckets {
		maxValue = max(maxValue, b.Value)
	}
	barSpace := pageWidth - labelWidth - valueWidth

	pdf.SetFillColor(70, 130, 180)
	for _, b := range buckets {
		pdf.CellFormat(labelWidth, barHeight+2, b.Type, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueWidth, barHeight+2, fmt.Sprint(b.Value), "", 0, "R", false, 0, "")
		if maxValue > 0 && b.Value > 0 {
			width := max(barSpace*float64(b.Value)/float64(maxValue)-2, 1)
			pdf.Rect(pdf.GetX()+2, pdf.GetY()+1, width, barHeight, "F")
		}
		pdf.Ln(barHeight + 2)
	}
	pdf.Ln(4)
}

// Dashboard writes the administrator statistics as a PDF to w.
func Dashboard(w io.Writer, stats *dto.DashboardStats, generatedAt time.Time) error {
	pdf := newDocument("OKR Dashboard", generatedAt)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Users: %d    Tasks: %d    Positions: %d",
		stats.TotalUsers, stats.TotalTasks, len(stats.Positions)))
	pdf.Ln(12)

	heading(pdf, "Users by position")
	bucketChart(pdf, stats.UsersByPosition)

	heading(pdf, "Tasks by status")
	bucketChart(pdf, stats.TasksByStatus)

	heading(pdf, "Deadlines")
	bucketChart(pdf, stats.Deadlines)

	return pdf.Output(w)
}

// Tasks writes one user's day view as a PDF to w.
func Tasks(w io.Writer, owner string, view *dto.DayViewResponse, generatedAt time.Time) error {
	pdf := newDocument(fmt.Sprintf("Tasks of %s: %s", owner, view.Date), generatedAt)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	columns := []struct {
		title string
		width float64
	}{
		{"", 10}, {"Title", 90}, {"Status", 30}, {"Progress", 25}, {"Hours", 20}, {"Deadline", 15},
	}
	for _, col := range columns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, task := range view.Data {
		mark := ""
		if task.IsImportant {
			mark = "!"
		}
		deadline := "-"
		if task.Deadline != nil {
			deadline = task.Deadline.Format("01/02")
		}
		cells := []string{
			mark,
			truncate(task.Title, 48),
			string(task.Status),
			fmt.Sprintf("%d%%", task.Progress),
			fmt.Sprintf("%.2f", task.Hours),
			deadline,
		}
		for i, text := range cells {
			pdf.CellFormat(columns[i].width, 7, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Total hours: %.2f", view.TotalHours))

	return pdf.Output(w)
}

func truncate(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n-1]) + "~"
}
