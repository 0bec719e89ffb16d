package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/yukikurage/okr-dashboard/internal/constants"
	"github.com/yukikurage/okr-dashboard/internal/models"
)

// SortForDisplay orders tasks for the day view: important tasks first, and
// within the same importance Done tasks before the rest. Ties keep their
// fetch order.
func SortForDisplay(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.IsImportant != b.IsImportant {
			return a.IsImportant
		}
		return a.IsDone() && !b.IsDone()
	})
}

// TotalHours sums the estimated hours of tasks.
func TotalHours(tasks []models.Task) float64 {
	var total float64
	for _, task := range tasks {
		total += task.Hours
	}
	return total
}

// DayBounds returns the [start, end) interval of the calendar day named by
// date in loc. An empty date means the current day.
func DayBounds(date string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	date = strings.TrimSpace(date)
	var day time.Time
	if date == "" {
		local := now.In(loc)
		day = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	} else {
		parsed, err := time.ParseInLocation(constants.DateLayout, date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
		day = parsed
	}

	return day, day.AddDate(0, 0, 1), nil
}

// hoursBetween returns the elapsed hours from start to end rounded to two
// decimals, never negative.
func hoursBetween(start, end time.Time) float64 {
	hours := end.Sub(start).Hours()
	if hours < 0 {
		return 0
	}
	return math.Round(hours*100) / 100
}
