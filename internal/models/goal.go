package models

import "time"

type GoalPeriod string

const (
	GoalPeriodDaily   GoalPeriod = "daily"
	GoalPeriodWeek    GoalPeriod = "week"
	GoalPeriodQuarter GoalPeriod = "quarter"
	GoalPeriodMonth   GoalPeriod = "month"
	GoalPeriodYear    GoalPeriod = "year"
)

// GoalPeriods lists every period in display order.
var GoalPeriods = []GoalPeriod{
	GoalPeriodDaily,
	GoalPeriodWeek,
	GoalPeriodQuarter,
	GoalPeriodMonth,
	GoalPeriodYear,
}

// Valid reports whether p is one of the known periods.
func (p GoalPeriod) Valid() bool {
	for _, known := range GoalPeriods {
		if p == known {
			return true
		}
	}
	return false
}

// Column returns the users table column holding the period's goals.
func (p GoalPeriod) Column() string {
	switch p {
	case GoalPeriodDaily:
		return "goal_daily"
	case GoalPeriodWeek:
		return "goal_week"
	case GoalPeriodQuarter:
		return "goal_precious"
	case GoalPeriodMonth:
		return "goal_month"
	case GoalPeriodYear:
		return "goal_year"
	default:
		return ""
	}
}

// Goal is a target quantity tracked for one period. Goals live inside the
// owning user's record and have no table of their own.
type Goal struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Progress    int       `json:"progress"`
	Period      string    `json:"period,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
