package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone        string         `gorm:"type:varchar(50)" json:"phone"`
	Name         string         `gorm:"type:varchar(255)" json:"name"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	PositionID   *uint64        `gorm:"index" json:"position_id"`
	IsInstruct   bool           `gorm:"not null;default:true" json:"is_instruct"`
	Confirmed    bool           `gorm:"not null;default:true" json:"confirmed"`
	Blocked      bool           `gorm:"not null;default:false" json:"blocked"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Embedded goal lists, one column per period
	GoalDaily    []Goal `gorm:"serializer:json;type:text" json:"goal_daily"`
	GoalWeek     []Goal `gorm:"serializer:json;type:text" json:"goal_week"`
	GoalPrecious []Goal `gorm:"serializer:json;type:text" json:"goal_precious"`
	GoalMonth    []Goal `gorm:"serializer:json;type:text" json:"goal_month"`
	GoalYear     []Goal `gorm:"serializer:json;type:text" json:"goal_year"`

	// Relations
	Position *Position `gorm:"foreignKey:PositionID" json:"position,omitempty"`
	Tasks    []Task    `gorm:"foreignKey:UserID" json:"-"`
}

// IsAdmin reports whether the user's position grants access to the management pages.
func (u *User) IsAdmin() bool {
	return u.Position != nil && u.Position.IsAdmin
}

// Goals returns the goal list stored for period.
func (u *User) Goals(period GoalPeriod) []Goal {
	switch period {
	case GoalPeriodDaily:
		return u.GoalDaily
	case GoalPeriodWeek:
		return u.GoalWeek
	case GoalPeriodQuarter:
		return u.GoalPrecious
	case GoalPeriodMonth:
		return u.GoalMonth
	case GoalPeriodYear:
		return u.GoalYear
	default:
		return nil
	}
}

// SetGoals replaces the goal list stored for period.
func (u *User) SetGoals(period GoalPeriod, goals []Goal) {
	switch period {
	case GoalPeriodDaily:
		u.GoalDaily = goals
	case GoalPeriodWeek:
		u.GoalWeek = goals
	case GoalPeriodQuarter:
		u.GoalPrecious = goals
	case GoalPeriodMonth:
		u.GoalMonth = goals
	case GoalPeriodYear:
		u.GoalYear = goals
	}
}
