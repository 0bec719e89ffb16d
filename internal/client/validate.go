package client

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/okr-dashboard/internal/constants"
)

var (
	ErrProgressOutOfRange = fmt.Errorf("progress must be between %d and %d", constants.MinProgress, constants.MaxProgress)
	ErrInvalidDate        = errors.New("date must use the YYYY-MM-DD format")
)

// ValidateProgress rejects progress values outside 0-100.
func ValidateProgress(progress int) error {
	if progress < constants.MinProgress || progress > constants.MaxProgress {
		return ErrProgressOutOfRange
	}
	return nil
}

// ParseDate parses a calendar day. An empty string yields nil.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(constants.DateLayout, value)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}
