package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/constants"
)

// ParseDate accepts a calendar date (2006-01-02) or an RFC3339 timestamp and
// returns the UTC calendar date.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(constants.DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return Today(t), nil
}

// Today truncates t to midnight UTC.
func Today(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar date, or nil when absent.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(constants.DateLayout)
	return &s
}
