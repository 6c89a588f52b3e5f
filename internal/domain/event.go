package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a local time of day in "HH:MM" form. Calendar events carry
// no timezone semantics beyond the user's local date and wall clock.
type ClockTime string

// DefaultEventTime is the time assigned to events created by dropping a
// pool action, and the fixed display time of projected milestones.
const DefaultEventTime ClockTime = "09:00"

// Hour returns the truncated hour component, or -1 when the value does
// not parse. Bucketing only ever needs the hour.
func (t ClockTime) Hour() int {
	h, _, err := t.Parse()
	if err != nil {
		return -1
	}
	return h
}

// Parse splits the value into hour and minute components.
func (t ClockTime) Parse() (hour, minute int, err error) {
	parts := strings.SplitN(string(t), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock time %q", string(t))
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid clock time %q", string(t))
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid clock time %q", string(t))
	}
	return hour, minute, nil
}

// IsValid reports whether the value parses as HH:MM.
func (t ClockTime) IsValid() bool {
	_, _, err := t.Parse()
	return err == nil
}

// CalendarEvent is a concrete scheduled entry: a local date, a clock
// time, a duration and a category. Events originating from a goal's
// action list carry IsGoalAction and keep the action's text verbatim,
// which is what ties them back to the action pool.
//
// No uniqueness is enforced on (date, time); overlapping events are
// permitted and simply render stacked.
type CalendarEvent struct {
	ID           string    `bson:"id" json:"id"`
	UserID       string    `bson:"userId" json:"-"`
	Title        string    `bson:"title" json:"title"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	Date         time.Time `bson:"date" json:"date"`
	Time         ClockTime `bson:"time" json:"time"`
	Category     Category  `bson:"category" json:"category"`
	Duration     int       `bson:"duration" json:"duration"` // minutes
	Frequency    Frequency `bson:"frequency,omitempty" json:"frequency,omitempty"`
	IsGoalAction bool      `bson:"isGoalAction,omitempty" json:"isGoalAction,omitempty"`
	Completed    bool      `bson:"completed,omitempty" json:"completed,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DateOnly truncates t to a UTC calendar date. All event dates are stored
// this way so range comparisons are plain time comparisons.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD wire date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// FormatDate renders a date in the YYYY-MM-DD wire form.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
