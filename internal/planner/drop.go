package planner

import (
	"time"

	"coachpack/internal/domain"
)

// DragKind identifies what is being dragged onto a date cell.
type DragKind string

const (
	DragGoalAction    DragKind = "goal-action"    // a pool item being scheduled
	DragCalendarEvent DragKind = "calendar-event" // an existing event being moved
)

// DropPayload is the reconciled drag payload: one item kind plus the
// target date cell.
type DropPayload struct {
	Kind    DragKind
	ItemID  string // pool item id, for goal-action drops
	EventID string // event id, for calendar-event drops
	Date    time.Time
}

// EventFromPoolItem constructs the calendar event a goal-action drop
// produces: dated at the target cell, defaulted to 09:00 for 60 minutes,
// category and frequency copied from the action, and marked as a goal
// action so the pool deriver counts it as scheduled.
func EventFromPoolItem(item PoolItem, date time.Time) domain.CalendarEvent {
	return domain.CalendarEvent{
		Title:        item.Text,
		Date:         domain.DateOnly(date),
		Time:         domain.DefaultEventTime,
		Category:     item.Category,
		Duration:     poolDropDuration,
		Frequency:    item.Frequency,
		IsGoalAction: true,
	}
}
