package planner

import (
	"coachpack/internal/domain"
)

// Milestone pseudo-events render at a fixed slot: 09:00, 30 minutes.
const (
	MilestoneIDPrefix = "milestone-"
	milestoneDuration = 30
	poolDropDuration  = 60
)

// Entry is what the views render: either a real calendar event or a
// milestone projected to look like one. The two are distinguished only
// by the IsMilestone flag.
type Entry struct {
	domain.CalendarEvent
	IsMilestone bool `json:"isMilestone,omitempty"`
}

// ProjectMilestones maps each goal's milestones onto calendar-displayable
// pseudo-events. Milestones without a title or due date are skipped. The
// projection is read-only: toggling completion on a projected milestone
// must write through to the owning goal, never to the projection.
func ProjectMilestones(goals domain.GoalSet) []Entry {
	entries := []Entry{}
	for _, goal := range goals.Ordered() {
		for _, m := range goal.Milestones {
			if m.Title == "" || m.DueDate.IsZero() {
				continue
			}
			entries = append(entries, Entry{
				IsMilestone: true,
				CalendarEvent: domain.CalendarEvent{
					ID:          MilestoneIDPrefix + m.ID,
					Title:       m.Title,
					Description: m.Description,
					Date:        domain.DateOnly(m.DueDate),
					Time:        domain.DefaultEventTime,
					Category:    goal.Category,
					Duration:    milestoneDuration,
					Completed:   m.Completed,
				},
			})
		}
	}
	return entries
}

// Combine merges real events and projected milestones into the single
// list the views consume.
func Combine(events []domain.CalendarEvent, milestones []Entry) []Entry {
	all := make([]Entry, 0, len(events)+len(milestones))
	for _, e := range events {
		all = append(all, Entry{CalendarEvent: e})
	}
	all = append(all, milestones...)
	return all
}
