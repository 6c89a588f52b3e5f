// Package planner holds the pure goal-to-calendar logic: deriving the
// unscheduled action pool, projecting milestones into calendar entries,
// computing view ranges and buckets, and resolving drag/drop payloads.
// Nothing in this package touches persistence; everything is a function
// of the goal and event state passed in.
package planner

import (
	"fmt"
	"time"

	"coachpack/internal/domain"
)

// PoolItem is one unscheduled goal action. Pool items have no persisted
// identity of their own; the id is just the owning category plus the
// action's index in its goal's list.
type PoolItem struct {
	ID           string           `json:"id"`
	Category     domain.Category  `json:"category"`
	Text         string           `json:"text"`
	Frequency    domain.Frequency `json:"frequency"`
	SpecificDays []time.Weekday   `json:"specificDays"`
}

// PoolItemID builds the derived identity for an action.
func PoolItemID(category domain.Category, index int) string {
	return fmt.Sprintf("%s-%d", category, index)
}

// DerivePool computes the set of goal actions not yet placed on the
// calendar. An action is considered scheduled as soon as a single event
// exists with IsGoalAction set, the same category and the same text;
// scheduling the same action twice is not prevented, but one match is
// enough to remove it from the pool.
//
// Categories iterate in the fixed business, body, balance order and
// action order within a goal is preserved. The result is recomputed on
// every call; goal and event counts are small enough that caching would
// only add invalidation bugs.
func DerivePool(goals domain.GoalSet, events []domain.CalendarEvent) []PoolItem {
	pool := []PoolItem{}
	for _, goal := range goals.Ordered() {
		for i, action := range goal.Actions {
			if action.Text == "" {
				continue
			}
			if actionScheduled(goal.Category, action.Text, events) {
				continue
			}
			pool = append(pool, PoolItem{
				ID:           PoolItemID(goal.Category, i),
				Category:     goal.Category,
				Text:         action.Text,
				Frequency:    action.Frequency,
				SpecificDays: action.SpecificDays,
			})
		}
	}
	return pool
}

// FindPoolItem looks up a derived pool item by id. A nil result means the
// item is gone, typically because the action was scheduled in between.
func FindPoolItem(pool []PoolItem, id string) *PoolItem {
	for i := range pool {
		if pool[i].ID == id {
			return &pool[i]
		}
	}
	return nil
}

func actionScheduled(category domain.Category, text string, events []domain.CalendarEvent) bool {
	for _, e := range events {
		if e.IsGoalAction && e.Category == category && e.Title == text {
			return true
		}
	}
	return false
}
