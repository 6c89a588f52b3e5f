package service

import (
	"context"
	"testing"
	"time"

	"coachpack/internal/domain"
	"coachpack/internal/planner"
	"coachpack/internal/saveq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalendarFixture(t *testing.T) (CalendarService, GoalService, *fakeEventRepo, *saveq.Queue) {
	t.Helper()
	saves := saveq.New(time.Hour) // never fires during a test
	goalRepo := newFakeGoalRepo()
	eventRepo := &fakeEventRepo{}
	goals := NewGoalService(goalRepo, saves)
	cal := NewCalendarService(eventRepo, goals)
	return cal, goals, eventRepo, saves
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestCalendarService_DropRoundTrip(t *testing.T) {
	ctx := context.Background()
	cal, goals, _, _ := newCalendarFixture(t)
	userID := "user-1"

	_, err := goals.SetGoal(ctx, userID, domain.CategoryBusiness, domain.Goal{
		GoalText: "Grow the consultancy",
		Actions: []domain.Action{
			{Text: "Call client", Frequency: domain.FrequencyWeekly},
			{Text: "Write proposal", Frequency: domain.FrequencyDaily},
		},
	})
	require.NoError(t, err)

	pool, err := cal.GetPool(ctx, userID)
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, "business-0", pool[0].ID)
	assert.Equal(t, "Call client", pool[0].Text)

	// Drop "Call client" onto a Monday.
	target := mustDate(t, "2025-01-13")
	event, err := cal.Drop(ctx, userID, planner.DropPayload{
		Kind:   planner.DragGoalAction,
		ItemID: "business-0",
		Date:   target,
	})
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "Call client", event.Title)
	assert.Equal(t, domain.CategoryBusiness, event.Category)
	assert.Equal(t, domain.ClockTime("09:00"), event.Time)
	assert.Equal(t, 60, event.Duration)
	assert.True(t, event.IsGoalAction)
	assert.True(t, target.Equal(event.Date))

	// The scheduled action left the pool.
	pool, err = cal.GetPool(ctx, userID)
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, "Write proposal", pool[0].Text)

	// Deleting the event restores the action to the pool.
	require.NoError(t, cal.DeleteEvent(ctx, userID, event.ID))
	pool, err = cal.GetPool(ctx, userID)
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, "Call client", pool[0].Text)
}

func TestCalendarService_DropConsumedItemIsNoOp(t *testing.T) {
	ctx := context.Background()
	cal, goals, eventRepo, _ := newCalendarFixture(t)
	userID := "user-1"

	_, err := goals.SetGoal(ctx, userID, domain.CategoryBody, domain.Goal{
		GoalText: "Run a half marathon",
		Actions:  []domain.Action{{Text: "Morning run", Frequency: domain.FrequencyDaily}},
	})
	require.NoError(t, err)

	target := mustDate(t, "2025-03-03")
	first, err := cal.Drop(ctx, userID, planner.DropPayload{
		Kind: planner.DragGoalAction, ItemID: "body-0", Date: target,
	})
	require.NoError(t, err)
	require.NotNil(t, first)

	// Second drop of the same (now consumed) item: silent no-op.
	second, err := cal.Drop(ctx, userID, planner.DropPayload{
		Kind: planner.DragGoalAction, ItemID: "body-0", Date: target,
	})
	require.NoError(t, err)
	assert.Nil(t, second)
	assert.Len(t, eventRepo.events, 1)
}

func TestCalendarService_DropMovesEventDateOnly(t *testing.T) {
	ctx := context.Background()
	cal, _, _, _ := newCalendarFixture(t)
	userID := "user-1"

	created, err := cal.CreateEvent(ctx, userID, domain.CalendarEvent{
		Title:    "Dentist",
		Date:     mustDate(t, "2025-04-01"),
		Time:     "14:30",
		Category: domain.CategoryPersonal,
		Duration: 45,
	})
	require.NoError(t, err)

	moved, err := cal.Drop(ctx, userID, planner.DropPayload{
		Kind:    planner.DragCalendarEvent,
		EventID: created.ID,
		Date:    mustDate(t, "2025-04-08"),
	})
	require.NoError(t, err)
	require.NotNil(t, moved)
	assert.True(t, mustDate(t, "2025-04-08").Equal(moved.Date))
	assert.Equal(t, domain.ClockTime("14:30"), moved.Time, "time survives a date move")
	assert.Equal(t, 45, moved.Duration)
}

func TestCalendarService_DropRejectsMilestoneMove(t *testing.T) {
	ctx := context.Background()
	cal, _, _, _ := newCalendarFixture(t)

	_, err := cal.Drop(ctx, "user-1", planner.DropPayload{
		Kind:    planner.DragCalendarEvent,
		EventID: "milestone-abc",
		Date:    mustDate(t, "2025-04-08"),
	})
	assert.ErrorIs(t, err, ErrMilestoneReadOnly)
}

func TestCalendarService_DropUnknownKind(t *testing.T) {
	ctx := context.Background()
	cal, _, _, _ := newCalendarFixture(t)

	_, err := cal.Drop(ctx, "user-1", planner.DropPayload{Kind: "sticker"})
	assert.ErrorIs(t, err, ErrInvalidDropKind)
}

func TestCalendarService_CreateEventValidation(t *testing.T) {
	ctx := context.Background()
	cal, _, _, _ := newCalendarFixture(t)
	userID := "user-1"

	t.Run("missing title", func(t *testing.T) {
		_, err := cal.CreateEvent(ctx, userID, domain.CalendarEvent{
			Date: mustDate(t, "2025-05-01"), Category: domain.CategoryPersonal,
		})
		assert.ErrorIs(t, err, ErrInvalidEvent)
	})

	t.Run("bad category", func(t *testing.T) {
		_, err := cal.CreateEvent(ctx, userID, domain.CalendarEvent{
			Title: "x", Date: mustDate(t, "2025-05-01"), Category: "chores",
		})
		assert.ErrorIs(t, err, ErrInvalidEvent)
	})

	t.Run("defaults applied", func(t *testing.T) {
		event, err := cal.CreateEvent(ctx, userID, domain.CalendarEvent{
			Title: "Plan week", Date: mustDate(t, "2025-05-01"), Category: domain.CategoryBalance,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ClockTime("09:00"), event.Time)
		assert.Equal(t, 60, event.Duration)
		assert.NotEmpty(t, event.ID)
	})

	t.Run("same date and time stack", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			_, err := cal.CreateEvent(ctx, userID, domain.CalendarEvent{
				Title: "Standup", Date: mustDate(t, "2025-05-02"), Time: "10:00",
				Category: domain.CategoryBusiness,
			})
			require.NoError(t, err)
		}
		events, err := cal.ListEvents(ctx, userID)
		require.NoError(t, err)
		stacked := 0
		for _, e := range events {
			if e.Title == "Standup" {
				stacked++
			}
		}
		assert.Equal(t, 2, stacked)
	})
}

func TestCalendarService_ToggleCompletedWritesThroughToMilestone(t *testing.T) {
	ctx := context.Background()
	cal, goals, _, _ := newCalendarFixture(t)
	userID := "user-1"

	goal, err := goals.SetGoal(ctx, userID, domain.CategoryBusiness, domain.Goal{
		GoalText: "Ship v2",
		Milestones: []domain.Milestone{
			{Title: "Beta release", DueDate: mustDate(t, "2025-06-15")},
		},
	})
	require.NoError(t, err)
	milestoneID := goal.Milestones[0].ID
	require.NotEmpty(t, milestoneID)

	entryID := planner.MilestoneIDPrefix + milestoneID
	require.NoError(t, cal.ToggleCompleted(ctx, userID, entryID))

	stored, err := goals.GetGoal(ctx, userID, domain.CategoryBusiness)
	require.NoError(t, err)
	require.True(t, stored.Milestones[0].Completed)
	require.NotNil(t, stored.Milestones[0].CompletedDate)

	// Double toggle is a clean round trip back to incomplete.
	require.NoError(t, cal.ToggleCompleted(ctx, userID, entryID))
	stored, err = goals.GetGoal(ctx, userID, domain.CategoryBusiness)
	require.NoError(t, err)
	assert.False(t, stored.Milestones[0].Completed)
	assert.Nil(t, stored.Milestones[0].CompletedDate)
}

func TestCalendarService_ToggleCompletedUnknownMilestone(t *testing.T) {
	ctx := context.Background()
	cal, _, _, _ := newCalendarFixture(t)

	err := cal.ToggleCompleted(ctx, "user-1", planner.MilestoneIDPrefix+"nope")
	assert.ErrorIs(t, err, ErrMilestoneNotFound)
}

func TestCalendarService_BuildViewMergesMilestones(t *testing.T) {
	ctx := context.Background()
	cal, goals, _, _ := newCalendarFixture(t)
	userID := "user-1"

	_, err := goals.SetGoal(ctx, userID, domain.CategoryBody, domain.Goal{
		GoalText: "Train",
		Milestones: []domain.Milestone{
			{Title: "First 10k", DueDate: mustDate(t, "2025-01-15")},
		},
	})
	require.NoError(t, err)
	_, err = cal.CreateEvent(ctx, userID, domain.CalendarEvent{
		Title: "Gym", Date: mustDate(t, "2025-01-15"), Time: "07:00",
		Category: domain.CategoryBody,
	})
	require.NoError(t, err)

	view, err := cal.BuildView(ctx, userID, planner.ViewDaily, mustDate(t, "2025-01-15"))
	require.NoError(t, err)
	daily, ok := view.(planner.DailyView)
	require.True(t, ok)

	titles := []string{}
	for _, slot := range daily.Slots {
		for _, entry := range slot.Entries {
			titles = append(titles, entry.Title)
		}
	}
	assert.Contains(t, titles, "Gym")
	assert.Contains(t, titles, "First 10k")
}

func TestCalendarService_BuildViewRejectsUnknownMode(t *testing.T) {
	ctx := context.Background()
	cal, _, _, _ := newCalendarFixture(t)

	_, err := cal.BuildView(ctx, "user-1", planner.ViewMode("monthly"), time.Now())
	assert.ErrorIs(t, err, ErrInvalidViewMode)
}

func TestCalendarService_UpdateEventTime(t *testing.T) {
	ctx := context.Background()
	cal, _, _, _ := newCalendarFixture(t)
	userID := "user-1"

	created, err := cal.CreateEvent(ctx, userID, domain.CalendarEvent{
		Title: "Review", Date: mustDate(t, "2025-02-10"), Category: domain.CategoryBusiness,
	})
	require.NoError(t, err)

	updated, err := cal.UpdateEventTime(ctx, userID, created.ID, "16:00")
	require.NoError(t, err)
	assert.Equal(t, domain.ClockTime("16:00"), updated.Time)

	_, err = cal.UpdateEventTime(ctx, userID, created.ID, "25:99")
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = cal.UpdateEventTime(ctx, userID, "missing", "10:00")
	assert.ErrorIs(t, err, ErrEventNotFound)
}
