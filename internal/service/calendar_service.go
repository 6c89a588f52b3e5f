package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"coachpack/internal/domain"
	"coachpack/internal/planner"
	"coachpack/internal/repository"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrEventNotFound     = errors.New("calendar event not found")
	ErrInvalidEvent      = errors.New("calendar event validation failed")
	ErrInvalidViewMode   = errors.New("unknown calendar view mode")
	ErrInvalidDropKind   = errors.New("unknown drag payload kind")
	ErrMilestoneReadOnly = errors.New("projected milestones cannot be edited as events")
)

// CalendarService owns the calendar event store and everything derived
// from it: the unscheduled action pool, the projected milestone entries
// and the aggregated views. Event mutations write through synchronously;
// there is no debounce on this path, so a drop or drag is durable as
// soon as the call returns.
type CalendarService interface {
	ListEvents(ctx context.Context, userID string) ([]domain.CalendarEvent, error)
	CreateEvent(ctx context.Context, userID string, event domain.CalendarEvent) (*domain.CalendarEvent, error)
	DeleteEvent(ctx context.Context, userID, eventID string) error
	UpdateEventDate(ctx context.Context, userID, eventID string, date time.Time) (*domain.CalendarEvent, error)
	UpdateEventTime(ctx context.Context, userID, eventID string, clock domain.ClockTime) (*domain.CalendarEvent, error)
	ToggleCompleted(ctx context.Context, userID, entryID string) error

	GetPool(ctx context.Context, userID string) ([]planner.PoolItem, error)
	Drop(ctx context.Context, userID string, payload planner.DropPayload) (*domain.CalendarEvent, error)
	BuildView(ctx context.Context, userID string, mode planner.ViewMode, anchor time.Time) (interface{}, error)
}

// calendarService implements the CalendarService interface.
type calendarService struct {
	eventRepo repository.EventRepository
	goals     GoalService
}

// NewCalendarService creates a new instance of calendarService.
func NewCalendarService(eventRepo repository.EventRepository, goals GoalService) CalendarService {
	return &calendarService{
		eventRepo: eventRepo,
		goals:     goals,
	}
}

// ListEvents returns all of a user's concrete events.
func (s *calendarService) ListEvents(ctx context.Context, userID string) ([]domain.CalendarEvent, error) {
	return s.eventRepo.ListByUser(ctx, userID)
}

// CreateEvent validates and stores a new event. Overlaps are allowed;
// two events at the same date and time simply stack.
func (s *calendarService) CreateEvent(ctx context.Context, userID string, event domain.CalendarEvent) (*domain.CalendarEvent, error) {
	if event.Title == "" || event.Date.IsZero() {
		return nil, ErrInvalidEvent
	}
	if !event.Category.IsEventCategory() {
		return nil, ErrInvalidEvent
	}
	if event.Time == "" {
		event.Time = domain.DefaultEventTime
	}
	if !event.Time.IsValid() {
		return nil, ErrInvalidEvent
	}
	if event.Duration <= 0 {
		event.Duration = 60
	}

	event.ID = uuid.NewString()
	event.UserID = userID
	event.Date = domain.DateOnly(event.Date)

	if err := s.eventRepo.Insert(ctx, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// DeleteEvent removes an event. Deleting the only event scheduled from a
// goal action returns that action to the pool.
func (s *calendarService) DeleteEvent(ctx context.Context, userID, eventID string) error {
	err := s.eventRepo.Delete(ctx, userID, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEventNotFound
	}
	return err
}

// UpdateEventDate moves an event to a new date, leaving every other
// field untouched. This is the reschedule half of drag and drop.
func (s *calendarService) UpdateEventDate(ctx context.Context, userID, eventID string, date time.Time) (*domain.CalendarEvent, error) {
	return s.mutateEvent(ctx, userID, eventID, func(e *domain.CalendarEvent) {
		e.Date = domain.DateOnly(date)
	})
}

// UpdateEventTime sets an event's time of day (inline time edit).
func (s *calendarService) UpdateEventTime(ctx context.Context, userID, eventID string, clock domain.ClockTime) (*domain.CalendarEvent, error) {
	if !clock.IsValid() {
		return nil, ErrInvalidEvent
	}
	return s.mutateEvent(ctx, userID, eventID, func(e *domain.CalendarEvent) {
		e.Time = clock
	})
}

// ToggleCompleted flips completion on a calendar entry. Projected
// milestone entries ("milestone-" ids) write through to the owning
// goal's milestone list; everything else toggles the event record.
func (s *calendarService) ToggleCompleted(ctx context.Context, userID, entryID string) error {
	if strings.HasPrefix(entryID, planner.MilestoneIDPrefix) {
		milestoneID := strings.TrimPrefix(entryID, planner.MilestoneIDPrefix)
		_, err := s.goals.ToggleMilestoneByID(ctx, userID, milestoneID)
		return err
	}
	_, err := s.mutateEvent(ctx, userID, entryID, func(e *domain.CalendarEvent) {
		e.Completed = !e.Completed
	})
	return err
}

// GetPool derives the set of goal actions not yet on the calendar.
func (s *calendarService) GetPool(ctx context.Context, userID string) ([]planner.PoolItem, error) {
	goals, err := s.goals.GetGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return planner.DerivePool(goals, events), nil
}

// Drop reconciles a drag payload with its target date cell.
//
// A goal-action drop schedules the pool item as a new event; if the item
// is no longer in the pool (consumed by an earlier drop) the operation is
// a silent no-op and returns nil. A calendar-event drop moves the event.
func (s *calendarService) Drop(ctx context.Context, userID string, payload planner.DropPayload) (*domain.CalendarEvent, error) {
	switch payload.Kind {
	case planner.DragGoalAction:
		pool, err := s.GetPool(ctx, userID)
		if err != nil {
			return nil, err
		}
		item := planner.FindPoolItem(pool, payload.ItemID)
		if item == nil {
			return nil, nil // already consumed; silently drop the drop
		}
		event := planner.EventFromPoolItem(*item, payload.Date)
		event.ID = uuid.NewString()
		event.UserID = userID
		if err := s.eventRepo.Insert(ctx, &event); err != nil {
			return nil, err
		}
		return &event, nil

	case planner.DragCalendarEvent:
		if strings.HasPrefix(payload.EventID, planner.MilestoneIDPrefix) {
			return nil, ErrMilestoneReadOnly
		}
		return s.UpdateEventDate(ctx, userID, payload.EventID, payload.Date)

	default:
		return nil, ErrInvalidDropKind
	}
}

// BuildView computes the aggregated calendar for a view mode and anchor
// date, merging concrete events with projected milestones.
func (s *calendarService) BuildView(ctx context.Context, userID string, mode planner.ViewMode, anchor time.Time) (interface{}, error) {
	goals, err := s.goals.GetGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	all := planner.Combine(events, planner.ProjectMilestones(goals))

	switch mode {
	case planner.ViewDaily:
		return planner.BuildDailyView(anchor, all), nil
	case planner.ViewWeekly:
		return planner.BuildWeeklyView(anchor, all), nil
	case planner.ViewNinety:
		return planner.BuildNinetyDayView(anchor, all), nil
	case planner.ViewYearly:
		return planner.BuildYearlyView(anchor, all), nil
	}
	return nil, ErrInvalidViewMode
}

// mutateEvent loads, mutates and rewrites one event record.
func (s *calendarService) mutateEvent(ctx context.Context, userID, eventID string, fn func(*domain.CalendarEvent)) (*domain.CalendarEvent, error) {
	event, err := s.eventRepo.GetByID(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	fn(event)
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}
