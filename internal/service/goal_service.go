package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"coachpack/internal/domain"
	"coachpack/internal/repository"
	"coachpack/internal/saveq"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrInvalidCategory   = errors.New("not a valid goal category")
	ErrMilestoneNotFound = errors.New("milestone not found")
)

// GoalService is the goal store: whole-record get/set per category plus
// the milestone completion write-through used by the calendar projection.
//
// Reads and writes go through an in-memory working copy per user;
// persistence happens in the background through the debounced save
// queue, so rapid edits collapse into one remote write. Save failures
// are logged and swallowed, the next mutation schedules another attempt.
type GoalService interface {
	GetGoals(ctx context.Context, userID string) (domain.GoalSet, error)
	GetGoal(ctx context.Context, userID string, category domain.Category) (domain.Goal, error)
	SetGoal(ctx context.Context, userID string, category domain.Category, goal domain.Goal) (domain.Goal, error)
	ToggleMilestone(ctx context.Context, userID string, category domain.Category, milestoneID string) (*domain.Milestone, error)
	ToggleMilestoneByID(ctx context.Context, userID, milestoneID string) (*domain.Milestone, error)
}

// goalService implements the GoalService interface.
type goalService struct {
	goalRepo repository.GoalRepository
	saves    *saveq.Queue

	mu    sync.Mutex
	cache map[string]domain.GoalSet // working copy per user id
}

// NewGoalService creates a new instance of goalService.
func NewGoalService(goalRepo repository.GoalRepository, saves *saveq.Queue) GoalService {
	return &goalService{
		goalRepo: goalRepo,
		saves:    saves,
		cache:    make(map[string]domain.GoalSet),
	}
}

// GetGoals returns the user's full goal set, falling back to the
// documented defaults (empty goals, twelve-week target dates) when the
// user has no stored record yet.
func (s *goalService) GetGoals(ctx context.Context, userID string) (domain.GoalSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, err := s.loadLocked(ctx, userID)
	if err != nil {
		return domain.GoalSet{}, err
	}
	// Callers iterate the result after the lock is released, so they get
	// a copy rather than the working set the writers mutate.
	return copyGoalSet(set), nil
}

// GetGoal returns a single category's goal.
func (s *goalService) GetGoal(ctx context.Context, userID string, category domain.Category) (domain.Goal, error) {
	if !category.IsGoalCategory() {
		return domain.Goal{}, ErrInvalidCategory
	}
	set, err := s.GetGoals(ctx, userID)
	if err != nil {
		return domain.Goal{}, err
	}
	goal, ok := set.Goals[category]
	if !ok {
		goal = domain.NewDefaultGoal(category, time.Now())
	}
	return goal, nil
}

// SetGoal replaces the whole goal record for a category. There are no
// partial patch semantics at this level; callers read-modify-write.
func (s *goalService) SetGoal(ctx context.Context, userID string, category domain.Category, goal domain.Goal) (domain.Goal, error) {
	if !category.IsGoalCategory() {
		return domain.Goal{}, ErrInvalidCategory
	}

	goal.Category = category
	goal.Normalize()
	if goal.TargetDate.IsZero() {
		goal.TargetDate = domain.NewDefaultGoal(category, time.Now()).TargetDate
	}
	for i := range goal.Milestones {
		if goal.Milestones[i].ID == "" {
			goal.Milestones[i].ID = uuid.NewString()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.loadLocked(ctx, userID)
	if err != nil {
		return domain.Goal{}, err
	}
	set.Goals[category] = goal
	s.cache[userID] = set
	s.scheduleSaveLocked(userID, set)

	// The cache keeps its own slices; the caller serializes the result
	// outside the lock.
	return copyGoal(goal), nil
}

// ToggleMilestone flips completion on one milestone of a category's goal,
// stamping or clearing CompletedDate as the state transitions.
func (s *goalService) ToggleMilestone(ctx context.Context, userID string, category domain.Category, milestoneID string) (*domain.Milestone, error) {
	if !category.IsGoalCategory() {
		return nil, ErrInvalidCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.loadLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	goal, ok := set.Goals[category]
	if !ok {
		return nil, ErrMilestoneNotFound
	}
	m := goal.FindMilestone(milestoneID)
	if m == nil {
		return nil, ErrMilestoneNotFound
	}
	m.Toggle(time.Now())
	set.Goals[category] = goal
	s.cache[userID] = set
	s.scheduleSaveLocked(userID, set)

	toggled := *m
	return &toggled, nil
}

// ToggleMilestoneByID searches every goal category for the milestone.
// This is the write-through path for completion toggles on projected
// calendar milestones, where only the milestone id is known.
func (s *goalService) ToggleMilestoneByID(ctx context.Context, userID, milestoneID string) (*domain.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.loadLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, category := range domain.GoalCategories() {
		goal, ok := set.Goals[category]
		if !ok {
			continue
		}
		m := goal.FindMilestone(milestoneID)
		if m == nil {
			continue
		}
		m.Toggle(time.Now())
		set.Goals[category] = goal
		s.cache[userID] = set
		s.scheduleSaveLocked(userID, set)

		toggled := *m
		return &toggled, nil
	}
	return nil, ErrMilestoneNotFound
}

// loadLocked returns the working copy for a user, reading through to the
// repository on first access. Callers hold s.mu.
func (s *goalService) loadLocked(ctx context.Context, userID string) (domain.GoalSet, error) {
	if set, ok := s.cache[userID]; ok {
		return set, nil
	}
	stored, err := s.goalRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			set := domain.NewDefaultGoalSet(time.Now())
			s.cache[userID] = set
			return set, nil
		}
		return domain.GoalSet{}, err
	}
	s.cache[userID] = *stored
	return *stored, nil
}

// scheduleSaveLocked snapshots the set and enqueues the debounced write.
// Callers hold s.mu; the snapshot keeps the save independent of later
// cache mutations.
func (s *goalService) scheduleSaveLocked(userID string, set domain.GoalSet) {
	snapshot := copyGoalSet(set)
	s.saves.Enqueue(fmt.Sprintf("goals:%s", userID), func(ctx context.Context) error {
		return s.goalRepo.Upsert(ctx, userID, snapshot)
	})
}

func copyGoalSet(set domain.GoalSet) domain.GoalSet {
	out := domain.GoalSet{Goals: make(map[domain.Category]domain.Goal, len(set.Goals))}
	for c, g := range set.Goals {
		out.Goals[c] = copyGoal(g)
	}
	return out
}

func copyGoal(g domain.Goal) domain.Goal {
	g.Actions = append([]domain.Action(nil), g.Actions...)
	g.Milestones = append([]domain.Milestone(nil), g.Milestones...)
	return g
}
