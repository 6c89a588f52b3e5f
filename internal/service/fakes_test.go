package service

import (
	"context"
	"sync"
	"time"

	"coachpack/internal/domain"
	"coachpack/internal/repository"
)

// In-memory repositories for service tests.

type fakeGoalRepo struct {
	mu   sync.Mutex
	docs map[string]domain.GoalSet
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{docs: map[string]domain.GoalSet{}}
}

func (r *fakeGoalRepo) Get(ctx context.Context, userID string) (*domain.GoalSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.docs[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &set, nil
}

func (r *fakeGoalRepo) Upsert(ctx context.Context, userID string, goals domain.GoalSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[userID] = goals
	return nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events []domain.CalendarEvent
}

func (r *fakeEventRepo) ListByUser(ctx context.Context, userID string) ([]domain.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.CalendarEvent{}
	for _, e := range r.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, userID, eventID string) (*domain.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		if r.events[i].UserID == userID && r.events[i].ID == eventID {
			e := r.events[i]
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeEventRepo) Insert(ctx context.Context, event *domain.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *domain.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		if r.events[i].UserID == event.UserID && r.events[i].ID == event.ID {
			r.events[i] = *event
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeEventRepo) Delete(ctx context.Context, userID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		if r.events[i].UserID == userID && r.events[i].ID == eventID {
			r.events = append(r.events[:i], r.events[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeWheelRepo struct {
	mu      sync.Mutex
	docs    map[string]domain.WheelData
	failing bool
}

func newFakeWheelRepo() *fakeWheelRepo {
	return &fakeWheelRepo{docs: map[string]domain.WheelData{}}
}

func (r *fakeWheelRepo) Get(ctx context.Context, userID string) (*domain.WheelData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.docs[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &data, nil
}

func (r *fakeWheelRepo) Upsert(ctx context.Context, userID string, data domain.WheelData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return repository.ErrUpdateFailed
	}
	r.docs[userID] = data
	return nil
}

type fakeVisionRepo struct {
	mu   sync.Mutex
	docs map[string]domain.VisionBoard
}

func newFakeVisionRepo() *fakeVisionRepo {
	return &fakeVisionRepo{docs: map[string]domain.VisionBoard{}}
}

func (r *fakeVisionRepo) Get(ctx context.Context, userID string) (*domain.VisionBoard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	board, ok := r.docs[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &board, nil
}

func (r *fakeVisionRepo) Upsert(ctx context.Context, userID string, board domain.VisionBoard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[userID] = board
	return nil
}

type fakeImageStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (s *fakeImageStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (s *fakeImageStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (s *fakeImageStorage) DeleteObject(ctx context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, objectKey)
	return nil
}
