package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"coachpack/internal/domain"
	"coachpack/internal/repository"
	"coachpack/internal/saveq"
)

// Default life areas seeded for users with no stored wheel yet.
var defaultLifeAreas = []string{
	"Career",
	"Finances",
	"Health",
	"Family & Friends",
	"Romance",
	"Personal Growth",
	"Fun & Recreation",
	"Environment",
}

// WheelService is the life-balance wheel store. Saves from the normal
// edit flow debounce like the goal store; imports are user-initiated and
// therefore validated up front and written through immediately, so a bad
// snapshot can never clobber stored data.
type WheelService interface {
	Get(ctx context.Context, userID string) (domain.WheelData, error)
	Save(ctx context.Context, userID string, data domain.WheelData) (domain.WheelData, error)
	Import(ctx context.Context, userID string, snapshot []byte) (domain.WheelData, error)
	Export(ctx context.Context, userID string) ([]byte, error)
}

// wheelService implements the WheelService interface.
type wheelService struct {
	wheelRepo repository.WheelRepository
	saves     *saveq.Queue

	mu    sync.Mutex
	cache map[string]domain.WheelData
}

// NewWheelService creates a new instance of wheelService.
func NewWheelService(wheelRepo repository.WheelRepository, saves *saveq.Queue) WheelService {
	return &wheelService{
		wheelRepo: wheelRepo,
		saves:     saves,
		cache:     make(map[string]domain.WheelData),
	}
}

// Get returns the user's wheel, seeding the default life areas (score
// zero, no reflections) when nothing is stored yet.
func (s *wheelService) Get(ctx context.Context, userID string) (domain.WheelData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, userID)
}

// Save replaces the wheel record and schedules the debounced write.
func (s *wheelService) Save(ctx context.Context, userID string, data domain.WheelData) (domain.WheelData, error) {
	data.Normalize()
	data.LastUpdated = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[userID] = data
	s.saves.Enqueue(fmt.Sprintf("wheel:%s", userID), func(ctx context.Context) error {
		return s.wheelRepo.Upsert(ctx, userID, data)
	})
	return data, nil
}

// Import validates a JSON snapshot and, only if it is well formed,
// replaces the stored wheel. A snapshot missing the lifeAreas array is
// rejected with an explicit error and current data stays untouched.
func (s *wheelService) Import(ctx context.Context, userID string, snapshot []byte) (domain.WheelData, error) {
	data, err := domain.ParseWheelSnapshot(snapshot)
	if err != nil {
		return domain.WheelData{}, err
	}
	if data.LastUpdated.IsZero() {
		data.LastUpdated = time.Now().UTC()
	}

	// User-initiated: write through, no debounce, and surface failures.
	if err := s.wheelRepo.Upsert(ctx, userID, *data); err != nil {
		return domain.WheelData{}, err
	}

	s.mu.Lock()
	s.cache[userID] = *data
	s.mu.Unlock()
	return *data, nil
}

// Export renders the canonical JSON snapshot:
// {lifeAreas, reflections, lastUpdated, completionStatus}.
func (s *wheelService) Export(ctx context.Context, userID string) ([]byte, error) {
	data, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

func (s *wheelService) loadLocked(ctx context.Context, userID string) (domain.WheelData, error) {
	if data, ok := s.cache[userID]; ok {
		return data, nil
	}
	stored, err := s.wheelRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			data := defaultWheel()
			s.cache[userID] = data
			return data, nil
		}
		return domain.WheelData{}, err
	}
	s.cache[userID] = *stored
	return *stored, nil
}

func defaultWheel() domain.WheelData {
	data := domain.WheelData{
		LifeAreas:        make([]domain.LifeArea, 0, len(defaultLifeAreas)),
		Reflections:      map[string]string{},
		CompletionStatus: "not_started",
	}
	for i, name := range defaultLifeAreas {
		data.LifeAreas = append(data.LifeAreas, domain.LifeArea{
			ID:   fmt.Sprintf("area-%d", i+1),
			Name: name,
		})
	}
	return data
}
