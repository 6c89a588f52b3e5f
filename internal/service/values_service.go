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
)

// How many values the ranked shortlist may hold.
const maxTopValues = 5

// ErrTooManyTopValues rejects a shortlist longer than the card sort allows.
var ErrTooManyTopValues = errors.New("top values list exceeds the shortlist size")

// ValuesService is the values-clarification store: the kept card-sort
// words plus the ranked shortlist, saved with the same debounce policy
// as the other feature stores.
type ValuesService interface {
	Get(ctx context.Context, userID string) (domain.ValuesData, error)
	Save(ctx context.Context, userID string, data domain.ValuesData) (domain.ValuesData, error)
}

type valuesService struct {
	valuesRepo repository.ValuesRepository
	saves      *saveq.Queue

	mu    sync.Mutex
	cache map[string]domain.ValuesData
}

// NewValuesService creates a new instance of valuesService.
func NewValuesService(valuesRepo repository.ValuesRepository, saves *saveq.Queue) ValuesService {
	return &valuesService{
		valuesRepo: valuesRepo,
		saves:      saves,
		cache:      make(map[string]domain.ValuesData),
	}
}

func (s *valuesService) Get(ctx context.Context, userID string) (domain.ValuesData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data, ok := s.cache[userID]; ok {
		return data, nil
	}
	stored, err := s.valuesRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			data := domain.ValuesData{}
			data.Normalize()
			s.cache[userID] = data
			return data, nil
		}
		return domain.ValuesData{}, err
	}
	s.cache[userID] = *stored
	return *stored, nil
}

func (s *valuesService) Save(ctx context.Context, userID string, data domain.ValuesData) (domain.ValuesData, error) {
	data.Normalize()
	if len(data.TopValues) > maxTopValues {
		return domain.ValuesData{}, ErrTooManyTopValues
	}
	data.LastUpdated = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[userID] = data
	s.saves.Enqueue(fmt.Sprintf("values:%s", userID), func(ctx context.Context) error {
		return s.valuesRepo.Upsert(ctx, userID, data)
	})
	return data, nil
}
