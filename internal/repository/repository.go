package repository

import (
	"coachpack/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SetPlan(ctx context.Context, id primitive.ObjectID, plan domain.PlanType) error
	SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) error
}

// GoalRepository persists the per-user goals record. The record is
// replaced wholesale on write; callers read-modify-write.
type GoalRepository interface {
	Get(ctx context.Context, userID string) (*domain.GoalSet, error)
	Upsert(ctx context.Context, userID string, goals domain.GoalSet) error
}

// EventRepository persists concrete calendar events, keyed by their own
// id and partitioned by user id.
type EventRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CalendarEvent, error)
	GetByID(ctx context.Context, userID, eventID string) (*domain.CalendarEvent, error)
	Insert(ctx context.Context, event *domain.CalendarEvent) error
	Update(ctx context.Context, event *domain.CalendarEvent) error
	Delete(ctx context.Context, userID, eventID string) error
}

// WheelRepository persists the life-balance wheel record per user.
type WheelRepository interface {
	Get(ctx context.Context, userID string) (*domain.WheelData, error)
	Upsert(ctx context.Context, userID string, data domain.WheelData) error
}

// ValuesRepository persists the values-clarification record per user.
type ValuesRepository interface {
	Get(ctx context.Context, userID string) (*domain.ValuesData, error)
	Upsert(ctx context.Context, userID string, data domain.ValuesData) error
}

// VisionRepository persists the vision-board record per user.
type VisionRepository interface {
	Get(ctx context.Context, userID string) (*domain.VisionBoard, error)
	Upsert(ctx context.Context, userID string, board domain.VisionBoard) error
}
