package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"coachpack/internal/domain"
	"coachpack/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserRepo struct {
	users []domain.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	user.ID = primitive.NewObjectID()
	r.users = append(r.users, *user)
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	return append([]domain.User(nil), r.users...), nil
}

func (r *fakeUserRepo) SetPlan(ctx context.Context, id primitive.ObjectID, plan domain.PlanType) error {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].Plan = plan
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeUserRepo) SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) error {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].Verified = verified
			return nil
		}
	}
	return repository.ErrNotFound
}

func TestAdminService_ExportUsersCSV(t *testing.T) {
	ctx := context.Background()
	repo := &fakeUserRepo{users: []domain.User{
		{
			Name:       "Ada Lovelace",
			Email:      "ada@example.com",
			Plan:       domain.PlanPremium,
			Verified:   true,
			SignupDate: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
			CreatedAt:  time.Date(2025, 2, 3, 10, 30, 0, 0, time.UTC),
		},
		{
			Name:       "Grace Hopper",
			Email:      "grace@example.com",
			Plan:       domain.PlanFree,
			Verified:   false,
			SignupDate: time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
			CreatedAt:  time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC),
		},
	}}
	svc := NewAdminService(repo)

	raw, err := svc.ExportUsersCSV(ctx)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Email,Plan Type,Signup Date,Verified,Created At", lines[0])
	assert.Equal(t, "Ada Lovelace,ada@example.com,premium,2025-02-03,true,2025-02-03 10:30:00", lines[1])
	assert.Equal(t, "Grace Hopper,grace@example.com,free,2025-05-20,false,2025-05-20 08:00:00", lines[2])
}

func TestAdminService_ExportUsersCSVEmpty(t *testing.T) {
	svc := NewAdminService(&fakeUserRepo{})

	raw, err := svc.ExportUsersCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Name,Email,Plan Type,Signup Date,Verified,Created At\n", string(raw))
}
