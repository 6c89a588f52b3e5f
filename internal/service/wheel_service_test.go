package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"coachpack/internal/domain"
	"coachpack/internal/saveq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWheelService_GetSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewWheelService(newFakeWheelRepo(), saveq.New(time.Hour))

	data, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, data.LifeAreas, 8)
	assert.Equal(t, "Career", data.LifeAreas[0].Name)
	assert.Equal(t, "area-1", data.LifeAreas[0].ID)
	assert.Equal(t, "not_started", data.CompletionStatus)
}

func TestWheelService_ImportRejectsSnapshotWithoutLifeAreas(t *testing.T) {
	ctx := context.Background()
	repo := newFakeWheelRepo()
	svc := NewWheelService(repo, saveq.New(time.Hour))
	userID := "user-1"

	// Establish stored state first.
	saved, err := svc.Save(ctx, userID, domain.WheelData{
		LifeAreas: []domain.LifeArea{{ID: "area-1", Name: "Career", Score: 7}},
	})
	require.NoError(t, err)

	_, err = svc.Import(ctx, userID, []byte(`{"reflections":{"area-1":"fine"}}`))
	assert.ErrorIs(t, err, domain.ErrWheelMissingLifeAreas)

	_, err = svc.Import(ctx, userID, []byte(`{not json`))
	assert.ErrorIs(t, err, domain.ErrWheelMalformed)

	// The rejected imports left the working copy untouched.
	current, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	require.Len(t, current.LifeAreas, 1)
	assert.Equal(t, saved.LifeAreas[0].Score, current.LifeAreas[0].Score)
}

func TestWheelService_ImportWritesThrough(t *testing.T) {
	ctx := context.Background()
	repo := newFakeWheelRepo()
	svc := NewWheelService(repo, saveq.New(time.Hour))
	userID := "user-1"

	snapshot := []byte(`{
		"lifeAreas": [{"id": "area-1", "name": "Health", "score": 9}],
		"reflections": {"area-1": "feeling strong"},
		"completionStatus": "completed"
	}`)
	data, err := svc.Import(ctx, userID, snapshot)
	require.NoError(t, err)
	assert.Equal(t, 9, data.LifeAreas[0].Score)
	assert.False(t, data.LastUpdated.IsZero())

	// Import bypasses the debounce: the repository already has it.
	stored, ok := repo.docs[userID]
	require.True(t, ok)
	assert.Equal(t, "Health", stored.LifeAreas[0].Name)
	assert.Equal(t, "feeling strong", stored.Reflections["area-1"])
}

func TestWheelService_ImportSurfacesRepositoryFailure(t *testing.T) {
	ctx := context.Background()
	repo := newFakeWheelRepo()
	repo.failing = true
	svc := NewWheelService(repo, saveq.New(time.Hour))

	_, err := svc.Import(ctx, "user-1", []byte(`{"lifeAreas": []}`))
	assert.Error(t, err)
}

func TestWheelService_ExportRoundTrips(t *testing.T) {
	ctx := context.Background()
	svc := NewWheelService(newFakeWheelRepo(), saveq.New(time.Hour))
	userID := "user-1"

	_, err := svc.Save(ctx, userID, domain.WheelData{
		LifeAreas:   []domain.LifeArea{{ID: "area-1", Name: "Finances", Score: 4}},
		Reflections: map[string]string{"area-1": "tight month"},
	})
	require.NoError(t, err)

	raw, err := svc.Export(ctx, userID)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "lifeAreas")
	assert.Contains(t, decoded, "reflections")
	assert.Contains(t, decoded, "lastUpdated")

	// An exported snapshot is always importable.
	_, err = svc.Import(ctx, userID, raw)
	assert.NoError(t, err)
}

func TestWheelService_SaveDebounces(t *testing.T) {
	ctx := context.Background()
	repo := newFakeWheelRepo()
	saves := saveq.New(10 * time.Millisecond)
	svc := NewWheelService(repo, saves)
	userID := "user-1"

	for score := 1; score <= 5; score++ {
		_, err := svc.Save(ctx, userID, domain.WheelData{
			LifeAreas: []domain.LifeArea{{ID: "area-1", Name: "Career", Score: score}},
		})
		require.NoError(t, err)
	}
	saves.Flush()

	stored, ok := repo.docs[userID]
	require.True(t, ok)
	assert.Equal(t, 5, stored.LifeAreas[0].Score, "trailing save wins")
}
