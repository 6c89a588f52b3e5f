package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestAction_UnmarshalJSONLegacyString(t *testing.T) {
	t.Run("bare string", func(t *testing.T) {
		var a Action
		require.NoError(t, json.Unmarshal([]byte(`"Call client"`), &a))
		assert.Equal(t, "Call client", a.Text)
		assert.Equal(t, FrequencyWeekly, a.Frequency)
		assert.NotNil(t, a.SpecificDays)
		assert.Empty(t, a.SpecificDays)
	})

	t.Run("structured object", func(t *testing.T) {
		var a Action
		raw := `{"text": "Morning run", "frequency": "daily", "specificDays": [1, 3]}`
		require.NoError(t, json.Unmarshal([]byte(raw), &a))
		assert.Equal(t, "Morning run", a.Text)
		assert.Equal(t, FrequencyDaily, a.Frequency)
		assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday}, a.SpecificDays)
	})

	t.Run("unknown frequency falls back", func(t *testing.T) {
		var a Action
		require.NoError(t, json.Unmarshal([]byte(`{"text": "x", "frequency": "fortnightly"}`), &a))
		assert.Equal(t, FrequencyWeekly, a.Frequency)
	})

	t.Run("mixed list", func(t *testing.T) {
		var actions []Action
		raw := `["Call client", {"text": "Write proposal", "frequency": "daily"}]`
		require.NoError(t, json.Unmarshal([]byte(raw), &actions))
		require.Len(t, actions, 2)
		assert.Equal(t, "Call client", actions[0].Text)
		assert.Equal(t, FrequencyDaily, actions[1].Frequency)
	})
}

func TestAction_UnmarshalBSONLegacyString(t *testing.T) {
	type doc struct {
		Actions []Action `bson:"actions"`
	}

	// Build a record whose actions array mixes a legacy bare string with
	// the structured shape, as older stored goals do.
	raw, err := bson.Marshal(bson.M{
		"actions": bson.A{
			"Call client",
			bson.M{"text": "Write proposal", "frequency": "daily", "specificDays": bson.A{}},
		},
	})
	require.NoError(t, err)

	var d doc
	require.NoError(t, bson.Unmarshal(raw, &d))
	require.Len(t, d.Actions, 2)
	assert.Equal(t, "Call client", d.Actions[0].Text)
	assert.Equal(t, FrequencyWeekly, d.Actions[0].Frequency)
	assert.Equal(t, "Write proposal", d.Actions[1].Text)
	assert.Equal(t, FrequencyDaily, d.Actions[1].Frequency)
}

func TestMilestone_Toggle(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := Milestone{ID: "m1", Title: "Beta"}

	m.Toggle(now)
	assert.True(t, m.Completed)
	require.NotNil(t, m.CompletedDate)
	assert.Equal(t, now, *m.CompletedDate)

	m.Toggle(now.Add(time.Hour))
	assert.False(t, m.Completed)
	assert.Nil(t, m.CompletedDate)
}

func TestNewDefaultGoalSet(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC)
	set := NewDefaultGoalSet(now)

	require.Len(t, set.Goals, 3)
	for _, c := range GoalCategories() {
		goal, ok := set.Goals[c]
		require.True(t, ok)
		assert.Equal(t, c, goal.Category)
		assert.Empty(t, goal.GoalText)
		assert.NotNil(t, goal.Actions)
		assert.NotNil(t, goal.Milestones)
		// Twelve weeks out.
		assert.WithinDuration(t, now.Add(DefaultTargetHorizon), goal.TargetDate, 24*time.Hour)
	}
}

func TestGoalSet_Ordered(t *testing.T) {
	set := GoalSet{Goals: map[Category]Goal{
		CategoryBalance:  {Category: CategoryBalance, GoalText: "c"},
		CategoryBusiness: {Category: CategoryBusiness, GoalText: "a"},
	}}
	ordered := set.Ordered()
	require.Len(t, ordered, 2)
	assert.Equal(t, CategoryBusiness, ordered[0].Category)
	assert.Equal(t, CategoryBalance, ordered[1].Category)
}

func TestGoal_Normalize(t *testing.T) {
	g := Goal{Category: CategoryBody}
	g.Normalize()
	assert.NotNil(t, g.Actions)
	assert.NotNil(t, g.Milestones)
}
