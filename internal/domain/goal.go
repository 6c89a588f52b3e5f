package domain

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// DefaultTargetHorizon is how far out a freshly created goal's target
// date is set when the user has no stored data yet (12 weeks).
const DefaultTargetHorizon = 12 * 7 * 24 * time.Hour

// Action is a recurring behavior attached to a Goal. Older records
// persisted actions as plain strings; both UnmarshalJSON and
// UnmarshalBSONValue accept that legacy shape and normalize it to
// {text, frequency "weekly", no specific days} on read. The stored
// record is left untouched until the next full write.
type Action struct {
	Text         string         `bson:"text" json:"text"`
	Frequency    Frequency      `bson:"frequency" json:"frequency"`
	SpecificDays []time.Weekday `bson:"specificDays" json:"specificDays"`
}

// actionAlias avoids recursing into the custom unmarshalers.
type actionAlias Action

func (a *Action) normalize() {
	if a.Frequency == "" || !a.Frequency.IsValid() {
		a.Frequency = FrequencyWeekly
	}
	if a.SpecificDays == nil {
		a.SpecificDays = []time.Weekday{}
	}
}

// UnmarshalJSON accepts either the structured action object or a bare
// legacy string.
func (a *Action) UnmarshalJSON(data []byte) error {
	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		*a = Action{Text: legacy}
		a.normalize()
		return nil
	}
	var alias actionAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*a = Action(alias)
	a.normalize()
	return nil
}

// UnmarshalBSONValue accepts either an embedded document or a bare
// legacy string stored by earlier versions of the goals record.
func (a *Action) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	if t == bson.TypeString {
		*a = Action{Text: raw.StringValue()}
		a.normalize()
		return nil
	}
	var alias actionAlias
	if err := raw.Unmarshal(&alias); err != nil {
		return err
	}
	*a = Action(alias)
	a.normalize()
	return nil
}

// Milestone is a dated, completable checkpoint embedded in a Goal. It is
// never persisted independently; it lives and dies with its goal record.
type Milestone struct {
	ID            string     `bson:"id" json:"id"`
	Title         string     `bson:"title" json:"title"`
	Description   string     `bson:"description,omitempty" json:"description,omitempty"`
	DueDate       time.Time  `bson:"dueDate" json:"dueDate"`
	Completed     bool       `bson:"completed" json:"completed"`
	CompletedDate *time.Time `bson:"completedDate,omitempty" json:"completedDate,omitempty"`
}

// Toggle flips the completion state. CompletedDate is set exactly on the
// false→true transition and cleared on the way back, so a double toggle
// restores the original state.
func (m *Milestone) Toggle(now time.Time) {
	if m.Completed {
		m.Completed = false
		m.CompletedDate = nil
		return
	}
	m.Completed = true
	ts := now.UTC()
	m.CompletedDate = &ts
}

// Goal is the per-category aspirational record: one statement, one
// success metric, a target date, recurring actions and milestones.
// At most one Goal exists per goal category per user.
type Goal struct {
	Category    Category    `bson:"category" json:"category"`
	GoalText    string      `bson:"goalText" json:"goalText"`
	MeasureText string      `bson:"measureText" json:"measureText"`
	TargetDate  time.Time   `bson:"targetDate" json:"targetDate"`
	Actions     []Action    `bson:"actions" json:"actions"`
	Milestones  []Milestone `bson:"milestones" json:"milestones"`
}

// NewDefaultGoal returns the documented empty goal for a category:
// no text, target date twelve weeks out, empty action and milestone lists.
func NewDefaultGoal(category Category, now time.Time) Goal {
	return Goal{
		Category:   category,
		TargetDate: now.UTC().Add(DefaultTargetHorizon).Truncate(24 * time.Hour),
		Actions:    []Action{},
		Milestones: []Milestone{},
	}
}

// Normalize fills defaults on a loaded goal so callers never see nil
// slices or unknown frequencies. Returns the receiver for chaining.
func (g *Goal) Normalize() *Goal {
	if g.Actions == nil {
		g.Actions = []Action{}
	}
	for i := range g.Actions {
		g.Actions[i].normalize()
	}
	if g.Milestones == nil {
		g.Milestones = []Milestone{}
	}
	return g
}

// FindMilestone returns a pointer into the goal's milestone list, or nil.
func (g *Goal) FindMilestone(id string) *Milestone {
	for i := range g.Milestones {
		if g.Milestones[i].ID == id {
			return &g.Milestones[i]
		}
	}
	return nil
}

// GoalSet is the per-user goals record as persisted: every goal category
// maps to at most one goal.
type GoalSet struct {
	Goals map[Category]Goal `bson:"goals" json:"goals"`
}

// NewDefaultGoalSet builds the record handed to users with no stored data.
func NewDefaultGoalSet(now time.Time) GoalSet {
	set := GoalSet{Goals: make(map[Category]Goal, 3)}
	for _, c := range GoalCategories() {
		set.Goals[c] = NewDefaultGoal(c, now)
	}
	return set
}

// Ordered returns the goals in the fixed category order, skipping
// categories with no record.
func (s GoalSet) Ordered() []Goal {
	out := make([]Goal, 0, len(s.Goals))
	for _, c := range GoalCategories() {
		if g, ok := s.Goals[c]; ok {
			out = append(out, g)
		}
	}
	return out
}
