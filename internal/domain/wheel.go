package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// Wheel import/export validation errors.
var (
	ErrWheelMissingLifeAreas = errors.New("wheel snapshot is missing the lifeAreas array")
	ErrWheelMalformed        = errors.New("wheel snapshot is not valid JSON")
)

// LifeArea is one spoke of the life-balance wheel.
type LifeArea struct {
	ID         string `bson:"id" json:"id"`
	Name       string `bson:"name" json:"name"`
	Score      int    `bson:"score" json:"score"` // 0-10 self rating
	Reflection string `bson:"reflection,omitempty" json:"reflection,omitempty"`
}

// WheelData is the life-balance wheel record for one user. Its JSON shape
// is also the import/export snapshot format:
// {lifeAreas, reflections, lastUpdated, completionStatus}.
type WheelData struct {
	LifeAreas        []LifeArea        `bson:"lifeAreas" json:"lifeAreas"`
	Reflections      map[string]string `bson:"reflections" json:"reflections"`
	LastUpdated      time.Time         `bson:"lastUpdated" json:"lastUpdated"`
	CompletionStatus string            `bson:"completionStatus" json:"completionStatus"`
}

// Normalize fills nil collections on a loaded record.
func (w *WheelData) Normalize() *WheelData {
	if w.LifeAreas == nil {
		w.LifeAreas = []LifeArea{}
	}
	if w.Reflections == nil {
		w.Reflections = map[string]string{}
	}
	return w
}

// ParseWheelSnapshot validates an imported JSON snapshot up front. A
// snapshot without a lifeAreas array is rejected outright so a bad import
// never replaces existing data.
func ParseWheelSnapshot(data []byte) (*WheelData, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, ErrWheelMalformed
	}
	rawAreas, ok := probe["lifeAreas"]
	if !ok {
		return nil, ErrWheelMissingLifeAreas
	}
	var areas []LifeArea
	if err := json.Unmarshal(rawAreas, &areas); err != nil {
		return nil, ErrWheelMissingLifeAreas
	}

	var snapshot WheelData
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, ErrWheelMalformed
	}
	return snapshot.Normalize(), nil
}
