package domain

import "time"

// ValuesData holds the outcome of the values-clarification card sort:
// every value word the user kept, plus the ranked shortlist.
type ValuesData struct {
	Selected    []string  `bson:"selected" json:"selected"`
	TopValues   []string  `bson:"topValues" json:"topValues"` // ranked, best first
	LastUpdated time.Time `bson:"lastUpdated" json:"lastUpdated"`
}

// Normalize fills nil collections on a loaded record.
func (v *ValuesData) Normalize() *ValuesData {
	if v.Selected == nil {
		v.Selected = []string{}
	}
	if v.TopValues == nil {
		v.TopValues = []string{}
	}
	return v
}
