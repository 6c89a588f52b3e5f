package domain

// Category identifies one of the coaching focus areas.
type Category string

// Goal categories. Personal exists only for ad-hoc calendar events,
// never for goals.
const (
	CategoryBusiness Category = "business"
	CategoryBody     Category = "body"
	CategoryBalance  Category = "balance"
	CategoryPersonal Category = "personal"
)

// GoalCategories returns the categories a Goal may belong to, in the
// fixed iteration order used everywhere a per-category listing is built.
func GoalCategories() []Category {
	return []Category{CategoryBusiness, CategoryBody, CategoryBalance}
}

// IsGoalCategory reports whether c can own a Goal.
func (c Category) IsGoalCategory() bool {
	return c == CategoryBusiness || c == CategoryBody || c == CategoryBalance
}

// IsEventCategory reports whether c is valid on a CalendarEvent.
func (c Category) IsEventCategory() bool {
	return c.IsGoalCategory() || c == CategoryPersonal
}

// Frequency tags how often a goal action is meant to recur. The tag is
// display-only: no recurrence expansion is ever performed, a "daily"
// event is still a single dated instance.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyMultiple Frequency = "multiple"
)

// IsValid reports whether f is one of the known frequency tags.
func (f Frequency) IsValid() bool {
	return f == FrequencyDaily || f == FrequencyWeekly || f == FrequencyMultiple
}
