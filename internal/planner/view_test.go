package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachpack/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func event(d time.Time, clock domain.ClockTime, title string) Entry {
	return Entry{CalendarEvent: domain.CalendarEvent{
		ID: title, Title: title, Date: d, Time: clock,
		Category: domain.CategoryPersonal, Duration: 60,
	}}
}

func milestone(d time.Time, title string) Entry {
	e := event(d, domain.DefaultEventTime, title)
	e.IsMilestone = true
	e.Duration = 30
	return e
}

func TestComputeRange(t *testing.T) {
	t.Run("daily is the anchor alone", func(t *testing.T) {
		r := ComputeRange(ViewDaily, date(2025, 1, 15))
		assert.Equal(t, date(2025, 1, 15), r.Start)
		assert.Equal(t, date(2025, 1, 15), r.End)
	})

	t.Run("weekly starts on Sunday for every weekday", func(t *testing.T) {
		// 2025-01-12 is a Sunday.
		for d := 12; d <= 18; d++ {
			r := ComputeRange(ViewWeekly, date(2025, 1, d))
			assert.Equal(t, time.Sunday, r.Start.Weekday())
			assert.Equal(t, date(2025, 1, 12), r.Start)
			assert.Equal(t, date(2025, 1, 18), r.End)
			assert.Equal(t, 6*24*time.Hour, r.End.Sub(r.Start))
		}
	})

	t.Run("weekly on a Sunday anchor starts that day", func(t *testing.T) {
		r := ComputeRange(ViewWeekly, date(2025, 1, 12))
		assert.Equal(t, date(2025, 1, 12), r.Start)
	})

	t.Run("90day spans anchor plus ninety days", func(t *testing.T) {
		r := ComputeRange(ViewNinety, date(2025, 1, 15))
		assert.Equal(t, date(2025, 1, 15), r.Start)
		assert.Equal(t, date(2025, 4, 15), r.End)
	})

	t.Run("yearly covers the whole calendar year", func(t *testing.T) {
		r := ComputeRange(ViewYearly, date(2025, 7, 4))
		assert.Equal(t, date(2025, 1, 1), r.Start)
		assert.Equal(t, date(2025, 12, 31), r.End)
	})
}

func TestShiftAnchor(t *testing.T) {
	anchor := date(2025, 1, 15)

	tests := []struct {
		mode ViewMode
		next time.Time
		prev time.Time
	}{
		{ViewDaily, date(2025, 1, 16), date(2025, 1, 14)},
		{ViewWeekly, date(2025, 1, 22), date(2025, 1, 8)},
		{ViewNinety, date(2025, 4, 15), date(2024, 10, 15)},
		{ViewYearly, date(2026, 1, 15), date(2024, 1, 15)},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.next, ShiftAnchor(tt.mode, anchor, 1))
			assert.Equal(t, tt.prev, ShiftAnchor(tt.mode, anchor, -1))
		})
	}
}

func TestParseViewMode(t *testing.T) {
	for _, s := range []string{"daily", "weekly", "90day", "yearly"} {
		mode, err := ParseViewMode(s)
		require.NoError(t, err)
		assert.Equal(t, ViewMode(s), mode)
	}
	_, err := ParseViewMode("monthly")
	assert.ErrorIs(t, err, ErrUnknownViewMode)
}

func TestBuildDailyView(t *testing.T) {
	day := date(2025, 1, 15)
	all := []Entry{
		event(day, "09:15", "standup"),
		event(day, "09:45", "emails"),
		event(day, "05:30", "too early"),
		event(day, "23:00", "too late"),
		event(date(2025, 1, 16), "09:00", "other day"),
	}

	view := BuildDailyView(day, all)

	require.Len(t, view.Slots, 17) // hours 06..22
	assert.Equal(t, 6, view.Slots[0].Hour)
	assert.Equal(t, 22, view.Slots[len(view.Slots)-1].Hour)

	nine := view.Slots[3] // 06,07,08,09
	require.Equal(t, 9, nine.Hour)
	require.Len(t, nine.Entries, 2)
	assert.Equal(t, "standup", nine.Entries[0].Title)
	assert.Equal(t, "emails", nine.Entries[1].Title)

	total := 0
	for _, slot := range view.Slots {
		total += len(slot.Entries)
	}
	assert.Equal(t, 2, total, "out-of-window and other-day entries are dropped")
}

func TestBuildWeeklyView(t *testing.T) {
	// Week of Sunday 2025-01-12.
	monday := date(2025, 1, 13)

	t.Run("segments split by truncated hour", func(t *testing.T) {
		all := []Entry{
			event(monday, "06:00", "run"),
			event(monday, "11:59", "late morning"),
			event(monday, "12:00", "lunch"),
			event(monday, "16:59", "late afternoon"),
			event(monday, "17:00", "gym"),
			event(monday, "21:59", "reading"),
		}
		view := BuildWeeklyView(monday, all)
		require.Len(t, view.Days, 7)
		assert.Equal(t, time.Sunday, view.Days[0].Date.Weekday())

		day := view.Days[1]
		require.Equal(t, monday, day.Date)
		assert.Len(t, day.Segments[SegmentMorning], 2)
		assert.Len(t, day.Segments[SegmentAfternoon], 2)
		assert.Len(t, day.Segments[SegmentEvening], 2)
	})

	t.Run("segment display cap is two", func(t *testing.T) {
		all := []Entry{
			event(monday, "08:00", "a"),
			event(monday, "09:00", "b"),
			event(monday, "10:00", "c"),
			event(monday, "11:00", "d"),
		}
		view := BuildWeeklyView(monday, all)
		morning := view.Days[1].Segments[SegmentMorning]
		require.Len(t, morning, 2)
		// Earliest two win; overflow is silently dropped.
		assert.Equal(t, "a", morning[0].Title)
		assert.Equal(t, "b", morning[1].Title)
	})

	t.Run("stacked duplicates are both retained", func(t *testing.T) {
		all := []Entry{
			event(monday, "09:00", "first"),
			event(monday, "09:00", "second"),
		}
		view := BuildWeeklyView(monday, all)
		assert.Len(t, view.Days[1].Segments[SegmentMorning], 2)
	})

	t.Run("hour boundary matches the daily view", func(t *testing.T) {
		all := []Entry{
			event(monday, "22:15", "late reading"),
			event(monday, "23:00", "too late"),
		}

		view := BuildWeeklyView(monday, all)
		evening := view.Days[1].Segments[SegmentEvening]
		require.Len(t, evening, 1)
		assert.Equal(t, "late reading", evening[0].Title)

		daily := BuildDailyView(monday, all)
		last := daily.Slots[len(daily.Slots)-1]
		require.Equal(t, 22, last.Hour)
		require.Len(t, last.Entries, 1)
		assert.Equal(t, "late reading", last.Entries[0].Title)
	})
}

func TestBuildNinetyDayView(t *testing.T) {
	anchor := date(2025, 1, 15) // Wednesday
	all := []Entry{
		event(date(2025, 1, 16), "10:00", "kickoff"),
		event(date(2025, 2, 20), "10:00", "midpoint"),
		milestone(date(2025, 3, 1), "Launch MVP"),
		milestone(date(2025, 2, 1), "Beta ready"),
		event(date(2025, 6, 1), "10:00", "out of range"),
	}

	view := BuildNinetyDayView(anchor, all)

	t.Run("weeks are Sunday aligned and consecutive", func(t *testing.T) {
		require.NotEmpty(t, view.Weeks)
		// First week starts on the Sunday on/before the anchor.
		assert.Equal(t, date(2025, 1, 12), view.Weeks[0].Start)
		for i, w := range view.Weeks {
			assert.Equal(t, time.Sunday, w.Start.Weekday())
			assert.Equal(t, w.Start.AddDate(0, 0, 6), w.End)
			if i > 0 {
				assert.Equal(t, view.Weeks[i-1].Start.AddDate(0, 0, 7), w.Start)
			}
		}
		assert.False(t, view.Weeks[len(view.Weeks)-1].Start.After(view.Range.End))
	})

	t.Run("milestone timeline is chronological and range-limited", func(t *testing.T) {
		require.Len(t, view.Milestones, 2)
		assert.Equal(t, "Beta ready", view.Milestones[0].Title)
		assert.Equal(t, "Launch MVP", view.Milestones[1].Title)
	})

	t.Run("out of range entries excluded", func(t *testing.T) {
		for _, w := range view.Weeks {
			for _, e := range w.Entries {
				assert.NotEqual(t, "out of range", e.Title)
			}
		}
	})
}

func TestBuildYearlyView(t *testing.T) {
	anchor := date(2025, 5, 10)
	march := date(2025, 3, 10)

	completed := event(march, "09:00", "done")
	completed.Completed = true
	all := []Entry{
		completed,
		event(march, "10:00", "pending"),
		event(date(2025, 3, 20), "10:00", "also pending"),
		milestone(date(2025, 3, 1), "Launch MVP"),
	}

	view := BuildYearlyView(anchor, all)
	require.Len(t, view.Months, 12)

	t.Run("march digest", func(t *testing.T) {
		m := view.Months[time.March-1]
		assert.Equal(t, time.March, m.Month)
		assert.Equal(t, 3, m.TotalEvents)
		assert.Equal(t, 1, m.CompletedEvents)
		assert.Equal(t, 33, m.CompletionPct)
		assert.Equal(t, 1, m.MilestoneCount)
		assert.Equal(t, []string{"Launch MVP"}, m.MilestoneTitles)
		assert.Zero(t, m.MilestoneOverflow)
	})

	t.Run("empty month has zero percent", func(t *testing.T) {
		m := view.Months[time.July-1]
		assert.Zero(t, m.TotalEvents)
		assert.Zero(t, m.CompletionPct)
	})

	t.Run("milestone titles cap at two with overflow count", func(t *testing.T) {
		crowded := append(all,
			milestone(date(2025, 3, 5), "Second"),
			milestone(date(2025, 3, 8), "Third"),
			milestone(date(2025, 3, 9), "Fourth"),
		)
		m := BuildYearlyView(anchor, crowded).Months[time.March-1]
		assert.Equal(t, 4, m.MilestoneCount)
		require.Len(t, m.MilestoneTitles, 2)
		assert.Equal(t, []string{"Launch MVP", "Second"}, m.MilestoneTitles)
		assert.Equal(t, 2, m.MilestoneOverflow)
	})
}

func TestProjectMilestones(t *testing.T) {
	due := date(2025, 3, 1)
	goals := goalSetWith(domain.Goal{
		Category: domain.CategoryBusiness,
		Milestones: []domain.Milestone{
			{ID: "m1", Title: "Launch MVP", DueDate: due},
			{ID: "m2", Title: "", DueDate: due},       // no title: skipped
			{ID: "m3", Title: "Dateless milestone"},   // no due date: skipped
			{ID: "m4", Title: "Done", DueDate: due, Completed: true},
		},
	})

	entries := ProjectMilestones(goals)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "milestone-m1", first.ID)
	assert.True(t, first.IsMilestone)
	assert.Equal(t, domain.DefaultEventTime, first.Time)
	assert.Equal(t, 30, first.Duration)
	assert.Equal(t, domain.CategoryBusiness, first.Category)
	assert.False(t, first.Completed)

	assert.True(t, entries[1].Completed)
}
