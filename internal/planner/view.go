package planner

import (
	"errors"
	"sort"
	"time"

	"coachpack/internal/domain"
)

// ViewMode selects the date range and bucketing granularity of the
// calendar.
type ViewMode string

const (
	ViewDaily  ViewMode = "daily"
	ViewWeekly ViewMode = "weekly"
	ViewNinety ViewMode = "90day"
	ViewYearly ViewMode = "yearly"
)

// ErrUnknownViewMode is returned for a mode outside the four known ones.
var ErrUnknownViewMode = errors.New("unknown view mode")

// ParseViewMode validates a wire view mode.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewDaily, ViewWeekly, ViewNinety, ViewYearly:
		return ViewMode(s), nil
	}
	return "", ErrUnknownViewMode
}

// DateRange is an inclusive span of calendar dates.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d (a calendar date) falls inside the range.
func (r DateRange) Contains(d time.Time) bool {
	d = domain.DateOnly(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

// ComputeRange computes the visible date span for a view mode and an
// anchor date.
//
//	daily:  the anchor date alone
//	weekly: Sunday through Saturday of the week containing the anchor
//	90day:  anchor through anchor+90 days
//	yearly: the full calendar year containing the anchor
func ComputeRange(mode ViewMode, anchor time.Time) DateRange {
	anchor = domain.DateOnly(anchor)
	switch mode {
	case ViewWeekly:
		start := startOfWeek(anchor)
		return DateRange{Start: start, End: start.AddDate(0, 0, 6)}
	case ViewNinety:
		return DateRange{Start: anchor, End: anchor.AddDate(0, 0, 90)}
	case ViewYearly:
		return DateRange{
			Start: time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(anchor.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
		}
	default: // daily
		return DateRange{Start: anchor, End: anchor}
	}
}

// ShiftAnchor moves the anchor by delta units of the current view:
// ±1 day, ±7 days, ±3 months, ±1 year. Switching view modes never
// re-anchors; only Prev/Next do.
func ShiftAnchor(mode ViewMode, anchor time.Time, delta int) time.Time {
	anchor = domain.DateOnly(anchor)
	switch mode {
	case ViewWeekly:
		return anchor.AddDate(0, 0, 7*delta)
	case ViewNinety:
		return anchor.AddDate(0, 3*delta, 0)
	case ViewYearly:
		return anchor.AddDate(delta, 0, 0)
	default:
		return anchor.AddDate(0, 0, delta)
	}
}

// startOfWeek returns the Sunday on or before d.
func startOfWeek(d time.Time) time.Time {
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// Hour boundaries shared by the daily and weekly buckets. The displayed
// range is 06:00-22:00 with the 22:00 hour included in both views: an
// entry at 22:15 lands in the last daily slot and in the weekly evening
// segment. Entries before 06:00 or at 23:00 and later are not displayed.
const (
	dayStartHour     = 6
	afternoonHour    = 12
	eveningHour      = 17
	dayEndHour       = 22
	weeklySegmentCap = 2
)

// --- Daily view ---

// HourSlot is one fixed hour row of the daily view.
type HourSlot struct {
	Hour    int     `json:"hour"`
	Entries []Entry `json:"entries"`
}

// DailyView buckets a single day's entries into fixed hour slots
// 06:00-22:00 by truncating each entry's time to the hour.
type DailyView struct {
	Date  time.Time  `json:"date"`
	Slots []HourSlot `json:"slots"`
}

// BuildDailyView constructs the daily view for the anchor date.
func BuildDailyView(anchor time.Time, all []Entry) DailyView {
	date := domain.DateOnly(anchor)
	view := DailyView{Date: date, Slots: make([]HourSlot, 0, dayEndHour-dayStartHour+1)}
	byHour := map[int][]Entry{}
	for _, e := range entriesOn(all, date) {
		h := e.Time.Hour()
		if h >= dayStartHour && h <= dayEndHour {
			byHour[h] = append(byHour[h], e)
		}
	}
	for h := dayStartHour; h <= dayEndHour; h++ {
		slot := HourSlot{Hour: h, Entries: byHour[h]}
		if slot.Entries == nil {
			slot.Entries = []Entry{}
		}
		sortEntries(slot.Entries)
		view.Slots = append(view.Slots, slot)
	}
	return view
}

// --- Weekly view ---

// DaySegment names the part-of-day sub-buckets of the weekly view.
type DaySegment string

const (
	SegmentMorning   DaySegment = "morning"   // 06-12
	SegmentAfternoon DaySegment = "afternoon" // 12-17
	SegmentEvening   DaySegment = "evening"   // 17-22
)

// WeeklyDay is one column of the weekly view. Each segment shows at most
// two entries; overflow is neither shown nor counted. The cap is a
// display rule, not a data constraint.
type WeeklyDay struct {
	Date     time.Time              `json:"date"`
	Segments map[DaySegment][]Entry `json:"segments"`
}

// WeeklyView is the Sunday-through-Saturday grid.
type WeeklyView struct {
	Range DateRange   `json:"range"`
	Days  []WeeklyDay `json:"days"`
}

// BuildWeeklyView constructs the weekly view for the week containing the
// anchor date.
func BuildWeeklyView(anchor time.Time, all []Entry) WeeklyView {
	r := ComputeRange(ViewWeekly, anchor)
	view := WeeklyView{Range: r, Days: make([]WeeklyDay, 0, 7)}
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		day := WeeklyDay{Date: d, Segments: map[DaySegment][]Entry{
			SegmentMorning:   {},
			SegmentAfternoon: {},
			SegmentEvening:   {},
		}}
		dayEntries := entriesOn(all, d)
		sortEntries(dayEntries)
		for _, e := range dayEntries {
			seg, ok := segmentFor(e.Time.Hour())
			if !ok || len(day.Segments[seg]) >= weeklySegmentCap {
				continue
			}
			day.Segments[seg] = append(day.Segments[seg], e)
		}
		view.Days = append(view.Days, day)
	}
	return view
}

func segmentFor(hour int) (DaySegment, bool) {
	switch {
	case hour >= dayStartHour && hour < afternoonHour:
		return SegmentMorning, true
	case hour >= afternoonHour && hour < eveningHour:
		return SegmentAfternoon, true
	case hour >= eveningHour && hour <= dayEndHour:
		return SegmentEvening, true
	}
	return "", false
}

// --- 90-day view ---

// WeekDigest is one Sunday-aligned week of the 90-day view.
type WeekDigest struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Entries []Entry   `json:"entries"`
}

// NinetyDayView groups the 90-day span into consecutive Sunday-aligned
// weeks, and separately carries every milestone in range on a single
// chronological timeline regardless of which week it lands in.
type NinetyDayView struct {
	Range      DateRange    `json:"range"`
	Weeks      []WeekDigest `json:"weeks"`
	Milestones []Entry      `json:"milestones"`
}

// BuildNinetyDayView constructs the 90-day digest starting at the anchor.
func BuildNinetyDayView(anchor time.Time, all []Entry) NinetyDayView {
	r := ComputeRange(ViewNinety, anchor)
	view := NinetyDayView{Range: r, Weeks: []WeekDigest{}, Milestones: []Entry{}}

	inRange := []Entry{}
	for _, e := range all {
		if r.Contains(e.Date) {
			inRange = append(inRange, e)
			if e.IsMilestone {
				view.Milestones = append(view.Milestones, e)
			}
		}
	}
	sort.SliceStable(view.Milestones, func(i, j int) bool {
		return view.Milestones[i].Date.Before(view.Milestones[j].Date)
	})

	for ws := startOfWeek(r.Start); !ws.After(r.End); ws = ws.AddDate(0, 0, 7) {
		week := WeekDigest{Start: ws, End: ws.AddDate(0, 0, 6), Entries: []Entry{}}
		for _, e := range inRange {
			if !e.Date.Before(week.Start) && !e.Date.After(week.End) {
				week.Entries = append(week.Entries, e)
			}
		}
		sort.SliceStable(week.Entries, func(i, j int) bool {
			if !week.Entries[i].Date.Equal(week.Entries[j].Date) {
				return week.Entries[i].Date.Before(week.Entries[j].Date)
			}
			return week.Entries[i].Time < week.Entries[j].Time
		})
		view.Weeks = append(view.Weeks, week)
	}
	return view
}

// --- Yearly view ---

// Up to this many milestone titles are listed per month; the rest fold
// into the overflow count.
const yearlyMilestoneTitles = 2

// MonthDigest is one month cell of the yearly view.
type MonthDigest struct {
	Month             time.Month `json:"month"`
	TotalEvents       int        `json:"totalEvents"`
	CompletedEvents   int        `json:"completedEvents"`
	CompletionPct     int        `json:"completionPct"` // 0 when the month has no events
	MilestoneCount    int        `json:"milestoneCount"`
	MilestoneTitles   []string   `json:"milestoneTitles"`
	MilestoneOverflow int        `json:"milestoneOverflow"`
}

// YearlyView is the twelve-month digest of the calendar year.
type YearlyView struct {
	Year   int           `json:"year"`
	Range  DateRange     `json:"range"`
	Months []MonthDigest `json:"months"`
}

// BuildYearlyView constructs the yearly view for the calendar year
// containing the anchor date.
func BuildYearlyView(anchor time.Time, all []Entry) YearlyView {
	r := ComputeRange(ViewYearly, anchor)
	view := YearlyView{Year: r.Start.Year(), Range: r, Months: make([]MonthDigest, 0, 12)}

	for m := time.January; m <= time.December; m++ {
		digest := MonthDigest{Month: m, MilestoneTitles: []string{}}
		milestones := []Entry{}
		for _, e := range all {
			if e.Date.Year() != view.Year || e.Date.Month() != m {
				continue
			}
			if e.IsMilestone {
				milestones = append(milestones, e)
				continue
			}
			digest.TotalEvents++
			if e.Completed {
				digest.CompletedEvents++
			}
		}
		if digest.TotalEvents > 0 {
			digest.CompletionPct = digest.CompletedEvents * 100 / digest.TotalEvents
		}
		sort.SliceStable(milestones, func(i, j int) bool {
			return milestones[i].Date.Before(milestones[j].Date)
		})
		digest.MilestoneCount = len(milestones)
		for i, ms := range milestones {
			if i >= yearlyMilestoneTitles {
				digest.MilestoneOverflow = len(milestones) - yearlyMilestoneTitles
				break
			}
			digest.MilestoneTitles = append(digest.MilestoneTitles, ms.Title)
		}
		view.Months = append(view.Months, digest)
	}
	return view
}

// --- shared helpers ---

func entriesOn(all []Entry, date time.Time) []Entry {
	date = domain.DateOnly(date)
	out := []Entry{}
	for _, e := range all {
		if domain.DateOnly(e.Date).Equal(date) {
			out = append(out, e)
		}
	}
	return out
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Time != entries[j].Time {
			return entries[i].Time < entries[j].Time
		}
		return entries[i].Title < entries[j].Title
	})
}
