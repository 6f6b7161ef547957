package schedule

import (
	"slices"
	"time"
)

const day = 24 * time.Hour

// Status classifies how urgently a plant needs water.
type Status string

const (
	StatusNever   Status = "never"
	StatusOverdue Status = "overdue"
	StatusToday   Status = "today"
	StatusSoon    Status = "soon"
	StatusOK      Status = "ok"
)

// NeedsWater reports whether the status should be surfaced as "needs water now".
func (s Status) NeedsWater() bool {
	return s == StatusNever || s == StatusOverdue || s == StatusToday
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNever, StatusOverdue, StatusToday, StatusSoon, StatusOK:
		return true
	}
	return false
}

// Entry is a single watering event as seen by the engine.
type Entry struct {
	Date       time.Time
	Fertilized bool
}

// Plant holds the watering configuration and history the engine derives from.
type Plant struct {
	IntervalDays        int
	FertilizeEvery      int
	LastWateredOverride *time.Time
	Log                 []Entry
}

// newestFirst returns a copy of the log sorted by date, most recent first.
// Entries with equal dates keep their input order.
func newestFirst(log []Entry) []Entry {
	sorted := slices.Clone(log)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return b.Date.Compare(a.Date)
	})
	return sorted
}

// LastWatered returns the baseline for schedule math: the most recent log
// entry, or the override when the log is empty.
func LastWatered(p Plant) (time.Time, bool) {
	if len(p.Log) > 0 {
		return newestFirst(p.Log)[0].Date, true
	}
	if p.LastWateredOverride != nil && !p.LastWateredOverride.IsZero() {
		return *p.LastWateredOverride, true
	}
	return time.Time{}, false
}

// DaysUntilWatering returns fractional days until the next watering.
// Negative means overdue; a plant that was never watered is due now (0).
func DaysUntilWatering(p Plant, now time.Time) float64 {
	last, ok := LastWatered(p)
	if !ok {
		return 0
	}
	since := float64(now.Sub(last)) / float64(day)
	return float64(p.IntervalDays) - since
}

// NextWatering returns the calendar date of the next watering, or now when
// there is no baseline.
func NextWatering(p Plant, now time.Time) time.Time {
	last, ok := LastWatered(p)
	if !ok {
		return now
	}
	return last.AddDate(0, 0, p.IntervalDays)
}

// StatusOf classifies the plant at now.
func StatusOf(p Plant, now time.Time) Status {
	if _, ok := LastWatered(p); !ok {
		return StatusNever
	}
	return classify(DaysUntilWatering(p, now))
}

func classify(days float64) Status {
	switch {
	case days < 0:
		return StatusOverdue
	case days <= 1:
		return StatusToday
	case days <= 3:
		return StatusSoon
	default:
		return StatusOK
	}
}

// NeedsFertilizer reports whether at least FertilizeEvery waterings have
// happened since the last fertilized one (or since the start of history).
func NeedsFertilizer(p Plant) bool {
	if p.FertilizeEvery <= 0 || len(p.Log) == 0 {
		return false
	}
	return wateringsSinceFertilized(p.Log) >= p.FertilizeEvery
}

func wateringsSinceFertilized(log []Entry) int {
	for i, e := range newestFirst(log) {
		if e.Fertilized {
			return i
		}
	}
	return len(log)
}

// LastFertilized returns the date of the most recent fertilized watering.
func LastFertilized(p Plant) (time.Time, bool) {
	for _, e := range newestFirst(p.Log) {
		if e.Fertilized {
			return e.Date, true
		}
	}
	return time.Time{}, false
}

// Summary bundles every derived field computed against a single now.
type Summary struct {
	Status            Status
	DaysUntilWatering float64
	NextWatering      time.Time
	LastWatered       *time.Time
	NeedsFertilizer   bool
	LastFertilized    *time.Time
	Relative          RelativeDay
}

// Summarize derives all schedule facts for p at now.
func Summarize(p Plant, now time.Time) Summary {
	days := DaysUntilWatering(p, now)
	s := Summary{
		Status:            StatusOf(p, now),
		DaysUntilWatering: days,
		NextWatering:      NextWatering(p, now),
		NeedsFertilizer:   NeedsFertilizer(p),
		Relative:          Relative(days),
	}
	if t, ok := LastWatered(p); ok {
		s.LastWatered = &t
	}
	if t, ok := LastFertilized(p); ok {
		s.LastFertilized = &t
	}
	return s
}
