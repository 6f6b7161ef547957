package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func daysAgo(d float64) time.Time {
	return now.Add(-time.Duration(d * float64(24*time.Hour)))
}

func ptr(t time.Time) *time.Time { return &t }

func TestStatusOf(t *testing.T) {
	testCases := []struct {
		name     string
		plant    Plant
		expected Status
		days     float64
	}{
		{
			name:     "never watered",
			plant:    Plant{IntervalDays: 7},
			expected: StatusNever,
			days:     0,
		},
		{
			name:     "never watered ignores interval",
			plant:    Plant{IntervalDays: 365},
			expected: StatusNever,
			days:     0,
		},
		{
			name:     "exactly one day left is today",
			plant:    Plant{IntervalDays: 7, Log: []Entry{{Date: daysAgo(6)}}},
			expected: StatusToday,
			days:     1,
		},
		{
			name:     "due right now is today",
			plant:    Plant{IntervalDays: 7, Log: []Entry{{Date: daysAgo(7)}}},
			expected: StatusToday,
			days:     0,
		},
		{
			name:     "exactly three days left is soon",
			plant:    Plant{IntervalDays: 7, Log: []Entry{{Date: daysAgo(4)}}},
			expected: StatusSoon,
			days:     3,
		},
		{
			name:     "two days left is soon",
			plant:    Plant{IntervalDays: 7, Log: []Entry{{Date: daysAgo(5)}}},
			expected: StatusSoon,
			days:     2,
		},
		{
			name:     "overdue",
			plant:    Plant{IntervalDays: 7, Log: []Entry{{Date: daysAgo(10)}}},
			expected: StatusOverdue,
			days:     -3,
		},
		{
			name:     "freshly watered",
			plant:    Plant{IntervalDays: 7, Log: []Entry{{Date: now}}},
			expected: StatusOK,
			days:     7,
		},
		{
			name:     "override used when log is empty",
			plant:    Plant{IntervalDays: 7, LastWateredOverride: ptr(daysAgo(10))},
			expected: StatusOverdue,
			days:     -3,
		},
		{
			name: "log wins over override",
			plant: Plant{
				IntervalDays:        7,
				LastWateredOverride: ptr(daysAgo(30)),
				Log:                 []Entry{{Date: daysAgo(1)}},
			},
			expected: StatusOK,
			days:     6,
		},
		{
			name: "most recent entry wins regardless of order",
			plant: Plant{IntervalDays: 7, Log: []Entry{
				{Date: daysAgo(20)},
				{Date: daysAgo(2)},
				{Date: daysAgo(9)},
			}},
			expected: StatusOK,
			days:     5,
		},
		{
			name:     "zero override is treated as unset",
			plant:    Plant{IntervalDays: 7, LastWateredOverride: &time.Time{}},
			expected: StatusNever,
			days:     0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.days, DaysUntilWatering(tc.plant, now), 1e-9)
			assert.Equal(t, tc.expected, StatusOf(tc.plant, now))
		})
	}
}

func TestStatusOf_JustPastSoonBoundary(t *testing.T) {
	p := Plant{IntervalDays: 7, Log: []Entry{{Date: daysAgo(4).Add(9 * time.Second)}}}

	days := DaysUntilWatering(p, now)
	assert.Greater(t, days, 3.0)
	assert.Less(t, days, 3.001)
	assert.Equal(t, StatusOK, StatusOf(p, now))
}

func TestStatusOf_JustPastTodayBoundary(t *testing.T) {
	p := Plant{IntervalDays: 7, Log: []Entry{{Date: daysAgo(6).Add(time.Second)}}}
	assert.Equal(t, StatusSoon, StatusOf(p, now))

	p = Plant{IntervalDays: 7, Log: []Entry{{Date: daysAgo(7).Add(-time.Second)}}}
	assert.Equal(t, StatusOverdue, StatusOf(p, now))
}

func TestStatus_NeedsWater(t *testing.T) {
	assert.True(t, StatusNever.NeedsWater())
	assert.True(t, StatusOverdue.NeedsWater())
	assert.True(t, StatusToday.NeedsWater())
	assert.False(t, StatusSoon.NeedsWater())
	assert.False(t, StatusOK.NeedsWater())
	assert.False(t, Status("wilted").Valid())
}

func TestLastWatered(t *testing.T) {
	_, ok := LastWatered(Plant{IntervalDays: 3})
	assert.False(t, ok)

	override := daysAgo(3)
	got, ok := LastWatered(Plant{LastWateredOverride: &override})
	require.True(t, ok)
	assert.Equal(t, override, got)

	got, ok = LastWatered(Plant{Log: []Entry{{Date: daysAgo(5)}, {Date: daysAgo(1)}, {Date: daysAgo(3)}}})
	require.True(t, ok)
	assert.Equal(t, daysAgo(1), got)
}

func TestNextWatering(t *testing.T) {
	assert.Equal(t, now, NextWatering(Plant{IntervalDays: 7}, now))

	last := time.Date(2025, time.March, 28, 18, 0, 0, 0, time.UTC)
	p := Plant{IntervalDays: 7, Log: []Entry{{Date: last}}}
	assert.Equal(t, time.Date(2025, time.April, 4, 18, 0, 0, 0, time.UTC), NextWatering(p, now))
}

func TestNextWatering_CalendarDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	// Spring forward happens on 2025-03-30; calendar addition keeps the wall clock.
	last := time.Date(2025, time.March, 28, 9, 0, 0, 0, loc)
	p := Plant{IntervalDays: 3, Log: []Entry{{Date: last}}}
	assert.Equal(t, time.Date(2025, time.March, 31, 9, 0, 0, 0, loc), NextWatering(p, now))
}

func TestNeedsFertilizer(t *testing.T) {
	unfertilized := func(n int) []Entry {
		log := make([]Entry, n)
		for i := range log {
			log[i] = Entry{Date: daysAgo(float64(i * 7))}
		}
		return log
	}
	// Newest to oldest; the third most recent was fertilized.
	withReset := []Entry{
		{Date: daysAgo(1)},
		{Date: daysAgo(8)},
		{Date: daysAgo(15), Fertilized: true},
		{Date: daysAgo(22)},
		{Date: daysAgo(29)},
		{Date: daysAgo(36)},
	}
	shuffled := []Entry{withReset[4], withReset[2], withReset[0], withReset[5], withReset[1], withReset[3]}

	testCases := []struct {
		name     string
		plant    Plant
		expected bool
	}{
		{"disabled", Plant{FertilizeEvery: 0, Log: unfertilized(10)}, false},
		{"negative cadence disabled", Plant{FertilizeEvery: -2, Log: unfertilized(10)}, false},
		{"empty log", Plant{FertilizeEvery: 1}, false},
		{"never fertilized reaches cadence", Plant{FertilizeEvery: 5, Log: unfertilized(5)}, true},
		{"never fertilized below cadence", Plant{FertilizeEvery: 6, Log: unfertilized(5)}, false},
		{"count since last fertilized reaches cadence", Plant{FertilizeEvery: 2, Log: withReset}, true},
		{"count since last fertilized below cadence", Plant{FertilizeEvery: 3, Log: withReset}, false},
		{"input order is irrelevant", Plant{FertilizeEvery: 2, Log: shuffled}, true},
		{"just fertilized", Plant{FertilizeEvery: 1, Log: []Entry{{Date: now, Fertilized: true}, {Date: daysAgo(7)}}}, false},
		{"every watering", Plant{FertilizeEvery: 1, Log: []Entry{{Date: now}, {Date: daysAgo(7), Fertilized: true}}}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NeedsFertilizer(tc.plant))
		})
	}
}

func TestLastFertilized(t *testing.T) {
	_, ok := LastFertilized(Plant{Log: []Entry{{Date: daysAgo(1)}}})
	assert.False(t, ok)

	got, ok := LastFertilized(Plant{Log: []Entry{
		{Date: daysAgo(30), Fertilized: true},
		{Date: daysAgo(1)},
		{Date: daysAgo(10), Fertilized: true},
	}})
	require.True(t, ok)
	assert.Equal(t, daysAgo(10), got)
}

func TestSummarize(t *testing.T) {
	p := Plant{
		IntervalDays:   7,
		FertilizeEvery: 2,
		Log: []Entry{
			{Date: daysAgo(10)},
			{Date: daysAgo(17)},
			{Date: daysAgo(24), Fertilized: true},
		},
	}

	s := Summarize(p, now)
	assert.Equal(t, StatusOverdue, s.Status)
	assert.InDelta(t, -3, s.DaysUntilWatering, 1e-9)
	assert.Equal(t, daysAgo(3), s.NextWatering)
	require.NotNil(t, s.LastWatered)
	assert.Equal(t, daysAgo(10), *s.LastWatered)
	assert.True(t, s.NeedsFertilizer)
	require.NotNil(t, s.LastFertilized)
	assert.Equal(t, daysAgo(24), *s.LastFertilized)
	assert.Equal(t, RelativeDay{Kind: RelativePast, Days: 3}, s.Relative)

	never := Summarize(Plant{IntervalDays: 7}, now)
	assert.Equal(t, StatusNever, never.Status)
	assert.Nil(t, never.LastWatered)
	assert.Nil(t, never.LastFertilized)
	assert.Equal(t, now, never.NextWatering)
}

func TestDerivationsArePure(t *testing.T) {
	log := []Entry{{Date: daysAgo(9)}, {Date: daysAgo(2), Fertilized: true}, {Date: daysAgo(16)}}
	p := Plant{IntervalDays: 7, FertilizeEvery: 3, Log: log}
	original := append([]Entry(nil), log...)

	first := Summarize(p, now)
	second := Summarize(p, now)
	assert.Equal(t, first, second)
	assert.Equal(t, original, p.Log, "input log must not be reordered")
}
