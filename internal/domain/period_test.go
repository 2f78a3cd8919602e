package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestNewPeriodWindowDefaults(t *testing.T) {
	now := time.Date(2024, time.March, 15, 13, 45, 0, 0, time.UTC)

	window := NewPeriodWindow(nil, nil, now)
	assert.Equal(t, day(2024, time.March, 15), window.End, "default end is today's date")
	assert.Equal(t, day(2024, time.February, 14), window.Start, "default start trails 30 days")

	start := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC)
	window = NewPeriodWindow(&start, &end, now)
	assert.Equal(t, day(2024, time.March, 1), window.Start, "times are truncated to dates")
	assert.Equal(t, day(2024, time.March, 10), window.End)
}

func TestTrailingWindow(t *testing.T) {
	now := time.Date(2024, time.January, 31, 15, 0, 0, 0, time.UTC)

	window := TrailingWindow(7, now)
	assert.Equal(t, day(2024, time.January, 25), window.Start)
	assert.Equal(t, day(2024, time.January, 31), window.End)
	assert.Equal(t, 7, window.Days())

	window = TrailingWindow(1, now)
	assert.Equal(t, window.Start, window.End, "a one-day window is just today")
	assert.Equal(t, 1, window.Days())
}

func TestPeriodWindowDaysInclusive(t *testing.T) {
	window := PeriodWindow{Start: day(2024, time.January, 1), End: day(2024, time.January, 7)}
	assert.Equal(t, 7, window.Days())

	window = PeriodWindow{Start: day(2024, time.February, 1), End: day(2024, time.March, 1)}
	assert.Equal(t, 30, window.Days(), "leap February has 29 days plus March 1")
}

func TestPeriodWindowValid(t *testing.T) {
	assert.True(t, PeriodWindow{Start: day(2024, time.January, 1), End: day(2024, time.January, 1)}.Valid())
	assert.False(t, PeriodWindow{Start: day(2024, time.January, 2), End: day(2024, time.January, 1)}.Valid())
}

func TestPeriodWindowContains(t *testing.T) {
	window := PeriodWindow{Start: day(2024, time.January, 10), End: day(2024, time.January, 20)}

	assert.True(t, window.Contains(time.Date(2024, time.January, 10, 23, 0, 0, 0, time.UTC)), "start day counts")
	assert.True(t, window.Contains(day(2024, time.January, 20)), "end day counts")
	assert.False(t, window.Contains(day(2024, time.January, 9)))
	assert.False(t, window.Contains(day(2024, time.January, 21)))
}

func TestPeriodWindowEachDay(t *testing.T) {
	window := PeriodWindow{Start: day(2024, time.January, 30), End: day(2024, time.February, 2)}

	var visited []time.Time
	window.EachDay(func(d time.Time) { visited = append(visited, d) })

	assert.Equal(t, []time.Time{
		day(2024, time.January, 30),
		day(2024, time.January, 31),
		day(2024, time.February, 1),
		day(2024, time.February, 2),
	}, visited)
}
