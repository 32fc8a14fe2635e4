package schedule_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentflow/dentflow/internal/domain/schedule"
)

func collectCandidates(open, close string, slotMinutes, units int) []schedule.TimeInterval {
	var out []schedule.TimeInterval
	for iv := range schedule.Candidates(schedule.MustTimeOfDay(open), schedule.MustTimeOfDay(close), slotMinutes, units) {
		out = append(out, iv)
	}
	return out
}

func TestCandidates_FullDay(t *testing.T) {
	got := collectCandidates("09:00", "19:00", 30, 1)

	require.Len(t, got, 20)
	assert.Equal(t, schedule.MustInterval("09:00", "09:30"), got[0])
	assert.Equal(t, schedule.MustInterval("18:30", "19:00"), got[19])

	assert.True(t, slices.IsSortedFunc(got, func(a, b schedule.TimeInterval) int {
		return int(a.Start) - int(b.Start)
	}))
}

func TestCandidates_MultiUnitStopsAtClose(t *testing.T) {
	// Two-unit slots still advance by one slot width, and the last candidate
	// must end exactly at close.
	got := collectCandidates("09:00", "11:00", 30, 2)

	require.Len(t, got, 3)
	assert.Equal(t, schedule.MustInterval("09:00", "10:00"), got[0])
	assert.Equal(t, schedule.MustInterval("09:30", "10:30"), got[1])
	assert.Equal(t, schedule.MustInterval("10:00", "11:00"), got[2])
}

func TestCandidates_Restartable(t *testing.T) {
	seq := schedule.Candidates(schedule.MustTimeOfDay("09:00"), schedule.MustTimeOfDay("12:00"), 30, 1)

	var first, second []schedule.TimeInterval
	for iv := range seq {
		first = append(first, iv)
	}
	for iv := range seq {
		second = append(second, iv)
	}

	assert.Equal(t, first, second)
}

func TestCandidates_EarlyBreak(t *testing.T) {
	n := 0
	for range schedule.Candidates(schedule.MustTimeOfDay("09:00"), schedule.MustTimeOfDay("19:00"), 30, 1) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestCandidates_DegenerateInput(t *testing.T) {
	assert.Empty(t, collectCandidates("09:00", "09:00", 30, 1))
	assert.Empty(t, collectCandidates("09:00", "19:00", 0, 1))
	assert.Empty(t, collectCandidates("09:00", "19:00", 30, 0))
	// A single unit that doesn't fit yields nothing.
	assert.Empty(t, collectCandidates("09:00", "09:20", 30, 1))
}
