package schedule_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentflow/dentflow/internal/domain/schedule"
)

func TestNewWeeklyAvailability_RejectsOverlappingDay(t *testing.T) {
	_, err := schedule.NewWeeklyAvailability(map[time.Weekday][]schedule.TimeInterval{
		time.Monday: {
			schedule.MustInterval("08:00", "12:00"),
			schedule.MustInterval("11:00", "13:00"),
		},
	})

	require.ErrorIs(t, err, schedule.ErrOverlappingAvailability)

	var overlapErr *schedule.OverlapError
	require.ErrorAs(t, err, &overlapErr)
	assert.Equal(t, time.Monday, overlapErr.Day)
}

func TestNewWeeklyAvailability_SameDayTouchingIsFine(t *testing.T) {
	w, err := schedule.NewWeeklyAvailability(map[time.Weekday][]schedule.TimeInterval{
		time.Monday: {
			schedule.MustInterval("13:00", "17:00"),
			schedule.MustInterval("08:00", "13:00"),
		},
	})
	require.NoError(t, err)

	// Normalized ascending by start.
	ivs := w.Intervals(time.Monday)
	require.Len(t, ivs, 2)
	assert.Equal(t, schedule.MustInterval("08:00", "13:00"), ivs[0])
	assert.Equal(t, schedule.MustInterval("13:00", "17:00"), ivs[1])
}

func TestWeeklyAvailability_AddIntervalReturnsNewValue(t *testing.T) {
	base, err := schedule.NewWeeklyAvailability(map[time.Weekday][]schedule.TimeInterval{
		time.Tuesday: {schedule.MustInterval("09:00", "12:00")},
	})
	require.NoError(t, err)

	grown, err := base.AddInterval(time.Tuesday, schedule.MustInterval("14:00", "18:00"))
	require.NoError(t, err)

	assert.Len(t, base.Intervals(time.Tuesday), 1, "original value must be untouched")
	assert.Len(t, grown.Intervals(time.Tuesday), 2)

	_, err = grown.AddInterval(time.Tuesday, schedule.MustInterval("11:00", "15:00"))
	assert.ErrorIs(t, err, schedule.ErrOverlappingAvailability)
}

func TestWeeklyAvailability_IsAvailableRequiresContainment(t *testing.T) {
	w, err := schedule.NewWeeklyAvailability(map[time.Weekday][]schedule.TimeInterval{
		time.Wednesday: {schedule.MustInterval("09:00", "13:00")},
	})
	require.NoError(t, err)

	assert.True(t, w.IsAvailable(time.Wednesday, schedule.MustInterval("10:00", "10:30")))
	assert.True(t, w.IsAvailable(time.Wednesday, schedule.MustInterval("09:00", "13:00")))
	// Extends one minute past the range.
	assert.False(t, w.IsAvailable(time.Wednesday, schedule.MustInterval("12:31", "13:01")))
	// Mere overlap is not enough.
	assert.False(t, w.IsAvailable(time.Wednesday, schedule.MustInterval("08:30", "09:30")))
	// A day with no intervals is fully unavailable.
	assert.False(t, w.IsAvailable(time.Sunday, schedule.MustInterval("10:00", "10:30")))
}

func TestWeeklyAvailability_JSONRoundTrip(t *testing.T) {
	w, err := schedule.NewWeeklyAvailability(map[time.Weekday][]schedule.TimeInterval{
		time.Monday: {schedule.MustInterval("08:00", "12:00")},
		time.Friday: {schedule.MustInterval("10:00", "14:00")},
	})
	require.NoError(t, err)

	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"monday"`)
	assert.Contains(t, string(data), `"sunday"`, "all seven days are persisted")

	var decoded schedule.WeeklyAvailability
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, w.Intervals(time.Monday), decoded.Intervals(time.Monday))
	assert.Equal(t, w.Intervals(time.Friday), decoded.Intervals(time.Friday))
	assert.Empty(t, decoded.Intervals(time.Saturday))
}

func TestWeeklyAvailability_UnmarshalRejectsOverlap(t *testing.T) {
	raw := `{"monday":[{"start":"08:00","end":"12:00"},{"start":"11:00","end":"13:00"}]}`

	var decoded schedule.WeeklyAvailability
	err := json.Unmarshal([]byte(raw), &decoded)
	assert.ErrorIs(t, err, schedule.ErrOverlappingAvailability)
}

func TestCandidates(t *testing.T) {
	open := schedule.MustTimeOfDay("09:00")
	close := schedule.MustTimeOfDay("11:00")

	var got []schedule.TimeInterval
	for iv := range schedule.Candidates(open, close, 30, 1) {
		got = append(got, iv)
	}

	want := []schedule.TimeInterval{
		schedule.MustInterval("09:00", "09:30"),
		schedule.MustInterval("09:30", "10:00"),
		schedule.MustInterval("10:00", "10:30"),
		schedule.MustInterval("10:30", "11:00"),
	}
	assert.Equal(t, want, got)

	// Restartable: a second pass yields the identical sequence.
	var again []schedule.TimeInterval
	seq := schedule.Candidates(open, close, 30, 1)
	for iv := range seq {
		_ = iv
		break
	}
	for iv := range seq {
		again = append(again, iv)
	}
	assert.Equal(t, want, again)
}

func TestCandidates_LongSlotsStopBeforeClose(t *testing.T) {
	var got []schedule.TimeInterval
	for iv := range schedule.Candidates(schedule.MustTimeOfDay("17:00"), schedule.MustTimeOfDay("19:00"), 30, 3) {
		got = append(got, iv)
	}

	// A 90-minute slot starting at 18:00 would run past close.
	want := []schedule.TimeInterval{
		schedule.MustInterval("17:00", "18:30"),
		schedule.MustInterval("17:30", "19:00"),
	}
	assert.Equal(t, want, got)
}
