package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentflow/dentflow/internal/domain/schedule"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := schedule.ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, tod.Hour())
	assert.Equal(t, 30, tod.Minute())
	assert.Equal(t, "09:30", tod.String())
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	for _, raw := range []string{"", "9h30", "25:00", "09:61", "today"} {
		_, err := schedule.ParseTimeOfDay(raw)
		assert.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay, "input %q", raw)
	}
}

func TestTimeOfDay_At(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)

	date := time.Date(2024, time.June, 10, 0, 0, 0, 0, loc)
	at := schedule.MustTimeOfDay("14:30").At(date)

	assert.Equal(t, time.Date(2024, time.June, 10, 14, 30, 0, 0, loc), at)
}

func TestNewTimeInterval_EndMustFollowStart(t *testing.T) {
	_, err := schedule.NewTimeInterval(schedule.MustTimeOfDay("10:00"), schedule.MustTimeOfDay("10:00"))
	assert.ErrorIs(t, err, schedule.ErrInvalidInterval)

	_, err = schedule.NewTimeInterval(schedule.MustTimeOfDay("10:00"), schedule.MustTimeOfDay("09:00"))
	assert.ErrorIs(t, err, schedule.ErrInvalidInterval)

	iv, err := schedule.NewTimeInterval(schedule.MustTimeOfDay("10:00"), schedule.MustTimeOfDay("10:30"))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, iv.Duration())
}

func TestTimeInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b schedule.TimeInterval
		want bool
	}{
		{"touching endpoints do not overlap", schedule.MustInterval("09:00", "10:00"), schedule.MustInterval("10:00", "11:00"), false},
		{"partial overlap", schedule.MustInterval("09:00", "10:00"), schedule.MustInterval("09:30", "10:30"), true},
		{"identical", schedule.MustInterval("09:00", "10:00"), schedule.MustInterval("09:00", "10:00"), true},
		{"nested", schedule.MustInterval("09:00", "12:00"), schedule.MustInterval("10:00", "10:30"), true},
		{"disjoint", schedule.MustInterval("09:00", "10:00"), schedule.MustInterval("14:00", "15:00"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestTimeInterval_Contains(t *testing.T) {
	outer := schedule.MustInterval("08:00", "12:00")

	assert.True(t, outer.Contains(schedule.MustInterval("09:00", "10:00")))
	assert.True(t, outer.Contains(outer))
	// One minute past the end is out.
	assert.False(t, outer.Contains(schedule.MustInterval("11:30", "12:01")))
	assert.False(t, outer.Contains(schedule.MustInterval("07:59", "09:00")))
}
