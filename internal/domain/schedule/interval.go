package schedule

import (
	"fmt"
	"time"
)

// TimeInterval is a half-open [Start, End) slice of a day. It is an immutable
// value: two intervals are equal iff their fields are equal, so intervals can
// be compared with == and used as map keys.
type TimeInterval struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// NewTimeInterval validates End > Start and both endpoints within a day.
func NewTimeInterval(start, end TimeOfDay) (TimeInterval, error) {
	if !start.Valid() || end < 0 || end > minutesPerDay {
		return TimeInterval{}, fmt.Errorf("%w: %s-%s", ErrInvalidTimeOfDay, start, end)
	}
	if end <= start {
		return TimeInterval{}, fmt.Errorf("%w: got [%s, %s)", ErrInvalidInterval, start, end)
	}
	return TimeInterval{Start: start, End: end}, nil
}

// MustInterval builds an interval from "HH:MM" literals, panicking on bad
// input. Test and fixture helper.
func MustInterval(start, end string) TimeInterval {
	iv, err := NewTimeInterval(MustTimeOfDay(start), MustTimeOfDay(end))
	if err != nil {
		panic(err)
	}
	return iv
}

// Overlaps reports whether the two half-open intervals share at least one
// instant. Touching endpoints (one ends exactly where the other starts) do
// not overlap.
func (iv TimeInterval) Overlaps(other TimeInterval) bool {
	return iv.Start < other.End && iv.End > other.Start
}

// Contains reports whether other fits entirely inside iv.
func (iv TimeInterval) Contains(other TimeInterval) bool {
	return iv.Start <= other.Start && iv.End >= other.End
}

func (iv TimeInterval) Duration() time.Duration {
	return time.Duration(iv.End-iv.Start) * time.Minute
}

func (iv TimeInterval) IsZero() bool {
	return iv == TimeInterval{}
}

func (iv TimeInterval) String() string {
	return fmt.Sprintf("[%s, %s)", iv.Start, iv.End)
}
