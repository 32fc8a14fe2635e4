package schedule

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "sunday",
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
}

// WeeklyAvailability maps every day of the week to the ordered,
// non-overlapping intervals a doctor can be booked in. The zero value is a
// valid, fully unavailable week. All mutating operations return a new value;
// existing instances are never modified, so the type is safe to share.
type WeeklyAvailability struct {
	days map[time.Weekday][]TimeInterval
}

// NewWeeklyAvailability validates each day's intervals for pairwise overlap
// and returns a normalized (sorted per day) availability. Days missing from
// the input default to empty.
func NewWeeklyAvailability(perDay map[time.Weekday][]TimeInterval) (WeeklyAvailability, error) {
	days := make(map[time.Weekday][]TimeInterval, len(perDay))
	for day, intervals := range perDay {
		sorted := make([]TimeInterval, len(intervals))
		copy(sorted, intervals)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
		for i := 1; i < len(sorted); i++ {
			if sorted[i-1].Overlaps(sorted[i]) {
				return WeeklyAvailability{}, &OverlapError{Day: day, A: sorted[i-1], B: sorted[i]}
			}
		}
		if len(sorted) > 0 {
			days[day] = sorted
		}
	}
	return WeeklyAvailability{days: days}, nil
}

// AddInterval returns a copy with the interval added to day. Fails if the
// interval overlaps one already registered for that day.
func (w WeeklyAvailability) AddInterval(day time.Weekday, iv TimeInterval) (WeeklyAvailability, error) {
	for _, existing := range w.days[day] {
		if existing.Overlaps(iv) {
			return WeeklyAvailability{}, &OverlapError{Day: day, A: existing, B: iv}
		}
	}

	days := make(map[time.Weekday][]TimeInterval, len(w.days)+1)
	for d, ivs := range w.days {
		days[d] = ivs
	}
	merged := make([]TimeInterval, 0, len(w.days[day])+1)
	merged = append(merged, w.days[day]...)
	merged = append(merged, iv)
	sort.Slice(merged, func(i, j int) bool { return merged[i].Start < merged[j].Start })
	days[day] = merged

	return WeeklyAvailability{days: days}, nil
}

// IsAvailable reports whether candidate fits wholly inside one of the day's
// intervals. Containment, not overlap: a booking poking past the end of an
// availability range is not available.
func (w WeeklyAvailability) IsAvailable(day time.Weekday, candidate TimeInterval) bool {
	for _, iv := range w.days[day] {
		if iv.Contains(candidate) {
			return true
		}
	}
	return false
}

// Intervals returns the day's ranges in ascending start order. The returned
// slice must not be mutated.
func (w WeeklyAvailability) Intervals(day time.Weekday) []TimeInterval {
	return w.days[day]
}

// IsEmpty reports whether no day has any availability.
func (w WeeklyAvailability) IsEmpty() bool {
	for _, ivs := range w.days {
		if len(ivs) > 0 {
			return false
		}
	}
	return true
}

// MarshalJSON emits all seven days keyed by lowercase weekday name, so the
// persisted document is explicit about empty days.
func (w WeeklyAvailability) MarshalJSON() ([]byte, error) {
	out := make(map[string][]TimeInterval, 7)
	for day, name := range weekdayNames {
		ivs := w.days[day]
		if ivs == nil {
			ivs = []TimeInterval{}
		}
		out[name] = ivs
	}
	return json.Marshal(out)
}

func (w *WeeklyAvailability) UnmarshalJSON(data []byte) error {
	var raw map[string][]TimeInterval
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	perDay := make(map[time.Weekday][]TimeInterval, len(raw))
	for name, ivs := range raw {
		day, ok := weekdayByName(name)
		if !ok {
			return fmt.Errorf("unknown weekday %q in availability", name)
		}
		perDay[day] = ivs
	}

	parsed, err := NewWeeklyAvailability(perDay)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

func weekdayByName(name string) (time.Weekday, bool) {
	for day, n := range weekdayNames {
		if n == name {
			return day, true
		}
	}
	return 0, false
}

// ParseWeekday resolves a lowercase day name ("monday") to its weekday.
func ParseWeekday(name string) (time.Weekday, bool) {
	return weekdayByName(strings.ToLower(name))
}
