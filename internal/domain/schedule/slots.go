package schedule

import "iter"

// Candidates enumerates slot-aligned intervals of the given length inside
// clinic hours, ascending by start time. The sequence is pure and
// restartable: ranging over it twice yields identical output. A candidate
// that would extend past close is not produced.
//
// slotMinutes is the booking granularity (clinic policy, normally 30);
// units is the slot length as a multiple of that granularity.
func Candidates(open, close TimeOfDay, slotMinutes, units int) iter.Seq[TimeInterval] {
	return func(yield func(TimeInterval) bool) {
		if slotMinutes <= 0 || units <= 0 {
			return
		}
		length := TimeOfDay(slotMinutes * units)
		for start := open; start+length <= close; start += TimeOfDay(slotMinutes) {
			if !yield(TimeInterval{Start: start, End: start + length}) {
				return
			}
		}
	}
}
