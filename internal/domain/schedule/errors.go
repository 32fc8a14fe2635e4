package schedule

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeOfDay        = errors.New("time of day must be HH:MM within a single day")
	ErrInvalidInterval         = errors.New("interval end must be after its start")
	ErrOverlappingAvailability = errors.New("availability intervals overlap")
)

// OverlapError reports which weekday holds the conflicting intervals. It
// matches ErrOverlappingAvailability under errors.Is.
type OverlapError struct {
	Day time.Weekday
	A   TimeInterval
	B   TimeInterval
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("availability intervals %s and %s overlap on %s", e.A, e.B, e.Day)
}

func (e *OverlapError) Is(target error) bool {
	return target == ErrOverlappingAvailability
}
