package appointment

import (
	"errors"
	"fmt"
)

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrSchedulingConflict      = errors.New("time slot is no longer available")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrScheduledInPast         = errors.New("cannot schedule appointment on a past date")
	ErrMissingID               = errors.New("appointment id is required")
	ErrMissingPatientID        = errors.New("patient id is required")
	ErrMissingDoctorID         = errors.New("doctor id is required")
	ErrMissingInterval         = errors.New("appointment time interval is required")
	ErrEmptyTreatmentPlan      = errors.New("treatment plan must contain at least one procedure")
	ErrProcedureNeedsSurfaces  = errors.New("treatment plan needs at least one procedure with tooth surfaces")
)

// TransitionError carries the states involved in a rejected transition.
// It matches ErrInvalidStatusTransition under errors.Is.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition appointment from %q to %q", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidStatusTransition
}
