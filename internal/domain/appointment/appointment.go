package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/dentflow/dentflow/internal/domain/schedule"
)

// Appointment is the booking aggregate: it owns its slot, its status and its
// treatment plan, and every mutation goes through a validating method.
// Removal is the repository's job; the aggregate has no delete operation.
type Appointment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`

	// Date is the calendar day in the clinic's timezone; the clock part is
	// always midnight. Start/End are minutes from midnight on that day.
	Date  time.Time          `gorm:"column:date;type:date;not null;index"`
	Start schedule.TimeOfDay `gorm:"column:start_mins;type:smallint;not null"`
	End   schedule.TimeOfDay `gorm:"column:end_mins;type:smallint;not null"`

	Status Status `gorm:"column:status;type:varchar(30);not null;default:'scheduled';index"`
	Notes  string `gorm:"column:notes;type:text"`

	Plan *TreatmentPlan `gorm:"column:treatment_plan;serializer:json"`

	// Cancellation tracking
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CancellationReason string     `gorm:"column:cancellation_reason;type:text"`
	CancelledBy        *uuid.UUID `gorm:"column:cancelled_by;type:uuid"`

	CompletedAt *time.Time `gorm:"column:completed_at"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

// New creates a scheduled appointment shell; basic info must be set before
// it can be persisted.
func New(id uuid.UUID) (*Appointment, error) {
	if id == uuid.Nil {
		return nil, ErrMissingID
	}
	return &Appointment{ID: id, Status: StatusScheduled}, nil
}

// DateOnly strips the clock from t, keeping its location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Interval returns the booked slot as a value.
func (a *Appointment) Interval() schedule.TimeInterval {
	return schedule.TimeInterval{Start: a.Start, End: a.End}
}

// SetBasicInfo sets who/when. The date must not be earlier than now's
// calendar day; the comparison is date-only in now's location, so a booking
// for later today is fine.
func (a *Appointment) SetBasicInfo(patientID, doctorID uuid.UUID, date time.Time, iv schedule.TimeInterval, now time.Time) error {
	if patientID == uuid.Nil {
		return ErrMissingPatientID
	}
	if doctorID == uuid.Nil {
		return ErrMissingDoctorID
	}
	if iv.IsZero() {
		return ErrMissingInterval
	}
	if DateOnly(date).Before(DateOnly(now.In(date.Location()))) {
		return ErrScheduledInPast
	}

	a.PatientID = patientID
	a.DoctorID = doctorID
	a.Date = DateOnly(date)
	a.Start = iv.Start
	a.End = iv.End
	a.UpdatedAt = now
	return nil
}

// SetTreatmentPlan attaches a validated plan. The appointment takes
// ownership of the value.
func (a *Appointment) SetTreatmentPlan(plan *TreatmentPlan) error {
	if plan == nil {
		return ErrEmptyTreatmentPlan
	}
	if err := plan.Validate(); err != nil {
		return err
	}
	a.Plan = plan
	a.UpdatedAt = time.Now()
	return nil
}

// MarkWaitingRoom records patient arrival.
func (a *Appointment) MarkWaitingRoom() error {
	return a.transition(StatusWaitingRoom)
}

// MarkInProgress records the start of the consultation.
func (a *Appointment) MarkInProgress() error {
	return a.transition(StatusInProgress)
}

// MarkCompleted closes the appointment.
func (a *Appointment) MarkCompleted() error {
	if err := a.transition(StatusCompleted); err != nil {
		return err
	}
	now := time.Now()
	a.CompletedAt = &now
	return nil
}

// Cancel is allowed while the patient has not been seen yet.
func (a *Appointment) Cancel(reason string, cancelledBy uuid.UUID) error {
	if err := a.transition(StatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	a.CancelledAt = &now
	a.CancellationReason = reason
	if cancelledBy != uuid.Nil {
		a.CancelledBy = &cancelledBy
	}
	return nil
}

// transition is the single gate for status changes: either the table allows
// it and the edit timestamp is stamped, or the status is left untouched.
func (a *Appointment) transition(next Status) error {
	if !a.Status.CanTransitionTo(next) {
		return &TransitionError{From: a.Status, To: next}
	}
	a.Status = next
	a.UpdatedAt = time.Now()
	return nil
}
