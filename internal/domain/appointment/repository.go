package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dentflow/dentflow/internal/domain/schedule"
)

type Repository interface {
	// CreateBooked inserts the appointment after re-checking doctor/date
	// overlap inside a transaction that holds the doctor-day advisory lock.
	// Returns ErrSchedulingConflict if the slot was taken concurrently.
	CreateBooked(ctx context.Context, a *Appointment) error

	// RescheduleBooked persists a changed date/slot under the same guard,
	// excluding the appointment itself from the overlap check.
	RescheduleBooked(ctx context.Context, a *Appointment) error

	// GetByID returns ErrAppointmentNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// UpdateStatus persists status and the status-adjacent fields only.
	UpdateStatus(ctx context.Context, a *Appointment) error

	// Update persists notes and treatment plan changes.
	Update(ctx context.Context, a *Appointment) error

	List(ctx context.Context, q *ListQuery) (*PagedAppointments, error)

	// ListByDoctorAndDate returns the doctor's appointments on a calendar
	// day, cancelled ones included; overlap checking filters them out.
	ListByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*Appointment, error)
}

type CreateCommand struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Date      time.Time
	Interval  schedule.TimeInterval
	Notes     string
	Plan      *TreatmentPlan
	CreatedBy uuid.UUID
}

type RescheduleCommand struct {
	Date     time.Time
	Interval schedule.TimeInterval
}

type CancelCommand struct {
	Reason      string
	CancelledBy uuid.UUID
}

type ListQuery struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Status    *Status
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

type PagedAppointments struct {
	Appointments []*Appointment
	TotalCount   int64
	Page         int
	PageSize     int
	TotalPages   int
}
