package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dentflow/dentflow/internal/domain/appointment"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// lockDoctorDay takes a transaction-scoped advisory lock on the (doctor, day)
// pair. Two transactions booking the same doctor-day serialize here, so the
// overlap re-check below sees every committed competitor.
func lockDoctorDay(tx *gorm.DB, doctorID uuid.UUID, date time.Time) error {
	key := doctorID.String() + ":" + date.Format("2006-01-02")
	if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error; err != nil {
		return fmt.Errorf("acquiring doctor-day lock: %w", err)
	}
	return nil
}

func slotTaken(tx *gorm.DB, a *appointment.Appointment, excludeID *uuid.UUID) (bool, error) {
	q := tx.Model(&appointment.Appointment{}).
		Where("doctor_id = ? AND date = ? AND deleted_at IS NULL", a.DoctorID, a.Date).
		Where("status <> ?", appointment.StatusCancelled).
		Where("start_mins < ? AND end_mins > ?", int(a.End), int(a.Start))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("counting overlaps: %w", err)
	}
	return count > 0, nil
}

func (r *AppointmentRepository) CreateBooked(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDoctorDay(tx, a.DoctorID, a.Date); err != nil {
			return err
		}

		taken, err := slotTaken(tx, a, nil)
		if err != nil {
			return err
		}
		if taken {
			return appointment.ErrSchedulingConflict
		}

		if err := tx.Create(a).Error; err != nil {
			return fmt.Errorf("inserting appointment: %w", err)
		}
		return nil
	})
}

func (r *AppointmentRepository) RescheduleBooked(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDoctorDay(tx, a.DoctorID, a.Date); err != nil {
			return err
		}

		taken, err := slotTaken(tx, a, &a.ID)
		if err != nil {
			return err
		}
		if taken {
			return appointment.ErrSchedulingConflict
		}

		result := tx.Model(&appointment.Appointment{}).
			Where("id = ? AND deleted_at IS NULL", a.ID).
			Updates(map[string]any{
				"date":       a.Date,
				"start_mins": int(a.Start),
				"end_mins":   int(a.End),
				"updated_at": a.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("updating appointment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return appointment.ErrAppointmentNotFound
		}
		return nil
	})
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("fetching appointment: %w", err)
	}
	return &a, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	result := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("id = ? AND deleted_at IS NULL", a.ID).
		Updates(map[string]any{
			"status":              a.Status,
			"cancellation_reason": a.CancellationReason,
			"cancelled_by":        a.CancelledBy,
			"cancelled_at":        a.CancelledAt,
			"completed_at":        a.CompletedAt,
			"updated_at":          a.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("updating appointment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *appointment.Appointment) error {
	// Struct-based update so the treatment plan runs through the JSON
	// serializer.
	result := r.db.WithContext(ctx).Model(a).
		Select("notes", "treatment_plan", "updated_at").
		Where("deleted_at IS NULL").
		Updates(a)
	if result.Error != nil {
		return fmt.Errorf("updating appointment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) List(ctx context.Context, q *appointment.ListQuery) (*appointment.PagedAppointments, error) {
	query := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("deleted_at IS NULL")

	if q.PatientID != nil {
		query = query.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		query = query.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.DateFrom != nil {
		query = query.Where("date >= ?", appointment.DateOnly(*q.DateFrom))
	}
	if q.DateTo != nil {
		query = query.Where("date <= ?", appointment.DateOnly(*q.DateTo))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting appointments: %w", err)
	}

	var items []*appointment.Appointment
	err := query.
		Order("date ASC, start_mins ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}

	return &appointment.PagedAppointments{
		Appointments: items,
		TotalCount:   total,
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   int(math.Ceil(float64(total) / float64(q.PageSize))),
	}, nil
}

func (r *AppointmentRepository) ListByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*appointment.Appointment, error) {
	var items []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND deleted_at IS NULL", doctorID, appointment.DateOnly(date)).
		Order("start_mins ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("listing appointments for doctor-day: %w", err)
	}
	return items, nil
}
