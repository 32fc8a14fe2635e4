package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dentflow/dentflow/internal/config"
	"github.com/dentflow/dentflow/internal/domain/appointment"
	"github.com/dentflow/dentflow/internal/domain/doctor"
	"github.com/dentflow/dentflow/internal/domain/schedule"
	"github.com/dentflow/dentflow/pkg/cache"
	"github.com/dentflow/dentflow/pkg/metrics"
)

// AppointmentLookup is the slice of the appointment repository the overlap
// checker needs.
type AppointmentLookup interface {
	ListByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*appointment.Appointment, error)
}

// OverlapChecker answers "does this candidate slot collide with an existing
// booking for the doctor on that day". Cancelled appointments never block.
type OverlapChecker struct {
	lookup AppointmentLookup
}

func NewOverlapChecker(lookup AppointmentLookup) *OverlapChecker {
	return &OverlapChecker{lookup: lookup}
}

// HasOverlap reports a conflict with any non-cancelled appointment for the
// doctor on date. excludeID skips one appointment, for reschedule flows
// where the appointment must not conflict with itself.
func (c *OverlapChecker) HasOverlap(ctx context.Context, doctorID uuid.UUID, date time.Time, candidate schedule.TimeInterval, excludeID *uuid.UUID) (bool, error) {
	if doctorID == uuid.Nil {
		return false, appointment.ErrMissingDoctorID
	}
	if candidate.IsZero() {
		return false, appointment.ErrMissingInterval
	}

	existing, err := c.lookup.ListByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return false, fmt.Errorf("listing appointments: %w", err)
	}

	return overlapsAny(existing, candidate, excludeID), nil
}

func overlapsAny(existing []*appointment.Appointment, candidate schedule.TimeInterval, excludeID *uuid.UUID) bool {
	for _, a := range existing {
		if a.Status == appointment.StatusCancelled {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if candidate.Overlaps(a.Interval()) {
			return true
		}
	}
	return false
}

// ScheduleService generates bookable slots for a doctor-day. Clinic hours
// and slot granularity come from configuration; results are memoized in the
// slot cache when one is configured.
type ScheduleService struct {
	lookup     AppointmentLookup
	doctorRepo doctor.Repository
	slotCache  *cache.SlotCache
	metrics    *metrics.Collector
	log        *zap.Logger

	open        schedule.TimeOfDay
	close       schedule.TimeOfDay
	slotMinutes int
}

func NewScheduleService(
	lookup AppointmentLookup,
	doctorRepo doctor.Repository,
	clinic config.ClinicConfig,
	slotCache *cache.SlotCache,
	m *metrics.Collector,
	log *zap.Logger,
) (*ScheduleService, error) {
	open, err := schedule.ParseTimeOfDay(clinic.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("clinic open time: %w", err)
	}
	close, err := schedule.ParseTimeOfDay(clinic.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("clinic close time: %w", err)
	}

	return &ScheduleService{
		lookup:      lookup,
		doctorRepo:  doctorRepo,
		slotCache:   slotCache,
		metrics:     m,
		log:         log,
		open:        open,
		close:       close,
		slotMinutes: clinic.SlotMinutes,
	}, nil
}

// AvailableSlots lists the free slots of length units*slotMinutes for the
// doctor on date, ascending by start time. Output is a pure function of the
// doctor's availability and the day's appointments, so repeated calls with
// unchanged state return identical results.
func (s *ScheduleService) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time, units int) ([]schedule.TimeInterval, error) {
	if doctorID == uuid.Nil {
		return nil, appointment.ErrMissingDoctorID
	}
	if units <= 0 {
		units = 1
	}
	date = appointment.DateOnly(date)

	if slots, ok := s.slotCache.Get(ctx, doctorID, date, units); ok {
		if s.metrics != nil {
			s.metrics.SlotCacheHits.Inc()
		}
		return slots, nil
	}
	if s.metrics != nil {
		s.metrics.SlotCacheMisses.Inc()
	}

	d, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	existing, err := s.lookup.ListByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}

	// An empty weekly schedule means "not configured": the doctor is
	// bookable through all clinic hours.
	availability := d.Availability
	restrict := !availability.IsEmpty()

	slots := make([]schedule.TimeInterval, 0)
	for candidate := range schedule.Candidates(s.open, s.close, s.slotMinutes, units) {
		if restrict && !availability.IsAvailable(date.Weekday(), candidate) {
			continue
		}
		if overlapsAny(existing, candidate, nil) {
			continue
		}
		slots = append(slots, candidate)
	}

	s.slotCache.Set(ctx, doctorID, date, units, slots)
	return slots, nil
}
