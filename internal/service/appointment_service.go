package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dentflow/dentflow/internal/domain/appointment"
	"github.com/dentflow/dentflow/internal/domain/doctor"
	"github.com/dentflow/dentflow/internal/domain/patient"
	"github.com/dentflow/dentflow/pkg/cache"
	"github.com/dentflow/dentflow/pkg/metrics"
)

type AppointmentService struct {
	repo        appointment.Repository
	patientRepo patient.Repository
	doctorRepo  doctor.Repository
	checker     *OverlapChecker
	slotCache   *cache.SlotCache
	auditSvc    *AuditService
	metrics     *metrics.Collector
	log         *zap.Logger
	loc         *time.Location
}

func NewAppointmentService(
	repo appointment.Repository,
	patientRepo patient.Repository,
	doctorRepo doctor.Repository,
	checker *OverlapChecker,
	slotCache *cache.SlotCache,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
	loc *time.Location,
) *AppointmentService {
	return &AppointmentService{
		repo:        repo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		checker:     checker,
		slotCache:   slotCache,
		auditSvc:    auditSvc,
		metrics:     m,
		log:         log,
		loc:         loc,
	}
}

// Book validates and persists a new appointment. The overlap check runs
// twice: once here for a fast rejection, and again inside the repository's
// doctor-day lock so concurrent bookings cannot both pass.
func (s *AppointmentService) Book(ctx context.Context, cmd *appointment.CreateCommand, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	a, err := appointment.New(uuid.New())
	if err != nil {
		return nil, err
	}
	if err := a.SetBasicInfo(cmd.PatientID, cmd.DoctorID, cmd.Date.In(s.loc), cmd.Interval, time.Now().In(s.loc)); err != nil {
		return nil, err
	}
	a.Notes = cmd.Notes
	a.CreatedBy = cmd.CreatedBy

	if cmd.Plan != nil {
		if err := a.SetTreatmentPlan(cmd.Plan); err != nil {
			return nil, err
		}
	}

	// ── Verify participants ────────────────────────────────────────────────
	p, err := s.patientRepo.GetByID(ctx, cmd.PatientID)
	if err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}
	if !p.IsActive() {
		return nil, patient.ErrPatientInactive
	}

	d, err := s.doctorRepo.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("verifying doctor: %w", err)
	}
	if !d.IsActive {
		return nil, doctor.ErrDoctorInactive
	}
	if !d.Availability.IsEmpty() && !d.Availability.IsAvailable(a.Date.Weekday(), cmd.Interval) {
		return nil, doctor.ErrOutsideAvailability
	}

	conflict, err := s.checker.HasOverlap(ctx, cmd.DoctorID, a.Date, cmd.Interval, nil)
	if err != nil {
		return nil, fmt.Errorf("checking conflicts: %w", err)
	}
	if conflict {
		if s.metrics != nil {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, appointment.ErrSchedulingConflict
	}

	if err := s.repo.CreateBooked(ctx, a); err != nil {
		if errors.Is(err, appointment.ErrSchedulingConflict) && s.metrics != nil {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	s.slotCache.Invalidate(ctx, a.DoctorID, a.Date)
	if s.metrics != nil {
		s.metrics.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	return a, nil
}

func (s *AppointmentService) GetAppointment(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AppointmentService) ListAppointments(ctx context.Context, q *appointment.ListQuery) (*appointment.PagedAppointments, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

// Reschedule moves an appointment to a new date or slot. The appointment
// itself is excluded from the overlap check so it doesn't conflict with the
// slot it is leaving.
func (s *AppointmentService) Reschedule(ctx context.Context, id uuid.UUID, cmd *appointment.RescheduleCommand, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status.IsTerminal() {
		return nil, &appointment.TransitionError{From: a.Status, To: a.Status}
	}

	oldDate := a.Date

	if err := a.SetBasicInfo(a.PatientID, a.DoctorID, cmd.Date.In(s.loc), cmd.Interval, time.Now().In(s.loc)); err != nil {
		return nil, err
	}

	d, err := s.doctorRepo.GetByID(ctx, a.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("verifying doctor: %w", err)
	}
	if !d.Availability.IsEmpty() && !d.Availability.IsAvailable(a.Date.Weekday(), cmd.Interval) {
		return nil, doctor.ErrOutsideAvailability
	}

	conflict, err := s.checker.HasOverlap(ctx, a.DoctorID, a.Date, cmd.Interval, &a.ID)
	if err != nil {
		return nil, fmt.Errorf("checking conflicts: %w", err)
	}
	if conflict {
		if s.metrics != nil {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, appointment.ErrSchedulingConflict
	}

	if err := s.repo.RescheduleBooked(ctx, a); err != nil {
		return nil, err
	}

	s.slotCache.Invalidate(ctx, a.DoctorID, oldDate)
	s.slotCache.Invalidate(ctx, a.DoctorID, a.Date)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"rescheduled_to":"%s %s"}`, a.Date.Format("2006-01-02"), a.Interval()),
	})

	return a, nil
}

// MarkWaitingRoom records patient arrival at the front desk.
func (s *AppointmentService) MarkWaitingRoom(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	return s.changeStatus(ctx, id, callerID, callerRole, ip, func(a *appointment.Appointment) error {
		return a.MarkWaitingRoom()
	})
}

func (s *AppointmentService) MarkInProgress(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	return s.changeStatus(ctx, id, callerID, callerRole, ip, func(a *appointment.Appointment) error {
		return a.MarkInProgress()
	})
}

func (s *AppointmentService) MarkCompleted(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	return s.changeStatus(ctx, id, callerID, callerRole, ip, func(a *appointment.Appointment) error {
		return a.MarkCompleted()
	})
}

func (s *AppointmentService) CancelAppointment(ctx context.Context, id uuid.UUID, cmd *appointment.CancelCommand, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	a, err := s.changeStatus(ctx, id, callerID, callerRole, ip, func(a *appointment.Appointment) error {
		return a.Cancel(cmd.Reason, cmd.CancelledBy)
	})
	if err != nil {
		return nil, err
	}

	// A cancelled booking frees its slot.
	s.slotCache.Invalidate(ctx, a.DoctorID, a.Date)
	return a, nil
}

// SetTreatmentPlan attaches or replaces the plan for an appointment.
func (s *AppointmentService) SetTreatmentPlan(ctx context.Context, id uuid.UUID, plan *appointment.TreatmentPlan, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.SetTreatmentPlan(plan); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: `{"treatment_plan":"replaced"}`,
	})

	return a, nil
}

func (s *AppointmentService) changeStatus(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string, op func(*appointment.Appointment) error) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := op(a); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		s.log.Error("failed to update appointment status", zap.Error(err), zap.String("appointment_id", id.String()))
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}

	if s.metrics != nil {
		s.metrics.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":"%s"}`, a.Status),
	})

	return a, nil
}
