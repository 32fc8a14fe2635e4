package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dentflow/dentflow/internal/domain/doctor"
	"github.com/dentflow/dentflow/internal/domain/schedule"
)

type DoctorService struct {
	repo     doctor.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewDoctorService(repo doctor.Repository, auditSvc *AuditService, log *zap.Logger) *DoctorService {
	return &DoctorService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *DoctorService) CreateDoctor(ctx context.Context, cmd *doctor.CreateDoctorCommand, callerID uuid.UUID, callerRole string, ip string) (*doctor.Doctor, error) {
	var fields []string
	if strings.TrimSpace(cmd.FirstName) == "" {
		fields = append(fields, "first_name is required")
	}
	if strings.TrimSpace(cmd.LastName) == "" {
		fields = append(fields, "last_name is required")
	}
	if strings.TrimSpace(cmd.LicenseNo) == "" {
		fields = append(fields, "license_no is required")
	}
	if !cmd.Specialty.IsValid() {
		fields = append(fields, "specialty is invalid")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	d := &doctor.Doctor{
		FirstName:    strings.TrimSpace(cmd.FirstName),
		LastName:     strings.TrimSpace(cmd.LastName),
		Specialty:    cmd.Specialty,
		LicenseNo:    strings.TrimSpace(cmd.LicenseNo),
		Phone:        strings.TrimSpace(cmd.Phone),
		Email:        strings.ToLower(strings.TrimSpace(cmd.Email)),
		Availability: cmd.Availability,
		IsActive:     true,
		CreatedBy:    cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		s.log.Error("failed to create doctor", zap.Error(err))
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "doctor", ResourceID: d.ID.String(), IPAddress: ip,
	})

	return d, nil
}

func (s *DoctorService) GetDoctor(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DoctorService) UpdateDoctor(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand, callerID uuid.UUID, callerRole string, ip string) (*doctor.Doctor, error) {
	if cmd.Specialty != nil && !cmd.Specialty.IsValid() {
		return nil, doctor.ErrInvalidSpecialty
	}

	d, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "doctor", ResourceID: id.String(), IPAddress: ip,
	})

	return d, nil
}

// SetAvailability replaces the doctor's whole weekly schedule.
func (s *DoctorService) SetAvailability(ctx context.Context, id uuid.UUID, w schedule.WeeklyAvailability, callerID uuid.UUID, callerRole string, ip string) (*doctor.Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d.SetAvailability(w)
	if err := s.repo.UpdateAvailability(ctx, d); err != nil {
		return nil, fmt.Errorf("updating availability: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "doctor", ResourceID: id.String(), IPAddress: ip,
		Changes: `{"availability":"replaced"}`,
	})

	return d, nil
}

// AddAvailability registers one more bookable range on a weekday.
func (s *DoctorService) AddAvailability(ctx context.Context, id uuid.UUID, day time.Weekday, iv schedule.TimeInterval, callerID uuid.UUID, callerRole string, ip string) (*doctor.Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.AddAvailability(day, iv); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateAvailability(ctx, d); err != nil {
		return nil, fmt.Errorf("updating availability: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "doctor", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"availability_added":"%s %s"}`, day, iv),
	})

	return d, nil
}

func (s *DoctorService) DeactivateDoctor(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "delete", ResourceType: "doctor", ResourceID: id.String(), IPAddress: ip,
	})

	return nil
}

func (s *DoctorService) ListDoctors(ctx context.Context, q *doctor.ListDoctorsQuery) (*doctor.PagedDoctors, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}
