package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dentflow/dentflow/internal/domain/odontogram"
	"github.com/dentflow/dentflow/internal/domain/patient"
)

// OdontogramService maintains per-patient dental charts. Charts are created
// lazily on first read or write.
type OdontogramService struct {
	repo        odontogram.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	log         *zap.Logger
}

func NewOdontogramService(repo odontogram.Repository, patientRepo patient.Repository, auditSvc *AuditService, log *zap.Logger) *OdontogramService {
	return &OdontogramService{repo: repo, patientRepo: patientRepo, auditSvc: auditSvc, log: log}
}

// GetChart returns the patient's chart, creating an empty one if the patient
// exists but was never charted.
func (s *OdontogramService) GetChart(ctx context.Context, patientID uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*odontogram.Odontogram, error) {
	o, err := s.loadOrCreate(ctx, patientID)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "read", ResourceType: "odontogram", ResourceID: o.ID.String(), IPAddress: ip,
	})

	return o, nil
}

type RecordFindingCommand struct {
	ToothNumber int
	Surface     odontogram.ToothSurface
	LesionID    *uuid.UUID
	TreatmentID *uuid.UUID
	State       odontogram.FindingState
	Note        string
}

// RecordFinding charts a finding on a tooth surface, replacing any earlier
// finding on the same surface.
func (s *OdontogramService) RecordFinding(ctx context.Context, patientID uuid.UUID, cmd *RecordFindingCommand, callerID uuid.UUID, callerRole string, ip string) (*odontogram.Odontogram, error) {
	o, err := s.loadOrCreate(ctx, patientID)
	if err != nil {
		return nil, err
	}

	f := odontogram.Finding{
		Surface:     cmd.Surface,
		LesionID:    cmd.LesionID,
		TreatmentID: cmd.TreatmentID,
		State:       cmd.State,
		Note:        cmd.Note,
		RecordedAt:  time.Now().UTC(),
		RecordedBy:  callerID,
	}
	if err := o.UpsertFinding(cmd.ToothNumber, f); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, o); err != nil {
		s.log.Error("failed to save odontogram", zap.Error(err), zap.String("patient_id", patientID.String()))
		return nil, fmt.Errorf("saving odontogram: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "odontogram", ResourceID: o.ID.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"tooth":%d,"surface":"%s","state":"%s"}`, cmd.ToothNumber, cmd.Surface, cmd.State),
	})

	return o, nil
}

// ClearFinding removes the charted finding on a tooth surface.
func (s *OdontogramService) ClearFinding(ctx context.Context, patientID uuid.UUID, toothNumber int, surface odontogram.ToothSurface, callerID uuid.UUID, callerRole string, ip string) (*odontogram.Odontogram, error) {
	o, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if err := o.ClearFinding(toothNumber, surface); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("saving odontogram: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "odontogram", ResourceID: o.ID.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"tooth":%d,"surface":"%s","cleared":true}`, toothNumber, surface),
	})

	return o, nil
}

// SetToothMissing charts a tooth as extracted or congenitally missing.
func (s *OdontogramService) SetToothMissing(ctx context.Context, patientID uuid.UUID, toothNumber int, missing bool, callerID uuid.UUID, callerRole string, ip string) (*odontogram.Odontogram, error) {
	o, err := s.loadOrCreate(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if err := o.MarkToothMissing(toothNumber, missing); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("saving odontogram: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "odontogram", ResourceID: o.ID.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"tooth":%d,"missing":%t}`, toothNumber, missing),
	})

	return o, nil
}

func (s *OdontogramService) loadOrCreate(ctx context.Context, patientID uuid.UUID) (*odontogram.Odontogram, error) {
	o, err := s.repo.GetByPatient(ctx, patientID)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, odontogram.ErrOdontogramNotFound) {
		return nil, err
	}

	// Chart creation requires a real patient.
	if _, err := s.patientRepo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}

	o, err = odontogram.NewForPatient(patientID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("creating odontogram: %w", err)
	}
	return o, nil
}
