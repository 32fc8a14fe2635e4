package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dentflow/dentflow/internal/domain/lesion"
	"github.com/dentflow/dentflow/internal/domain/treatment"
)

// CatalogService manages the treatment and lesion reference catalogs. They
// share one service: both are small admin-maintained lists with identical
// lifecycles.
type CatalogService struct {
	treatments treatment.Repository
	lesions    lesion.Repository
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewCatalogService(treatments treatment.Repository, lesions lesion.Repository, auditSvc *AuditService, log *zap.Logger) *CatalogService {
	return &CatalogService{treatments: treatments, lesions: lesions, auditSvc: auditSvc, log: log}
}

func (s *CatalogService) CreateTreatment(ctx context.Context, cmd *treatment.CreateTreatmentCommand, callerID uuid.UUID, callerRole string, ip string) (*treatment.Treatment, error) {
	var fields []string
	if strings.TrimSpace(cmd.Code) == "" {
		fields = append(fields, "code is required")
	}
	if strings.TrimSpace(cmd.Name) == "" {
		fields = append(fields, "name is required")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	if cmd.DurationSlots < 1 {
		return nil, treatment.ErrInvalidDuration
	}

	currency := cmd.Currency
	if currency == "" {
		currency = "USD"
	}

	t := &treatment.Treatment{
		Code:          strings.ToUpper(strings.TrimSpace(cmd.Code)),
		Name:          strings.TrimSpace(cmd.Name),
		Description:   cmd.Description,
		DurationSlots: cmd.DurationSlots,
		PriceCents:    cmd.PriceCents,
		Currency:      currency,
		IsActive:      true,
	}

	if err := s.treatments.Create(ctx, t); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "treatment", ResourceID: t.ID.String(), IPAddress: ip,
	})

	return t, nil
}

func (s *CatalogService) GetTreatment(ctx context.Context, id uuid.UUID) (*treatment.Treatment, error) {
	return s.treatments.GetByID(ctx, id)
}

func (s *CatalogService) UpdateTreatment(ctx context.Context, id uuid.UUID, cmd *treatment.UpdateTreatmentCommand, callerID uuid.UUID, callerRole string, ip string) (*treatment.Treatment, error) {
	if cmd.DurationSlots != nil && *cmd.DurationSlots < 1 {
		return nil, treatment.ErrInvalidDuration
	}

	t, err := s.treatments.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "treatment", ResourceID: id.String(), IPAddress: ip,
	})

	return t, nil
}

func (s *CatalogService) DeleteTreatment(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) error {
	if err := s.treatments.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "delete", ResourceType: "treatment", ResourceID: id.String(), IPAddress: ip,
	})

	return nil
}

func (s *CatalogService) ListTreatments(ctx context.Context, q *treatment.ListTreatmentsQuery) (*treatment.PagedTreatments, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 50
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.treatments.List(ctx, q)
}

func (s *CatalogService) CreateLesion(ctx context.Context, cmd *lesion.CreateLesionCommand, callerID uuid.UUID, callerRole string, ip string) (*lesion.Lesion, error) {
	var fields []string
	if strings.TrimSpace(cmd.Code) == "" {
		fields = append(fields, "code is required")
	}
	if strings.TrimSpace(cmd.Name) == "" {
		fields = append(fields, "name is required")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	l := &lesion.Lesion{
		Code:        strings.ToUpper(strings.TrimSpace(cmd.Code)),
		Name:        strings.TrimSpace(cmd.Name),
		Description: cmd.Description,
		Color:       cmd.Color,
		IsActive:    true,
	}

	if err := s.lesions.Create(ctx, l); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "lesion", ResourceID: l.ID.String(), IPAddress: ip,
	})

	return l, nil
}

func (s *CatalogService) GetLesion(ctx context.Context, id uuid.UUID) (*lesion.Lesion, error) {
	return s.lesions.GetByID(ctx, id)
}

func (s *CatalogService) UpdateLesion(ctx context.Context, id uuid.UUID, cmd *lesion.UpdateLesionCommand, callerID uuid.UUID, callerRole string, ip string) (*lesion.Lesion, error) {
	l, err := s.lesions.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "lesion", ResourceID: id.String(), IPAddress: ip,
	})

	return l, nil
}

func (s *CatalogService) DeleteLesion(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) error {
	if err := s.lesions.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "delete", ResourceType: "lesion", ResourceID: id.String(), IPAddress: ip,
	})

	return nil
}

func (s *CatalogService) ListLesions(ctx context.Context, q *lesion.ListLesionsQuery) (*lesion.PagedLesions, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 50
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.lesions.List(ctx, q)
}
