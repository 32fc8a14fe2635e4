package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dentflow/dentflow/internal/domain/lesion"
	"github.com/dentflow/dentflow/internal/domain/treatment"
)

type TreatmentRepository struct {
	db *gorm.DB
}

func NewTreatmentRepository(db *gorm.DB) *TreatmentRepository {
	return &TreatmentRepository{db: db}
}

func (r *TreatmentRepository) Create(ctx context.Context, t *treatment.Treatment) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		if isUniqueViolation(err) {
			return treatment.ErrTreatmentAlreadyExists
		}
		return fmt.Errorf("inserting treatment: %w", err)
	}
	return nil
}

func (r *TreatmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*treatment.Treatment, error) {
	var t treatment.Treatment
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, treatment.ErrTreatmentNotFound
		}
		return nil, fmt.Errorf("fetching treatment: %w", err)
	}
	return &t, nil
}

func (r *TreatmentRepository) Update(ctx context.Context, id uuid.UUID, cmd *treatment.UpdateTreatmentCommand) (*treatment.Treatment, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		t.Name = *cmd.Name
	}
	if cmd.Description != nil {
		t.Description = *cmd.Description
	}
	if cmd.DurationSlots != nil {
		t.DurationSlots = *cmd.DurationSlots
	}
	if cmd.PriceCents != nil {
		t.PriceCents = *cmd.PriceCents
	}
	if cmd.IsActive != nil {
		t.IsActive = *cmd.IsActive
	}

	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return nil, fmt.Errorf("updating treatment: %w", err)
	}
	return t, nil
}

func (r *TreatmentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&treatment.Treatment{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{"deleted_at": &now, "is_active": false})
	if result.Error != nil {
		return fmt.Errorf("deleting treatment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return treatment.ErrTreatmentNotFound
	}
	return nil
}

func (r *TreatmentRepository) List(ctx context.Context, q *treatment.ListTreatmentsQuery) (*treatment.PagedTreatments, error) {
	query := r.db.WithContext(ctx).Model(&treatment.Treatment{}).
		Where("deleted_at IS NULL")

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	if q.OnlyActive {
		query = query.Where("is_active = true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting treatments: %w", err)
	}

	var items []*treatment.Treatment
	err := query.
		Order("code ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("listing treatments: %w", err)
	}

	return &treatment.PagedTreatments{
		Treatments: items,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(q.PageSize))),
	}, nil
}

type LesionRepository struct {
	db *gorm.DB
}

func NewLesionRepository(db *gorm.DB) *LesionRepository {
	return &LesionRepository{db: db}
}

func (r *LesionRepository) Create(ctx context.Context, l *lesion.Lesion) error {
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		if isUniqueViolation(err) {
			return lesion.ErrLesionAlreadyExists
		}
		return fmt.Errorf("inserting lesion: %w", err)
	}
	return nil
}

func (r *LesionRepository) GetByID(ctx context.Context, id uuid.UUID) (*lesion.Lesion, error) {
	var l lesion.Lesion
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lesion.ErrLesionNotFound
		}
		return nil, fmt.Errorf("fetching lesion: %w", err)
	}
	return &l, nil
}

func (r *LesionRepository) Update(ctx context.Context, id uuid.UUID, cmd *lesion.UpdateLesionCommand) (*lesion.Lesion, error) {
	l, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		l.Name = *cmd.Name
	}
	if cmd.Description != nil {
		l.Description = *cmd.Description
	}
	if cmd.Color != nil {
		l.Color = *cmd.Color
	}
	if cmd.IsActive != nil {
		l.IsActive = *cmd.IsActive
	}

	if err := r.db.WithContext(ctx).Save(l).Error; err != nil {
		return nil, fmt.Errorf("updating lesion: %w", err)
	}
	return l, nil
}

func (r *LesionRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&lesion.Lesion{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{"deleted_at": &now, "is_active": false})
	if result.Error != nil {
		return fmt.Errorf("deleting lesion: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return lesion.ErrLesionNotFound
	}
	return nil
}

func (r *LesionRepository) List(ctx context.Context, q *lesion.ListLesionsQuery) (*lesion.PagedLesions, error) {
	query := r.db.WithContext(ctx).Model(&lesion.Lesion{}).
		Where("deleted_at IS NULL")

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	if q.OnlyActive {
		query = query.Where("is_active = true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting lesions: %w", err)
	}

	var items []*lesion.Lesion
	err := query.
		Order("code ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("listing lesions: %w", err)
	}

	return &lesion.PagedLesions{
		Lesions:    items,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(q.PageSize))),
	}, nil
}
