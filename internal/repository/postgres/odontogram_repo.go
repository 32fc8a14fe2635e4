package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dentflow/dentflow/internal/domain/odontogram"
)

type OdontogramRepository struct {
	db *gorm.DB
}

func NewOdontogramRepository(db *gorm.DB) *OdontogramRepository {
	return &OdontogramRepository{db: db}
}

func (r *OdontogramRepository) GetByPatient(ctx context.Context, patientID uuid.UUID) (*odontogram.Odontogram, error) {
	var o odontogram.Odontogram
	err := r.db.WithContext(ctx).
		Where("patient_id = ? AND deleted_at IS NULL", patientID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, odontogram.ErrOdontogramNotFound
		}
		return nil, fmt.Errorf("fetching odontogram: %w", err)
	}
	return &o, nil
}

func (r *OdontogramRepository) Create(ctx context.Context, o *odontogram.Odontogram) error {
	if err := r.db.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("inserting odontogram: %w", err)
	}
	return nil
}

func (r *OdontogramRepository) Save(ctx context.Context, o *odontogram.Odontogram) error {
	result := r.db.WithContext(ctx).Model(o).
		Select("teeth", "updated_at").
		Where("deleted_at IS NULL").
		Updates(o)
	if result.Error != nil {
		return fmt.Errorf("saving odontogram: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return odontogram.ErrOdontogramNotFound
	}
	return nil
}
