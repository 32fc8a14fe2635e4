package lesion

import (
	"time"

	"github.com/google/uuid"
)

// Lesion is a catalog entry for a diagnosable dental finding (caries,
// fracture, abrasion, ...), referenced from odontogram surface records.
type Lesion struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	Code        string `gorm:"column:code;type:varchar(20);uniqueIndex;not null"`
	Name        string `gorm:"column:name;type:varchar(200);not null"`
	Description string `gorm:"column:description;type:text"`

	// Chart color used by the odontogram UI, "#RRGGBB".
	Color string `gorm:"column:color;type:varchar(7)"`

	IsActive bool `gorm:"column:is_active;default:true;index"`
}

func (Lesion) TableName() string {
	return "clinical.lesions"
}

type CreateLesionCommand struct {
	Code        string
	Name        string
	Description string
	Color       string
}

type UpdateLesionCommand struct {
	Name        *string
	Description *string
	Color       *string
	IsActive    *bool
}

type ListLesionsQuery struct {
	Search     string
	OnlyActive bool
	Page       int
	PageSize   int
}

type PagedLesions struct {
	Lesions    []*Lesion
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
