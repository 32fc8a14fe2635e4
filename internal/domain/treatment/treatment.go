package treatment

import (
	"time"

	"github.com/google/uuid"
)

// Treatment is a catalog entry describing a billable dental procedure.
type Treatment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	Code        string `gorm:"column:code;type:varchar(20);uniqueIndex;not null"`
	Name        string `gorm:"column:name;type:varchar(200);not null"`
	Description string `gorm:"column:description;type:text"`

	// Typical length in clinic slot units; used as the default slot count
	// when booking this treatment.
	DurationSlots int `gorm:"column:duration_slots;not null;default:1"`

	PriceCents int64  `gorm:"column:price_cents;not null;default:0"`
	Currency   string `gorm:"column:currency;type:varchar(3);default:'USD'"`

	IsActive bool `gorm:"column:is_active;default:true;index"`
}

func (Treatment) TableName() string {
	return "clinical.treatments"
}

type CreateTreatmentCommand struct {
	Code          string
	Name          string
	Description   string
	DurationSlots int
	PriceCents    int64
	Currency      string
}

type UpdateTreatmentCommand struct {
	Name          *string
	Description   *string
	DurationSlots *int
	PriceCents    *int64
	IsActive      *bool
}

type ListTreatmentsQuery struct {
	Search     string
	OnlyActive bool
	Page       int
	PageSize   int
}

type PagedTreatments struct {
	Treatments []*Treatment
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
