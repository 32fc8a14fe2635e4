package doctor

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dentflow/dentflow/internal/domain/schedule"
)

type Specialty string

const (
	SpecialtyGeneral      Specialty = "general"
	SpecialtyOrthodontics Specialty = "orthodontics"
	SpecialtyEndodontics  Specialty = "endodontics"
	SpecialtyPeriodontics Specialty = "periodontics"
	SpecialtySurgery      Specialty = "oral_surgery"
	SpecialtyPediatric    Specialty = "pediatric"
	SpecialtyProsthetics  Specialty = "prosthetics"
)

func (s Specialty) IsValid() bool {
	switch s {
	case SpecialtyGeneral, SpecialtyOrthodontics, SpecialtyEndodontics,
		SpecialtyPeriodontics, SpecialtySurgery, SpecialtyPediatric, SpecialtyProsthetics:
		return true
	}
	return false
}

// Doctor owns its WeeklyAvailability: the value is replaced wholesale via
// SetAvailability and never mutated through an alias.
type Doctor struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	FirstName string    `gorm:"column:first_name;type:varchar(100);not null"`
	LastName  string    `gorm:"column:last_name;type:varchar(100);not null"`
	Specialty Specialty `gorm:"column:specialty;type:varchar(50);not null;index"`
	LicenseNo string    `gorm:"column:license_no;type:varchar(50);uniqueIndex"`
	Phone     string    `gorm:"column:phone;type:varchar(20)"`
	Email     string    `gorm:"column:email;type:varchar(255)"`

	Availability schedule.WeeklyAvailability `gorm:"column:availability;serializer:json"`

	IsActive bool `gorm:"column:is_active;default:true;index"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Doctor) TableName() string {
	return "clinical.doctors"
}

func (d *Doctor) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// SetAvailability replaces the whole weekly schedule.
func (d *Doctor) SetAvailability(w schedule.WeeklyAvailability) {
	d.Availability = w
}

// AddAvailability registers one more bookable range on a weekday.
func (d *Doctor) AddAvailability(day time.Weekday, iv schedule.TimeInterval) error {
	updated, err := d.Availability.AddInterval(day, iv)
	if err != nil {
		return err
	}
	d.Availability = updated
	return nil
}

type CreateDoctorCommand struct {
	FirstName    string
	LastName     string
	Specialty    Specialty
	LicenseNo    string
	Phone        string
	Email        string
	Availability schedule.WeeklyAvailability
	CreatedBy    uuid.UUID
}

type UpdateDoctorCommand struct {
	FirstName *string
	LastName  *string
	Specialty *Specialty
	Phone     *string
	Email     *string
	IsActive  *bool
	UpdatedBy uuid.UUID
}

type ListDoctorsQuery struct {
	Specialty  *Specialty
	OnlyActive bool
	Page       int
	PageSize   int
}

type PagedDoctors struct {
	Doctors    []*Doctor
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
