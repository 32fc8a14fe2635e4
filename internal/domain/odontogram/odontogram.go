package odontogram

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ToothSurface identifies one face of a tooth in standard dental notation.
type ToothSurface string

const (
	SurfaceMesial     ToothSurface = "mesial"
	SurfaceDistal     ToothSurface = "distal"
	SurfaceOcclusal   ToothSurface = "occlusal"
	SurfaceVestibular ToothSurface = "vestibular"
	SurfaceLingual    ToothSurface = "lingual"
)

func (s ToothSurface) IsValid() bool {
	switch s {
	case SurfaceMesial, SurfaceDistal, SurfaceOcclusal, SurfaceVestibular, SurfaceLingual:
		return true
	}
	return false
}

// ValidFDITooth accepts permanent (11-48) and primary (51-85) FDI numbers.
func ValidFDITooth(n int) bool {
	quadrant, position := n/10, n%10
	if position < 1 {
		return false
	}
	switch {
	case quadrant >= 1 && quadrant <= 4:
		return position <= 8
	case quadrant >= 5 && quadrant <= 8:
		return position <= 5
	}
	return false
}

// FindingState tracks whether a charted finding is still an open problem.
type FindingState string

const (
	FindingPresent  FindingState = "present"
	FindingTreated  FindingState = "treated"
	FindingResolved FindingState = "resolved"
)

func (s FindingState) IsValid() bool {
	switch s {
	case FindingPresent, FindingTreated, FindingResolved:
		return true
	}
	return false
}

// Finding is one charted observation on a tooth surface: a lesion, the
// treatment applied to it, or both.
type Finding struct {
	Surface     ToothSurface `json:"surface"`
	LesionID    *uuid.UUID   `json:"lesion_id,omitempty"`
	TreatmentID *uuid.UUID   `json:"treatment_id,omitempty"`
	State       FindingState `json:"state"`
	Note        string       `json:"note,omitempty"`
	RecordedAt  time.Time    `json:"recorded_at"`
	RecordedBy  uuid.UUID    `json:"recorded_by"`
}

// Tooth groups the findings charted on a single tooth, keyed by FDI number
// in the parent chart.
type Tooth struct {
	Findings []Finding `json:"findings"`
	Missing  bool      `json:"missing,omitempty"`
}

// Odontogram is the dental chart: one per patient, teeth keyed by FDI
// number, each holding its surface findings.
type Odontogram struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;uniqueIndex"`

	Teeth map[int]*Tooth `gorm:"column:teeth;serializer:json"`
}

func (Odontogram) TableName() string {
	return "clinical.odontograms"
}

// NewForPatient starts an empty chart.
func NewForPatient(patientID uuid.UUID) (*Odontogram, error) {
	if patientID == uuid.Nil {
		return nil, ErrMissingPatientID
	}
	return &Odontogram{PatientID: patientID, Teeth: map[int]*Tooth{}}, nil
}

// UpsertFinding records a finding on a tooth surface, replacing any earlier
// finding for the same surface.
func (o *Odontogram) UpsertFinding(toothNumber int, f Finding) error {
	if !ValidFDITooth(toothNumber) {
		return fmt.Errorf("%w: %d", ErrInvalidToothNumber, toothNumber)
	}
	if !f.Surface.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSurface, f.Surface)
	}
	if !f.State.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFindingState, f.State)
	}
	if f.LesionID == nil && f.TreatmentID == nil {
		return ErrEmptyFinding
	}

	if o.Teeth == nil {
		o.Teeth = map[int]*Tooth{}
	}
	tooth, ok := o.Teeth[toothNumber]
	if !ok {
		tooth = &Tooth{}
		o.Teeth[toothNumber] = tooth
	}

	for i, existing := range tooth.Findings {
		if existing.Surface == f.Surface {
			tooth.Findings[i] = f
			return nil
		}
	}
	tooth.Findings = append(tooth.Findings, f)
	return nil
}

// ClearFinding removes the finding for a surface; clearing an absent finding
// is a no-op.
func (o *Odontogram) ClearFinding(toothNumber int, surface ToothSurface) error {
	if !ValidFDITooth(toothNumber) {
		return fmt.Errorf("%w: %d", ErrInvalidToothNumber, toothNumber)
	}
	tooth, ok := o.Teeth[toothNumber]
	if !ok {
		return nil
	}
	for i, f := range tooth.Findings {
		if f.Surface == surface {
			tooth.Findings = append(tooth.Findings[:i], tooth.Findings[i+1:]...)
			break
		}
	}
	if len(tooth.Findings) == 0 && !tooth.Missing {
		delete(o.Teeth, toothNumber)
	}
	return nil
}

// MarkToothMissing charts an extracted or congenitally missing tooth.
func (o *Odontogram) MarkToothMissing(toothNumber int, missing bool) error {
	if !ValidFDITooth(toothNumber) {
		return fmt.Errorf("%w: %d", ErrInvalidToothNumber, toothNumber)
	}
	if o.Teeth == nil {
		o.Teeth = map[int]*Tooth{}
	}
	tooth, ok := o.Teeth[toothNumber]
	if !ok {
		tooth = &Tooth{}
		o.Teeth[toothNumber] = tooth
	}
	tooth.Missing = missing
	if !missing && len(tooth.Findings) == 0 {
		delete(o.Teeth, toothNumber)
	}
	return nil
}
