package appointment

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dentflow/dentflow/internal/domain/odontogram"
)

// PlannedProcedure is one unit of planned work: a treatment from the catalog
// applied to a tooth, optionally narrowed to specific surfaces.
type PlannedProcedure struct {
	TreatmentID uuid.UUID                 `json:"treatment_id"`
	ToothNumber int                       `json:"tooth_number"`
	Surfaces    []odontogram.ToothSurface `json:"surfaces"`
	Comment     string                    `json:"comment,omitempty"`
}

// TreatmentPlan is the work agreed for an appointment. It is owned by
// exactly one appointment and persisted inline with it.
type TreatmentPlan struct {
	Procedures []PlannedProcedure `json:"procedures"`
}

// Validate enforces the plan invariants: at least one procedure, every
// procedure referencing a real treatment and a valid tooth, and at least one
// procedure carrying a non-empty surface set.
func (p *TreatmentPlan) Validate() error {
	if len(p.Procedures) == 0 {
		return ErrEmptyTreatmentPlan
	}

	hasSurfaces := false
	for i, proc := range p.Procedures {
		if proc.TreatmentID == uuid.Nil {
			return fmt.Errorf("procedure %d: treatment id is required", i)
		}
		if !odontogram.ValidFDITooth(proc.ToothNumber) {
			return fmt.Errorf("procedure %d: %w: %d", i, odontogram.ErrInvalidToothNumber, proc.ToothNumber)
		}
		for _, s := range proc.Surfaces {
			if !s.IsValid() {
				return fmt.Errorf("procedure %d: %w: %q", i, odontogram.ErrInvalidSurface, s)
			}
		}
		if len(proc.Surfaces) > 0 {
			hasSurfaces = true
		}
	}
	if !hasSurfaces {
		return ErrProcedureNeedsSurfaces
	}
	return nil
}
