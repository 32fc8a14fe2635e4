package odontogram

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// GetByPatient returns ErrOdontogramNotFound when the patient has no
	// chart yet; the service layer creates one on demand.
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*Odontogram, error)

	Create(ctx context.Context, o *Odontogram) error

	// Save persists the full teeth document.
	Save(ctx context.Context, o *Odontogram) error
}
