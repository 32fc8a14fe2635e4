package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new doctor. Returns ErrDoctorAlreadyExists on duplicate license number.
	Create(ctx context.Context, d *Doctor) error

	// GetByID returns ErrDoctorNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	// Update applies partial updates.
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateDoctorCommand) (*Doctor, error)

	// UpdateAvailability persists the availability column only.
	UpdateAvailability(ctx context.Context, d *Doctor) error

	SoftDelete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, q *ListDoctorsQuery) (*PagedDoctors, error)
}
