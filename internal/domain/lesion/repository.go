package lesion

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, l *Lesion) error
	GetByID(ctx context.Context, id uuid.UUID) (*Lesion, error)
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateLesionCommand) (*Lesion, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q *ListLesionsQuery) (*PagedLesions, error)
}
