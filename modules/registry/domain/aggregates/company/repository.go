package company

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("company not found")
var ErrRegistrationTaken = errors.New("registration number already in use")

type FindParams struct {
	Q      string
	Status Status
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Company, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Company, error)
	Create(ctx context.Context, c Company) (Company, error)
	Update(ctx context.Context, c Company) (Company, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
