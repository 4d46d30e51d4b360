package ship

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("ship not found")
var ErrIMOTaken = errors.New("imo number already registered")

type FindParams struct {
	Q         string
	CompanyID uuid.UUID
	Status    Status
	Limit     int
	Offset    int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Ship, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Ship, error)
	Create(ctx context.Context, s Ship) (Ship, error)
	Update(ctx context.Context, s Ship) (Ship, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
