package crewmember

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("crew member not found")
var ErrPassportTaken = errors.New("passport number already registered")

type FindParams struct {
	Q      string
	Rank   string
	Status Status
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]CrewMember, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (CrewMember, error)
	Create(ctx context.Context, m CrewMember) (CrewMember, error)
	Update(ctx context.Context, m CrewMember) (CrewMember, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
