package document

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("document not found")
var ErrNumberTaken = errors.New("document number already registered")

type FindParams struct {
	Q            string
	Kind         Kind
	TargetType   TargetType
	TargetID     uuid.UUID
	UploadStatus UploadStatus
	Limit        int
	Offset       int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Document, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Document, error)
	GetByNumber(ctx context.Context, targetID uuid.UUID, number string) (Document, error)
	ListExpiring(ctx context.Context, before time.Time) ([]Document, error)
	Create(ctx context.Context, d Document) (Document, error)
	Update(ctx context.Context, d Document) (Document, error)
	SetUploadState(ctx context.Context, id uuid.UUID, status UploadStatus, fileID, webLink string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
