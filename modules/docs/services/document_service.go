package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleetdock/fleetdock/modules/docs/domain/aggregates/document"
	"github.com/fleetdock/fleetdock/modules/docs/domain/upload"
	"github.com/fleetdock/fleetdock/pkg/composables"
	"github.com/fleetdock/fleetdock/pkg/eventbus"
)

type DocumentService struct {
	repo      document.Repository
	storage   upload.Storage
	publisher eventbus.EventBus
}

func NewDocumentService(repo document.Repository, storage upload.Storage, publisher eventbus.EventBus) *DocumentService {
	return &DocumentService{repo: repo, storage: storage, publisher: publisher}
}

func (s *DocumentService) GetPaginated(ctx context.Context, params *document.FindParams) ([]document.Document, int64, error) {
	if params != nil {
		params.Q = strings.TrimSpace(params.Q)
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (document.Document, error) {
	return s.repo.GetByID(ctx, id)
}

// ListExpiring returns documents whose expiry date falls inside the window
// from now, soonest first.
func (s *DocumentService) ListExpiring(ctx context.Context, window time.Duration) ([]document.Document, error) {
	return s.repo.ListExpiring(ctx, time.Now().Add(window))
}

func (s *DocumentService) Create(ctx context.Context, dto *document.CreateDTO) (document.Document, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (document.Document, error) {
		created, err := s.repo.Create(txCtx, dto.ToEntity())
		if err != nil {
			return document.Document{}, err
		}
		s.publisher.Publish(document.NewCreatedEvent(txCtx, created))
		return created, nil
	})
}

func (s *DocumentService) Update(ctx context.Context, id uuid.UUID, dto *document.UpdateDTO) (document.Document, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (document.Document, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return document.Document{}, err
		}
		updated, err := s.repo.Update(txCtx, dto.ToEntity(current))
		if err != nil {
			return document.Document{}, err
		}
		s.publisher.Publish(document.NewUpdatedEvent(txCtx, updated))
		return updated, nil
	})
}

// Delete removes the record and then the stored file. The file removal is
// best effort: a stale object in storage is preferable to a dangling record.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) (document.Document, error) {
	entity, err := composables.InTxResult(ctx, func(txCtx context.Context) (document.Document, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return document.Document{}, err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return document.Document{}, err
		}
		s.publisher.Publish(document.NewDeletedEvent(txCtx, entity))
		return entity, nil
	})
	if err != nil {
		return document.Document{}, err
	}

	if entity.DriveFileID() != "" {
		if err := s.storage.Delete(ctx, entity.DriveFileID()); err != nil {
			composables.UseLogger(ctx).
				WithField("document_id", id).
				WithError(err).
				Warn("stored file could not be removed")
		}
	}
	return entity, nil
}
