package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/fleetdock/fleetdock/modules/registry/domain/aggregates/company"
	"github.com/fleetdock/fleetdock/modules/registry/domain/aggregates/ship"
	"github.com/fleetdock/fleetdock/pkg/composables"
	"github.com/fleetdock/fleetdock/pkg/eventbus"
)

type ShipService struct {
	repo      ship.Repository
	companies company.Repository
	publisher eventbus.EventBus
}

func NewShipService(repo ship.Repository, companies company.Repository, publisher eventbus.EventBus) *ShipService {
	return &ShipService{repo: repo, companies: companies, publisher: publisher}
}

func (s *ShipService) GetPaginated(ctx context.Context, params *ship.FindParams) ([]ship.Ship, int64, error) {
	if params != nil {
		params.Q = strings.TrimSpace(params.Q)
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *ShipService) GetByID(ctx context.Context, id uuid.UUID) (ship.Ship, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ShipService) Create(ctx context.Context, dto *ship.CreateDTO) (ship.Ship, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (ship.Ship, error) {
		// a ship must belong to a known company
		if _, err := s.companies.GetByID(txCtx, dto.CompanyID); err != nil {
			return ship.Ship{}, err
		}
		created, err := s.repo.Create(txCtx, dto.ToEntity())
		if err != nil {
			return ship.Ship{}, err
		}
		s.publisher.Publish(ship.NewCreatedEvent(txCtx, created))
		return created, nil
	})
}

func (s *ShipService) Update(ctx context.Context, id uuid.UUID, dto *ship.UpdateDTO) (ship.Ship, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (ship.Ship, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return ship.Ship{}, err
		}
		updated, err := s.repo.Update(txCtx, dto.ToEntity(current))
		if err != nil {
			return ship.Ship{}, err
		}
		s.publisher.Publish(ship.NewUpdatedEvent(txCtx, updated))
		return updated, nil
	})
}

func (s *ShipService) Delete(ctx context.Context, id uuid.UUID) (ship.Ship, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (ship.Ship, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return ship.Ship{}, err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return ship.Ship{}, err
		}
		s.publisher.Publish(ship.NewDeletedEvent(txCtx, entity))
		return entity, nil
	})
}
