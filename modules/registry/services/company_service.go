package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/fleetdock/fleetdock/modules/registry/domain/aggregates/company"
	"github.com/fleetdock/fleetdock/pkg/composables"
	"github.com/fleetdock/fleetdock/pkg/eventbus"
)

type CompanyService struct {
	repo      company.Repository
	publisher eventbus.EventBus
}

func NewCompanyService(repo company.Repository, publisher eventbus.EventBus) *CompanyService {
	return &CompanyService{repo: repo, publisher: publisher}
}

func (s *CompanyService) GetPaginated(ctx context.Context, params *company.FindParams) ([]company.Company, int64, error) {
	if params != nil {
		params.Q = strings.TrimSpace(params.Q)
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *CompanyService) GetByID(ctx context.Context, id uuid.UUID) (company.Company, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CompanyService) Create(ctx context.Context, dto *company.CreateDTO) (company.Company, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (company.Company, error) {
		created, err := s.repo.Create(txCtx, dto.ToEntity())
		if err != nil {
			return company.Company{}, err
		}
		s.publisher.Publish(company.NewCreatedEvent(txCtx, created))
		return created, nil
	})
}

func (s *CompanyService) Update(ctx context.Context, id uuid.UUID, dto *company.UpdateDTO) (company.Company, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (company.Company, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return company.Company{}, err
		}
		updated, err := s.repo.Update(txCtx, dto.ToEntity(current))
		if err != nil {
			return company.Company{}, err
		}
		s.publisher.Publish(company.NewUpdatedEvent(txCtx, updated))
		return updated, nil
	})
}

func (s *CompanyService) Delete(ctx context.Context, id uuid.UUID) (company.Company, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (company.Company, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return company.Company{}, err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return company.Company{}, err
		}
		s.publisher.Publish(company.NewDeletedEvent(txCtx, entity))
		return entity, nil
	})
}
