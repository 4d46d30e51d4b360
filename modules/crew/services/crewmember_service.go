package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/fleetdock/fleetdock/modules/crew/domain/aggregates/crewmember"
	"github.com/fleetdock/fleetdock/pkg/composables"
	"github.com/fleetdock/fleetdock/pkg/eventbus"
)

type CrewMemberService struct {
	repo      crewmember.Repository
	publisher eventbus.EventBus
}

func NewCrewMemberService(repo crewmember.Repository, publisher eventbus.EventBus) *CrewMemberService {
	return &CrewMemberService{repo: repo, publisher: publisher}
}

func (s *CrewMemberService) GetPaginated(ctx context.Context, params *crewmember.FindParams) ([]crewmember.CrewMember, int64, error) {
	if params != nil {
		params.Q = strings.TrimSpace(params.Q)
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *CrewMemberService) GetByID(ctx context.Context, id uuid.UUID) (crewmember.CrewMember, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CrewMemberService) Create(ctx context.Context, dto *crewmember.CreateDTO) (crewmember.CrewMember, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (crewmember.CrewMember, error) {
		created, err := s.repo.Create(txCtx, dto.ToEntity())
		if err != nil {
			return crewmember.CrewMember{}, err
		}
		s.publisher.Publish(crewmember.NewCreatedEvent(txCtx, created))
		return created, nil
	})
}

func (s *CrewMemberService) Update(ctx context.Context, id uuid.UUID, dto *crewmember.UpdateDTO) (crewmember.CrewMember, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (crewmember.CrewMember, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return crewmember.CrewMember{}, err
		}
		updated, err := s.repo.Update(txCtx, dto.ToEntity(current))
		if err != nil {
			return crewmember.CrewMember{}, err
		}
		s.publisher.Publish(crewmember.NewUpdatedEvent(txCtx, updated))
		return updated, nil
	})
}

func (s *CrewMemberService) Delete(ctx context.Context, id uuid.UUID) (crewmember.CrewMember, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (crewmember.CrewMember, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return crewmember.CrewMember{}, err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return crewmember.CrewMember{}, err
		}
		s.publisher.Publish(crewmember.NewDeletedEvent(txCtx, entity))
		return entity, nil
	})
}
