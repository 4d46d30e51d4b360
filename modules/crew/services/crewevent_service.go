package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/fleetdock/fleetdock/modules/crew/domain/aggregates/crewmember"
	"github.com/fleetdock/fleetdock/modules/crew/domain/entities/crewevent"
	"github.com/fleetdock/fleetdock/pkg/composables"
)

type CrewEventService struct {
	events crewevent.Repository
	crew   crewmember.Repository
}

func NewCrewEventService(events crewevent.Repository, crew crewmember.Repository) *CrewEventService {
	return &CrewEventService{events: events, crew: crew}
}

// Append validates and stores one log record. The acting user from the
// request context becomes PerformedBy.
func (s *CrewEventService) Append(ctx context.Context, crewID uuid.UUID, dto *crewevent.CreateDTO) (crewevent.CrewEvent, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (crewevent.CrewEvent, error) {
		if _, err := s.crew.GetByID(txCtx, crewID); err != nil {
			return crewevent.CrewEvent{}, err
		}

		entity := dto.ToEntity(crewID, composables.UseActor(txCtx))
		if err := entity.Validate(); err != nil {
			return crewevent.CrewEvent{}, err
		}
		return s.events.Append(txCtx, entity)
	})
}

func (s *CrewEventService) ListByCrew(ctx context.Context, crewID uuid.UUID, limit, offset int) ([]crewevent.CrewEvent, error) {
	if _, err := s.crew.GetByID(ctx, crewID); err != nil {
		return nil, err
	}
	return s.events.ListByCrew(ctx, &crewevent.FindParams{CrewID: crewID, Limit: limit, Offset: offset})
}
