package mappers

import (
	"github.com/google/uuid"

	"github.com/fleetdock/fleetdock/modules/crew/domain/aggregates/crewmember"
	"github.com/fleetdock/fleetdock/modules/crew/domain/entities/crewevent"
	"github.com/fleetdock/fleetdock/modules/crew/presentation/viewmodels"
)

func CrewMemberToViewModel(m crewmember.CrewMember) viewmodels.CrewMember {
	return viewmodels.CrewMember{
		ID:          m.ID().String(),
		FirstName:   m.FirstName(),
		LastName:    m.LastName(),
		Rank:        m.Rank(),
		Nationality: m.Nationality(),
		PassportNo:  m.PassportNo(),
		Status:      string(m.Status()),
		CreatedAt:   m.CreatedAt(),
		UpdatedAt:   m.UpdatedAt(),
	}
}

func CrewEventToViewModel(e crewevent.CrewEvent) viewmodels.CrewEvent {
	vm := viewmodels.CrewEvent{
		ID:          e.ID.String(),
		Kind:        string(e.Kind),
		OccurredAt:  e.OccurredAt,
		Sequence:    e.Sequence,
		PerformedBy: e.PerformedBy,
		AssignStart: e.AssignStart,
		AssignEnd:   e.AssignEnd,
	}
	if e.FromShipID != uuid.Nil {
		vm.FromShipID = e.FromShipID.String()
	}
	if e.ToShipID != uuid.Nil {
		vm.ToShipID = e.ToShipID.String()
	}
	return vm
}
