package crewevent

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetdock/fleetdock/modules/crew/domain/history"
)

type CreateDTO struct {
	Kind        string     `json:"kind"`
	FromShipID  *uuid.UUID `json:"from_ship_id,omitempty"`
	ToShipID    *uuid.UUID `json:"to_ship_id,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
	AssignStart *time.Time `json:"assign_start,omitempty"`
	AssignEnd   *time.Time `json:"assign_end,omitempty"`
	AssignedBy  string     `json:"assigned_by,omitempty"`
	ReleasedBy  string     `json:"released_by,omitempty"`
}

// ToEntity builds the unsaved record; the caller supplies the crew member
// and acting user.
func (d *CreateDTO) ToEntity(crewID uuid.UUID, performedBy string) CrewEvent {
	e := CrewEvent{
		CrewID:      crewID,
		Kind:        history.Kind(d.Kind),
		OccurredAt:  d.OccurredAt,
		PerformedBy: performedBy,
		AssignStart: d.AssignStart,
		AssignEnd:   d.AssignEnd,
		AssignedBy:  d.AssignedBy,
		ReleasedBy:  d.ReleasedBy,
	}
	if d.FromShipID != nil {
		e.FromShipID = *d.FromShipID
	}
	if d.ToShipID != nil {
		e.ToShipID = *d.ToShipID
	}
	return e
}
