// Package crewevent is the persisted assignment event log. Records are
// append-only: the history projection replays them, it never edits them.
package crewevent

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/fleetdock/fleetdock/modules/crew/domain/history"
)

var ErrNotFound = errors.New("crew event not found")
var ErrMalformed = errors.New("malformed crew event")

// CrewEvent is one sign-on, transfer or sign-off action for a crew member.
// Sequence is a monotonic insertion index used as the tie-break when several
// events share an effective date.
type CrewEvent struct {
	ID          uuid.UUID
	CrewID      uuid.UUID
	Kind        history.Kind
	FromShipID  uuid.UUID
	ToShipID    uuid.UUID
	OccurredAt  time.Time
	Sequence    int64
	PerformedBy string
	AssignStart *time.Time
	AssignEnd   *time.Time
	AssignedBy  string
	ReleasedBy  string
	CreatedAt   time.Time
}

// Validate enforces the per-kind field requirements before a record enters
// the log.
func (e CrewEvent) Validate() error {
	switch e.Kind {
	case history.KindAssign:
		if e.ToShipID == uuid.Nil {
			return errors.Wrap(ErrMalformed, "assign requires a target ship")
		}
	case history.KindReassign:
		if e.FromShipID == uuid.Nil || e.ToShipID == uuid.Nil {
			return errors.Wrap(ErrMalformed, "reassign requires source and target ships")
		}
	case history.KindRelease:
		if e.FromShipID == uuid.Nil {
			return errors.Wrap(ErrMalformed, "release requires a source ship")
		}
	default:
		return errors.Wrapf(ErrMalformed, "unknown kind %q", e.Kind)
	}
	if e.OccurredAt.IsZero() {
		return errors.Wrap(ErrMalformed, "missing effective date")
	}
	return nil
}

// ToHistoryEvent maps the persisted record into the replay input shape.
func (e CrewEvent) ToHistoryEvent() history.Event {
	ev := history.Event{
		ID:           e.ID.String(),
		Kind:         e.Kind,
		OccurredAt:   e.OccurredAt,
		Sequence:     e.Sequence,
		PerformedBy:  e.PerformedBy,
		AssignStart:  e.AssignStart,
		AssignEnd:    e.AssignEnd,
		AssignActor:  e.AssignedBy,
		ReleaseActor: e.ReleasedBy,
	}
	if e.FromShipID != uuid.Nil {
		ev.FromResource = e.FromShipID.String()
	}
	if e.ToShipID != uuid.Nil {
		ev.ToResource = e.ToShipID.String()
	}
	return ev
}

type FindParams struct {
	CrewID uuid.UUID
	Limit  int
	Offset int
}

type Repository interface {
	// Append stores the event and assigns its monotonic sequence.
	Append(ctx context.Context, e CrewEvent) (CrewEvent, error)
	ListByCrew(ctx context.Context, params *FindParams) ([]CrewEvent, error)
}
