package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/fleetdock/fleetdock/modules/crew/domain/entities/crewevent"
	"github.com/fleetdock/fleetdock/modules/crew/domain/history"
	"github.com/fleetdock/fleetdock/pkg/composables"
)

type CrewEventRepository struct{}

func NewCrewEventRepository() crewevent.Repository {
	return &CrewEventRepository{}
}

const crewEventColumns = `id, crew_id, kind, from_ship_id, to_ship_id, occurred_at, sequence, performed_by, assign_start, assign_end, assigned_by, released_by, created_at`

func (r *CrewEventRepository) Append(ctx context.Context, e crewevent.CrewEvent) (crewevent.CrewEvent, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return crewevent.CrewEvent{}, err
	}

	row := tx.QueryRow(ctx, `
INSERT INTO crew_events (crew_id, kind, from_ship_id, to_ship_id, occurred_at, performed_by, assign_start, assign_end, assigned_by, released_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING `+crewEventColumns,
		pgUUID(e.CrewID),
		string(e.Kind),
		pgUUID(e.FromShipID),
		pgUUID(e.ToShipID),
		e.OccurredAt,
		e.PerformedBy,
		e.AssignStart,
		e.AssignEnd,
		e.AssignedBy,
		e.ReleasedBy,
	)
	created, err := scanCrewEvent(row)
	if err != nil {
		return crewevent.CrewEvent{}, fmt.Errorf("append crew event: %w", err)
	}
	return created, nil
}

func (r *CrewEventRepository) ListByCrew(ctx context.Context, params *crewevent.FindParams) ([]crewevent.CrewEvent, error) {
	if params == nil {
		params = &crewevent.FindParams{}
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	limit, offset := clampPage(params.Limit, params.Offset, 500)

	rows, err := tx.Query(ctx, fmt.Sprintf(`
SELECT %s FROM crew_events
WHERE crew_id = $1
ORDER BY occurred_at ASC, sequence ASC
LIMIT $2 OFFSET $3`, crewEventColumns),
		pgUUID(params.CrewID), limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list crew events: %w", err)
	}
	defer rows.Close()

	out := make([]crewevent.CrewEvent, 0, 64)
	for rows.Next() {
		e, err := scanCrewEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanCrewEvent(row pgx.Row) (crewevent.CrewEvent, error) {
	var (
		id          pgtype.UUID
		crewID      pgtype.UUID
		kind        string
		fromShipID  pgtype.UUID
		toShipID    pgtype.UUID
		occurredAt  pgtype.Timestamptz
		sequence    int64
		performedBy string
		assignStart pgtype.Timestamptz
		assignEnd   pgtype.Timestamptz
		assignedBy  string
		releasedBy  string
		createdAt   pgtype.Timestamptz
	)
	if err := row.Scan(
		&id, &crewID, &kind, &fromShipID, &toShipID, &occurredAt, &sequence,
		&performedBy, &assignStart, &assignEnd, &assignedBy, &releasedBy, &createdAt,
	); err != nil {
		return crewevent.CrewEvent{}, err
	}

	e := crewevent.CrewEvent{
		ID:          fromPgUUID(id),
		CrewID:      fromPgUUID(crewID),
		Kind:        history.Kind(kind),
		FromShipID:  fromPgUUID(fromShipID),
		ToShipID:    fromPgUUID(toShipID),
		OccurredAt:  occurredAt.Time,
		Sequence:    sequence,
		PerformedBy: performedBy,
		AssignedBy:  assignedBy,
		ReleasedBy:  releasedBy,
		CreatedAt:   createdAt.Time,
	}
	if assignStart.Valid {
		t := assignStart.Time
		e.AssignStart = &t
	}
	if assignEnd.Valid {
		t := assignEnd.Time
		e.AssignEnd = &t
	}
	return e, nil
}
