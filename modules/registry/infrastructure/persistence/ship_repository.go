package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/fleetdock/fleetdock/modules/registry/domain/aggregates/ship"
	"github.com/fleetdock/fleetdock/pkg/composables"
)

type ShipRepository struct{}

func NewShipRepository() ship.Repository {
	return &ShipRepository{}
}

const shipColumns = `id, company_id, name, imo_number, flag, ship_type, gross_tonnage, status, created_at, updated_at`

func (r *ShipRepository) GetPaginated(ctx context.Context, params *ship.FindParams) ([]ship.Ship, int64, error) {
	if params == nil {
		params = &ship.FindParams{}
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	limit, offset := clampPage(params.Limit, params.Offset, 20)
	q := strings.TrimSpace(params.Q)

	where := "WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR imo_number ILIKE '%' || $1 || '%')"
	args := []any{q}
	if params.CompanyID != uuid.Nil {
		where += fmt.Sprintf(" AND company_id = $%d", len(args)+1)
		args = append(args, pgUUID(params.CompanyID))
	}
	if params.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, string(params.Status))
	}

	var total int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM registry_ships "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ships: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM registry_ships %s ORDER BY name ASC LIMIT $%d OFFSET $%d",
		shipColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list ships: %w", err)
	}
	defer rows.Close()

	out := make([]ship.Ship, 0, limit)
	for rows.Next() {
		entity, err := scanShip(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, entity)
	}
	return out, total, rows.Err()
}

func (r *ShipRepository) GetByID(ctx context.Context, id uuid.UUID) (ship.Ship, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return ship.Ship{}, err
	}

	row := tx.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM registry_ships WHERE id = $1", shipColumns),
		pgUUID(id),
	)
	entity, err := scanShip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ship.Ship{}, ship.ErrNotFound
		}
		return ship.Ship{}, err
	}
	return entity, nil
}

func (r *ShipRepository) Create(ctx context.Context, s ship.Ship) (ship.Ship, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return ship.Ship{}, err
	}

	row := tx.QueryRow(ctx, `
INSERT INTO registry_ships (company_id, name, imo_number, flag, ship_type, gross_tonnage, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+shipColumns,
		pgUUID(s.CompanyID()), s.Name(), s.IMONumber(), s.Flag(), s.ShipType(), s.GrossTonnage(), string(s.Status()),
	)
	entity, err := scanShip(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ship.Ship{}, ship.ErrIMOTaken
		}
		return ship.Ship{}, fmt.Errorf("create ship: %w", err)
	}
	return entity, nil
}

func (r *ShipRepository) Update(ctx context.Context, s ship.Ship) (ship.Ship, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return ship.Ship{}, err
	}

	row := tx.QueryRow(ctx, `
UPDATE registry_ships
SET name = $2, flag = $3, ship_type = $4, gross_tonnage = $5, status = $6, updated_at = now()
WHERE id = $1
RETURNING `+shipColumns,
		pgUUID(s.ID()), s.Name(), s.Flag(), s.ShipType(), s.GrossTonnage(), string(s.Status()),
	)
	entity, err := scanShip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ship.Ship{}, ship.ErrNotFound
		}
		return ship.Ship{}, fmt.Errorf("update ship: %w", err)
	}
	return entity, nil
}

func (r *ShipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, "DELETE FROM registry_ships WHERE id = $1", pgUUID(id))
	if err != nil {
		return fmt.Errorf("delete ship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ship.ErrNotFound
	}
	return nil
}

func scanShip(row pgx.Row) (ship.Ship, error) {
	var (
		id           pgtype.UUID
		companyID    pgtype.UUID
		name         string
		imoNumber    string
		flag         string
		shipType     string
		grossTonnage int64
		status       string
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)
	if err := row.Scan(&id, &companyID, &name, &imoNumber, &flag, &shipType, &grossTonnage, &status, &createdAt, &updatedAt); err != nil {
		return ship.Ship{}, err
	}
	return ship.Hydrate(
		fromPgUUID(id),
		fromPgUUID(companyID),
		name,
		imoNumber,
		flag,
		shipType,
		grossTonnage,
		ship.Status(status),
		createdAt.Time,
		updatedAt.Time,
	), nil
}
