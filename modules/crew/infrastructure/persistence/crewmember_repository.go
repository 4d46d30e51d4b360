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

	"github.com/fleetdock/fleetdock/modules/crew/domain/aggregates/crewmember"
	"github.com/fleetdock/fleetdock/pkg/composables"
)

type CrewMemberRepository struct{}

func NewCrewMemberRepository() crewmember.Repository {
	return &CrewMemberRepository{}
}

const crewMemberColumns = `id, first_name, last_name, rank, nationality, passport_no, status, created_at, updated_at`

func (r *CrewMemberRepository) GetPaginated(ctx context.Context, params *crewmember.FindParams) ([]crewmember.CrewMember, int64, error) {
	if params == nil {
		params = &crewmember.FindParams{}
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	limit, offset := clampPage(params.Limit, params.Offset, 20)
	q := strings.TrimSpace(params.Q)

	where := "WHERE ($1 = '' OR first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%' OR passport_no ILIKE '%' || $1 || '%')"
	args := []any{q}
	if params.Rank != "" {
		where += fmt.Sprintf(" AND rank = $%d", len(args)+1)
		args = append(args, params.Rank)
	}
	if params.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, string(params.Status))
	}

	var total int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM crew_members "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count crew members: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM crew_members %s ORDER BY last_name ASC, first_name ASC LIMIT $%d OFFSET $%d",
		crewMemberColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list crew members: %w", err)
	}
	defer rows.Close()

	out := make([]crewmember.CrewMember, 0, limit)
	for rows.Next() {
		entity, err := scanCrewMember(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, entity)
	}
	return out, total, rows.Err()
}

func (r *CrewMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (crewmember.CrewMember, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return crewmember.CrewMember{}, err
	}

	row := tx.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM crew_members WHERE id = $1", crewMemberColumns),
		pgUUID(id),
	)
	entity, err := scanCrewMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return crewmember.CrewMember{}, crewmember.ErrNotFound
		}
		return crewmember.CrewMember{}, err
	}
	return entity, nil
}

func (r *CrewMemberRepository) Create(ctx context.Context, m crewmember.CrewMember) (crewmember.CrewMember, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return crewmember.CrewMember{}, err
	}

	row := tx.QueryRow(ctx, `
INSERT INTO crew_members (first_name, last_name, rank, nationality, passport_no, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+crewMemberColumns,
		m.FirstName(), m.LastName(), m.Rank(), m.Nationality(), m.PassportNo(), string(m.Status()),
	)
	entity, err := scanCrewMember(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return crewmember.CrewMember{}, crewmember.ErrPassportTaken
		}
		return crewmember.CrewMember{}, fmt.Errorf("create crew member: %w", err)
	}
	return entity, nil
}

func (r *CrewMemberRepository) Update(ctx context.Context, m crewmember.CrewMember) (crewmember.CrewMember, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return crewmember.CrewMember{}, err
	}

	row := tx.QueryRow(ctx, `
UPDATE crew_members
SET first_name = $2, last_name = $3, rank = $4, nationality = $5, status = $6, updated_at = now()
WHERE id = $1
RETURNING `+crewMemberColumns,
		pgUUID(m.ID()), m.FirstName(), m.LastName(), m.Rank(), m.Nationality(), string(m.Status()),
	)
	entity, err := scanCrewMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return crewmember.CrewMember{}, crewmember.ErrNotFound
		}
		return crewmember.CrewMember{}, fmt.Errorf("update crew member: %w", err)
	}
	return entity, nil
}

func (r *CrewMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, "DELETE FROM crew_members WHERE id = $1", pgUUID(id))
	if err != nil {
		return fmt.Errorf("delete crew member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crewmember.ErrNotFound
	}
	return nil
}

func scanCrewMember(row pgx.Row) (crewmember.CrewMember, error) {
	var (
		id          pgtype.UUID
		firstName   string
		lastName    string
		rank        string
		nationality string
		passportNo  string
		status      string
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)
	if err := row.Scan(&id, &firstName, &lastName, &rank, &nationality, &passportNo, &status, &createdAt, &updatedAt); err != nil {
		return crewmember.CrewMember{}, err
	}
	return crewmember.Hydrate(
		fromPgUUID(id),
		firstName,
		lastName,
		rank,
		nationality,
		passportNo,
		crewmember.Status(status),
		createdAt.Time,
		updatedAt.Time,
	), nil
}
