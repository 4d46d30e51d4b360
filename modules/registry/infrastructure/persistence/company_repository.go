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

	"github.com/fleetdock/fleetdock/modules/registry/domain/aggregates/company"
	"github.com/fleetdock/fleetdock/pkg/composables"
)

type CompanyRepository struct{}

func NewCompanyRepository() company.Repository {
	return &CompanyRepository{}
}

const companyColumns = `id, name, registration_no, country, contact_email, status, created_at, updated_at`

func (r *CompanyRepository) GetPaginated(ctx context.Context, params *company.FindParams) ([]company.Company, int64, error) {
	if params == nil {
		params = &company.FindParams{}
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	limit, offset := clampPage(params.Limit, params.Offset, 20)
	q := strings.TrimSpace(params.Q)

	where := "WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR registration_no ILIKE '%' || $1 || '%')"
	args := []any{q}
	if params.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, string(params.Status))
	}

	var total int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM registry_companies "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM registry_companies %s ORDER BY name ASC LIMIT $%d OFFSET $%d",
		companyColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	out := make([]company.Company, 0, limit)
	for rows.Next() {
		entity, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, entity)
	}
	return out, total, rows.Err()
}

func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (company.Company, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return company.Company{}, err
	}

	row := tx.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM registry_companies WHERE id = $1", companyColumns),
		pgUUID(id),
	)
	entity, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrNotFound
		}
		return company.Company{}, err
	}
	return entity, nil
}

func (r *CompanyRepository) Create(ctx context.Context, c company.Company) (company.Company, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return company.Company{}, err
	}

	row := tx.QueryRow(ctx, `
INSERT INTO registry_companies (name, registration_no, country, contact_email, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+companyColumns,
		c.Name(), c.RegistrationNo(), c.Country(), c.ContactEmail(), string(c.Status()),
	)
	entity, err := scanCompany(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return company.Company{}, company.ErrRegistrationTaken
		}
		return company.Company{}, fmt.Errorf("create company: %w", err)
	}
	return entity, nil
}

func (r *CompanyRepository) Update(ctx context.Context, c company.Company) (company.Company, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return company.Company{}, err
	}

	row := tx.QueryRow(ctx, `
UPDATE registry_companies
SET name = $2, country = $3, contact_email = $4, status = $5, updated_at = now()
WHERE id = $1
RETURNING `+companyColumns,
		pgUUID(c.ID()), c.Name(), c.Country(), c.ContactEmail(), string(c.Status()),
	)
	entity, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrNotFound
		}
		return company.Company{}, fmt.Errorf("update company: %w", err)
	}
	return entity, nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, "DELETE FROM registry_companies WHERE id = $1", pgUUID(id))
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrNotFound
	}
	return nil
}

func scanCompany(row pgx.Row) (company.Company, error) {
	var (
		id        pgtype.UUID
		name      string
		regNo     string
		country   string
		email     string
		status    string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &name, &regNo, &country, &email, &status, &createdAt, &updatedAt); err != nil {
		return company.Company{}, err
	}
	return company.Hydrate(
		fromPgUUID(id),
		name,
		regNo,
		country,
		email,
		company.Status(status),
		createdAt.Time,
		updatedAt.Time,
	), nil
}
