package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/fleetdock/fleetdock/modules/docs/domain/aggregates/document"
	"github.com/fleetdock/fleetdock/pkg/composables"
)

type DocumentRepository struct{}

func NewDocumentRepository() document.Repository {
	return &DocumentRepository{}
}

const documentColumns = `id, kind, target_type, target_id, title, document_number, issuer, issue_date, expiry_date, extracted_fields, drive_file_id, web_link, upload_status, created_at, updated_at`

func (r *DocumentRepository) GetPaginated(ctx context.Context, params *document.FindParams) ([]document.Document, int64, error) {
	if params == nil {
		params = &document.FindParams{}
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	limit, offset := clampPage(params.Limit, params.Offset, 20)
	q := strings.TrimSpace(params.Q)

	where := "WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR document_number ILIKE '%' || $1 || '%' OR issuer ILIKE '%' || $1 || '%')"
	args := []any{q}
	if params.Kind != "" {
		where += fmt.Sprintf(" AND kind = $%d", len(args)+1)
		args = append(args, string(params.Kind))
	}
	if params.TargetType != "" {
		where += fmt.Sprintf(" AND target_type = $%d", len(args)+1)
		args = append(args, string(params.TargetType))
	}
	if params.TargetID != uuid.Nil {
		where += fmt.Sprintf(" AND target_id = $%d", len(args)+1)
		args = append(args, pgUUID(params.TargetID))
	}
	if params.UploadStatus != "" {
		where += fmt.Sprintf(" AND upload_status = $%d", len(args)+1)
		args = append(args, string(params.UploadStatus))
	}

	var total int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM docs_documents "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM docs_documents %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		documentColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := make([]document.Document, 0, limit)
	for rows.Next() {
		entity, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, entity)
	}
	return out, total, rows.Err()
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (document.Document, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return document.Document{}, err
	}

	row := tx.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM docs_documents WHERE id = $1", documentColumns),
		pgUUID(id),
	)
	entity, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, document.ErrNotFound
		}
		return document.Document{}, err
	}
	return entity, nil
}

func (r *DocumentRepository) GetByNumber(ctx context.Context, targetID uuid.UUID, number string) (document.Document, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return document.Document{}, err
	}

	row := tx.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM docs_documents WHERE target_id = $1 AND document_number = $2", documentColumns),
		pgUUID(targetID), number,
	)
	entity, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, document.ErrNotFound
		}
		return document.Document{}, err
	}
	return entity, nil
}

func (r *DocumentRepository) ListExpiring(ctx context.Context, before time.Time) ([]document.Document, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx,
		fmt.Sprintf("SELECT %s FROM docs_documents WHERE expiry_date IS NOT NULL AND expiry_date <= $1 ORDER BY expiry_date ASC", documentColumns),
		pgtype.Date{Time: before, Valid: true},
	)
	if err != nil {
		return nil, fmt.Errorf("list expiring documents: %w", err)
	}
	defer rows.Close()

	var out []document.Document
	for rows.Next() {
		entity, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

func (r *DocumentRepository) Create(ctx context.Context, d document.Document) (document.Document, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return document.Document{}, err
	}

	fields, err := marshalFields(d.ExtractedFields())
	if err != nil {
		return document.Document{}, err
	}

	row := tx.QueryRow(ctx, `
INSERT INTO docs_documents (kind, target_type, target_id, title, document_number, issuer, issue_date, expiry_date, extracted_fields, upload_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING `+documentColumns,
		string(d.Kind()), string(d.TargetType()), pgUUID(d.TargetID()),
		d.Title(), d.DocumentNumber(), d.Issuer(),
		pgDate(d.IssueDate()), pgDate(d.ExpiryDate()),
		fields, string(d.UploadStatus()),
	)
	entity, err := scanDocument(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return document.Document{}, document.ErrNumberTaken
		}
		return document.Document{}, fmt.Errorf("create document: %w", err)
	}
	return entity, nil
}

func (r *DocumentRepository) Update(ctx context.Context, d document.Document) (document.Document, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return document.Document{}, err
	}

	fields, err := marshalFields(d.ExtractedFields())
	if err != nil {
		return document.Document{}, err
	}

	row := tx.QueryRow(ctx, `
UPDATE docs_documents
SET title = $2, issuer = $3, issue_date = $4, expiry_date = $5, extracted_fields = $6, updated_at = now()
WHERE id = $1
RETURNING `+documentColumns,
		pgUUID(d.ID()), d.Title(), d.Issuer(), pgDate(d.IssueDate()), pgDate(d.ExpiryDate()), fields,
	)
	entity, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, document.ErrNotFound
		}
		return document.Document{}, fmt.Errorf("update document: %w", err)
	}
	return entity, nil
}

func (r *DocumentRepository) SetUploadState(ctx context.Context, id uuid.UUID, status document.UploadStatus, fileID, webLink string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
UPDATE docs_documents
SET upload_status = $2, drive_file_id = $3, web_link = $4, updated_at = now()
WHERE id = $1`,
		pgUUID(id), string(status), fileID, webLink,
	)
	if err != nil {
		return fmt.Errorf("set upload state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrNotFound
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, "DELETE FROM docs_documents WHERE id = $1", pgUUID(id))
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrNotFound
	}
	return nil
}

func marshalFields(fields map[string]string) ([]byte, error) {
	if fields == nil {
		fields = map[string]string{}
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal extracted fields: %w", err)
	}
	return out, nil
}

func scanDocument(row pgx.Row) (document.Document, error) {
	var (
		id          pgtype.UUID
		kind        string
		targetType  string
		targetID    pgtype.UUID
		title       string
		number      string
		issuer      string
		issueDate   pgtype.Date
		expiryDate  pgtype.Date
		rawFields   []byte
		driveFileID string
		webLink     string
		status      string
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)
	if err := row.Scan(
		&id, &kind, &targetType, &targetID, &title, &number, &issuer,
		&issueDate, &expiryDate, &rawFields, &driveFileID, &webLink, &status,
		&createdAt, &updatedAt,
	); err != nil {
		return document.Document{}, err
	}

	fields := map[string]string{}
	if len(rawFields) > 0 {
		if err := json.Unmarshal(rawFields, &fields); err != nil {
			return document.Document{}, fmt.Errorf("unmarshal extracted fields: %w", err)
		}
	}

	return document.Hydrate(
		fromPgUUID(id),
		document.Kind(kind),
		document.TargetType(targetType),
		fromPgUUID(targetID),
		title,
		number,
		issuer,
		fromPgDate(issueDate),
		fromPgDate(expiryDate),
		fields,
		driveFileID,
		webLink,
		document.UploadStatus(status),
		createdAt.Time,
		updatedAt.Time,
	), nil
}
