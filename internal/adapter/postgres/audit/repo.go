// Package audit implements the append-only audit log repository.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/ravenhall/clanchest-backend/internal/adapter/postgres"
	"github.com/ravenhall/clanchest-backend/internal/domain"
)

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const auditColumns = `id, clan_id, user_id, entity_type, entity_id, action, changes, created_at`

const createSQL = `
INSERT INTO audit_log (` + auditColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const listByClanSQL = `
SELECT ` + auditColumns + `
FROM audit_log
WHERE clan_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

const listByEntitySQL = `
SELECT ` + auditColumns + `
FROM audit_log
WHERE clan_id = $1 AND entity_type = $2 AND entity_id = $3
ORDER BY created_at DESC, id DESC
LIMIT $4 OFFSET $5`

const defaultLimit = 50
const maxLimit = 500

// Create appends one audit record. Records are write-once; there is no
// update or delete.
func (r *Repo) Create(ctx context.Context, rec domain.AuditRecord) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	changes, err := json.Marshal(rec.Changes)
	if err != nil {
		return fmt.Errorf("marshal audit changes: %w", err)
	}

	_, err = querier.Exec(ctx, createSQL,
		rec.ID, rec.ClanID, rec.UserID, rec.EntityType, rec.EntityID,
		rec.Action, changes, rec.CreatedAt,
	)
	if err != nil {
		return mapError(err, rec.ID)
	}
	return nil
}

// ListByClan returns a clan's audit records, newest first.
func (r *Repo) ListByClan(ctx context.Context, clanID uuid.UUID, limit, offset int) ([]domain.AuditRecord, error) {
	limit, offset = clampPage(limit, offset)

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByClanSQL, clanID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit_log by clan: %w", err)
	}
	defer rows.Close()

	recs, err := scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("list audit_log by clan: %w", err)
	}
	return recs, nil
}

// ListByEntity returns the audit trail of one entity, newest first.
// Batch records (nil entity_id) are not included.
func (r *Repo) ListByEntity(ctx context.Context, clanID uuid.UUID, entityType domain.EntityType, entityID uuid.UUID, limit, offset int) ([]domain.AuditRecord, error) {
	limit, offset = clampPage(limit, offset)

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByEntitySQL, clanID, entityType, entityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit_log by entity: %w", err)
	}
	defer rows.Close()

	recs, err := scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("list audit_log by entity: %w", err)
	}
	return recs, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func scanRecords(rows pgx.Rows) ([]domain.AuditRecord, error) {
	recs := []domain.AuditRecord{}
	for rows.Next() {
		var (
			rec     domain.AuditRecord
			changes []byte
		)
		if err := rows.Scan(&rec.ID, &rec.ClanID, &rec.UserID, &rec.EntityType,
			&rec.EntityID, &rec.Action, &changes, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &rec.Changes); err != nil {
				return nil, fmt.Errorf("unmarshal audit changes: %w", err)
			}
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("audit_record %s: %w", id, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("audit_record %s: %w", id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("audit_record %s: %w", id, domain.ErrNotFound)
		}
	}

	return fmt.Errorf("audit_record %s: %w", id, err)
}
