// Package chestentry implements the ChestEntry repository using PostgreSQL.
// Fixed queries use raw SQL constants; the clan-scoped search uses squirrel
// because its WHERE clause is assembled dynamically from the filter.
package chestentry

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/ravenhall/clanchest-backend/internal/adapter/postgres"
	"github.com/ravenhall/clanchest-backend/internal/domain"
)

// Repo provides chest entry persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new chest entry repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// psql is the squirrel builder configured for PostgreSQL placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const entryColumns = `id, clan_id, player, source, min_level, max_level, chest, collected_date, score, created_by, updated_by, created_at, updated_at`

const insertSQL = `
INSERT INTO chest_entries (` + entryColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

const getByIDSQL = `
SELECT ` + entryColumns + `
FROM chest_entries
WHERE id = $1 AND clan_id = $2`

// listForRescoreSQL reads the full clan row set inside the rescore
// transaction. FOR UPDATE locks the snapshot so a concurrent edit cannot
// interleave with the batch score update.
const listForRescoreSQL = `
SELECT ` + entryColumns + `
FROM chest_entries
WHERE clan_id = $1
ORDER BY id
FOR UPDATE`

const updateScoreSQL = `
UPDATE chest_entries
SET score = $2, updated_by = $3, updated_at = $4
WHERE id = $1`

const deleteSQL = `
DELETE FROM chest_entries
WHERE id = $1 AND clan_id = $2`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// InsertBatch persists a batch of entries in one round trip via pgx.Batch.
// Callers run it inside a transaction; any row failure fails the whole
// batch and the transaction rolls back.
func (r *Repo) InsertBatch(ctx context.Context, entries []domain.ChestEntry) error {
	if len(entries) == 0 {
		return nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(insertSQL,
			e.ID, e.ClanID, e.Player, e.Source, e.MinLevel, e.MaxLevel,
			e.Chest, e.CollectedDate, e.Score, e.CreatedBy, e.UpdatedBy,
			e.CreatedAt, e.UpdatedAt,
		)
	}

	results := querier.SendBatch(ctx, batch)
	defer results.Close()

	for i := range entries {
		if _, err := results.Exec(); err != nil {
			return mapError(err, "chest_entry", entries[i].ID)
		}
	}
	return nil
}

// UpdateScores applies a batch of score changes in one round trip.
// Callers run it inside the rescore transaction.
func (r *Repo) UpdateScores(ctx context.Context, updates []domain.ScoreUpdate, updatedBy uuid.UUID) error {
	if len(updates) == 0 {
		return nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(updateScoreSQL, u.EntryID, u.Score, updatedBy, now)
	}

	results := querier.SendBatch(ctx, batch)
	defer results.Close()

	for i := range updates {
		ct, err := results.Exec()
		if err != nil {
			return mapError(err, "chest_entry", updates[i].EntryID)
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("chest_entry %s: %w", updates[i].EntryID, domain.ErrNotFound)
		}
	}
	return nil
}

// Update patches an entry's editable fields and bumps updated_by/updated_at.
// Returns the updated entry, or domain.ErrNotFound if the entry does not
// exist or belongs to another clan.
func (r *Repo) Update(ctx context.Context, clanID, entryID uuid.UUID, patch domain.ChestEntryPatch, updatedBy uuid.UUID) (*domain.ChestEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	b := psql.Update("chest_entries").
		Set("updated_by", updatedBy).
		Set("updated_at", now).
		Where(sq.Eq{"id": entryID, "clan_id": clanID}).
		Suffix("RETURNING " + entryColumns)

	if patch.Player != nil {
		b = b.Set("player", *patch.Player)
	}
	if patch.Source != nil {
		b = b.Set("source", *patch.Source)
	}
	if patch.SetLevels {
		b = b.Set("min_level", patch.MinLevel).
			Set("max_level", patch.MaxLevel)
	}
	if patch.Chest != nil {
		b = b.Set("chest", *patch.Chest)
	}
	if patch.CollectedDate != nil {
		b = b.Set("collected_date", *patch.CollectedDate)
	}
	if patch.SetScore {
		b = b.Set("score", patch.Score)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update chest_entry: %w", err)
	}

	entry, err := scanEntry(querier.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "chest_entry", entryID)
	}
	return entry, nil
}

// Delete removes an entry. Returns domain.ErrNotFound if the entry does
// not exist or belongs to another clan.
func (r *Repo) Delete(ctx context.Context, clanID, entryID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, deleteSQL, entryID, clanID)
	if err != nil {
		return mapError(err, "chest_entry", entryID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("chest_entry %s: %w", entryID, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an entry by primary key with clan_id filter.
func (r *Repo) GetByID(ctx context.Context, clanID, entryID uuid.UUID) (*domain.ChestEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	entry, err := scanEntry(querier.QueryRow(ctx, getByIDSQL, entryID, clanID))
	if err != nil {
		return nil, mapError(err, "chest_entry", entryID)
	}
	return entry, nil
}

// Find returns a filtered, paginated page of a clan's entries plus the
// total count matching the filter.
func (r *Repo) Find(ctx context.Context, clanID uuid.UUID, filter domain.EntryFilter) ([]domain.ChestEntry, int, error) {
	normalizeFilter(&filter)

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	countQuery, countArgs, err := applyFilter(
		psql.Select("count(*)").From("chest_entries").Where(sq.Eq{"clan_id": clanID}),
		filter,
	).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count chest_entries: %w", err)
	}

	var total int
	if err := querier.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count chest_entries: %w", err)
	}

	query, args, err := applyFilter(
		psql.Select(entryColumns).From("chest_entries").Where(sq.Eq{"clan_id": clanID}),
		filter,
	).
		OrderBy(filter.SortBy+" "+filter.SortOrder, "id").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build find chest_entries: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("find chest_entries: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("find chest_entries: %w", err)
	}
	return entries, total, nil
}

// ListForRescore reads and locks the full entry set of a clan, ordered by
// id. Must run inside a transaction; the lock is released at commit.
func (r *Repo) ListForRescore(ctx context.Context, clanID uuid.UUID) ([]domain.ChestEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listForRescoreSQL, clanID)
	if err != nil {
		return nil, fmt.Errorf("list chest_entries for rescore: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, fmt.Errorf("list chest_entries for rescore: %w", err)
	}
	return entries, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanEntry(row pgx.Row) (*domain.ChestEntry, error) {
	var e domain.ChestEntry
	if err := row.Scan(&e.ID, &e.ClanID, &e.Player, &e.Source, &e.MinLevel, &e.MaxLevel,
		&e.Chest, &e.CollectedDate, &e.Score, &e.CreatedBy, &e.UpdatedBy,
		&e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func scanEntries(rows pgx.Rows) ([]domain.ChestEntry, error) {
	entries := []domain.ChestEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
