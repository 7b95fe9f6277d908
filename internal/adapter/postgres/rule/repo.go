// Package rule implements the rule store using PostgreSQL. It covers all
// three rule kinds (validation, correction, scoring) living in separate
// tables with a shared lifecycle: create, list, enable/disable, delete.
// Disabled rules are retained, not deleted, so administrators can
// experiment without losing rule history.
package rule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/ravenhall/clanchest-backend/internal/adapter/postgres"
	"github.com/ravenhall/clanchest-backend/internal/domain"
)

// Repo provides rule persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new rule repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const validationColumns = `id, clan_id, rule_column, valid_value, enabled, created_at, updated_at`

const createValidationSQL = `
INSERT INTO validation_rules (id, clan_id, rule_column, valid_value, enabled, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
RETURNING ` + validationColumns

const listValidationSQL = `
SELECT ` + validationColumns + `
FROM validation_rules
WHERE clan_id = $1
ORDER BY rule_column, valid_value`

const correctionColumns = `id, clan_id, rule_column, from_value, to_value, enabled, created_at, updated_at`

const createCorrectionSQL = `
INSERT INTO correction_rules (id, clan_id, rule_column, from_value, to_value, enabled, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
RETURNING ` + correctionColumns

const listCorrectionSQL = `
SELECT ` + correctionColumns + `
FROM correction_rules
WHERE clan_id = $1
ORDER BY from_value, rule_column NULLS LAST`

const scoringColumns = `id, clan_id, chest_name, source_name, min_level, max_level, score, rule_order, enabled, created_at, updated_at`

const createScoringSQL = `
INSERT INTO scoring_rules (id, clan_id, chest_name, source_name, min_level, max_level, score, rule_order, enabled, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
RETURNING ` + scoringColumns

// Scoring rules are always listed in evaluation order; ties on rule_order
// are broken by id so the order is total and deterministic.
const listScoringSQL = `
SELECT ` + scoringColumns + `
FROM scoring_rules
WHERE clan_id = $1
ORDER BY rule_order, id`

// ---------------------------------------------------------------------------
// Create operations
// ---------------------------------------------------------------------------

// CreateValidation inserts a validation rule. A (clan, column, value)
// duplicate maps to domain.ErrAlreadyExists (rule conflict).
func (r *Repo) CreateValidation(ctx context.Context, rule domain.ValidationRule) (domain.ValidationRule, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	row := querier.QueryRow(ctx, createValidationSQL,
		rule.ID, rule.ClanID, string(rule.Column), rule.ValidValue, rule.Enabled, now,
	)

	created, err := scanValidation(row)
	if err != nil {
		return domain.ValidationRule{}, mapError(err, "validation_rule", rule.ID)
	}
	return created, nil
}

// CreateCorrection inserts a correction rule. A (clan, column, from)
// duplicate maps to domain.ErrAlreadyExists.
func (r *Repo) CreateCorrection(ctx context.Context, rule domain.CorrectionRule) (domain.CorrectionRule, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	row := querier.QueryRow(ctx, createCorrectionSQL,
		rule.ID, rule.ClanID, columnPtrToString(rule.Column), rule.FromValue, rule.ToValue, rule.Enabled, now,
	)

	created, err := scanCorrection(row)
	if err != nil {
		return domain.CorrectionRule{}, mapError(err, "correction_rule", rule.ID)
	}
	return created, nil
}

// CreateScoring inserts a scoring rule.
func (r *Repo) CreateScoring(ctx context.Context, rule domain.ScoringRule) (domain.ScoringRule, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	row := querier.QueryRow(ctx, createScoringSQL,
		rule.ID, rule.ClanID, rule.ChestName, rule.SourceName, rule.MinLevel, rule.MaxLevel,
		rule.Score, rule.Order, rule.Enabled, now,
	)

	created, err := scanScoring(row)
	if err != nil {
		return domain.ScoringRule{}, mapError(err, "scoring_rule", rule.ID)
	}
	return created, nil
}

// ---------------------------------------------------------------------------
// List operations
// ---------------------------------------------------------------------------

// ListValidation returns all validation rules of a clan, including disabled
// ones. Returns an empty slice (not nil) when the clan has none.
func (r *Repo) ListValidation(ctx context.Context, clanID uuid.UUID) ([]domain.ValidationRule, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listValidationSQL, clanID)
	if err != nil {
		return nil, fmt.Errorf("list validation_rules: %w", err)
	}
	defer rows.Close()

	rules := []domain.ValidationRule{}
	for rows.Next() {
		rule, err := scanValidation(rows)
		if err != nil {
			return nil, fmt.Errorf("list validation_rules: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list validation_rules: %w", err)
	}
	return rules, nil
}

// ListCorrection returns all correction rules of a clan, including disabled
// ones. Returns an empty slice (not nil) when the clan has none.
func (r *Repo) ListCorrection(ctx context.Context, clanID uuid.UUID) ([]domain.CorrectionRule, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listCorrectionSQL, clanID)
	if err != nil {
		return nil, fmt.Errorf("list correction_rules: %w", err)
	}
	defer rows.Close()

	rules := []domain.CorrectionRule{}
	for rows.Next() {
		rule, err := scanCorrection(rows)
		if err != nil {
			return nil, fmt.Errorf("list correction_rules: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list correction_rules: %w", err)
	}
	return rules, nil
}

// ListScoring returns all scoring rules of a clan in evaluation order
// (rule_order ascending, ties by id), including disabled ones.
func (r *Repo) ListScoring(ctx context.Context, clanID uuid.UUID) ([]domain.ScoringRule, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listScoringSQL, clanID)
	if err != nil {
		return nil, fmt.Errorf("list scoring_rules: %w", err)
	}
	defer rows.Close()

	rules := []domain.ScoringRule{}
	for rows.Next() {
		rule, err := scanScoring(rows)
		if err != nil {
			return nil, fmt.Errorf("list scoring_rules: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scoring_rules: %w", err)
	}
	return rules, nil
}

// ---------------------------------------------------------------------------
// Toggle / delete
// ---------------------------------------------------------------------------

// tableFor maps a rule kind to its table name. Kinds are a closed enum so
// the name never comes from user input.
func tableFor(kind domain.RuleKind) (string, error) {
	switch kind {
	case domain.RuleKindValidation:
		return "validation_rules", nil
	case domain.RuleKindCorrection:
		return "correction_rules", nil
	case domain.RuleKindScoring:
		return "scoring_rules", nil
	}
	return "", fmt.Errorf("unknown rule kind %q: %w", kind, domain.ErrValidation)
}

// SetEnabled toggles a rule without deleting it and returns the owning
// clan id. Returns domain.ErrNotFound for an unknown rule id.
func (r *Repo) SetEnabled(ctx context.Context, kind domain.RuleKind, ruleID uuid.UUID, enabled bool) (uuid.UUID, error) {
	table, err := tableFor(kind)
	if err != nil {
		return uuid.Nil, err
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var clanID uuid.UUID
	query := fmt.Sprintf(`UPDATE %s SET enabled = $2, updated_at = $3 WHERE id = $1 RETURNING clan_id`, table)
	now := time.Now().UTC().Truncate(time.Microsecond)
	if err := querier.QueryRow(ctx, query, ruleID, enabled, now).Scan(&clanID); err != nil {
		return uuid.Nil, mapError(err, string(kind), ruleID)
	}
	return clanID, nil
}

// Delete removes a rule permanently and returns the owning clan id.
// Returns domain.ErrNotFound for an unknown rule id.
func (r *Repo) Delete(ctx context.Context, kind domain.RuleKind, ruleID uuid.UUID) (uuid.UUID, error) {
	table, err := tableFor(kind)
	if err != nil {
		return uuid.Nil, err
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var clanID uuid.UUID
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 RETURNING clan_id`, table)
	if err := querier.QueryRow(ctx, query, ruleID).Scan(&clanID); err != nil {
		return uuid.Nil, mapError(err, string(kind), ruleID)
	}
	return clanID, nil
}

// Count returns the number of rules of one kind a clan has.
func (r *Repo) Count(ctx context.Context, clanID uuid.UUID, kind domain.RuleKind) (int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE clan_id = $1`, table)
	if err := querier.QueryRow(ctx, query, clanID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanValidation(row pgx.Row) (domain.ValidationRule, error) {
	var (
		rule   domain.ValidationRule
		column string
	)
	if err := row.Scan(&rule.ID, &rule.ClanID, &column, &rule.ValidValue,
		&rule.Enabled, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
		return domain.ValidationRule{}, err
	}
	rule.Column = domain.RuleColumn(column)
	return rule, nil
}

func scanCorrection(row pgx.Row) (domain.CorrectionRule, error) {
	var (
		rule   domain.CorrectionRule
		column *string
	)
	if err := row.Scan(&rule.ID, &rule.ClanID, &column, &rule.FromValue,
		&rule.ToValue, &rule.Enabled, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
		return domain.CorrectionRule{}, err
	}
	if column != nil {
		col := domain.RuleColumn(*column)
		rule.Column = &col
	}
	return rule, nil
}

func scanScoring(row pgx.Row) (domain.ScoringRule, error) {
	var rule domain.ScoringRule
	if err := row.Scan(&rule.ID, &rule.ClanID, &rule.ChestName, &rule.SourceName,
		&rule.MinLevel, &rule.MaxLevel, &rule.Score, &rule.Order,
		&rule.Enabled, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
		return domain.ScoringRule{}, err
	}
	return rule, nil
}

// columnPtrToString converts an optional rule column to its SQL value
// (nil stays NULL).
func columnPtrToString(col *domain.RuleColumn) *string {
	if col == nil {
		return nil
	}
	s := string(*col)
	return &s
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
