package domain

import (
	"time"

	"github.com/google/uuid"
)

// ValidationRule whitelists one value for one record column of a clan.
// A column with zero enabled rules imposes no constraint (open policy).
// Uniqueness: (clan_id, column, valid_value).
type ValidationRule struct {
	ID         uuid.UUID
	ClanID     uuid.UUID
	Column     RuleColumn
	ValidValue string
	Enabled    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks rule invariants prior to persistence.
func (r *ValidationRule) Validate() error {
	if !r.Column.IsValid() {
		return NewValidationError("column", "unknown column")
	}
	if r.ValidValue == "" {
		return NewValidationError("valid_value", "must not be empty")
	}
	return nil
}

// CorrectionRule rewrites an exact field value during import.
// Column nil means the rule applies to any column.
// Uniqueness: (clan_id, column, from_value).
type CorrectionRule struct {
	ID        uuid.UUID
	ClanID    uuid.UUID
	Column    *RuleColumn
	FromValue string
	ToValue   string
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks rule invariants prior to persistence.
func (r *CorrectionRule) Validate() error {
	if r.Column != nil && !r.Column.IsValid() {
		return NewValidationError("column", "unknown column")
	}
	if r.FromValue == "" {
		return NewValidationError("from_value", "must not be empty")
	}
	if r.FromValue == r.ToValue {
		return NewValidationError("to_value", "must differ from from_value")
	}
	return nil
}

// ScoringRule assigns a score to records matching its filters.
// Nil filter fields are wildcards. Level semantics: both nil matches any
// level, MinLevel alone requires exact equality, both set require the
// record's level range to fall inside [MinLevel, MaxLevel].
// Order defines first-match-wins precedence, lower evaluated first.
type ScoringRule struct {
	ID         uuid.UUID
	ClanID     uuid.UUID
	ChestName  *string
	SourceName *string
	MinLevel   *int
	MaxLevel   *int
	Score      int
	Order      int
	Enabled    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks rule invariants prior to persistence.
func (r *ScoringRule) Validate() error {
	if r.MaxLevel != nil && r.MinLevel == nil {
		return NewValidationError("min_level", "required when max_level is set")
	}
	if r.MinLevel != nil && r.MaxLevel != nil && *r.MinLevel > *r.MaxLevel {
		return NewValidationError("min_level", "must not exceed max_level")
	}
	return nil
}
