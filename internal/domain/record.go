package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CandidateRecord is a parsed, not-yet-committed unit of imported data.
// It is produced by the parser, annotated by the rule stages, and discarded
// after commit or review rejection. Never persisted itself.
type CandidateRecord struct {
	Player string
	// Source is the raw source descriptor, e.g. "Level 25 Crypt".
	Source   string
	MinLevel *int
	MaxLevel *int
	Chest    string
	// CollectedDate has day precision; always midnight UTC.
	CollectedDate time.Time
	// Score is nil until the scoring stage assigns one; nil after scoring
	// means no rule matched (explicit unscored state, not zero).
	Score *int
}

// FieldValue returns the record's value for a rule column.
func (r *CandidateRecord) FieldValue(column RuleColumn) string {
	switch column {
	case RuleColumnPlayer:
		return r.Player
	case RuleColumnSource:
		return r.Source
	case RuleColumnChest:
		return r.Chest
	}
	return ""
}

// SetFieldValue overwrites the record's value for a rule column.
func (r *CandidateRecord) SetFieldValue(column RuleColumn, value string) {
	switch column {
	case RuleColumnPlayer:
		r.Player = value
	case RuleColumnSource:
		r.Source = value
	case RuleColumnChest:
		r.Chest = value
	}
}

// Validate checks structural invariants of a candidate record.
// MaxLevel requires MinLevel, and MinLevel must not exceed MaxLevel.
func (r *CandidateRecord) Validate() error {
	var errs []FieldError

	if strings.TrimSpace(r.Player) == "" {
		errs = append(errs, FieldError{Field: "player", Message: "must not be empty"})
	}
	if strings.TrimSpace(r.Chest) == "" {
		errs = append(errs, FieldError{Field: "chest", Message: "must not be empty"})
	}
	if r.CollectedDate.IsZero() {
		errs = append(errs, FieldError{Field: "collected_date", Message: "must be set"})
	}
	if r.MaxLevel != nil && r.MinLevel == nil {
		errs = append(errs, FieldError{Field: "min_level", Message: "required when max_level is set"})
	}
	if r.MinLevel != nil && r.MaxLevel != nil && *r.MinLevel > *r.MaxLevel {
		errs = append(errs, FieldError{Field: "min_level", Message: "must not exceed max_level"})
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// ChestEntry is a committed chest data record owned by a clan.
// Identity is immutable; mutable fields are edited post-commit with
// updated_by/updated_at bumped and an audit record appended.
type ChestEntry struct {
	ID            uuid.UUID
	ClanID        uuid.UUID
	Player        string
	Source        string
	MinLevel      *int
	MaxLevel      *int
	Chest         string
	CollectedDate time.Time
	Score         *int
	CreatedBy     uuid.UUID
	UpdatedBy     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Record returns the candidate-record view of a persisted entry,
// used when re-running the scoring stage over committed data.
func (e *ChestEntry) Record() CandidateRecord {
	return CandidateRecord{
		Player:        e.Player,
		Source:        e.Source,
		MinLevel:      e.MinLevel,
		MaxLevel:      e.MaxLevel,
		Chest:         e.Chest,
		CollectedDate: e.CollectedDate,
		Score:         e.Score,
	}
}

// ChestEntryPatch carries the editable fields of a post-commit update.
// Nil fields are left unchanged; SetScore distinguishes "clear the score"
// from "don't touch the score". SetLevels does the same for the level
// pair: with SetLevels set, both columns are replaced by MinLevel and
// MaxLevel as given, nil values clearing them.
type ChestEntryPatch struct {
	Player        *string
	Source        *string
	MinLevel      *int
	MaxLevel      *int
	SetLevels     bool
	Chest         *string
	CollectedDate *time.Time
	Score         *int
	SetScore      bool
}

// IsEmpty reports whether the patch changes nothing.
func (p ChestEntryPatch) IsEmpty() bool {
	return p.Player == nil && p.Source == nil && p.Chest == nil &&
		p.CollectedDate == nil && !p.SetLevels && !p.SetScore
}

// ScoreUpdate carries one entry's recomputed score in a batch rescore.
// A nil Score clears the column (the entry becomes unscored).
type ScoreUpdate struct {
	EntryID uuid.UUID
	Score   *int
}
