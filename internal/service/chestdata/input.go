package chestdata

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ravenhall/clanchest-backend/internal/domain"
)

// PreviewInput carries one raw import payload through the preview pipeline.
type PreviewInput struct {
	ClanID uuid.UUID
	Format domain.ImportFormat
	Raw    string
}

// Validate checks the input's structural validity. Size limits are
// enforced separately against the service configuration.
func (in PreviewInput) Validate() error {
	var errs []domain.FieldError

	if in.ClanID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "clan_id", Message: "must be set"})
	}
	if !in.Format.IsValid() {
		errs = append(errs, domain.FieldError{Field: "format", Message: "unknown import format"})
	}
	if strings.TrimSpace(in.Raw) == "" {
		errs = append(errs, domain.FieldError{Field: "raw", Message: "must not be empty"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CommitRow is one reviewed (possibly human-edited) preview row submitted
// for commit. The record's Score field carries either the score computed
// at preview time or a manually assigned one; nil means still unscored.
type CommitRow struct {
	Line   int
	Record domain.CandidateRecord
}

// CommitInput carries a reviewed batch into the commit engine.
type CommitInput struct {
	ClanID uuid.UUID
	Format domain.ImportFormat
	Rows   []CommitRow

	// AllowUnscored must be set to commit rows whose score is still nil.
	AllowUnscored bool
	// AcceptViolations must be set to commit rows that still violate the
	// clan's validation rules at commit time.
	AcceptViolations bool
}

// Validate checks the batch's structural validity row by row.
func (in CommitInput) Validate() error {
	var errs []domain.FieldError

	if in.ClanID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "clan_id", Message: "must be set"})
	}
	if !in.Format.IsValid() {
		errs = append(errs, domain.FieldError{Field: "format", Message: "unknown import format"})
	}
	if len(in.Rows) == 0 {
		errs = append(errs, domain.FieldError{Field: "rows", Message: "must not be empty"})
	}

	for i := range in.Rows {
		if err := in.Rows[i].Record.Validate(); err != nil {
			errs = append(errs, domain.FieldError{
				Field:   fmt.Sprintf("rows[%d]", i),
				Message: err.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateEntryInput carries one post-commit entry edit.
type UpdateEntryInput struct {
	ClanID  uuid.UUID
	EntryID uuid.UUID
	Patch   domain.ChestEntryPatch
}

// Validate checks the patch's structural validity.
func (in UpdateEntryInput) Validate() error {
	var errs []domain.FieldError

	if in.ClanID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "clan_id", Message: "must be set"})
	}
	if in.EntryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entry_id", Message: "must be set"})
	}
	if in.Patch.IsEmpty() {
		errs = append(errs, domain.FieldError{Field: "patch", Message: "must change at least one field"})
	}
	if in.Patch.Player != nil && strings.TrimSpace(*in.Patch.Player) == "" {
		errs = append(errs, domain.FieldError{Field: "player", Message: "must not be empty"})
	}
	if in.Patch.Chest != nil && strings.TrimSpace(*in.Patch.Chest) == "" {
		errs = append(errs, domain.FieldError{Field: "chest", Message: "must not be empty"})
	}
	if in.Patch.SetLevels {
		if in.Patch.MaxLevel != nil && in.Patch.MinLevel == nil {
			errs = append(errs, domain.FieldError{Field: "min_level", Message: "required when max_level is set"})
		}
		if in.Patch.MinLevel != nil && in.Patch.MaxLevel != nil && *in.Patch.MinLevel > *in.Patch.MaxLevel {
			errs = append(errs, domain.FieldError{Field: "min_level", Message: "must not exceed max_level"})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListEntriesInput carries a clan-scoped entry search.
type ListEntriesInput struct {
	ClanID uuid.UUID
	Filter domain.EntryFilter
}

// Validate checks the input's structural validity.
func (in ListEntriesInput) Validate() error {
	if in.ClanID == uuid.Nil {
		return domain.NewValidationError("clan_id", "must be set")
	}
	return nil
}
