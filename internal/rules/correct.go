package rules

import (
	"github.com/google/uuid"

	"github.com/ravenhall/clanchest-backend/internal/domain"
)

// AppliedCorrection records one substitution performed by the correction
// stage, kept for audit and preview display.
type AppliedCorrection struct {
	RuleID uuid.UUID
	Column domain.RuleColumn
	From   string
	To     string
}

// Correct applies at most one enabled correction rule per field and returns
// the corrected copy plus the list of substitutions performed. The input
// record is not mutated. Matching is exact and case-sensitive; a rule
// scoped to the field's column takes precedence over a wildcard rule.
//
// Correction is idempotent as long as no rule maps a value that another
// rule produces: re-running Correct on an already-corrected record with the
// same snapshot applies nothing new unless the corrected value itself
// matches a from-value.
func (s *Snapshot) Correct(rec *domain.CandidateRecord) (domain.CandidateRecord, []AppliedCorrection) {
	corrected := *rec
	var applied []AppliedCorrection

	for _, col := range columnOrder {
		value := corrected.FieldValue(col)

		rule, ok := s.lookupCorrection(col, value)
		if !ok {
			continue
		}

		corrected.SetFieldValue(col, rule.ToValue)
		applied = append(applied, AppliedCorrection{
			RuleID: rule.ID,
			Column: col,
			From:   value,
			To:     rule.ToValue,
		})
	}

	return corrected, applied
}

// lookupCorrection resolves the correction rule for a column/value pair,
// column-scoped rules first.
func (s *Snapshot) lookupCorrection(col domain.RuleColumn, value string) (domain.CorrectionRule, bool) {
	if byFrom, ok := s.scoped[col]; ok {
		if rule, ok := byFrom[value]; ok {
			return rule, true
		}
	}
	rule, ok := s.wildcard[value]
	return rule, ok
}
