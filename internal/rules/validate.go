package rules

import "github.com/ravenhall/clanchest-backend/internal/domain"

// Violation flags a record value outside the clan's allowed value set for
// a column. Violations are advisory: they annotate the preview for human
// review and never block correction or scoring.
type Violation struct {
	Column domain.RuleColumn
	Value  string
}

// Validate checks a record against the snapshot's per-column allowed value
// sets. Matching is exact and case-sensitive. Columns with zero enabled
// rules are always valid. The result order follows the fixed column order.
func (s *Snapshot) Validate(rec *domain.CandidateRecord) []Violation {
	var violations []Violation

	for _, col := range columnOrder {
		set, ok := s.valid[col]
		if !ok || len(set) == 0 {
			continue
		}
		value := rec.FieldValue(col)
		if _, allowed := set[value]; !allowed {
			violations = append(violations, Violation{Column: col, Value: value})
		}
	}

	return violations
}
