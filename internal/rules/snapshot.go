// Package rules implements the rule-evaluation stages of the import
// pipeline: validation, correction, and scoring.
//
// All evaluation runs against a Snapshot — an immutable view of one clan's
// enabled rules captured at invocation time. A preview, commit, or rescore
// operation builds exactly one snapshot and never re-reads rules mid-flight,
// so concurrent rule edits cannot skew an in-flight operation.
package rules

import (
	"sort"
	"strings"

	"github.com/ravenhall/clanchest-backend/internal/domain"
)

// columnOrder fixes the field iteration order for deterministic output.
var columnOrder = []domain.RuleColumn{
	domain.RuleColumnPlayer,
	domain.RuleColumnSource,
	domain.RuleColumnChest,
}

// Snapshot holds the enabled rules of one clan in evaluation-ready form.
// Disabled rules are dropped at construction.
type Snapshot struct {
	// valid holds the allowed value set per column. A column absent from
	// the map carries no constraint (open policy).
	valid map[domain.RuleColumn]map[string]struct{}

	// scoped and wildcard are the correction lookup tables. A column-scoped
	// rule always beats a wildcard rule for the same from-value.
	scoped   map[domain.RuleColumn]map[string]domain.CorrectionRule
	wildcard map[string]domain.CorrectionRule

	// scoring is ordered by (rule_order, id) ascending; first match wins.
	scoring []scoringMatcher
}

// NewSnapshot builds a snapshot from full rule sets, keeping enabled rules
// only. Scoring order ties are broken by rule id for determinism.
func NewSnapshot(validation []domain.ValidationRule, correction []domain.CorrectionRule, scoring []domain.ScoringRule) *Snapshot {
	s := &Snapshot{
		valid:    make(map[domain.RuleColumn]map[string]struct{}),
		scoped:   make(map[domain.RuleColumn]map[string]domain.CorrectionRule),
		wildcard: make(map[string]domain.CorrectionRule),
	}

	for _, r := range validation {
		if !r.Enabled {
			continue
		}
		set, ok := s.valid[r.Column]
		if !ok {
			set = make(map[string]struct{})
			s.valid[r.Column] = set
		}
		set[r.ValidValue] = struct{}{}
	}

	for _, r := range correction {
		if !r.Enabled {
			continue
		}
		if r.Column == nil {
			s.wildcard[r.FromValue] = r
			continue
		}
		byFrom, ok := s.scoped[*r.Column]
		if !ok {
			byFrom = make(map[string]domain.CorrectionRule)
			s.scoped[*r.Column] = byFrom
		}
		byFrom[r.FromValue] = r
	}

	for _, r := range scoring {
		if !r.Enabled {
			continue
		}
		s.scoring = append(s.scoring, newScoringMatcher(r))
	}
	sort.SliceStable(s.scoring, func(i, j int) bool {
		a, b := s.scoring[i].rule, s.scoring[j].rule
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return strings.Compare(a.ID.String(), b.ID.String()) < 0
	})

	return s
}

// ScoringRuleCount returns the number of enabled scoring rules.
func (s *Snapshot) ScoringRuleCount() int { return len(s.scoring) }
