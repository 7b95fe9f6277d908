package rules

import "github.com/ravenhall/clanchest-backend/internal/domain"

// levelFilterKind is the evaluation-time variant of a scoring rule's level
// filter. Modeling the "nil means anything" fields as an explicit variant
// keeps the matching logic exhaustive.
type levelFilterKind int

const (
	// levelAny matches regardless of the record's level.
	levelAny levelFilterKind = iota
	// levelExact requires the record's level to equal the rule's MinLevel.
	levelExact
	// levelRange requires the record's level range to fall inside the
	// rule's [MinLevel, MaxLevel], inclusive.
	levelRange
)

// scoringMatcher is a scoring rule compiled for evaluation.
type scoringMatcher struct {
	rule      domain.ScoringRule
	levelKind levelFilterKind
}

func newScoringMatcher(r domain.ScoringRule) scoringMatcher {
	m := scoringMatcher{rule: r, levelKind: levelAny}
	switch {
	case r.MinLevel != nil && r.MaxLevel != nil:
		m.levelKind = levelRange
	case r.MinLevel != nil:
		m.levelKind = levelExact
	}
	return m
}

// matches reports whether every non-wildcard filter of the rule holds for
// the record.
func (m scoringMatcher) matches(rec *domain.CandidateRecord) bool {
	if m.rule.ChestName != nil && *m.rule.ChestName != rec.Chest {
		return false
	}
	if m.rule.SourceName != nil && *m.rule.SourceName != rec.Source {
		return false
	}

	switch m.levelKind {
	case levelAny:
		return true
	case levelExact:
		if rec.MinLevel == nil || *rec.MinLevel != *m.rule.MinLevel {
			return false
		}
		// A record level range only matches an exact filter when it
		// collapses to the single level.
		return rec.MaxLevel == nil || *rec.MaxLevel == *m.rule.MinLevel
	case levelRange:
		if rec.MinLevel == nil {
			return false
		}
		hi := *rec.MinLevel
		if rec.MaxLevel != nil {
			hi = *rec.MaxLevel
		}
		return *rec.MinLevel >= *m.rule.MinLevel && hi <= *m.rule.MaxLevel
	}
	return false
}

// Score evaluates the snapshot's scoring rules against a record in
// ascending order and returns the first match's score. The second return
// is false when no rule matches: the record stays unscored, an explicit
// state surfaced in the preview for manual assignment, not a zero.
func (s *Snapshot) Score(rec *domain.CandidateRecord) (int, bool) {
	for _, m := range s.scoring {
		if m.matches(rec) {
			return m.rule.Score, true
		}
	}
	return 0, false
}
