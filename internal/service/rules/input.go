package rules

import (
	"github.com/google/uuid"

	"github.com/ravenhall/clanchest-backend/internal/domain"
)

// CreateValidationInput carries one new allowed value.
type CreateValidationInput struct {
	ClanID     uuid.UUID
	Column     domain.RuleColumn
	ValidValue string
}

// CreateCorrectionInput carries one new substitution. A nil Column makes
// the rule a wildcard.
type CreateCorrectionInput struct {
	ClanID    uuid.UUID
	Column    *domain.RuleColumn
	FromValue string
	ToValue   string
}

// CreateScoringInput carries one new scoring rule. Nil filter fields match
// anything; level semantics follow the scoring stage (min only = exact,
// min and max = inclusive range).
type CreateScoringInput struct {
	ClanID     uuid.UUID
	ChestName  *string
	SourceName *string
	MinLevel   *int
	MaxLevel   *int
	Score      int
	Order      int
}
