// Package rules implements rule management for a clan: create, list,
// toggle, and delete for all three rule kinds, each mutation appending an
// audit record.
package rules

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ravenhall/clanchest-backend/internal/config"
	"github.com/ravenhall/clanchest-backend/internal/domain"
)

type ruleRepo interface {
	CreateValidation(ctx context.Context, rule domain.ValidationRule) (domain.ValidationRule, error)
	CreateCorrection(ctx context.Context, rule domain.CorrectionRule) (domain.CorrectionRule, error)
	CreateScoring(ctx context.Context, rule domain.ScoringRule) (domain.ScoringRule, error)

	ListValidation(ctx context.Context, clanID uuid.UUID) ([]domain.ValidationRule, error)
	ListCorrection(ctx context.Context, clanID uuid.UUID) ([]domain.CorrectionRule, error)
	ListScoring(ctx context.Context, clanID uuid.UUID) ([]domain.ScoringRule, error)

	SetEnabled(ctx context.Context, kind domain.RuleKind, ruleID uuid.UUID, enabled bool) (uuid.UUID, error)
	Delete(ctx context.Context, kind domain.RuleKind, ruleID uuid.UUID) (uuid.UUID, error)
	Count(ctx context.Context, clanID uuid.UUID, kind domain.RuleKind) (int, error)
}

type auditLogger interface {
	Create(ctx context.Context, rec domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides rule management operations.
type Service struct {
	rules ruleRepo
	audit auditLogger
	tx    txManager
	cfg   config.ImportConfig
	log   *slog.Logger
}

// NewService creates a new Rules service.
func NewService(
	log *slog.Logger,
	ruleStore ruleRepo,
	audit auditLogger,
	tx txManager,
	cfg config.ImportConfig,
) *Service {
	return &Service{
		rules: ruleStore,
		audit: audit,
		tx:    tx,
		cfg:   cfg,
		log:   log.With("service", "rules"),
	}
}

// RuleSet bundles all three rule lists of a clan, disabled rules included.
type RuleSet struct {
	Validation []domain.ValidationRule
	Correction []domain.CorrectionRule
	Scoring    []domain.ScoringRule
}
