package rules

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ravenhall/clanchest-backend/internal/domain"
	"github.com/ravenhall/clanchest-backend/pkg/ctxutil"
)

// ListRules returns all rules of a clan, disabled ones included, so
// administrators see the full configured set. Scoring rules come in
// evaluation order.
func (s *Service) ListRules(ctx context.Context, clanID uuid.UUID) (*RuleSet, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if clanID == uuid.Nil {
		return nil, domain.NewValidationError("clan_id", "must be set")
	}

	validation, err := s.rules.ListValidation(ctx, clanID)
	if err != nil {
		return nil, fmt.Errorf("list validation rules: %w", err)
	}
	correction, err := s.rules.ListCorrection(ctx, clanID)
	if err != nil {
		return nil, fmt.Errorf("list correction rules: %w", err)
	}
	scoring, err := s.rules.ListScoring(ctx, clanID)
	if err != nil {
		return nil, fmt.Errorf("list scoring rules: %w", err)
	}

	return &RuleSet{Validation: validation, Correction: correction, Scoring: scoring}, nil
}

// SetRuleEnabled toggles a rule without deleting it. Disabling removes the
// rule from the next snapshot; an in-flight preview keeps the snapshot it
// already read.
func (s *Service) SetRuleEnabled(ctx context.Context, kind domain.RuleKind, ruleID uuid.UUID, enabled bool) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if !kind.IsValid() {
		return domain.NewValidationError("kind", "unknown rule kind")
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		clanID, err := s.rules.SetEnabled(txCtx, kind, ruleID, enabled)
		if err != nil {
			return err
		}
		return s.logRuleAudit(txCtx, userID, clanID, kind, ruleID,
			domain.AuditActionUpdate, map[string]any{"enabled": enabled})
	})
}

// DeleteRule removes a rule permanently. Prefer SetRuleEnabled(false) when
// the rule might come back.
func (s *Service) DeleteRule(ctx context.Context, kind domain.RuleKind, ruleID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if !kind.IsValid() {
		return domain.NewValidationError("kind", "unknown rule kind")
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		clanID, err := s.rules.Delete(txCtx, kind, ruleID)
		if err != nil {
			return err
		}
		return s.logRuleAudit(txCtx, userID, clanID, kind, ruleID,
			domain.AuditActionDelete, nil)
	})
}
