package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ravenhall/clanchest-backend/internal/domain"
	"github.com/ravenhall/clanchest-backend/pkg/ctxutil"
)

// checkCap rejects the create when the clan already holds the maximum
// number of rules of that kind.
func (s *Service) checkCap(ctx context.Context, clanID uuid.UUID, kind domain.RuleKind) error {
	count, err := s.rules.Count(ctx, clanID, kind)
	if err != nil {
		return fmt.Errorf("count rules: %w", err)
	}
	if count >= s.cfg.MaxRulesPerClan {
		return domain.NewValidationError("rules",
			fmt.Sprintf("clan already has %d %s rules (max %d)", count, kind, s.cfg.MaxRulesPerClan))
	}
	return nil
}

// CreateValidationRule adds one allowed value to a clan's validation set.
func (s *Service) CreateValidationRule(ctx context.Context, input CreateValidationInput) (*domain.ValidationRule, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	rule := domain.ValidationRule{
		ID:         uuid.New(),
		ClanID:     input.ClanID,
		Column:     input.Column,
		ValidValue: input.ValidValue,
		Enabled:    true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if input.ClanID == uuid.Nil {
		return nil, domain.NewValidationError("clan_id", "must be set")
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkCap(ctx, input.ClanID, domain.RuleKindValidation); err != nil {
		return nil, err
	}

	var created domain.ValidationRule
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = s.rules.CreateValidation(txCtx, rule)
		if createErr != nil {
			return createErr
		}
		return s.logRuleAudit(txCtx, userID, input.ClanID, domain.RuleKindValidation, created.ID,
			domain.AuditActionCreate, map[string]any{
				"column":      string(created.Column),
				"valid_value": created.ValidValue,
			})
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// CreateCorrectionRule adds one substitution to a clan's correction set.
// A nil column makes the rule a wildcard matching any column.
func (s *Service) CreateCorrectionRule(ctx context.Context, input CreateCorrectionInput) (*domain.CorrectionRule, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	rule := domain.CorrectionRule{
		ID:        uuid.New(),
		ClanID:    input.ClanID,
		Column:    input.Column,
		FromValue: input.FromValue,
		ToValue:   input.ToValue,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.ClanID == uuid.Nil {
		return nil, domain.NewValidationError("clan_id", "must be set")
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkCap(ctx, input.ClanID, domain.RuleKindCorrection); err != nil {
		return nil, err
	}

	var created domain.CorrectionRule
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = s.rules.CreateCorrection(txCtx, rule)
		if createErr != nil {
			return createErr
		}
		changes := map[string]any{
			"from_value": created.FromValue,
			"to_value":   created.ToValue,
		}
		if created.Column != nil {
			changes["column"] = string(*created.Column)
		}
		return s.logRuleAudit(txCtx, userID, input.ClanID, domain.RuleKindCorrection, created.ID,
			domain.AuditActionCreate, changes)
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// CreateScoringRule adds one scoring rule to a clan's ordered rule list.
func (s *Service) CreateScoringRule(ctx context.Context, input CreateScoringInput) (*domain.ScoringRule, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	rule := domain.ScoringRule{
		ID:         uuid.New(),
		ClanID:     input.ClanID,
		ChestName:  input.ChestName,
		SourceName: input.SourceName,
		MinLevel:   input.MinLevel,
		MaxLevel:   input.MaxLevel,
		Score:      input.Score,
		Order:      input.Order,
		Enabled:    true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if input.ClanID == uuid.Nil {
		return nil, domain.NewValidationError("clan_id", "must be set")
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkCap(ctx, input.ClanID, domain.RuleKindScoring); err != nil {
		return nil, err
	}

	var created domain.ScoringRule
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = s.rules.CreateScoring(txCtx, rule)
		if createErr != nil {
			return createErr
		}
		return s.logRuleAudit(txCtx, userID, input.ClanID, domain.RuleKindScoring, created.ID,
			domain.AuditActionCreate, map[string]any{
				"score": created.Score,
				"order": created.Order,
			})
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// logRuleAudit appends one audit record for a rule mutation.
func (s *Service) logRuleAudit(ctx context.Context, userID, clanID uuid.UUID, kind domain.RuleKind, ruleID uuid.UUID, action domain.AuditAction, changes map[string]any) error {
	err := s.audit.Create(ctx, domain.AuditRecord{
		ID:         uuid.New(),
		ClanID:     clanID,
		UserID:     userID,
		EntityType: domain.RuleEntityType(kind),
		EntityID:   &ruleID,
		Action:     action,
		Changes:    changes,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	})
	if err != nil {
		return fmt.Errorf("audit log: %w", err)
	}
	return nil
}
