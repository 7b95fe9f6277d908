package rules

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ravenhall/clanchest-backend/internal/config"
	"github.com/ravenhall/clanchest-backend/internal/domain"
	"github.com/ravenhall/clanchest-backend/pkg/ctxutil"
)

func newTestService(t *testing.T, repo *ruleRepoMock, audit *auditLoggerMock, tx *txManagerMock) *Service {
	t.Helper()
	return NewService(slog.Default(), repo, audit, tx,
		config.ImportConfig{MaxBatchRows: 1000, MaxRawBytes: 1 << 20, MaxRulesPerClan: 3})
}

func authedCtx(userID uuid.UUID) context.Context {
	return ctxutil.WithUserID(context.Background(), userID)
}

func echoValidationCreate(ctx context.Context, rule domain.ValidationRule) (domain.ValidationRule, error) {
	return rule, nil
}

func zeroCount(ctx context.Context, clanID uuid.UUID, kind domain.RuleKind) (int, error) {
	return 0, nil
}

// ---------------------------------------------------------------------------
// Create tests
// ---------------------------------------------------------------------------

func TestCreateValidationRule_Success(t *testing.T) {
	t.Parallel()

	clanID := uuid.New()
	repo := &ruleRepoMock{
		CountFunc:            zeroCount,
		CreateValidationFunc: echoValidationCreate,
	}
	audit := defaultAuditMock()
	svc := newTestService(t, repo, audit, defaultTxMock())

	got, err := svc.CreateValidationRule(authedCtx(uuid.New()), CreateValidationInput{
		ClanID:     clanID,
		Column:     domain.RuleColumnChest,
		ValidValue: "Wooden Chest",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ValidValue != "Wooden Chest" {
		t.Errorf("valid value: got %q, want %q", got.ValidValue, "Wooden Chest")
	}
	if !got.Enabled {
		t.Error("new rules should start enabled")
	}
	if got.ID == uuid.Nil {
		t.Error("id should be assigned")
	}

	auditCalls := audit.CreateCalls()
	if len(auditCalls) != 1 {
		t.Fatalf("audit calls: got %d, want 1", len(auditCalls))
	}
	rec := auditCalls[0]
	if rec.EntityType != domain.EntityTypeValidationRule {
		t.Errorf("audit entity type: got %s, want VALIDATION_RULE", rec.EntityType)
	}
	if rec.Action != domain.AuditActionCreate {
		t.Errorf("audit action: got %s, want CREATE", rec.Action)
	}
	if rec.EntityID == nil || *rec.EntityID != got.ID {
		t.Errorf("audit entity id: got %v, want %s", rec.EntityID, got.ID)
	}
}

func TestCreateValidationRule_CapReached(t *testing.T) {
	t.Parallel()

	repo := &ruleRepoMock{
		CountFunc: func(ctx context.Context, clanID uuid.UUID, kind domain.RuleKind) (int, error) {
			return 3, nil // at the test cap
		},
		CreateValidationFunc: echoValidationCreate,
	}
	svc := newTestService(t, repo, defaultAuditMock(), defaultTxMock())

	_, err := svc.CreateValidationRule(authedCtx(uuid.New()), CreateValidationInput{
		ClanID:     uuid.New(),
		Column:     domain.RuleColumnChest,
		ValidValue: "Wooden Chest",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
	if len(repo.CreateValidationCalls()) != 0 {
		t.Error("nothing should be created past the cap")
	}
}

func TestCreateValidationRule_InvalidColumn(t *testing.T) {
	t.Parallel()

	repo := &ruleRepoMock{CountFunc: zeroCount, CreateValidationFunc: echoValidationCreate}
	svc := newTestService(t, repo, defaultAuditMock(), defaultTxMock())

	_, err := svc.CreateValidationRule(authedCtx(uuid.New()), CreateValidationInput{
		ClanID:     uuid.New(),
		Column:     domain.RuleColumn("NOPE"),
		ValidValue: "x",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

func TestCreateScoringRule_InvalidLevelRange(t *testing.T) {
	t.Parallel()

	repo := &ruleRepoMock{
		CountFunc: zeroCount,
		CreateScoringFunc: func(ctx context.Context, rule domain.ScoringRule) (domain.ScoringRule, error) {
			return rule, nil
		},
	}
	svc := newTestService(t, repo, defaultAuditMock(), defaultTxMock())

	minLevel, maxLevel := 30, 20
	_, err := svc.CreateScoringRule(authedCtx(uuid.New()), CreateScoringInput{
		ClanID:   uuid.New(),
		MinLevel: &minLevel,
		MaxLevel: &maxLevel,
		Score:    10,
		Order:    10,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
	if len(repo.CreateScoringCalls()) != 0 {
		t.Error("invalid rule should not reach the repo")
	}
}

func TestCreateCorrectionRule_Unauthorized(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &ruleRepoMock{}, defaultAuditMock(), defaultTxMock())

	_, err := svc.CreateCorrectionRule(context.Background(), CreateCorrectionInput{
		ClanID:    uuid.New(),
		FromValue: "Cript",
		ToValue:   "Crypt",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
}

// ---------------------------------------------------------------------------
// List / toggle / delete tests
// ---------------------------------------------------------------------------

func TestListRules_AllKinds(t *testing.T) {
	t.Parallel()

	clanID := uuid.New()
	now := time.Now().UTC()
	repo := &ruleRepoMock{
		ListValidationFunc: func(ctx context.Context, cid uuid.UUID) ([]domain.ValidationRule, error) {
			return []domain.ValidationRule{{ID: uuid.New(), ClanID: clanID, Column: domain.RuleColumnChest, ValidValue: "Wooden Chest", CreatedAt: now}}, nil
		},
		ListCorrectionFunc: func(ctx context.Context, cid uuid.UUID) ([]domain.CorrectionRule, error) {
			return []domain.CorrectionRule{}, nil
		},
		ListScoringFunc: func(ctx context.Context, cid uuid.UUID) ([]domain.ScoringRule, error) {
			return []domain.ScoringRule{{ID: uuid.New(), ClanID: clanID, Score: 10, Order: 10}}, nil
		},
	}
	svc := newTestService(t, repo, defaultAuditMock(), defaultTxMock())

	got, err := svc.ListRules(authedCtx(uuid.New()), clanID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Validation) != 1 || len(got.Correction) != 0 || len(got.Scoring) != 1 {
		t.Errorf("rule set sizes: got %d/%d/%d, want 1/0/1",
			len(got.Validation), len(got.Correction), len(got.Scoring))
	}
	if got.Correction == nil {
		t.Error("empty kinds should be empty slices, not nil")
	}
}

func TestSetRuleEnabled_Audited(t *testing.T) {
	t.Parallel()

	clanID := uuid.New()
	ruleID := uuid.New()
	repo := &ruleRepoMock{
		SetEnabledFunc: func(ctx context.Context, kind domain.RuleKind, rid uuid.UUID, enabled bool) (uuid.UUID, error) {
			return clanID, nil
		},
	}
	audit := defaultAuditMock()
	svc := newTestService(t, repo, audit, defaultTxMock())

	if err := svc.SetRuleEnabled(authedCtx(uuid.New()), domain.RuleKindScoring, ruleID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	auditCalls := audit.CreateCalls()
	if len(auditCalls) != 1 {
		t.Fatalf("audit calls: got %d, want 1", len(auditCalls))
	}
	rec := auditCalls[0]
	if rec.ClanID != clanID {
		t.Errorf("audit clan: got %s, want %s", rec.ClanID, clanID)
	}
	if rec.EntityType != domain.EntityTypeScoringRule {
		t.Errorf("audit entity type: got %s, want SCORING_RULE", rec.EntityType)
	}
	if rec.Changes["enabled"] != false {
		t.Errorf("audit enabled change: got %v, want false", rec.Changes["enabled"])
	}
}

func TestSetRuleEnabled_NotFound(t *testing.T) {
	t.Parallel()

	repo := &ruleRepoMock{
		SetEnabledFunc: func(ctx context.Context, kind domain.RuleKind, rid uuid.UUID, enabled bool) (uuid.UUID, error) {
			return uuid.Nil, domain.ErrNotFound
		},
	}
	audit := defaultAuditMock()
	svc := newTestService(t, repo, audit, defaultTxMock())

	err := svc.SetRuleEnabled(authedCtx(uuid.New()), domain.RuleKindValidation, uuid.New(), true)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if len(audit.CreateCalls()) != 0 {
		t.Error("no audit record for a failed toggle")
	}
}

func TestDeleteRule_Audited(t *testing.T) {
	t.Parallel()

	clanID := uuid.New()
	ruleID := uuid.New()
	repo := &ruleRepoMock{
		DeleteFunc: func(ctx context.Context, kind domain.RuleKind, rid uuid.UUID) (uuid.UUID, error) {
			return clanID, nil
		},
	}
	audit := defaultAuditMock()
	svc := newTestService(t, repo, audit, defaultTxMock())

	if err := svc.DeleteRule(authedCtx(uuid.New()), domain.RuleKindCorrection, ruleID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.DeleteCalls()) != 1 {
		t.Fatalf("Delete calls: got %d, want 1", len(repo.DeleteCalls()))
	}
	auditCalls := audit.CreateCalls()
	if len(auditCalls) != 1 {
		t.Fatalf("audit calls: got %d, want 1", len(auditCalls))
	}
	if auditCalls[0].Action != domain.AuditActionDelete {
		t.Errorf("audit action: got %s, want DELETE", auditCalls[0].Action)
	}
}

func TestDeleteRule_UnknownKind(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &ruleRepoMock{}, defaultAuditMock(), defaultTxMock())

	err := svc.DeleteRule(authedCtx(uuid.New()), domain.RuleKind("NOPE"), uuid.New())
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}
