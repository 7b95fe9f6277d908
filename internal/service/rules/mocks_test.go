package rules

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ravenhall/clanchest-backend/internal/domain"
)

// Hand-written mocks in the moq style: a Func field per method plus call
// recording.

type ruleRepoMock struct {
	mu sync.Mutex

	CreateValidationFunc func(ctx context.Context, rule domain.ValidationRule) (domain.ValidationRule, error)
	CreateCorrectionFunc func(ctx context.Context, rule domain.CorrectionRule) (domain.CorrectionRule, error)
	CreateScoringFunc    func(ctx context.Context, rule domain.ScoringRule) (domain.ScoringRule, error)
	ListValidationFunc   func(ctx context.Context, clanID uuid.UUID) ([]domain.ValidationRule, error)
	ListCorrectionFunc   func(ctx context.Context, clanID uuid.UUID) ([]domain.CorrectionRule, error)
	ListScoringFunc      func(ctx context.Context, clanID uuid.UUID) ([]domain.ScoringRule, error)
	SetEnabledFunc       func(ctx context.Context, kind domain.RuleKind, ruleID uuid.UUID, enabled bool) (uuid.UUID, error)
	DeleteFunc           func(ctx context.Context, kind domain.RuleKind, ruleID uuid.UUID) (uuid.UUID, error)
	CountFunc            func(ctx context.Context, clanID uuid.UUID, kind domain.RuleKind) (int, error)

	createValidationCalls []domain.ValidationRule
	createScoringCalls    []domain.ScoringRule
	deleteCalls           []uuid.UUID
}

func (m *ruleRepoMock) CreateValidation(ctx context.Context, rule domain.ValidationRule) (domain.ValidationRule, error) {
	m.mu.Lock()
	m.createValidationCalls = append(m.createValidationCalls, rule)
	m.mu.Unlock()
	return m.CreateValidationFunc(ctx, rule)
}

func (m *ruleRepoMock) CreateCorrection(ctx context.Context, rule domain.CorrectionRule) (domain.CorrectionRule, error) {
	return m.CreateCorrectionFunc(ctx, rule)
}

func (m *ruleRepoMock) CreateScoring(ctx context.Context, rule domain.ScoringRule) (domain.ScoringRule, error) {
	m.mu.Lock()
	m.createScoringCalls = append(m.createScoringCalls, rule)
	m.mu.Unlock()
	return m.CreateScoringFunc(ctx, rule)
}

func (m *ruleRepoMock) ListValidation(ctx context.Context, clanID uuid.UUID) ([]domain.ValidationRule, error) {
	return m.ListValidationFunc(ctx, clanID)
}

func (m *ruleRepoMock) ListCorrection(ctx context.Context, clanID uuid.UUID) ([]domain.CorrectionRule, error) {
	return m.ListCorrectionFunc(ctx, clanID)
}

func (m *ruleRepoMock) ListScoring(ctx context.Context, clanID uuid.UUID) ([]domain.ScoringRule, error) {
	return m.ListScoringFunc(ctx, clanID)
}

func (m *ruleRepoMock) SetEnabled(ctx context.Context, kind domain.RuleKind, ruleID uuid.UUID, enabled bool) (uuid.UUID, error) {
	return m.SetEnabledFunc(ctx, kind, ruleID, enabled)
}

func (m *ruleRepoMock) Delete(ctx context.Context, kind domain.RuleKind, ruleID uuid.UUID) (uuid.UUID, error) {
	m.mu.Lock()
	m.deleteCalls = append(m.deleteCalls, ruleID)
	m.mu.Unlock()
	return m.DeleteFunc(ctx, kind, ruleID)
}

func (m *ruleRepoMock) Count(ctx context.Context, clanID uuid.UUID, kind domain.RuleKind) (int, error) {
	return m.CountFunc(ctx, clanID, kind)
}

func (m *ruleRepoMock) CreateValidationCalls() []domain.ValidationRule {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createValidationCalls
}

func (m *ruleRepoMock) CreateScoringCalls() []domain.ScoringRule {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createScoringCalls
}

func (m *ruleRepoMock) DeleteCalls() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteCalls
}

type auditLoggerMock struct {
	mu sync.Mutex

	CreateFunc func(ctx context.Context, rec domain.AuditRecord) error

	createCalls []domain.AuditRecord
}

func (m *auditLoggerMock) Create(ctx context.Context, rec domain.AuditRecord) error {
	m.mu.Lock()
	m.createCalls = append(m.createCalls, rec)
	m.mu.Unlock()
	return m.CreateFunc(ctx, rec)
}

func (m *auditLoggerMock) CreateCalls() []domain.AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

func defaultAuditMock() *auditLoggerMock {
	return &auditLoggerMock{
		CreateFunc: func(ctx context.Context, rec domain.AuditRecord) error {
			return nil
		},
	}
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTxFunc(ctx, fn)
}

func defaultTxMock() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	}
}
