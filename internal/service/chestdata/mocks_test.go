package chestdata

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ravenhall/clanchest-backend/internal/domain"
)

// Hand-written mocks in the moq style: a Func field per method plus call
// recording. A nil Func panics, which surfaces unexpected calls in tests.

// ---------------------------------------------------------------------------
// entryRepoMock
// ---------------------------------------------------------------------------

type entryRepoMock struct {
	mu sync.Mutex

	InsertBatchFunc    func(ctx context.Context, entries []domain.ChestEntry) error
	GetByIDFunc        func(ctx context.Context, clanID, entryID uuid.UUID) (*domain.ChestEntry, error)
	FindFunc           func(ctx context.Context, clanID uuid.UUID, filter domain.EntryFilter) ([]domain.ChestEntry, int, error)
	ListForRescoreFunc func(ctx context.Context, clanID uuid.UUID) ([]domain.ChestEntry, error)
	UpdateScoresFunc   func(ctx context.Context, updates []domain.ScoreUpdate, updatedBy uuid.UUID) error
	UpdateFunc         func(ctx context.Context, clanID, entryID uuid.UUID, patch domain.ChestEntryPatch, updatedBy uuid.UUID) (*domain.ChestEntry, error)
	DeleteFunc         func(ctx context.Context, clanID, entryID uuid.UUID) error

	insertBatchCalls  [][]domain.ChestEntry
	updateScoresCalls [][]domain.ScoreUpdate
	updateCalls       []domain.ChestEntryPatch
	deleteCalls       []uuid.UUID
}

func (m *entryRepoMock) InsertBatch(ctx context.Context, entries []domain.ChestEntry) error {
	m.mu.Lock()
	m.insertBatchCalls = append(m.insertBatchCalls, entries)
	m.mu.Unlock()
	return m.InsertBatchFunc(ctx, entries)
}

func (m *entryRepoMock) GetByID(ctx context.Context, clanID, entryID uuid.UUID) (*domain.ChestEntry, error) {
	return m.GetByIDFunc(ctx, clanID, entryID)
}

func (m *entryRepoMock) Find(ctx context.Context, clanID uuid.UUID, filter domain.EntryFilter) ([]domain.ChestEntry, int, error) {
	return m.FindFunc(ctx, clanID, filter)
}

func (m *entryRepoMock) ListForRescore(ctx context.Context, clanID uuid.UUID) ([]domain.ChestEntry, error) {
	return m.ListForRescoreFunc(ctx, clanID)
}

func (m *entryRepoMock) UpdateScores(ctx context.Context, updates []domain.ScoreUpdate, updatedBy uuid.UUID) error {
	m.mu.Lock()
	m.updateScoresCalls = append(m.updateScoresCalls, updates)
	m.mu.Unlock()
	return m.UpdateScoresFunc(ctx, updates, updatedBy)
}

func (m *entryRepoMock) Update(ctx context.Context, clanID, entryID uuid.UUID, patch domain.ChestEntryPatch, updatedBy uuid.UUID) (*domain.ChestEntry, error) {
	m.mu.Lock()
	m.updateCalls = append(m.updateCalls, patch)
	m.mu.Unlock()
	return m.UpdateFunc(ctx, clanID, entryID, patch, updatedBy)
}

func (m *entryRepoMock) Delete(ctx context.Context, clanID, entryID uuid.UUID) error {
	m.mu.Lock()
	m.deleteCalls = append(m.deleteCalls, entryID)
	m.mu.Unlock()
	return m.DeleteFunc(ctx, clanID, entryID)
}

func (m *entryRepoMock) InsertBatchCalls() [][]domain.ChestEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertBatchCalls
}

func (m *entryRepoMock) UpdateScoresCalls() [][]domain.ScoreUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateScoresCalls
}

// ---------------------------------------------------------------------------
// ruleRepoMock
// ---------------------------------------------------------------------------

type ruleRepoMock struct {
	ListValidationFunc func(ctx context.Context, clanID uuid.UUID) ([]domain.ValidationRule, error)
	ListCorrectionFunc func(ctx context.Context, clanID uuid.UUID) ([]domain.CorrectionRule, error)
	ListScoringFunc    func(ctx context.Context, clanID uuid.UUID) ([]domain.ScoringRule, error)
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

// emptyRuleRepoMock returns a rule repo with no rules at all.
func emptyRuleRepoMock() *ruleRepoMock {
	return &ruleRepoMock{
		ListValidationFunc: func(ctx context.Context, clanID uuid.UUID) ([]domain.ValidationRule, error) {
			return []domain.ValidationRule{}, nil
		},
		ListCorrectionFunc: func(ctx context.Context, clanID uuid.UUID) ([]domain.CorrectionRule, error) {
			return []domain.CorrectionRule{}, nil
		},
		ListScoringFunc: func(ctx context.Context, clanID uuid.UUID) ([]domain.ScoringRule, error) {
			return []domain.ScoringRule{}, nil
		},
	}
}

// ---------------------------------------------------------------------------
// auditLoggerMock
// ---------------------------------------------------------------------------

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

// defaultAuditMock returns an auditLoggerMock that always succeeds.
func defaultAuditMock() *auditLoggerMock {
	return &auditLoggerMock{
		CreateFunc: func(ctx context.Context, rec domain.AuditRecord) error {
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// txManagerMock
// ---------------------------------------------------------------------------

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTxFunc(ctx, fn)
}

// defaultTxMock returns a txManagerMock that simply calls the function
// with the same context.
func defaultTxMock() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	}
}
