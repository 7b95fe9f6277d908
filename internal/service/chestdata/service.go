// Package chestdata implements the chest data pipeline: raw log text is
// parsed, annotated by the clan's rules, previewed, and committed as
// entries. It also owns post-commit entry edits and the batch rescore.
package chestdata

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ravenhall/clanchest-backend/internal/config"
	"github.com/ravenhall/clanchest-backend/internal/domain"
	"github.com/ravenhall/clanchest-backend/internal/rules"
)

type entryRepo interface {
	InsertBatch(ctx context.Context, entries []domain.ChestEntry) error
	GetByID(ctx context.Context, clanID, entryID uuid.UUID) (*domain.ChestEntry, error)
	Find(ctx context.Context, clanID uuid.UUID, filter domain.EntryFilter) ([]domain.ChestEntry, int, error)
	ListForRescore(ctx context.Context, clanID uuid.UUID) ([]domain.ChestEntry, error)
	UpdateScores(ctx context.Context, updates []domain.ScoreUpdate, updatedBy uuid.UUID) error
	Update(ctx context.Context, clanID, entryID uuid.UUID, patch domain.ChestEntryPatch, updatedBy uuid.UUID) (*domain.ChestEntry, error)
	Delete(ctx context.Context, clanID, entryID uuid.UUID) error
}

type ruleRepo interface {
	ListValidation(ctx context.Context, clanID uuid.UUID) ([]domain.ValidationRule, error)
	ListCorrection(ctx context.Context, clanID uuid.UUID) ([]domain.CorrectionRule, error)
	ListScoring(ctx context.Context, clanID uuid.UUID) ([]domain.ScoringRule, error)
}

type auditLogger interface {
	Create(ctx context.Context, rec domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides the chest data pipeline operations.
type Service struct {
	entries entryRepo
	rules   ruleRepo
	audit   auditLogger
	tx      txManager
	cfg     config.ImportConfig
	log     *slog.Logger
}

// NewService creates a new ChestData service.
func NewService(
	log *slog.Logger,
	entries entryRepo,
	ruleStore ruleRepo,
	audit auditLogger,
	tx txManager,
	cfg config.ImportConfig,
) *Service {
	return &Service{
		entries: entries,
		rules:   ruleStore,
		audit:   audit,
		tx:      tx,
		cfg:     cfg,
		log:     log.With("service", "chestdata"),
	}
}

// loadSnapshot reads all three rule sets of a clan and builds the snapshot
// used by one pipeline invocation. Rules are never re-read mid-operation;
// a concurrent rule edit affects the next invocation, not this one.
func (s *Service) loadSnapshot(ctx context.Context, clanID uuid.UUID) (*rules.Snapshot, error) {
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
	return rules.NewSnapshot(validation, correction, scoring), nil
}

// intPtrEq compares two optional ints by value.
func intPtrEq(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
