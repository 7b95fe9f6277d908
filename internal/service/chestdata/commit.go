package chestdata

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ravenhall/clanchest-backend/internal/domain"
	"github.com/ravenhall/clanchest-backend/pkg/ctxutil"
)

// Commit atomically persists a reviewed batch: every row becomes a chest
// entry and exactly one audit record describes the batch, or nothing is
// persisted.
//
// Scores are taken from the rows as submitted so that manual assignments
// made during review survive. Validation is re-run against a fresh rule
// snapshot; rows that still violate and rows still unscored are rejected
// before the transaction starts unless the matching flag is set.
func (s *Service) Commit(ctx context.Context, input CommitInput) (*CommitResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if len(input.Rows) > s.cfg.MaxBatchRows {
		return nil, domain.NewValidationError("rows", fmt.Sprintf("batch exceeds %d rows", s.cfg.MaxBatchRows))
	}

	snap, err := s.loadSnapshot(ctx, input.ClanID)
	if err != nil {
		return nil, err
	}

	var violating, unscored int
	for i := range input.Rows {
		if len(snap.Validate(&input.Rows[i].Record)) > 0 {
			violating++
		}
		if input.Rows[i].Record.Score == nil {
			unscored++
		}
	}
	if violating > 0 && !input.AcceptViolations {
		return nil, domain.NewValidationError("accept_violations",
			fmt.Sprintf("%d rows violate validation rules; set accept_violations to commit them", violating))
	}
	if unscored > 0 && !input.AllowUnscored {
		return nil, domain.NewValidationError("allow_unscored",
			fmt.Sprintf("%d rows are unscored; set allow_unscored to commit them", unscored))
	}

	now := time.Now().UTC().Truncate(time.Microsecond)

	entries := make([]domain.ChestEntry, 0, len(input.Rows))
	insertedIDs := make([]uuid.UUID, 0, len(input.Rows))
	for _, row := range input.Rows {
		entry := domain.ChestEntry{
			ID:            uuid.New(),
			ClanID:        input.ClanID,
			Player:        row.Record.Player,
			Source:        row.Record.Source,
			MinLevel:      row.Record.MinLevel,
			MaxLevel:      row.Record.MaxLevel,
			Chest:         row.Record.Chest,
			CollectedDate: row.Record.CollectedDate,
			Score:         row.Record.Score,
			CreatedBy:     userID,
			UpdatedBy:     userID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		entries = append(entries, entry)
		insertedIDs = append(insertedIDs, entry.ID)
	}

	auditID := uuid.New()

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.entries.InsertBatch(txCtx, entries); err != nil {
			return fmt.Errorf("insert entries: %w", err)
		}

		auditErr := s.audit.Create(txCtx, domain.AuditRecord{
			ID:         auditID,
			ClanID:     input.ClanID,
			UserID:     userID,
			EntityType: domain.EntityTypeChestEntry,
			EntityID:   nil,
			Action:     domain.AuditActionImport,
			Changes: map[string]any{
				"row_count": len(entries),
				"format":    string(input.Format),
			},
			CreatedAt: now,
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "batch committed",
		"clan_id", input.ClanID,
		"rows", len(entries),
		"unscored", unscored,
		"audit_id", auditID,
	)

	return &CommitResult{InsertedIDs: insertedIDs, AuditLogID: auditID}, nil
}
