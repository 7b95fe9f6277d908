package chestdata

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ravenhall/clanchest-backend/internal/domain"
	"github.com/ravenhall/clanchest-backend/pkg/ctxutil"
)

// Rescore re-runs the scoring stage over every committed entry of a clan
// with the current enabled scoring rules, updating only the rows whose
// score changed. The entry set is read and locked inside the transaction,
// so a concurrent commit for the same clan waits rather than interleaving.
// No rule match clears the score. Idempotent: a second run with the same
// rules updates nothing and writes no audit record.
func (s *Service) Rescore(ctx context.Context, clanID uuid.UUID) (*RescoreResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if clanID == uuid.Nil {
		return nil, domain.NewValidationError("clan_id", "must be set")
	}

	result := &RescoreResult{}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		entries, err := s.entries.ListForRescore(txCtx, clanID)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}

		snap, err := s.loadSnapshot(txCtx, clanID)
		if err != nil {
			return err
		}

		var updates []domain.ScoreUpdate
		var affected []string
		for i := range entries {
			rec := entries[i].Record()

			var newScore *int
			if score, ok := snap.Score(&rec); ok {
				newScore = &score
			}

			if intPtrEq(entries[i].Score, newScore) {
				continue
			}
			updates = append(updates, domain.ScoreUpdate{EntryID: entries[i].ID, Score: newScore})
			affected = append(affected, entries[i].ID.String())
		}

		if len(updates) == 0 {
			return nil
		}

		if err := s.entries.UpdateScores(txCtx, updates, userID); err != nil {
			return fmt.Errorf("update scores: %w", err)
		}

		auditID := uuid.New()
		auditErr := s.audit.Create(txCtx, domain.AuditRecord{
			ID:         auditID,
			ClanID:     clanID,
			UserID:     userID,
			EntityType: domain.EntityTypeChestEntry,
			EntityID:   nil,
			Action:     domain.AuditActionBatchEditData,
			Changes: map[string]any{
				"entry_ids":     affected,
				"updated_count": len(updates),
			},
			CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}

		result.UpdatedCount = len(updates)
		result.AuditLogID = auditID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "rescore finished",
		"clan_id", clanID,
		"updated", result.UpdatedCount,
	)

	return result, nil
}
