package chestdata

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ravenhall/clanchest-backend/internal/domain"
	"github.com/ravenhall/clanchest-backend/pkg/ctxutil"
)

// GetEntry returns one committed entry of a clan.
func (s *Service) GetEntry(ctx context.Context, clanID, entryID uuid.UUID) (*domain.ChestEntry, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.entries.GetByID(ctx, clanID, entryID)
}

// ListEntries returns a filtered page of a clan's entries plus the total
// count matching the filter.
func (s *Service) ListEntries(ctx context.Context, input ListEntriesInput) ([]domain.ChestEntry, int, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, 0, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, 0, err
	}
	return s.entries.Find(ctx, input.ClanID, input.Filter)
}

// UpdateEntry applies a post-commit edit: the patched fields change,
// updated_by/updated_at are bumped, and an audit record with old/new
// values is appended in the same transaction.
func (s *Service) UpdateEntry(ctx context.Context, input UpdateEntryInput) (*domain.ChestEntry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.ChestEntry

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		before, err := s.entries.GetByID(txCtx, input.ClanID, input.EntryID)
		if err != nil {
			return err
		}

		updated, err = s.entries.Update(txCtx, input.ClanID, input.EntryID, input.Patch, userID)
		if err != nil {
			return err
		}

		// The merged record must still hold the level invariant.
		rec := updated.Record()
		if err := rec.Validate(); err != nil {
			return err
		}

		auditErr := s.audit.Create(txCtx, domain.AuditRecord{
			ID:         uuid.New(),
			ClanID:     input.ClanID,
			UserID:     userID,
			EntityType: domain.EntityTypeChestEntry,
			EntityID:   &input.EntryID,
			Action:     domain.AuditActionUpdate,
			Changes:    entryChanges(before, updated),
			CreatedAt:  updated.UpdatedAt,
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteEntry removes one entry and appends an audit record describing it.
func (s *Service) DeleteEntry(ctx context.Context, clanID, entryID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		entry, err := s.entries.GetByID(txCtx, clanID, entryID)
		if err != nil {
			return err
		}

		if err := s.entries.Delete(txCtx, clanID, entryID); err != nil {
			return err
		}

		auditErr := s.audit.Create(txCtx, domain.AuditRecord{
			ID:         uuid.New(),
			ClanID:     clanID,
			UserID:     userID,
			EntityType: domain.EntityTypeChestEntry,
			EntityID:   &entryID,
			Action:     domain.AuditActionDelete,
			Changes: map[string]any{
				"player":         entry.Player,
				"chest":          entry.Chest,
				"collected_date": entry.CollectedDate.Format("2006-01-02"),
			},
			CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}
		return nil
	})
}

// entryChanges builds the audit changes map from a before/after pair,
// recording only the fields that actually changed.
func entryChanges(before, after *domain.ChestEntry) map[string]any {
	changes := map[string]any{}

	if before.Player != after.Player {
		changes["player"] = map[string]any{"old": before.Player, "new": after.Player}
	}
	if before.Source != after.Source {
		changes["source"] = map[string]any{"old": before.Source, "new": after.Source}
	}
	if before.Chest != after.Chest {
		changes["chest"] = map[string]any{"old": before.Chest, "new": after.Chest}
	}
	if !before.CollectedDate.Equal(after.CollectedDate) {
		changes["collected_date"] = map[string]any{
			"old": before.CollectedDate.Format("2006-01-02"),
			"new": after.CollectedDate.Format("2006-01-02"),
		}
	}
	if !intPtrEq(before.MinLevel, after.MinLevel) {
		changes["min_level"] = map[string]any{"old": before.MinLevel, "new": after.MinLevel}
	}
	if !intPtrEq(before.MaxLevel, after.MaxLevel) {
		changes["max_level"] = map[string]any{"old": before.MaxLevel, "new": after.MaxLevel}
	}
	if !intPtrEq(before.Score, after.Score) {
		changes["score"] = map[string]any{"old": before.Score, "new": after.Score}
	}

	return changes
}
