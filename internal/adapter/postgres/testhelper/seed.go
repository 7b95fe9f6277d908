package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ravenhall/clanchest-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedClan inserts a clan row and returns its id.
func SeedClan(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO clans (id, name) VALUES ($1, $2)`,
		id, "clan-"+uniqueSuffix(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedClan: %v", err)
	}
	return id
}

// SeedUser inserts a user row and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, username) VALUES ($1, $2)`,
		id, "user-"+uniqueSuffix(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}
	return id
}

// SeedChestEntry inserts a chest entry with sensible defaults and returns it.
func SeedChestEntry(t *testing.T, pool *pgxpool.Pool, clanID, userID uuid.UUID) domain.ChestEntry {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	minLevel := 25
	entry := domain.ChestEntry{
		ID:            uuid.New(),
		ClanID:        clanID,
		Player:        "player-" + uniqueSuffix(),
		Source:        "Level 25 Crypt",
		MinLevel:      &minLevel,
		Chest:         "Wooden Chest",
		CollectedDate: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		CreatedBy:     userID,
		UpdatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO chest_entries
		   (id, clan_id, player, source, min_level, max_level, chest, collected_date, score, created_by, updated_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		entry.ID, entry.ClanID, entry.Player, entry.Source, entry.MinLevel, entry.MaxLevel,
		entry.Chest, entry.CollectedDate, entry.Score, entry.CreatedBy, entry.UpdatedBy,
		entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedChestEntry: %v", err)
	}
	return entry
}
