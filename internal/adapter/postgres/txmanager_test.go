package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ravenhall/clanchest-backend/internal/adapter/postgres"
	"github.com/ravenhall/clanchest-backend/internal/adapter/postgres/testhelper"
)

// clanExists checks whether a clan row with the given ID exists.
func clanExists(t *testing.T, pool *pgxpool.Pool, clanID uuid.UUID) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(
		context.Background(),
		`SELECT EXISTS(SELECT 1 FROM clans WHERE id = $1)`,
		clanID,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("clanExists query: %v", err)
	}
	return exists
}

func insertClan(ctx context.Context, pool *pgxpool.Pool, clanID uuid.UUID, name string) error {
	q := postgres.QuerierFromCtx(ctx, pool)
	_, err := q.Exec(ctx, `INSERT INTO clans (id, name) VALUES ($1, $2)`, clanID, name)
	return err
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	clanID := uuid.New()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return insertClan(ctx, pool, clanID, "commit-test-"+clanID.String()[:8])
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !clanExists(t, pool, clanID) {
		t.Fatal("expected clan to exist after committed transaction")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	clanID := uuid.New()
	sentinel := errors.New("business logic error")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertClan(ctx, pool, clanID, "rollback-test-"+clanID.String()[:8]); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}

	if clanExists(t, pool, clanID) {
		t.Fatal("expected clan NOT to exist after rolled-back transaction")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	clanID := uuid.New()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic to be re-raised")
		}
		if r != "test panic" {
			t.Fatalf("expected panic value %q, got %v", "test panic", r)
		}

		if clanExists(t, pool, clanID) {
			t.Fatal("expected clan NOT to exist after panic-rolled-back transaction")
		}
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertClan(ctx, pool, clanID, "panic-test-"+clanID.String()[:8]); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		panic("test panic")
	})
}

func TestRunInTx_QuerierFromCtx_UsesTx(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	clanID := uuid.New()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertClan(ctx, pool, clanID, "ctx-test-"+clanID.String()[:8]); err != nil {
			return err
		}

		// Visible within the transaction.
		q := postgres.QuerierFromCtx(ctx, pool)
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM clans WHERE id = $1)`, clanID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			t.Error("row should be visible inside the transaction")
		}

		// Not yet visible outside (pool bypasses the tx).
		if err := pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM clans WHERE id = $1)`, clanID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			t.Error("row should not be visible outside the transaction before commit")
		}

		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !clanExists(t, pool, clanID) {
		t.Fatal("expected clan to exist after commit")
	}
}
