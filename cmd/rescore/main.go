// Command rescore re-runs the scoring stage over one clan's committed
// entries with the current enabled scoring rules. It is intended to be
// invoked by an external cron job or an operator after a rule change.
//
// Flags:
//
//	--clan  clan id (required)
//	--user  acting user id, recorded in updated_by and the audit log (required)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ravenhall/clanchest-backend/internal/adapter/postgres"
	"github.com/ravenhall/clanchest-backend/internal/adapter/postgres/audit"
	"github.com/ravenhall/clanchest-backend/internal/adapter/postgres/chestentry"
	"github.com/ravenhall/clanchest-backend/internal/adapter/postgres/rule"
	"github.com/ravenhall/clanchest-backend/internal/app"
	"github.com/ravenhall/clanchest-backend/internal/config"
	"github.com/ravenhall/clanchest-backend/internal/service/chestdata"
	"github.com/ravenhall/clanchest-backend/pkg/ctxutil"
)

func main() {
	clanFlag := flag.String("clan", "", "clan id")
	userFlag := flag.String("user", "", "acting user id")
	flag.Parse()

	clanID, err := uuid.Parse(*clanFlag)
	if err != nil {
		log.Fatalf("--clan: %v", err)
	}
	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		log.Fatalf("--user: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := chestdata.NewService(
		logger,
		chestentry.New(pool),
		rule.New(pool),
		audit.New(pool),
		postgres.NewTxManager(pool),
		cfg.Import,
	)

	result, err := svc.Rescore(ctxutil.WithUserID(ctx, userID), clanID)
	if err != nil {
		logger.Error("rescore failed",
			slog.String("error", err.Error()),
			slog.String("clan_id", clanID.String()),
		)
		os.Exit(1)
	}

	logger.Info("rescore completed",
		slog.String("clan_id", clanID.String()),
		slog.Int("updated", result.UpdatedCount),
	)
}
