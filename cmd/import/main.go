// Command import bulk-loads one raw chest log file for a clan: it builds a
// preview with the clan's current rules, prints a summary, and commits the
// parsed rows. Rows that fail to parse are skipped and reported; the commit
// itself is all-or-nothing.
//
// Flags:
//
//	--clan               clan id (required)
//	--user               acting user id (required)
//	--file               path to the raw log file (required)
//	--format             input format: tabular or freeform (default tabular)
//	--allow-unscored     commit rows no scoring rule matched
//	--accept-violations  commit rows that violate validation rules
//	--dry-run            preview only, never commit
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ravenhall/clanchest-backend/internal/adapter/postgres"
	"github.com/ravenhall/clanchest-backend/internal/adapter/postgres/audit"
	"github.com/ravenhall/clanchest-backend/internal/adapter/postgres/chestentry"
	"github.com/ravenhall/clanchest-backend/internal/adapter/postgres/rule"
	"github.com/ravenhall/clanchest-backend/internal/app"
	"github.com/ravenhall/clanchest-backend/internal/config"
	"github.com/ravenhall/clanchest-backend/internal/domain"
	"github.com/ravenhall/clanchest-backend/internal/service/chestdata"
	"github.com/ravenhall/clanchest-backend/pkg/ctxutil"
)

func main() {
	clanFlag := flag.String("clan", "", "clan id")
	userFlag := flag.String("user", "", "acting user id")
	fileFlag := flag.String("file", "", "path to the raw log file")
	formatFlag := flag.String("format", "tabular", "input format: tabular or freeform")
	allowUnscored := flag.Bool("allow-unscored", false, "commit rows no scoring rule matched")
	acceptViolations := flag.Bool("accept-violations", false, "commit rows that violate validation rules")
	dryRun := flag.Bool("dry-run", false, "preview only, never commit")
	flag.Parse()

	clanID, err := uuid.Parse(*clanFlag)
	if err != nil {
		log.Fatalf("--clan: %v", err)
	}
	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		log.Fatalf("--user: %v", err)
	}

	format := domain.ImportFormat(strings.ToUpper(*formatFlag))
	if !format.IsValid() {
		log.Fatalf("--format: unknown format %q", *formatFlag)
	}

	raw, err := os.ReadFile(*fileFlag)
	if err != nil {
		log.Fatalf("--file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = ctxutil.WithUserID(ctx, userID)

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

	preview, err := svc.BuildPreview(ctx, chestdata.PreviewInput{
		ClanID: clanID,
		Format: format,
		Raw:    string(raw),
	})
	if err != nil {
		logger.Error("preview failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, row := range preview.Rows {
		if row.ParseError != "" {
			fmt.Fprintf(os.Stderr, "line %d: %s\n", row.Line, row.ParseError)
		}
	}

	logger.Info("preview built",
		slog.Int("parsed", preview.ParsedCount),
		slog.Int("errors", preview.ErrorCount),
		slog.Int("violations", preview.ViolationCount),
		slog.Int("unscored", preview.UnscoredCount),
	)

	if *dryRun {
		return
	}
	if preview.ParsedCount == 0 {
		logger.Error("nothing to commit")
		os.Exit(1)
	}

	rows := make([]chestdata.CommitRow, 0, preview.ParsedCount)
	for _, row := range preview.Rows {
		if row.Corrected == nil {
			continue
		}
		rows = append(rows, chestdata.CommitRow{Line: row.Line, Record: *row.Corrected})
	}

	result, err := svc.Commit(ctx, chestdata.CommitInput{
		ClanID:           clanID,
		Format:           format,
		Rows:             rows,
		AllowUnscored:    *allowUnscored,
		AcceptViolations: *acceptViolations,
	})
	if err != nil {
		logger.Error("commit failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import committed",
		slog.String("clan_id", clanID.String()),
		slog.Int("rows", len(result.InsertedIDs)),
		slog.String("audit_id", result.AuditLogID.String()),
	)
}
