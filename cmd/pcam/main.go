package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/pcam/internal/catalog"
	"github.com/alexanderramin/pcam/internal/cli"
	"github.com/alexanderramin/pcam/internal/cli/formatter"
	"github.com/alexanderramin/pcam/internal/config"
	"github.com/alexanderramin/pcam/internal/db"
	"github.com/alexanderramin/pcam/internal/repository"
	"github.com/alexanderramin/pcam/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig().Resolve()
	if err != nil {
		return err
	}

	cat, err := catalog.Resolve(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogUseCases {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	// Wire repositories
	uow := db.NewSQLiteUnitOfWork(database)
	store := repository.NewSQLiteKVStore(database, uow, cfg.Namespace, repository.WithQuota(cfg.QuotaBytes))
	results := repository.NewSQLiteResultRepo(database)

	// Wire services
	pillars := service.NewPillarService(store, logger)
	assessment := service.NewAssessmentService(cat, store, results, pillars,
		service.WithDebounce(cfg.Debounce),
		service.WithMaxAutoSaves(cfg.MaxAutosaves),
		service.WithLogger(logger),
		service.WithUseCaseObserver(observer),
	)
	defer func() {
		// Pending answers are written even when the command failed.
		if closeErr := assessment.Close(context.Background()); closeErr != nil {
			fmt.Fprintln(os.Stderr, formatter.Warning(closeErr.Error()))
		}
	}()

	report, err := assessment.Load(ctx)
	if err != nil {
		return err
	}
	if report.Discarded {
		fmt.Fprintln(os.Stderr, formatter.Warning("stored assessment could not be read for catalog "+cat.Name+"; starting fresh"))
	}

	app := &cli.App{
		Assessment:  assessment,
		Pillars:     pillars,
		History:     service.NewHistoryService(results),
		Backup:      service.NewBackupService(store, observer),
		Interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}

	rootCmd := cli.NewRootCmd(app)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}
	return nil
}
