package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"reportsapi/internal/config"
	"reportsapi/internal/db"
	"reportsapi/internal/domain"
	"reportsapi/internal/excel"
	"reportsapi/internal/logger"
	"reportsapi/internal/repository"

	"go.uber.org/zap"
)

type options struct {
	path   string
	dryRun bool
}

func main() {
	opts := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logg := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logg.Sync() }()

	rows, err := readReportRows(opts.path)
	if err != nil {
		logg.Fatal("read report file", zap.String("path", opts.path), zap.Error(err))
	}
	logg.Info("parsed report rows", zap.String("path", opts.path), zap.Int("rows", len(rows)))
	if opts.dryRun {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logg.Fatal("database error", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, logg); err != nil {
		logg.Fatal("migration error", zap.Error(err))
	}

	inserted, err := repository.New(pool).InsertReports(ctx, rows)
	if err != nil {
		logg.Fatal("import reports", zap.Error(err))
	}
	logg.Info("import complete", zap.Int("inserted", inserted))
}

func parseFlags() options {
	var opts options
	flag.StringVar(
		&opts.path,
		"file",
		"reports.xlsx",
		"path to the reports .xlsx or .csv file",
	)
	flag.BoolVar(
		&opts.dryRun,
		"dry-run",
		false,
		"parse and validate the file without writing to the database",
	)
	flag.Parse()
	return opts
}

func readReportRows(path string) ([]domain.ReportImportRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	rows, err := excel.ParseReportRows(path, file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}
