package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/bosk-dev/work-hours/backend/internal/config"
	"github.com/bosk-dev/work-hours/backend/internal/domain"
	"github.com/bosk-dev/work-hours/backend/internal/repository"
	"github.com/bosk-dev/work-hours/backend/internal/seed"
	"github.com/bosk-dev/work-hours/backend/internal/utils"
	"github.com/bosk-dev/work-hours/backend/internal/workhours"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op string
	var n int
	var file string

	flag.StringVar(&op, "op", "", "operation to run (migrate: apply migrations, random: insert random forms, import: import a legacy CSV export)")
	flag.IntVar(&n, "n", 0, "number of random forms, defaults to SEED_FORMS")
	flag.StringVar(&file, "file", "", "CSV file for -op import")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)
	normalizer := workhours.NewNormalizer(logger)

	switch op {
	case "":
		logger.Error("no operation given, see -help")
	case "migrate":
		if err := repository.RunMigrations(dbpool); err != nil {
			logger.Error("failed to run migrations", "error", err)
		}
	case "random":
		if n <= 0 {
			n = cfg.Seed.Forms
		}

		cnt := 0
		for i := 0; i < n; i++ {
			rec := normalizer.Form(utils.GenerateRandomFormInput())
			if err := utils.ValidateFormRecord(rec); err != nil {
				logger.Error("generated an invalid form", "error", err)
				continue
			}

			if err := repo.CreateForm(context.Background(), rec); err != nil {
				logger.Error("failed to insert form", "error", err)
				continue
			}

			if status := utils.GenerateRandomStatus(); status != domain.StatusPending {
				rec.Status = status
				if err := repo.UpdateFormStatus(context.Background(), rec); err != nil {
					logger.Error("failed to update form status", "formId", rec.ID, "error", err)
				}
			}

			cnt++
		}

		logger.Info("inserted random forms", "count", cnt)
	case "import":
		if file == "" {
			logger.Error("-file is required for -op import")
			return
		}

		f, err := os.Open(file)
		if err != nil {
			logger.Error("failed to open file", "file", file, "error", err)
			return
		}
		defer f.Close()

		report, err := seed.ImportLegacyCSV(context.Background(), f, normalizer, repo)
		if err != nil {
			logger.Error("import failed", "rows", report.Rows, "imported", report.Imported, "error", err)
			return
		}
		logger.Info("import finished", "rows", report.Rows, "imported", report.Imported, "skipped", report.Skipped)
	default:
		logger.Error("unknown operation", "op", op)
	}
}
