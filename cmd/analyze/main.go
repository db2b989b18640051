// Command analyze runs the Connecticut spill-incident analysis pipeline over
// a CT DEEP raw extract: load, clean, persist, aggregate, validate, report.
//
// Exit codes: 0 when every expected-finding claim passes, 1 when validation
// fails (including the fail-closed insufficient-data case), 2 when the
// pipeline itself fails.
//
// Usage:
//
//	go run ./cmd/analyze \
//	  -input data/raw/spill_incidents.csv \
//	  -output reports \
//	  -db data/cleaned/incidents.db
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"

	"github.com/spillsight/ct-spill-analysis/internal/cleaner"
	"github.com/spillsight/ct-spill-analysis/internal/config"
	"github.com/spillsight/ct-spill-analysis/internal/domain"
	"github.com/spillsight/ct-spill-analysis/internal/loader"
	"github.com/spillsight/ct-spill-analysis/internal/observability"
	"github.com/spillsight/ct-spill-analysis/internal/pipeline"
	"github.com/spillsight/ct-spill-analysis/internal/report"
	"github.com/spillsight/ct-spill-analysis/internal/store"
	"github.com/spillsight/ct-spill-analysis/internal/validate"
)

const metricsFile = "quality_metrics.prom"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 2
	}

	input := flag.String("input", "", "raw extract CSV path (overrides SPILL_INPUT_PATH)")
	output := flag.String("output", "", "output directory (overrides SPILL_OUTPUT_DIR)")
	db := flag.String("db", "", "cleaned-dataset SQLite path (overrides SPILL_CLEANED_DB_PATH)")
	flag.Parse()
	if *input != "" {
		cfg.InputPath = *input
	}
	if *output != "" {
		cfg.OutputDir = *output
	}
	if *db != "" {
		cfg.CleanedDBPath = *db
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var persister pipeline.Persister
	if cfg.CleanedDBPath != "" {
		s, err := store.Open(cfg.CleanedDBPath)
		if err != nil {
			logger.Error("failed to open cleaned-dataset store", "path", cfg.CleanedDBPath, "error", err)
			return 2
		}
		defer s.Close()
		persister = s
	}

	p := pipeline.New(
		loader.NewCSVLoader(cfg.InputPath, logger),
		cleaner.New(domain.NewStudyWindow(cfg.StartYear, cfg.EndYear), logger, metrics),
		persister,
		report.NewFileReporter(cfg.OutputDir, logger),
		findings(cfg),
		logger,
		metrics,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	_, err = p.Run(ctx, runID)

	// The textfile is written even on failed runs so drop counters survive.
	path := filepath.Join(cfg.OutputDir, metricsFile)
	if werr := metrics.WriteTextfile(path); werr != nil {
		logger.Warn("failed to write metrics textfile", "path", path, "error", werr)
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrValidationFailed), errors.Is(err, domain.ErrInsufficientData):
		logger.Error("validation failed", "run_id", runID, "error", err)
		return 1
	default:
		logger.Error("pipeline failed", "run_id", runID, "error", err)
		return 2
	}
}

func findings(cfg *config.Config) validate.ExpectedFindings {
	return validate.ExpectedFindings{
		TopTowns:             cfg.ExpectedTopTowns,
		TopTownsWindow:       cfg.TopTownsWindow,
		DominantSubstance:    cfg.ExpectedSubstance,
		DominantSubstancePct: cfg.ExpectedSubstancePct,
		DominantCause:        cfg.ExpectedCause,
		DominantCausePct:     cfg.ExpectedCausePct,
		MinTownCoverage:      cfg.ExpectedTownCoverage,
		PercentTolerance:     cfg.PercentTolerance,
		MinRecords:           cfg.MinRecords,
	}
}
