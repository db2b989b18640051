// Package pipeline orchestrates the analysis run: load, clean, persist,
// aggregate, validate, report. Execution is synchronous and single-shot; a
// run either completes or fails with an error naming the stage.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spillsight/ct-spill-analysis/internal/aggregate"
	"github.com/spillsight/ct-spill-analysis/internal/domain"
	"github.com/spillsight/ct-spill-analysis/internal/observability"
	"github.com/spillsight/ct-spill-analysis/internal/validate"
)

// Stage names used in error reporting and metrics.
const (
	StageLoad      = "load"
	StageClean     = "clean"
	StagePersist   = "persist"
	StageAggregate = "aggregate"
	StageValidate  = "validate"
	StageReport    = "report"
)

// StageError wraps a fatal error with the pipeline stage it occurred in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

// Loader produces the raw record sequence.
type Loader interface {
	Load(ctx context.Context) ([]domain.RawIncidentRecord, error)
}

// Cleaner derives the cleaned dataset and quality metrics.
type Cleaner interface {
	Clean(ctx context.Context, raws []domain.RawIncidentRecord) ([]domain.Incident, domain.QualityMetrics, error)
}

// Persister stores the cleaned dataset as an intermediate artifact.
type Persister interface {
	SaveCleaned(ctx context.Context, runID string, incidents []domain.Incident) error
}

// Reporter renders the run outcome as charts and reports.
type Reporter interface {
	Write(ctx context.Context, out *Outcome) error
}

// Outcome carries everything a run derives. All fields are immutable once
// the run returns; the reporter only reads them.
type Outcome struct {
	RunID   string
	Quality domain.QualityMetrics

	Towns       aggregate.Result
	Hours       aggregate.Result
	Substances  aggregate.Result
	Causes      aggregate.Result
	Years       aggregate.Result
	TimePeriods aggregate.Result

	AfternoonShare float64

	Validation validate.Result
}

// Pipeline wires the stages together.
type Pipeline struct {
	loader    Loader
	cleaner   Cleaner
	persister Persister // nil disables persistence
	reporter  Reporter
	findings  validate.ExpectedFindings
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. persister may be nil to skip the intermediate
// artifact; everything else is required.
func New(l Loader, c Cleaner, p Persister, r Reporter, findings validate.ExpectedFindings, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		loader:    l,
		cleaner:   c,
		persister: p,
		reporter:  r,
		findings:  findings,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes the full pipeline once.
//
// The returned Outcome is non-nil whenever cleaning succeeded, so quality
// metrics and reports survive validation failures. The error is nil when all
// claims passed, ErrValidationFailed when at least one claim failed,
// ErrInsufficientData when validation failed closed, and a fatal StageError
// otherwise.
func (p *Pipeline) Run(ctx context.Context, runID string) (*Outcome, error) {
	p.logger.Info("pipeline started", "run_id", runID)

	raws, err := p.timed(StageLoad, func() ([]domain.RawIncidentRecord, error) {
		return p.loader.Load(ctx)
	})
	if err != nil {
		return nil, &StageError{Stage: StageLoad, Err: err}
	}

	cleaned, quality, err := p.clean(ctx, raws)
	if err != nil {
		return nil, &StageError{Stage: StageClean, Err: err}
	}

	if p.persister != nil {
		start := time.Now()
		if err := p.persister.SaveCleaned(ctx, runID, cleaned); err != nil {
			// The cleaned-dataset artifact is optional; losing it does not
			// invalidate the analysis.
			p.logger.Warn("persisting cleaned dataset failed", "error", err)
		} else {
			p.metrics.StageDuration.WithLabelValues(StagePersist).Observe(time.Since(start).Seconds())
			p.logger.Info("cleaned dataset persisted", "records", len(cleaned))
		}
	}

	out := p.aggregateAll(cleaned)
	out.RunID = runID
	out.Quality = quality

	start := time.Now()
	out.Validation = validate.Run(out.Towns, out.Substances, out.Causes, p.findings)
	p.metrics.StageDuration.WithLabelValues(StageValidate).Observe(time.Since(start).Seconds())
	for _, c := range out.Validation.Claims {
		p.metrics.ClaimResults.WithLabelValues(string(c.Status)).Inc()
		p.logger.Info("claim checked", "claim", c.Claim, "status", c.Status, "expected", c.Expected, "observed", c.Observed)
	}

	if p.reporter != nil {
		start := time.Now()
		if err := p.reporter.Write(ctx, out); err != nil {
			return out, &StageError{Stage: StageReport, Err: err}
		}
		p.metrics.StageDuration.WithLabelValues(StageReport).Observe(time.Since(start).Seconds())
	}

	switch {
	case out.Validation.Insufficient():
		return out, &StageError{Stage: StageValidate, Err: fmt.Errorf("%w: %d cleaned records below threshold %d",
			domain.ErrInsufficientData, quality.CleanedRecords, p.findings.MinRecords)}
	case !out.Validation.AllPassed():
		return out, domain.ErrValidationFailed
	default:
		p.logger.Info("pipeline complete, all claims passed", "run_id", runID)
		return out, nil
	}
}

func (p *Pipeline) timed(stage string, fn func() ([]domain.RawIncidentRecord, error)) ([]domain.RawIncidentRecord, error) {
	start := time.Now()
	out, err := fn()
	if err == nil {
		p.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
	return out, err
}

func (p *Pipeline) clean(ctx context.Context, raws []domain.RawIncidentRecord) ([]domain.Incident, domain.QualityMetrics, error) {
	start := time.Now()
	cleaned, quality, err := p.cleaner.Clean(ctx, raws)
	if err != nil {
		// Quality metrics are still worth logging when cleaning fails.
		if errors.Is(err, domain.ErrInsufficientData) {
			p.logger.Error("cleaning left no usable records",
				"raw", quality.RawRecords,
				"bad_dates", quality.UnparseableDates,
				"outside_window", quality.OutsideStudyWindow,
				"unknown_towns", quality.UnrecognizedTowns,
			)
		}
		return nil, quality, err
	}
	p.metrics.StageDuration.WithLabelValues(StageClean).Observe(time.Since(start).Seconds())
	return cleaned, quality, nil
}

func (p *Pipeline) aggregateAll(cleaned []domain.Incident) *Outcome {
	start := time.Now()
	out := &Outcome{
		Towns:       aggregate.Count(cleaned, aggregate.DimTown, aggregate.ByTown),
		Hours:       aggregate.Count(cleaned, aggregate.DimHour, aggregate.ByHour),
		Substances:  aggregate.Count(cleaned, aggregate.DimSubstance, aggregate.BySubstance),
		Causes:      aggregate.Count(cleaned, aggregate.DimCause, aggregate.ByCause),
		Years:       aggregate.Count(cleaned, aggregate.DimYear, aggregate.ByYear),
		TimePeriods: aggregate.Count(cleaned, aggregate.DimTimePeriod, aggregate.ByPeriod),
	}
	out.AfternoonShare = aggregate.AfternoonShare(out.Hours)
	p.metrics.StageDuration.WithLabelValues(StageAggregate).Observe(time.Since(start).Seconds())
	return out
}
