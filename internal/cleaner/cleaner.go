// Package cleaner derives the cleaned dataset from the raw extract: type
// coercion, first-seen deduplication, study-window and town-scope filtering,
// and category normalization. Every exclusion is counted, never silent.
package cleaner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spillsight/ct-spill-analysis/internal/domain"
	"github.com/spillsight/ct-spill-analysis/internal/observability"
)

// Cleaner holds the scope configuration and lookup tables for one run.
type Cleaner struct {
	window     domain.StudyWindow
	towns      *domain.TownRegistry
	substances domain.CategoryTable
	causes     domain.CategoryTable
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Cleaner for the given study window.
func New(window domain.StudyWindow, logger *slog.Logger, metrics *observability.Metrics) *Cleaner {
	return &Cleaner{
		window:     window,
		towns:      domain.NewTownRegistry(),
		substances: domain.SubstanceTable(),
		causes:     domain.CauseTable(),
		logger:     logger,
		metrics:    metrics,
	}
}

// Clean produces the cleaned dataset and its quality metrics.
//
// Deduplication is first-seen-wins on case number, which makes cleaning
// idempotent: cleaning already-cleaned data removes nothing further. Records
// are dropped for exactly one reason each, checked in order: unparseable
// date, duplicate case number, outside study window, unrecognized town.
// Returns ErrInsufficientData when nothing survives.
func (c *Cleaner) Clean(ctx context.Context, raws []domain.RawIncidentRecord) ([]domain.Incident, domain.QualityMetrics, error) {
	q := domain.QualityMetrics{RawRecords: len(raws)}
	c.metrics.RecordsLoaded.Add(float64(len(raws)))

	seen := make(map[string]struct{}, len(raws))
	cleaned := make([]domain.Incident, 0, len(raws))

	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, q, err
		}

		occurredAt, hasHour, err := domain.ParseReleaseDateTime(raw.ReleaseDateTime)
		if err != nil {
			q.UnparseableDates++
			c.metrics.RecordsDropped.WithLabelValues(observability.DropBadDate).Inc()
			c.logger.Debug("dropping record: bad release datetime", "line", raw.Line, "case", raw.CaseNumber)
			continue
		}

		if _, dup := seen[raw.CaseNumber]; dup {
			q.DuplicateCaseNumbers++
			c.metrics.RecordsDropped.WithLabelValues(observability.DropDuplicate).Inc()
			continue
		}
		seen[raw.CaseNumber] = struct{}{}

		if !c.window.Contains(occurredAt) {
			q.OutsideStudyWindow++
			c.metrics.RecordsDropped.WithLabelValues(observability.DropOutsideWindow).Inc()
			continue
		}

		town := domain.NormalizeTown(raw.Town)
		if !c.towns.Recognized(town) {
			q.UnrecognizedTowns++
			c.metrics.RecordsDropped.WithLabelValues(observability.DropUnknownTown).Inc()
			c.logger.Debug("dropping record: unrecognized town", "line", raw.Line, "town", raw.Town)
			continue
		}

		substance := c.substances.Categorize(raw.Substance)
		if substance == domain.SubstanceOther || substance == domain.SubstanceUnknown {
			q.SubstanceOther++
			c.metrics.CategoryFallbacks.WithLabelValues("substance").Inc()
		}
		cause := c.causes.Categorize(raw.Cause)
		if cause == domain.CauseOther || cause == domain.CauseUnknown {
			q.CauseOther++
			c.metrics.CategoryFallbacks.WithLabelValues("cause").Inc()
		}
		if !hasHour {
			q.MissingHour++
		}

		cleaned = append(cleaned, domain.NewIncident(raw.CaseNumber, town, occurredAt, hasHour, substance, cause))
	}

	q.CleanedRecords = len(cleaned)
	c.metrics.RecordsCleaned.Set(float64(len(cleaned)))
	c.logger.Info("dataset cleaned",
		"raw", q.RawRecords,
		"cleaned", q.CleanedRecords,
		"duplicates", q.DuplicateCaseNumbers,
		"bad_dates", q.UnparseableDates,
		"outside_window", q.OutsideStudyWindow,
		"unknown_towns", q.UnrecognizedTowns,
	)

	if len(cleaned) == 0 {
		return nil, q, fmt.Errorf("%w: no records remain after cleaning", domain.ErrInsufficientData)
	}
	return cleaned, q, nil
}
