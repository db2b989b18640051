package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spillsight/ct-spill-analysis/internal/domain"
	"github.com/spillsight/ct-spill-analysis/internal/observability"
	"github.com/spillsight/ct-spill-analysis/internal/pipeline"
	"github.com/spillsight/ct-spill-analysis/internal/validate"
)

// --- mocks ---

type mockLoader struct {
	records []domain.RawIncidentRecord
	err     error
}

func (m *mockLoader) Load(_ context.Context) ([]domain.RawIncidentRecord, error) {
	return m.records, m.err
}

type mockCleaner struct {
	incidents []domain.Incident
	quality   domain.QualityMetrics
	err       error
}

func (m *mockCleaner) Clean(_ context.Context, raws []domain.RawIncidentRecord) ([]domain.Incident, domain.QualityMetrics, error) {
	return m.incidents, m.quality, m.err
}

type mockPersister struct {
	saved int
	err   error
}

func (m *mockPersister) SaveCleaned(_ context.Context, _ string, incidents []domain.Incident) error {
	if m.err != nil {
		return m.err
	}
	m.saved = len(incidents)
	return nil
}

type mockReporter struct {
	outcome *pipeline.Outcome
	err     error
}

func (m *mockReporter) Write(_ context.Context, out *pipeline.Outcome) error {
	if m.err != nil {
		return m.err
	}
	m.outcome = out
	return nil
}

// --- helpers ---

func incidents(n int, town string) []domain.Incident {
	occurred := time.Date(2021, time.May, 10, 14, 0, 0, 0, time.UTC)
	out := make([]domain.Incident, n)
	for i := range out {
		out[i] = domain.NewIncident("case", town, occurred, true, domain.SubstancePetroleum, domain.CauseMotorVehicle)
	}
	return out
}

func findings() validate.ExpectedFindings {
	return validate.ExpectedFindings{
		TopTowns:             []string{"GROTON"},
		TopTownsWindow:       5,
		DominantSubstance:    domain.SubstancePetroleum,
		DominantSubstancePct: 100.0,
		DominantCause:        domain.CauseMotorVehicle,
		DominantCausePct:     100.0,
		MinTownCoverage:      1,
		PercentTolerance:     1.0,
		MinRecords:           5,
	}
}

func newPipeline(l *mockLoader, c *mockCleaner, p *mockPersister, r *mockReporter, f validate.ExpectedFindings) *pipeline.Pipeline {
	var persister pipeline.Persister
	if p != nil {
		persister = p
	}
	var reporter pipeline.Reporter
	if r != nil {
		reporter = r
	}
	return pipeline.New(l, c, persister, reporter, f, slog.Default(), observability.NewMetrics())
}

// --- tests ---

func TestRun_HappyPath(t *testing.T) {
	ldr := &mockLoader{records: make([]domain.RawIncidentRecord, 10)}
	cln := &mockCleaner{incidents: incidents(10, "GROTON"), quality: domain.QualityMetrics{RawRecords: 10, CleanedRecords: 10}}
	per := &mockPersister{}
	rep := &mockReporter{}

	out, err := newPipeline(ldr, cln, per, rep, findings()).Run(context.Background(), "run-1")
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, "run-1", out.RunID)
	assert.True(t, out.Validation.AllPassed())
	assert.Equal(t, 10, per.saved)
	assert.Same(t, out, rep.outcome, "reporter sees the final outcome")
	assert.Equal(t, 10, out.Towns.Total)
}

func TestRun_LoadFailure(t *testing.T) {
	ldr := &mockLoader{err: domain.ErrDataUnavailable}

	out, err := newPipeline(ldr, &mockCleaner{}, nil, nil, findings()).Run(context.Background(), "run-1")
	assert.Nil(t, out)
	require.ErrorIs(t, err, domain.ErrDataUnavailable)

	var stageErr *pipeline.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, pipeline.StageLoad, stageErr.Stage)
}

func TestRun_CleanFailure(t *testing.T) {
	ldr := &mockLoader{records: make([]domain.RawIncidentRecord, 3)}
	cln := &mockCleaner{err: domain.ErrInsufficientData, quality: domain.QualityMetrics{RawRecords: 3}}

	out, err := newPipeline(ldr, cln, nil, nil, findings()).Run(context.Background(), "run-1")
	assert.Nil(t, out)
	require.ErrorIs(t, err, domain.ErrInsufficientData)

	var stageErr *pipeline.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, pipeline.StageClean, stageErr.Stage)
}

func TestRun_ValidationFailureIsNonFatal(t *testing.T) {
	// Enfield dominates but Groton is expected: claims fail, run completes.
	ldr := &mockLoader{records: make([]domain.RawIncidentRecord, 10)}
	cln := &mockCleaner{incidents: incidents(10, "ENFIELD"), quality: domain.QualityMetrics{CleanedRecords: 10}}
	rep := &mockReporter{}

	out, err := newPipeline(ldr, cln, nil, rep, findings()).Run(context.Background(), "run-1")
	require.ErrorIs(t, err, domain.ErrValidationFailed)
	require.NotNil(t, out, "outcome survives validation failure")
	assert.NotNil(t, rep.outcome, "report written before failing status")
	assert.False(t, out.Validation.AllPassed())
}

func TestRun_InsufficientDataFailsClosed(t *testing.T) {
	ldr := &mockLoader{records: make([]domain.RawIncidentRecord, 2)}
	cln := &mockCleaner{incidents: incidents(2, "GROTON"), quality: domain.QualityMetrics{CleanedRecords: 2}}

	out, err := newPipeline(ldr, cln, nil, nil, findings()).Run(context.Background(), "run-1")
	require.ErrorIs(t, err, domain.ErrInsufficientData)
	require.NotNil(t, out)
	assert.True(t, out.Validation.Insufficient())

	var stageErr *pipeline.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, pipeline.StageValidate, stageErr.Stage)
}

func TestRun_PersistFailureIsNonFatal(t *testing.T) {
	ldr := &mockLoader{records: make([]domain.RawIncidentRecord, 10)}
	cln := &mockCleaner{incidents: incidents(10, "GROTON"), quality: domain.QualityMetrics{CleanedRecords: 10}}
	per := &mockPersister{err: errors.New("disk full")}

	_, err := newPipeline(ldr, cln, per, nil, findings()).Run(context.Background(), "run-1")
	assert.NoError(t, err, "losing the intermediate artifact does not fail the run")
}

func TestRun_ReportFailureIsFatal(t *testing.T) {
	ldr := &mockLoader{records: make([]domain.RawIncidentRecord, 10)}
	cln := &mockCleaner{incidents: incidents(10, "GROTON"), quality: domain.QualityMetrics{CleanedRecords: 10}}
	rep := &mockReporter{err: errors.New("cannot write chart")}

	out, err := newPipeline(ldr, cln, nil, rep, findings()).Run(context.Background(), "run-1")
	require.Error(t, err)
	assert.NotNil(t, out)

	var stageErr *pipeline.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, pipeline.StageReport, stageErr.Stage)
}
