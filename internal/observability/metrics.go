package observability

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Drop-reason label values for RecordsDropped.
const (
	DropDuplicate     = "duplicate_case_number"
	DropBadDate       = "unparseable_date"
	DropOutsideWindow = "outside_study_window"
	DropUnknownTown   = "unrecognized_town"
)

// Metrics holds the Prometheus collectors for one analysis run. The run is a
// batch job with no scrape endpoint, so each run uses its own registry and
// dumps a textfile artifact at the end (node-exporter textfile format).
type Metrics struct {
	registry *prometheus.Registry

	RecordsLoaded  prometheus.Counter
	RecordsDropped *prometheus.CounterVec // label: reason
	RecordsCleaned prometheus.Gauge

	CategoryFallbacks *prometheus.CounterVec // label: field={substance,cause}
	ClaimResults      *prometheus.CounterVec // label: status={pass,fail,insufficient_data}

	StageDuration *prometheus.HistogramVec // label: stage
}

// NewMetrics creates and registers all run metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spill_analysis",
			Name:      "records_loaded_total",
			Help:      "Raw records read from the source extract.",
		}),
		RecordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spill_analysis",
			Name:      "records_dropped_total",
			Help:      "Records excluded during cleaning, by reason.",
		}, []string{"reason"}),
		RecordsCleaned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spill_analysis",
			Name:      "records_cleaned",
			Help:      "Records in the cleaned dataset.",
		}),
		CategoryFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spill_analysis",
			Name:      "category_fallbacks_total",
			Help:      "Free-text values that matched no category keyword and were bucketed.",
		}, []string{"field"}),
		ClaimResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spill_analysis",
			Name:      "claim_results_total",
			Help:      "Validation claim outcomes, by status.",
		}, []string{"status"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "spill_analysis",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage"}),
	}

	m.registry.MustRegister(
		m.RecordsLoaded,
		m.RecordsDropped,
		m.RecordsCleaned,
		m.CategoryFallbacks,
		m.ClaimResults,
		m.StageDuration,
	)
	return m
}

// WriteTextfile dumps all collectors to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
