package report

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spillsight/ct-spill-analysis/internal/aggregate"
)

// Fixed chart filenames, one per research question.
const (
	ChartTopTowns   = "research_q1_top_towns.png"
	ChartHourly     = "research_q2_hourly.png"
	ChartSubstances = "research_q3_substances.png"
	ChartCauses     = "research_q4_causes.png"
)

var barBlue = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

// writeCharts renders the four research-dimension charts into dir.
func writeCharts(dir string, towns, hours, substances, causes aggregate.Result) error {
	charts := []struct {
		file    string
		title   string
		xLabel  string
		buckets []aggregate.Bucket
		rotate  bool
	}{
		{ChartTopTowns, "Top 10 Towns by Spill Incidents (2019-2022)", "Town", towns.Top(10), true},
		{ChartHourly, "Spill Incidents by Hour of Day (2019-2022)", "Hour", hourBuckets(hours), false},
		{ChartSubstances, "Spill Incidents by Substance Category (2019-2022)", "Substance", substances.Buckets, true},
		{ChartCauses, "Spill Incidents by Cause Category (2019-2022)", "Cause", causes.Buckets, true},
	}

	for _, c := range charts {
		path := filepath.Join(dir, c.file)
		if err := barChart(path, c.title, c.xLabel, c.buckets, c.rotate); err != nil {
			return fmt.Errorf("render %s: %w", c.file, err)
		}
	}
	return nil
}

// hourBuckets reorders the hour dimension chronologically (00..23, then
// Unknown) since rank order makes a poor time axis.
func hourBuckets(hours aggregate.Result) []aggregate.Bucket {
	out := make([]aggregate.Bucket, len(hours.Buckets))
	copy(out, hours.Buckets)
	sort.Slice(out, func(i, j int) bool {
		// "Unknown" sorts after the two-digit hours.
		return out[i].Key < out[j].Key
	})
	return out
}

func barChart(path, title, xLabel string, buckets []aggregate.Bucket, rotateLabels bool) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Incidents"

	values := make(plotter.Values, len(buckets))
	labels := make([]string, len(buckets))
	for i, b := range buckets {
		values[i] = float64(b.Count)
		labels[i] = b.Key
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = 0
	bars.Color = barBlue

	p.Add(bars)
	p.NominalX(labels...)
	if rotateLabels {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}
