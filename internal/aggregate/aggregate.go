// Package aggregate computes grouped counts and percentage shares over the
// cleaned dataset, one Result per research dimension.
package aggregate

import (
	"fmt"
	"math"
	"sort"

	"github.com/spillsight/ct-spill-analysis/internal/domain"
)

// Dimension names for the research questions.
const (
	DimTown       = "town"
	DimHour       = "hour"
	DimSubstance  = "substance"
	DimCause      = "cause"
	DimYear       = "year"
	DimTimePeriod = "time_period"
)

// HourUnknownKey is the hour-dimension bucket for incidents without a time of
// day, so per-key counts always partition the full cleaned dataset.
const HourUnknownKey = "Unknown"

// KeyFunc extracts the grouping key from an incident.
type KeyFunc func(domain.Incident) string

// Key functions for the supported dimensions.
var (
	ByTown      KeyFunc = func(i domain.Incident) string { return i.Town }
	BySubstance KeyFunc = func(i domain.Incident) string { return i.Substance }
	ByCause     KeyFunc = func(i domain.Incident) string { return i.Cause }
	ByYear      KeyFunc = func(i domain.Incident) string { return fmt.Sprintf("%d", i.Year) }
	ByPeriod    KeyFunc = func(i domain.Incident) string { return i.TimePeriod }
	ByHour      KeyFunc = func(i domain.Incident) string {
		if !i.HasHour() {
			return HourUnknownKey
		}
		return fmt.Sprintf("%02d", i.Hour)
	}
)

// Bucket is one key's count and share of the total.
type Bucket struct {
	Key     string  `json:"key"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Result is the aggregate for one dimension. Buckets are ordered by count
// descending, then key ascending, so top-N queries are stable across runs.
type Result struct {
	Dimension string   `json:"dimension"`
	Total     int      `json:"total"`
	Buckets   []Bucket `json:"buckets"`
}

// Count groups incidents by key and derives each bucket's percentage share.
func Count(incidents []domain.Incident, dimension string, key KeyFunc) Result {
	counts := make(map[string]int)
	for _, inc := range incidents {
		counts[key(inc)]++
	}

	buckets := make([]Bucket, 0, len(counts))
	for k, n := range counts {
		buckets = append(buckets, Bucket{
			Key:     k,
			Count:   n,
			Percent: RoundPercent(float64(n) / float64(len(incidents)) * 100),
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Key < buckets[j].Key
	})

	return Result{Dimension: dimension, Total: len(incidents), Buckets: buckets}
}

// Top returns the first n buckets (fewer if the dimension has fewer keys).
func (r Result) Top(n int) []Bucket {
	if n > len(r.Buckets) {
		n = len(r.Buckets)
	}
	return r.Buckets[:n]
}

// Percent returns the share for key, or 0 when the key is absent.
func (r Result) Percent(key string) float64 {
	for _, b := range r.Buckets {
		if b.Key == key {
			return b.Percent
		}
	}
	return 0
}

// Count returns the count for key, or 0 when the key is absent.
func (r Result) Count(key string) int {
	for _, b := range r.Buckets {
		if b.Key == key {
			return b.Count
		}
	}
	return 0
}

// Keys returns the number of distinct keys observed.
func (r Result) Keys() int { return len(r.Buckets) }

// RoundPercent rounds to one decimal place, half up: 63.35 reports as 63.4.
func RoundPercent(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

// AfternoonShare returns the percentage of known-hour incidents falling in
// the 15:00-18:00 peak window, the temporal statistic from the original
// research. Returns 0 when no incident has a known hour.
func AfternoonShare(hours Result) float64 {
	known, peak := 0, 0
	for _, b := range hours.Buckets {
		if b.Key == HourUnknownKey {
			continue
		}
		known += b.Count
		if b.Key >= "15" && b.Key <= "18" {
			peak += b.Count
		}
	}
	if known == 0 {
		return 0
	}
	return RoundPercent(float64(peak) / float64(known) * 100)
}
