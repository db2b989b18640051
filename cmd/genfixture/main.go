// Command genfixture generates a synthetic CT DEEP spill extract for test and
// demo runs. It draws from weighted town, substance, and cause tables with a
// fixed seed, mixes in dirty rows (duplicates, bad dates, out-of-window
// records, unknown towns), then feeds the result through the real loader,
// cleaner, and aggregator and prints the observed shares so expected-findings
// settings can be copied from its output.
//
// Usage:
//
//	go run ./cmd/genfixture -out data/raw/spill_incidents.csv -n 2000
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/spillsight/ct-spill-analysis/internal/aggregate"
	"github.com/spillsight/ct-spill-analysis/internal/cleaner"
	"github.com/spillsight/ct-spill-analysis/internal/domain"
	"github.com/spillsight/ct-spill-analysis/internal/loader"
	"github.com/spillsight/ct-spill-analysis/internal/observability"
)

type weighted struct {
	value  string
	weight int
}

// Town weights skew toward the towns the published study ranks highest.
var towns = []weighted{
	{"GROTON", 90},
	{"SOUTHINGTON", 80},
	{"HARTFORD", 75},
	{"NEW BRITAIN", 70},
	{"ENFIELD", 65},
	{"NEW HAVEN", 40},
	{"BRIDGEPORT", 38},
	{"STAMFORD", 35},
	{"WATERBURY", 33},
	{"NORWICH", 30},
	{"DANBURY", 25},
	{"MANCHESTER", 22},
	{"MILFORD", 20},
	{"TORRINGTON", 18},
	{"MIDDLETOWN", 15},
}

var substances = []weighted{
	{"GASOLINE", 30},
	{"DIESEL FUEL", 18},
	{"HYDRAULIC OIL", 10},
	{"WASTE OIL", 6},
	{"SULFURIC ACID", 8},
	{"PAINT THINNER", 6},
	{"RAW SEWAGE", 8},
	{"ANTIFREEZE", 8},
	{"", 6},
}

var causes = []weighted{
	{"MV ACCIDENT", 20},
	{"MOTOR VEHICLE ROLLOVER", 9},
	{"EQUIPMENT FAILURE", 18},
	{"MECHANICAL BREAKDOWN", 7},
	{"OPERATOR ERROR", 14},
	{"HEAVY WEATHER", 8},
	{"TANK OVERFILL", 18},
	{"", 6},
}

func main() {
	out := flag.String("out", "data/raw/spill_incidents.csv", "output CSV path")
	n := flag.Int("n", 2000, "number of clean data rows")
	seed := flag.Int64("seed", 20190101, "random seed")
	flag.Parse()

	if err := run(*out, *n, *seed); err != nil {
		log.Fatal(err)
	}
}

func run(out string, n int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))

	rows := generate(rng, n)
	if err := writeCSV(out, rows); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d rows: %s", len(rows), out)

	return printStats(out)
}

func generate(rng *rand.Rand, n int) [][]string {
	rows := make([][]string, 0, n+n/10)
	windowStart := time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)
	windowSeconds := int64(4 * 365 * 24 * 3600)

	for i := 0; i < n; i++ {
		caseNo := fmt.Sprintf("%d", 190000+i)
		occurred := windowStart.Add(time.Duration(rng.Int63n(windowSeconds)) * time.Second)
		// Skew toward the afternoon peak.
		if rng.Intn(100) < 35 {
			occurred = time.Date(occurred.Year(), occurred.Month(), occurred.Day(),
				15+rng.Intn(4), rng.Intn(60), 0, 0, time.UTC)
		}
		stamp := occurred.Format("1/2/2006 15:04")
		if rng.Intn(100) < 4 {
			// Date-only rows exercise the missing-hour path.
			stamp = occurred.Format("1/2/2006")
		}
		rows = append(rows, []string{
			caseNo,
			pick(rng, towns),
			"CT",
			stamp,
			pick(rng, substances),
			pick(rng, causes),
		})
	}

	// Dirty rows, roughly 10% on top of the clean count.
	for i := 0; i < n/40; i++ {
		dup := make([]string, len(rows[i]))
		copy(dup, rows[i])
		dup[5] = "DUPLICATE ENTRY"
		rows = append(rows, dup)
	}
	for i := 0; i < n/40; i++ {
		rows = append(rows, []string{fmt.Sprintf("%d", 990000+i), pick(rng, towns), "CT", "not a date", "GASOLINE", "MV ACCIDENT"})
	}
	for i := 0; i < n/40; i++ {
		rows = append(rows, []string{fmt.Sprintf("%d", 980000+i), pick(rng, towns), "CT", "6/15/2017 10:30", "GASOLINE", "MV ACCIDENT"})
	}
	for i := 0; i < n/40; i++ {
		rows = append(rows, []string{fmt.Sprintf("%d", 970000+i), "SPRINGFIELD", "MA", "6/15/2021 10:30", "GASOLINE", "MV ACCIDENT"})
	}

	rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	return rows
}

func pick(rng *rand.Rand, table []weighted) string {
	total := 0
	for _, w := range table {
		total += w.weight
	}
	r := rng.Intn(total)
	for _, w := range table {
		r -= w.weight
		if r < 0 {
			return w.value
		}
	}
	return table[len(table)-1].value
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		loader.ColCaseNumber,
		loader.ColTown,
		loader.ColState,
		loader.ColDateTime,
		loader.ColSubstance,
		loader.ColCause,
	}
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// printStats runs the fixture through the real pipeline stages so the printed
// shares match exactly what an analysis run will observe.
func printStats(path string) error {
	// Fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2023, time.January, 15, 9, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	logger := observability.NewLogger("warn", "text")
	metrics := observability.NewMetrics()
	ctx := context.Background()

	raws, err := loader.NewCSVLoader(path, logger).Load(ctx)
	if err != nil {
		return fmt.Errorf("loading fixture back: %w", err)
	}

	window := domain.NewStudyWindow(2019, 2022)
	cleaned, quality, err := cleaner.New(window, logger, metrics).Clean(ctx, raws)
	if err != nil {
		return fmt.Errorf("cleaning fixture: %w", err)
	}

	log.Printf("raw=%d cleaned=%d dropped=%d", quality.RawRecords, quality.CleanedRecords, quality.Dropped())

	townAgg := aggregate.Count(cleaned, aggregate.DimTown, aggregate.ByTown)
	log.Printf("top towns:")
	for _, b := range townAgg.Top(10) {
		log.Printf("  %-15s %5d  %5.1f%%", b.Key, b.Count, b.Percent)
	}

	for _, dim := range []struct {
		name string
		key  aggregate.KeyFunc
	}{
		{aggregate.DimSubstance, aggregate.BySubstance},
		{aggregate.DimCause, aggregate.ByCause},
	} {
		res := aggregate.Count(cleaned, dim.name, dim.key)
		log.Printf("%s:", dim.name)
		for _, b := range res.Buckets {
			log.Printf("  %-25s %5d  %5.1f%%", b.Key, b.Count, b.Percent)
		}
	}

	hours := aggregate.Count(cleaned, aggregate.DimHour, aggregate.ByHour)
	log.Printf("afternoon peak share: %.1f%%", aggregate.AfternoonShare(hours))
	return nil
}
