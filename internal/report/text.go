package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spillsight/ct-spill-analysis/internal/aggregate"
	"github.com/spillsight/ct-spill-analysis/internal/pipeline"
	"github.com/spillsight/ct-spill-analysis/internal/validate"
)

// ReportFile is the plain-text summary filename.
const ReportFile = "validation_report.txt"

// WriteSummary renders the human-readable run summary: data quality, the
// headline aggregates, and the claim-by-claim validation table.
func WriteSummary(w io.Writer, out *pipeline.Outcome) error {
	fmt.Fprintf(w, "Connecticut Spill Incident Analysis\n")
	fmt.Fprintf(w, "Run %s\n\n", out.RunID)

	fmt.Fprintln(w, "Data Quality")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	q := out.Quality
	fmt.Fprintf(tw, "  raw records\t%d\n", q.RawRecords)
	fmt.Fprintf(tw, "  cleaned records\t%d\n", q.CleanedRecords)
	fmt.Fprintf(tw, "  dropped\t%d\n", q.Dropped())
	fmt.Fprintf(tw, "    duplicate case numbers\t%d\n", q.DuplicateCaseNumbers)
	fmt.Fprintf(tw, "    unparseable dates\t%d\n", q.UnparseableDates)
	fmt.Fprintf(tw, "    outside study window\t%d\n", q.OutsideStudyWindow)
	fmt.Fprintf(tw, "    unrecognized towns\t%d\n", q.UnrecognizedTowns)
	fmt.Fprintf(tw, "  missing hour\t%d\n", q.MissingHour)
	fmt.Fprintf(tw, "  substance fallback\t%d\n", q.SubstanceOther)
	fmt.Fprintf(tw, "  cause fallback\t%d\n", q.CauseOther)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTop 10 Towns (%d towns observed)\n", len(out.Towns.Buckets))
	if err := writeBuckets(w, out.Towns.Top(10)); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nSubstance Categories")
	if err := writeBuckets(w, out.Substances.Buckets); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nCause Categories")
	if err := writeBuckets(w, out.Causes.Buckets); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nTime of Day")
	if err := writeBuckets(w, out.TimePeriods.Buckets); err != nil {
		return err
	}
	fmt.Fprintf(w, "  afternoon peak (15:00-18:59) share of known hours: %.1f%%\n", out.AfternoonShare)

	fmt.Fprintln(w, "\nValidation")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  CLAIM\tEXPECTED\tOBSERVED\tSTATUS\n")
	for _, c := range out.Validation.Claims {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", c.Claim, c.Expected, c.Observed, c.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nOverall: %s\n", overallStatus(out.Validation))
	return nil
}

func writeBuckets(w io.Writer, buckets []aggregate.Bucket) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, b := range buckets {
		fmt.Fprintf(tw, "  %s\t%d\t%.1f%%\n", b.Key, b.Count, b.Percent)
	}
	return tw.Flush()
}

func overallStatus(v validate.Result) string {
	switch {
	case v.Insufficient():
		return "INSUFFICIENT DATA"
	case v.AllPassed():
		return "PASS"
	default:
		return "FAIL"
	}
}
