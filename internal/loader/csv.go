// Package loader reads the raw CT DEEP spill extract into memory. It does no
// interpretation of field semantics beyond row/column splitting; all type
// coercion belongs to the cleaner so failures can be counted per record.
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spillsight/ct-spill-analysis/internal/domain"
)

// Required column headers in the source extract. Extra columns are ignored.
const (
	ColCaseNumber = "Case No."
	ColTown       = "Town of Release"
	ColState      = "State of Release"
	ColDateTime   = "Release date and time"
	ColSubstance  = "Release Substance"
	ColCause      = "Cause Info"
)

var requiredColumns = []string{ColCaseNumber, ColTown, ColDateTime, ColSubstance, ColCause}

// CSVLoader reads incident records from a delimited file.
type CSVLoader struct {
	path   string
	logger *slog.Logger
}

// NewCSVLoader creates a loader for the file at path.
func NewCSVLoader(path string, logger *slog.Logger) *CSVLoader {
	return &CSVLoader{path: path, logger: logger}
}

// Load reads the full file and returns the raw records in file order.
// A missing or unreadable file is ErrDataUnavailable; a missing required
// column is ErrSchemaMismatch. The file handle is released before return
// even when parsing fails partway through.
func (l *CSVLoader) Load(ctx context.Context) ([]domain.RawIncidentRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", l.path, domain.ErrDataUnavailable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are tolerated; missing cells read as empty

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w: %w", domain.ErrDataUnavailable, err)
	}

	colIdx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []domain.RawIncidentRecord
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w: %w", line+1, domain.ErrDataUnavailable, err)
		}
		line++

		records = append(records, domain.RawIncidentRecord{
			CaseNumber:      get(row, colIdx, ColCaseNumber),
			Town:            get(row, colIdx, ColTown),
			State:           get(row, colIdx, ColState),
			ReleaseDateTime: get(row, colIdx, ColDateTime),
			Substance:       get(row, colIdx, ColSubstance),
			Cause:           get(row, colIdx, ColCause),
			Line:            line,
		})
	}

	l.logger.Info("raw dataset loaded", "path", l.path, "records", len(records))
	return records, nil
}

// indexColumns maps header names to positions and checks required columns.
func indexColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", domain.ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return idx, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
