// Package report renders a run outcome into its deliverables: PNG charts per
// research question, an xlsx workbook, and a plain-text validation summary.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spillsight/ct-spill-analysis/internal/pipeline"
)

// FiguresDir is the chart subdirectory under the output directory.
const FiguresDir = "figures"

// FileReporter writes all report artifacts under a single output directory.
type FileReporter struct {
	dir    string
	logger *slog.Logger
}

// NewFileReporter creates a reporter rooted at dir. The directory is created
// on first write.
func NewFileReporter(dir string, logger *slog.Logger) *FileReporter {
	return &FileReporter{dir: dir, logger: logger}
}

// Write renders every artifact. Charts come first so a failure there leaves
// no half-written summary claiming success.
func (r *FileReporter) Write(ctx context.Context, out *pipeline.Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	figures := filepath.Join(r.dir, FiguresDir)
	if err := os.MkdirAll(figures, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := writeCharts(figures, out.Towns, out.Hours, out.Substances, out.Causes); err != nil {
		return err
	}
	r.logger.Info("charts written", "dir", figures)

	if err := writeWorkbook(filepath.Join(r.dir, WorkbookFile), out); err != nil {
		return err
	}

	path := filepath.Join(r.dir, ReportFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteSummary(f, out); err != nil {
		f.Close()
		return fmt.Errorf("write summary: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	r.logger.Info("report written", "dir", r.dir)
	return nil
}
