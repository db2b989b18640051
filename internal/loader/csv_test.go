package loader_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spillsight/ct-spill-analysis/internal/domain"
	"github.com/spillsight/ct-spill-analysis/internal/loader"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spills.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_HappyPath(t *testing.T) {
	path := writeCSV(t, `Case No.,Town of Release,State of Release,Release date and time,Release Substance,Cause Info,Status
2101,Groton,CT,3/14/2021 15:42,UNLEADED GASOLINE,MV ACCIDENT,Closed
2102, Southington ,CT,4/1/2021 09:10,#2 FUEL OIL,EQUIPMENT FAILURE,Open
`)

	l := loader.NewCSVLoader(path, slog.Default())
	records, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "2101", records[0].CaseNumber)
	assert.Equal(t, "Groton", records[0].Town)
	assert.Equal(t, "3/14/2021 15:42", records[0].ReleaseDateTime)
	assert.Equal(t, "MV ACCIDENT", records[0].Cause)
	assert.Equal(t, 2, records[0].Line)

	// Whitespace is trimmed; extra columns are ignored.
	assert.Equal(t, "Southington", records[1].Town)
	assert.Equal(t, 3, records[1].Line)
}

func TestLoad_RaggedRow(t *testing.T) {
	path := writeCSV(t, `Case No.,Town of Release,State of Release,Release date and time,Release Substance,Cause Info
2101,Groton,CT,3/14/2021 15:42
`)

	l := loader.NewCSVLoader(path, slog.Default())
	records, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Substance)
	assert.Empty(t, records[0].Cause)
}

func TestLoad_MissingFile(t *testing.T) {
	l := loader.NewCSVLoader(filepath.Join(t.TempDir(), "nope.csv"), slog.Default())
	_, err := l.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestLoad_MissingMunicipalityColumn(t *testing.T) {
	path := writeCSV(t, `Case No.,State of Release,Release date and time,Release Substance,Cause Info
2101,CT,3/14/2021 15:42,GASOLINE,MV
`)

	l := loader.NewCSVLoader(path, slog.Default())
	_, err := l.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "Town of Release")
}

func TestLoad_ContextCancelled(t *testing.T) {
	path := writeCSV(t, `Case No.,Town of Release,State of Release,Release date and time,Release Substance,Cause Info
2101,Groton,CT,3/14/2021 15:42,GASOLINE,MV
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := loader.NewCSVLoader(path, slog.Default())
	_, err := l.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
