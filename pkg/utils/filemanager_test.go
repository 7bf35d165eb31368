package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 31, 14, 30, 22, 0, time.UTC)

func TestGenerateOutputFileName(t *testing.T) {
	assert.Equal(t, "processed_orders_2024-01-31.xlsx", GenerateOutputFileName("processed_orders_{date}.xlsx", fixedNow))
	assert.Equal(t, "run_20240131_143022.xlsx", GenerateOutputFileName("run_{timestamp}", fixedNow))

	name := GenerateOutputFileName("{uuid}.xlsx", fixedNow)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f-]{36}\.xlsx$`), name)
}

func TestEnsureExtension(t *testing.T) {
	assert.Equal(t, "report.xlsx", EnsureExtension("report"))
	assert.Equal(t, "report.XLSX", EnsureExtension("report.XLSX"))
	assert.Equal(t, "report.csv.xlsx", EnsureExtension("report.csv"))
}

func TestOutputPath(t *testing.T) {
	fm := NewFileManager("out")
	fm.now = func() time.Time { return fixedNow }

	assert.Equal(t, filepath.Join("out", "processed_orders_2024-01-31.xlsx"), fm.OutputPath("processed_orders_{date}.xlsx", ""))
	assert.Equal(t, filepath.Join("out", "january.xlsx"), fm.OutputPath("ignored", "january"))

	abs := filepath.Join(t.TempDir(), "abs.xlsx")
	assert.Equal(t, abs, fm.OutputPath("ignored", abs))
}

func TestEnsureOutputDirAndCheckWritable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	fm := NewFileManager(dir)

	require.NoError(t, fm.EnsureOutputDir())
	require.NoError(t, fm.CheckWritable())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file must be removed")
}

func TestCheckWritable_MissingDir(t *testing.T) {
	fm := NewFileManager(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, fm.CheckWritable())
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "b.csv")))
}
