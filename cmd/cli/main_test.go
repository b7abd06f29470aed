package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/hpcigv/internal/cli"
	"github.com/specialistvlad/hpcigv/internal/igvconfig"
	"github.com/stretchr/testify/require"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A profile with a syntax error makes app.NewApp panic during startup.
	tempDir := t.TempDir()
	profilePath := filepath.Join(tempDir, "profile.hcl")
	err := os.WriteFile(profilePath, []byte("runtime = \n"), 0600)
	require.NoError(t, err, "failed to set up test file")

	args := []string{"--profile", profilePath, tempDir}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should have returned an error after recovering from a panic")

	errStr := runErr.Error()
	require.True(t, strings.Contains(errStr, "application startup panicked"), "The error message should indicate that a panic was recovered.")
	require.True(t, strings.Contains(errStr, "failed to parse profile"), "The error message should contain the underlying reason for the panic.")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_MissingDataPath(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--genome", "hg38"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, err)
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr), "expected an ExitError, got %T", err)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, exitErr.Message, "DATA_PATH is required")
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_DryRunEndToEnd(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "trackA.bw"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "sub", "trackB.bam"), []byte("x"), 0644))

	mappingPath := filepath.Join(dir, "mapping.txt")
	require.NoError(t, os.WriteFile(mappingPath, []byte("2,trackA.bw,Track A,blue\n1,trackB.bam,Track B,red\n"), 0644))
	templatePath := filepath.Join(dir, "template.json")
	require.NoError(t, os.WriteFile(templatePath, []byte(`{"igvConfig": {"tracks": []}}`), 0644))
	outputPath := filepath.Join(dir, "igvwebConfig.js")

	args := []string{
		dataDir,
		"--mapping-file", mappingPath,
		"--template", templatePath,
		"--output", outputPath,
		"--genome", "hg19",
		"--dry-run",
	}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "singularity exec")

	f, err := os.Open(outputPath)
	require.NoError(t, err)
	defer f.Close()
	doc, err := igvconfig.ParseScript(f)
	require.NoError(t, err)
	require.Equal(t, "hg19", doc.Genome())
	require.Equal(t, 2, doc.TrackCount())

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.Less(t, strings.Index(string(data), "Track B"), strings.Index(string(data), "Track A"))
	require.Contains(t, string(data), `"url":"data/sub/trackB.bam"`)
}
