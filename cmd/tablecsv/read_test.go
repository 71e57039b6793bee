package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raceordie690/tablecsv"
)

// TestSummarizeTypesMatchesFrame is the CLI summary round-trip named in
// SPEC_FULL §8: the schema summary the CLI logs must be built from the
// same Frame accessors callers get directly, not a parallel computation
// that could drift from what ReadCSV actually inferred.
func TestSummarizeTypesMatchesFrame(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2.5\n3,4.5\n"), 0o644))

	frame, err := tablecsv.ReadCSV(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, frame.NRows())
	require.Equal(t, 2, frame.NCols())

	summary := summarizeTypes(frame)
	require.Equal(t, "a:int64, b:float64", summary)
}

// TestReadCSVCmdRunE exercises the cobra command end to end against a
// real file, the way runRead wires flags into tablecsv.ReadCSV.
func TestReadCSVCmdRunE(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\ntrue,1\nfalse,2\n"), 0o644))

	flagQuote, flagTrim, flagSkip, flagHeader, flagChunkSize = `"`, true, 0, nil, 0
	require.NoError(t, readCSVCmd.RunE(readCSVCmd, []string{path}))
}

func TestReadDelimCmdRejectsMultiByteDelim(t *testing.T) {
	flagDelim = "::"
	err := readDelimCmd.RunE(readDelimCmd, []string{"unused"})
	require.Error(t, err)
}
