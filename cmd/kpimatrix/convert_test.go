// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/kpimatrix/internal/output"
	"github.com/davetashner/kpimatrix/internal/state"
	"github.com/davetashner/kpimatrix/internal/testable"
)

// resetConvertFlags resets all package-level convert flags to their default values.
func resetConvertFlags() {
	convertFormat = ""
	convertOutput = ""
	convertSettings = ""
	convertSheet = ""
	convertStateDir = ""
	convertNoState = false
	convertViewMode = ""
	convertConcurrency = 0
	convertKeepGoing = false

	convertCmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
		_ = f.Value.Set(f.DefValue)
	})
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
		_ = f.Value.Set(f.DefValue)
	})
	if h := convertCmd.Flags().Lookup("help"); h != nil {
		_ = h.Value.Set("false")
	}
}

func executeConvert(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetConvertFlags()
	t.Cleanup(resetConvertFlags)

	stdout := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetArgs(append([]string{"convert"}, args...))
	err := rootCmd.Execute()
	return stdout.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var ece *exitCodeError
	require.True(t, errors.As(err, &ece), "expected exitCodeError, got %v", err)
	return ece.ExitCode()
}

func TestConvertCmd_IsRegistered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "convert" {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestConvert_TextDefault(t *testing.T) {
	setupSalesDir(t)

	out, err := executeConvert(t, "sales.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "East")
	assert.Contains(t, out, "Sales")
	assert.Contains(t, out, "+20.00%")
}

func TestConvert_Markdown(t *testing.T) {
	setupSalesDir(t)

	out, err := executeConvert(t, "--format", "markdown", "sales.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "# KPI Matrix")
	assert.Contains(t, out, "## East")
	assert.Contains(t, out, "## West")
}

func TestConvert_JSON(t *testing.T) {
	setupSalesDir(t)

	out, err := executeConvert(t, "-f", "json", "sales.csv")
	require.NoError(t, err)

	var env output.JSONEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	require.Len(t, env.Series, 2)
	assert.Equal(t, "East", env.Series[0].Name)
	require.Len(t, env.Series[0].Children, 1)
	assert.Equal(t, "Sales", env.Series[0].Children[0].Name)
	assert.Equal(t, 2, env.Metadata.SeriesDeep)
	assert.Equal(t, 2, env.Metadata.LeafCount)
}

func TestConvert_FormatFromConfig(t *testing.T) {
	dir := setupSalesDir(t)
	writeTestFile(t, dir, ".kpimatrix.yaml", salesConfig+"output_format: markdown\n")

	out, err := executeConvert(t, "sales.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "# KPI Matrix")
}

func TestConvert_MultipleFilesHaveHeaders(t *testing.T) {
	dir := setupSalesDir(t)
	writeTestFile(t, dir, "more.csv", salesCSV)

	out, err := executeConvert(t, "sales.csv", "more.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "==> sales.csv <==")
	assert.Contains(t, out, "==> more.csv <==")
	assert.Less(t, bytes.Index([]byte(out), []byte("sales.csv")), bytes.Index([]byte(out), []byte("more.csv")))
}

func TestConvert_SavesState(t *testing.T) {
	dir := setupSalesDir(t)

	_, err := executeConvert(t, "--view-mode", "edit", "sales.csv")
	require.NoError(t, err)

	st, err := state.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"sales.csv"}, st.TableNames())
	assert.ElementsMatch(t, []string{"Sales", "Cost"}, st.SeriesSettings("sales.csv").Names())
}

func TestConvert_NoState(t *testing.T) {
	dir := setupSalesDir(t)

	_, err := executeConvert(t, "--no-state", "sales.csv")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, state.Dir))
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvert_OutputFile(t *testing.T) {
	setupSalesDir(t)

	var written []byte
	var path string
	orig := cmdFS
	cmdFS = &testable.MockFileSystem{
		WriteFileFn: func(name string, data []byte, _ os.FileMode) error {
			path, written = name, data
			return nil
		},
	}
	t.Cleanup(func() { cmdFS = orig })

	out, err := executeConvert(t, "-f", "markdown", "-o", "matrix.md", "sales.csv")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "matrix.md", path)
	assert.Contains(t, string(written), "## East")
}

func TestConvert_OutputFileWriteError(t *testing.T) {
	setupSalesDir(t)

	orig := cmdFS
	cmdFS = &testable.MockFileSystem{
		WriteFileFn: func(string, []byte, os.FileMode) error {
			return errors.New("disk full")
		},
	}
	t.Cleanup(func() { cmdFS = orig })

	_, err := executeConvert(t, "-o", "matrix.txt", "sales.csv")
	require.Error(t, err)
	assert.Equal(t, ExitTotalFailure, exitCode(t, err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestConvert_UnknownFormat(t *testing.T) {
	setupSalesDir(t)

	_, err := executeConvert(t, "-f", "xml", "sales.csv")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(t, err))
	assert.Contains(t, err.Error(), "unknown format")
}

func TestConvert_InvalidViewMode(t *testing.T) {
	setupSalesDir(t)

	_, err := executeConvert(t, "--view-mode", "draft", "sales.csv")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(t, err))
}

func TestConvert_InvalidConfig(t *testing.T) {
	dir := setupSalesDir(t)
	writeTestFile(t, dir, ".kpimatrix.yaml", "columns:\n  Value:\n    roles: [nope]\n")

	_, err := executeConvert(t, "sales.csv")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(t, err))
}

func TestConvert_MissingFile(t *testing.T) {
	setupSalesDir(t)

	_, err := executeConvert(t, "missing.csv")
	require.Error(t, err)
	assert.Equal(t, ExitTotalFailure, exitCode(t, err))
}

func TestConvert_KeepGoingPartialFailure(t *testing.T) {
	setupSalesDir(t)

	out, err := executeConvert(t, "--keep-going", "sales.csv", "missing.csv")
	require.Error(t, err)
	assert.Equal(t, ExitPartialFailure, exitCode(t, err))
	assert.Contains(t, err.Error(), "1 of 2 tables")
	assert.Contains(t, out, "==> sales.csv <==")
	assert.NotContains(t, out, "missing.csv")
}

func TestConvert_KeepGoingTotalFailure(t *testing.T) {
	setupSalesDir(t)

	_, err := executeConvert(t, "--keep-going", "missing.csv", "gone.csv")
	require.Error(t, err)
	assert.Equal(t, ExitTotalFailure, exitCode(t, err))
}

func TestConvert_RequiresArgs(t *testing.T) {
	setupSalesDir(t)

	_, err := executeConvert(t)
	require.Error(t, err)
}
