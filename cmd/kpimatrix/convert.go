// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davetashner/kpimatrix/internal/config"
	"github.com/davetashner/kpimatrix/internal/output"
	"github.com/davetashner/kpimatrix/internal/pipeline"
)

// Convert-specific flag values.
var (
	convertFormat      string
	convertOutput      string
	convertSettings    string
	convertSheet       string
	convertStateDir    string
	convertNoState     bool
	convertViewMode    string
	convertConcurrency int
	convertKeepGoing   bool
)

// convertCmd converts one or more tables into KPI matrices.
var convertCmd = &cobra.Command{
	Use:   "convert <file>...",
	Short: "Convert tables into KPI matrices",
	Long: `Convert CSV, XLSX or JSON tables into hierarchical KPI matrices.

Columns are bound to roles by the columns block of .kpimatrix.yaml. Tables
with a rowBasedMetricName column are converted row by row; all others are
converted column by column using the stored column mapping.

Several files are converted concurrently. The column mapping and series
settings of every table are saved to .kpimatrix/state.json unless
--no-state is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "output format: "+formatList())
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "write output to file instead of stdout")
	convertCmd.Flags().StringVar(&convertSettings, "settings", "", "settings file (YAML or TOML)")
	convertCmd.Flags().StringVar(&convertSheet, "sheet", "", "worksheet to read from XLSX files")
	convertCmd.Flags().StringVar(&convertStateDir, "state-dir", "", "directory holding .kpimatrix/state.json")
	convertCmd.Flags().BoolVar(&convertNoState, "no-state", false, "neither read nor save stored state")
	convertCmd.Flags().StringVar(&convertViewMode, "view-mode", "", "view or edit; edit seeds series settings for every metric")
	convertCmd.Flags().IntVarP(&convertConcurrency, "concurrency", "j", 0, "maximum tables converted in parallel")
	convertCmd.Flags().BoolVar(&convertKeepGoing, "keep-going", false, "continue when a table fails to convert")
}

func formatList() string {
	return strings.Join(output.Names(), ", ")
}

func runConvert(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadEffective(".")
	if err != nil {
		return exitError(ExitInvalidArgs, "kpimatrix: failed to load config (%v)", err)
	}
	if err := config.Validate(fileCfg); err != nil {
		return exitError(ExitInvalidArgs, "kpimatrix: %v", err)
	}

	run := config.Merge(fileCfg, config.RunConfig{
		OutputFormat: convertFormat,
		SettingsFile: convertSettings,
		StateDir:     convertStateDir,
		Sheet:        convertSheet,
		ViewMode:     convertViewMode,
		Concurrency:  convertConcurrency,
		NoState:      convertNoState,
	})
	if run.OutputFormat == "" {
		run.OutputFormat = "text"
	}
	if run.ViewMode != "" && run.ViewMode != config.ViewModeView && run.ViewMode != config.ViewModeEdit {
		return exitError(ExitInvalidArgs, "kpimatrix: --view-mode must be %q or %q", config.ViewModeView, config.ViewModeEdit)
	}

	formatter, err := output.GetFormatter(run.OutputFormat)
	if err != nil {
		return exitError(ExitInvalidArgs, "kpimatrix: %v", err)
	}

	p, err := pipeline.New(pipeline.Options{
		Dir:       ".",
		Config:    fileCfg,
		Run:       run,
		KeepGoing: convertKeepGoing,
	})
	if err != nil {
		return exitError(ExitInvalidArgs, "kpimatrix: %v", err)
	}

	results, err := p.Run(cmd.Context(), args)
	if err != nil {
		return exitError(ExitTotalFailure, "kpimatrix: %v", err)
	}

	var buf bytes.Buffer
	failed := 0
	headers := len(results) > 1 && run.OutputFormat != "json"
	for i, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		if headers {
			if i > 0 {
				buf.WriteString("\n")
			}
			fmt.Fprintf(&buf, "==> %s <==\n", res.Path)
		}
		if err := formatter.Format(res.Rep, &buf); err != nil {
			return exitError(ExitTotalFailure, "kpimatrix: render %s: %v", res.Path, err)
		}
		slog.Debug("converted", "path", res.Path, "duration", res.Duration)
	}

	if err := p.Save(); err != nil {
		slog.Warn("failed to save state", "error", err)
	}

	if failed == len(results) {
		return exitError(ExitTotalFailure, "")
	}
	if err := writeOutput(cmd.OutOrStdout(), buf.Bytes()); err != nil {
		return err
	}
	if failed > 0 {
		return exitError(ExitPartialFailure, "kpimatrix: %d of %d tables failed to convert", failed, len(results))
	}
	return nil
}

// writeOutput writes data to --output when set, otherwise to w.
func writeOutput(w io.Writer, data []byte) error {
	if convertOutput == "" {
		_, err := w.Write(data)
		return err
	}
	if err := cmdFS.WriteFile(convertOutput, data, 0o644); err != nil {
		return exitError(ExitTotalFailure, "kpimatrix: cannot write output file: %v", err)
	}
	slog.Info("wrote output", "path", convertOutput, "bytes", len(data))
	return nil
}
