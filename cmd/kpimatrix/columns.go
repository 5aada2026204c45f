// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/kpimatrix/internal/config"
	"github.com/davetashner/kpimatrix/internal/output"
	"github.com/davetashner/kpimatrix/internal/pipeline"
)

var (
	columnsJSON  bool
	columnsSheet string
)

// columnsCmd shows how a table's columns bind to roles.
var columnsCmd = &cobra.Command{
	Use:   "columns <file>",
	Short: "Show a table's columns and role bindings",
	Long: `Load a table with the configured bindings and show its columns, the
roles bound to each column, the conversion variant and, for column-based
tables, the column mapping a conversion would use.`,
	Args: cobra.ExactArgs(1),
	RunE: runColumns,
}

func init() {
	columnsCmd.Flags().BoolVar(&columnsJSON, "json", false, "print the description as JSON")
	columnsCmd.Flags().StringVar(&columnsSheet, "sheet", "", "worksheet to read from XLSX files")
}

func runColumns(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadEffective(".")
	if err != nil {
		return exitError(ExitInvalidArgs, "kpimatrix: failed to load config (%v)", err)
	}
	if err := config.Validate(fileCfg); err != nil {
		return exitError(ExitInvalidArgs, "kpimatrix: %v", err)
	}

	p, err := pipeline.New(pipeline.Options{
		Dir:    ".",
		Config: fileCfg,
		Run:    config.Merge(fileCfg, config.RunConfig{Sheet: columnsSheet}),
	})
	if err != nil {
		return exitError(ExitInvalidArgs, "kpimatrix: %v", err)
	}

	info, err := p.Describe(args[0])
	if err != nil {
		return exitError(ExitTotalFailure, "kpimatrix: %v", err)
	}

	w := cmd.OutOrStdout()
	if columnsJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	_, _ = fmt.Fprintf(w, "%s: %d rows, %s\n\n", info.Path, info.Rows, info.Variant)

	cyan := color.New(color.FgCyan).SprintFunc()
	t := output.NewTable(
		output.Column{Header: "Column"},
		output.Column{Header: "Type"},
		output.Column{Header: "Format"},
		output.Column{Header: "Roles", Color: func(s string) string { return cyan(s) }},
	)
	for _, c := range info.Columns {
		t.AddRow(c.Name, c.Type, c.Format, strings.Join(c.Roles, ", "))
	}
	if err := t.Render(w); err != nil {
		return err
	}

	if len(info.Mapping) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(w, "\nColumn mapping:")
	mt := output.NewTable(
		output.Column{Header: "Metric"},
		output.Column{Header: "Role"},
		output.Column{Header: "Column"},
	)
	metrics := make([]string, 0, len(info.Mapping))
	for m := range info.Mapping {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)
	for _, m := range metrics {
		roles := make([]string, 0, len(info.Mapping[m]))
		for r := range info.Mapping[m] {
			roles = append(roles, r)
		}
		sort.Strings(roles)
		for _, r := range roles {
			mt.AddRow(m, r, info.Mapping[m][r])
		}
	}
	return mt.Render(w)
}

// resetColumnsFlags resets columns flags for testing.
func resetColumnsFlags() {
	columnsJSON = false
	columnsSheet = ""
	if f := columnsCmd.Flags().Lookup("json"); f != nil {
		_ = f.Value.Set("false")
	}
	if f := columnsCmd.Flags().Lookup("sheet"); f != nil {
		_ = f.Value.Set("")
	}
}
