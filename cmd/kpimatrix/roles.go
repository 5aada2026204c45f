// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/output"
)

// rolesCmd lists the column roles a table can bind.
var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the column roles",
	Long: `List every column role in the order the matrix consumes them, with
its kind and the number of columns it accepts. Role names are used in the
columns block of .kpimatrix.yaml and are matched case-insensitively.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		t := output.NewTable(
			output.Column{Header: "Role"},
			output.Column{Header: "Name"},
			output.Column{Header: "Kind"},
			output.Column{Header: "Max", Align: output.AlignRight},
		)
		for _, d := range columns.Descriptors() {
			kind := "grouping"
			if d.Kind == columns.Measure {
				kind = "measure"
			}
			limit := "any"
			if d.MaxColumns > 0 {
				limit = strconv.Itoa(d.MaxColumns)
			}
			t.AddRow(string(d.Role), d.DisplayName, kind, limit)
		}
		return t.Render(cmd.OutOrStdout())
	},
}
