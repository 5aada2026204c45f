package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	kpilog "github.com/davetashner/kpimatrix/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
)

// rootCmd is the base command for kpimatrix.
var rootCmd = &cobra.Command{
	Use:   "kpimatrix",
	Short: "Turn KPI tables into a hierarchical matrix with sparklines",
	Long: `kpimatrix converts role-tagged tables (CSV, XLSX or JSON) into a
hierarchical KPI matrix: categories, metrics, current and comparison values,
variances, KPI indicators and sparklines. Column roles come from
.kpimatrix.yaml; the column mapping and per-series settings are kept in
.kpimatrix/state.json between runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		kpilog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
