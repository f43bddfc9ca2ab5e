package cmd

import (
	"github.com/huangsam/schoolfit/core"
	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the metric catalog with the active weights and targets.
var metricsCmd = &cobra.Command{
	Use:   "metrics [data-file]",
	Short: "Display the scored metrics with their weights and targets.",
	Long: `Show every metric the Custom Fit Score uses, grouped by theme.

For each metric you get its scoring mode, what it prefers, and the weight in
effect after the config file, environment and --weight/--target flags are
applied. When a table is available, a Present column tells whether the
metric exists in it.

No ranking is performed - this is purely informational.

Examples:
  # Metric catalog with default settings
  schoolfit metrics

  # See how overrides land before ranking
  schoolfit metrics --weight AVG_SIZE=10 --target PERDI=Mixed --detail

  # Machine-readable catalog
  schoolfit metrics --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
