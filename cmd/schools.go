package cmd

import (
	"github.com/huangsam/schoolfit/core"
	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/spf13/cobra"
)

// schoolsCmd ranks individual schools.
var schoolsCmd = &cobra.Command{
	Use:   "schools [data-file]",
	Short: "Show the top schools ranked by Custom Fit Score.",
	Long: `Score every school in the table against your weights and targets, then rank them.

Each metric is turned into a 0-1 score (percentile rank by default), curved,
and combined as a weighted mean on a 0-10 scale. Missing or suppressed cells
are filled with the column median, so they never help or hurt a school.

Without a data file, the most recent 'schoolfit data import' is used.

Examples:
  # Rank every school in the state
  schoolfit schools sarc_master.parquet

  # Best fits in one county, showing raw metrics and what matched
  schoolfit schools sarc_master.parquet --county "San Diego" --detail --explain

  # Care only about math and small classes
  schoolfit schools --weight SMATH_Y1=10,SELA_Y1=0,AVG_SIZE=8

  # Prefer a socio-economically mixed student body
  schoolfit schools --target PERDI=Mixed

  # Export the top 100 to Parquet for DuckDB
  schoolfit schools --limit 100 --output parquet --output-file top.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSchools(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot rank schools", err)
		}
	},
}
