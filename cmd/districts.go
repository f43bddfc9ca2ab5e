package cmd

import (
	"github.com/huangsam/schoolfit/core"
	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/spf13/cobra"
)

// districtsCmd ranks districts rolled up from their schools.
var districtsCmd = &cobra.Command{
	Use:   "districts [data-file]",
	Short: "Show the top districts ranked by Custom Fit Score.",
	Long: `Score every school, then roll schools up into districts and rank the districts.

A district's score is the mean of its schools' scores, and its metric
columns are the means of its schools' values. Districts with the same name
in different counties are kept apart.

Examples:
  # Rank districts statewide
  schoolfit districts sarc_master.parquet

  # Districts in one county with member counts and metric means
  schoolfit districts --county Orange --detail

  # Export to CSV
  schoolfit districts --output csv --output-file districts.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDistricts(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot rank districts", err)
		}
	},
}
