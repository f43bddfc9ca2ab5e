package cmd

import (
	"github.com/huangsam/schoolfit/core"
	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/spf13/cobra"
)

// listCmd groups the catalog listings.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List counties, districts or schools in the table.",
	Long: `Browse what the table holds, so --county, --select and --district get exact names.

Available listings:
  list counties   - Counties with district and school counts
  list districts  - Districts with school counts, optionally within --county
  list schools    - Schools, optionally within --county and --district`,
}

var listCountiesCmd = &cobra.Command{
	Use:   "counties [data-file]",
	Short: "List counties with district and school counts",
	Example: `  schoolfit list counties sarc_master.parquet
  schoolfit list counties --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCounties(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list counties", err)
		}
	},
}

var listDistrictsCmd = &cobra.Command{
	Use:   "districts [data-file]",
	Short: "List districts with school counts",
	Example: `  schoolfit list districts --county "San Diego"
  schoolfit list districts --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDistrictList(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list districts", err)
		}
	},
}

var listSchoolsCmd = &cobra.Command{
	Use:   "schools [data-file]",
	Short: "List schools, optionally within one district",
	Example: `  schoolfit list schools --district "Capistrano Unified"
  schoolfit list schools --county Orange --district "Capistrano Unified" --detail`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSchoolList(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list schools", err)
		}
	},
}
