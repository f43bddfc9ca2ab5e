package cmd

import (
	"errors"

	"github.com/huangsam/schoolfit/core"
	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/spf13/cobra"
)

// compareCmd looks up a handful of schools or districts in the full ranking.
var compareCmd = &cobra.Command{
	Use:   "compare [data-file]",
	Short: "Compare chosen schools or districts side by side.",
	Long: `Score the whole scope, then show where each selection stands in it.

Selections name a school as 'District/School', or a district alone when
--by-district is set. Names match ignoring case. Standings are out of every
school (or district) in scope, so --county changes what a rank means.

Examples:
  # Two schools against each other, ranked statewide
  schoolfit compare --select "Carlsbad Unified/Pacific Rim Elementary" \
    --select "Capistrano Unified/Ambuehl Elementary"

  # Districts within one county
  schoolfit compare --by-district --county "San Diego" \
    --select "Vista Unified" --select "Del Mar Union"

  # Same comparison as CSV
  schoolfit compare --by-district --select "Vista Unified" --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if len(cfg.Selections) == 0 {
			contract.LogFatal("Cannot run comparison", errors.New("at least one --select is required"))
		}
		if err := core.ExecuteCompare(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run comparison", err)
		}
	},
}
