package cmd

import (
	"fmt"

	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/spf13/cobra"
)

// configCmd groups config file helpers.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the schoolfit config file.",
}

// configInitCmd writes a starter config with every metric's default weight.
var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter .schoolfit.yaml",
	Long: `Write a config file listing every metric with its default weight and target.

Edit the weights and targets there instead of repeating --weight and
--target on every run. The file is picked up from the current directory or
$HOME, or from --config.

Examples:
  schoolfit config init
  schoolfit config init ~/.schoolfit.yaml --force`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := contract.DefaultConfigFileName
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		if err := contract.WriteConfigFile(path, force); err != nil {
			contract.LogFatal("Cannot write config file", err)
		}
		fmt.Printf("💾 Wrote config to %s\n", path)
	},
}
