package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd shows detailed version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information.",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println("schoolfit CLI")
		fmt.Printf("  Version: %s\n", version)
		fmt.Printf("  Commit:  %s\n", commit)
		fmt.Printf("  Built:   %s\n", date)
	},
}
