package cmd

import (
	"github.com/huangsam/schoolfit/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [data-file]",
	Short: "Start the Schoolfit MCP server",
	Long: `Launch an MCP server over stdio so AI agents can rank and compare schools via standard tools.

Flags and the config file set the base settings. Each tool call may pass its
own county, limit, weights and targets without changing them.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdout carries the protocol, so setup must not print to it.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
