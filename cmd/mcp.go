package cmd

import (
	"github.com/johanreventlow/BFHcharts-sub001/internal/iocache"
	"github.com/johanreventlow/BFHcharts-sub001/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the bfhaxis MCP server",
	Long: `Launch an MCP server on stdio so that agents can compute chart axes with
the compute_axis, classify_intervals and history_status tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		// Tools may record runs on request, so history is always opened here.
		return iocache.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, historyManager)
	},
}
