package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/pomo-cli/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server drives its own timer over stdio: it can read the countdown, switch
modes, start, pause, reset and set the task note.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol; status goes to stderr.
		fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server on stdio (Ctrl+C to stop)")

		ctx, stop := setupSignalHandler(cmd.Context())
		defer stop()

		server := mcp.NewServer(app.timer, app.logger)
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		return nil
	},
}
