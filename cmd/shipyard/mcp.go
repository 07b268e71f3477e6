package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	shipyard "github.com/shipyard-mcp/shipyard"
	"github.com/shipyard-mcp/shipyard/internal/logging"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the gateway as an MCP stdio server",
	Long: `Starts the gateway on Standard Input/Output using the Model Context
Protocol. This allows AI agents (like Claude Desktop) to call the deployment
tools as a local process, without the HTTP transport.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		logger := logging.New(logging.ParseLevel(cfg.LogLevel))
		slog.SetDefault(logger)

		gw, err := shipyard.New(cfg, shipyard.WithLogger(logger))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing shipyard: %v\n", err)
			os.Exit(1)
		}
		defer gw.Close()

		logger.Info("starting shipyard MCP server (stdio)")
		if err := gw.ServeStdio(); err != nil {
			logger.Error("MCP server execution failed", "err", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
