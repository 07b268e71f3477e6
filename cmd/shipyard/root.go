package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shipyard-mcp/shipyard/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "shipyard",
	Short: "Shipyard is an MCP gateway for deployment platforms",
	Long: `Shipyard exposes Vercel and Render deployment operations as MCP tools,
so AI agents can trigger deployments, poll status, and list services through
a uniform tool-calling interface.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Local .env files are a convenience for development; absence is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Optional YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig builds the effective configuration: environment first, then the
// optional config file, then explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.FromEnv()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return nil, err
		}
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}
