package main

import (
	"fmt"

	"github.com/spf13/cobra"

	shipyard "github.com/shipyard-mcp/shipyard"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of shipyard",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("shipyard version %s\n", shipyard.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
