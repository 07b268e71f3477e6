package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	shipyard "github.com/shipyard-mcp/shipyard"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the gateway exposes",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		gw, err := shipyard.New(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing shipyard: %v\n", err)
			os.Exit(1)
		}
		defer gw.Close()

		for _, desc := range gw.Registry().List() {
			fmt.Printf("%s\n  %s\n", desc.Name, desc.Description)
			for _, p := range desc.Params {
				line := fmt.Sprintf("  --%s (%s)", p.Name, p.Type)
				if p.Required {
					line += " [required]"
				}
				if p.Default != nil {
					line += fmt.Sprintf(" [default: %v]", p.Default)
				}
				if p.Description != "" {
					line += " " + p.Description
				}
				fmt.Println(line)
			}
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
