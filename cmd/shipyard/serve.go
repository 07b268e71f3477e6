package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	shipyard "github.com/shipyard-mcp/shipyard"
	"github.com/shipyard-mcp/shipyard/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the streamable HTTP server",
	Long:  `Starts the gateway in HTTP mode, exposing the /mcp JSON-RPC endpoint plus /health and /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if port, _ := cmd.Flags().GetString("port"); cmd.Flags().Changed("port") {
			cfg.Port = port
		}

		logger := logging.New(logging.ParseLevel(cfg.LogLevel))

		gw, err := shipyard.New(cfg, shipyard.WithLogger(logger))
		if err != nil {
			fmt.Printf("Error initializing shipyard: %v\n", err)
			os.Exit(1)
		}
		defer gw.Close()

		srv := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: gw.Handler(),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting shipyard server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("starting shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			logger.Info("shipyard server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
