package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aisp-lang/aisp/internal/cli/config"
	"github.com/aisp-lang/aisp/internal/web/server"
)

var (
	servePort int
	serveHost string
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides configuration)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (overrides configuration)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the validation HTTP server",
	Long:  "Start an HTTP server exposing the validation pipeline on /v1/validate",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		serverConfig := server.DefaultConfig()
		serverConfig.Host = cfg.Server.Host
		serverConfig.Port = cfg.Server.Port
		serverConfig.Thresholds = cfg.Analyzer.Thresholds()
		serverConfig.MaxAnalysisTime = cfg.Analyzer.MaxAnalysisTime

		if serveHost != "" {
			serverConfig.Host = serveHost
		}
		if servePort != 0 {
			serverConfig.Port = servePort
		}

		fmt.Printf("Starting server on %s:%d...\n", serverConfig.Host, serverConfig.Port)

		srv := server.New(serverConfig)
		return server.StartWithGracefulShutdown(srv, server.DefaultShutdownConfig())
	},
}
