package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aisp-lang/aisp/internal/cli/config"
	"github.com/aisp-lang/aisp/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the language server",
	Long:  "Start a Language Server Protocol server speaking JSON-RPC over stdio, publishing validation diagnostics for open AISP documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		srv := lsp.NewServer(cfg.Analyzer.Thresholds())
		return srv.Run(context.Background())
	},
}
