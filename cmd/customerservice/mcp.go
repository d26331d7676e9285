package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the customer data tools over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		log.Info().Str("database", cfg.DatabaseURL).Msg("serving MCP over stdio")
		return mcpserver.ServeStdio(mcpserver.New(store))
	},
}
