package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/config"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/logger"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/tracer"
)

var (
	envFile string
	debug   bool

	// cfg is loaded once in PersistentPreRunE.
	cfg            *config.Config
	tracerShutdown func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "customerservice",
	Short: "Multi-agent customer service system",
	Long: `customerservice runs a router agent that classifies customer messages and
coordinates a customer data agent and a support agent over A2A.

The data agent also serves its tools over MCP (stdio via "mcp", streamable
HTTP under /mcp) and a REST API under /v1.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if debug {
			loaded.Log.Debug = true
		}
		cfg = loaded

		logger.Init(logger.Config{Debug: cfg.Log.Debug, PrettyFormat: cfg.Log.PrettyFormat})

		shutdown, err := tracer.Setup(cmd.Context(), cfg.Tracing)
		if err != nil {
			return fmt.Errorf("failed to setup tracing: %w", err)
		}
		tracerShutdown = shutdown
		return nil
	},
}

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	if tracerShutdown != nil {
		if serr := tracerShutdown(context.Background()); serr != nil {
			log.Warn().Err(serr).Msg("failed to shutdown tracer")
		}
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Path to an env file (default ./.env when present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(mcpCmd)
}

func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}

// printError renders an unhandled error the way every top-level surface does.
func printError(err error) {
	fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprintf("Error: %v", err))
}
