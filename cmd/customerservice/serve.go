package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/a2a"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/adapter/dataclient"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/mcpserver"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/repository"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/specialist"
	httptransport "github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/transport/http"
	v1 "github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/transport/http/v1"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/transport/ws"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:       "serve [router|data|support|all]",
	Short:     "Run one agent or all three",
	Long:      `Run the router, data or support agent as an A2A server. "all" (the default) runs the three agents in one process, still talking to each other over HTTP.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"router", "data", "support", "all"},
	RunE: func(cmd *cobra.Command, args []string) error {
		which := "all"
		if len(args) == 1 {
			which = args[0]
		}
		return runServe(which)
	},
}

type agentServer struct {
	name string
	addr string
	echo *echo.Echo
}

func runServe(which string) error {
	opts := httptransport.ServerOptions{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}

	var servers []agentServer
	var store *repository.SQLiteStore

	if which == "data" || which == "all" {
		s, err := openStore()
		if err != nil {
			return err
		}
		store = s
		defer store.Close()

		servers = append(servers, agentServer{
			name: specialist.NameData,
			addr: listenAddr(cfg.DataPort),
			echo: httptransport.NewAgentServer(a2a.DataCard(cfg.DataURL), specialist.NewData(store), opts,
				v1.NewHandler(store),
				httptransport.MountHandler("/mcp", mcpserver.HTTPHandler(mcpserver.New(store))),
			),
		})
	}

	if which == "support" || which == "all" {
		data := dataclient.NewClient(cfg.DataURL, cfg.AgentTimeout)
		servers = append(servers, agentServer{
			name: specialist.NameSupport,
			addr: listenAddr(cfg.SupportPort),
			echo: httptransport.NewAgentServer(a2a.SupportCard(cfg.SupportURL), specialist.NewSupport(data), opts),
		})
	}

	if which == "router" || which == "all" {
		r := newRemoteRouter(newAgentClient())
		wsCfg := ws.DefaultConfig()
		wsCfg.HistoryLimit = cfg.HistoryLimit
		servers = append(servers, agentServer{
			name: specialist.NameRouter,
			addr: listenAddr(cfg.RouterPort),
			echo: httptransport.NewAgentServer(a2a.RouterCard(cfg.RouterURL), r, opts, ws.NewServer(r, wsCfg)),
		})
	}

	errCh := make(chan error, len(servers))
	for _, s := range servers {
		go func() {
			log.Info().Str("agent", s.name).Str("addr", s.addr).Msg("agent server started")
			if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("%s server: %w", s.name, err)
			}
		}()
	}

	// Wait for interrupt signal or a server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case <-quit:
		log.Info().Msg("shutting down agents...")
	case runErr = <-errCh:
		log.Error().Err(runErr).Msg("agent server failed, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, s := range servers {
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Str("agent", s.name).Msg("failed to shutdown server gracefully")
		}
	}

	log.Info().Msg("agents stopped")
	return runErr
}

func listenAddr(port int) string {
	return fmt.Sprintf("%s:%d", cfg.Host, port)
}
