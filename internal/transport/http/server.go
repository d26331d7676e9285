// Package http provides the HTTP servers for the customer service agents.
package http

import (
	nethttp "net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/a2a"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/specialist"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/transport/http/agentapi"
)

// ServerOptions tunes the shared middleware stack.
type ServerOptions struct {
	RateLimitRPS   float64
	RateLimitBurst int
}

// Mount adds extra routes to an agent server.
type Mount interface {
	RegisterRoutes(e *echo.Echo)
}

type handlerMount struct {
	path    string
	handler nethttp.Handler
}

// MountHandler serves handler at path for every method.
func MountHandler(path string, handler nethttp.Handler) Mount {
	return handlerMount{path: path, handler: handler}
}

func (m handlerMount) RegisterRoutes(e *echo.Echo) {
	e.Any(m.path, echo.WrapHandler(m.handler))
}

// NewAgentServer creates the HTTP server for one agent: its card, the
// JSON-RPC endpoint and a health check, plus any extra mounts.
func NewAgentServer(card a2a.AgentCard, agent specialist.Specialist, opts ServerOptions, mounts ...Mount) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	// Middleware
	e.Use(RequestLogger())
	e.Use(middleware.Recover())
	if opts.RateLimitRPS > 0 {
		e.Use(RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	}

	agentapi.NewHandler(card, agent).RegisterRoutes(e)
	for _, m := range mounts {
		m.RegisterRoutes(e)
	}

	return e
}

// errorHandler renders unhandled errors as {"error": "Error: <message>"}.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := nethttp.StatusInternalServerError
	msg := err.Error()
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		}
	}
	if c.Request().Method == nethttp.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]string{"error": "Error: " + msg})
}
