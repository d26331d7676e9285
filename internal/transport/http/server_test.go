package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/a2a"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/specialist"
)

type nopSpecialist struct{}

func (nopSpecialist) Name() string { return "nop" }

func (nopSpecialist) Handle(context.Context, domain.Message, map[string]any) (specialist.Response, error) {
	return specialist.Resolved(nil), nil
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAgentServerRoutes(t *testing.T) {
	e := NewAgentServer(a2a.SupportCard("http://localhost:10022"), nopSpecialist{}, ServerOptions{})

	rec := serve(e, nethttp.MethodGet, "/health")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = serve(e, nethttp.MethodGet, a2a.CardPath)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Support Agent")
}

func TestAgentServerErrorFormat(t *testing.T) {
	e := NewAgentServer(a2a.DataCard("http://localhost:10021"), nopSpecialist{}, ServerOptions{})

	rec := serve(e, nethttp.MethodGet, "/nope")
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Error: Not Found", body["error"])
}

func TestAgentServerRecoversPanics(t *testing.T) {
	e := NewAgentServer(a2a.DataCard("http://localhost:10021"), nopSpecialist{}, ServerOptions{},
		MountHandler("/boom", nethttp.HandlerFunc(func(nethttp.ResponseWriter, *nethttp.Request) {
			panic("kaboom")
		})),
	)

	rec := serve(e, nethttp.MethodGet, "/boom")
	assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error: ")
}

func TestMountHandler(t *testing.T) {
	e := NewAgentServer(a2a.DataCard("http://localhost:10021"), nopSpecialist{}, ServerOptions{},
		MountHandler("/mcp", nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			_, _ = w.Write([]byte(r.Method))
		})),
	)

	rec := serve(e, nethttp.MethodPost, "/mcp")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, nethttp.MethodPost, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	e := NewAgentServer(a2a.DataCard("http://localhost:10021"), nopSpecialist{}, ServerOptions{
		RateLimitRPS:   0.001,
		RateLimitBurst: 2,
	})

	assert.Equal(t, nethttp.StatusOK, serve(e, nethttp.MethodGet, "/health").Code)
	assert.Equal(t, nethttp.StatusOK, serve(e, nethttp.MethodGet, "/health").Code)

	rec := serve(e, nethttp.MethodGet, "/health")
	assert.Equal(t, nethttp.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")

	other := httptest.NewRequest(nethttp.MethodGet, "/health", nil)
	other.RemoteAddr = "192.0.2.2:1234"
	otherRec := httptest.NewRecorder()
	e.ServeHTTP(otherRec, other)
	assert.Equal(t, nethttp.StatusOK, otherRec.Code)
}
