// Package agentapi serves the A2A surface of an agent: its card and the
// JSON-RPC message/send endpoint.
package agentapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/a2a"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/specialist"
)

// Handler handles A2A requests for one specialist.
type Handler struct {
	card       a2a.AgentCard
	specialist specialist.Specialist
}

// NewHandler creates a new handler.
func NewHandler(card a2a.AgentCard, agent specialist.Specialist) *Handler {
	return &Handler{card: card, specialist: agent}
}

// RegisterRoutes registers the card, JSON-RPC and health routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET(a2a.CardPath, h.Card)
	e.POST("/", h.Send)
	e.GET("/health", h.Health)
}

// Card returns the agent card.
// GET /.well-known/agent-card.json
func (h *Handler) Card(c echo.Context) error {
	return c.JSON(http.StatusOK, h.card)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"agent":   h.specialist.Name(),
		"version": h.card.Version,
	})
}

// Send handles a JSON-RPC message/send call. The data part of the incoming
// message is a domain.Message; a router also accepts a text-only message as a
// route_query. The reply carries a text rendering and the
// structured response as a data part.
// POST /
func (h *Handler) Send(c echo.Context) error {
	ctx := c.Request().Context()

	var req a2a.Request
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return rpcError(c, nil, a2a.CodeParseError, "parse error")
	}
	if req.JSONRPC != a2a.JSONRPCVersion || req.Method == "" || !a2a.ValidID(req.ID) {
		return rpcError(c, req.ID, a2a.CodeInvalidRequest, "invalid request")
	}
	if req.Method != a2a.MethodSend {
		return rpcError(c, req.ID, a2a.CodeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
	}

	var params a2a.SendParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return rpcError(c, req.ID, a2a.CodeInvalidParams, "invalid params")
	}
	var msg domain.Message
	switch data := params.Message.DataPart(); {
	case data != nil:
		if err := json.Unmarshal(data, &msg); err != nil || msg.Intent == "" {
			return rpcError(c, req.ID, a2a.CodeInvalidParams, "data part is not an agent message")
		}
	case h.specialist.Name() == specialist.NameRouter && strings.TrimSpace(params.Message.TextPart()) != "":
		// Plain text A2A clients talk to the router without a data part.
		msg = domain.NewMessage(params.Message.Role, specialist.OpRouteQuery, nil)
	default:
		return rpcError(c, req.ID, a2a.CodeInvalidParams, "message has no data part")
	}

	log.Info().
		Str("agent", h.specialist.Name()).
		Str("sender", msg.Sender).
		Str("operation", msg.Intent).
		Str("message_id", params.Message.MessageID).
		Msg("a2a message received")

	resp, err := h.specialist.Handle(ctx, msg, map[string]any{
		"text":       params.Message.TextPart(),
		"context_id": params.Message.ContextID,
	})
	if err != nil {
		log.Warn().Err(err).Str("agent", h.specialist.Name()).Str("operation", msg.Intent).Msg("a2a message failed")
		return rpcError(c, req.ID, a2a.CodeFor(err), err.Error())
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return rpcError(c, req.ID, a2a.CodeInternal, err.Error())
	}
	return c.JSON(http.StatusOK, a2a.Response{
		JSONRPC: a2a.JSONRPCVersion,
		ID:      req.ID,
		Result: &a2a.Message{
			Kind:      "message",
			MessageID: ulid.Make().String(),
			ContextID: params.Message.ContextID,
			Role:      a2a.RoleAgent,
			Parts: []a2a.Part{
				{Kind: a2a.PartText, Text: replyText(resp)},
				{Kind: a2a.PartData, Data: out},
			},
		},
	})
}

// replyText renders a response for text-only A2A clients.
func replyText(resp specialist.Response) string {
	if resp.Kind == specialist.KindNeedsContext {
		required := make([]string, len(resp.Required))
		for i, r := range resp.Required {
			required[i] = string(r)
		}
		return "needs context: " + strings.Join(required, ", ")
	}
	for _, key := range []string{"rendered", "reply", "message", "status"} {
		if s, ok := resp.Payload[key].(string); ok && s != "" {
			return s
		}
	}
	return "ok"
}

// rpcError writes a JSON-RPC error. JSON-RPC errors travel with status 200.
func rpcError(c echo.Context, id json.RawMessage, code int, msg string) error {
	return c.JSON(http.StatusOK, a2a.Response{
		JSONRPC: a2a.JSONRPCVersion,
		ID:      id,
		Error:   &a2a.RPCError{Code: code, Message: msg},
	})
}
