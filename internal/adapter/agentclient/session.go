package agentclient

import (
	"context"
	"fmt"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/specialist"
)

// SessionSender delivers conversation messages to the router agent. The
// enriched text travels as the text part, the bundle as the data part.
type SessionSender struct {
	client *Client
	addr   string
}

// NewSessionSender returns a sender targeting the router at addr.
func NewSessionSender(client *Client, addr string) *SessionSender {
	return &SessionSender{client: client, addr: addr}
}

func (s *SessionSender) Send(ctx context.Context, bundle domain.ContextBundle, enriched string) (string, error) {
	payload, err := specialist.EncodePayload(bundle)
	if err != nil {
		return "", domain.Validationf(specialist.OpRouteQuery, "encode bundle: %v", err)
	}
	msg := domain.NewMessage("user", specialist.OpRouteQuery, payload)

	resp, err := s.client.send(ctx, s.addr, envelope{text: enriched, contextID: bundle.SessionID}, msg)
	if err != nil {
		return "", err
	}
	if resp.Kind != specialist.KindResolved {
		return "", domain.TransportError(specialist.OpRouteQuery, fmt.Errorf("unexpected %s response", resp.Kind))
	}

	var rendered string
	if err := resp.Decode("rendered", &rendered); err != nil {
		return "", domain.TransportError(specialist.OpRouteQuery, err)
	}
	return rendered, nil
}
