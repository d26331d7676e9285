package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/specialist"
)

var _ specialist.Specialist = (*Router)(nil)

func (r *Router) Name() string { return specialist.NameRouter }

// Handle serves route_query messages whose payload is a domain.ContextBundle.
// An empty payload routes the message text from rc instead.
func (r *Router) Handle(ctx context.Context, req domain.Message, rc map[string]any) (specialist.Response, error) {
	if req.Intent != specialist.OpRouteQuery {
		return specialist.Response{}, domain.Validationf(r.Name(), "unsupported operation %q", req.Intent)
	}
	var bundle domain.ContextBundle
	if len(req.Payload) == 0 {
		bundle.Message, _ = rc["text"].(string)
		bundle.SessionID, _ = rc["context_id"].(string)
	} else if err := specialist.DecodePayload(req.Intent, req.Payload, &bundle); err != nil {
		return specialist.Response{}, err
	}
	if strings.TrimSpace(bundle.Message) == "" {
		return specialist.Response{}, domain.Validationf(req.Intent, "message is required")
	}

	res, err := r.Route(ctx, bundle.Message, Context{CustomerID: bundle.CustomerID, History: bundle.History})
	if err != nil {
		return specialist.Response{}, err
	}
	return specialist.Resolved(map[string]any{
		"reply":    res.Reply,
		"rendered": res.Render(),
		"result":   res,
	}), nil
}

// Send routes a conversation message in-process. It lets a session talk to
// the router without a network hop.
func (r *Router) Send(ctx context.Context, bundle domain.ContextBundle, _ string) (string, error) {
	res, err := r.Route(ctx, bundle.Message, Context{CustomerID: bundle.CustomerID, History: bundle.History})
	if err != nil {
		return "", err
	}
	return res.Render(), nil
}

// Render formats the reply with its supporting records, one per line.
func (res *Result) Render() string {
	var b strings.Builder
	b.WriteString(res.Reply)

	for _, t := range res.Billing {
		writeTicket(&b, t)
	}
	for _, t := range res.Tickets {
		writeTicket(&b, t)
	}
	for _, d := range res.Details {
		fmt.Fprintf(&b, "\n  - %s (customer %d): %d open", d.Customer, d.CustomerID, d.OpenTicketsCount)
	}
	for _, f := range res.Failures {
		fmt.Fprintf(&b, "\n  ! customer %d: %s failed: %s", f.CustomerID, f.Step, f.Error)
	}
	return b.String()
}

func writeTicket(b *strings.Builder, t domain.Ticket) {
	fmt.Fprintf(b, "\n  - #%d customer %d [%s/%s] %s", t.ID, t.CustomerID, t.Status, t.Priority, t.Issue)
}
