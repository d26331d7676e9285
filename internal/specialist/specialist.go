// Package specialist defines the specialist capability contract and its Data
// and Support variants.
package specialist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
)

// Specialist handles a request message. The context map carries
// caller-supplied context such as a remembered customer id.
type Specialist interface {
	Name() string
	Handle(ctx context.Context, req domain.Message, rc map[string]any) (Response, error)
}

// Operations carried in domain.Message.Intent.
const (
	OpGetCustomer              = "get_customer"
	OpListCustomers            = "list_customers"
	OpUpdateCustomer           = "update_customer"
	OpGetHistory               = "get_history"
	OpCustomersWithOpenTickets = "customers_with_open_tickets"
	OpHandleSupport            = "handle_support"
	OpCreateTicket             = "create_ticket"
	OpRouteQuery               = "route_query"
)

// Agent names used as message senders and card names.
const (
	NameRouter  = "router"
	NameData    = "customer_data"
	NameSupport = "support"
)

// EncodePayload converts v into a message payload.
func EncodePayload(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodePayload converts a message payload into out. Malformed payloads are
// validation errors.
func DecodePayload(op string, payload map[string]any, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return domain.Validationf(op, "payload: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.Validationf(op, "payload: %v", err)
	}
	return nil
}

func unknownOperation(name, op string) error {
	return domain.Validationf(name, "unsupported operation %q", op)
}

func requireID(op string, id *int64) (int64, error) {
	if id == nil {
		return 0, domain.Validationf(op, "customer_id is required")
	}
	return *id, nil
}

func idString(id *int64) string {
	if id == nil {
		return "unknown"
	}
	return fmt.Sprint(*id)
}
