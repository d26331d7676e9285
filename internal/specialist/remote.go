package specialist

import (
	"context"
	"fmt"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
)

// Transport carries a message to the specialist served at addr.
type Transport interface {
	Send(ctx context.Context, addr string, msg domain.Message) (Response, error)
}

type remote struct {
	transport Transport
	addr      string
}

func (r remote) call(ctx context.Context, op string, payload map[string]any) (Response, error) {
	resp, err := r.transport.Send(ctx, r.addr, domain.NewMessage(NameRouter, op, payload))
	if err != nil {
		return Response{}, err
	}
	if err := resp.Validate(); err != nil {
		return Response{}, domain.TransportError(op, err)
	}
	return resp, nil
}

func (r remote) resolved(ctx context.Context, op string, payload map[string]any) (Response, error) {
	resp, err := r.call(ctx, op, payload)
	if err != nil {
		return Response{}, err
	}
	if resp.Kind != KindResolved {
		return Response{}, domain.TransportError(op, fmt.Errorf("unexpected %s response", resp.Kind))
	}
	return resp, nil
}

func decodeInto(op string, resp Response, key string, out any) error {
	if err := resp.Decode(key, out); err != nil {
		return domain.TransportError(op, err)
	}
	return nil
}

// RemoteData reaches a data specialist over a Transport.
type RemoteData struct {
	remote
}

// NewRemoteData returns a proxy for the data specialist at addr.
func NewRemoteData(t Transport, addr string) *RemoteData {
	return &RemoteData{remote{transport: t, addr: addr}}
}

func (r *RemoteData) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	resp, err := r.resolved(ctx, OpGetCustomer, map[string]any{"customer_id": id})
	if err != nil {
		return nil, err
	}
	var c domain.Customer
	if err := decodeInto(OpGetCustomer, resp, "customer", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *RemoteData) ListCustomers(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	resp, err := r.resolved(ctx, OpListCustomers, map[string]any{"status": filter.Status, "limit": filter.Limit})
	if err != nil {
		return nil, err
	}
	var out []domain.Customer
	if err := decodeInto(OpListCustomers, resp, "customers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RemoteData) UpdateCustomer(ctx context.Context, id int64, fields domain.CustomerFields) error {
	_, err := r.resolved(ctx, OpUpdateCustomer, map[string]any{"customer_id": id, "fields": fields})
	return err
}

func (r *RemoteData) GetHistory(ctx context.Context, customerID int64) ([]domain.Ticket, error) {
	resp, err := r.resolved(ctx, OpGetHistory, map[string]any{"customer_id": customerID})
	if err != nil {
		return nil, err
	}
	out := []domain.Ticket{}
	if err := decodeInto(OpGetHistory, resp, "tickets", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RemoteData) CustomersWithOpenTickets(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	resp, err := r.resolved(ctx, OpCustomersWithOpenTickets, map[string]any{"status": filter.Status, "limit": filter.Limit})
	if err != nil {
		return nil, err
	}
	var out []domain.Customer
	if err := decodeInto(OpCustomersWithOpenTickets, resp, "customers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoteSupport reaches a support specialist over a Transport.
type RemoteSupport struct {
	remote
}

// NewRemoteSupport returns a proxy for the support specialist at addr.
func NewRemoteSupport(t Transport, addr string) *RemoteSupport {
	return &RemoteSupport{remote{transport: t, addr: addr}}
}

// HandleSupport forwards req. NeedsContext responses are returned as-is.
func (r *RemoteSupport) HandleSupport(ctx context.Context, req SupportRequest) (Response, error) {
	payload, err := EncodePayload(req)
	if err != nil {
		return Response{}, domain.Validationf(OpHandleSupport, "payload: %v", err)
	}
	return r.call(ctx, OpHandleSupport, payload)
}

func (r *RemoteSupport) CreateTicket(ctx context.Context, customerID int64, issue string, priority domain.TicketPriority) (int64, error) {
	resp, err := r.resolved(ctx, OpCreateTicket, map[string]any{
		"customer_id": customerID,
		"issue":       issue,
		"priority":    priority,
	})
	if err != nil {
		return 0, err
	}
	var id int64
	if err := decodeInto(OpCreateTicket, resp, "ticket_id", &id); err != nil {
		return 0, err
	}
	return id, nil
}
