package specialist

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
)

// Data is the customer data specialist. Every operation is a pass-through to
// the data access port; errors come back unchanged.
type Data struct {
	store domain.DataAccess
}

var _ Specialist = (*Data)(nil)

// NewData creates a data specialist over store.
func NewData(store domain.DataAccess) *Data {
	return &Data{store: store}
}

func (d *Data) Name() string { return NameData }

func (d *Data) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	log.Debug().Int64("customer_id", id).Msg("data: get customer")
	return d.store.GetCustomer(ctx, id)
}

func (d *Data) ListCustomers(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	log.Debug().Str("status", string(filter.Status)).Int("limit", filter.Limit).Msg("data: list customers")
	return d.store.ListCustomers(ctx, filter)
}

func (d *Data) UpdateCustomer(ctx context.Context, id int64, fields domain.CustomerFields) error {
	log.Debug().Int64("customer_id", id).Int("fields", len(fields)).Msg("data: update customer")
	return d.store.UpdateCustomer(ctx, id, fields)
}

func (d *Data) GetHistory(ctx context.Context, customerID int64) ([]domain.Ticket, error) {
	log.Debug().Int64("customer_id", customerID).Msg("data: get history")
	return d.store.GetHistory(ctx, customerID)
}

func (d *Data) CustomersWithOpenTickets(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	log.Debug().Str("status", string(filter.Status)).Msg("data: customers with open tickets")
	return d.store.CustomersWithOpenTickets(ctx, filter)
}

type dataArgs struct {
	CustomerID *int64                `json:"customer_id"`
	Status     domain.CustomerStatus `json:"status"`
	Limit      int                   `json:"limit"`
	Fields     domain.CustomerFields `json:"fields"`
}

// Handle dispatches on req.Intent with arguments from req.Payload.
func (d *Data) Handle(ctx context.Context, req domain.Message, _ map[string]any) (Response, error) {
	var args dataArgs
	if err := DecodePayload(req.Intent, req.Payload, &args); err != nil {
		return Response{}, err
	}

	switch req.Intent {
	case OpGetCustomer:
		id, err := requireID(req.Intent, args.CustomerID)
		if err != nil {
			return Response{}, err
		}
		c, err := d.GetCustomer(ctx, id)
		if err != nil {
			return Response{}, err
		}
		return Resolved(map[string]any{"customer": c}), nil

	case OpListCustomers:
		customers, err := d.ListCustomers(ctx, domain.CustomerFilter{Status: args.Status, Limit: args.Limit})
		if err != nil {
			return Response{}, err
		}
		return Resolved(map[string]any{"customers": customers}), nil

	case OpUpdateCustomer:
		id, err := requireID(req.Intent, args.CustomerID)
		if err != nil {
			return Response{}, err
		}
		if err := d.UpdateCustomer(ctx, id, args.Fields); err != nil {
			return Response{}, err
		}
		return Resolved(map[string]any{"status": "updated", "customer_id": id}), nil

	case OpGetHistory:
		id, err := requireID(req.Intent, args.CustomerID)
		if err != nil {
			return Response{}, err
		}
		tickets, err := d.GetHistory(ctx, id)
		if err != nil {
			return Response{}, err
		}
		return Resolved(map[string]any{"tickets": tickets}), nil

	case OpCustomersWithOpenTickets:
		customers, err := d.CustomersWithOpenTickets(ctx, domain.CustomerFilter{Status: args.Status, Limit: args.Limit})
		if err != nil {
			return Response{}, err
		}
		return Resolved(map[string]any{"customers": customers}), nil
	}
	return Response{}, unknownOperation(d.Name(), req.Intent)
}
