package domain

import "context"

// DataAccess is the storage capability the specialists depend on.
//
// GetCustomer returns an ErrNotFound error for unknown ids. UpdateCustomer
// rejects unknown or malformed fields with ErrValidation and refreshes
// updated_at on success. GetHistory returns tickets newest first and an empty
// slice for customers without tickets.
type DataAccess interface {
	GetCustomer(ctx context.Context, id int64) (*Customer, error)
	ListCustomers(ctx context.Context, filter CustomerFilter) ([]Customer, error)
	UpdateCustomer(ctx context.Context, id int64, fields CustomerFields) error
	GetHistory(ctx context.Context, customerID int64) ([]Ticket, error)
	CreateTicket(ctx context.Context, ticket NewTicket) (int64, error)
	CustomersWithOpenTickets(ctx context.Context, filter CustomerFilter) ([]Customer, error)
}
