package domain

import "time"

// Customer represents a customer record.
type Customer struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Status    CustomerStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Ticket represents a support ticket owned by a customer.
type Ticket struct {
	ID         int64          `json:"id"`
	CustomerID int64          `json:"customer_id"`
	Issue      string         `json:"issue"`
	Status     TicketStatus   `json:"status"`
	Priority   TicketPriority `json:"priority"`
	CreatedAt  time.Time      `json:"created_at"`
}

// CustomerFilter narrows customer listings. Zero values mean "no constraint".
type CustomerFilter struct {
	Status CustomerStatus `json:"status,omitempty"`
	Limit  int            `json:"limit,omitempty"`
}

// CustomerFields is a partial customer update keyed by column name.
// Allowed keys are name, email, phone and status.
type CustomerFields map[string]any

// NewTicket is the input for ticket creation.
type NewTicket struct {
	CustomerID int64          `json:"customer_id"`
	Issue      string         `json:"issue"`
	Priority   TicketPriority `json:"priority,omitempty"`
}

// OpenTicketSummary reports how many open tickets an active customer has.
type OpenTicketSummary struct {
	Customer         string `json:"customer"`
	CustomerID       int64  `json:"customer_id"`
	OpenTicketsCount int    `json:"open_tickets_count"`
}

// Message is an immutable request passed between agents.
type Message struct {
	Sender  string         `json:"sender"`
	Intent  string         `json:"intent"`
	Payload map[string]any `json:"payload,omitempty"`
}

// NewMessage builds a message. A nil payload is replaced by an empty map.
func NewMessage(sender, intent string, payload map[string]any) Message {
	if payload == nil {
		payload = map[string]any{}
	}
	return Message{Sender: sender, Intent: intent, Payload: payload}
}
