// Package domain defines the core domain models for the customer service system.
package domain

// CustomerStatus represents the lifecycle state of a customer account.
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusDisabled CustomerStatus = "disabled"
)

// Valid reports whether s is a known customer status.
func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerStatusActive, CustomerStatusDisabled:
		return true
	}
	return false
}

// TicketStatus represents the status of a support ticket.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
)

// Valid reports whether s is a known ticket status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved:
		return true
	}
	return false
}

// TicketPriority represents the priority of a support ticket.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// Valid reports whether p is a known ticket priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Intent is a named category of customer request.
type Intent string

const (
	IntentCancellation Intent = "cancellation"
	IntentBilling      Intent = "billing"
	IntentUpgrade      Intent = "upgrade"
	IntentGetCustomer  Intent = "get_customer"
	IntentTickets      Intent = "tickets"
	IntentSupport      Intent = "support"
)

// IntentSet is an ordered set of intents. A classified set is never empty.
type IntentSet []Intent

// Has reports whether the set contains intent.
func (s IntentSet) Has(intent Intent) bool {
	for _, i := range s {
		if i == intent {
			return true
		}
	}
	return false
}

// Strings returns the intents as plain strings, preserving order.
func (s IntentSet) Strings() []string {
	out := make([]string, len(s))
	for i, intent := range s {
		out[i] = string(intent)
	}
	return out
}
