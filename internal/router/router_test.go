package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/specialist"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/tests/helpers"
)

type fakeData struct {
	customers   []domain.Customer
	tickets     map[int64][]domain.Ticket
	historyErr  map[int64]error
	listErr     error
	historyCall []int64
}

func (f *fakeData) GetCustomer(_ context.Context, id int64) (*domain.Customer, error) {
	for _, c := range f.customers {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, domain.NotFoundf("get_customer", "customer %d", id)
}

func (f *fakeData) ListCustomers(_ context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Customer
	for _, c := range f.customers {
		if filter.Status == "" || c.Status == filter.Status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeData) GetHistory(_ context.Context, id int64) ([]domain.Ticket, error) {
	f.historyCall = append(f.historyCall, id)
	if err := f.historyErr[id]; err != nil {
		return nil, err
	}
	return f.tickets[id], nil
}

type fakeSupport struct {
	resp specialist.Response
	err  error
	got  []specialist.SupportRequest
}

func (f *fakeSupport) HandleSupport(_ context.Context, req specialist.SupportRequest) (specialist.Response, error) {
	f.got = append(f.got, req)
	return f.resp, f.err
}

func ptr(v int64) *int64 { return &v }

func TestDirectLookup(t *testing.T) {
	data := &fakeData{customers: []domain.Customer{
		{ID: 5, Name: "Alice Smith", Email: "alice@example.com", Status: domain.CustomerStatusActive},
	}}
	r := New(data, &fakeSupport{})

	res, err := r.Route(context.Background(), "Get customer information for ID 5", Context{})
	require.NoError(t, err)
	assert.Equal(t, BranchDirectLookup, res.Branch)
	assert.Equal(t, domain.IntentSet{domain.IntentGetCustomer}, res.Intents)
	assert.Contains(t, res.Reply, "Alice Smith")
	require.NotNil(t, res.Customer)
	assert.Equal(t, int64(5), res.Customer.ID)
}

func TestDirectLookupUsesRememberedCustomer(t *testing.T) {
	data := &fakeData{customers: []domain.Customer{{ID: 7, Name: "Remembered", Status: domain.CustomerStatusActive}}}
	r := New(data, &fakeSupport{})

	res, err := r.Route(context.Background(), "get customer information please", Context{CustomerID: ptr(7)})
	require.NoError(t, err)
	assert.Equal(t, BranchDirectLookup, res.Branch)
	assert.Contains(t, res.Reply, "Remembered")
}

func TestDirectLookupNotFoundPropagates(t *testing.T) {
	r := New(&fakeData{}, &fakeSupport{})

	_, err := r.Route(context.Background(), "Get customer information for ID 9", Context{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEscalationFetchesBillingContext(t *testing.T) {
	data := &fakeData{tickets: map[int64][]domain.Ticket{
		5: {{ID: 1, CustomerID: 5, Issue: "Double charge", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh}},
	}}
	support := specialist.NewSupport(nil)
	r := New(data, support)

	res, err := r.Route(context.Background(), "cancel my plan, billing issue", Context{CustomerID: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, BranchEscalation, res.Branch)
	assert.Equal(t, domain.IntentSet{domain.IntentCancellation, domain.IntentBilling}, res.Intents)
	require.NotNil(t, res.Support)
	assert.True(t, res.Support.Needs(specialist.ContextBillingHistory))
	assert.Equal(t, []int64{5}, data.historyCall)
	assert.Contains(t, res.Reply, "Escalation: billing context fetched")
	assert.Len(t, res.Billing, 1)
	assert.Contains(t, res.Render(), "Double charge")
}

func TestEscalationWithoutCustomerID(t *testing.T) {
	data := &fakeData{}
	r := New(data, specialist.NewSupport(nil))

	res, err := r.Route(context.Background(), "cancel my plan, billing issue", Context{})
	require.NoError(t, err)
	assert.Contains(t, res.Reply, EscalationMarker)
	assert.Empty(t, data.historyCall)
	assert.Nil(t, res.Billing)
}

func TestEscalationResolvedReturnedAsIs(t *testing.T) {
	data := &fakeData{}
	support := &fakeSupport{resp: specialist.Resolved(map[string]any{"status": "resolved", "message": "Cancelled."})}
	r := New(data, support)

	res, err := r.Route(context.Background(), "cancel, billing", Context{CustomerID: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, "Cancelled.", res.Reply)
	assert.Empty(t, data.historyCall)
}

func TestEscalationHistoryErrorPropagates(t *testing.T) {
	boom := domain.StorageError("get_history", errors.New("disk full"))
	data := &fakeData{historyErr: map[int64]error{5: boom}}
	r := New(data, specialist.NewSupport(nil))

	_, err := r.Route(context.Background(), "cancel my plan, billing issue", Context{CustomerID: ptr(5)})
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestEscalationRejectsUnknownResponseKind(t *testing.T) {
	r := New(&fakeData{}, &fakeSupport{resp: specialist.Response{Kind: "maybe"}})

	_, err := r.Route(context.Background(), "cancel my billing", Context{})
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func premiumFixture() *fakeData {
	return &fakeData{
		customers: []domain.Customer{
			{ID: 10, Name: "Premium Customer", Status: domain.CustomerStatusActive},
			{ID: 11, Name: "Regular Customer", Status: domain.CustomerStatusActive},
			{ID: 12, Name: "Premium Inactive", Status: domain.CustomerStatusDisabled},
		},
		tickets: map[int64][]domain.Ticket{
			10: {
				{ID: 100, CustomerID: 10, Issue: "Outage", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh},
				{ID: 101, CustomerID: 10, Issue: "Typo", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow},
				{ID: 102, CustomerID: 10, Issue: "Old outage", Status: domain.TicketStatusResolved, Priority: domain.TicketPriorityHigh},
			},
			11: {{ID: 110, CustomerID: 11, Issue: "Regular outage", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh}},
			12: {{ID: 120, CustomerID: 12, Issue: "Inactive outage", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh}},
		},
	}
}

func TestPremiumHighPriorityDecomposition(t *testing.T) {
	data := premiumFixture()
	r := New(data, &fakeSupport{})

	res, err := r.Route(context.Background(), "Show high-priority tickets for premium customers", Context{})
	require.NoError(t, err)
	assert.Equal(t, BranchPremium, res.Branch)
	require.Len(t, res.Tickets, 1)
	assert.Equal(t, int64(100), res.Tickets[0].ID)
	assert.Equal(t, "Found 1 high-priority tickets", res.Reply)
	assert.Equal(t, []int64{10}, data.historyCall)
}

func TestPremiumKeepsInProgressTickets(t *testing.T) {
	data := premiumFixture()
	data.tickets[10] = append(data.tickets[10], domain.Ticket{
		ID: 103, CustomerID: 10, Issue: "Escalated", Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityHigh,
	})
	r := New(data, &fakeSupport{})

	res, err := r.Route(context.Background(), "list high priority tickets", Context{})
	require.NoError(t, err)
	assert.Len(t, res.Tickets, 2)
}

func TestPremiumPartialFailureContinues(t *testing.T) {
	data := premiumFixture()
	data.customers = append(data.customers, domain.Customer{ID: 13, Name: "Another Premium", Status: domain.CustomerStatusActive})
	data.historyErr = map[int64]error{13: domain.StorageError("get_history", errors.New("timeout"))}
	r := New(data, &fakeSupport{})

	res, err := r.Route(context.Background(), "high-priority tickets for premium customers", Context{})
	require.NoError(t, err)
	assert.Len(t, res.Tickets, 1)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, int64(13), res.Failures[0].CustomerID)
	assert.Contains(t, res.Render(), "customer 13")
}

func TestPremiumListFailureAborts(t *testing.T) {
	data := premiumFixture()
	data.listErr = domain.StorageError("list_customers", errors.New("locked"))
	r := New(data, &fakeSupport{})

	_, err := r.Route(context.Background(), "high-priority tickets", Context{})
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestActiveCustomersWithOpenTickets(t *testing.T) {
	store := helpers.NewSeededSQLiteStore(t)
	r := New(specialist.NewData(store), specialist.NewSupport(store))

	res, err := r.Route(context.Background(), "Show me all active customers who have open tickets", Context{})
	require.NoError(t, err)
	assert.Equal(t, BranchOpenTickets, res.Branch)
	assert.Equal(t, "Found 4 active customers with open tickets", res.Reply)

	byID := map[int64]int{}
	for _, d := range res.Details {
		byID[d.CustomerID] = d.OpenTicketsCount
	}
	assert.Equal(t, map[int64]int{1: 1, 2: 1, 5: 1, 12345: 2}, byID)
}

func TestActiveCustomersPartialFailure(t *testing.T) {
	data := premiumFixture()
	data.historyErr = map[int64]error{11: errors.New("unreachable")}
	r := New(data, &fakeSupport{})

	res, err := r.Route(context.Background(), "all active customers with open tickets", Context{})
	require.NoError(t, err)
	require.Len(t, res.Details, 1)
	assert.Equal(t, int64(10), res.Details[0].CustomerID)
	assert.Equal(t, 2, res.Details[0].OpenTicketsCount)
	require.Len(t, res.Failures, 1)
}

func TestDefaultDelegatesEmailUpdate(t *testing.T) {
	ctx := context.Background()
	store := helpers.NewSeededSQLiteStore(t)
	r := New(specialist.NewData(store), specialist.NewSupport(store))

	res, err := r.Route(ctx, "Update my email to new@email.com and show my ticket history for 12345", Context{})
	require.NoError(t, err)
	assert.Equal(t, BranchSupport, res.Branch)
	require.NotNil(t, res.Support)
	assert.Equal(t, "email_updated", res.Support.Status())

	c, err := store.GetCustomer(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, "new@email.com", c.Email)
}

func TestDefaultRendersNeedsContext(t *testing.T) {
	r := New(&fakeData{}, specialist.NewSupport(nil))

	res, err := r.Route(context.Background(), "I have a billing problem", Context{})
	require.NoError(t, err)
	assert.Equal(t, BranchSupport, res.Branch)
	assert.Equal(t, "Support needs additional context: billing_history", res.Reply)
}

func TestDefaultPassesRecentUserTurns(t *testing.T) {
	support := &fakeSupport{resp: specialist.Resolved(map[string]any{"status": "resolved", "message": "ok"})}
	r := New(&fakeData{}, support)

	history := []domain.Turn{
		{User: "first", Agent: "a"},
		{User: "second", Agent: "b"},
		{User: "third", Agent: "c"},
	}
	_, err := r.Route(context.Background(), "what now?", Context{CustomerID: ptr(3), History: history})
	require.NoError(t, err)
	require.Len(t, support.got, 1)
	assert.Equal(t, []string{"second", "third"}, support.got[0].Recent)
	assert.Equal(t, int64(3), *support.got[0].CustomerID)
}

func TestDefaultSupportErrorPropagates(t *testing.T) {
	r := New(&fakeData{}, &fakeSupport{err: domain.TransportError("handle_support", errors.New("refused"))})

	_, err := r.Route(context.Background(), "hello", Context{})
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestIsPremiumCustomer(t *testing.T) {
	assert.True(t, IsPremiumCustomer(domain.Customer{Name: "Priya Patel (Premium)"}))
	assert.True(t, IsPremiumCustomer(domain.Customer{Name: "PREMIUM account"}))
	assert.False(t, IsPremiumCustomer(domain.Customer{Name: "Bob Jones"}))
}
