package specialist

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/tests/helpers"
)

// loopback delivers messages to in-process specialists through a JSON
// round trip, the way a network hop would.
type loopback struct {
	agents map[string]Specialist
	sent   []domain.Message
}

func (l *loopback) Send(ctx context.Context, addr string, msg domain.Message) (Response, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return Response{}, err
	}
	var wire domain.Message
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Response{}, err
	}
	l.sent = append(l.sent, wire)

	resp, err := l.agents[addr].Handle(ctx, wire, nil)
	if err != nil {
		return Response{}, err
	}
	raw, err = json.Marshal(resp)
	if err != nil {
		return Response{}, err
	}
	var out Response
	err = json.Unmarshal(raw, &out)
	return out, err
}

func TestRemoteDataRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := helpers.NewSeededSQLiteStore(t)
	lb := &loopback{agents: map[string]Specialist{"data": NewData(store)}}
	remote := NewRemoteData(lb, "data")

	c, err := remote.GetCustomer(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Evan Wright", c.Name)

	active, err := remote.ListCustomers(ctx, domain.CustomerFilter{Status: domain.CustomerStatusActive})
	require.NoError(t, err)
	assert.Len(t, active, 5)

	require.NoError(t, remote.UpdateCustomer(ctx, 5, domain.CustomerFields{"email": "evan.new@example.com"}))
	c, err = remote.GetCustomer(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "evan.new@example.com", c.Email)

	history, err := remote.GetHistory(ctx, 12345)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	open, err := remote.CustomersWithOpenTickets(ctx, domain.CustomerFilter{Status: domain.CustomerStatusActive})
	require.NoError(t, err)
	assert.Len(t, open, 4)

	assert.Equal(t, NameRouter, lb.sent[0].Sender)
	assert.Equal(t, OpGetCustomer, lb.sent[0].Intent)
}

func TestRemoteSupportPassesNeedsContext(t *testing.T) {
	ctx := context.Background()
	store := helpers.NewSeededSQLiteStore(t)
	lb := &loopback{agents: map[string]Specialist{"support": NewSupport(store)}}
	remote := NewRemoteSupport(lb, "support")

	resp, err := remote.HandleSupport(ctx, SupportRequest{Text: "billing problem", CustomerID: ptr(5)})
	require.NoError(t, err)
	assert.True(t, resp.Needs(ContextBillingHistory))

	id, err := remote.CreateTicket(ctx, 5, "Refund not received", domain.TicketPriorityHigh)
	require.NoError(t, err)
	assert.Positive(t, id)
}

type rogueTransport struct{ resp Response }

func (r rogueTransport) Send(context.Context, string, domain.Message) (Response, error) {
	return r.resp, nil
}

func TestRemoteRejectsUnknownKinds(t *testing.T) {
	remote := NewRemoteData(rogueTransport{resp: Response{Kind: "partial"}}, "data")
	_, err := remote.GetCustomer(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrTransport)

	remote = NewRemoteData(rogueTransport{resp: NeedsContext(ContextBillingHistory)}, "data")
	_, err = remote.GetHistory(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrTransport)
}
