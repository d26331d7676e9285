package mcpserver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/tests/helpers"
)

func newTestClient(t *testing.T) (*client.Client, domain.DataAccess) {
	t.Helper()
	store := helpers.NewSeededSQLiteStore(t)

	c, err := client.NewInProcessClient(New(store))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Start(ctx))

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "test", Version: "1.0.0"}
	_, err = c.Initialize(ctx, initReq)
	require.NoError(t, err)

	return c, store
}

func call(t *testing.T, c *client.Client, name string, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := c.CallTool(ctx, req)
	require.NoError(t, err)

	var text string
	for _, content := range res.Content {
		switch v := content.(type) {
		case mcp.TextContent:
			text += v.Text
		case *mcp.TextContent:
			text += v.Text
		}
	}
	return text, res.IsError
}

func TestListTools(t *testing.T) {
	c, _ := newTestClient(t)

	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		ToolGetCustomer,
		ToolListCustomers,
		ToolUpdateCustomer,
		ToolCreateTicket,
		ToolGetCustomerHistory,
		ToolGetCustomersWithOpenTickets,
	}, names)
}

func TestGetCustomerTool(t *testing.T) {
	c, _ := newTestClient(t)

	text, isErr := call(t, c, ToolGetCustomer, map[string]any{"customer_id": 5})
	require.False(t, isErr, text)

	var got domain.Customer
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.Equal(t, "Evan Wright", got.Name)

	text, isErr = call(t, c, ToolGetCustomer, map[string]any{"customer_id": 999})
	assert.True(t, isErr)
	assert.Contains(t, text, "not found")

	_, isErr = call(t, c, ToolGetCustomer, map[string]any{"customer_id": 1.5})
	assert.True(t, isErr)

	_, isErr = call(t, c, ToolGetCustomer, map[string]any{})
	assert.True(t, isErr)
}

func TestListCustomersToolDefaultsAndFilters(t *testing.T) {
	c, _ := newTestClient(t)

	var out struct {
		Customers []domain.Customer `json:"customers"`
		Count     int               `json:"count"`
	}

	text, isErr := call(t, c, ToolListCustomers, nil)
	require.False(t, isErr, text)
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, 6, out.Count)

	text, isErr = call(t, c, ToolListCustomers, map[string]any{"status": "disabled"})
	require.False(t, isErr, text)
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "Charlie Brown", out.Customers[0].Name)

	text, isErr = call(t, c, ToolListCustomers, map[string]any{"limit": 2})
	require.False(t, isErr, text)
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, 2, out.Count)

	_, isErr = call(t, c, ToolListCustomers, map[string]any{"limit": 0})
	assert.True(t, isErr)
}

func TestUpdateCustomerTool(t *testing.T) {
	c, store := newTestClient(t)

	text, isErr := call(t, c, ToolUpdateCustomer, map[string]any{"customer_id": 2, "phone": "555-2222"})
	require.False(t, isErr, text)

	got, err := store.GetCustomer(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "555-2222", got.Phone)
	assert.Equal(t, "bob@example.com", got.Email)

	text, isErr = call(t, c, ToolUpdateCustomer, map[string]any{"customer_id": 2, "status": "paused"})
	assert.True(t, isErr)
	assert.Contains(t, text, "status")

	_, isErr = call(t, c, ToolUpdateCustomer, map[string]any{"customer_id": 2})
	assert.True(t, isErr)
}

func TestCreateTicketAndHistoryTools(t *testing.T) {
	c, _ := newTestClient(t)

	text, isErr := call(t, c, ToolCreateTicket, map[string]any{"customer_id": 2, "issue": "Export fails", "priority": "high"})
	require.False(t, isErr, text)

	var created struct {
		TicketID int64 `json:"ticket_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &created))
	assert.Positive(t, created.TicketID)

	text, isErr = call(t, c, ToolGetCustomerHistory, map[string]any{"customer_id": 2})
	require.False(t, isErr, text)

	var history struct {
		Tickets []domain.Ticket `json:"tickets"`
		Count   int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &history))
	require.Equal(t, 2, history.Count)
	assert.Equal(t, created.TicketID, history.Tickets[0].ID)
	assert.Equal(t, domain.TicketPriorityHigh, history.Tickets[0].Priority)

	_, isErr = call(t, c, ToolCreateTicket, map[string]any{"customer_id": 2, "issue": "x", "priority": "urgent"})
	assert.True(t, isErr)

	_, isErr = call(t, c, ToolCreateTicket, map[string]any{"customer_id": 2})
	assert.True(t, isErr)
}

func TestCustomersWithOpenTicketsTool(t *testing.T) {
	c, _ := newTestClient(t)

	text, isErr := call(t, c, ToolGetCustomersWithOpenTickets, map[string]any{"status": "active"})
	require.False(t, isErr, text)

	var out struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, 4, out.Count)
}
