// Package mcpserver exposes the data access port as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/repository"
)

const (
	ServerName    = "customer-service-data"
	ServerVersion = "1.0.0"

	// DefaultListLimit is the list_customers page size when none is given.
	DefaultListLimit = 10
)

// Tool names.
const (
	ToolGetCustomer                 = "get_customer"
	ToolListCustomers               = "list_customers"
	ToolUpdateCustomer              = "update_customer"
	ToolCreateTicket                = "create_ticket"
	ToolGetCustomerHistory          = "get_customer_history"
	ToolGetCustomersWithOpenTickets = "get_customers_with_open_tickets"
)

type tools struct {
	store domain.DataAccess
}

// New builds an MCP server whose tools read and write through store.
func New(store domain.DataAccess) *server.MCPServer {
	s := server.NewMCPServer(ServerName, ServerVersion, server.WithToolCapabilities(true))
	t := &tools{store: store}

	s.AddTool(mcp.NewTool(ToolGetCustomer,
		mcp.WithDescription("Get customer information by ID."),
		mcp.WithNumber("customer_id", mcp.Required(), mcp.Description("Customer ID (customers.id)")),
	), t.getCustomer)

	s.AddTool(mcp.NewTool(ToolListCustomers,
		mcp.WithDescription("List customers, optionally filtered by status."),
		mcp.WithString("status", mcp.Description("Customer status"), mcp.Enum(string(domain.CustomerStatusActive), string(domain.CustomerStatusDisabled))),
		mcp.WithNumber("limit", mcp.Description("Maximum number of customers (default 10)")),
	), t.listCustomers)

	s.AddTool(mcp.NewTool(ToolUpdateCustomer,
		mcp.WithDescription("Update customer fields. Only the given fields change."),
		mcp.WithNumber("customer_id", mcp.Required(), mcp.Description("Customer ID")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("email", mcp.Description("New email")),
		mcp.WithString("phone", mcp.Description("New phone")),
		mcp.WithString("status", mcp.Description("New status"), mcp.Enum(string(domain.CustomerStatusActive), string(domain.CustomerStatusDisabled))),
	), t.updateCustomer)

	s.AddTool(mcp.NewTool(ToolCreateTicket,
		mcp.WithDescription("Create a support ticket for a customer."),
		mcp.WithNumber("customer_id", mcp.Required(), mcp.Description("Customer ID")),
		mcp.WithString("issue", mcp.Required(), mcp.Description("Issue description")),
		mcp.WithString("priority", mcp.Description("Ticket priority (default medium)"),
			mcp.Enum(string(domain.TicketPriorityLow), string(domain.TicketPriorityMedium), string(domain.TicketPriorityHigh))),
	), t.createTicket)

	s.AddTool(mcp.NewTool(ToolGetCustomerHistory,
		mcp.WithDescription("Get a customer's ticket history, newest first."),
		mcp.WithNumber("customer_id", mcp.Required(), mcp.Description("Customer ID (tickets.customer_id)")),
	), t.getHistory)

	s.AddTool(mcp.NewTool(ToolGetCustomersWithOpenTickets,
		mcp.WithDescription("List customers that have open tickets, optionally filtered by customer status."),
		mcp.WithString("status", mcp.Description("Customer status"), mcp.Enum(string(domain.CustomerStatusActive), string(domain.CustomerStatusDisabled))),
		mcp.WithNumber("limit", mcp.Description("Maximum number of customers (default 50)")),
	), t.customersWithOpenTickets)

	return s
}

// ServeStdio serves s over stdin/stdout until the input closes.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// HTTPHandler serves s over streamable HTTP.
func HTTPHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s)
}

func (t *tools) getCustomer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	customer, err := t.store.GetCustomer(ctx, id)
	if err != nil {
		return toolError(ToolGetCustomer, err), nil
	}
	return jsonResult(customer)
}

func (t *tools) listCustomers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter, err := customerFilter(req, DefaultListLimit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	customers, err := t.store.ListCustomers(ctx, filter)
	if err != nil {
		return toolError(ToolListCustomers, err), nil
	}
	return jsonResult(map[string]any{"customers": customers, "count": len(customers)})
}

func (t *tools) updateCustomer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fields := domain.CustomerFields{}
	args := req.GetArguments()
	for _, key := range []string{"name", "email", "phone", "status"} {
		if v, ok := args[key]; ok {
			fields[key] = v
		}
	}
	if err := t.store.UpdateCustomer(ctx, id, fields); err != nil {
		return toolError(ToolUpdateCustomer, err), nil
	}

	customer, err := t.store.GetCustomer(ctx, id)
	if err != nil {
		return toolError(ToolUpdateCustomer, err), nil
	}
	return jsonResult(map[string]any{"success": true, "customer": customer})
}

func (t *tools) createTicket(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	issue, err := req.RequireString("issue")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	priority := domain.TicketPriority(req.GetString("priority", string(domain.TicketPriorityMedium)))

	ticketID, err := t.store.CreateTicket(ctx, domain.NewTicket{CustomerID: id, Issue: issue, Priority: priority})
	if err != nil {
		return toolError(ToolCreateTicket, err), nil
	}
	log.Info().Int64("customer_id", id).Int64("ticket_id", ticketID).Msg("mcp: ticket created")
	return jsonResult(map[string]any{"success": true, "ticket_id": ticketID})
}

func (t *tools) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := customerID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tickets, err := t.store.GetHistory(ctx, id)
	if err != nil {
		return toolError(ToolGetCustomerHistory, err), nil
	}
	return jsonResult(map[string]any{"customer_id": id, "tickets": tickets, "count": len(tickets)})
}

func (t *tools) customersWithOpenTickets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter, err := customerFilter(req, repository.DefaultOpenTicketsLimit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	customers, err := t.store.CustomersWithOpenTickets(ctx, filter)
	if err != nil {
		return toolError(ToolGetCustomersWithOpenTickets, err), nil
	}
	return jsonResult(map[string]any{"customers": customers, "count": len(customers)})
}

func customerID(req mcp.CallToolRequest) (int64, error) {
	v, err := req.RequireFloat("customer_id")
	if err != nil {
		return 0, err
	}
	if v <= 0 || v != math.Trunc(v) || v > math.MaxInt64 {
		return 0, fmt.Errorf("customer_id must be a positive integer")
	}
	return int64(v), nil
}

func customerFilter(req mcp.CallToolRequest, defaultLimit int) (domain.CustomerFilter, error) {
	filter := domain.CustomerFilter{
		Status: domain.CustomerStatus(req.GetString("status", "")),
		Limit:  defaultLimit,
	}
	if _, ok := req.GetArguments()["limit"]; ok {
		limit := req.GetFloat("limit", float64(defaultLimit))
		if limit < 1 || limit != math.Trunc(limit) {
			return filter, fmt.Errorf("limit must be a positive integer")
		}
		filter.Limit = int(limit)
	}
	return filter, nil
}

// toolError reports a domain failure as a tool-level error result.
func toolError(tool string, err error) *mcp.CallToolResult {
	log.Warn().Err(err).Str("tool", tool).Msg("mcp tool failed")
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
