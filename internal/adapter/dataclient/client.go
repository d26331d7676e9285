// Package dataclient implements the data access port over the data agent's
// REST API.
package dataclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
)

// Client talks to the data agent's /v1 routes.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ domain.DataAccess = (*Client)(nil)

// NewClient creates a client for the data agent at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient returns a copy of c using hc.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	cp := *c
	cp.httpClient = hc
	return &cp
}

type customersResponse struct {
	Customers []domain.Customer `json:"customers"`
}

type ticketsResponse struct {
	Tickets []domain.Ticket `json:"tickets"`
}

// CreateTicketResponse is the body returned by POST /v1/tickets.
type CreateTicketResponse struct {
	TicketID int64 `json:"ticket_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.do(ctx, "get_customer", http.MethodGet, fmt.Sprintf("/v1/customers/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCustomers(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	var out customersResponse
	if err := c.do(ctx, "list_customers", http.MethodGet, "/v1/customers"+filterQuery(filter), nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Customers), nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id int64, fields domain.CustomerFields) error {
	return c.do(ctx, "update_customer", http.MethodPatch, fmt.Sprintf("/v1/customers/%d", id), fields, nil)
}

func (c *Client) GetHistory(ctx context.Context, customerID int64) ([]domain.Ticket, error) {
	var out ticketsResponse
	if err := c.do(ctx, "get_history", http.MethodGet, fmt.Sprintf("/v1/customers/%d/tickets", customerID), nil, &out); err != nil {
		return nil, err
	}
	if out.Tickets == nil {
		return []domain.Ticket{}, nil
	}
	return out.Tickets, nil
}

func (c *Client) CreateTicket(ctx context.Context, t domain.NewTicket) (int64, error) {
	var out CreateTicketResponse
	if err := c.do(ctx, "create_ticket", http.MethodPost, "/v1/tickets", t, &out); err != nil {
		return 0, err
	}
	return out.TicketID, nil
}

func (c *Client) CustomersWithOpenTickets(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	var out customersResponse
	if err := c.do(ctx, "customers_with_open_tickets", http.MethodGet, "/v1/customers/open-tickets"+filterQuery(filter), nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Customers), nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return domain.Validationf(op, "encode request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return domain.TransportError(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.TransportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(op, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.TransportError(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// statusError maps an error response back to its domain category.
func statusError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body errorResponse
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.NewError(op, domain.ErrNotFound, msg)
	case resp.StatusCode == http.StatusBadRequest:
		return domain.NewError(op, domain.ErrValidation, msg)
	case resp.StatusCode == http.StatusBadGateway:
		return domain.TransportError(op, fmt.Errorf("%s", msg))
	case resp.StatusCode >= http.StatusInternalServerError:
		return domain.StorageError(op, fmt.Errorf("%s", msg))
	}
	return domain.TransportError(op, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg))
}

func filterQuery(f domain.CustomerFilter) string {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func nonNil(cs []domain.Customer) []domain.Customer {
	if cs == nil {
		return []domain.Customer{}
	}
	return cs
}
