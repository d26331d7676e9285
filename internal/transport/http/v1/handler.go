// Package v1 provides the data agent's REST API over the data access port.
package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
)

// Handler handles HTTP requests.
type Handler struct {
	store domain.DataAccess
}

// NewHandler creates a new handler.
func NewHandler(store domain.DataAccess) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes registers the /v1 routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/v1/customers", h.ListCustomers)
	e.GET("/v1/customers/open-tickets", h.CustomersWithOpenTickets)
	e.GET("/v1/customers/:id", h.GetCustomer)
	e.PATCH("/v1/customers/:id", h.UpdateCustomer)
	e.GET("/v1/customers/:id/tickets", h.GetHistory)
	e.POST("/v1/tickets", h.CreateTicket)
}

// GetCustomer returns one customer.
// GET /v1/customers/:id
func (h *Handler) GetCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, err)
	}
	customer, err := h.store.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// ListCustomers lists customers, optionally by status.
// GET /v1/customers?status=active&limit=10
func (h *Handler) ListCustomers(c echo.Context) error {
	filter, err := queryFilter(c)
	if err != nil {
		return badRequest(c, err)
	}
	customers, err := h.store.ListCustomers(c.Request().Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"customers": customers})
}

// UpdateCustomer applies a partial update and returns the stored record.
// PATCH /v1/customers/:id
func (h *Handler) UpdateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, err)
	}

	// Decode the body only; c.Bind would also copy the :id path param into the map.
	var fields domain.CustomerFields
	if err := json.NewDecoder(c.Request().Body).Decode(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.store.UpdateCustomer(ctx, id, fields); err != nil {
		return writeError(c, err)
	}

	customer, err := h.store.GetCustomer(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// GetHistory returns a customer's tickets, newest first.
// GET /v1/customers/:id/tickets
func (h *Handler) GetHistory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, err)
	}
	tickets, err := h.store.GetHistory(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"tickets": tickets})
}

// CreateTicket opens a ticket.
// POST /v1/tickets
func (h *Handler) CreateTicket(c echo.Context) error {
	var req domain.NewTicket
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.CustomerID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "customer_id is required"})
	}

	id, err := h.store.CreateTicket(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"ticket_id": id})
}

// CustomersWithOpenTickets lists customers that have at least one open ticket.
// GET /v1/customers/open-tickets?status=active
func (h *Handler) CustomersWithOpenTickets(c echo.Context) error {
	filter, err := queryFilter(c)
	if err != nil {
		return badRequest(c, err)
	}
	customers, err := h.store.CustomersWithOpenTickets(c.Request().Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"customers": customers})
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid customer id")
	}
	return id, nil
}

func queryFilter(c echo.Context) (domain.CustomerFilter, error) {
	filter := domain.CustomerFilter{Status: domain.CustomerStatus(c.QueryParam("status"))}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, errors.New("invalid limit")
		}
		filter.Limit = limit
	}
	return filter, nil
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
}

// writeError maps a domain error category to its HTTP status.
func writeError(c echo.Context, err error) error {
	return c.JSON(StatusFor(err), map[string]string{"error": err.Error()})
}

// StatusFor returns the HTTP status for a domain error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTransport):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
