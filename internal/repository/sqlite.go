// Package repository implements the customer data store on SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/policy"
)

// DefaultOpenTicketsLimit caps CustomersWithOpenTickets when no limit is given.
const DefaultOpenTicketsLimit = 50

// updatableColumns maps update keys to column names. Only these ever reach SQL.
var updatableColumns = map[string]string{
	"name":   "name",
	"email":  "email",
	"phone":  "phone",
	"status": "status",
}

// SQLiteStore implements domain.DataAccess using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	policy *policy.Engine
	now    func() time.Time
}

var _ domain.DataAccess = (*SQLiteStore)(nil)

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithPolicy sets the engine that validates customer updates.
func WithPolicy(engine *policy.Engine) Option {
	return func(s *SQLiteStore) { s.policy = engine }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) { s.now = now }
}

// NewSQLiteStore opens dsn and applies migrations.
func NewSQLiteStore(dsn string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	if store.policy == nil {
		store.policy = policy.MustDefault()
	}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'disabled')),
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tickets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id INTEGER NOT NULL,
			issue TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'in_progress', 'resolved')),
			priority TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high')),
			created_at DATETIME NOT NULL,
			FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_customer ON tickets(customer_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_status ON tickets(status)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetCustomer retrieves a customer by id.
func (s *SQLiteStore) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	const op = "get_customer"
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, status, created_at, updated_at
		FROM customers WHERE id = ?`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf(op, "customer %d", id)
	}
	if err != nil {
		return nil, domain.StorageError(op, err)
	}
	return c, nil
}

// ListCustomers lists customers ordered by id.
func (s *SQLiteStore) ListCustomers(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	const op = "list_customers"
	if err := validateFilter(op, filter); err != nil {
		return nil, err
	}

	query := `SELECT id, name, email, phone, status, created_at, updated_at FROM customers`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	return s.queryCustomers(ctx, op, query, args...)
}

// UpdateCustomer applies fields to a customer and refreshes updated_at.
// The new updated_at is always strictly later than the previous one.
func (s *SQLiteStore) UpdateCustomer(ctx context.Context, id int64, fields domain.CustomerFields) error {
	const op = "update_customer"

	violations, err := s.policy.CheckUpdate(ctx, fields)
	if err != nil {
		return domain.StorageError(op, err)
	}
	if len(violations) > 0 {
		return domain.Validationf(op, "%s", strings.Join(violations, "; "))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StorageError(op, err)
	}
	defer tx.Rollback()

	var prev time.Time
	err = tx.QueryRowContext(ctx, `SELECT updated_at FROM customers WHERE id = ?`, id).Scan(&prev)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf(op, "customer %d", id)
	}
	if err != nil {
		return domain.StorageError(op, err)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+2)
	for _, k := range keys {
		sets = append(sets, updatableColumns[k]+" = ?")
		args = append(args, fields[k])
	}

	updatedAt := s.now().UTC()
	if !updatedAt.After(prev) {
		updatedAt = prev.Add(time.Microsecond)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, updatedAt, id)

	query := fmt.Sprintf("UPDATE customers SET %s WHERE id = ?", strings.Join(sets, ", "))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isConstraintError(err) {
			return domain.Validationf(op, "%v", err)
		}
		return domain.StorageError(op, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.StorageError(op, err)
	}
	return nil
}

// GetHistory returns a customer's tickets, newest first. Unknown customers
// have an empty history.
func (s *SQLiteStore) GetHistory(ctx context.Context, customerID int64) ([]domain.Ticket, error) {
	const op = "get_history"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_id, issue, status, priority, created_at
		FROM tickets WHERE customer_id = ?
		ORDER BY created_at DESC, id DESC`, customerID)
	if err != nil {
		return nil, domain.StorageError(op, err)
	}
	defer rows.Close()

	tickets := []domain.Ticket{}
	for rows.Next() {
		var t domain.Ticket
		var status, priority string
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.Issue, &status, &priority, &t.CreatedAt); err != nil {
			return nil, domain.StorageError(op, err)
		}
		t.Status = domain.TicketStatus(status)
		t.Priority = domain.TicketPriority(priority)
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError(op, err)
	}
	return tickets, nil
}

// CreateTicket opens a ticket for an existing customer and returns its id.
// An empty priority defaults to medium.
func (s *SQLiteStore) CreateTicket(ctx context.Context, ticket domain.NewTicket) (int64, error) {
	const op = "create_ticket"
	if strings.TrimSpace(ticket.Issue) == "" {
		return 0, domain.Validationf(op, "issue is required")
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if !ticket.Priority.Valid() {
		return 0, domain.Validationf(op, "invalid priority %q", ticket.Priority)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, domain.StorageError(op, err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM customers WHERE id = ?`, ticket.CustomerID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NotFoundf(op, "customer %d", ticket.CustomerID)
	}
	if err != nil {
		return 0, domain.StorageError(op, err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO tickets (customer_id, issue, status, priority, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		ticket.CustomerID, ticket.Issue, string(domain.TicketStatusOpen), string(ticket.Priority), s.now().UTC())
	if err != nil {
		return 0, domain.StorageError(op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.StorageError(op, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, domain.StorageError(op, err)
	}
	return id, nil
}

// CustomersWithOpenTickets lists distinct customers that have at least one
// open ticket, optionally restricted by customer status.
func (s *SQLiteStore) CustomersWithOpenTickets(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	const op = "customers_with_open_tickets"
	if err := validateFilter(op, filter); err != nil {
		return nil, err
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultOpenTicketsLimit
	}

	query := `
		SELECT DISTINCT c.id, c.name, c.email, c.phone, c.status, c.created_at, c.updated_at
		FROM customers c
		INNER JOIN tickets t ON c.id = t.customer_id
		WHERE t.status = 'open'`
	var args []any
	if filter.Status != "" {
		query += ` AND c.status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY c.id LIMIT ?`
	args = append(args, limit)
	return s.queryCustomers(ctx, op, query, args...)
}

func (s *SQLiteStore) queryCustomers(ctx context.Context, op, query string, args ...any) ([]domain.Customer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.StorageError(op, err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, domain.StorageError(op, err)
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError(op, err)
	}
	return customers, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row scanner) (*domain.Customer, error) {
	var c domain.Customer
	var email, phone sql.NullString
	var status string
	if err := row.Scan(&c.ID, &c.Name, &email, &phone, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Email = email.String
	c.Phone = phone.String
	c.Status = domain.CustomerStatus(status)
	return &c, nil
}

func validateFilter(op string, filter domain.CustomerFilter) error {
	if filter.Status != "" && !filter.Status.Valid() {
		return domain.Validationf(op, "invalid status %q", filter.Status)
	}
	if filter.Limit < 0 {
		return domain.Validationf(op, "limit must not be negative")
	}
	return nil
}

func isConstraintError(err error) bool {
	return strings.Contains(err.Error(), "constraint failed")
}
