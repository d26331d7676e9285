package repository

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
)

//go:embed seed.yaml
var defaultSeed []byte

// Fixtures is the seed data set.
type Fixtures struct {
	Customers []SeedCustomer `yaml:"customers"`
	Tickets   []SeedTicket   `yaml:"tickets"`
}

type SeedCustomer struct {
	ID     int64                 `yaml:"id"`
	Name   string                `yaml:"name"`
	Email  string                `yaml:"email"`
	Phone  string                `yaml:"phone"`
	Status domain.CustomerStatus `yaml:"status"`
}

type SeedTicket struct {
	CustomerID int64                 `yaml:"customer_id"`
	Issue      string                `yaml:"issue"`
	Status     domain.TicketStatus   `yaml:"status"`
	Priority   domain.TicketPriority `yaml:"priority"`
}

// DefaultFixtures returns the embedded fixtures.
func DefaultFixtures() (*Fixtures, error) {
	return ParseFixtures(defaultSeed)
}

// ParseFixtures decodes YAML fixtures.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &f, nil
}

// Seed replaces all data with the given fixtures. Tickets get increasing
// created_at values in fixture order, so later fixtures are newer.
func (s *SQLiteStore) Seed(ctx context.Context, f *Fixtures) error {
	const op = "seed"
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StorageError(op, err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM tickets`,
		`DELETE FROM customers`,
		`DELETE FROM sqlite_sequence WHERE name IN ('tickets', 'customers')`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return domain.StorageError(op, err)
		}
	}

	base := s.now().UTC().Add(-time.Duration(len(f.Tickets)+1) * time.Minute)
	for _, c := range f.Customers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO customers (id, name, email, phone, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Email, c.Phone, string(c.Status), base, base); err != nil {
			return domain.StorageError(op, fmt.Errorf("customer %d: %w", c.ID, err))
		}
	}
	for i, t := range f.Tickets {
		createdAt := base.Add(time.Duration(i+1) * time.Minute)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tickets (customer_id, issue, status, priority, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			t.CustomerID, t.Issue, string(t.Status), string(t.Priority), createdAt); err != nil {
			return domain.StorageError(op, fmt.Errorf("ticket %q: %w", t.Issue, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.StorageError(op, err)
	}
	return nil
}

// SeedDefaults resets the store to the embedded fixtures.
func (s *SQLiteStore) SeedDefaults(ctx context.Context) error {
	f, err := DefaultFixtures()
	if err != nil {
		return err
	}
	return s.Seed(ctx, f)
}
