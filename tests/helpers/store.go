package helpers

import (
	"context"
	"testing"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/repository"
)

// NewTestSQLiteStore returns an empty in-memory store closed at test cleanup.
func NewTestSQLiteStore(t *testing.T, opts ...repository.Option) *repository.SQLiteStore {
	t.Helper()

	s, err := repository.NewSQLiteStore(":memory:", opts...)
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// NewSeededSQLiteStore returns an in-memory store loaded with the default fixtures.
func NewSeededSQLiteStore(t *testing.T, opts ...repository.Option) *repository.SQLiteStore {
	t.Helper()

	s := NewTestSQLiteStore(t, opts...)
	if err := s.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("failed to seed sqlite store: %v", err)
	}
	return s
}
