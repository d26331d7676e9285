package main

import (
	"fmt"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/adapter/agentclient"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/policy"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/repository"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/router"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/specialist"
)

func openStore() (*repository.SQLiteStore, error) {
	store, err := repository.NewSQLiteStore(cfg.DatabaseURL, repository.WithPolicy(policy.MustDefault()))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func newAgentClient() *agentclient.Client {
	return agentclient.NewClient(
		agentclient.WithTimeout(cfg.AgentTimeout),
		agentclient.WithBreaker(cfg.BreakerMaxFailures, cfg.BreakerTimeout),
	)
}

// newLocalRouter wires all three agents into one process without A2A hops.
func newLocalRouter(store *repository.SQLiteStore) *router.Router {
	return router.New(specialist.NewData(store), specialist.NewSupport(store))
}

// newRemoteRouter reaches the data and support agents over A2A.
func newRemoteRouter(client *agentclient.Client) *router.Router {
	return router.New(
		specialist.NewRemoteData(client, cfg.DataURL),
		specialist.NewRemoteSupport(client, cfg.SupportURL),
	)
}
