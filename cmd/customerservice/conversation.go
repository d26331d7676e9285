package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/adapter/agentclient"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/repository"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/session"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/transport/ws"
)

// conversation is what the REPL and the demo talk to.
type conversation interface {
	Send(ctx context.Context, text string) (string, error)
	Clear(ctx context.Context) error
	History(ctx context.Context) ([]domain.Turn, error)
	Close() error
}

// sessionConversation keeps the session in this process. The sender is
// either the in-process router or the router agent reached over A2A.
type sessionConversation struct {
	sess *session.Session
}

func (c *sessionConversation) Send(ctx context.Context, text string) (string, error) {
	return c.sess.Send(ctx, text)
}

func (c *sessionConversation) Clear(context.Context) error {
	c.sess.Clear()
	return nil
}

func (c *sessionConversation) History(context.Context) ([]domain.Turn, error) {
	return c.sess.History(), nil
}

func (c *sessionConversation) Close() error { return nil }

type dialMode int

const (
	modeA2A dialMode = iota
	modeLocal
	modeWebSocket
)

// dialer opens fresh conversations in one mode. Local mode shares one store
// between conversations.
type dialer struct {
	mode  dialMode
	store *repository.SQLiteStore
}

func newDialer(local, websocket bool) (*dialer, error) {
	switch {
	case local && websocket:
		return nil, fmt.Errorf("--local and --ws are mutually exclusive")
	case local:
		store, err := openStore()
		if err != nil {
			return nil, err
		}
		return &dialer{mode: modeLocal, store: store}, nil
	case websocket:
		return &dialer{mode: modeWebSocket}, nil
	}
	return &dialer{mode: modeA2A}, nil
}

func (d *dialer) open(ctx context.Context) (conversation, error) {
	opts := []session.Option{session.WithHistoryLimit(cfg.HistoryLimit)}

	switch d.mode {
	case modeLocal:
		return &sessionConversation{sess: session.New(newLocalRouter(d.store), opts...)}, nil
	case modeWebSocket:
		client, err := ws.Dial(ctx, wsURL(cfg.RouterURL))
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	sender := agentclient.NewSessionSender(newAgentClient(), cfg.RouterURL)
	return &sessionConversation{sess: session.New(sender, opts...)}, nil
}

func (d *dialer) describe() string {
	switch d.mode {
	case modeLocal:
		return "in-process agents (" + cfg.DatabaseURL + ")"
	case modeWebSocket:
		return wsURL(cfg.RouterURL)
	}
	return "router agent at " + cfg.RouterURL
}

func (d *dialer) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}

// wsURL turns the router's http(s) address into its chat endpoint.
func wsURL(routerURL string) string {
	u := strings.TrimSuffix(routerURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws"
}
