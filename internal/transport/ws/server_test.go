package ws

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
)

// recordingSender answers "reply: <message>" and fails on "fail".
type recordingSender struct {
	mu      sync.Mutex
	bundles []domain.ContextBundle
}

func (r *recordingSender) Send(_ context.Context, bundle domain.ContextBundle, _ string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bundles = append(r.bundles, bundle)
	if bundle.Message == "fail" {
		return "", errors.New("router unavailable")
	}
	return "reply: " + bundle.Message, nil
}

func newTestServer(t *testing.T, sender *recordingSender) string {
	t.Helper()
	e := echo.New()
	cfg := DefaultConfig()
	cfg.HistoryLimit = 2
	NewServer(sender, cfg).RegisterRoutes(e)

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func dial(t *testing.T, addr string) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := Dial(ctx, addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestChatConversation(t *testing.T) {
	sender := &recordingSender{}
	client := dial(t, newTestServer(t, sender))
	assert.NotEmpty(t, client.SessionID())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	reply, err := client.Send(ctx, "My customer ID is 12345")
	require.NoError(t, err)
	assert.Equal(t, "reply: My customer ID is 12345", reply)

	_, err = client.Send(ctx, "show my tickets")
	require.NoError(t, err)

	sender.mu.Lock()
	last := sender.bundles[len(sender.bundles)-1]
	sender.mu.Unlock()
	require.NotNil(t, last.CustomerID)
	assert.Equal(t, int64(12345), *last.CustomerID)
	assert.Equal(t, client.SessionID(), last.SessionID)

	history, err := client.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "My customer ID is 12345", history[0].User)
}

func TestChatHistoryBounded(t *testing.T) {
	client := dial(t, newTestServer(t, &recordingSender{}))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, msg := range []string{"one", "two", "three"} {
		_, err := client.Send(ctx, msg)
		require.NoError(t, err)
	}

	history, err := client.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "two", history[0].User)
	assert.Equal(t, "three", history[1].User)
}

func TestChatClear(t *testing.T) {
	sender := &recordingSender{}
	client := dial(t, newTestServer(t, sender))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := client.Send(ctx, "customer id 5")
	require.NoError(t, err)
	require.NoError(t, client.Clear(ctx))

	history, err := client.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = client.Send(ctx, "hello again")
	require.NoError(t, err)
	sender.mu.Lock()
	last := sender.bundles[len(sender.bundles)-1]
	sender.mu.Unlock()
	assert.Nil(t, last.CustomerID)
	assert.Empty(t, last.History)
}

func TestChatSendFailureLeavesSessionUnchanged(t *testing.T) {
	client := dial(t, newTestServer(t, &recordingSender{}))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := client.Send(ctx, "fail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "router unavailable")

	history, err := client.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestChatRejectsBadFrames(t *testing.T) {
	addr := newTestServer(t, &recordingSender{})
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, TypeError, f.Type)
	assert.Equal(t, ErrorCodeInvalidMessage, f.Code)

	require.NoError(t, conn.WriteJSON(Frame{Type: "dance"}))
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, TypeError, f.Type)
	assert.Contains(t, f.Message, "dance")

	require.NoError(t, conn.WriteJSON(Frame{Type: TypeMessage}))
	f = Frame{}
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, TypeError, f.Type)
	assert.Equal(t, "text is required", f.Message)
}

// blockingSender holds every turn until its context ends.
type blockingSender struct {
	started   chan struct{}
	cancelled chan struct{}
}

func (b *blockingSender) Send(ctx context.Context, _ domain.ContextBundle, _ string) (string, error) {
	close(b.started)
	select {
	case <-ctx.Done():
		close(b.cancelled)
		return "", ctx.Err()
	case <-time.After(5 * time.Second):
		return "late reply", nil
	}
}

func TestChatDisconnectCancelsTurnInFlight(t *testing.T) {
	sender := &blockingSender{started: make(chan struct{}), cancelled: make(chan struct{})}
	e := echo.New()
	NewServer(sender, DefaultConfig()).RegisterRoutes(e)
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Frame{Type: TypeMessage, Text: "I need help upgrading my account"}))

	select {
	case <-sender.started:
	case <-time.After(2 * time.Second):
		t.Fatal("turn never started")
	}
	require.NoError(t, conn.Close())

	select {
	case <-sender.cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("turn was not cancelled after the client went away")
	}
}
