package ws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
)

// Client is a chat client for the /ws endpoint. It is not safe for
// concurrent use.
type Client struct {
	conn      *websocket.Conn
	sessionID string
}

// Dial connects to addr and completes the hello handshake.
func Dial(ctx context.Context, addr string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	c := &Client{conn: conn}
	ack, err := c.roundTrip(ctx, newFrame(TypeHello, "", ""), TypeHelloAck)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("hello failed: %w", err)
	}
	c.sessionID = ack.SessionID
	return c, nil
}

// SessionID returns the server-side session id.
func (c *Client) SessionID() string { return c.sessionID }

// Send sends one chat message and waits for the reply.
func (c *Client) Send(ctx context.Context, text string) (string, error) {
	out := newFrame(TypeMessage, c.sessionID, "")
	out.Text = text
	reply, err := c.roundTrip(ctx, out, TypeReply)
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}

// Clear resets the server-side session.
func (c *Client) Clear(ctx context.Context) error {
	_, err := c.roundTrip(ctx, newFrame(TypeClear, c.sessionID, ""), TypeCleared)
	return err
}

// History returns the server-side turns, oldest first.
func (c *Client) History(ctx context.Context) ([]domain.Turn, error) {
	f, err := c.roundTrip(ctx, newFrame(TypeHistory, c.sessionID, ""), TypeHistory)
	if err != nil {
		return nil, err
	}
	return f.History, nil
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.conn.Close()
}

// roundTrip writes out and reads frames until the one answering it arrives.
func (c *Client) roundTrip(ctx context.Context, out Frame, want string) (Frame, error) {
	out.RequestID = "req_" + uuid.NewString()[:8]

	// A context without deadline yields the zero time, which clears any deadline.
	deadline, _ := ctx.Deadline()
	_ = c.conn.SetWriteDeadline(deadline)
	_ = c.conn.SetReadDeadline(deadline)

	if err := c.conn.WriteJSON(out); err != nil {
		return Frame{}, fmt.Errorf("write %s: %w", out.Type, err)
	}

	for {
		var in Frame
		if err := c.conn.ReadJSON(&in); err != nil {
			return Frame{}, fmt.Errorf("read %s: %w", want, err)
		}
		if in.RequestID != "" && in.RequestID != out.RequestID {
			continue
		}
		switch in.Type {
		case want:
			return in, nil
		case TypeError:
			return Frame{}, errors.New(in.Message)
		}
	}
}
