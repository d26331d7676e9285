// Package session keeps per-conversation state: a bounded turn history and
// the customer id once the user has mentioned it.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/intent"
)

// DefaultHistoryLimit is the number of turns kept per session.
const DefaultHistoryLimit = 5

// Sender delivers a message with its context and returns the agent reply.
// enriched is the message with the context rendered inline.
type Sender interface {
	Send(ctx context.Context, bundle domain.ContextBundle, enriched string) (string, error)
}

// Session is one conversation. Sends are serialized; sessions share nothing.
type Session struct {
	mu         sync.Mutex
	id         string
	sender     Sender
	limit      int
	history    []domain.Turn
	customerID *int64
}

// Option configures a Session.
type Option func(*Session)

// WithHistoryLimit bounds the kept turns. Values below one are ignored.
func WithHistoryLimit(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithID sets the session id instead of a random uuid.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// New creates an empty session that sends through sender.
func New(sender Sender, opts ...Option) *Session {
	s := &Session{
		id:     uuid.NewString(),
		sender: sender,
		limit:  DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.history = make([]domain.Turn, 0, s.limit)
	return s
}

func (s *Session) ID() string { return s.id }

// Send delivers text with the session context. On success the turn is
// recorded and, if none is remembered yet, a customer id is taken from text.
// On failure the session is left unchanged.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundle := domain.ContextBundle{
		SessionID:  s.id,
		CustomerID: copyID(s.customerID),
		History:    append([]domain.Turn(nil), s.history...),
		Message:    text,
	}
	reply, err := s.sender.Send(ctx, bundle, Enrich(bundle))
	if err != nil {
		return "", err
	}

	s.record(domain.Turn{User: text, Agent: reply})
	if s.customerID == nil {
		if id, ok := intent.ExtractMarkedCustomerID(text); ok {
			s.customerID = &id
		}
	}
	return reply, nil
}

// record appends t, evicting the oldest turn once the bound is reached.
func (s *Session) record(t domain.Turn) {
	if len(s.history) == s.limit {
		copy(s.history, s.history[1:])
		s.history = s.history[:len(s.history)-1]
	}
	s.history = append(s.history, t)
}

// Clear forgets the history and the customer id.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = s.history[:0]
	s.customerID = nil
}

// History returns the kept turns, oldest first.
func (s *Session) History() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Turn(nil), s.history...)
}

// CustomerID returns the remembered customer id.
func (s *Session) CustomerID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.customerID == nil {
		return 0, false
	}
	return *s.customerID, true
}

const (
	enrichTurns   = 2
	enrichTextMax = 100
)

// Enrich renders the bundle as a single message: the known customer id, the
// last two turns truncated to 100 characters each, then the current message.
// Without context the message is returned unchanged.
func Enrich(b domain.ContextBundle) string {
	var parts []string
	if b.CustomerID != nil {
		parts = append(parts, fmt.Sprintf("[CONTEXT: Customer ID is %d]", *b.CustomerID))
	}

	recent := b.History
	if len(recent) > enrichTurns {
		recent = recent[len(recent)-enrichTurns:]
	}
	if len(recent) > 0 {
		parts = append(parts, "\n[RECENT CONVERSATION:")
		for i, t := range recent {
			parts = append(parts,
				fmt.Sprintf("  Turn %d:", i+1),
				"    User: "+truncate(t.User, enrichTextMax),
				"    Agent: "+truncate(t.Agent, enrichTextMax),
			)
		}
		parts = append(parts, "]\n")
	}

	if len(parts) == 0 {
		return b.Message
	}
	return strings.Join(parts, "\n") + "\n\nCURRENT MESSAGE: " + b.Message
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
