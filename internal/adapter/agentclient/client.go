// Package agentclient provides the A2A client used to reach peer agents:
// card discovery with an explicit cache, then JSON-RPC message/send calls
// guarded by a per-address circuit breaker.
package agentclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/a2a"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/specialist"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/tracer"
)

// Defaults used when no option overrides them.
const (
	DefaultTimeout            = 30 * time.Second
	DefaultBreakerMaxFailures = uint32(5)
	DefaultBreakerTimeout     = 30 * time.Second
)

// Client is an A2A client for peer agents.
type Client struct {
	httpClient  *http.Client
	cache       CardCache
	timeout     time.Duration
	maxFailures uint32
	openTimeout time.Duration

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[*a2a.Message]
}

var _ specialist.Transport = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCardCache injects the card cache.
func WithCardCache(cache CardCache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithTimeout bounds every outbound call, card lookup included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithBreaker sets how many consecutive transport failures open a breaker
// and how long it stays open.
func WithBreaker(maxFailures uint32, openTimeout time.Duration) Option {
	return func(c *Client) {
		if maxFailures > 0 {
			c.maxFailures = maxFailures
		}
		if openTimeout > 0 {
			c.openTimeout = openTimeout
		}
	}
}

// NewClient creates a client with an in-memory card cache.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{},
		cache:       NewMemoryCardCache(),
		timeout:     DefaultTimeout,
		maxFailures: DefaultBreakerMaxFailures,
		openTimeout: DefaultBreakerTimeout,
		breakers:    make(map[string]*gobreaker.CircuitBreaker[*a2a.Message]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Card returns the agent card served at addr. Only successful lookups are
// cached.
func (c *Client) Card(ctx context.Context, addr string) (*a2a.AgentCard, error) {
	addr = normalize(addr)
	if card, ok := c.cache.Get(addr); ok {
		return card, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr+a2a.CardPath, nil)
	if err != nil {
		return nil, domain.TransportError("card", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.TransportError("card", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, domain.TransportError("card", fmt.Errorf("%s returned status %d: %s", addr, resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var card a2a.AgentCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, domain.TransportError("card", fmt.Errorf("malformed card from %s: %w", addr, err))
	}
	if card.URL == "" {
		return nil, domain.TransportError("card", fmt.Errorf("card from %s has no url", addr))
	}

	c.cache.Put(addr, &card)
	log.Debug().Str("addr", addr).Str("agent", card.Name).Msg("agent card cached")
	return &card, nil
}

// Send delivers msg to the agent at addr and returns its structured response.
func (c *Client) Send(ctx context.Context, addr string, msg domain.Message) (specialist.Response, error) {
	return c.send(ctx, addr, envelope{text: msg.Intent}, msg)
}

type envelope struct {
	text      string
	contextID string
}

func (c *Client) send(ctx context.Context, addr string, env envelope, msg domain.Message) (resp specialist.Response, err error) {
	addr = normalize(addr)
	ctx, span := tracer.StartSpan(ctx, "agentclient.send",
		tracer.StringAttr("addr", addr),
		tracer.StringAttr("operation", msg.Intent),
	)
	defer func() { tracer.End(span, err) }()

	card, err := c.Card(ctx, addr)
	if err != nil {
		return specialist.Response{}, err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return specialist.Response{}, domain.Validationf(msg.Intent, "encode message: %v", err)
	}
	out := a2a.Message{
		Kind:      "message",
		MessageID: ulid.Make().String(),
		ContextID: env.contextID,
		Role:      a2a.RoleUser,
		Parts: []a2a.Part{
			{Kind: a2a.PartText, Text: env.text},
			{Kind: a2a.PartData, Data: data},
		},
	}

	log.Debug().Str("addr", addr).Str("operation", msg.Intent).Str("message_id", out.MessageID).Msg("a2a send")

	result, err := c.breaker(addr).Execute(func() (*a2a.Message, error) {
		return c.post(ctx, card.URL, out)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return specialist.Response{}, domain.TransportError(msg.Intent, fmt.Errorf("%s: %w", addr, err))
		}
		return specialist.Response{}, err
	}

	raw := result.DataPart()
	if raw == nil {
		return specialist.Response{}, domain.TransportError(msg.Intent, fmt.Errorf("reply from %s has no data part", addr))
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return specialist.Response{}, domain.TransportError(msg.Intent, fmt.Errorf("decode reply from %s: %w", addr, err))
	}
	if err := resp.Validate(); err != nil {
		return specialist.Response{}, domain.TransportError(msg.Intent, err)
	}
	return resp, nil
}

// post performs one JSON-RPC message/send call.
func (c *Client) post(ctx context.Context, url string, msg a2a.Message) (*a2a.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params, err := json.Marshal(a2a.SendParams{Message: msg})
	if err != nil {
		return nil, domain.TransportError("send", err)
	}
	id, err := json.Marshal(uuid.NewString())
	if err != nil {
		return nil, domain.TransportError("send", err)
	}
	body, err := json.Marshal(a2a.Request{
		JSONRPC: a2a.JSONRPCVersion,
		ID:      id,
		Method:  a2a.MethodSend,
		Params:  params,
	})
	if err != nil {
		return nil, domain.TransportError("send", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, domain.TransportError("send", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.TransportError("send", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, domain.TransportError("send", fmt.Errorf("%s returned status %d: %s", url, httpResp.StatusCode, strings.TrimSpace(string(b))))
	}

	var rpcResp a2a.Response
	if err := json.NewDecoder(httpResp.Body).Decode(&rpcResp); err != nil {
		return nil, domain.TransportError("send", fmt.Errorf("decode response: %w", err))
	}
	if rpcResp.Error != nil {
		return nil, a2a.ErrorFromRPC(rpcResp.Error)
	}
	if rpcResp.Result == nil {
		return nil, domain.TransportError("send", errors.New("response has neither result nor error"))
	}
	return rpcResp.Result, nil
}

// breaker returns the circuit breaker for the normalised addr, creating it on
// first use.
// Only transport failures count against it; a NotFound from a healthy peer
// does not.
func (c *Client) breaker(addr string) *gobreaker.CircuitBreaker[*a2a.Message] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cb, ok := c.breakers[addr]; ok {
		return cb
	}
	maxFailures := c.maxFailures
	cb := gobreaker.NewCircuitBreaker[*a2a.Message](gobreaker.Settings{
		Name:        "agent:" + addr,
		MaxRequests: 1,
		Timeout:     c.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, domain.ErrTransport)
		},
	})
	c.breakers[addr] = cb
	return cb
}

func normalize(addr string) string {
	return strings.TrimSuffix(addr, "/")
}
