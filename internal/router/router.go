// Package router implements the orchestrator that classifies a request and
// coordinates the data and support specialists to answer it.
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/intent"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/specialist"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/tracer"
)

// DataSource is the part of the data specialist the router reads from.
type DataSource interface {
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	ListCustomers(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error)
	GetHistory(ctx context.Context, customerID int64) ([]domain.Ticket, error)
}

// SupportDesk is the part of the support specialist the router delegates to.
type SupportDesk interface {
	HandleSupport(ctx context.Context, req specialist.SupportRequest) (specialist.Response, error)
}

// Branch names the routing decision that produced a Result.
type Branch string

const (
	BranchDirectLookup Branch = "direct_lookup"
	BranchEscalation   Branch = "escalation"
	BranchPremium      Branch = "premium_high_priority"
	BranchOpenTickets  Branch = "active_open_tickets"
	BranchSupport      Branch = "support"
)

// EscalationMarker prefixes every escalation reply.
const EscalationMarker = "Escalation:"

// recentUserTurns is how many earlier user messages support sees.
const recentUserTurns = 2

var (
	premiumPhrases       = []string{"high-priority tickets", "high priority tickets"}
	activeCustomerPhrase = "active customers"
	openTicketsPhrase    = "open tickets"
)

// Context is caller-supplied conversation state.
type Context struct {
	CustomerID *int64
	History    []domain.Turn
}

// Failure records one skipped item in a best-effort plan.
type Failure struct {
	CustomerID int64  `json:"customer_id"`
	Step       string `json:"step"`
	Error      string `json:"error"`
}

// Result is the outcome of routing one request.
type Result struct {
	Reply      string                     `json:"reply"`
	Branch     Branch                     `json:"branch"`
	Intents    domain.IntentSet           `json:"intents"`
	CustomerID *int64                     `json:"customer_id,omitempty"`
	Customer   *domain.Customer           `json:"customer,omitempty"`
	Billing    []domain.Ticket            `json:"billing,omitempty"`
	Tickets    []domain.Ticket            `json:"tickets,omitempty"`
	Details    []domain.OpenTicketSummary `json:"details,omitempty"`
	Support    *specialist.Response       `json:"support,omitempty"`
	Failures   []Failure                  `json:"failures,omitempty"`
}

// Router is a stateless dispatcher over a data source and a support desk.
type Router struct {
	data    DataSource
	support SupportDesk
}

// New creates a router.
func New(data DataSource, support SupportDesk) *Router {
	return &Router{data: data, support: support}
}

// IsPremiumCustomer reports whether c gets premium treatment.
func IsPremiumCustomer(c domain.Customer) bool {
	return strings.Contains(strings.ToLower(c.Name), "premium")
}

// Route answers text. The first matching branch wins: direct lookup,
// cancellation with billing escalation, premium high-priority tickets,
// active customers with open tickets, then support.
func (r *Router) Route(ctx context.Context, text string, rc Context) (*Result, error) {
	intents := intent.Classify(text)
	res := &Result{Intents: intents, CustomerID: customerID(text, rc)}

	ctx, span := tracer.StartSpan(ctx, "router.route",
		tracer.StringAttr("intents", strings.Join(intents.Strings(), ",")))
	var err error
	defer func() { tracer.End(span, err) }()

	logger := log.With().Strs("intents", intents.Strings()).Str("customer_id", idString(res.CustomerID)).Logger()

	switch {
	case intents.Has(domain.IntentGetCustomer) && res.CustomerID != nil:
		res.Branch = BranchDirectLookup
		err = r.directLookup(ctx, res)
	case intents.Has(domain.IntentCancellation) && intents.Has(domain.IntentBilling):
		res.Branch = BranchEscalation
		err = r.escalate(ctx, text, res)
	case intent.ContainsAny(text, premiumPhrases...):
		res.Branch = BranchPremium
		err = r.premiumHighPriority(ctx, res)
	case intent.ContainsAny(text, activeCustomerPhrase) && intent.ContainsAny(text, openTicketsPhrase):
		res.Branch = BranchOpenTickets
		err = r.activeWithOpenTickets(ctx, res)
	default:
		res.Branch = BranchSupport
		err = r.delegate(ctx, text, rc, res)
	}
	span.SetAttributes(tracer.StringAttr("branch", string(res.Branch)), tracer.IntAttr("failures", len(res.Failures)))
	if res.CustomerID != nil {
		span.SetAttributes(tracer.Int64Attr("customer_id", *res.CustomerID))
	}

	if err != nil {
		logger.Debug().Err(err).Str("branch", string(res.Branch)).Msg("routing failed")
		return nil, err
	}
	logger.Debug().Str("branch", string(res.Branch)).Int("failures", len(res.Failures)).Msg("routed")
	return res, nil
}

func (r *Router) directLookup(ctx context.Context, res *Result) error {
	id := *res.CustomerID
	c, err := r.data.GetCustomer(ctx, id)
	if err != nil {
		return err
	}
	res.Customer = c
	res.Reply = fmt.Sprintf("Customer %d: %s (email %s, phone %s, status %s)", id, c.Name, c.Email, c.Phone, c.Status)
	return nil
}

func (r *Router) escalate(ctx context.Context, text string, res *Result) error {
	resp, err := r.support.HandleSupport(ctx, specialist.SupportRequest{Text: text, CustomerID: res.CustomerID})
	if err != nil {
		return err
	}
	if err := resp.Validate(); err != nil {
		return domain.TransportError("handle_support", err)
	}
	res.Support = &resp

	switch resp.Kind {
	case specialist.KindResolved:
		res.Reply = renderSupport(resp)
		return nil
	case specialist.KindNeedsContext:
		if !resp.Needs(specialist.ContextBillingHistory) {
			res.Reply = fmt.Sprintf("%s support requested %s", EscalationMarker, joinContext(resp.Required))
			return nil
		}
	}

	if res.CustomerID == nil {
		res.Reply = EscalationMarker + " billing context required, please provide your customer ID"
		return nil
	}

	billing, err := r.data.GetHistory(ctx, *res.CustomerID)
	if err != nil {
		return err
	}
	res.Billing = billing
	res.Reply = fmt.Sprintf("%s billing context fetched (%d tickets)", EscalationMarker, len(billing))
	return nil
}

func (r *Router) premiumHighPriority(ctx context.Context, res *Result) error {
	customers, err := r.data.ListCustomers(ctx, domain.CustomerFilter{Status: domain.CustomerStatusActive})
	if err != nil {
		return err
	}

	res.Tickets = []domain.Ticket{}
	for _, c := range customers {
		if !IsPremiumCustomer(c) {
			continue
		}
		history, err := r.data.GetHistory(ctx, c.ID)
		if err != nil {
			res.Failures = append(res.Failures, Failure{CustomerID: c.ID, Step: "get_history", Error: err.Error()})
			continue
		}
		for _, t := range history {
			if t.Priority == domain.TicketPriorityHigh &&
				(t.Status == domain.TicketStatusOpen || t.Status == domain.TicketStatusInProgress) {
				res.Tickets = append(res.Tickets, t)
			}
		}
	}
	res.Reply = fmt.Sprintf("Found %d high-priority tickets", len(res.Tickets))
	return nil
}

func (r *Router) activeWithOpenTickets(ctx context.Context, res *Result) error {
	customers, err := r.data.ListCustomers(ctx, domain.CustomerFilter{Status: domain.CustomerStatusActive})
	if err != nil {
		return err
	}

	res.Details = []domain.OpenTicketSummary{}
	for _, c := range customers {
		history, err := r.data.GetHistory(ctx, c.ID)
		if err != nil {
			res.Failures = append(res.Failures, Failure{CustomerID: c.ID, Step: "get_history", Error: err.Error()})
			continue
		}
		open := 0
		for _, t := range history {
			if t.Status == domain.TicketStatusOpen {
				open++
			}
		}
		if open > 0 {
			res.Details = append(res.Details, domain.OpenTicketSummary{
				Customer:         c.Name,
				CustomerID:       c.ID,
				OpenTicketsCount: open,
			})
		}
	}
	res.Reply = fmt.Sprintf("Found %d active customers with open tickets", len(res.Details))
	return nil
}

func (r *Router) delegate(ctx context.Context, text string, rc Context, res *Result) error {
	req := specialist.SupportRequest{
		Text:       text,
		CustomerID: res.CustomerID,
		NewEmail:   intent.ExtractEmail(text),
		Recent:     recentUserMessages(rc.History, recentUserTurns),
	}
	resp, err := r.support.HandleSupport(ctx, req)
	if err != nil {
		return err
	}
	if err := resp.Validate(); err != nil {
		return domain.TransportError("handle_support", err)
	}
	res.Support = &resp
	res.Reply = renderSupport(resp)
	return nil
}

func renderSupport(resp specialist.Response) string {
	switch resp.Kind {
	case specialist.KindNeedsContext:
		return "Support needs additional context: " + joinContext(resp.Required)
	default:
		if msg := resp.Message(); msg != "" {
			return msg
		}
		return "Support status: " + resp.Status()
	}
}

func joinContext(kinds []specialist.ContextKind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

// customerID prefers an id in the text over the remembered one.
func customerID(text string, rc Context) *int64 {
	if id, ok := intent.ExtractCustomerID(text); ok {
		return &id
	}
	if rc.CustomerID != nil {
		id := *rc.CustomerID
		return &id
	}
	return nil
}

func recentUserMessages(history []domain.Turn, n int) []string {
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]string, 0, len(history))
	for _, t := range history {
		out = append(out, t.User)
	}
	return out
}

func idString(id *int64) string {
	if id == nil {
		return ""
	}
	return fmt.Sprint(*id)
}
