package specialist

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/intent"
)

// GenericGuidance is the default support answer.
const GenericGuidance = "Support provided: please see instructions."

var (
	billingVocabulary  = []string{"billing", "charge", "refund"}
	emailUpdatePhrases = []string{"update my email", "update email", "change my email"}
)

// SupportData is the storage the support specialist writes through.
type SupportData interface {
	UpdateCustomer(ctx context.Context, id int64, fields domain.CustomerFields) error
	CreateTicket(ctx context.Context, ticket domain.NewTicket) (int64, error)
}

// SupportRequest is the input to HandleSupport. Recent holds earlier user
// messages of the same conversation, oldest first.
type SupportRequest struct {
	Text       string   `json:"text"`
	CustomerID *int64   `json:"customer_id,omitempty"`
	NewEmail   string   `json:"new_email,omitempty"`
	Recent     []string `json:"recent,omitempty"`
}

// Support is the support specialist. It never reads billing data itself; it
// asks the caller for it with NeedsContext.
type Support struct {
	data SupportData
}

var _ Specialist = (*Support)(nil)

// NewSupport creates a support specialist writing through data.
func NewSupport(data SupportData) *Support {
	return &Support{data: data}
}

func (s *Support) Name() string { return NameSupport }

// HandleSupport answers a support request.
func (s *Support) HandleSupport(ctx context.Context, req SupportRequest) (Response, error) {
	if intent.ContainsAny(req.Text, billingVocabulary...) {
		log.Debug().Str("customer_id", idString(req.CustomerID)).Msg("support: billing context required")
		return NeedsContext(ContextBillingHistory), nil
	}

	if wantsEmailUpdate(req) {
		email := req.NewEmail
		if email == "" {
			email = intent.ExtractEmail(req.Text)
		}
		if req.CustomerID == nil || email == "" {
			return Resolved(map[string]any{
				"status":  "resolved",
				"message": "To update your email, please provide your customer ID and the new email address.",
			}), nil
		}

		id := *req.CustomerID
		log.Debug().Int64("customer_id", id).Str("email", email).Msg("support: updating email")
		if err := s.data.UpdateCustomer(ctx, id, domain.CustomerFields{"email": email}); err != nil {
			return Response{}, err
		}
		return Resolved(map[string]any{
			"status":      "email_updated",
			"customer_id": id,
			"email":       email,
			"message":     fmt.Sprintf("Email for customer %d updated to %s.", id, email),
		}), nil
	}

	return Resolved(map[string]any{"status": "resolved", "message": GenericGuidance}), nil
}

// CreateTicket opens a ticket for a customer. An empty priority means medium.
func (s *Support) CreateTicket(ctx context.Context, customerID int64, issue string, priority domain.TicketPriority) (int64, error) {
	id, err := s.data.CreateTicket(ctx, domain.NewTicket{CustomerID: customerID, Issue: issue, Priority: priority})
	if err != nil {
		return 0, err
	}
	log.Info().Int64("customer_id", customerID).Int64("ticket_id", id).Msg("support: ticket created")
	return id, nil
}

type ticketArgs struct {
	CustomerID *int64                `json:"customer_id"`
	Issue      string                `json:"issue"`
	Priority   domain.TicketPriority `json:"priority"`
}

// Handle dispatches handle_support and create_ticket requests.
func (s *Support) Handle(ctx context.Context, req domain.Message, _ map[string]any) (Response, error) {
	switch req.Intent {
	case OpHandleSupport:
		var in SupportRequest
		if err := DecodePayload(req.Intent, req.Payload, &in); err != nil {
			return Response{}, err
		}
		return s.HandleSupport(ctx, in)

	case OpCreateTicket:
		var in ticketArgs
		if err := DecodePayload(req.Intent, req.Payload, &in); err != nil {
			return Response{}, err
		}
		customerID, err := requireID(req.Intent, in.CustomerID)
		if err != nil {
			return Response{}, err
		}
		id, err := s.CreateTicket(ctx, customerID, in.Issue, in.Priority)
		if err != nil {
			return Response{}, err
		}
		return Resolved(map[string]any{"status": "created", "ticket_id": id, "customer_id": customerID}), nil
	}
	return Response{}, unknownOperation(s.Name(), req.Intent)
}

func wantsEmailUpdate(req SupportRequest) bool {
	if intent.ContainsAny(req.Text, emailUpdatePhrases...) {
		return true
	}
	if intent.ExtractEmail(req.Text) == "" && req.NewEmail == "" {
		return false
	}
	// A bare address answers an earlier "update my email" turn.
	for _, prev := range req.Recent {
		if intent.ContainsAny(prev, emailUpdatePhrases...) {
			return true
		}
	}
	return false
}
