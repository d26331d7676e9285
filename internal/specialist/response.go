package specialist

import (
	"encoding/json"
	"fmt"
)

// Kind tags a Response variant.
type Kind string

const (
	KindResolved     Kind = "resolved"
	KindNeedsContext Kind = "needs_context"
)

// ContextKind names a piece of context a specialist can ask for.
type ContextKind string

const ContextBillingHistory ContextKind = "billing_history"

// Response is the result of Specialist.Handle: either Resolved with a payload
// or NeedsContext naming what is missing. Consumers must switch on Kind.
type Response struct {
	Kind     Kind           `json:"kind"`
	Payload  map[string]any `json:"payload,omitempty"`
	Required []ContextKind  `json:"required,omitempty"`
}

// Resolved builds a final response.
func Resolved(payload map[string]any) Response {
	if payload == nil {
		payload = map[string]any{}
	}
	return Response{Kind: KindResolved, Payload: payload}
}

// NeedsContext builds a response asking the caller for more context.
func NeedsContext(required ...ContextKind) Response {
	return Response{Kind: KindNeedsContext, Required: required}
}

// Validate rejects responses with an unknown kind or an empty requirement set.
func (r Response) Validate() error {
	switch r.Kind {
	case KindResolved:
		return nil
	case KindNeedsContext:
		if len(r.Required) == 0 {
			return fmt.Errorf("needs_context response without required context")
		}
		return nil
	}
	return fmt.Errorf("unknown response kind %q", r.Kind)
}

// Needs reports whether the response asks for kind.
func (r Response) Needs(kind ContextKind) bool {
	if r.Kind != KindNeedsContext {
		return false
	}
	for _, k := range r.Required {
		if k == kind {
			return true
		}
	}
	return false
}

// Status returns payload["status"] for resolved responses.
func (r Response) Status() string {
	s, _ := r.Payload["status"].(string)
	return s
}

// Message returns payload["message"] for resolved responses.
func (r Response) Message() string {
	s, _ := r.Payload["message"].(string)
	return s
}

// Decode copies payload[key] into out. Payload values may be typed values
// (in-process) or generic JSON (after a network hop).
func (r Response) Decode(key string, out any) error {
	v, ok := r.Payload[key]
	if !ok {
		return fmt.Errorf("payload has no %q", key)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode payload %q: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode payload %q: %w", key, err)
	}
	return nil
}
