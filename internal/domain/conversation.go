package domain

// Turn is one exchange in a conversation.
type Turn struct {
	User  string `json:"user"`
	Agent string `json:"assistant"`
}

// ContextBundle is what a conversation session hands to the transport for
// every outbound message.
type ContextBundle struct {
	SessionID  string `json:"session_id"`
	CustomerID *int64 `json:"customer_id,omitempty"`
	History    []Turn `json:"history"`
	Message    string `json:"message"`
}
