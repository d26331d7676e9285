package ws

import (
	"time"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
)

// Frame types from client to server
const (
	TypeHello   = "hello"
	TypeMessage = "message"
	TypeClear   = "clear"
	TypeHistory = "history"
)

// Frame types from server to client
const (
	TypeHelloAck = "hello_ack"
	TypeReply    = "reply"
	TypeCleared  = "cleared"
	TypeError    = "error"
)

// Error codes
const (
	ErrorCodeInvalidMessage = "invalid_message"
	ErrorCodeAgentFailed    = "agent_failed"
)

// Frame is one JSON message on the chat socket. History frames are answered
// with a frame of the same type carrying the turns.
type Frame struct {
	Type       string        `json:"type"`
	Ts         int64         `json:"ts"`
	RequestID  string        `json:"request_id,omitempty"`
	SessionID  string        `json:"session_id,omitempty"`
	Text       string        `json:"text,omitempty"`
	CustomerID *int64        `json:"customer_id,omitempty"`
	History    []domain.Turn `json:"history,omitempty"`
	Code       string        `json:"code,omitempty"`
	Message    string        `json:"message,omitempty"`
}

func newFrame(typ, sessionID, requestID string) Frame {
	return Frame{
		Type:      typ,
		Ts:        time.Now().UnixMilli(),
		SessionID: sessionID,
		RequestID: requestID,
	}
}
