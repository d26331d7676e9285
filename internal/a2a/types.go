// Package a2a defines the agent-to-agent wire format: agent cards served at a
// well-known path and JSON-RPC 2.0 message/send calls.
package a2a

import (
	"bytes"
	"encoding/json"
)

// CardPath is where every agent serves its card.
const CardPath = "/.well-known/agent-card.json"

const (
	JSONRPCVersion   = "2.0"
	MethodSend       = "message/send"
	ProtocolVersion  = "0.3.0"
	TransportJSONRPC = "JSONRPC"
)

// Part kinds.
const (
	PartText = "text"
	PartData = "data"
)

// Message roles.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// AgentCard describes an agent and its skills.
type AgentCard struct {
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	URL                string       `json:"url"`
	Version            string       `json:"version"`
	ProtocolVersion    string       `json:"protocolVersion"`
	PreferredTransport string       `json:"preferredTransport"`
	Capabilities       Capabilities `json:"capabilities"`
	DefaultInputModes  []string     `json:"defaultInputModes"`
	DefaultOutputModes []string     `json:"defaultOutputModes"`
	Skills             []Skill      `json:"skills"`
}

type Capabilities struct {
	Streaming bool `json:"streaming"`
}

type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

// Part is one piece of message content.
type Part struct {
	Kind string          `json:"kind"`
	Text string          `json:"text,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message is an A2A message.
type Message struct {
	Kind      string         `json:"kind"`
	MessageID string         `json:"messageId"`
	ContextID string         `json:"contextId,omitempty"`
	Role      string         `json:"role"`
	Parts     []Part         `json:"parts"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// TextPart returns the first text part, or "".
func (m *Message) TextPart() string {
	for _, p := range m.Parts {
		if p.Kind == PartText {
			return p.Text
		}
	}
	return ""
}

// DataPart returns the first data part, or nil.
func (m *Message) DataPart() json.RawMessage {
	for _, p := range m.Parts {
		if p.Kind == PartData {
			return p.Data
		}
	}
	return nil
}

type SendParams struct {
	Message Message `json:"message"`
}

// Request is a JSON-RPC 2.0 request. ID is kept raw so string and numeric
// ids are echoed back unchanged.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  *Message        `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// ValidID reports whether id is a JSON-RPC id: a string, a number, null or
// absent.
func ValidID(id json.RawMessage) bool {
	trimmed := bytes.TrimSpace(id)
	if len(trimmed) == 0 {
		return true
	}
	switch trimmed[0] {
	case '{', '[', 't', 'f':
		return false
	}
	return true
}

// JSON-RPC error codes. The application range carries the error category.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternal       = -32603
	CodeNotFound       = -32004
	CodeStorage        = -32010
	CodeTransport      = -32011
)

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string { return e.Message }
