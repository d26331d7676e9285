package a2a

import (
	"errors"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/domain"
)

// CodeFor maps a handler error to the JSON-RPC code that carries its category.
func CodeFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, domain.ErrValidation):
		return CodeInvalidParams
	case errors.Is(err, domain.ErrStorage):
		return CodeStorage
	case errors.Is(err, domain.ErrTransport):
		return CodeTransport
	}
	return CodeInternal
}

// RemoteError is an error reported by a peer agent. It keeps the peer's
// message and unwraps to the matching domain category.
type RemoteError struct {
	Code     int
	Message  string
	category error
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Unwrap() error { return e.category }

// ErrorFromRPC converts a JSON-RPC error back into a categorized error.
// Protocol-level codes become transport failures.
func ErrorFromRPC(e *RPCError) error {
	category := domain.ErrTransport
	switch e.Code {
	case CodeNotFound:
		category = domain.ErrNotFound
	case CodeInvalidParams:
		category = domain.ErrValidation
	case CodeStorage:
		category = domain.ErrStorage
	}
	msg := e.Message
	if msg == "" {
		msg = category.Error()
	}
	return &RemoteError{Code: e.Code, Message: msg, category: category}
}
