package router

import (
	"fmt"

	"github.com/hudulabs/hudumcp/internal/errortypes"
)

// ErrorKind is the caller-visible error taxonomy for tool calls.
type ErrorKind string

// Error kinds
const (
	KindInvalidParams  ErrorKind = "invalid_params"
	KindMethodNotFound ErrorKind = "method_not_found"
	KindInternal       ErrorKind = "internal_error"
)

// JSON-RPC 2.0 error codes corresponding to the error kinds.
const (
	CodeInvalidParams  = -32602
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
)

// ToolError is the single error type the router surfaces to callers. The
// message is a concise diagnostic naming the offending tool; stack traces
// and internal identifiers never cross this boundary.
type ToolError struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface
func (e *ToolError) Error() string {
	return e.Message
}

// Code returns the JSON-RPC error code for the error kind.
func (e *ToolError) Code() int {
	switch e.Kind {
	case KindInvalidParams:
		return CodeInvalidParams
	case KindMethodNotFound:
		return CodeMethodNotFound
	default:
		return CodeInternalError
	}
}

// toToolError converts an internal failure into the caller-visible taxonomy,
// prefixing the message with the tool that was executing.
func toToolError(toolName string, err error) *ToolError {
	switch {
	case errortypes.IsValidationError(err):
		return &ToolError{
			Kind:    KindInvalidParams,
			Message: fmt.Sprintf("%s: %v", toolName, err),
		}
	case errortypes.IsRoutingError(err):
		return &ToolError{
			Kind:    KindMethodNotFound,
			Message: err.Error(),
		}
	default:
		return &ToolError{
			Kind:    KindInternal,
			Message: fmt.Sprintf("%s: %v", toolName, err),
		}
	}
}
