package restapi

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrListFailed is returned when the restaurant list cannot be read:
	// transport failure, non-2xx status or an unreadable body.
	ErrListFailed = errors.New("list restaurants failed")

	// ErrCreateFailed is returned when a create request fails: transport
	// failure or non-2xx status.
	ErrCreateFailed = errors.New("create restaurant failed")
)

// Error wraps a sync failure with request context.
// Err is always one of the sentinel errors above; Cause is the underlying
// transport or decoding error, if any.
type Error struct {
	Op         string // "List" or "Create"
	StatusCode int    // HTTP status, 0 when no response was received
	Message    string
	Err        error
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return e.Op + ": " + msg
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// Failure stages recorded in Error.Message.
const (
	msgCreateRequest  = "create request"
	msgSendRequest    = "send request"
	msgReadResponse   = "read response"
	msgStatus         = "unexpected status"
	msgDecodeResponse = "decode response"
	msgMarshalRequest = "marshal request"
)

func newError(op string, status int, message string, kind, cause error) *Error {
	return &Error{
		Op:         op,
		StatusCode: status,
		Message:    message,
		Err:        kind,
		Cause:      cause,
	}
}

// StatusCode extracts the HTTP status from a sync error, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
