package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ballotbox/ballot/internal/core/ports"
)

// Kind is the classification of a failed call.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindConflict        Kind = "conflict"
	KindInvalidInput    Kind = "invalid_input"
	KindServerFault     Kind = "server_fault"
	KindTransport       Kind = "transport"
	KindUnexpected      Kind = "unexpected"
)

// Sentinels per Kind. They are the ports sentinels so core services can
// match failures without importing this package.
var (
	ErrUnauthenticated = ports.ErrUnauthenticated
	ErrForbidden       = ports.ErrForbidden
	ErrConflict        = ports.ErrConflict
	ErrInvalidInput    = ports.ErrInvalidInput
	ErrServerFault     = ports.ErrServerFault
	ErrTransport       = ports.ErrTransport
	ErrUnexpected      = ports.ErrUnexpected
)

var kindSentinels = map[Kind]error{
	KindUnauthenticated: ErrUnauthenticated,
	KindForbidden:       ErrForbidden,
	KindConflict:        ErrConflict,
	KindInvalidInput:    ErrInvalidInput,
	KindServerFault:     ErrServerFault,
	KindTransport:       ErrTransport,
	KindUnexpected:      ErrUnexpected,
}

// Error is returned for every call that did not end in a 2xx response.
// errors.Is matches it against the sentinel of its Kind and against the
// underlying cause, if any.
type Error struct {
	Kind      Kind
	Status    int // 0 when no response was received
	Message   string
	Method    string
	Route     string
	RequestID string
	Err       error
}

func (e *Error) Error() string {
	prefix := e.Method + " " + e.Route
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", prefix, e.Kind, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s (%d): %s", prefix, e.Kind, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s: %s (%d %s)", prefix, e.Kind, e.Status, http.StatusText(e.Status))
	}
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf extracts the classification from err.
func KindOf(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return "", false
}

// ServerMessage returns the server-provided message carried by err, if any.
func ServerMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
