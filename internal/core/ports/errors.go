package ports

import "errors"

// Failure classes of a call to the voting service. The request pipeline's
// errors match exactly one of these with errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrInvalidInput    = errors.New("invalid input")
	ErrServerFault     = errors.New("server fault")
	ErrTransport       = errors.New("transport failure")
	ErrUnexpected      = errors.New("unexpected response")
)
