package domain

import "errors"

var (
	ErrIncompleteCredential = errors.New("incomplete credential")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrSessionChanged       = errors.New("session changed during refresh")
	ErrAlreadyVoted         = errors.New("voter has already voted")
	ErrCandidateNotInRoster = errors.New("candidate not in current roster")
	ErrInvalidCandidate     = errors.New("invalid candidate data")
	ErrCandidateNotFound    = errors.New("candidate not found")

	// Backend-side errors, used by the development server.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("access forbidden")
)
