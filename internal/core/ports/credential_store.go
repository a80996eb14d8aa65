package ports

import "github.com/ballotbox/ballot/internal/core/domain"

// CredentialStore is the durable holder of the current session's Credential.
// Implementations never perform network I/O.
type CredentialStore interface {
	// Save persists c atomically. Incomplete credentials are rejected.
	Save(c domain.Credential) error
	// Load returns the last saved Credential, or false when none is stored.
	// Unreadable or corrupt content is cleared and reported as absent.
	Load() (domain.Credential, bool)
	// Clear removes the stored Credential. Clearing an empty store is a no-op.
	Clear() error
}
