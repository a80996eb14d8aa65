package ports

import (
	"context"

	"github.com/ballotbox/ballot/internal/core/domain"
)

// SessionService is the single authority for who is logged in.
type SessionService interface {
	Bootstrap(ctx context.Context) domain.Session
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, name, email, password string) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context)
	// Verify confirms the stored session against the server.
	Verify(ctx context.Context) (*domain.Profile, error)
	Current() domain.Session
	IsAuthenticated() bool
	IsAdmin() bool
	IsLoading() bool
}

// Invalidator is called by the request pipeline when the server rejects a
// credential. token is the bearer token the rejected request carried, or ""
// when it carried none. It returns false when the rejected token is stale
// (no longer the stored one), in which case the pipeline skips its
// navigation and notice.
type Invalidator interface {
	Invalidate(token string) bool
}
