package ports

import (
	"context"

	"github.com/ballotbox/ballot/internal/core/domain"
)

// AuthResult is the body of a successful login or register call.
type AuthResult struct {
	User  domain.Profile `json:"user"`
	Token string         `json:"token"`
}

// AuthAPI is the /auth surface of the voting service.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*domain.Profile, error)
	Refresh(ctx context.Context) (string, error)
}
