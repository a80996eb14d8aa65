package httpapi

import (
	"context"
	"net/http"

	"github.com/ballotbox/ballot/internal/core/domain"
	"github.com/ballotbox/ballot/internal/core/ports"
)

// AuthClient implements ports.AuthAPI.
type AuthClient struct {
	c *Client
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (a *AuthClient) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	var out ports.AuthResult
	err := a.c.Do(ctx, Request{
		Method: http.MethodPost,
		Route:  "/auth/login",
		Body:   loginRequest{Email: email, Password: password},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthClient) Register(ctx context.Context, name, email, password string) (*ports.AuthResult, error) {
	var out ports.AuthResult
	err := a.c.Do(ctx, Request{
		Method: http.MethodPost,
		Route:  "/auth/register",
		Body:   registerRequest{Name: name, Email: email, Password: password},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthClient) Logout(ctx context.Context) error {
	return a.c.Do(ctx, Request{Method: http.MethodPost, Route: "/auth/logout"}, nil)
}

func (a *AuthClient) Me(ctx context.Context) (*domain.Profile, error) {
	var out domain.Profile
	if err := a.c.Do(ctx, Request{Method: http.MethodGet, Route: "/auth/me"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh returns the replacement token. The server may answer with a full
// auth response; only the token is used.
func (a *AuthClient) Refresh(ctx context.Context) (string, error) {
	var out tokenResponse
	if err := a.c.Do(ctx, Request{Method: http.MethodPost, Route: "/auth/refresh"}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}
