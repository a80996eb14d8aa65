package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ballotbox/ballot/internal/core/domain"
)

// CandidateClient implements ports.CandidateAPI.
type CandidateClient struct {
	c *Client
}

func NewCandidateClient(c *Client) *CandidateClient {
	return &CandidateClient{c: c}
}

func (a *CandidateClient) List(ctx context.Context) ([]domain.Candidate, error) {
	var out []domain.Candidate
	if err := a.c.Do(ctx, Request{Method: http.MethodGet, Route: "/candidates"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *CandidateClient) Get(ctx context.Context, id int64) (*domain.Candidate, error) {
	var out domain.Candidate
	err := a.c.Do(ctx, Request{
		Method: http.MethodGet,
		Route:  "/candidates/{id}",
		Path:   "/candidates/" + strconv.FormatInt(id, 10),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *CandidateClient) Create(ctx context.Context, in domain.CandidateInput) (*domain.Candidate, error) {
	var out domain.Candidate
	err := a.c.Do(ctx, Request{
		Method: http.MethodPost,
		Route:  "/admin/candidates",
		Body:   in,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *CandidateClient) Update(ctx context.Context, id int64, in domain.CandidateInput) (*domain.Candidate, error) {
	var out domain.Candidate
	err := a.c.Do(ctx, Request{
		Method: http.MethodPut,
		Route:  "/admin/candidates/{id}",
		Path:   "/admin/candidates/" + strconv.FormatInt(id, 10),
		Body:   in,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *CandidateClient) Delete(ctx context.Context, id int64) error {
	return a.c.Do(ctx, Request{
		Method: http.MethodDelete,
		Route:  "/admin/candidates/{id}",
		Path:   "/admin/candidates/" + strconv.FormatInt(id, 10),
	}, nil)
}
