package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ballotbox/ballot/internal/core/domain"
)

// VoteClient implements ports.VoteAPI.
type VoteClient struct {
	c *Client
}

func NewVoteClient(c *Client) *VoteClient {
	return &VoteClient{c: c}
}

type castRequest struct {
	CandidateID int64 `json:"candidateId"`
}

func (a *VoteClient) Cast(ctx context.Context, candidateID int64) (*domain.Vote, error) {
	var out domain.Vote
	err := a.c.Do(ctx, Request{
		Method: http.MethodPost,
		Route:  "/votes",
		Body:   castRequest{CandidateID: candidateID},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *VoteClient) Results(ctx context.Context) (domain.Results, error) {
	var out domain.Results
	if err := a.c.Do(ctx, Request{Method: http.MethodGet, Route: "/votes/results"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *VoteClient) HasVoted(ctx context.Context, voterID string) (bool, error) {
	var out bool
	err := a.c.Do(ctx, Request{
		Method: http.MethodGet,
		Route:  "/votes/check",
		Query:  url.Values{"voterId": {voterID}},
	}, &out)
	return out, err
}

func (a *VoteClient) UserVote(ctx context.Context, voterID string) (*int64, error) {
	var raw json.RawMessage
	err := a.c.Do(ctx, Request{
		Method: http.MethodGet,
		Route:  "/votes/user",
		Query:  url.Values{"voterId": {voterID}},
	}, &raw)
	if err != nil {
		return nil, err
	}
	return parseCandidateRef(raw)
}

// parseCandidateRef accepts null, a number, a numeric string, or an object
// carrying candidateId.
func parseCandidateRef(raw json.RawMessage) (*int64, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" || text == `""` {
		return nil, nil
	}

	if strings.HasPrefix(text, "{") {
		var obj struct {
			CandidateID *int64 `json:"candidateId"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("decode user vote: %w", err)
		}
		return obj.CandidateID, nil
	}

	text = strings.Trim(text, `"`)
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode user vote %q: %w", text, err)
	}
	return &id, nil
}
