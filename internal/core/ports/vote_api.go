package ports

import (
	"context"

	"github.com/ballotbox/ballot/internal/core/domain"
)

// VoteAPI is the /votes surface.
type VoteAPI interface {
	Cast(ctx context.Context, candidateID int64) (*domain.Vote, error)
	Results(ctx context.Context) (domain.Results, error)
	HasVoted(ctx context.Context, voterID string) (bool, error)
	// UserVote returns the candidate the voter chose, or nil when none.
	UserVote(ctx context.Context, voterID string) (*int64, error)
}
