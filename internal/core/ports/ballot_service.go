package ports

import (
	"context"

	"github.com/ballotbox/ballot/internal/core/domain"
)

// BallotService is the vote-casting workflow for the acting voter.
type BallotService interface {
	Status(ctx context.Context) (domain.BallotStatus, error)
	Cached() domain.BallotStatus
	Cast(ctx context.Context, candidateID int64) (*domain.Vote, error)
	Results(ctx context.Context) (domain.Results, error)
}
