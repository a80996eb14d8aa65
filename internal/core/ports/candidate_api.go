package ports

import (
	"context"

	"github.com/ballotbox/ballot/internal/core/domain"
)

// CandidateAPI is the candidate roster surface, including admin mutations.
type CandidateAPI interface {
	List(ctx context.Context) ([]domain.Candidate, error)
	Get(ctx context.Context, id int64) (*domain.Candidate, error)
	Create(ctx context.Context, in domain.CandidateInput) (*domain.Candidate, error)
	Update(ctx context.Context, id int64, in domain.CandidateInput) (*domain.Candidate, error)
	Delete(ctx context.Context, id int64) error
}
