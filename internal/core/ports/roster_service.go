package ports

import (
	"context"

	"github.com/ballotbox/ballot/internal/core/domain"
)

// RosterService keeps the candidate roster snapshot the current view works
// from, and performs admin mutations against it.
type RosterService interface {
	List(ctx context.Context) ([]domain.Candidate, error)
	Get(ctx context.Context, id int64) (*domain.Candidate, error)
	Snapshot() []domain.Candidate
	Loaded() bool
	Contains(id int64) bool
	Add(ctx context.Context, in domain.CandidateInput) (*domain.Candidate, error)
	Update(ctx context.Context, id int64, in domain.CandidateInput) (*domain.Candidate, error)
	Delete(ctx context.Context, id int64) error
}
