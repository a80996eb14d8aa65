package backend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ballotbox/ballot/internal/core/domain"
	"github.com/ballotbox/ballot/internal/infrastructure/metrics"
)

// ElectionService owns the roster and the ballot box.
type ElectionService struct {
	candidates CandidateRepository
	votes      VoteRepository
	guard      VoteGuard
	log        zerolog.Logger
}

func NewElectionService(candidates CandidateRepository, votes VoteRepository, guard VoteGuard, log zerolog.Logger) *ElectionService {
	return &ElectionService{
		candidates: candidates,
		votes:      votes,
		guard:      guard,
		log:        log.With().Str("component", "election").Logger(),
	}
}

func (s *ElectionService) ListCandidates(ctx context.Context) ([]domain.Candidate, error) {
	return s.candidates.ListCandidates(ctx)
}

func (s *ElectionService) GetCandidate(ctx context.Context, id int64) (*domain.Candidate, error) {
	return s.candidates.GetCandidate(ctx, id)
}

func (s *ElectionService) CreateCandidate(ctx context.Context, in domain.CandidateInput) (*domain.Candidate, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c, err := s.candidates.CreateCandidate(ctx, in)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("candidate_id", c.ID).Str("name", c.Name).Msg("candidate created")
	return c, nil
}

func (s *ElectionService) UpdateCandidate(ctx context.Context, id int64, in domain.CandidateInput) (*domain.Candidate, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.candidates.UpdateCandidate(ctx, id, in)
}

func (s *ElectionService) DeleteCandidate(ctx context.Context, id int64) error {
	return s.candidates.DeleteCandidate(ctx, id)
}

// Cast records voterID's vote. The guard decides the race between
// concurrent casts by the same voter; the loser gets ErrAlreadyVoted.
func (s *ElectionService) Cast(ctx context.Context, voterID string, candidateID int64) (*domain.Vote, error) {
	if _, err := s.candidates.GetCandidate(ctx, candidateID); err != nil {
		metrics.VotesRejectedTotal.WithLabelValues("unknown_candidate").Inc()
		return nil, err
	}

	ok, err := s.guard.Claim(ctx, voterID, candidateID)
	if err != nil {
		return nil, fmt.Errorf("claim vote: %w", err)
	}
	if !ok {
		metrics.VotesRejectedTotal.WithLabelValues("already_voted").Inc()
		return nil, domain.ErrAlreadyVoted
	}

	vote, err := s.votes.AddVote(ctx, voterID, candidateID)
	if err != nil {
		if rerr := s.guard.Release(ctx, voterID); rerr != nil {
			s.log.Error().Err(rerr).Str("voter_id", voterID).Msg("release vote claim")
		}
		return nil, fmt.Errorf("record vote: %w", err)
	}

	metrics.VotesCastTotal.Inc()
	s.log.Info().Str("voter_id", voterID).Int64("candidate_id", candidateID).Msg("vote cast")
	return vote, nil
}

func (s *ElectionService) HasVoted(ctx context.Context, voterID string) (bool, error) {
	choice, err := s.guard.Choice(ctx, voterID)
	if err != nil {
		return false, err
	}
	return choice != nil, nil
}

// UserVote returns the candidate voterID chose, or nil.
func (s *ElectionService) UserVote(ctx context.Context, voterID string) (*int64, error) {
	return s.guard.Choice(ctx, voterID)
}

// Results returns every current candidate with its vote count.
func (s *ElectionService) Results(ctx context.Context) (domain.Results, error) {
	list, err := s.candidates.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	tally, err := s.guard.Tally(ctx)
	if err != nil {
		return nil, err
	}
	out := make(domain.Results, len(list))
	for i, c := range list {
		n := tally[c.ID]
		c.VoteCount = &n
		out[i] = c
	}
	return out, nil
}

// Ready reports whether the vote guard is reachable.
func (s *ElectionService) Ready(ctx context.Context) error {
	return s.guard.Ping(ctx)
}
