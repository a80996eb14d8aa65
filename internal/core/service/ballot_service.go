package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/oops"

	"github.com/ballotbox/ballot/internal/core/domain"
	"github.com/ballotbox/ballot/internal/core/ports"
)

// BallotService runs the vote-casting workflow for the acting voter. The
// duplicate check it performs is advisory; the server decides.
type BallotService struct {
	session ports.SessionService
	votes   ports.VoteAPI
	roster  ports.RosterService
	log     zerolog.Logger

	mu     sync.Mutex
	status domain.BallotStatus
}

func NewBallotService(session ports.SessionService, votes ports.VoteAPI, roster ports.RosterService, log zerolog.Logger) *BallotService {
	return &BallotService{
		session: session,
		votes:   votes,
		roster:  roster,
		log:     log.With().Str("component", "ballot").Logger(),
	}
}

// Status asks the server whether the acting voter has voted and, if so, for
// whom.
func (s *BallotService) Status(ctx context.Context) (domain.BallotStatus, error) {
	voterID, err := s.voter()
	if err != nil {
		return domain.BallotStatus{}, oops.In("ballot").With("operation", "status").Wrap(err)
	}

	voted, err := s.votes.HasVoted(ctx, voterID)
	if err != nil {
		return domain.BallotStatus{}, oops.In("ballot").With("operation", "status", "voter_id", voterID).Wrap(err)
	}

	st := domain.BallotStatus{VoterID: voterID, Checked: true, HasVoted: voted}
	if voted {
		st.CandidateID = s.lookupChoice(ctx, voterID)
	}

	s.mu.Lock()
	if prev := s.status; prev.VoterID == voterID && prev.Receipt != nil && st.HasVoted {
		st.Receipt = prev.Receipt
	}
	s.status = st
	s.mu.Unlock()

	return st, nil
}

// Cached returns the last status for the acting voter without a call. It is
// unchecked when no status is known for that voter.
func (s *BallotService) Cached() domain.BallotStatus {
	voterID, err := s.voter()
	if err != nil {
		return domain.BallotStatus{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.VoterID != voterID {
		return domain.BallotStatus{VoterID: voterID}
	}
	return s.status
}

// Cast submits a vote for candidateID. A voter the check reports as having
// voted is refused without a call; a 409 from the server marks the voter as
// having voted and is never retried.
func (s *BallotService) Cast(ctx context.Context, candidateID int64) (*domain.Vote, error) {
	errb := oops.In("ballot").With("operation", "cast", "candidate_id", candidateID)

	voterID, err := s.voter()
	if err != nil {
		return nil, errb.Wrap(err)
	}
	errb = errb.With("voter_id", voterID)

	st := s.Cached()
	if !st.Checked {
		if st, err = s.Status(ctx); err != nil {
			return nil, errb.Wrap(err)
		}
	}
	if st.HasVoted {
		return nil, errb.Wrap(domain.ErrAlreadyVoted)
	}

	if !s.roster.Loaded() {
		if _, err := s.roster.List(ctx); err != nil {
			return nil, errb.Wrap(err)
		}
	}
	if !s.roster.Contains(candidateID) {
		return nil, errb.Wrap(domain.ErrCandidateNotInRoster)
	}

	vote, err := s.votes.Cast(ctx, candidateID)
	if err != nil {
		if errors.Is(err, ports.ErrConflict) {
			s.reconcile(ctx, voterID)
			return nil, errb.Wrap(fmt.Errorf("%w: %w", domain.ErrAlreadyVoted, err))
		}
		return nil, errb.Wrap(err)
	}

	chosen := vote.CandidateID
	if chosen == 0 {
		chosen = candidateID
	}
	s.mu.Lock()
	s.status = domain.BallotStatus{
		VoterID:     voterID,
		Checked:     true,
		HasVoted:    true,
		CandidateID: &chosen,
		Receipt:     vote,
	}
	s.mu.Unlock()

	s.log.Info().Str("voter_id", voterID).Int64("candidate_id", chosen).Int64("vote_id", vote.ID).Msg("vote cast")
	return vote, nil
}

func (s *BallotService) Results(ctx context.Context) (domain.Results, error) {
	res, err := s.votes.Results(ctx)
	if err != nil {
		return nil, oops.In("ballot").With("operation", "results").Wrap(err)
	}
	return res, nil
}

// reconcile records the server's verdict that voterID already voted.
func (s *BallotService) reconcile(ctx context.Context, voterID string) {
	st := domain.BallotStatus{VoterID: voterID, Checked: true, HasVoted: true}
	st.CandidateID = s.lookupChoice(ctx, voterID)

	s.mu.Lock()
	s.status = st
	s.mu.Unlock()

	s.log.Info().Str("voter_id", voterID).Msg("server reports voter already voted")
}

// lookupChoice is best effort; the status is still useful without it.
func (s *BallotService) lookupChoice(ctx context.Context, voterID string) *int64 {
	id, err := s.votes.UserVote(ctx, voterID)
	if err != nil {
		s.log.Warn().Err(err).Str("voter_id", voterID).Msg("could not load prior vote")
		return nil
	}
	return id
}

func (s *BallotService) voter() (string, error) {
	cur := s.session.Current()
	if !cur.IsAuthenticated || cur.SubjectID == "" {
		return "", domain.ErrNotAuthenticated
	}
	return cur.SubjectID, nil
}
