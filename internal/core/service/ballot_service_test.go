package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ballotbox/ballot/internal/core/domain"
	"github.com/ballotbox/ballot/internal/core/ports"
	"github.com/ballotbox/ballot/internal/infrastructure/credstore"
	"github.com/ballotbox/ballot/internal/infrastructure/notify"
)

type ballotFixture struct {
	session    *SessionService
	votes      *fakeVotes
	candidates *fakeCandidates
	roster     *RosterService
	ballot     *BallotService
}

func newBallotFixture(t *testing.T, authenticated bool) *ballotFixture {
	t.Helper()
	store := credstore.NewMemoryStore()
	if authenticated {
		cred, err := domain.NewCredential(domain.Profile{ID: "1", Role: domain.RoleVoter}, "t1", time.Now())
		require.NoError(t, err)
		require.NoError(t, store.Save(cred))
	}
	rec := notify.NewRecorder()
	f := &ballotFixture{
		votes: &fakeVotes{castVote: &domain.Vote{ID: 10, VoterID: "1", CandidateID: 2}},
		candidates: &fakeCandidates{list: []domain.Candidate{
			{ID: 1, Name: "Ada", Party: "A", Position: "Mayor"},
			{ID: 2, Name: "Grace", Party: "B", Position: "Mayor"},
		}},
	}
	f.session = NewSessionService(&fakeAuth{}, store, rec, rec, zerolog.Nop())
	f.session.Bootstrap(context.Background())
	f.roster = NewRosterService(f.candidates, zerolog.Nop())
	f.ballot = NewBallotService(f.session, f.votes, f.roster, zerolog.Nop())
	return f
}

func TestBallot_StatusNotVoted(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newBallotFixture(t, true)

	st, err := f.ballot.Status(context.Background())

	require.NoError(t, err)
	assert.True(t, st.Checked)
	assert.False(t, st.HasVoted)
	assert.True(t, st.CanCast())
	assert.Equal(t, []string{"check"}, f.votes.calls, "prior choice is only looked up for voters who voted")
}

func TestBallot_StatusVotedLooksUpChoice(t *testing.T) {
	f := newBallotFixture(t, true)
	choice := int64(1)
	f.votes.hasVoted, f.votes.userVote = true, &choice

	st, err := f.ballot.Status(context.Background())

	require.NoError(t, err)
	assert.True(t, st.HasVoted)
	assert.False(t, st.CanCast())
	require.NotNil(t, st.CandidateID)
	assert.Equal(t, int64(1), *st.CandidateID)
}

func TestBallot_StatusRequiresSession(t *testing.T) {
	f := newBallotFixture(t, false)

	_, err := f.ballot.Status(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Empty(t, f.votes.calls)
}

func TestBallot_CastChecksThenCasts(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newBallotFixture(t, true)

	vote, err := f.ballot.Cast(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, int64(10), vote.ID)
	assert.Equal(t, []string{"check", "cast"}, f.votes.calls)
	assert.Equal(t, []string{"list"}, f.candidates.Calls(), "roster loaded on demand")

	st := f.ballot.Cached()
	assert.True(t, st.HasVoted)
	require.NotNil(t, st.CandidateID)
	assert.Equal(t, int64(2), *st.CandidateID)
	assert.Equal(t, vote, st.Receipt)
}

func TestBallot_NeverCastsWhenAlreadyVoted(t *testing.T) {
	f := newBallotFixture(t, true)
	f.votes.hasVoted = true

	_, err := f.ballot.Cast(context.Background(), 2)

	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
	assert.Empty(t, f.votes.casts)
}

func TestBallot_SecondCastRefusedLocally(t *testing.T) {
	f := newBallotFixture(t, true)
	_, err := f.ballot.Cast(context.Background(), 2)
	require.NoError(t, err)

	_, err = f.ballot.Cast(context.Background(), 1)

	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
	assert.Equal(t, []int64{2}, f.votes.casts)
}

func TestBallot_CandidateMustBeInRoster(t *testing.T) {
	f := newBallotFixture(t, true)

	_, err := f.ballot.Cast(context.Background(), 99)

	assert.ErrorIs(t, err, domain.ErrCandidateNotInRoster)
	assert.Empty(t, f.votes.casts)
}

func TestBallot_ConflictMarksVotedWithoutRetry(t *testing.T) {
	f := newBallotFixture(t, true)
	choice := int64(1)
	f.votes.castErr = ports.ErrConflict
	f.votes.userVote = &choice

	_, err := f.ballot.Cast(context.Background(), 2)

	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
	assert.ErrorIs(t, err, ports.ErrConflict)
	assert.Len(t, f.votes.casts, 1)
	assert.True(t, f.session.IsAuthenticated(), "a conflict does not end the session")

	st := f.ballot.Cached()
	assert.True(t, st.HasVoted)
	require.NotNil(t, st.CandidateID)
	assert.Equal(t, int64(1), *st.CandidateID)
}

func TestBallot_ServerFaultLeavesStatus(t *testing.T) {
	f := newBallotFixture(t, true)
	f.votes.castErr = ports.ErrServerFault

	_, err := f.ballot.Cast(context.Background(), 2)

	assert.ErrorIs(t, err, ports.ErrServerFault)
	assert.NotErrorIs(t, err, domain.ErrAlreadyVoted)
	assert.True(t, f.ballot.Cached().CanCast())
}

func TestBallot_CachedIsPerVoter(t *testing.T) {
	f := newBallotFixture(t, true)
	_, err := f.ballot.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, f.ballot.Cached().Checked)

	f.session.Logout(context.Background())
	assert.False(t, f.ballot.Cached().Checked)
}

func TestBallot_Results(t *testing.T) {
	f := newBallotFixture(t, false)
	three, one := int64(3), int64(1)
	f.votes.results = domain.Results{{ID: 1, VoteCount: &one}, {ID: 2, VoteCount: &three}}

	res, err := f.ballot.Results(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Total())
	assert.InDelta(t, 75.0, res.Share(2), 0.001)
}
