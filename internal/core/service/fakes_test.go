package service

import (
	"context"
	"sync"

	"github.com/ballotbox/ballot/internal/core/domain"
	"github.com/ballotbox/ballot/internal/core/ports"
)

type fakeAuth struct {
	mu sync.Mutex

	loginRes    *ports.AuthResult
	loginErr    error
	registerRes *ports.AuthResult
	registerErr error
	refreshTok  string
	refreshErr  error
	onRefresh   func()
	logoutErr   error
	me          *domain.Profile
	meErr       error

	calls []string
}

func (f *fakeAuth) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeAuth) Login(context.Context, string, string) (*ports.AuthResult, error) {
	f.record("login")
	return f.loginRes, f.loginErr
}

func (f *fakeAuth) Register(context.Context, string, string, string) (*ports.AuthResult, error) {
	f.record("register")
	return f.registerRes, f.registerErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.record("logout")
	return f.logoutErr
}

func (f *fakeAuth) Me(context.Context) (*domain.Profile, error) {
	f.record("me")
	return f.me, f.meErr
}

func (f *fakeAuth) Refresh(context.Context) (string, error) {
	f.record("refresh")
	if f.onRefresh != nil {
		f.onRefresh()
	}
	return f.refreshTok, f.refreshErr
}

type fakeVotes struct {
	mu sync.Mutex

	hasVoted    bool
	hasVotedErr error
	userVote    *int64
	castVote    *domain.Vote
	castErr     error
	results     domain.Results

	casts []int64
	calls []string
}

func (f *fakeVotes) Cast(_ context.Context, id int64) (*domain.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "cast")
	f.casts = append(f.casts, id)
	if f.castErr != nil {
		return nil, f.castErr
	}
	v := *f.castVote
	return &v, nil
}

func (f *fakeVotes) Results(context.Context) (domain.Results, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "results")
	return f.results, nil
}

func (f *fakeVotes) HasVoted(context.Context, string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "check")
	return f.hasVoted, f.hasVotedErr
}

func (f *fakeVotes) UserVote(context.Context, string) (*int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "user")
	return f.userVote, nil
}

type fakeCandidates struct {
	mu    sync.Mutex
	list  []domain.Candidate
	err   error
	next  int64
	calls []string
}

func (f *fakeCandidates) List(context.Context) ([]domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "list")
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Candidate(nil), f.list...), nil
}

func (f *fakeCandidates) Get(_ context.Context, id int64) (*domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "get")
	for _, c := range f.list {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrCandidateNotFound
}

func (f *fakeCandidates) Create(_ context.Context, in domain.CandidateInput) (*domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create")
	if f.err != nil {
		return nil, f.err
	}
	f.next++
	c := domain.Candidate{ID: 100 + f.next, Name: in.Name, Party: in.Party, Position: in.Position, ImageURL: in.ImageURL}
	f.list = append(f.list, c)
	return &c, nil
}

func (f *fakeCandidates) Update(_ context.Context, id int64, in domain.CandidateInput) (*domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update")
	if f.err != nil {
		return nil, f.err
	}
	c := domain.Candidate{ID: id, Name: in.Name, Party: in.Party, Position: in.Position, ImageURL: in.ImageURL}
	return &c, nil
}

func (f *fakeCandidates) Delete(context.Context, int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete")
	return f.err
}

func (f *fakeCandidates) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
