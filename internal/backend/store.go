package backend

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ballotbox/ballot/internal/core/domain"
)

// UserRepository persists accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
}

// CandidateRepository persists the roster.
type CandidateRepository interface {
	ListCandidates(ctx context.Context) ([]domain.Candidate, error)
	GetCandidate(ctx context.Context, id int64) (*domain.Candidate, error)
	CreateCandidate(ctx context.Context, in domain.CandidateInput) (*domain.Candidate, error)
	UpdateCandidate(ctx context.Context, id int64, in domain.CandidateInput) (*domain.Candidate, error)
	DeleteCandidate(ctx context.Context, id int64) error
}

// VoteRepository keeps vote receipts. It does not enforce uniqueness or
// answer who voted; the VoteGuard does.
type VoteRepository interface {
	AddVote(ctx context.Context, voterID string, candidateID int64) (*domain.Vote, error)
}

// MemoryStore implements every repository in process memory.
type MemoryStore struct {
	mu         sync.RWMutex
	now        func() time.Time
	users      map[int64]*User
	candidates map[int64]*domain.Candidate
	votes      map[string]*domain.Vote
	nextUser   int64
	nextCand   int64
	nextVote   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:        func() time.Time { return time.Now().UTC() },
		users:      make(map[int64]*User),
		candidates: make(map[int64]*domain.Candidate),
		votes:      make(map[string]*domain.Vote),
	}
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *MemoryStore) FindByID(_ context.Context, id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *MemoryStore) Create(_ context.Context, user *User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrUserExists
		}
	}
	s.nextUser++
	stored := *user
	stored.ID = s.nextUser
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.now()
	}
	s.users[stored.ID] = &stored
	clone := stored
	return &clone, nil
}

func (s *MemoryStore) ListCandidates(_ context.Context) ([]domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetCandidate(_ context.Context, id int64) (*domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, domain.ErrCandidateNotFound
	}
	clone := *c
	return &clone, nil
}

func (s *MemoryStore) CreateCandidate(_ context.Context, in domain.CandidateInput) (*domain.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCand++
	now := s.now()
	c := &domain.Candidate{
		ID:        s.nextCand,
		Name:      in.Name,
		Party:     in.Party,
		Position:  in.Position,
		ImageURL:  in.ImageURL,
		CreatedAt: &now,
		UpdatedAt: &now,
	}
	s.candidates[c.ID] = c
	clone := *c
	return &clone, nil
}

func (s *MemoryStore) UpdateCandidate(_ context.Context, id int64, in domain.CandidateInput) (*domain.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, domain.ErrCandidateNotFound
	}
	now := s.now()
	c.Name, c.Party, c.Position, c.ImageURL = in.Name, in.Party, in.Position, in.ImageURL
	c.UpdatedAt = &now
	clone := *c
	return &clone, nil
}

func (s *MemoryStore) DeleteCandidate(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.candidates[id]; !ok {
		return domain.ErrCandidateNotFound
	}
	delete(s.candidates, id)
	return nil
}

func (s *MemoryStore) AddVote(_ context.Context, voterID string, candidateID int64) (*domain.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextVote++
	v := &domain.Vote{ID: s.nextVote, VoterID: voterID, CandidateID: candidateID, CreatedAt: s.now()}
	s.votes[voterID] = v
	clone := *v
	return &clone, nil
}
