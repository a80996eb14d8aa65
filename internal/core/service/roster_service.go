package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/oops"

	"github.com/ballotbox/ballot/internal/core/domain"
	"github.com/ballotbox/ballot/internal/core/ports"
)

// RosterService holds the candidate snapshot a voter chooses from and keeps
// it in step with admin mutations.
type RosterService struct {
	api ports.CandidateAPI
	log zerolog.Logger

	mu       sync.RWMutex
	snapshot []domain.Candidate
	loaded   bool
}

func NewRosterService(api ports.CandidateAPI, log zerolog.Logger) *RosterService {
	return &RosterService{api: api, log: log.With().Str("component", "roster").Logger()}
}

// List fetches the roster and replaces the snapshot.
func (s *RosterService) List(ctx context.Context) ([]domain.Candidate, error) {
	list, err := s.api.List(ctx)
	if err != nil {
		return nil, oops.In("roster").With("operation", "list").Wrap(err)
	}

	s.mu.Lock()
	s.snapshot = append([]domain.Candidate(nil), list...)
	s.loaded = true
	s.mu.Unlock()

	s.log.Debug().Int("candidates", len(list)).Msg("roster loaded")
	return list, nil
}

func (s *RosterService) Get(ctx context.Context, id int64) (*domain.Candidate, error) {
	c, err := s.api.Get(ctx, id)
	if err != nil {
		return nil, oops.In("roster").With("operation", "get", "candidate_id", id).Wrap(err)
	}
	return c, nil
}

// Snapshot returns a copy of the last loaded roster.
func (s *RosterService) Snapshot() []domain.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Candidate(nil), s.snapshot...)
}

func (s *RosterService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *RosterService) Contains(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id) >= 0
}

// Add validates in locally and creates the candidate. Invalid input never
// reaches the server.
func (s *RosterService) Add(ctx context.Context, in domain.CandidateInput) (*domain.Candidate, error) {
	if err := in.Validate(); err != nil {
		return nil, oops.In("roster").With("operation", "add").Wrap(err)
	}
	c, err := s.api.Create(ctx, in)
	if err != nil {
		return nil, oops.In("roster").With("operation", "add").Wrap(err)
	}

	s.mu.Lock()
	if s.indexLocked(c.ID) < 0 {
		s.snapshot = append(s.snapshot, *c)
	}
	s.mu.Unlock()

	s.log.Info().Int64("candidate_id", c.ID).Str("name", c.Name).Msg("candidate added")
	return c, nil
}

func (s *RosterService) Update(ctx context.Context, id int64, in domain.CandidateInput) (*domain.Candidate, error) {
	if err := in.Validate(); err != nil {
		return nil, oops.In("roster").With("operation", "update", "candidate_id", id).Wrap(err)
	}
	c, err := s.api.Update(ctx, id, in)
	if err != nil {
		return nil, oops.In("roster").With("operation", "update", "candidate_id", id).Wrap(err)
	}

	s.mu.Lock()
	if i := s.indexLocked(id); i >= 0 {
		s.snapshot[i] = *c
	}
	s.mu.Unlock()

	s.log.Info().Int64("candidate_id", id).Msg("candidate updated")
	return c, nil
}

func (s *RosterService) Delete(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, id); err != nil {
		return oops.In("roster").With("operation", "delete", "candidate_id", id).Wrap(err)
	}

	s.mu.Lock()
	if i := s.indexLocked(id); i >= 0 {
		s.snapshot = append(s.snapshot[:i], s.snapshot[i+1:]...)
	}
	s.mu.Unlock()

	s.log.Info().Int64("candidate_id", id).Msg("candidate deleted")
	return nil
}

func (s *RosterService) indexLocked(id int64) int {
	for i, c := range s.snapshot {
		if c.ID == id {
			return i
		}
	}
	return -1
}
