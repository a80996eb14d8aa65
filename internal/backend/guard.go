package backend

import (
	"context"
	"sync"
)

// VoteGuard is the ballot box of record: it makes the one-vote-per-voter
// rule atomic and answers who voted for whom. Instances sharing a guard
// share the ballot box.
type VoteGuard interface {
	Claim(ctx context.Context, voterID string, candidateID int64) (bool, error)
	// Release undoes a claim whose vote could not be recorded.
	Release(ctx context.Context, voterID string) error
	// Choice returns the candidate voterID claimed, or nil.
	Choice(ctx context.Context, voterID string) (*int64, error)
	// Tally counts claims per candidate.
	Tally(ctx context.Context) (map[int64]int64, error)
	Ping(ctx context.Context) error
}

// MemoryGuard is a VoteGuard for a single process.
type MemoryGuard struct {
	mu      sync.Mutex
	claimed map[string]int64
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{claimed: make(map[string]int64)}
}

func (g *MemoryGuard) Claim(_ context.Context, voterID string, candidateID int64) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.claimed[voterID]; ok {
		return false, nil
	}
	g.claimed[voterID] = candidateID
	return true, nil
}

func (g *MemoryGuard) Release(_ context.Context, voterID string) error {
	g.mu.Lock()
	delete(g.claimed, voterID)
	g.mu.Unlock()
	return nil
}

func (g *MemoryGuard) Choice(_ context.Context, voterID string) (*int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.claimed[voterID]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (g *MemoryGuard) Tally(context.Context) (map[int64]int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[int64]int64)
	for _, id := range g.claimed {
		out[id]++
	}
	return out, nil
}

func (g *MemoryGuard) Ping(context.Context) error { return nil }
