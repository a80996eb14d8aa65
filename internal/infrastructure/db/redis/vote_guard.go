package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "ballot:vote:"
	tallyKey  = "ballot:tally"
)

// Claim and Release keep the per-candidate tally hash in step with the
// voter keys.
var (
	claimScript = redis.NewScript(`
if redis.call("SETNX", KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call("HINCRBY", KEYS[2], ARGV[1], 1)
return 1
`)
	releaseScript = redis.NewScript(`
local cand = redis.call("GET", KEYS[1])
if not cand then
	return 0
end
redis.call("DEL", KEYS[1])
redis.call("HINCRBY", KEYS[2], cand, -1)
return 1
`)
)

// VoteGuard holds the ballot box in Redis, so every server instance sharing
// the Redis sees the same votes and counts.
// Key format: ballot:vote:<voter_id> = <candidate_id>, ballot:tally = {<candidate_id>: n}
type VoteGuard struct {
	client *redis.Client
}

// NewVoteGuard creates a VoteGuard wrapping the given Redis client.
func NewVoteGuard(client *redis.Client) *VoteGuard {
	return &VoteGuard{client: client}
}

// Claim reports whether this call won the voter's single vote. Claims do
// not expire.
func (g *VoteGuard) Claim(ctx context.Context, voterID string, candidateID int64) (bool, error) {
	n, err := claimScript.Run(ctx, g.client, []string{g.key(voterID), tallyKey}, strconv.FormatInt(candidateID, 10)).Int()
	if err != nil {
		return false, fmt.Errorf("vote claim: %w", err)
	}
	return n == 1, nil
}

func (g *VoteGuard) Release(ctx context.Context, voterID string) error {
	if err := releaseScript.Run(ctx, g.client, []string{g.key(voterID), tallyKey}).Err(); err != nil {
		return fmt.Errorf("vote release: %w", err)
	}
	return nil
}

func (g *VoteGuard) Choice(ctx context.Context, voterID string) (*int64, error) {
	raw, err := g.client.Get(ctx, g.key(voterID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("vote lookup: %w", err)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("vote lookup: bad candidate %q: %w", raw, err)
	}
	return &id, nil
}

func (g *VoteGuard) Tally(ctx context.Context) (map[int64]int64, error) {
	raw, err := g.client.HGetAll(ctx, tallyKey).Result()
	if err != nil {
		return nil, fmt.Errorf("vote tally: %w", err)
	}
	out := make(map[int64]int64, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("vote tally: bad candidate %q: %w", k, err)
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("vote tally: bad count %q: %w", v, err)
		}
		out[id] = n
	}
	return out, nil
}

func (g *VoteGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

func (g *VoteGuard) key(voterID string) string {
	return keyPrefix + voterID
}
