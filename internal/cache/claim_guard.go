package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClaimGuard is a second line of defense against double processing when
// several instances share the worklist. The database claim is authoritative;
// the guard just makes races cheap to reject.
type ClaimGuard interface {
	// Acquire returns false when another holder already has the candidate.
	Acquire(ctx context.Context, candidateID string) (bool, error)
	Release(ctx context.Context, candidateID string) error
}

type claimGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClaimGuard(client *redis.Client, ttl time.Duration) ClaimGuard {
	return &claimGuard{
		client: client,
		ttl:    ttl,
	}
}

func (g *claimGuard) Acquire(ctx context.Context, candidateID string) (bool, error) {
	return g.client.SetNX(ctx, "claim:"+candidateID, 1, g.ttl).Result()
}

func (g *claimGuard) Release(ctx context.Context, candidateID string) error {
	return g.client.Del(ctx, "claim:"+candidateID).Err()
}
