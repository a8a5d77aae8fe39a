// internal/services/leads/submit-lead/dedupe.go
package submitlead

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupeKeyPrefix = "lead:idempotency:"

// ClaimState is what a Claim found stored under an idempotency key.
type ClaimState int

const (
	// ClaimFresh means the caller now owns the key and must Complete or Release it.
	ClaimFresh ClaimState = iota
	// ClaimPending means another submission with the key is still in flight.
	ClaimPending
	// ClaimDone means a submission with the key was accepted by the webhook.
	ClaimDone
)

const (
	statePending = "pending"
	stateDone    = "done"
)

// Deduper claims idempotency keys so a repeated submission inside the
// window is not forwarded twice. A key moves pending -> done on a 2xx and
// is released on failure.
type Deduper interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (ClaimState, error)
	Complete(ctx context.Context, key string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

// RedisDeduper stores claims as expiring Redis keys.
type RedisDeduper struct {
	client *redis.Client
}

func NewRedisDeduper(client *redis.Client) *RedisDeduper {
	return &RedisDeduper{client: client}
}

func (d *RedisDeduper) Claim(ctx context.Context, key string, ttl time.Duration) (ClaimState, error) {
	won, err := d.client.SetNX(ctx, dedupeKeyPrefix+key, statePending, ttl).Result()
	if err != nil {
		return ClaimFresh, err
	}
	if won {
		return ClaimFresh, nil
	}
	state, err := d.client.Get(ctx, dedupeKeyPrefix+key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// released between SETNX and GET; the owner failed and a retry is due
		return ClaimPending, nil
	case err != nil:
		return ClaimFresh, err
	case state == stateDone:
		return ClaimDone, nil
	default:
		return ClaimPending, nil
	}
}

func (d *RedisDeduper) Complete(ctx context.Context, key string, ttl time.Duration) error {
	return d.client.Set(ctx, dedupeKeyPrefix+key, stateDone, ttl).Err()
}

func (d *RedisDeduper) Release(ctx context.Context, key string) error {
	return d.client.Del(ctx, dedupeKeyPrefix+key).Err()
}
