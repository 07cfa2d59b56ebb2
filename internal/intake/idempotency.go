package intake

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dnpm-intake/mtbvalidate/internal/domain"
)

// IdempotencyCache short-circuits a retried upload of the exact same
// payload for the same patient within a TTL window, so a submitter's
// retry logic racing a slow response doesn't cause the query service to
// see the same file twice. A cache miss or a Redis error both fall
// through to normal processing; the cache is an optimization; it never
// blocks intake.
type IdempotencyCache struct {
	redis      *redis.Client
	defaultTTL time.Duration
}

// NewIdempotencyCache builds a cache over an already-configured Redis
// client.
func NewIdempotencyCache(client *redis.Client, ttl time.Duration) *IdempotencyCache {
	return &IdempotencyCache{redis: client, defaultTTL: ttl}
}

// cachedOutcome is the subset of Outcome worth remembering: enough to
// replay the classification without re-running validation.
type cachedOutcome struct {
	Kind OutcomeKind `json:"kind"`
}

// Lookup returns a previously cached classification for this exact
// (patient, payload) pair, if one is still within its TTL window.
func (c *IdempotencyCache) Lookup(ctx context.Context, patient domain.PatientID, payload []byte) (OutcomeKind, bool) {
	if c == nil {
		return 0, false
	}
	val, err := c.redis.Get(ctx, c.key(patient, payload)).Result()
	if err != nil {
		return 0, false
	}
	var cached cachedOutcome
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		c.redis.Del(ctx, c.key(patient, payload))
		return 0, false
	}
	return cached.Kind, true
}

// Remember records the classification reached for this (patient, payload)
// pair so a retry within the TTL window can be short-circuited.
func (c *IdempotencyCache) Remember(ctx context.Context, patient domain.PatientID, payload []byte, kind OutcomeKind) {
	if c == nil {
		return
	}
	data, err := json.Marshal(cachedOutcome{Kind: kind})
	if err != nil {
		return
	}
	c.redis.Set(ctx, c.key(patient, payload), data, c.defaultTTL)
}

func (c *IdempotencyCache) key(patient domain.PatientID, payload []byte) string {
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("mtbintake:upload:%s:%s", patient, hex.EncodeToString(sum[:]))
}
