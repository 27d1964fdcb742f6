package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	quotaKeyPrefix    = "complaints:quota"
	memoryPruneEvery  = 1024
	memoryIdleHorizon = 10 * time.Minute
)

// RedisQuotaRepository counts hits per key in fixed windows shared by every API instance.
type RedisQuotaRepository struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisQuotaRepository constructs a Redis-backed quota store.
func NewRedisQuotaRepository(client *redis.Client) *RedisQuotaRepository {
	return &RedisQuotaRepository{client: client, now: time.Now}
}

// Allow records one hit for key and reports whether it stays within limit for the current window.
func (r *RedisQuotaRepository) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return true, nil
	}
	slot := r.now().UnixNano() / int64(window)
	redisKey := fmt.Sprintf("%s:%s:%d", quotaKeyPrefix, key, slot)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis quota %s: %w", redisKey, err)
	}
	return incr.Val() <= int64(limit), nil
}

// Close releases the underlying Redis connection if present.
func (r *RedisQuotaRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

type quotaBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryQuotaRepository keeps a token bucket per key inside this process.
type MemoryQuotaRepository struct {
	mu      sync.Mutex
	buckets map[string]*quotaBucket
	calls   int
	now     func() time.Time
}

// NewMemoryQuotaRepository constructs an in-process quota store.
func NewMemoryQuotaRepository() *MemoryQuotaRepository {
	return &MemoryQuotaRepository{buckets: make(map[string]*quotaBucket), now: time.Now}
}

// Allow takes one token from key's bucket. The bucket holds limit tokens and refills over window.
func (r *MemoryQuotaRepository) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return false, nil
	}
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[key]
	if !ok {
		b = &quotaBucket{limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)}
		r.buckets[key] = b
	}
	b.lastSeen = now

	r.calls++
	if r.calls%memoryPruneEvery == 0 {
		r.prune(now)
	}
	return b.limiter.AllowN(now, 1), nil
}

// Len reports how many keys are tracked.
func (r *MemoryQuotaRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buckets)
}

// prune forgets keys unseen for a while. Caller holds mu.
func (r *MemoryQuotaRepository) prune(now time.Time) {
	for key, b := range r.buckets {
		if now.Sub(b.lastSeen) > memoryIdleHorizon {
			delete(r.buckets, key)
		}
	}
}
