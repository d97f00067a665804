package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const (
	keyPrefix        = "symptom-checker:analysis:"
	redisDialTimeout = 2 * time.Second
	redisOpTimeout   = 500 * time.Millisecond
)

// RedisCache shares cached analyses between server replicas. Every call goes
// through a circuit breaker, so an unreachable Redis costs one fast miss.
type RedisCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
	logger  *logrus.Logger
	stats   counters
}

// NewRedisCache creates a client for redisURL. It does not connect; call Ping
// to check reachability.
func NewRedisCache(redisURL string, ttl time.Duration, logger *logrus.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.DialTimeout = redisDialTimeout
	opts.ReadTimeout = redisOpTimeout
	opts.WriteTimeout = redisOpTimeout
	opts.MaxRetries = 1

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	r := &RedisCache{
		client: redis.NewClient(opts),
		ttl:    ttl,
		logger: logger,
	}
	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Cache circuit breaker changed state")
		},
	})
	return r, nil
}

// Get returns the cached value. Backend errors and an open breaker are misses.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	v, err := r.breaker.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
		defer cancel()

		data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return []byte(nil), nil
		}
		return data, err
	})
	if err != nil {
		r.stats.errors.Add(1)
		r.stats.record(false)
		r.logger.WithError(err).Debug("Redis cache lookup failed")
		return nil, false
	}

	data, _ := v.([]byte)
	r.stats.record(data != nil)
	return data, data != nil
}

// Set stores value with the cache TTL. Failures are logged and dropped.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte) {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
		defer cancel()
		return nil, r.client.Set(ctx, keyPrefix+key, value, r.ttl).Err()
	})
	if err != nil {
		r.stats.errors.Add(1)
		r.logger.WithError(err).Debug("Redis cache store failed")
	}
}

func (r *RedisCache) Stats() Stats {
	return r.stats.snapshot()
}

// State reports the circuit breaker state.
func (r *RedisCache) State() gobreaker.State {
	return r.breaker.State()
}

// Ping checks connectivity to Redis.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
