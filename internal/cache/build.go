package cache

import (
	"github.com/sirupsen/logrus"

	"github.com/symptom-checker-server/internal/domain"
)

// Build assembles the cache described by cfg: nothing when disabled, memory
// only, or memory in front of Redis. The returned close function is never nil.
func Build(cfg domain.CacheConfig, logger *logrus.Logger) (Cache, func() error, error) {
	noop := func() error { return nil }
	if !cfg.Enabled {
		return nil, noop, nil
	}

	local := NewMemoryCache(cfg.MaxItems, cfg.TTL)
	if cfg.RedisURL == "" {
		logger.WithField("max_items", cfg.MaxItems).Info("Using in-memory analysis cache")
		return local, noop, nil
	}

	remote, err := NewRedisCache(cfg.RedisURL, cfg.TTL, logger)
	if err != nil {
		return nil, noop, err
	}
	logger.Info("Using in-memory analysis cache backed by Redis")
	return NewTiered(local, remote), remote.Close, nil
}
