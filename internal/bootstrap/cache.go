package bootstrap

import (
	"fmt"
	"log"

	"github.com/ahmedXDR/auth-visage-backend/internal/cache"
	"github.com/ahmedXDR/auth-visage-backend/internal/config"
	"github.com/ahmedXDR/auth-visage-backend/internal/metrics"
)

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) metrics.Recorder {
	recorder := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
	} else {
		log.Println("Metrics disabled (using noop implementation)")
	}
	return recorder
}

// initializeMetricsCache initializes the metrics cache based on configuration
func initializeMetricsCache(cfg *config.Config) (cache.Cache[int64], func() error, error) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled {
		return nil, nil, nil
	}

	switch cfg.MetricsCacheStore {
	case config.MetricsCacheStoreRedis:
		metricsCache, err := cache.NewRueidisAsideCache(
			cfg.MetricsCacheRedisAddr,
			cfg.MetricsCacheRedisPass,
			cfg.MetricsCacheRedisDB,
			"authvisage:metrics:",
			cfg.MetricsCacheClientTTL,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis metrics cache: %w", err)
		}
		log.Printf(
			"Metrics cache: redis-aside (addr=%s, db=%d, client_ttl=%s)",
			cfg.MetricsCacheRedisAddr,
			cfg.MetricsCacheRedisDB,
			cfg.MetricsCacheClientTTL,
		)
		return metricsCache, metricsCache.Close, nil

	default: // memory
		metricsCache := cache.NewMemoryCache[int64]()
		log.Println("Metrics cache: memory (single instance only)")
		return metricsCache, metricsCache.Close, nil
	}
}
