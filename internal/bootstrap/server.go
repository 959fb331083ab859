package bootstrap

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/ahmedXDR/auth-visage-backend/internal/cache"
	"github.com/ahmedXDR/auth-visage-backend/internal/config"
	"github.com/ahmedXDR/auth-visage-backend/internal/metrics"
	"github.com/ahmedXDR/auth-visage-backend/internal/services"
	"github.com/ahmedXDR/auth-visage-backend/internal/store"

	"github.com/appleboy/graceful"
	"github.com/redis/go-redis/v9"
)

// authCodeSweepInterval controls how often expired authorization codes
// are deleted. Codes are also rejected at redemption, so the sweep is
// purely hygiene.
const authCodeSweepInterval = time.Minute

// createHTTPServer creates the HTTP server instance
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, srv *http.Server) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return err
		}

		log.Println("Server exited")
		return nil
	})
}

// addRedisClientShutdownJob adds Redis client shutdown handler
func addRedisClientShutdownJob(m *graceful.Manager, redisClient *redis.Client) {
	if redisClient == nil {
		return
	}

	m.AddShutdownJob(func() error {
		log.Println("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
			return err
		}
		log.Println("Redis connection closed")
		return nil
	})
}

// addAuthCodeCleanupJob adds the periodic expired auth code sweep
func addAuthCodeCleanupJob(m *graceful.Manager, oauthService *services.OAuthService) {
	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(authCodeSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if deleted, err := oauthService.CleanupExpiredCodes(ctx); err != nil {
					log.Printf("Failed to cleanup expired auth codes: %v", err)
				} else if deleted > 0 {
					log.Printf("Cleaned up %d expired auth codes", deleted)
				}
			case <-ctx.Done():
				return nil
			}
		}
	})
}

// addMetricsGaugeUpdateJob adds periodic metrics gauge update job
func addMetricsGaugeUpdateJob(
	m *graceful.Manager,
	cfg *config.Config,
	db *store.Store,
	recorder metrics.Recorder,
	metricsCache cache.Cache[int64],
) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(cfg.MetricsGaugeUpdateInterval)
		defer ticker.Stop()

		cacheWrapper := metrics.NewCacheWrapper(db, metricsCache)

		// Update immediately on startup
		updateGaugeMetricsWithCache(ctx, cacheWrapper, recorder, cfg.MetricsGaugeUpdateInterval)

		for {
			select {
			case <-ticker.C:
				updateGaugeMetricsWithCache(
					ctx,
					cacheWrapper,
					recorder,
					cfg.MetricsGaugeUpdateInterval,
				)
			case <-ctx.Done():
				return nil
			}
		}
	})
}

// addCacheCleanupJob adds cache cleanup on shutdown
func addCacheCleanupJob(m *graceful.Manager, metricsCacheCloser func() error) {
	if metricsCacheCloser == nil {
		return
	}

	m.AddShutdownJob(func() error {
		if err := metricsCacheCloser(); err != nil {
			log.Printf("Error closing metrics cache: %v", err)
		} else {
			log.Println("Metrics cache closed")
		}
		return nil
	})
}

// errorLogger handles rate-limited error logging
type errorLogger struct {
	lastErrorTimes  map[string]time.Time
	rateLimitWindow time.Duration
}

func newErrorLogger() *errorLogger {
	return &errorLogger{
		lastErrorTimes:  make(map[string]time.Time),
		rateLimitWindow: 5 * time.Minute,
	}
}

// logIfNeeded logs an error only if rate limit allows
func (e *errorLogger) logIfNeeded(operation string, err error) {
	now := time.Now()
	lastTime, exists := e.lastErrorTimes[operation]

	if !exists || now.Sub(lastTime) >= e.rateLimitWindow {
		log.Printf("Database query failed for %s: %v (further errors will be suppressed for %v)",
			operation, err, e.rateLimitWindow)
		e.lastErrorTimes[operation] = now
	}
}

var gaugeErrorLogger = newErrorLogger()

// updateGaugeMetricsWithCache refreshes every gauge from cache-backed counts.
// The cache TTL matches the update interval so each window queries at most once.
func updateGaugeMetricsWithCache(
	ctx context.Context,
	cacheWrapper *metrics.CacheWrapper,
	recorder metrics.Recorder,
	cacheTTL time.Duration,
) {
	for _, flow := range []string{metrics.FlowOAuth, metrics.FlowSignIn} {
		count, err := cacheWrapper.GetActiveSessionsCount(ctx, flow, cacheTTL)
		if err != nil {
			recorder.RecordDatabaseQueryError("count_" + flow + "_sessions")
			gaugeErrorLogger.logIfNeeded("count_"+flow+"_sessions", err)
			continue
		}
		recorder.SetActiveSessionsCount(flow, int(count))
	}

	faces, err := cacheWrapper.GetEnrolledFacesCount(ctx, cacheTTL)
	if err != nil {
		recorder.RecordDatabaseQueryError("count_enrolled_faces")
		gaugeErrorLogger.logIfNeeded("count_enrolled_faces", err)
	} else {
		recorder.SetEnrolledFacesCount(int(faces))
	}

	codes, err := cacheWrapper.GetPendingAuthCodesCount(ctx, cacheTTL)
	if err != nil {
		recorder.RecordDatabaseQueryError("count_pending_auth_codes")
		gaugeErrorLogger.logIfNeeded("count_pending_auth_codes", err)
	} else {
		recorder.SetPendingAuthCodesCount(int(codes))
	}
}
