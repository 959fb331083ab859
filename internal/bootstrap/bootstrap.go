package bootstrap

import (
	"log"
	"net/http"

	"github.com/ahmedXDR/auth-visage-backend/internal/cache"
	"github.com/ahmedXDR/auth-visage-backend/internal/config"
	"github.com/ahmedXDR/auth-visage-backend/internal/metrics"
	"github.com/ahmedXDR/auth-visage-backend/internal/services"
	"github.com/ahmedXDR/auth-visage-backend/internal/store"
	"github.com/ahmedXDR/auth-visage-backend/internal/token"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB                   *store.Store
	MetricsRecorder      metrics.Recorder
	MetricsCache         cache.Cache[int64]
	MetricsCacheCloser   func() error
	RateLimitRedisClient *redis.Client

	// Business layer
	Issuer        *token.LocalIssuer
	TrustPolicy   *services.TrustPolicy
	OAuthService  *services.OAuthService
	SignInService *services.SignInService
	EnrollService *services.EnrollmentService

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application
func Run(cfg *config.Config) error {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(); err != nil {
		return err
	}

	// Phase 3: Initialize business layer
	if err := app.initializeBusinessLayer(); err != nil {
		return err
	}

	// Phase 4: Initialize HTTP layer
	app.initializeHTTPLayer()

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up database, metrics, cache, and Redis
func (app *Application) initializeInfrastructure() error {
	var err error

	app.DB, err = initializeDatabase(app.Config)
	if err != nil {
		return err
	}

	app.MetricsRecorder = initializeMetrics(app.Config)
	app.MetricsCache, app.MetricsCacheCloser, err = initializeMetricsCache(app.Config)
	if err != nil {
		return err
	}

	app.RateLimitRedisClient, err = initializeRateLimitRedisClient(app.Config)
	if err != nil {
		return err
	}

	return nil
}

// initializeBusinessLayer sets up token issuing, trust policy, and services
func (app *Application) initializeBusinessLayer() error {
	app.Issuer = token.NewLocalIssuer(app.Config)
	app.TrustPolicy = services.NewTrustPolicy(app.DB, app.Config.TrustedLoginOrigins)
	app.OAuthService = services.NewOAuthService(app.DB, app.Config, app.Issuer, app.TrustPolicy)
	app.SignInService = services.NewSignInService(app.DB, app.Config, app.Issuer)
	app.EnrollService = services.NewEnrollmentService(app.DB)
	return nil
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() {
	gateway, err := initializeBiometricGateway(app.Config, app.DB)
	if err != nil {
		log.Fatalf("Failed to initialize face pipeline: %v", err)
	}

	app.HandlerSet = initializeHandlers(
		app.Config,
		app.DB,
		gateway,
		app.OAuthService,
		app.SignInService,
		app.EnrollService,
		app.TrustPolicy,
		app.Issuer,
		app.MetricsRecorder,
	)

	app.Router = setupRouter(
		app.Config,
		app.DB,
		app.HandlerSet,
		app.MetricsRecorder,
		app.RateLimitRedisClient,
	)

	app.Server = createHTTPServer(app.Config, app.Router)
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Server)
	addRedisClientShutdownJob(m, app.RateLimitRedisClient)
	addAuthCodeCleanupJob(m, app.OAuthService)
	addMetricsGaugeUpdateJob(m, app.Config, app.DB, app.MetricsRecorder, app.MetricsCache)
	addCacheCleanupJob(m, app.MetricsCacheCloser)

	<-m.Done()
}
