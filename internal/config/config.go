package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Metrics cache store constants
const (
	MetricsCacheStoreMemory = "memory"
	MetricsCacheStoreRedis  = "redis"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// AuthCodeValidity is the fixed validity window for authorization codes.
// Codes older than this are rejected and swept by the cleanup job.
const AuthCodeValidity = 5 * time.Minute

type Config struct {
	// Server settings
	ServerAddr   string
	BaseURL      string
	IsProduction bool

	// JWT settings
	JWTSecret     string
	JWTExpiration time.Duration

	// Refresh token settings
	RefreshCookieMaxAge time.Duration // refresh_token cookie lifetime (default: 720h = 30 days)

	// Origins allowed to run the first-party login flow. Empty means no
	// origin may log in directly; project origins are stored per project
	// instead.
	TrustedLoginOrigins []string

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string // Database connection string (DSN or path)

	// Face pipeline thresholds
	FaceMatchThreshold float64 // nearest-neighbor distance cutoff (strictly below matches)
	AntispoofThreshold float64 // spoof score at or above this aborts the connection

	// Face inference API (external extractor service)
	FaceAPIURL                string
	FaceAPITimeout            time.Duration
	FaceAPIInsecureSkipVerify bool
	FaceAPIAuthMode           string // Authentication mode: "none", "simple", or "hmac"
	FaceAPIAuthSecret         string // Shared secret sent in FaceAPIAuthHeader
	FaceAPIAuthHeader         string // Header name for the shared secret (default: "X-API-Secret")
	FaceAPIMaxRetries         int
	FaceAPIRetryDelay         time.Duration
	FaceAPIMaxRetryDelay      time.Duration

	// Rate limiting
	RateLimitEnabled    bool
	RateLimitPerMinute  int
	RateLimitStore      string // "memory" or "redis"
	RateLimitRedisAddr  string
	RateLimitRedisPass  string
	RateLimitRedisDB    int

	// Metrics
	MetricsEnabled             bool
	MetricsToken               string // Bearer token guarding /metrics ("" disables auth)
	MetricsGaugeUpdateEnabled  bool
	MetricsGaugeUpdateInterval time.Duration
	MetricsCacheStore          string // "memory" or "redis"
	MetricsCacheRedisAddr      string
	MetricsCacheRedisPass      string
	MetricsCacheRedisDB        int
	MetricsCacheClientTTL      time.Duration // rueidis client-side cache TTL

	// Seed data (development convenience)
	SeedDemoProject bool
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	// Determine database driver and DSN
	driver := getEnv("DATABASE_DRIVER", "sqlite")
	var dsn string
	if driver == "sqlite" {
		dsn = getEnv("DATABASE_DSN", getEnv("DATABASE_PATH", "authvisage.db"))
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	return &Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
		IsProduction: getEnv("ENV", "development") == "production",

		JWTSecret:     getEnv("JWT_SECRET", "your-256-bit-secret-change-in-production"),
		JWTExpiration: getEnvDuration("JWT_EXPIRATION", time.Hour),

		RefreshCookieMaxAge: getEnvDuration("REFRESH_COOKIE_MAX_AGE", 720*time.Hour), // 30 days

		TrustedLoginOrigins: getEnvList("TRUSTED_LOGIN_ORIGINS", nil),

		DatabaseDriver: driver,
		DatabaseDSN:    dsn,

		FaceMatchThreshold: getEnvFloat("FACE_MATCH_THRESHOLD", 0.8),
		AntispoofThreshold: getEnvFloat("ANTISPOOF_THRESHOLD", 0.7),

		FaceAPIURL:                getEnv("FACE_API_URL", ""),
		FaceAPITimeout:            getEnvDuration("FACE_API_TIMEOUT", 10*time.Second),
		FaceAPIInsecureSkipVerify: getEnvBool("FACE_API_INSECURE_SKIP_VERIFY", false),
		FaceAPIAuthMode:           getEnv("FACE_API_AUTH_MODE", "none"),
		FaceAPIAuthSecret:         getEnv("FACE_API_AUTH_SECRET", ""),
		FaceAPIAuthHeader:         getEnv("FACE_API_AUTH_HEADER", "X-API-Secret"),
		FaceAPIMaxRetries:         getEnvInt("FACE_API_MAX_RETRIES", 3),
		FaceAPIRetryDelay:         getEnvDuration("FACE_API_RETRY_DELAY", 1*time.Second),
		FaceAPIMaxRetryDelay:      getEnvDuration("FACE_API_MAX_RETRY_DELAY", 10*time.Second),

		RateLimitEnabled:   getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		RateLimitStore:     getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		RateLimitRedisAddr: getEnv("RATE_LIMIT_REDIS_ADDR", "localhost:6379"),
		RateLimitRedisPass: getEnv("RATE_LIMIT_REDIS_PASSWORD", ""),
		RateLimitRedisDB:   getEnvInt("RATE_LIMIT_REDIS_DB", 0),

		MetricsEnabled:             getEnvBool("METRICS_ENABLED", true),
		MetricsToken:               getEnv("METRICS_TOKEN", ""),
		MetricsGaugeUpdateEnabled:  getEnvBool("METRICS_GAUGE_UPDATE_ENABLED", true),
		MetricsGaugeUpdateInterval: getEnvDuration("METRICS_GAUGE_UPDATE_INTERVAL", time.Minute),
		MetricsCacheStore:          getEnv("METRICS_CACHE_STORE", MetricsCacheStoreMemory),
		MetricsCacheRedisAddr:      getEnv("METRICS_CACHE_REDIS_ADDR", "localhost:6379"),
		MetricsCacheRedisPass:      getEnv("METRICS_CACHE_REDIS_PASSWORD", ""),
		MetricsCacheRedisDB:        getEnvInt("METRICS_CACHE_REDIS_DB", 0),
		MetricsCacheClientTTL:      getEnvDuration("METRICS_CACHE_CLIENT_TTL", time.Minute),

		SeedDemoProject: getEnvBool("SEED_DEMO_PROJECT", true),
	}
}

// Validate checks configuration consistency before the server starts.
func (c *Config) Validate() error {
	if c.IsProduction && c.JWTSecret == "your-256-bit-secret-change-in-production" {
		return fmt.Errorf("JWT_SECRET must be changed in production")
	}
	if c.DatabaseDriver != "sqlite" && c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required for driver %q", c.DatabaseDriver)
	}
	if c.FaceAPIURL == "" {
		return fmt.Errorf("FACE_API_URL is required")
	}
	if c.FaceMatchThreshold <= 0 {
		return fmt.Errorf("FACE_MATCH_THRESHOLD must be positive, got %g", c.FaceMatchThreshold)
	}
	if c.AntispoofThreshold <= 0 || c.AntispoofThreshold > 1 {
		return fmt.Errorf("ANTISPOOF_THRESHOLD must be in (0, 1], got %g", c.AntispoofThreshold)
	}
	switch c.RateLimitStore {
	case RateLimitStoreMemory, RateLimitStoreRedis:
	default:
		return fmt.Errorf("RATE_LIMIT_STORE must be memory or redis, got %q", c.RateLimitStore)
	}
	switch c.MetricsCacheStore {
	case MetricsCacheStoreMemory, MetricsCacheStoreRedis:
	default:
		return fmt.Errorf("METRICS_CACHE_STORE must be memory or redis, got %q", c.MetricsCacheStore)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList parses a comma-separated environment variable into a slice,
// trimming whitespace and dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%g", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
