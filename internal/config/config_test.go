package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.False(t, cfg.IsProduction)
	assert.Equal(t, time.Hour, cfg.JWTExpiration)
	assert.Equal(t, 720*time.Hour, cfg.RefreshCookieMaxAge)
	assert.Empty(t, cfg.TrustedLoginOrigins)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "authvisage.db", cfg.DatabaseDSN)
	assert.Equal(t, 0.8, cfg.FaceMatchThreshold)
	assert.Equal(t, 0.7, cfg.AntispoofThreshold)
	assert.Equal(t, "X-API-Secret", cfg.FaceAPIAuthHeader)
	assert.Equal(t, 3, cfg.FaceAPIMaxRetries)
	assert.True(t, cfg.RateLimitEnabled)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, RateLimitStoreMemory, cfg.RateLimitStore)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, MetricsCacheStoreMemory, cfg.MetricsCacheStore)
	assert.Equal(t, time.Minute, cfg.MetricsGaugeUpdateInterval)
	assert.True(t, cfg.SeedDemoProject)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "host=db user=app dbname=authvisage")
	t.Setenv("JWT_EXPIRATION", "30m")
	t.Setenv("FACE_MATCH_THRESHOLD", "0.65")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("METRICS_CACHE_STORE", "redis")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.True(t, cfg.IsProduction)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "host=db user=app dbname=authvisage", cfg.DatabaseDSN)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiration)
	assert.Equal(t, 0.65, cfg.FaceMatchThreshold)
	assert.False(t, cfg.RateLimitEnabled)
	assert.Equal(t, MetricsCacheStoreRedis, cfg.MetricsCacheStore)
}

func TestLoadTrustedLoginOrigins(t *testing.T) {
	t.Setenv("TRUSTED_LOGIN_ORIGINS", "https://account.example.com, https://portal.example.com ,")

	cfg := Load()
	assert.Equal(t,
		[]string{"https://account.example.com", "https://portal.example.com"},
		cfg.TrustedLoginOrigins,
	)
}

func TestLoadSQLitePathFallback(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/var/lib/authvisage/data.db")

	cfg := Load()
	assert.Equal(t, "/var/lib/authvisage/data.db", cfg.DatabaseDSN)
}

func validTestConfig() *Config {
	return &Config{
		JWTSecret:          "a-strong-secret",
		DatabaseDriver:     "sqlite",
		FaceAPIURL:         "http://face-api:8000",
		FaceMatchThreshold: 0.8,
		AntispoofThreshold: 0.7,
		RateLimitStore:     RateLimitStoreMemory,
		MetricsCacheStore:  MetricsCacheStoreMemory,
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validTestConfig().Validate())
}

func TestValidate_ProductionDefaultSecret(t *testing.T) {
	cfg := validTestConfig()
	cfg.IsProduction = true
	cfg.JWTSecret = "your-256-bit-secret-change-in-production"

	err := cfg.Validate()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestValidate_PostgresRequiresDSN(t *testing.T) {
	cfg := validTestConfig()
	cfg.DatabaseDriver = "postgres"
	cfg.DatabaseDSN = ""

	err := cfg.Validate()
	assert.ErrorContains(t, err, "DATABASE_DSN")
}

func TestValidate_MissingFaceAPIURL(t *testing.T) {
	cfg := validTestConfig()
	cfg.FaceAPIURL = ""

	err := cfg.Validate()
	assert.ErrorContains(t, err, "FACE_API_URL")
}

func TestValidate_Thresholds(t *testing.T) {
	cfg := validTestConfig()
	cfg.FaceMatchThreshold = 0
	assert.ErrorContains(t, cfg.Validate(), "FACE_MATCH_THRESHOLD")

	cfg = validTestConfig()
	cfg.AntispoofThreshold = 1.5
	assert.ErrorContains(t, cfg.Validate(), "ANTISPOOF_THRESHOLD")
}

func TestValidate_StoreNames(t *testing.T) {
	cfg := validTestConfig()
	cfg.RateLimitStore = "memcached"
	assert.ErrorContains(t, cfg.Validate(), "RATE_LIMIT_STORE")

	cfg = validTestConfig()
	cfg.MetricsCacheStore = "disk"
	assert.ErrorContains(t, cfg.Validate(), "METRICS_CACHE_STORE")
}
