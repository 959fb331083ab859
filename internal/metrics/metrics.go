package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values shared across counters
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Recorder is the metrics surface the rest of the application sees.
// Handlers and the websocket flow record through it; Init decides
// whether Prometheus or the noop implementation backs it.
type Recorder interface {
	// Authorization codes
	RecordAuthCodeIssued(success bool)
	RecordCodeRedemption(result string) // success, invalid_grant, error

	// Tokens and sessions
	RecordTokenIssued(flow string) // oauth, signin
	RecordTokenRefresh(flow string, success bool)
	RecordSessionRevoked(flow string)

	// Face pipeline
	RecordFrameProcessed(result string, duration time.Duration) // ok, no_face, spoof, error
	RecordFaceMatch(matched bool)
	RecordAuthFlow(authType, result string) // register/login/oauth x success/failure

	// Gauge setters (for periodic updates)
	SetActiveSessionsCount(flow string, count int)
	SetEnrolledFacesCount(count int)
	SetPendingAuthCodesCount(count int)

	// Database operations
	RecordDatabaseQueryError(operation string)
}

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Authorization code metrics
	AuthCodesIssuedTotal   *prometheus.CounterVec
	CodeRedemptionTotal    *prometheus.CounterVec
	AuthCodesPending       prometheus.Gauge

	// Token metrics
	TokensIssuedTotal   *prometheus.CounterVec
	TokenRefreshTotal   *prometheus.CounterVec
	SessionsRevokedTotal *prometheus.CounterVec
	SessionsActive      *prometheus.GaugeVec

	// Face pipeline metrics
	FramesProcessedTotal   *prometheus.CounterVec
	FrameProcessingDuration prometheus.Histogram
	FaceMatchTotal         *prometheus.CounterVec
	AuthFlowsTotal         *prometheus.CounterVec
	FacesEnrolled          prometheus.Gauge

	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database query metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag. Disabled metrics cost
// nothing: every call goes through the noop recorder. sync.Once keeps
// Prometheus registration from running twice.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	return &Metrics{
		AuthCodesIssuedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_auth_codes_issued_total",
				Help: "Total number of authorization codes issued",
			},
			[]string{"result"}, // success, error
		),
		CodeRedemptionTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_code_redemption_total",
				Help: "Total number of authorization code redemptions",
			},
			[]string{"result"}, // success, invalid_grant, error
		),
		AuthCodesPending: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "oauth_auth_codes_pending",
				Help: "Current number of unredeemed authorization codes",
			},
		),

		TokensIssuedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_tokens_issued_total",
				Help: "Total number of token pairs issued",
			},
			[]string{"flow"}, // oauth, signin
		),
		TokenRefreshTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_token_refresh_total",
				Help: "Total number of refresh token rotations",
			},
			[]string{"flow", "result"},
		),
		SessionsRevokedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_sessions_revoked_total",
				Help: "Total number of sessions revoked",
			},
			[]string{"flow"},
		),
		SessionsActive: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "oauth_sessions_active",
				Help: "Current number of active sessions",
			},
			[]string{"flow"},
		),

		FramesProcessedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "face_frames_processed_total",
				Help: "Total number of camera frames processed",
			},
			[]string{"result"}, // ok, no_face, spoof, error
		),
		FrameProcessingDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "face_frame_processing_duration_seconds",
				Help:    "Time spent in the face inference pipeline per frame",
				Buckets: prometheus.DefBuckets,
			},
		),
		FaceMatchTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "face_match_total",
				Help: "Total number of nearest-neighbor match attempts",
			},
			[]string{"result"}, // match, no_match
		),
		AuthFlowsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "face_auth_flows_total",
				Help: "Total number of completed websocket auth flows",
			},
			[]string{"auth_type", "result"},
		),
		FacesEnrolled: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "face_enrolled_total",
				Help: "Current number of enrolled faces",
			},
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of in-flight HTTP requests",
			},
		),

		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors",
			},
			[]string{"operation"},
		),
	}
}

func boolResult(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultError
}

func (m *Metrics) RecordAuthCodeIssued(success bool) {
	m.AuthCodesIssuedTotal.WithLabelValues(boolResult(success)).Inc()
}

func (m *Metrics) RecordCodeRedemption(result string) {
	m.CodeRedemptionTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordTokenIssued(flow string) {
	m.TokensIssuedTotal.WithLabelValues(flow).Inc()
}

func (m *Metrics) RecordTokenRefresh(flow string, success bool) {
	m.TokenRefreshTotal.WithLabelValues(flow, boolResult(success)).Inc()
}

func (m *Metrics) RecordSessionRevoked(flow string) {
	m.SessionsRevokedTotal.WithLabelValues(flow).Inc()
}

func (m *Metrics) RecordFrameProcessed(result string, duration time.Duration) {
	m.FramesProcessedTotal.WithLabelValues(result).Inc()
	m.FrameProcessingDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordFaceMatch(matched bool) {
	result := "no_match"
	if matched {
		result = "match"
	}
	m.FaceMatchTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordAuthFlow(authType, result string) {
	m.AuthFlowsTotal.WithLabelValues(authType, result).Inc()
}

func (m *Metrics) SetActiveSessionsCount(flow string, count int) {
	m.SessionsActive.WithLabelValues(flow).Set(float64(count))
}

func (m *Metrics) SetEnrolledFacesCount(count int) {
	m.FacesEnrolled.Set(float64(count))
}

func (m *Metrics) SetPendingAuthCodesCount(count int) {
	m.AuthCodesPending.Set(float64(count))
}

func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
