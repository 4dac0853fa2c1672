package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Authentication metrics
	StrategyResolutionsTotal *prometheus.CounterVec
	PlaceholderTokenURLTotal prometheus.Counter
	LoginsTotal              *prometheus.CounterVec
	SessionsRevokedTotal     prometheus.Counter
	SignInsThrottledTotal    prometheus.Counter

	// Cluster registry metrics
	RegistryFetchTotal    *prometheus.CounterVec
	RegistryFetchDuration prometheus.Histogram
	RegistryCacheHits     prometheus.Counter
	RegistryCacheMisses   prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "console_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		StrategyResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_auth_strategy_resolutions_total",
				Help: "Authentication strategies resolved from cluster metadata",
			},
			[]string{"kind"},
		),
		PlaceholderTokenURLTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "console_auth_placeholder_token_url_total",
				Help: "OAuth clusters resolved without a token URL",
			},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_auth_logins_total",
				Help: "Login attempts by provider and outcome",
			},
			[]string{"provider", "status"},
		),
		SessionsRevokedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "console_auth_sessions_revoked_total",
				Help: "Session tokens revoked by sign-out",
			},
		),
		SignInsThrottledTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "console_auth_signins_throttled_total",
				Help: "Sign-in attempts rejected by the rate limiter",
			},
		),
		RegistryFetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_registry_fetch_total",
				Help: "Cluster registry fetches by outcome",
			},
			[]string{"status"},
		),
		RegistryFetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "console_registry_fetch_duration_seconds",
				Help:    "Cluster registry fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		RegistryCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "console_registry_cache_hits_total",
				Help: "Cluster list served from cache",
			},
		),
		RegistryCacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "console_registry_cache_misses_total",
				Help: "Cluster list fetched from the underlying registry",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.StrategyResolutionsTotal,
		m.PlaceholderTokenURLTotal,
		m.LoginsTotal,
		m.SessionsRevokedTotal,
		m.SignInsThrottledTotal,
		m.RegistryFetchTotal,
		m.RegistryFetchDuration,
		m.RegistryCacheHits,
		m.RegistryCacheMisses,
	)

	return m
}

// ObserveRegistryFetch records the outcome of one registry fetch
func (m *Metrics) ObserveRegistryFetch(start time.Time, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.RegistryFetchTotal.WithLabelValues(status).Inc()
	m.RegistryFetchDuration.Observe(time.Since(start).Seconds())
}

// ObserveStrategy records one resolved strategy
func (m *Metrics) ObserveStrategy(kind string, placeholder bool) {
	if m == nil {
		return
	}
	m.StrategyResolutionsTotal.WithLabelValues(kind).Inc()
	if placeholder {
		m.PlaceholderTokenURLTotal.Inc()
	}
}

// ObserveLogin records one login attempt
func (m *Metrics) ObserveLogin(provider, status string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(provider, status).Inc()
}

// ObserveRevocation records one revoked session
func (m *Metrics) ObserveRevocation() {
	if m == nil {
		return
	}
	m.SessionsRevokedTotal.Inc()
}

// ObserveThrottledSignIn records one sign-in rejected by the rate limiter
func (m *Metrics) ObserveThrottledSignIn() {
	if m == nil {
		return
	}
	m.SignInsThrottledTotal.Inc()
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics.
// Paths are labelled with the matched route template to keep cardinality bounded.
func HTTPMetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tmpl, err := route.GetPathTemplate(); err == nil {
					path = tmpl
				}
			}

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.statusCode)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(mux *http.ServeMux, registry *prometheus.Registry) {
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
