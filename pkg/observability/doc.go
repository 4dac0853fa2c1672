// Package observability provides structured logging, Prometheus metrics, health probes and
// OpenTelemetry tracing for the console.
//
// # Structured Logging
//
// Create logger (levels follow LOG_LEVEL: fatal, error, warn, info, debug, trace):
//
//	logger := observability.NewLogger(observability.ParseLogLevel("debug"), os.Stdout)
//	logger.WithField("cluster", id).Info("cluster registered")
//
// # Prometheus Metrics
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.LoginsTotal.WithLabelValues("scram-sha", "success").Inc()
//
// # Health Checks
//
//	checker := observability.NewHealthChecker(version)
//	checker.AddCheck("registry", func(ctx context.Context) error {
//		_, err := registry.FetchClusters(ctx)
//		return err
//	})
//
// # Related Packages
//
//   - pkg/config: Observability configuration
//   - pkg/httputil: Request logging middleware
package observability
