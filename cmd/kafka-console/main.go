package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/platinummonkey/kafka-console/pkg/auth"
	"github.com/platinummonkey/kafka-console/pkg/config"
	"github.com/platinummonkey/kafka-console/pkg/httputil"
	"github.com/platinummonkey/kafka-console/pkg/kafka"
	"github.com/platinummonkey/kafka-console/pkg/middleware"
	"github.com/platinummonkey/kafka-console/pkg/observability"
	"github.com/platinummonkey/kafka-console/pkg/proxy"
	"github.com/platinummonkey/kafka-console/pkg/sso"
)

// credential forms are tiny; anything larger is not a sign-in
const maxSignInBodyBytes = 64 << 10

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := observability.InitTracing(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize tracing")
	}

	promRegistry := prometheus.NewRegistry()
	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(promRegistry)
	}

	registry := newRegistry(cfg, logger, metrics)
	clusters, err := registry.FetchClusters(ctx)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load the cluster list")
	}
	for _, problem := range auth.ValidateClusters(clusters) {
		logger.Warn(problem.Error())
	}
	logger.Infof("Loaded %d clusters", len(clusters))

	codec, err := auth.NewTokenCodec(cfg.Auth.Secret, cfg.Auth.SessionMaxAge)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create session token codec")
	}

	var redisClient *redis.Client
	if cfg.Auth.RedisURL != "" {
		redisClient, err = sso.NewRedisClient(ctx, cfg.Auth.RedisURL)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		logger.Info("Using Redis for session revocation and sign-in limits")
	}

	var revocations sso.RevocationStore
	if redisClient != nil {
		revocations = sso.NewRedisRevocationStore(redisClient, "")
	} else {
		revocations = sso.NewMemoryRevocationStore(10000, cfg.Auth.SessionMaxAge)
	}

	var keycloak *sso.KeycloakProvider
	if cfg.Auth.KeycloakEnabled() {
		keycloak, err = sso.NewKeycloakProvider(ctx, sso.KeycloakConfig{
			IssuerURL:    cfg.Auth.KeycloakURL,
			ClientID:     cfg.Auth.KeycloakClientID,
			ClientSecret: cfg.Auth.KeycloakClientSecret,
			RedirectURL:  strings.TrimSuffix(cfg.Auth.PublicURL, "/") + "/api/auth/callback/" + sso.KeycloakProviderID,
		})
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize Keycloak")
		}
	}

	if cfg.Backend.URL == "" {
		logger.Warn("BACKEND_URL is not set: SCRAM sign-in and the backend proxy are disabled")
	}

	authenticator, err := sso.NewAuthenticator(sso.Options{
		Registry:    registry,
		Factory:     sso.NewProviderFactory(cfg.Backend.URL, cfg.Backend.Timeout),
		Codec:       codec,
		Revocations: revocations,
		Keycloak:    keycloak,
		Logger:      logger,
		Metrics:     metrics,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to create authenticator")
	}

	handlers := sso.NewHandlers(authenticator, auth.NewAuditLogger(logger, metrics), cfg.Auth.SecureCookies(), logger)
	signInGuards := []func(http.Handler) http.Handler{httputil.MaxBytesMiddleware(maxSignInBodyBytes)}
	if limiter := newSignInLimiter(ctx, cfg, redisClient); limiter != nil {
		proxies, err := middleware.ParseTrustedProxies(cfg.Auth.TrustedProxies)
		if err != nil {
			logger.WithError(err).Fatal("Invalid CONSOLE_TRUSTED_PROXIES")
		}
		throttle := middleware.NewRateLimitMiddleware(limiter, logger, metrics)
		throttle.SetTrustedProxies(proxies)
		signInGuards = append(signInGuards, throttle.Handler)
	}
	handlers.UseSignInLimit(httputil.Chain(signInGuards...))

	router := mux.NewRouter()
	router.Use(httputil.RequestIDMiddleware, httputil.LoggingMiddleware(logger), httputil.RecoveryMiddleware(logger))
	if metrics != nil {
		router.Use(observability.HTTPMetricsMiddleware(metrics))
	}
	handlers.RegisterRoutes(router)

	if cfg.Backend.URL != "" {
		backend, err := proxy.NewBackendProxy(cfg.Backend.URL, nil, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create backend proxy")
		}
		sessions := middleware.NewSessionMiddleware(authenticator, false, logger)
		api := httputil.Chain(sessions.Handler, middleware.ConsoleModeMiddleware(cfg.Console.Mode))
		router.PathPrefix("/api/kafkas").Handler(api(backend))
	}

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      otelhttp.NewHandler(router, "kafka-console"),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	health := observability.NewHealthChecker(cfg.Observability.OTelServiceVersion)
	health.AddCheck("registry", func(ctx context.Context) error {
		_, err := registry.FetchClusters(ctx)
		return err
	})
	if redisClient != nil {
		health.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health/live", health.Liveness)
	healthMux.HandleFunc("/health/ready", health.Readiness)
	if metrics != nil {
		observability.RegisterMetricsEndpoint(healthMux, promRegistry)
	}
	healthServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler: healthMux,
	}

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, server, healthServer)
	shutdown.RegisterShutdownFunc(func(context.Context) error {
		cancel()
		return nil
	})
	if tp != nil {
		shutdown.RegisterShutdownFunc(tp.Shutdown)
	}
	if redisClient != nil {
		shutdown.RegisterShutdownFunc(func(context.Context) error {
			return redisClient.Close()
		})
	}

	for _, srv := range []*http.Server{server, healthServer} {
		go func(srv *http.Server) {
			logger.Infof("Listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Fatal("HTTP server failed")
			}
		}(srv)
	}
	logger.WithField("mode", string(cfg.Console.Mode)).Info("Kafka console started")

	if err := shutdown.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
		os.Exit(1)
	}
}

func newRegistry(cfg *config.Config, logger *observability.Logger, metrics *observability.Metrics) kafka.Registry {
	var source kafka.Registry
	if cfg.Backend.ConfigPath != "" {
		logger.Infof("Reading clusters from %s", cfg.Backend.ConfigPath)
		source = kafka.NewFileRegistry(cfg.Backend.ConfigPath)
	} else {
		source = kafka.NewHTTPRegistry(cfg.Backend.URL, cfg.Backend.Timeout)
	}
	return kafka.NewCachingRegistry(source, cfg.Backend.CacheTTL, logger, metrics)
}

// newSignInLimiter returns nil when sign-in throttling is disabled
func newSignInLimiter(ctx context.Context, cfg *config.Config, redisClient *redis.Client) middleware.Limiter {
	if cfg.Auth.SignInRateLimit == 0 {
		return nil
	}
	limits := &middleware.RateLimitConfig{
		RequestsPerWindow: cfg.Auth.SignInRateLimit,
		WindowDuration:    cfg.Auth.SignInRateWindow,
	}
	if redisClient != nil {
		return middleware.NewDistributedRateLimiter(redisClient, limits, "")
	}
	limiter := middleware.NewRateLimiter(limits)
	limiter.StartCleanup(ctx)
	return limiter
}
