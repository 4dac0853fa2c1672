package auth

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/platinummonkey/kafka-console/pkg/kafka"
	"github.com/platinummonkey/kafka-console/pkg/observability"
)

// PlaceholderTokenURL stands in for the token endpoint of an oauth cluster that declares none.
// It is not a usable URL; ValidateClusters reports every cluster that ends up with it.
const PlaceholderTokenURL = "TODO"

// Resolve maps a cluster's declared authentication method to a strategy.
// It never fails: a missing or unknown method resolves to AnonymousStrategy.
func Resolve(cluster kafka.Cluster) Strategy {
	switch cluster.AuthMethod() {
	case kafka.AuthMethodOAuth:
		tokenURL := cluster.TokenURL()
		if tokenURL == "" {
			tokenURL = PlaceholderTokenURL
		}
		return OAuthTokenStrategy{TokenURL: tokenURL}
	case kafka.AuthMethodBasic:
		return ScramBasicStrategy{ClusterID: cluster.ID}
	case kafka.AuthMethodAnonymous:
		return AnonymousStrategy{}
	default:
		return AnonymousStrategy{}
	}
}

// ResolveAll resolves every cluster, keeping input order and length
func ResolveAll(clusters []kafka.Cluster) []Strategy {
	strategies := make([]Strategy, len(clusters))
	for i, cluster := range clusters {
		strategies[i] = Resolve(cluster)
	}
	return strategies
}

func usesPlaceholder(cluster kafka.Cluster) bool {
	return cluster.AuthMethod() == kafka.AuthMethodOAuth && cluster.TokenURL() == ""
}

// ValidateClusters returns one error per cluster whose declaration resolves to something
// other than what it asked for. Resolution itself still succeeds for every cluster.
func ValidateClusters(clusters []kafka.Cluster) []error {
	var problems []error
	for _, cluster := range clusters {
		switch method := cluster.AuthMethod(); {
		case usesPlaceholder(cluster):
			problems = append(problems, fmt.Errorf("cluster %q declares oauth without a tokenUrl, placeholder %q will be used", cluster.ID, PlaceholderTokenURL))
		case method != "" && method != kafka.AuthMethodOAuth && method != kafka.AuthMethodBasic && method != kafka.AuthMethodAnonymous:
			problems = append(problems, fmt.Errorf("cluster %q declares unknown authentication method %q, anonymous access will be used", cluster.ID, method))
		}
	}
	return problems
}

// Resolver wraps ResolveAll with logging, metrics and tracing
type Resolver struct {
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewResolver creates a resolver. Both arguments may be nil.
func NewResolver(logger *observability.Logger, metrics *observability.Metrics) *Resolver {
	if logger != nil {
		logger = logger.WithField("module", "auth")
	}
	return &Resolver{logger: logger, metrics: metrics}
}

// ResolveAll resolves the clusters and records what was resolved
func (r *Resolver) ResolveAll(ctx context.Context, clusters []kafka.Cluster) []Strategy {
	_, span := observability.Tracer().Start(ctx, "auth.ResolveAll")
	defer span.End()

	strategies := ResolveAll(clusters)

	kinds := make([]string, len(strategies))
	for i, s := range strategies {
		kinds[i] = string(s.Kind())
		placeholder := usesPlaceholder(clusters[i])
		r.metrics.ObserveStrategy(kinds[i], placeholder)
		if placeholder && r.logger != nil {
			r.logger.WithFields(map[string]interface{}{
				"cluster":   clusters[i].ID,
				"token_url": PlaceholderTokenURL,
			}).Warn("oauth cluster has no token URL")
		}
	}

	span.SetAttributes(
		attribute.Int("console.clusters", len(clusters)),
		attribute.StringSlice("console.strategies", kinds),
	)
	if r.logger != nil {
		r.logger.WithFields(map[string]interface{}{
			"strategies": kinds,
			"clusters":   len(clusters),
		}).Debug("resolved authentication strategies")
	}

	return strategies
}
