package kafka

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/platinummonkey/kafka-console/pkg/observability"
)

const clusterListKey = "clusters"

// CachingRegistry caches the cluster list of another registry for a fixed TTL.
// Concurrent misses share a single upstream fetch and failures are never cached.
type CachingRegistry struct {
	next    Registry
	cache   *expirable.LRU[string, []Cluster]
	group   singleflight.Group
	metrics *observability.Metrics
	logger  *observability.Logger
}

// NewCachingRegistry wraps next. metrics may be nil.
func NewCachingRegistry(next Registry, ttl time.Duration, logger *observability.Logger, metrics *observability.Metrics) *CachingRegistry {
	return &CachingRegistry{
		next:    next,
		cache:   expirable.NewLRU[string, []Cluster](1, nil, ttl),
		metrics: metrics,
		logger:  logger.WithField("module", "registry"),
	}
}

// FetchClusters returns the cached list or fetches it from the wrapped registry
func (r *CachingRegistry) FetchClusters(ctx context.Context) ([]Cluster, error) {
	if clusters, ok := r.cache.Get(clusterListKey); ok {
		if r.metrics != nil {
			r.metrics.RegistryCacheHits.Inc()
		}
		return cloneClusters(clusters), nil
	}
	if r.metrics != nil {
		r.metrics.RegistryCacheMisses.Inc()
	}

	// the shared fetch outlives any single caller; upstream registries bound it with their own timeouts
	fetchCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(clusterListKey, func() (interface{}, error) {
		start := time.Now()
		clusters, err := r.next.FetchClusters(fetchCtx)
		r.metrics.ObserveRegistryFetch(start, err)
		if err != nil {
			r.logger.WithError(err).Warn("cluster registry fetch failed")
			return nil, err
		}
		r.cache.Add(clusterListKey, clusters)
		r.logger.WithField("clusters", len(clusters)).Debug("cluster list refreshed")
		return clusters, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneClusters(res.Val.([]Cluster)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops the cached list
func (r *CachingRegistry) Invalidate() {
	r.cache.Purge()
}

func cloneClusters(in []Cluster) []Cluster {
	out := make([]Cluster, len(in))
	copy(out, in)
	for i := range out {
		if authn := out[i].Meta.Authentication; authn != nil {
			copied := *authn
			out[i].Meta.Authentication = &copied
		}
	}
	return out
}
