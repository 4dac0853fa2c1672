// Package kafka provides the console's view of the managed Kafka clusters.
//
// A Registry returns the known clusters together with the authentication method each one
// declares. HTTPRegistry reads the console API (GET /api/kafkas), FileRegistry reads the
// kafka.clusters list of a YAML console configuration, and CachingRegistry keeps either one
// from being hit on every sign-in request.
//
//	registry := kafka.NewCachingRegistry(kafka.NewHTTPRegistry(backendURL, 10*time.Second),
//		30*time.Second, logger, metrics)
//	clusters, err := registry.FetchClusters(ctx)
package kafka
