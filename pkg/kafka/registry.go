package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Registry lists the Kafka clusters known to the console
type Registry interface {
	FetchClusters(ctx context.Context) ([]Cluster, error)
}

// GetCluster looks a single cluster up by id
func GetCluster(ctx context.Context, registry Registry, id string) (*Cluster, error) {
	clusters, err := registry.FetchClusters(ctx)
	if err != nil {
		return nil, err
	}
	for i := range clusters {
		if clusters[i].ID == id {
			return &clusters[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrClusterNotFound, id)
}

// HTTPRegistry reads the cluster list from the console API
type HTTPRegistry struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRegistry creates a registry backed by {baseURL}/api/kafkas
func NewHTTPRegistry(baseURL string, timeout time.Duration) *HTTPRegistry {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRegistry{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// jsonAPIDocument is the subset of the console API's JSON:API envelope the registry reads
type jsonAPIDocument struct {
	Data []jsonAPIResource `json:"data"`
}

type jsonAPIResource struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Name             string `json:"name"`
		Namespace        string `json:"namespace"`
		BootstrapServers string `json:"bootstrapServers"`
	} `json:"attributes"`
	Meta ClusterMeta `json:"meta"`
}

// FetchClusters performs GET /api/kafkas. Transport, status and decoding failures are
// returned as errors; no partial list is ever returned.
func (r *HTTPRegistry) FetchClusters(ctx context.Context) ([]Cluster, error) {
	query := url.Values{}
	query.Set("fields[kafkas]", "name,namespace,bootstrapServers")
	endpoint := r.baseURL + "/api/kafkas?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build cluster list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clusters: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("cluster list request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var doc jsonAPIDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode cluster list: %w", err)
	}

	clusters := make([]Cluster, 0, len(doc.Data))
	for _, res := range doc.Data {
		if res.ID == "" {
			return nil, fmt.Errorf("cluster list contains a resource without id")
		}
		clusters = append(clusters, Cluster{
			ID:               res.ID,
			Name:             res.Attributes.Name,
			Namespace:        res.Attributes.Namespace,
			BootstrapServers: res.Attributes.BootstrapServers,
			Meta:             res.Meta,
		})
	}

	return clusters, nil
}
