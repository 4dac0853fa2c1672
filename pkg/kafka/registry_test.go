package kafka

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clusterListJSON = `{
  "data": [
    {
      "id": "c-oauth",
      "type": "kafkas",
      "attributes": {"name": "prod", "namespace": "kafka", "bootstrapServers": "prod:9093"},
      "meta": {"authentication": {"method": "oauth", "tokenUrl": "https://sso.example.com/token"}}
    },
    {
      "id": "c-basic",
      "type": "kafkas",
      "attributes": {"name": "dev"},
      "meta": {"authentication": {"method": "basic"}}
    },
    {
      "id": "c-none",
      "type": "kafkas",
      "attributes": {"name": "sandbox"},
      "meta": {}
    }
  ]
}`

func TestHTTPRegistry_FetchClusters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/kafkas", r.URL.Path)
		assert.Equal(t, "name,namespace,bootstrapServers", r.URL.Query().Get("fields[kafkas]"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(clusterListJSON))
	}))
	defer server.Close()

	registry := NewHTTPRegistry(server.URL+"/", time.Second)
	clusters, err := registry.FetchClusters(context.Background())
	require.NoError(t, err)
	require.Len(t, clusters, 3)

	assert.Equal(t, "c-oauth", clusters[0].ID)
	assert.Equal(t, "kafka/prod", clusters[0].DisplayName())
	assert.Equal(t, "prod:9093", clusters[0].BootstrapServers)
	assert.Equal(t, AuthMethodOAuth, clusters[0].AuthMethod())
	assert.Equal(t, "https://sso.example.com/token", clusters[0].TokenURL())

	assert.Equal(t, AuthMethodBasic, clusters[1].AuthMethod())
	assert.Equal(t, "", clusters[1].TokenURL())

	assert.Nil(t, clusters[2].Meta.Authentication)
	assert.Equal(t, AuthMethod(""), clusters[2].AuthMethod())
}

func TestHTTPRegistry_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "backend down", http.StatusBadGateway)
			},
			wantErr: "status 502",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"data": [`))
			},
			wantErr: "failed to decode cluster list",
		},
		{
			name: "resource without id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"data": [{"type": "kafkas"}]}`))
			},
			wantErr: "without id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			clusters, err := NewHTTPRegistry(server.URL, time.Second).FetchClusters(context.Background())
			require.Error(t, err)
			assert.Nil(t, clusters)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHTTPRegistry_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewHTTPRegistry(url, time.Second).FetchClusters(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch clusters")
}

type staticRegistry struct {
	clusters []Cluster
	err      error
	calls    int
}

func (s *staticRegistry) FetchClusters(ctx context.Context) ([]Cluster, error) {
	s.calls++
	return s.clusters, s.err
}

func TestGetCluster(t *testing.T) {
	registry := &staticRegistry{clusters: []Cluster{{ID: "a"}, {ID: "b", Name: "beta"}}}

	cluster, err := GetCluster(context.Background(), registry, "b")
	require.NoError(t, err)
	assert.Equal(t, "beta", cluster.Name)

	_, err = GetCluster(context.Background(), registry, "missing")
	assert.ErrorIs(t, err, ErrClusterNotFound)

	failing := &staticRegistry{err: errors.New("unreachable")}
	_, err = GetCluster(context.Background(), failing, "a")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrClusterNotFound)
}

func TestCluster_DisplayName(t *testing.T) {
	assert.Equal(t, "id-1", Cluster{ID: "id-1"}.DisplayName())
	assert.Equal(t, "name", Cluster{ID: "id-1", Name: "name"}.DisplayName())
	assert.Equal(t, "ns/name", Cluster{ID: "id-1", Name: "name", Namespace: "ns"}.DisplayName())
}
