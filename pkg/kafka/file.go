package kafka

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// consoleFile mirrors the `kafka` section of the console configuration file
type consoleFile struct {
	Kafka struct {
		Clusters []fileCluster `yaml:"clusters"`
	} `yaml:"kafka"`
}

type fileCluster struct {
	ID               string          `yaml:"id"`
	Name             string          `yaml:"name"`
	Namespace        string          `yaml:"namespace"`
	BootstrapServers string          `yaml:"bootstrapServers"`
	Authentication   *Authentication `yaml:"authentication"`
}

// FileRegistry reads a static cluster list from a YAML console configuration file.
// The file is re-read on every fetch; wrap it in a CachingRegistry to avoid that.
type FileRegistry struct {
	path string
}

// NewFileRegistry creates a registry over the given file
func NewFileRegistry(path string) *FileRegistry {
	return &FileRegistry{path: path}
}

// FetchClusters loads the clusters in file order
func (r *FileRegistry) FetchClusters(ctx context.Context) ([]Cluster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read console config: %w", err)
	}

	return ParseClusters(data)
}

// ParseClusters decodes the kafka.clusters list of a console configuration document
func ParseClusters(data []byte) ([]Cluster, error) {
	var file consoleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse console config: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Kafka.Clusters))
	clusters := make([]Cluster, 0, len(file.Kafka.Clusters))
	for i, fc := range file.Kafka.Clusters {
		if fc.ID == "" {
			return nil, fmt.Errorf("kafka cluster %d (%q) has no id", i, fc.Name)
		}
		if _, dup := seen[fc.ID]; dup {
			return nil, fmt.Errorf("duplicate kafka cluster id %q", fc.ID)
		}
		seen[fc.ID] = struct{}{}

		clusters = append(clusters, Cluster{
			ID:               fc.ID,
			Name:             fc.Name,
			Namespace:        fc.Namespace,
			BootstrapServers: fc.BootstrapServers,
			Meta:             ClusterMeta{Authentication: fc.Authentication},
		})
	}

	return clusters, nil
}
