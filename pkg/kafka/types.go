package kafka

import "errors"

// ErrClusterNotFound is returned when a cluster id is not known to the registry
var ErrClusterNotFound = errors.New("kafka cluster not found")

// AuthMethod is the authentication method a cluster declares for console users
type AuthMethod string

const (
	AuthMethodOAuth     AuthMethod = "oauth"
	AuthMethodBasic     AuthMethod = "basic"
	AuthMethodAnonymous AuthMethod = "anonymous"
)

// Cluster describes one managed Kafka cluster
type Cluster struct {
	ID               string      `json:"id" yaml:"id"`
	Name             string      `json:"name" yaml:"name"`
	Namespace        string      `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	BootstrapServers string      `json:"bootstrapServers,omitempty" yaml:"bootstrapServers,omitempty"`
	Meta             ClusterMeta `json:"meta" yaml:"meta"`
}

// ClusterMeta carries console-specific metadata about a cluster
type ClusterMeta struct {
	Authentication *Authentication `json:"authentication,omitempty" yaml:"authentication,omitempty"`
}

// Authentication is a cluster's declared authentication method and its settings
type Authentication struct {
	Method AuthMethod `json:"method,omitempty" yaml:"method,omitempty"`
	// TokenURL is the OAuth token endpoint, only meaningful for the oauth method
	TokenURL string `json:"tokenUrl,omitempty" yaml:"tokenUrl,omitempty"`
}

// AuthMethod returns the declared method, or "" when the cluster declares none
func (c Cluster) AuthMethod() AuthMethod {
	if c.Meta.Authentication == nil {
		return ""
	}
	return c.Meta.Authentication.Method
}

// TokenURL returns the declared OAuth token URL, or "" when absent
func (c Cluster) TokenURL() string {
	if c.Meta.Authentication == nil {
		return ""
	}
	return c.Meta.Authentication.TokenURL
}

// DisplayName returns the name shown on the sign-in page
func (c Cluster) DisplayName() string {
	if c.Name == "" {
		return c.ID
	}
	if c.Namespace == "" {
		return c.Name
	}
	return c.Namespace + "/" + c.Name
}
