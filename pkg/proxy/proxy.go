package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apihttp "github.com/platinummonkey/kafka-console/pkg/httputil"
	"github.com/platinummonkey/kafka-console/pkg/middleware"
	"github.com/platinummonkey/kafka-console/pkg/observability"
)

// BackendProxy forwards console API calls to the backend with the caller's cluster credential
type BackendProxy struct {
	target *url.URL
	proxy  *httputil.ReverseProxy
	logger *observability.Logger
}

// NewBackendProxy creates a proxy to backendURL. transport may be nil.
func NewBackendProxy(backendURL string, transport http.RoundTripper, logger *observability.Logger) (*BackendProxy, error) {
	target, err := url.Parse(backendURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse backend URL: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("backend URL must be absolute: %q", backendURL)
	}
	if transport == nil {
		transport = http.DefaultTransport
	}

	p := &BackendProxy{
		target: target,
		logger: logger.WithField("module", "proxy"),
	}
	p.proxy = &httputil.ReverseProxy{
		Rewrite:      p.rewrite,
		Transport:    otelhttp.NewTransport(transport),
		ErrorHandler: p.handleError,
	}
	return p, nil
}

func (p *BackendProxy) rewrite(pr *httputil.ProxyRequest) {
	pr.SetURL(p.target)
	pr.SetXForwarded()

	// console cookies, the session token among them, stay with the console
	pr.Out.Header.Del("Cookie")

	authorization := sessionAuthorization(pr.In)
	if authorization == nil {
		pr.Out.Header.Del("Authorization")
		return
	}
	pr.Out.Header.Set("Authorization", *authorization)
}

func sessionAuthorization(r *http.Request) *string {
	session := middleware.GetSession(r)
	if session == nil {
		return nil
	}
	return session.Authorization
}

func (p *BackendProxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.WithFields(map[string]interface{}{
		"request_id": observability.GetRequestID(r.Context()),
		"path":       r.URL.Path,
	}).WithError(err).Error("backend request failed")
	apihttp.WriteBadGateway(w, "backend unavailable")
}

// ServeHTTP proxies r. A session must already be resolved by middleware.SessionMiddleware.
func (p *BackendProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r)
	if session == nil {
		apihttp.WriteUnauthorized(w, "sign-in required")
		return
	}

	if session.ClusterID != "" {
		p.logger.WithFields(map[string]interface{}{
			"cluster":       session.ClusterID,
			"provider":      session.Provider,
			"authorization": session.Authorization != nil,
			"path":          r.URL.Path,
		}).Trace("proxying backend request")
	}

	p.proxy.ServeHTTP(w, r)
}

