package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/platinummonkey/kafka-console/pkg/observability"
)

// Audit actions
const (
	ActionLogin   = "auth.login"
	ActionSignOut = "auth.signout"
)

// Status constants
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusDenied  = "denied"
)

// LoginEvent describes one sign-in or sign-out attempt
type LoginEvent struct {
	Action    string
	Provider  string
	ClusterID string
	Subject   string
	Status    string
	Err       error
}

// AuditLogger writes security audit records as structured log lines
type AuditLogger struct {
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewAuditLogger creates a new audit logger. metrics may be nil.
func NewAuditLogger(logger *observability.Logger, metrics *observability.Metrics) *AuditLogger {
	return &AuditLogger{
		logger:  logger.WithField("module", "audit"),
		metrics: metrics,
	}
}

// LogLogin records event for request r
func (al *AuditLogger) LogLogin(ctx context.Context, r *http.Request, event LoginEvent) {
	if event.Action == "" {
		event.Action = ActionLogin
	}
	if event.Status == "" {
		event.Status = StatusSuccess
		if event.Err != nil {
			event.Status = StatusFailure
		}
	}

	fields := map[string]interface{}{
		"action":   event.Action,
		"provider": event.Provider,
		"status":   event.Status,
	}
	if event.ClusterID != "" {
		fields["cluster"] = event.ClusterID
	}
	if event.Subject != "" {
		fields["subject"] = event.Subject
	}
	if r != nil {
		fields["ip_address"] = ClientIP(r)
		fields["user_agent"] = r.UserAgent()
	}
	if requestID := observability.GetRequestID(ctx); requestID != "" {
		fields["request_id"] = requestID
	}

	logger := al.logger.WithFields(fields).WithError(event.Err)
	if event.Status == StatusSuccess {
		logger.Info("audit")
	} else {
		logger.Warn("audit")
	}

	if event.Action == ActionLogin {
		al.metrics.ObserveLogin(event.Provider, event.Status)
	}
}

// ClientIP returns the originating client address, preferring proxy headers
func ClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (if behind proxy)
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if i := strings.IndexByte(forwarded, ','); i >= 0 {
			return strings.TrimSpace(forwarded[:i])
		}
		return strings.TrimSpace(forwarded)
	}

	// Check X-Real-IP header
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	return r.RemoteAddr
}
