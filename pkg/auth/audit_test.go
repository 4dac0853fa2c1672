package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/kafka-console/pkg/observability"
)

func TestAuditLogger_LogLogin(t *testing.T) {
	tests := []struct {
		name       string
		event      LoginEvent
		wantStatus string
		wantLevel  string
		wantError  string
	}{
		{
			name:       "successful login",
			event:      LoginEvent{Provider: "scram", ClusterID: "c1", Subject: "alice"},
			wantStatus: StatusSuccess,
			wantLevel:  "info",
		},
		{
			name:       "failed login",
			event:      LoginEvent{Provider: "oauth-token", ClusterID: "c1", Err: errors.New("bad secret")},
			wantStatus: StatusFailure,
			wantLevel:  "warning",
			wantError:  "bad secret",
		},
		{
			name:       "explicit status",
			event:      LoginEvent{Provider: "scram", Status: StatusDenied, Err: errors.New("forbidden")},
			wantStatus: StatusDenied,
			wantLevel:  "warning",
			wantError:  "forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			metrics := observability.NewMetrics(prometheus.NewRegistry())
			al := NewAuditLogger(observability.NewLogger(observability.InfoLevel, &buf), metrics)

			req := httptest.NewRequest("POST", "/api/auth/callback/c1", nil)
			req.Header.Set("User-Agent", "console-test")
			req.RemoteAddr = "10.0.0.1:1234"
			ctx := observability.WithRequestID(context.Background(), "req-1")

			al.LogLogin(ctx, req, tt.event)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, ActionLogin, entry["action"])
			assert.Equal(t, tt.wantStatus, entry["status"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "audit", entry["module"])
			assert.Equal(t, "10.0.0.1:1234", entry["ip_address"])
			assert.Equal(t, "console-test", entry["user_agent"])
			assert.Equal(t, "req-1", entry["request_id"])
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, entry["error"])
			} else {
				assert.NotContains(t, entry, "error")
			}

			assert.Equal(t, float64(1), testutil.ToFloat64(metrics.LoginsTotal.WithLabelValues(tt.event.Provider, tt.wantStatus)))
		})
	}
}

func TestAuditLogger_SignOutNotCountedAsLogin(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	al := NewAuditLogger(observability.NewLogger(observability.InfoLevel, &bytes.Buffer{}), metrics)

	al.LogLogin(context.Background(), nil, LoginEvent{Action: ActionSignOut, Provider: "scram"})

	assert.Equal(t, 0, testutil.CollectAndCount(metrics.LoginsTotal))
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded for single", headers: map[string]string{"X-Forwarded-For": "1.2.3.4"}, remote: "10.0.0.1:1", want: "1.2.3.4"},
		{name: "forwarded for chain", headers: map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, remote: "10.0.0.1:1", want: "1.2.3.4"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "9.9.9.9"}, remote: "10.0.0.1:1", want: "9.9.9.9"},
		{name: "remote addr", remote: "10.0.0.1:1", want: "10.0.0.1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}
