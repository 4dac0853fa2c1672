package middleware

import (
	"net/http"

	"github.com/platinummonkey/kafka-console/pkg/config"
	"github.com/platinummonkey/kafka-console/pkg/httputil"
)

// ConsoleModeMiddleware rejects mutating requests when the console is read-only
func ConsoleModeMiddleware(mode config.ConsoleMode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if mode == config.ModeReadOnly && isMutating(r.Method) {
				httputil.WriteForbidden(w, "console is read-only")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
