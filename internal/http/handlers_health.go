package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	healthResponse     = `{"status":"ok"}`
	unhealthyResponse  = `{"status":"unavailable"}`
	healthCheckTimeout = 2 * time.Second
)

// healthHandler answers readiness and liveness checks. When ping is set the
// database must answer within healthCheckTimeout.
func healthHandler(ping func(context.Context) error, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, body := http.StatusOK, healthResponse
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			err := ping(ctx)
			cancel()
			if err != nil {
				if logger != nil {
					logger.WarnContext(r.Context(), "health check failed", "error", err)
				}
				status, body = http.StatusServiceUnavailable, unhealthyResponse
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		if r.Method == http.MethodHead {
			return
		}
		// Nothing more to do if the client connection is gone.
		_, _ = io.WriteString(w, body)
	}
}
