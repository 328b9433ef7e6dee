// Package handlers holds the root-level liveness endpoints.
package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/api/httpx"
)

// Check probes one dependency; a nil Check is reported as "disabled".
type Check func(ctx context.Context) error

// Health answers 200 when every configured dependency responds, 503 otherwise.
func Health(checks map[string]Check, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		deps := make(map[string]string, len(checks))
		for name, check := range checks {
			if check == nil {
				deps[name] = "disabled"
				continue
			}
			if err := check(ctx); err != nil {
				log.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
				deps[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "up"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		httpx.WriteJSON(w, status, map[string]any{"status": overall, "dependencies": deps})
	}
}
