package middlewares

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/api/apperr"
)

func Recovery(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("panic recovered",
					zap.String("request_id", RequestIDFrom(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				apperr.WriteStatus(w, r, http.StatusInternalServerError, "Internal Server Error", "")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
