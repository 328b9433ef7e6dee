package middlewares

import (
	"net/http"
	"strings"
)

// BodySizeLimit caps request bodies of POST, PUT and PATCH at limit bytes.
// Multipart uploads are left to the handler, which applies its own cap.
func BodySizeLimit(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				multipart := strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
				if limit > 0 && !multipart {
					r.Body = http.MaxBytesReader(w, r.Body, limit)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
