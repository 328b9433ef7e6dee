// Package httpx holds small JSON and request-parsing helpers for handlers.
package httpx

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/5w1tchy/library-api/internal/errs"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK wraps data in the {"status":"success","data":...} envelope.
func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, map[string]any{"status": "success", "data": data})
}

func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, map[string]any{"status": "success", "data": data})
}

func OKNoData(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

// DecodeJSON reads exactly one JSON object into dst and rejects unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			return errs.Invalid("body", "too large")
		case errors.Is(err, io.EOF):
			return errs.Invalid("body", "is required")
		}
		return errs.Invalid("body", "invalid JSON: "+err.Error())
	}
	if dec.More() {
		return errs.Invalid("body", "must contain a single JSON object")
	}
	return nil
}

// PathID parses the {name} path value as a positive int64.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Invalid(name, "must be a positive integer")
	}
	return id, nil
}

// QueryInt64 returns nil when the parameter is absent or blank.
func QueryInt64(r *http.Request, name string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errs.Invalid(name, "must be an integer")
	}
	return &n, nil
}

func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.Invalid(name, "must be an integer")
	}
	return n, nil
}
