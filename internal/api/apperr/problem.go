// Package apperr renders failures as RFC 7807 problem documents.
package apperr

import (
	"encoding/json"
	"net/http"
)

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Problem struct {
	Type        string       `json:"type,omitempty"`
	Title       string       `json:"title"`
	Status      int          `json:"status"`
	Detail      string       `json:"detail,omitempty"`
	Instance    string       `json:"instance,omitempty"`
	RequestID   string       `json:"request_id,omitempty"`
	FieldErrors []FieldError `json:"field_errors,omitempty"`
	Retryable   bool         `json:"retryable,omitempty"`
}

func Write(w http.ResponseWriter, r *http.Request, p Problem) {
	if p.Status == 0 {
		p.Status = http.StatusInternalServerError
	}
	if p.Title == "" {
		p.Title = http.StatusText(p.Status)
	}
	if r != nil {
		if p.Instance == "" {
			p.Instance = r.URL.Path
		}
		// RequestID middleware copies its id onto the request header.
		if p.RequestID == "" {
			p.RequestID = r.Header.Get("X-Request-ID")
		}
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func WriteStatus(w http.ResponseWriter, r *http.Request, status int, title, detail string) {
	Write(w, r, Problem{Status: status, Title: title, Detail: detail})
}

func BadRequest(w http.ResponseWriter, r *http.Request, field, msg string) {
	Write(w, r, Problem{
		Status:      http.StatusBadRequest,
		Title:       "Bad Request",
		FieldErrors: []FieldError{{Field: field, Code: "invalid", Message: msg}},
	})
}

func Unauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", detail)
}

func Forbidden(w http.ResponseWriter, r *http.Request) {
	WriteStatus(w, r, http.StatusForbidden, "Forbidden", "")
}

func NotFound(w http.ResponseWriter, r *http.Request, detail string) {
	WriteStatus(w, r, http.StatusNotFound, "Not Found", detail)
}
