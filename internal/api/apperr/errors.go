package apperr

import (
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/errs"
)

// FromError classifies err by kind. Anything unrecognised is a 500 with no detail.
func FromError(err error) Problem {
	var ve *errs.ValidationError
	switch {
	case errors.As(err, &ve):
		p := Problem{Status: http.StatusBadRequest, Title: "Validation failed"}
		for _, f := range ve.Fields {
			p.FieldErrors = append(p.FieldErrors, FieldError{Field: f.Field, Code: "invalid", Message: f.Message})
		}
		return p
	case errors.Is(err, errs.ErrValidation):
		return Problem{Status: http.StatusBadRequest, Title: "Validation failed", Detail: err.Error()}
	case errors.Is(err, errs.ErrNotFound):
		return Problem{Status: http.StatusNotFound, Title: "Not Found", Detail: err.Error()}
	case errors.Is(err, errs.ErrAuthRequired):
		return Problem{Status: http.StatusUnauthorized, Title: "Unauthorized", Detail: "authentication required"}
	case errors.Is(err, errs.ErrConflict):
		return Problem{Status: http.StatusConflict, Title: "Conflict", Detail: err.Error()}
	case errors.Is(err, errs.ErrExternalUnavailable):
		return Problem{Status: http.StatusServiceUnavailable, Title: "Service Unavailable", Retryable: true}
	}
	if p, ok := FromPG(err); ok {
		return p
	}
	return Problem{Status: http.StatusInternalServerError, Title: "Internal Server Error"}
}

// Handle writes the problem for err and logs server-side failures.
func Handle(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	p := FromError(err)
	if p.Status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", r.Header.Get("X-Request-ID")),
			zap.Error(err),
		)
	}
	Write(w, r, p)
}
