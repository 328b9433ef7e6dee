// Package search exposes the external book suggestion provider.
package search

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/googlebooks"
	"github.com/5w1tchy/library-api/internal/models"
)

// DefaultSuggestLimit is the lenient endpoint's page size when limit is absent or bad.
const DefaultSuggestLimit = 5

//go:generate mockgen -source=handler.go -destination=mocks/mock.go

// Provider never fails; problems upstream come back as an empty list.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) []models.BookSuggestion
}

type Handler struct {
	provider Provider
	log      *zap.Logger
}

func NewHandler(p Provider, log *zap.Logger) *Handler {
	return &Handler{provider: p, log: log.Named("search")}
}

// GET /search/books?query=&maxResults=
func (h *Handler) Books(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if utf8.RuneCountInString(query) < googlebooks.MinQueryLen {
		apperr.BadRequest(w, r, "query", "must be at least 3 characters")
		return
	}
	maxResults, err := httpx.QueryInt(r, "maxResults", googlebooks.DefaultMaxResults)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}

	out := h.provider.Search(r.Context(), query, maxResults)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"query":       query,
		"count":       len(out),
		"suggestions": out,
	})
}

// GET /search/suggest?query=&limit= always answers 200.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	limit, err := httpx.QueryInt(r, "limit", DefaultSuggestLimit)
	if err != nil {
		limit = DefaultSuggestLimit
	}
	out := h.provider.Search(r.Context(), r.URL.Query().Get("query"), limit)
	httpx.OK(w, out)
}
