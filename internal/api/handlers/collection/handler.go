// Package collection serves a signed-in user's personal book collection.
package collection

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/errs"
	"github.com/5w1tchy/library-api/internal/models"
)

//go:generate mockgen -source=handler.go -destination=mocks/mock.go

type Collection interface {
	AddSuggestionToCollection(ctx context.Context, username string, sg models.BookSuggestion) (models.Book, error)
	IsBookInCollection(ctx context.Context, username, externalID string) (bool, error)
	ListCollection(ctx context.Context, username string) ([]models.Book, error)
	RemoveFromCollection(ctx context.Context, username string, bookID int64) error
}

type Handler struct {
	svc Collection
	log *zap.Logger
}

func NewHandler(svc Collection, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log.Named("collection")}
}

func caller(r *http.Request) (string, error) {
	id, ok := middlewares.IdentityFrom(r.Context())
	if !ok {
		return "", errs.ErrAuthRequired
	}
	return id.Username, nil
}

// POST /collection
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	username, err := caller(r)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	var sg models.BookSuggestion
	if err := httpx.DecodeJSON(r, &sg); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	b, err := h.svc.AddSuggestionToCollection(r.Context(), username, sg)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, b)
}

// GET /collection/check?externalId= answers false for guests.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var username string
	if id, ok := middlewares.IdentityFrom(r.Context()); ok {
		username = id.Username
	}
	in, err := h.svc.IsBookInCollection(r.Context(), username, r.URL.Query().Get("externalId"))
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, map[string]bool{"in_collection": in})
}

// GET /collection
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	username, err := caller(r)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	out, err := h.svc.ListCollection(r.Context(), username)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, out)
}

// DELETE /collection/{bookId}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	username, err := caller(r)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	bookID, err := httpx.PathID(r, "bookId")
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	if err := h.svc.RemoveFromCollection(r.Context(), username, bookID); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
