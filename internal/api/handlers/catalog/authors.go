package catalog

import (
	"net/http"
	"strconv"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	catalogsvc "github.com/5w1tchy/library-api/internal/service/catalog"
)

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func (h *Handler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListAuthors(r.Context())
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, out)
}

func (h *Handler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	a, err := h.svc.GetAuthor(r.Context(), id)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, a)
}

func (h *Handler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	var in catalogsvc.AuthorInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	a, err := h.svc.CreateAuthor(r.Context(), in)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	w.Header().Set("Location", "/authors/"+itoa(a.ID))
	httpx.Created(w, a)
}

func (h *Handler) UpdateAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	var in catalogsvc.AuthorInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	a, err := h.svc.UpdateAuthor(r.Context(), id, in)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, a)
}

// DeleteAuthor fails with 409 while books still reference the author.
func (h *Handler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	if err := h.svc.DeleteAuthor(r.Context(), id); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
