package catalog

import (
	"net/http"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	catalogsvc "github.com/5w1tchy/library-api/internal/service/catalog"
)

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListCategories(r.Context())
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, out)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	c, err := h.svc.GetCategory(r.Context(), id)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, c)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in catalogsvc.CategoryInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	c, err := h.svc.CreateCategory(r.Context(), in)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	w.Header().Set("Location", "/categories/"+itoa(c.ID))
	httpx.Created(w, c)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	var in catalogsvc.CategoryInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	c, err := h.svc.UpdateCategory(r.Context(), id, in)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, c)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
