package catalog

import (
	"net/http"
	"strings"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/models"
	catalogsvc "github.com/5w1tchy/library-api/internal/service/catalog"
)

// GET /books?q=&author_id=&category_id=
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	var f models.BookFilter
	if q := r.URL.Query(); q.Has("q") {
		title := q.Get("q")
		f.Title = &title
	}
	var err error
	if f.AuthorID, err = httpx.QueryInt64(r, "author_id"); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	if f.CategoryID, err = httpx.QueryInt64(r, "category_id"); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}

	out, err := h.svc.FindBooks(r.Context(), f)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, out)
}

// GET /books/{id}
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	b, err := h.svc.GetBook(r.Context(), id)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, b)
}

// GET /books/search/author?author=
func (h *Handler) SearchByAuthor(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.FindBooksByAuthor(r.Context(), r.URL.Query().Get("author"))
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, out)
}

// GET /books/search/title?title=
func (h *Handler) SearchByTitle(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.FindBooksByTitle(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, out)
}

// GET /books/search/isbn?isbn=
func (h *Handler) SearchByISBN(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.GetBookByISBN(r.Context(), strings.TrimSpace(r.URL.Query().Get("isbn")))
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, b)
}

// POST /books
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var in catalogsvc.BookInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	b, err := h.svc.CreateBook(r.Context(), in)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	w.Header().Set("Location", "/books/"+itoa(b.ID))
	httpx.Created(w, b)
}

// PUT /books/{id}
func (h *Handler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	var in catalogsvc.BookInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	b, err := h.svc.UpdateBook(r.Context(), id, in)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, b)
}

// DELETE /books/{id}
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	if err := h.svc.DeleteBook(r.Context(), id); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
