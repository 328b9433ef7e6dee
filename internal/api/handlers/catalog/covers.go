package catalog

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/errs"
	"github.com/5w1tchy/library-api/internal/models"
)

const maxCoverBytes = 5 << 20

var coverTypes = []string{"image/jpeg", "image/png", "image/webp"}

// GET /books/{id}/cover redirects to the stored cover, then to the largest provider image.
func (h *Handler) Cover(w http.ResponseWriter, r *http.Request) {
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

	if b.CoverKey != nil && h.covers != nil {
		url, err := h.covers.PresignGet(r.Context(), *b.CoverKey)
		if err == nil {
			http.Redirect(w, r, url, http.StatusFound)
			return
		}
		h.log.Warn("presign cover failed", zap.Int64("book_id", id), zap.Error(err))
	}
	if url := providerImage(b); url != "" {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}
	apperr.NotFound(w, r, "book has no cover")
}

func providerImage(b models.Book) string {
	for _, u := range []string{b.MediumImage, b.Thumbnail, b.SmallThumbnail} {
		if u != "" {
			return u
		}
	}
	return ""
}

// POST /admin/books/{id}/cover takes a multipart "cover" file of at most 5 MiB.
func (h *Handler) UploadCover(w http.ResponseWriter, r *http.Request) {
	if h.covers == nil {
		apperr.WriteStatus(w, r, http.StatusServiceUnavailable, "Service Unavailable", "cover storage is not configured")
		return
	}
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

	r.Body = http.MaxBytesReader(w, r.Body, maxCoverBytes+1<<20)
	file, _, err := r.FormFile("cover")
	if err != nil {
		apperr.Handle(w, r, h.log, errs.Invalid("cover", "multipart file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxCoverBytes+1))
	if err != nil {
		apperr.Handle(w, r, h.log, errs.Invalid("cover", "could not be read"))
		return
	}
	if len(data) > maxCoverBytes {
		apperr.Handle(w, r, h.log, errs.Invalid("cover", "must be at most 5 MiB"))
		return
	}
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), coverTypes...) {
		apperr.Handle(w, r, h.log, errs.Invalid("cover", "must be JPEG, PNG or WebP"))
		return
	}

	key := "covers/" + itoa(id) + mt.Extension()
	if err := h.covers.Put(r.Context(), key, mt.String(), bytes.NewReader(data), int64(len(data))); err != nil {
		apperr.Handle(w, r, h.log, errors.Wrap(errs.ErrExternalUnavailable, err.Error()))
		return
	}
	if err := h.svc.SetBookCover(r.Context(), id, key); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	if old := b.CoverKey; old != nil && *old != key && strings.HasPrefix(*old, "covers/") {
		if err := h.covers.Delete(r.Context(), *old); err != nil {
			h.log.Warn("stale cover not removed", zap.String("key", *old), zap.Error(err))
		}
	}

	h.log.Info("cover uploaded", zap.Int64("book_id", id), zap.String("key", key), zap.Int("bytes", len(data)))
	httpx.OK(w, map[string]any{"book_id": id, "cover_key": key})
}
