// Package admin serves the ADMIN-only user management and stats endpoints.
package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/errs"
	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/validate"
)

type Handler struct {
	sto Store
	rdb redis.Cmdable
	log *zap.Logger
}

// NewHandler wires the store; rdb may be nil, which disables per-admin action limits.
func NewHandler(sto Store, rdb redis.Cmdable, log *zap.Logger) *Handler {
	return &Handler{sto: sto, rdb: rdb, log: log.Named("admin")}
}

func pagination(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 25
	}
	return page, size
}

// allow counts an admin action in a fixed window. Redis errors fail open.
func (h *Handler) allow(ctx context.Context, action string, adminID int64, limit int, window time.Duration) bool {
	if h.rdb == nil {
		return true
	}
	key := "admin:rl:" + action + ":" + itoa(adminID)
	pipe := h.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		h.log.Warn("admin limiter unavailable", zap.String("action", action), zap.Error(err))
		return true
	}
	return int(incr.Val()) <= limit
}

// GET /admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := httpx.QueryInt(r, "page", 1)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	size, err := httpx.QueryInt(r, "size", 25)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	page, size = pagination(page, size)

	f := ListFilter{Query: strings.TrimSpace(r.URL.Query().Get("q")), Page: page, Size: size}
	if raw := r.URL.Query().Get("role"); raw != "" {
		role, ok := models.ParseRole(raw)
		if !ok {
			apperr.Handle(w, r, h.log, errs.Invalid("role", "must be USER or ADMIN"))
			return
		}
		f.Role = string(role)
	}

	rows, total, err := h.sto.ListUsers(r.Context(), f)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "success", "data": rows, "total": total, "page": page, "size": size,
	})
}

// GET /admin/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	u, err := h.sto.GetUser(r.Context(), id)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, u)
}

// POST /admin/users/{id}/role
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	caller, _ := middlewares.IdentityFrom(r.Context())
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	var body SetRoleRequest
	if err := httpx.DecodeJSON(r, &body); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	if err := validate.Struct(&body); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	role, ok := models.ParseRole(body.Role)
	if !ok {
		apperr.Handle(w, r, h.log, errs.Invalid("role", "must be USER or ADMIN"))
		return
	}

	if caller.UserID == id && role != models.RoleAdmin {
		n, err := h.sto.AdminCount(r.Context())
		if err != nil {
			apperr.Handle(w, r, h.log, err)
			return
		}
		if n <= 1 {
			apperr.Handle(w, r, h.log, errs.Invalid("role", "cannot demote the last admin"))
			return
		}
	}

	if !h.allow(r.Context(), "setrole", caller.UserID, 50, time.Hour) {
		apperr.WriteStatus(w, r, http.StatusTooManyRequests, "Too Many Requests", "")
		return
	}
	if err := h.sto.SetUserRole(r.Context(), id, string(role)); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	h.log.Info("role changed", zap.Int64("admin_id", caller.UserID), zap.Int64("user_id", id), zap.String("role", string(role)))
	w.WriteHeader(http.StatusNoContent)
}

// POST /admin/users/{id}/logout-all
func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	caller, _ := middlewares.IdentityFrom(r.Context())
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	if !h.allow(r.Context(), "logoutall", caller.UserID, 50, time.Hour) {
		apperr.WriteStatus(w, r, http.StatusTooManyRequests, "Too Many Requests", "")
		return
	}
	if err := h.sto.BumpTokenVersion(r.Context(), id); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	h.log.Info("sessions revoked", zap.Int64("admin_id", caller.UserID), zap.Int64("user_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// GET /admin/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.sto.Stats(r.Context())
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, st)
}
