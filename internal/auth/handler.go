package auth

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/errs"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	resp, err := h.svc.Register(r.Context(), req)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	pair, err := h.svc.Login(r.Context(), req)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pair)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	pair, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pair)
}

// Logout always succeeds; a missing or unknown token is not an error.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	_ = httpx.DecodeJSON(r, &req)
	if err := h.svc.Logout(r.Context(), req.RefreshToken); err != nil {
		h.log.Warn("logout", zap.Error(err))
	}
	httpx.OKNoData(w)
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	id, ok := middlewares.IdentityFrom(r.Context())
	if !ok {
		apperr.Handle(w, r, h.log, errs.ErrAuthRequired)
		return
	}
	if err := h.svc.LogoutAll(r.Context(), id.UserID); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OKNoData(w)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := middlewares.IdentityFrom(r.Context())
	if !ok {
		apperr.Handle(w, r, h.log, errs.ErrAuthRequired)
		return
	}
	var req ChangePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	pair, warn, err := h.svc.ChangePassword(r.Context(), id.UserID, req)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, RegisterResponse{TokenPair: pair, PasswordWarning: warn})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middlewares.IdentityFrom(r.Context())
	if !ok {
		apperr.Handle(w, r, h.log, errs.ErrAuthRequired)
		return
	}
	u, err := h.svc.Me(r.Context(), id.UserID)
	if err != nil {
		apperr.Handle(w, r, h.log, err)
		return
	}
	httpx.OK(w, u)
}
