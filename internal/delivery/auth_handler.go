package delivery

import (
	"net/http"

	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
)

type AuthHandler struct {
	auth ports.AuthService
	log  *logger.ZapLogger
}

func NewAuthHandler(auth ports.AuthService, log *logger.ZapLogger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		log:  log,
	}
}

// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req ports.RegisterInput
	if !decode(w, r, &req) {
		return
	}

	u, err := h.auth.Register(r.Context(), req)
	if err != nil {
		fail(w, h.log, "register failed", err)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "distributor registered",
		Fields:  map[string]any{"userID": u.ID.String()},
	})

	writeJSON(w, http.StatusCreated, u)
}

// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if !decode(w, r, &req) {
		return
	}

	token, u, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, h.log, "login failed", err)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "login success",
		Fields:  map[string]any{"userID": u.ID.String(), "role": string(u.Role)},
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  u,
	})
}

// GET /api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, d, err := h.auth.Me(r.Context(), principal(r))
	if err != nil {
		fail(w, h.log, "me failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":        u,
		"distributor": d,
	})
}
