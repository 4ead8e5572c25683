package handlers

import (
	"net/http"

	"github.com/AnshRaj112/saferplace/internal/models"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	models.SessionState
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Session.Login(r.Context(), req.Email, req.Password); err != nil {
		status, msg := statusFor(err)
		if status != http.StatusBadRequest {
			status, msg = http.StatusUnauthorized, "Invalid username or password."
		}
		h.banner(models.BannerError, "Login Failed", msg)
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, SessionResponse{
		Success:      true,
		Message:      "Login successful",
		SessionState: h.Session.State(),
	})
}

// Logout handles POST /api/auth/logout. Local state is cleared even when
// the secure store fails.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Logout(r.Context()); err != nil {
		h.Log.WithError(err).Error("logout left data in the secure store")
		respondError(w, http.StatusInternalServerError, "Logged out, but stored data could not be removed")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Logged out"})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	h.syncSession(r)
	respondJSON(w, http.StatusOK, SessionResponse{Success: true, SessionState: h.Session.State()})
}
