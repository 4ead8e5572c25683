package handlers

import (
	"net/http"

	"github.com/AnshRaj112/saferplace/internal/models"
)

type BannerResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Banner  models.Banner `json:"banner"`
}

// AddUser handles POST /api/users.
func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	var form models.UserFormData
	if !decodeJSON(w, r, &form) {
		return
	}

	banner, err := h.Users.AddUser(r.Context(), form)
	h.banner(banner.Variant, banner.Title, banner.Message)
	if err != nil {
		status, _ := statusFor(err)
		respondJSON(w, status, BannerResponse{Success: false, Message: banner.Message, Banner: banner})
		return
	}
	respondJSON(w, http.StatusCreated, BannerResponse{Success: true, Message: banner.Message, Banner: banner})
}
