package handlers

import (
	"net/http"
)

type EmergencyResponse struct {
	Success bool   `json:"success"`
	Active  bool   `json:"active"`
	Message string `json:"message,omitempty"`
}

// PressEmergency handles POST /api/emergency. It toggles the alarm; the
// call is still attempted when the sound fails.
func (h *Handler) PressEmergency(w http.ResponseWriter, r *http.Request) {
	active, err := h.Emergency.Press(r.Context())
	if err != nil {
		status, msg := statusFor(err)
		respondJSON(w, status, EmergencyResponse{Success: false, Active: active, Message: msg})
		return
	}
	respondJSON(w, http.StatusOK, EmergencyResponse{Success: true, Active: active})
}
