package handlers

import (
	"net/http"

	"github.com/AnshRaj112/saferplace/internal/models"
)

type ChatRequest struct {
	Query string `json:"query"`
}

type ChatResponse struct {
	Success bool               `json:"success"`
	Reply   models.ChatMessage `json:"reply"`
}

type TranscriptResponse struct {
	Success  bool                 `json:"success"`
	Messages []models.ChatMessage `json:"messages"`
}

// Ask handles POST /api/chat. A failed call still returns the apology the
// transcript shows, with success=false.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := h.Chatbot.Ask(r.Context(), req.Query)
	if err != nil {
		status, _ := statusFor(err)
		respondJSON(w, status, ChatResponse{Success: false, Reply: reply})
		return
	}
	respondJSON(w, http.StatusOK, ChatResponse{Success: true, Reply: reply})
}

// Transcript handles GET /api/chat.
func (h *Handler) Transcript(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, TranscriptResponse{Success: true, Messages: h.Chatbot.Transcript()})
}
