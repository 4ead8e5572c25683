package handlers

import (
	"net/http"

	"github.com/AnshRaj112/saferplace/internal/models"
	"github.com/AnshRaj112/saferplace/internal/services"
)

type TutorialResponse struct {
	Success bool                  `json:"success"`
	Pages   []models.TutorialPage `json:"pages"`
}

type IntroductionResponse struct {
	Success    bool           `json:"success"`
	Messages   []models.Quote `json:"messages"`
	IntervalMS int            `json:"interval_ms"`
}

func (h *Handler) Tutorial(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, TutorialResponse{Success: true, Pages: services.Tutorial()})
}

func (h *Handler) Introduction(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, IntroductionResponse{
		Success:    true,
		Messages:   services.Introduction(),
		IntervalMS: services.IntroductionInterval,
	})
}
