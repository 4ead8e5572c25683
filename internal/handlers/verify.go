package handlers

import (
	"net/http"

	"github.com/AnshRaj112/saferplace/internal/models"
)

const maxUploadSize = 25 << 20

type VerifyTextRequest struct {
	Text string `json:"text"`
}

type AssessmentResponse struct {
	Success    bool              `json:"success"`
	Assessment models.Assessment `json:"assessment"`
	Source     string            `json:"source"`
}

// VerifyText handles POST /api/verify/text.
func (h *Handler) VerifyText(w http.ResponseWriter, r *http.Request) {
	var req VerifyTextRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.Toxicity.CheckText(r.Context(), req.Text)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.assess(w, r, c)
}

// VerifyFile handles POST /api/verify/file with a multipart "file" field.
func (h *Handler) VerifyFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "File too large or invalid form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	c, err := h.Toxicity.CheckAudio(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.assess(w, r, c)
}

func (h *Handler) assess(w http.ResponseWriter, r *http.Request, c models.Classification) {
	a, err := h.Alerts.Evaluate(r.Context(), c)
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, AssessmentResponse{Success: true, Assessment: a, Source: c.Source})
}
