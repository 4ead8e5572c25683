package handlers

import (
	"net/http"
	"strconv"

	"github.com/AnshRaj112/saferplace/internal/models"
	"github.com/go-chi/chi/v5"
)

type ContactsResponse struct {
	Success  bool                      `json:"success"`
	Contacts []models.EmergencyContact `json:"contacts"`
	Max      int                       `json:"max"`
}

type ContactResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	Contact models.EmergencyContact `json:"contact"`
}

type SMSRequest struct {
	Body string `json:"body"`
}

// ListContacts handles GET /api/contacts.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	h.syncSession(r)
	respondJSON(w, http.StatusOK, ContactsResponse{
		Success:  true,
		Contacts: h.Contacts.List(),
		Max:      h.Contacts.Max(),
	})
}

// AddContact handles POST /api/contacts.
func (h *Handler) AddContact(w http.ResponseWriter, r *http.Request) {
	var req models.NewContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	contact, err := h.Contacts.Add(r.Context(), req)
	if err != nil {
		status, msg := statusFor(err)
		h.banner(models.BannerWarning, "Contact not added", msg)
		respondError(w, status, msg)
		return
	}

	h.banner(models.BannerSuccess, "Success", "Contact added successfully")
	respondJSON(w, http.StatusCreated, ContactResponse{Success: true, Message: "Contact added successfully", Contact: contact})
}

// DeleteContact handles DELETE /api/contacts/{id}.
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	if err := h.Contacts.Delete(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Contact deleted"})
}

// CallContact handles POST /api/contacts/{id}/call.
func (h *Handler) CallContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	contact, err := h.Alerts.CallContact(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ContactResponse{Success: true, Contact: contact})
}

// TextContact handles POST /api/contacts/{id}/sms. The body is optional.
func (h *Handler) TextContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	var req SMSRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}
	contact, err := h.Alerts.TextContact(r.Context(), id, req.Body)
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ContactResponse{Success: true, Contact: contact})
}

func contactID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid contact id")
		return 0, false
	}
	return id, true
}
