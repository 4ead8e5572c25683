// Package handlers exposes the client's operations to the UI shell over
// loopback HTTP and a WebSocket event stream.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AnshRaj112/saferplace/internal/apiclient"
	"github.com/AnshRaj112/saferplace/internal/device"
	"github.com/AnshRaj112/saferplace/internal/models"
	"github.com/AnshRaj112/saferplace/internal/realtime"
	"github.com/AnshRaj112/saferplace/internal/services"
	"github.com/AnshRaj112/saferplace/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Handler carries the services every route needs.
type Handler struct {
	Session   *services.Session
	Contacts  *services.ContactService
	Alerts    *services.AlertService
	Toxicity  *services.ToxicityService
	Users     *services.UserService
	Chatbot   *services.ChatbotService
	Quotes    *services.QuoteService
	Emergency *services.EmergencyButton
	Hub       *realtime.Hub
	Log       *logrus.Entry

	// AllowedOrigins are the shell origins that may open the event stream.
	AllowedOrigins []string
}

// Response is the envelope every JSON route returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Response{Success: false, Message: message})
}

// decodeJSON reads the request body into dst; on failure it writes the 400
// response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// statusFor maps service errors onto HTTP status codes and the message
// shown to the user.
func statusFor(err error) (int, string) {
	var verr *utils.ValidationError
	var apiErr *apiclient.Error
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, services.ErrNotAuthenticated):
		return http.StatusUnauthorized, "Please log in first"
	case errors.Is(err, services.ErrMissingCredentials):
		return http.StatusBadRequest, "Please fill in all fields."
	case errors.Is(err, services.ErrContactLimit):
		return http.StatusConflict, "You can only add up to 5 emergency contacts."
	case errors.Is(err, services.ErrContactNotFound):
		return http.StatusNotFound, "Contact not found"
	case errors.Is(err, services.ErrEmptyText):
		return http.StatusBadRequest, "Please enter a message to verify"
	case errors.Is(err, services.ErrUnsupportedFile):
		return http.StatusUnsupportedMediaType, "Only audio files can be verified"
	case errors.Is(err, services.ErrUserExists):
		return http.StatusConflict, "This email is already in use"
	case errors.Is(err, services.ErrUnknownLabel):
		return http.StatusBadGateway, "Unexpected verification result"
	case errors.Is(err, services.ErrQuoteUnavailable):
		return http.StatusBadGateway, services.QuoteErrorText
	case errors.Is(err, device.ErrShellOffline):
		return http.StatusServiceUnavailable, "The app is not connected"
	case errors.As(err, &apiErr):
		if apiErr.Status == http.StatusUnauthorized {
			return http.StatusUnauthorized, "Your session has expired. Please log in again."
		}
		return http.StatusBadGateway, "The server could not complete the request"
	default:
		return http.StatusBadGateway, "Something went wrong. Please try again."
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	respondError(w, status, msg)
}

// syncSession picks up a login or logout made by saferctl before answering.
func (h *Handler) syncSession(r *http.Request) {
	if err := h.Session.Sync(r.Context()); err != nil {
		h.Log.WithError(err).Warn("could not re-read secure storage")
	}
}

// banner pushes a transient alert to the shell.
func (h *Handler) banner(variant models.BannerVariant, title, message string) {
	if h.Hub != nil {
		h.Hub.Publish(realtime.EventBanner, models.NewBanner(variant, title, message))
	}
}
