package routes

import (
	"net/http"

	"github.com/AnshRaj112/saferplace/internal/handlers"
	"github.com/AnshRaj112/saferplace/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r chi.Router, h *handlers.Handler) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth
	r.Post("/api/auth/login", h.Login)
	r.Post("/api/auth/logout", h.Logout)
	r.Get("/api/auth/me", h.Me)

	// Registration is only offered while logged out, but the backend decides.
	r.Post("/api/users", h.AddUser)

	// Emergency contacts
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(h.Session))
		r.Get("/api/contacts", h.ListContacts)
		r.Post("/api/contacts", h.AddContact)
		r.Delete("/api/contacts/{id}", h.DeleteContact)
		r.Post("/api/contacts/{id}/call", h.CallContact)
		r.Post("/api/contacts/{id}/sms", h.TextContact)
	})

	// Message verification
	r.Post("/api/verify/text", h.VerifyText)
	r.Post("/api/verify/file", h.VerifyFile)

	// Support assistant
	r.Post("/api/chat", h.Ask)
	r.Get("/api/chat", h.Transcript)

	r.Get("/api/quote", h.GetQuote)
	r.Post("/api/emergency", h.PressEmergency)

	// Static content
	r.Get("/api/content/tutorial", h.Tutorial)
	r.Get("/api/content/introduction", h.Introduction)

	// Event stream for the UI shell
	r.Get("/ws/events", h.Events)
}
