package auth

import (
	"github.com/go-chi/chi/v5"
)

// SetupRoutes registers the public account pages on r.
func (h *Handler) SetupRoutes(r chi.Router) {
	r.Get("/", h.IndexHandler)
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.LoginHandler)
	r.Get("/signup", h.SignupPage)
	r.Post("/signup", h.SignupHandler)
	r.Get("/logout", h.LogoutHandler)
}
