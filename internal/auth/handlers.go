package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/MuseumTrail/MT-Backend/internal/middleware"
	"github.com/MuseumTrail/MT-Backend/internal/web"
)

// Handler serves the login, signup and logout pages.
type Handler struct {
	Identity     *Identity
	Sessions     *SessionStore
	Renderer     *web.Renderer
	CookieSecure bool
}

func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.CookieSecure,
	}
}

func (h *Handler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && h.Sessions.Valid(cookie.Value) {
		web.Redirect(w, r, "/dashboard")
		return
	}
	web.Redirect(w, r, "/login")
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, r, http.StatusOK, "login", nil)
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		h.Renderer.Render(w, r, http.StatusOK, "login", nil,
			web.Flash{Category: web.FlashError, Message: "Please provide username and password."})
		return
	}

	user, err := h.Identity.VerifyCredentials(r.Context(), username, password)
	if err != nil {
		log.Printf("[auth] verify credentials: %v", err)
		http.Error(w, "Failed to log in", http.StatusInternalServerError)
		return
	}
	if user == nil {
		h.Renderer.Render(w, r, http.StatusOK, "login", nil,
			web.Flash{Category: web.FlashError, Message: "Invalid username or password"})
		return
	}

	if n, err := h.Sessions.DeleteExpired(r.Context()); err != nil {
		log.Printf("[auth] prune sessions: %v", err)
	} else if n > 0 {
		log.Printf("[auth] pruned %d expired sessions", n)
	}

	// Replace any session this browser already holds.
	if old, err := r.Cookie(middleware.SessionCookieName); err == nil && old.Value != "" {
		if err := h.Sessions.Delete(r.Context(), old.Value); err != nil {
			log.Printf("[auth] drop previous session: %v", err)
		}
	}

	session, err := h.Sessions.Create(r.Context(), user.Username)
	if err != nil {
		log.Printf("[auth] %v", err)
		http.Error(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, h.sessionCookie(session.SessionID, int(h.Sessions.TTL().Seconds())))
	web.RedirectWithFlash(w, r, "/dashboard", web.FlashSuccess, "Login successful!")
}

func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, r, http.StatusOK, "signup", SignupForm{})
}

func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := TrimSignupForm(SignupForm{
		Username:        r.PostForm.Get("username"),
		Email:           r.PostForm.Get("email"),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
	})
	// Passwords are never echoed back into the form.
	redisplay := SignupForm{Username: form.Username, Email: form.Email}

	var verr *ValidationError
	err := h.Identity.ValidateSignup(r.Context(), form)
	if errors.As(err, &verr) {
		h.Renderer.Render(w, r, http.StatusOK, "signup", redisplay,
			web.Flash{Category: web.FlashError, Message: verr.Message})
		return
	}
	if err != nil {
		log.Printf("[auth] validate signup: %v", err)
		http.Error(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	_, err = h.Identity.CreateUser(r.Context(), form.Username, form.Email, form.Password)
	if errors.Is(err, ErrDuplicateUsername) {
		h.Renderer.Render(w, r, http.StatusOK, "signup", redisplay,
			web.Flash{Category: web.FlashError, Message: "Username already exists"})
		return
	}
	if err != nil {
		log.Printf("[auth] %v", err)
		http.Error(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	log.Printf("[auth] created account %s", form.Username)
	web.RedirectWithFlash(w, r, "/login", web.FlashSuccess, "Account created successfully! Please login.")
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.Sessions.Delete(r.Context(), cookie.Value); err != nil {
			log.Printf("[auth] logout: %v", err)
		}
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	web.RedirectWithFlash(w, r, "/login", web.FlashSuccess, "You have been logged out")
}
