// Package museums serves the catalog pages: the searchable dashboard, the quiz
// picker and each museum's profile with reviews and visited status.
package museums

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MuseumTrail/MT-Backend/internal/auth"
	"github.com/MuseumTrail/MT-Backend/internal/catalog"
	"github.com/MuseumTrail/MT-Backend/internal/generator"
	"github.com/MuseumTrail/MT-Backend/internal/reviews"
	"github.com/MuseumTrail/MT-Backend/internal/utils"
	"github.com/MuseumTrail/MT-Backend/internal/web"
	"github.com/MuseumTrail/MT-Backend/internal/wishlist"
)

// Profile form actions.
const (
	ActionToggleVisited = "toggle_visited"
	ActionAddReview     = "add_review"
)

type Handler struct {
	Catalog  *catalog.Catalog
	Identity *auth.Identity
	Wishlist *wishlist.Tracker
	Reviews  *reviews.Ledger
	Renderer *web.Renderer

	// Generator writes the profile summary. Nil when no AI key is configured.
	Generator generator.Generator
	// KeyEnv names the missing key in the "service unavailable" summary.
	KeyEnv string
}

type listData struct {
	Museums       []catalog.Museum
	Search        string
	QuizSelection bool
	Message       string
}

type profileData struct {
	Museum  catalog.Museum
	Summary string
	Visited bool
	Reviews []reviews.Entry
	Gallery []string
}

// SetupRoutes registers the catalog pages on r. r must already require a session.
func (h *Handler) SetupRoutes(r chi.Router) {
	r.Get("/dashboard", h.Dashboard)
	r.Get("/quiz_selection", h.QuizSelection)
	r.Get("/museum/{key}", h.Profile)
	r.Post("/museum/{key}", h.UpdateProfile)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	h.Renderer.Render(w, r, http.StatusOK, "dashboard", listData{
		Museums: h.Catalog.Search(search),
		Search:  search,
	})
}

func (h *Handler) QuizSelection(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, r, http.StatusOK, "dashboard", listData{
		Museums:       h.Catalog.All(),
		QuizSelection: true,
		Message:       "Select a museum to generate an AI Quiz!",
	})
}

// currentUser resolves the numeric id of the logged-in user on every request.
func (h *Handler) currentUser(ctx context.Context) (uint, error) {
	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok {
		return 0, auth.ErrUserNotFound
	}
	return h.Identity.UserID(ctx, username)
}

func (h *Handler) museum(w http.ResponseWriter, r *http.Request) (catalog.Museum, bool) {
	m, err := h.Catalog.Get(chi.URLParam(r, "key"))
	if err != nil {
		web.RedirectWithFlash(w, r, "/dashboard", web.FlashError, "Museum profile not found.")
		return catalog.Museum{}, false
	}
	return m, true
}

// requireUser writes the response for a session whose user cannot be
// resolved and reports whether the caller should stop.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, err := h.currentUser(r.Context())
	if errors.Is(err, auth.ErrUserNotFound) {
		web.RedirectWithFlash(w, r, "/login", web.FlashError, "You need to log in first.")
		return 0, false
	}
	if err != nil {
		log.Printf("[museums] resolve user: %v", err)
		http.Error(w, "Failed to load account", http.StatusInternalServerError)
		return 0, false
	}
	return userID, true
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	m, ok := h.museum(w, r)
	if !ok {
		return
	}
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	visited, err := h.Wishlist.Status(r.Context(), userID, m.Key)
	if err != nil {
		log.Printf("[museums] %v", err)
		http.Error(w, "Failed to load museum", http.StatusInternalServerError)
		return
	}
	entries, err := h.Reviews.List(r.Context(), m.Key)
	if err != nil {
		log.Printf("[museums] %v", err)
		http.Error(w, "Failed to load museum", http.StatusInternalServerError)
		return
	}

	h.Renderer.Render(w, r, http.StatusOK, "museum", profileData{
		Museum:  m,
		Summary: h.summary(r.Context(), m),
		Visited: visited,
		Reviews: entries,
		Gallery: m.GalleryImages(),
	})
}

// summary never fails; problems with the generator become a placeholder.
func (h *Handler) summary(ctx context.Context, m catalog.Museum) string {
	if h.Generator == nil {
		keyEnv := h.KeyEnv
		if keyEnv == "" {
			keyEnv = "GEMINI_API_KEY"
		}
		return fmt.Sprintf("AI summary service unavailable. Check your %s.", keyEnv)
	}

	text, err := h.Generator.Summarize(ctx, m.Name, m.City)
	if err != nil {
		log.Printf("[museums] summary for %s: %v", m.Key, err)
		return fmt.Sprintf("Could not fetch AI summary for %s.", m.Name)
	}
	return text
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	m, ok := h.museum(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	back := "/museum/" + m.Key

	switch action := r.PostForm.Get("action"); action {
	case ActionToggleVisited:
		visited, err := h.Wishlist.Toggle(r.Context(), userID, m.Key)
		if err != nil {
			log.Printf("[museums] %v", err)
			http.Error(w, "Failed to update status", http.StatusInternalServerError)
			return
		}
		status := "Wishlist"
		if visited {
			status = "Visited"
		}
		web.AddFlash(w, r, web.FlashSuccess, fmt.Sprintf("Status for %s updated to %s.", m.Name, status))

	case ActionAddReview:
		rating, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("rating")))
		if err != nil {
			rating = 0
		}
		err = h.Reviews.Add(r.Context(), userID, m.Key, rating, r.PostForm.Get("review_text"))
		switch {
		case errors.Is(err, reviews.ErrInvalidReview):
			web.AddFlash(w, r, web.FlashError, "Invalid review or rating submitted.")
		case err != nil:
			log.Printf("[museums] %v", err)
			http.Error(w, "Failed to post review", http.StatusInternalServerError)
			return
		default:
			web.AddFlash(w, r, web.FlashSuccess, "Your review has been posted!")
		}

	default:
		log.Printf("[museums] unknown profile action %q", action)
		http.Error(w, "Unknown action", http.StatusBadRequest)
		return
	}

	web.Redirect(w, r, back)
}
