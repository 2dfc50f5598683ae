package quiz

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MuseumTrail/MT-Backend/internal/catalog"
	"github.com/MuseumTrail/MT-Backend/internal/utils"
	"github.com/MuseumTrail/MT-Backend/internal/web"
)

// Handler serves /quiz/{key}.
type Handler struct {
	Catalog  *catalog.Catalog
	Manager  *Manager
	Renderer *web.Renderer
}

type pageData struct {
	Title      string
	MuseumName string
	MuseumKey  string
	Questions  []Question
	Outcome    *Outcome
}

// SetupRoutes registers the quiz pages on r. r must already require a session.
func (h *Handler) SetupRoutes(r chi.Router) {
	r.Get("/quiz/{key}", h.QuizPage)
	r.Post("/quiz/{key}", h.SubmitQuiz)
}

func (h *Handler) museum(w http.ResponseWriter, r *http.Request) (catalog.Museum, bool) {
	m, err := h.Catalog.Get(chi.URLParam(r, "key"))
	if err != nil {
		web.RedirectWithFlash(w, r, "/quiz_selection", web.FlashError, "Museum not found.")
		return catalog.Museum{}, false
	}
	return m, true
}

func (h *Handler) QuizPage(w http.ResponseWriter, r *http.Request) {
	m, ok := h.museum(w, r)
	if !ok {
		return
	}
	sessionID, _ := utils.GetSessionIDFromContext(r.Context())

	q, err := h.Manager.Generate(r.Context(), sessionID, m)
	if err != nil {
		log.Printf("[quiz] %v", err)
		http.Error(w, "Failed to prepare quiz", http.StatusInternalServerError)
		return
	}

	h.Renderer.Render(w, r, http.StatusOK, "quiz", pageData{
		Title:      q.Title,
		MuseumName: m.Name,
		MuseumKey:  m.Key,
		Questions:  q.Questions,
	}, web.Flash{Category: web.FlashInfo, Message: fmt.Sprintf("Generating a new AI Quiz for %s...", m.Name)})
}

func (h *Handler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	m, ok := h.museum(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	sessionID, _ := utils.GetSessionIDFromContext(r.Context())

	answers := make(Answers)
	for field, values := range r.PostForm {
		if len(values) > 0 {
			answers[field] = values[0]
		}
	}

	outcome, err := h.Manager.Score(r.Context(), sessionID, m.Key, answers)
	if errors.Is(err, ErrSessionMismatch) {
		web.RedirectWithFlash(w, r, "/quiz_selection", web.FlashError,
			"Quiz session expired or mismatched. Please generate a new quiz.")
		return
	}
	if err != nil {
		log.Printf("[quiz] score: %v", err)
		http.Error(w, "Failed to score quiz", http.StatusInternalServerError)
		return
	}

	h.Renderer.Render(w, r, http.StatusOK, "quiz", pageData{
		Title:      outcome.Title,
		MuseumName: m.Name,
		MuseumKey:  m.Key,
		Outcome:    outcome,
	})
}
