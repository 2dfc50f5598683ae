// Package server assembles the HTTP application from its parts.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/MuseumTrail/MT-Backend/internal/auth"
	"github.com/MuseumTrail/MT-Backend/internal/catalog"
	"github.com/MuseumTrail/MT-Backend/internal/generator"
	"github.com/MuseumTrail/MT-Backend/internal/middleware"
	"github.com/MuseumTrail/MT-Backend/internal/museums"
	"github.com/MuseumTrail/MT-Backend/internal/quiz"
	"github.com/MuseumTrail/MT-Backend/internal/reviews"
	"github.com/MuseumTrail/MT-Backend/internal/web"
	"github.com/MuseumTrail/MT-Backend/internal/wishlist"
)

// Deps are the long-lived collaborators the application is built from.
type Deps struct {
	DB        *gorm.DB
	Catalog   *catalog.Catalog
	Generator generator.Generator // nil disables AI content
	KeyEnv    string
	QuizStore quiz.Store

	SessionTTL   time.Duration
	QuizTTL      time.Duration
	CookieSecure bool
}

// Migrate creates or updates every table the application uses.
func Migrate(d *gorm.DB) error {
	// users first: reviews and wishlist_status reference it.
	steps := []struct {
		name    string
		migrate func(*gorm.DB) error
	}{
		{"auth", auth.Migrate},
		{"reviews", reviews.Migrate},
		{"wishlist", wishlist.Migrate},
	}
	for _, step := range steps {
		if err := step.migrate(d); err != nil {
			return fmt.Errorf("migrate %s: %w", step.name, err)
		}
	}
	return nil
}

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

// NewRouter wires handlers, middleware and routes.
func NewRouter(deps Deps) (http.Handler, error) {
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	identity := auth.NewIdentity(deps.DB)
	sessions := auth.NewSessionStore(deps.DB, deps.SessionTTL)

	authHandler := &auth.Handler{
		Identity:     identity,
		Sessions:     sessions,
		Renderer:     renderer,
		CookieSecure: deps.CookieSecure,
	}
	museumHandler := &museums.Handler{
		Catalog:   deps.Catalog,
		Identity:  identity,
		Wishlist:  wishlist.NewTracker(deps.DB),
		Reviews:   reviews.NewLedger(deps.DB),
		Renderer:  renderer,
		Generator: deps.Generator,
		KeyEnv:    deps.KeyEnv,
	}
	quizHandler := &quiz.Handler{
		Catalog:  deps.Catalog,
		Manager:  quiz.NewManager(deps.Generator, deps.QuizStore, deps.QuizTTL),
		Renderer: renderer,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)

	r.Get("/healthz", RootHandler)
	r.Handle("/metrics", promhttp.Handler())

	authHandler.SetupRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessions))
		museumHandler.SetupRoutes(r)
		quizHandler.SetupRoutes(r)
	})

	return r, nil
}
