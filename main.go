package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/MuseumTrail/MT-Backend/internal/catalog"
	"github.com/MuseumTrail/MT-Backend/internal/config"
	"github.com/MuseumTrail/MT-Backend/internal/db"
	"github.com/MuseumTrail/MT-Backend/internal/generator"
	_ "github.com/MuseumTrail/MT-Backend/internal/generator/gemini"
	_ "github.com/MuseumTrail/MT-Backend/internal/generator/openai"
	"github.com/MuseumTrail/MT-Backend/internal/quiz"
	"github.com/MuseumTrail/MT-Backend/internal/server"
)

func main() {
	_ = godotenv.Load(".env.local")
	cfg := config.LoadFromEnv()

	db.Connect(db.Config{DSN: cfg.DatabaseURL, Schema: cfg.DBSchema})
	if err := server.Migrate(db.DB); err != nil {
		log.Fatal("Failed to auto-migrate tables: ", err)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Printf("[catalog] %v, using embedded catalog", err)
		if cat, err = catalog.Default(); err != nil {
			log.Fatal("Failed to load museum catalog: ", err)
		}
	}
	log.Printf("[catalog] loaded %d museums", cat.Len())

	genCfg := generator.Config{
		Provider:      generator.ProviderType(cfg.AIProvider),
		GeminiKey:     cfg.GeminiKey,
		GeminiModel:   cfg.GeminiModel,
		OpenAIKey:     cfg.OpenAIKey,
		OpenAIModel:   cfg.OpenAIModel,
		OpenAIBaseURL: cfg.OpenAIURL,
		Timeout:       cfg.AITimeout,
	}
	var gen generator.Generator
	if g, err := generator.New(genCfg); err != nil {
		log.Printf("[generator] AI features disabled: %v", err)
	} else {
		gen = g
		log.Printf("[generator] using %s", gen.Name())
	}

	var store quiz.Store = quiz.NewMemoryStore()
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rs, err := quiz.NewRedisStoreFromURL(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Printf("[quiz] redis unavailable, keeping quizzes in memory: %v", err)
		} else {
			defer rs.Close()
			store = rs
			log.Println("[quiz] storing quizzes in redis")
		}
	}

	h, err := server.NewRouter(server.Deps{
		DB:           db.DB,
		Catalog:      cat,
		Generator:    gen,
		KeyEnv:       genCfg.KeyEnv(),
		QuizStore:    store,
		SessionTTL:   cfg.SessionTTL,
		QuizTTL:      cfg.QuizTTL,
		CookieSecure: cfg.CookieSecure,
	})
	if err != nil {
		log.Fatal("Failed to build router: ", err)
	}

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Server listening on port :%s...", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
