package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPort         = "5050"
	DefaultDatabasePath = "data/museum_app.db"
	DefaultSessionTTL   = 6 * time.Hour
	DefaultQuizTTL      = 30 * time.Minute
	DefaultAITimeout    = 30 * time.Second
)

// Config holds process configuration read from the environment.
type Config struct {
	Port string

	DatabaseURL string
	DBSchema    string

	SessionTTL   time.Duration
	CookieSecure bool

	// CatalogPath overrides the embedded museum catalog when set.
	CatalogPath string

	// RedisURL switches the quiz store from memory to Redis when set.
	RedisURL string
	QuizTTL  time.Duration

	AIProvider  string
	GeminiKey   string
	GeminiModel string
	OpenAIKey   string
	OpenAIModel string
	OpenAIURL   string
	AITimeout   time.Duration
}

// LoadFromEnv loads configuration from environment variables.
//
// Environment variables:
//   - PORT: listen port (default: 5050)
//   - DATABASE_URL: postgres:// URL or SQLite path (default: data/museum_app.db)
//   - DB_SCHEMA: Postgres schema holding the tables (optional)
//   - SESSION_TTL, QUIZ_TTL, AI_TIMEOUT: Go durations
//   - COOKIE_SECURE: mark the session cookie Secure
//   - CATALOG_PATH: YAML museum catalog (default: embedded catalog)
//   - REDIS_URL: redis:// URL for the quiz store (default: in-memory)
//   - AI_PROVIDER: "gemini" or "openai" (default: "gemini")
//   - GEMINI_API_KEY, GEMINI_MODEL, OPENAI_API_KEY, OPENAI_MODEL, OPENAI_BASE_URL
func LoadFromEnv() Config {
	return Config{
		Port:         getEnv("PORT", DefaultPort),
		DatabaseURL:  getEnv("DATABASE_URL", DefaultDatabasePath),
		DBSchema:     getEnv("DB_SCHEMA", ""),
		SessionTTL:   getDuration("SESSION_TTL", DefaultSessionTTL),
		CookieSecure: getBool("COOKIE_SECURE", false),
		CatalogPath:  getEnv("CATALOG_PATH", ""),
		RedisURL:     getEnv("REDIS_URL", ""),
		QuizTTL:      getDuration("QUIZ_TTL", DefaultQuizTTL),
		AIProvider:   strings.ToLower(getEnv("AI_PROVIDER", "gemini")),
		GeminiKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		AITimeout:    getDuration("AI_TIMEOUT", DefaultAITimeout),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("[config] invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %v", key, raw, fallback)
		return fallback
	}
	return b
}
