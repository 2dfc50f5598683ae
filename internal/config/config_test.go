package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "SESSION_TTL", "QUIZ_TTL", "AI_PROVIDER", "REDIS_URL", "COOKIE_SECURE"} {
		t.Setenv(k, "")
	}

	cfg := LoadFromEnv()

	if cfg.Port != DefaultPort {
		t.Errorf("Port = %q, want %q", cfg.Port, DefaultPort)
	}
	if cfg.DatabaseURL != DefaultDatabasePath {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, DefaultDatabasePath)
	}
	if cfg.SessionTTL != DefaultSessionTTL {
		t.Errorf("SessionTTL = %s, want %s", cfg.SessionTTL, DefaultSessionTTL)
	}
	if cfg.AIProvider != "gemini" {
		t.Errorf("AIProvider = %q, want gemini", cfg.AIProvider)
	}
	if cfg.CookieSecure {
		t.Error("CookieSecure should default to false")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("QUIZ_TTL", "5m")
	t.Setenv("AI_PROVIDER", " OpenAI ")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := LoadFromEnv()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.QuizTTL != 5*time.Minute {
		t.Errorf("QuizTTL = %s, want 5m", cfg.QuizTTL)
	}
	if cfg.AIProvider != "openai" {
		t.Errorf("AIProvider = %q, want openai", cfg.AIProvider)
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure should be true")
	}
}

func TestLoadFromEnv_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")

	if got := LoadFromEnv().SessionTTL; got != DefaultSessionTTL {
		t.Errorf("SessionTTL = %s, want default %s", got, DefaultSessionTTL)
	}
}
