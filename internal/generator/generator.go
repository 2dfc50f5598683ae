// Package generator is the boundary to the generative AI service that writes
// museum summaries and quiz content. Providers register themselves from their
// own packages so that new ones can be added without touching this file.
package generator

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ProviderType identifies which AI backend to use.
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOpenAI ProviderType = "openai"
)

var (
	ErrMissingGeminiKey = errors.New("GEMINI_API_KEY environment variable is required for gemini provider")
	ErrMissingOpenAIKey = errors.New("OPENAI_API_KEY environment variable is required for openai provider")
	ErrUnknownProvider  = errors.New("unknown provider type")
	ErrEmptyResponse    = errors.New("empty response from generator")
)

// Generator produces free text and quiz JSON for a museum.
type Generator interface {
	// Name returns the provider name for logging and metrics.
	Name() string

	// Summarize returns a short prose description of the museum.
	Summarize(ctx context.Context, name, city string) (string, error)

	// GenerateQuiz returns a JSON document shaped like
	// {"quiz_title": "...", "questions": [{"question", "options", "answer"}]}.
	// The content is not validated here.
	GenerateQuiz(ctx context.Context, name, city string) ([]byte, error)
}

// Config holds configuration for the AI provider.
type Config struct {
	Provider ProviderType

	GeminiKey   string
	GeminiModel string
	// GeminiBaseURL overrides the Gemini API endpoint; used by tests.
	GeminiBaseURL string

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	Timeout time.Duration
}

const (
	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultTimeout       = 30 * time.Second
)

// Validate checks that the configuration is usable for the selected provider.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.GeminiKey == "" {
			return ErrMissingGeminiKey
		}
	case ProviderOpenAI:
		if c.OpenAIKey == "" {
			return ErrMissingOpenAIKey
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownProvider, c.Provider)
	}
	return nil
}

// KeyEnv names the environment variable holding the selected provider's key.
func (c Config) KeyEnv() string {
	if c.Provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}

var providerRegistry = make(map[ProviderType]func(Config) (Generator, error))

// RegisterProvider registers a constructor for a provider type. It is called
// from init() in each provider package.
func RegisterProvider(providerType ProviderType, constructor func(Config) (Generator, error)) {
	providerRegistry[providerType] = constructor
}

// New builds the configured Generator wrapped with metrics.
func New(cfg Config) (Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	constructor, ok := providerRegistry[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}

	g, err := constructor(cfg)
	if err != nil {
		return nil, err
	}
	return Instrument(g), nil
}

// SummaryPrompt asks for a few sentences about the museum.
func SummaryPrompt(name, city string) string {
	return fmt.Sprintf(
		"Provide a concise, engaging, and factual summary of the %s in %s. "+
			"The summary should be about 3-4 sentences long and focus on its historical significance or main collections.",
		name, city)
}

// QuizPrompt asks for five multiple choice questions.
func QuizPrompt(name, city string) string {
	return fmt.Sprintf(
		"Generate a fun %d-question multiple-choice quiz about the %s in %s. "+
			"Each question must have exactly %d options. The correct answer must be one of the options.",
		QuizQuestions, name, city, QuizOptions)
}

// Shape of a generated quiz.
const (
	QuizQuestions = 5
	QuizOptions   = 4
)

// Field descriptions shared by the providers' structured output schemas.
const (
	DescQuizTitle = "A catchy title for the quiz."
	DescQuestions = "A list of 5 multiple-choice questions about the museum."
	DescQuestion  = "The quiz question."
	DescOptions   = "Exactly four answer options."
	DescAnswer    = "The correct answer option (must match one of the options in the list exactly)."
)
