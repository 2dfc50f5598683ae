// Package gemini implements generator.Generator on the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/MuseumTrail/MT-Backend/internal/generator"
)

const providerName = "gemini"

// Provider calls Gemini through the genai SDK.
type Provider struct {
	client *genai.Client
	model  string
}

var _ generator.Generator = (*Provider)(nil)

func init() {
	generator.RegisterProvider(generator.ProviderGemini, func(cfg generator.Config) (generator.Generator, error) {
		return NewProvider(context.Background(), cfg)
	})
}

// NewProvider creates a Gemini client for cfg.GeminiKey.
func NewProvider(ctx context.Context, cfg generator.Config) (*Provider, error) {
	model := cfg.GeminiModel
	if model == "" {
		model = generator.DefaultGeminiModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = generator.DefaultTimeout
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.GeminiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if cfg.GeminiBaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.GeminiBaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &Provider{client: client, model: model}, nil
}

func (p *Provider) Name() string { return providerName }

func (p *Provider) Summarize(ctx context.Context, name, city string) (string, error) {
	start := time.Now()
	generator.LogRequest(providerName, "summary", p.model, name)

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(generator.SummaryPrompt(name, city)), nil)
	if err != nil {
		generator.LogError(providerName, "summary", err)
		return "", fmt.Errorf("gemini summary: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		generator.LogError(providerName, "summary", generator.ErrEmptyResponse)
		return "", generator.ErrEmptyResponse
	}
	generator.LogResponse(providerName, "summary", time.Since(start), len(text))
	return text, nil
}

func (p *Provider) GenerateQuiz(ctx context.Context, name, city string) ([]byte, error) {
	start := time.Now()
	generator.LogRequest(providerName, "quiz", p.model, name)

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(generator.QuizPrompt(name, city)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   quizSchema(),
	})
	if err != nil {
		generator.LogError(providerName, "quiz", err)
		return nil, fmt.Errorf("gemini quiz: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		generator.LogError(providerName, "quiz", generator.ErrEmptyResponse)
		return nil, generator.ErrEmptyResponse
	}
	generator.LogResponse(providerName, "quiz", time.Since(start), len(text))
	return []byte(text), nil
}

func quizSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"quiz_title": {Type: genai.TypeString, Description: generator.DescQuizTitle},
			"questions": {
				Type:        genai.TypeArray,
				Description: generator.DescQuestions,
				MinItems:    genai.Ptr[int64](generator.QuizQuestions),
				MaxItems:    genai.Ptr[int64](generator.QuizQuestions),
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"question": {Type: genai.TypeString, Description: generator.DescQuestion},
						"options": {
							Type:        genai.TypeArray,
							Description: generator.DescOptions,
							MinItems:    genai.Ptr[int64](generator.QuizOptions),
							MaxItems:    genai.Ptr[int64](generator.QuizOptions),
							Items:       &genai.Schema{Type: genai.TypeString},
						},
						"answer": {Type: genai.TypeString, Description: generator.DescAnswer},
					},
					Required: []string{"question", "options", "answer"},
				},
			},
		},
		Required: []string{"quiz_title", "questions"},
	}
}
