// Package openai implements generator.Generator on the OpenAI chat completions
// API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/MuseumTrail/MT-Backend/internal/generator"
)

const providerName = "openai"

type Provider struct {
	client *goopenai.Client
	model  string
}

var _ generator.Generator = (*Provider)(nil)

func init() {
	generator.RegisterProvider(generator.ProviderOpenAI, func(cfg generator.Config) (generator.Generator, error) {
		return NewProvider(cfg), nil
	})
}

func NewProvider(cfg generator.Config) *Provider {
	model := cfg.OpenAIModel
	if model == "" {
		model = generator.DefaultOpenAIModel
	}
	baseURL := strings.TrimRight(cfg.OpenAIBaseURL, "/")
	if baseURL == "" {
		baseURL = generator.DefaultOpenAIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = generator.DefaultTimeout
	}

	clientCfg := goopenai.DefaultConfig(cfg.OpenAIKey)
	clientCfg.BaseURL = baseURL
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Provider{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

const quizInstructions = `Reply with a single JSON object and nothing else, shaped as:
{"quiz_title": string, "questions": [{"question": string, "options": [string, string, string, string], "answer": string}]}
"quiz_title": ` + generator.DescQuizTitle + `
"questions": ` + generator.DescQuestions + `
"options": ` + generator.DescOptions + `
"answer": ` + generator.DescAnswer

func (p *Provider) Name() string { return providerName }

func (p *Provider) Summarize(ctx context.Context, name, city string) (string, error) {
	start := time.Now()
	generator.LogRequest(providerName, "summary", p.model, name)

	text, err := p.complete(ctx, goopenai.ChatCompletionRequest{
		Model: p.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: "You are a knowledgeable museum guide."},
			{Role: goopenai.ChatMessageRoleUser, Content: generator.SummaryPrompt(name, city)},
		},
		Temperature: 0.7,
	})
	if err != nil {
		generator.LogError(providerName, "summary", err)
		return "", err
	}
	generator.LogResponse(providerName, "summary", time.Since(start), len(text))
	return text, nil
}

func (p *Provider) GenerateQuiz(ctx context.Context, name, city string) ([]byte, error) {
	start := time.Now()
	generator.LogRequest(providerName, "quiz", p.model, name)

	text, err := p.complete(ctx, goopenai.ChatCompletionRequest{
		Model: p.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: quizInstructions},
			{Role: goopenai.ChatMessageRoleUser, Content: generator.QuizPrompt(name, city)},
		},
		Temperature: 0.7,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		generator.LogError(providerName, "quiz", err)
		return nil, err
	}
	generator.LogResponse(providerName, "quiz", time.Since(start), len(text))
	return []byte(text), nil
}

func (p *Provider) complete(ctx context.Context, request goopenai.ChatCompletionRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, request)
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("openai request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", generator.ErrEmptyResponse
	}
	return text, nil
}
