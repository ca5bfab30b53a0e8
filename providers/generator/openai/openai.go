// Package openai implements a generator backed by an OpenAI-compatible chat
// completions endpoint.
package openai

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/leofalp/scenario/providers/generator"
	"github.com/leofalp/scenario/providers/observability"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"

	envAPIKey  = "OPENAI_API_KEY"
	envBaseURL = "OPENAI_API_BASE_URL"
)

// Generator sends each prompt as a single user message.
type Generator struct {
	client      openai.Client
	model       string
	system      string
	temperature float64
}

var _ generator.Generator = (*Generator)(nil)

type config struct {
	apiKey      string
	baseURL     string
	model       string
	system      string
	temperature float64
	httpClient  *http.Client
}

// Option configures a Generator.
type Option func(*config)

// WithAPIKey overrides OPENAI_API_KEY.
func WithAPIKey(key string) Option {
	return func(c *config) { c.apiKey = key }
}

// WithBaseURL points the client at another OpenAI-compatible server.
// It overrides OPENAI_API_BASE_URL.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithSystemPrompt prepends a system message to every request.
func WithSystemPrompt(system string) Option {
	return func(c *config) { c.system = system }
}

// WithTemperature sets the sampling temperature. Zero keeps the server default.
func WithTemperature(t float64) Option {
	return func(c *config) { c.temperature = t }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.httpClient = hc }
}

// New builds a Generator. Credentials and base URL fall back to the
// OPENAI_API_KEY and OPENAI_API_BASE_URL environment variables. The client
// never retries on its own; retries belong to the stage runner.
func New(opts ...Option) *Generator {
	cfg := config{
		apiKey:  os.Getenv(envAPIKey),
		baseURL: os.Getenv(envBaseURL),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(cfg.httpClient))
	}

	return &Generator{
		client:      openai.NewClient(clientOpts...),
		model:       cmp.Or(cfg.model, DefaultModel),
		system:      cfg.system,
		temperature: cfg.temperature,
	}
}

func (g *Generator) Name() string { return "openai" }

// Model returns the configured chat model.
func (g *Generator) Model() string { return g.model }

// Generate requests one completion and returns the first choice's content.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
	}
	if g.system != "" {
		params.Messages = append(params.Messages, openai.SystemMessage(g.system))
	}
	params.Messages = append(params.Messages, openai.UserMessage(prompt))
	if g.temperature > 0 {
		params.Temperature = openai.Float(g.temperature)
	}

	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Debug(ctx, "sending chat completion",
			observability.String(observability.AttrGeneratorModel, g.model),
			observability.Int(observability.AttrGeneratorPromptLength, len(prompt)),
		)
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", generator.ErrEmptyOutput)
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", generator.ErrEmptyOutput
	}
	return content, nil
}
