package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"quizgen/internal/apperror"
	"quizgen/internal/config"
	"quizgen/internal/model"
)

// Generator writes a LaTeX question set from extracted document text.
type Generator interface {
	Generate(ctx context.Context, text string, opts model.GenerationOptions) (string, error)
}

// GeminiGenerator talks to Gemini through its OpenAI-compatible chat completions endpoint.
type GeminiGenerator struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

var _ Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator builds a client from cfg. Requests are never retried.
func NewGeminiGenerator(cfg config.GeneratorConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("generator API key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("generator model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &GeminiGenerator{
		client:  openai.NewClient(opts...),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// Generate sends one chat completion request and returns the first choice's content unmodified.
func (g *GeminiGenerator) Generate(ctx context.Context, text string, opts model.GenerationOptions) (string, error) {
	prompt, err := BuildPrompt(text, opts)
	if err != nil {
		return "", apperror.Wrap(apperror.KindGeneration, "Failed to build prompt", err)
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", translateError(callCtx, err)
	}
	if len(resp.Choices) == 0 {
		return "", apperror.New(apperror.KindGeneration, "Generation API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// translateError keeps only the remote error text; request URLs and headers stay server-side.
func translateError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperror.Wrap(apperror.KindGeneration, "Generation request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return apperror.Wrap(apperror.KindGeneration, "Generation request cancelled", err)
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apperror.Wrap(apperror.KindGeneration, apiErr.Message, err)
		}
		return apperror.Wrap(apperror.KindGeneration, fmt.Sprintf("Generation API returned status %d", apiErr.StatusCode), err)
	}
	return apperror.Wrap(apperror.KindGeneration, "Generation API request failed", err)
}
