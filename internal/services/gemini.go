package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"jobpilot/api/internal/config"
)

// ModelOutput is the text candidate plus the accounting metadata of one
// provider call.
type ModelOutput struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// ModelGateway fronts the generative-text provider. One call per request,
// bounded by an explicit timeout, no automatic retry.
type ModelGateway interface {
	Generate(ctx context.Context, prompt string, temperature float32) (*ModelOutput, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}

type geminiGateway struct {
	client     *genai.Client
	modelName  string
	embedModel string
	timeout    time.Duration
	logger     *zap.Logger
}

func NewGeminiGateway(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (ModelGateway, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiGateway{
		client:     client,
		modelName:  cfg.Model,
		embedModel: cfg.EmbedModel,
		timeout:    cfg.Timeout,
		logger:     logger,
	}, nil
}

// Generate implements ModelGateway.
func (g *geminiGateway) Generate(ctx context.Context, prompt string, temperature float32) (*ModelOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	genCfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  4096,
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), genCfg)
	if err != nil {
		return nil, g.translateError(err)
	}

	if resp == nil {
		return nil, &EmptyResponseError{}
	}

	text := resp.Text()
	if text == "" {
		g.logger.Warn("gemini returned no text candidate", zap.String("model", g.modelName))
		return nil, &EmptyResponseError{}
	}

	out := &ModelOutput{
		Text:  text,
		Model: g.modelName,
	}

	if usage := resp.UsageMetadata; usage != nil {
		out.InputTokens = int(usage.PromptTokenCount)
		out.OutputTokens = int(usage.CandidatesTokenCount)
	}

	return out, nil
}

// Embed implements ModelGateway.
func (g *geminiGateway) Embed(ctx context.Context, text string) ([]float32, error) {
	// Bound embedding input the same way generation input is bounded.
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

func (g *geminiGateway) translateError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		g.logger.Warn("gemini call timed out", zap.Duration("timeout", g.timeout))
		return &TimeoutError{Timeout: g.timeout}
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		g.logger.Warn("gemini call failed",
			zap.Int("status", apiErr.Code),
			zap.String("body", apiErr.Message),
		)
		return &UpstreamError{Status: apiErr.Code, Body: apiErr.Message}
	}

	return &UpstreamError{Status: 0, Body: err.Error()}
}
