package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"resume-analyzer/internal/apperrors"
	"resume-analyzer/internal/config"
)

// GeminiService is the thin adapter over the external generation service.
// One call is one network round-trip: no retries, no caching. Retry policy,
// if any, belongs to the caller.
type GeminiService interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type geminiService struct {
	client *genai.Client
	cfg    config.GeminiConfig
	logger *zap.Logger
}

func NewGeminiService(cfg config.GeminiConfig, logger *zap.Logger) (GeminiService, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// GenerateText implements GeminiService. The round-trip is bounded by the
// configured timeout; timeouts are classified separately so callers can tell
// them apart from service errors.
func (g *geminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	temperature := g.cfg.Temperature
	genConfig := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), genConfig)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperrors.NewGenerationError(apperrors.CodeGenerationTimeout,
				"generation request timed out", err)
		}
		return "", apperrors.NewGenerationError(apperrors.CodeGenerationFailed,
			"generation request failed", err)
	}

	if resp == nil {
		return "", apperrors.NewGenerationError(apperrors.CodeEmptyCompletion,
			"generation service returned no response", nil)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", apperrors.NewGenerationError(apperrors.CodeEmptyCompletion,
			"generation service returned an empty completion", nil)
	}

	g.logger.Debug("completion received",
		zap.String("model", g.cfg.Model),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("completion_chars", len(text)))

	return text, nil
}

// GenerateEmbedding implements GeminiService. Used by the history indexer,
// not by the analysis pipeline itself.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	// The embedding model caps input length; truncate rather than fail.
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.cfg.EmbedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, errors.New("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}
