package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"glauniversity/ats-matcher/internal/logger"
)

const maxEmbeddingInput = 40000

// TextGenerator sends one prompt to a model and returns its text answer.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type GeminiService interface {
	TextGenerator
	Embedder
	Model() string
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	log        *zap.Logger
}

// NewGeminiClient creates a client for the Gemini API backend. One client is
// shared by every GeminiService.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return client, nil
}

func NewGeminiService(client *genai.Client, modelName, embedModel string, log *zap.Logger) GeminiService {
	return &geminiService{
		client:     client,
		modelName:  modelName,
		embedModel: embedModel,
		log:        log,
	}
}

func (g *geminiService) Model() string {
	return g.modelName
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = truncateUTF8(text, maxEmbeddingInput)

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, errors.New("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// GenerateText implements GeminiService. A single request is made; callers
// decide what a failure means for them.
func (g *geminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.log.Debug("gemini generate content request",
		zap.String("model", g.modelName),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.Preview(prompt, 200)),
	)

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", errors.New("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("no text content in response")
	}

	g.log.Debug("gemini generate content response",
		zap.String("model", g.modelName),
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", logger.Preview(text, 200)),
	)

	return text, nil
}

// truncateUTF8 cuts s to at most limit bytes without splitting a rune.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
