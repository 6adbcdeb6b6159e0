package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/johnquangdev/speech-summarizer/pkg/config"
	"github.com/johnquangdev/speech-summarizer/pkg/jobcontext"
)

// GeminiClient summarizes transcripts with the Gemini API
type GeminiClient struct {
	client    *genai.Client
	model     string
	maxTokens int32
	logger    *zap.Logger
}

// NewGeminiClient creates a Gemini client
func NewGeminiClient(ctx context.Context, cfg *config.GeminiConfig, maxTokens int, logger *zap.Logger) (*GeminiClient, error) {
	return newGeminiClient(ctx, cfg, maxTokens, "", logger)
}

func newGeminiClient(ctx context.Context, cfg *config.GeminiConfig, maxTokens int, baseURL string, logger *zap.Logger) (*GeminiClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{
		client:    client,
		model:     model,
		maxTokens: int32(maxTokens),
		logger:    logger,
	}, nil
}

// Summarize returns the concatenated text parts of the first candidate
func (c *GeminiClient) Summarize(ctx context.Context, transcript string) (string, error) {
	logger := c.logger.With(jobcontext.Fields(ctx)...)
	logger.Info("🤖 Generating summary",
		zap.String("model", c.model),
		zap.Int("text_length", len(transcript)),
	)

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(SummaryUserPrompt(transcript)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SummarySystemPrompt, genai.RoleUser),
		MaxOutputTokens:   c.maxTokens,
	})
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
			return "", rateLimited(err)
		}
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	logger.Info("✅ Summary generated", zap.String("model", c.model))
	return text.String(), nil
}
