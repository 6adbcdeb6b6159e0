package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/johnquangdev/speech-summarizer/pkg/config"
	"github.com/johnquangdev/speech-summarizer/pkg/jobcontext"
)

// OpenAIClient summarizes transcripts through the chat completions API.
// Any OpenAI-compatible provider works when BaseURL is set (e.g. Groq).
type OpenAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewOpenAIClient creates a chat completion client
func NewOpenAIClient(cfg *config.OpenAIConfig, maxTokens int, logger *zap.Logger) *OpenAIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4Turbo
	}
	return &OpenAIClient{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Summarize returns the model's summary verbatim
func (c *OpenAIClient) Summarize(ctx context.Context, transcript string) (string, error) {
	logger := c.logger.With(jobcontext.Fields(ctx)...)
	logger.Info("🤖 Generating summary",
		zap.String("model", c.model),
		zap.Int("text_length", len(transcript)),
	)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SummarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: SummaryUserPrompt(transcript)},
		},
	})
	if err != nil {
		return "", classifyOpenAI(fmt.Errorf("chat completion failed: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s", c.model)
	}

	summary := resp.Choices[0].Message.Content
	logger.Info("✅ Summary generated",
		zap.String("model", c.model),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return summary, nil
}

func classifyOpenAI(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return rateLimited(err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return rateLimited(err)
	}
	return err
}
