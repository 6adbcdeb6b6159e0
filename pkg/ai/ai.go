package ai

import (
	"errors"
	"fmt"
)

// Summarization prompts
const (
	SummarySystemPrompt = "あなたは優秀な編集者です。テキストを要約した後、要点を箇条書きしてください。"
	summaryUserTemplate = "以下の音声テキストを要約してください:\n\n%s"
)

// ErrRateLimited is wrapped into errors from providers that rejected the
// request because of quota or rate limits
var ErrRateLimited = errors.New("provider rate limit reached")

// SummaryUserPrompt wraps the transcript in the user message template
func SummaryUserPrompt(transcript string) string {
	return fmt.Sprintf(summaryUserTemplate, transcript)
}

func rateLimited(err error) error {
	return fmt.Errorf("%w: %w", ErrRateLimited, err)
}
