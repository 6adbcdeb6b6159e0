package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johnquangdev/speech-summarizer/pkg/config"
)

type chatRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestOpenAIClient_Summarize(t *testing.T) {
	var got chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4-turbo",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": "要約: テスト\n- テスト"},
					"finish_reason": "stop",
				},
			},
		})
	}))
	defer ts.Close()

	client := NewOpenAIClient(&config.OpenAIConfig{APIKey: "sk-test", BaseURL: ts.URL + "/v1/", Model: "gpt-4-turbo"}, 2048, nil)

	summary, err := client.Summarize(context.Background(), "テスト")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary != "要約: テスト\n- テスト" {
		t.Errorf("summary = %q", summary)
	}

	if got.Model != "gpt-4-turbo" {
		t.Errorf("model = %q, want gpt-4-turbo", got.Model)
	}
	if got.MaxTokens != 2048 {
		t.Errorf("max_tokens = %d, want 2048", got.MaxTokens)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(got.Messages))
	}
	if got.Messages[0].Role != "system" || got.Messages[0].Content != SummarySystemPrompt {
		t.Errorf("system message = %+v", got.Messages[0])
	}
	if got.Messages[1].Role != "user" || got.Messages[1].Content != "以下の音声テキストを要約してください:\n\nテスト" {
		t.Errorf("user message = %+v", got.Messages[1])
	}
}

func TestOpenAIClient_SummarizeErrors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantRateLimit bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, wantRateLimit: true},
		{name: "server error", status: http.StatusInternalServerError},
		{name: "unauthorized", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"error": map[string]string{"message": http.StatusText(tt.status), "type": "test"},
				})
			}))
			defer ts.Close()

			client := NewOpenAIClient(&config.OpenAIConfig{APIKey: "sk-test", BaseURL: ts.URL + "/v1"}, 2048, nil)

			summary, err := client.Summarize(context.Background(), "テスト")
			if err == nil {
				t.Fatal("expected error")
			}
			if summary != "" {
				t.Errorf("summary = %q, want empty", summary)
			}
			if got := errors.Is(err, ErrRateLimited); got != tt.wantRateLimit {
				t.Errorf("errors.Is(err, ErrRateLimited) = %v, want %v", got, tt.wantRateLimit)
			}
		})
	}
}

func TestSummaryUserPrompt(t *testing.T) {
	want := "以下の音声テキストを要約してください:\n\nこんにちは 世界"
	if got := SummaryUserPrompt("こんにちは 世界"); got != want {
		t.Errorf("SummaryUserPrompt() = %q, want %q", got, want)
	}
}
