package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnthropicProvider_CompleteSendsMessagesRequest(t *testing.T) {
	t.Parallel()

	var captured anthropicMessageRequest
	var capturedHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		capturedHeaders = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": `{"content":`},
				{"type": "text", "text": `"hola"}`},
			},
			"stop_reason": "end_turn",
		})
	}))
	defer server.Close()

	p := NewAnthropicProvider(AnthropicOptions{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "claude-3-5-haiku-latest",
	})

	reply, err := p.Complete(context.Background(), CompletionRequest{
		System:    "You adapt social posts.",
		User:      "Translate this.",
		JSONReply: true,
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	if reply != `{"content":"hola"}` {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if capturedHeaders.Get("x-api-key") != "test-key" {
		t.Fatalf("unexpected api key header: %q", capturedHeaders.Get("x-api-key"))
	}
	if capturedHeaders.Get("anthropic-version") == "" {
		t.Fatal("expected anthropic-version header")
	}
	if captured.Model != "claude-3-5-haiku-latest" {
		t.Fatalf("unexpected model: %q", captured.Model)
	}
	if captured.MaxTokens != 256 {
		t.Fatalf("unexpected max tokens: %d", captured.MaxTokens)
	}
	if captured.System != "You adapt social posts." {
		t.Fatalf("unexpected system prompt: %q", captured.System)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Fatalf("unexpected messages: %#v", captured.Messages)
	}
	if !strings.Contains(captured.Messages[0].Content, "single JSON object") {
		t.Fatalf("expected JSON reply contract in prompt, got %q", captured.Messages[0].Content)
	}
}

func TestAnthropicProvider_CompleteSurfacesAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "rate_limit_error",
				"message": "rate limited",
			},
		})
	}))
	defer server.Close()

	p := NewAnthropicProvider(AnthropicOptions{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})

	_, err := p.Complete(context.Background(), CompletionRequest{User: "hi"})
	if err == nil {
		t.Fatal("expected an error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnthropicProvider_EmptyContentIsError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content":     []map[string]any{},
			"stop_reason": "end_turn",
		})
	}))
	defer server.Close()

	p := NewAnthropicProvider(AnthropicOptions{APIKey: "k", BaseURL: server.URL})

	_, err := p.Complete(context.Background(), CompletionRequest{User: "hi"})
	if err == nil {
		t.Fatal("expected an error for empty content")
	}
}
