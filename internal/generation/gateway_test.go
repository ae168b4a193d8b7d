package generation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"postcraft.app/postcraft/internal/provider"
)

type stubProvider struct {
	name     string
	model    string
	complete func(ctx context.Context, req provider.CompletionRequest) (string, error)

	mu    sync.Mutex
	calls int
}

func (p *stubProvider) Complete(ctx context.Context, req provider.CompletionRequest) (string, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.complete == nil {
		return "", fmt.Errorf("stub has no behavior")
	}
	return p.complete(ctx, req)
}

func (p *stubProvider) Name() string {
	if p.name == "" {
		return "stub"
	}
	return p.name
}

func (p *stubProvider) ModelName() string {
	return p.model
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func newTestGateway(t *testing.T, p *stubProvider, opts GatewayOptions) *Gateway {
	t.Helper()
	registry := provider.NewRegistry(p.Name())
	if err := registry.Register(p); err != nil {
		t.Fatalf("register stub provider: %v", err)
	}
	if opts.Provider == "" {
		opts.Provider = p.Name()
	}
	return NewGateway(registry, opts, zerolog.Nop())
}

func TestInvokeSuccess(t *testing.T) {
	stub := &stubProvider{
		model: "stub-model-1",
		complete: func(_ context.Context, _ provider.CompletionRequest) (string, error) {
			return `{"content": "¡Mira este consejo!", "hashtags": ["#consejo"], "confidence": 0.9}`, nil
		},
	}
	gateway := newTestGateway(t, stub, GatewayOptions{})

	result := gateway.Invoke(context.Background(), testRequest(t))

	if result.Fallback {
		t.Fatalf("unexpected fallback: %+v", result)
	}
	if result.Content != "¡Mira este consejo!" {
		t.Fatalf("unexpected content: %q", result.Content)
	}
	if result.Confidence != 0.9 {
		t.Fatalf("unexpected confidence: %v", result.Confidence)
	}
	if result.Provider != "stub" || result.Model != "stub-model-1" {
		t.Fatalf("unexpected provider metadata: %+v", result)
	}
	if result.CulturalNotes == nil || result.Suggestions == nil {
		t.Fatal("expected non-nil slices on success")
	}
	if len(result.Suggestions) != 0 {
		t.Fatalf("strict reply must not carry repair suggestions: %v", result.Suggestions)
	}
}

func TestInvokeRepairedReplyCarriesMarker(t *testing.T) {
	stub := &stubProvider{
		complete: func(_ context.Context, _ provider.CompletionRequest) (string, error) {
			return `{"content": "ok", "hashtags": ["#a", 42], "confidence": 0.8}`, nil
		},
	}
	gateway := newTestGateway(t, stub, GatewayOptions{})

	result := gateway.Invoke(context.Background(), testRequest(t))

	if result.Fallback {
		t.Fatalf("repaired reply must not fall back: %+v", result)
	}
	if result.Content != "ok" || result.Confidence != 0.8 {
		t.Fatalf("unexpected repaired result: %+v", result)
	}
	found := false
	for _, s := range result.Suggestions {
		if strings.Contains(s, "did not match the expected format") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected repair suggestion on schema violation: %v", result.Suggestions)
	}
}

func TestInvokeProviderErrorFallsBack(t *testing.T) {
	stub := &stubProvider{
		complete: func(_ context.Context, _ provider.CompletionRequest) (string, error) {
			return "", fmt.Errorf("connection refused")
		},
	}
	gateway := newTestGateway(t, stub, GatewayOptions{})
	req := testRequest(t)

	result := gateway.Invoke(context.Background(), req)

	if !result.Fallback {
		t.Fatalf("expected fallback result: %+v", result)
	}
	if result.Confidence != 0 {
		t.Fatalf("fallback confidence must be 0, got %v", result.Confidence)
	}
	if !strings.Contains(result.Content, req.SourceContent) {
		t.Fatalf("fallback must echo the source content: %q", result.Content)
	}
	if len(result.Suggestions) == 0 || !strings.Contains(result.Suggestions[0], "es") {
		t.Fatalf("fallback suggestion must explain the failed target: %v", result.Suggestions)
	}
	if stub.callCount() != 1 {
		t.Fatalf("expected single provider call, got %d", stub.callCount())
	}
}

func TestInvokeRetriesBeforeFallingBack(t *testing.T) {
	stub := &stubProvider{
		complete: func(_ context.Context, _ provider.CompletionRequest) (string, error) {
			return "", fmt.Errorf("transient failure")
		},
	}
	gateway := newTestGateway(t, stub, GatewayOptions{Retries: 2})

	result := gateway.Invoke(context.Background(), testRequest(t))

	if !result.Fallback {
		t.Fatalf("expected fallback result: %+v", result)
	}
	if stub.callCount() != 3 {
		t.Fatalf("expected 3 attempts, got %d", stub.callCount())
	}
}

func TestInvokeTimeoutFallsBack(t *testing.T) {
	stub := &stubProvider{
		complete: func(ctx context.Context, _ provider.CompletionRequest) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	gateway := newTestGateway(t, stub, GatewayOptions{CallTimeout: 20 * time.Millisecond})

	result := gateway.Invoke(context.Background(), testRequest(t))

	if !result.Fallback || result.Confidence != 0 {
		t.Fatalf("expected fallback result after timeout: %+v", result)
	}
}

func TestInvokeNonJSONReplyFallsBack(t *testing.T) {
	stub := &stubProvider{
		complete: func(_ context.Context, _ provider.CompletionRequest) (string, error) {
			return "I'd be happy to help, but not in JSON.", nil
		},
	}
	gateway := newTestGateway(t, stub, GatewayOptions{})

	result := gateway.Invoke(context.Background(), testRequest(t))

	if !result.Fallback {
		t.Fatalf("expected fallback for unparsable reply: %+v", result)
	}
}

func TestInvokeMissingContentEchoesSource(t *testing.T) {
	stub := &stubProvider{
		complete: func(_ context.Context, _ provider.CompletionRequest) (string, error) {
			return `{"hashtags": ["#tip"], "confidence": 0.7}`, nil
		},
	}
	gateway := newTestGateway(t, stub, GatewayOptions{})
	req := testRequest(t)

	result := gateway.Invoke(context.Background(), req)

	if result.Fallback {
		t.Fatalf("partial reply must not fall back: %+v", result)
	}
	if result.Content != req.SourceContent {
		t.Fatalf("expected source content echoed, got %q", result.Content)
	}
	if len(result.Suggestions) == 0 {
		t.Fatal("expected a suggestion explaining the echoed content")
	}
}

func TestInvokeTruncatesOverLengthContent(t *testing.T) {
	long := strings.Repeat("a", 400)
	stub := &stubProvider{
		complete: func(_ context.Context, _ provider.CompletionRequest) (string, error) {
			return fmt.Sprintf(`{"content": %q, "confidence": 1.0}`, long), nil
		},
	}
	gateway := newTestGateway(t, stub, GatewayOptions{})

	req := testRequest(t)
	req.Platform = mustPlatform(t, "twitter")

	result := gateway.Invoke(context.Background(), req)

	if len([]rune(result.Content)) != 280 {
		t.Fatalf("expected content truncated to 280 runes, got %d", len([]rune(result.Content)))
	}
	if result.Confidence >= 1.0 {
		t.Fatalf("expected reduced confidence after truncation, got %v", result.Confidence)
	}
	found := false
	for _, s := range result.Suggestions {
		if strings.Contains(s, "truncated") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected truncation suggestion: %v", result.Suggestions)
	}
}

func TestInvokeCapsHashtagsAtPlatformLimit(t *testing.T) {
	stub := &stubProvider{
		complete: func(_ context.Context, _ provider.CompletionRequest) (string, error) {
			return `{"content": "ok", "hashtags": ["#a","#b","#c","#d","#e","#f","#g","#h"], "confidence": 0.8}`, nil
		},
	}
	gateway := newTestGateway(t, stub, GatewayOptions{})

	req := testRequest(t)
	req.Platform = mustPlatform(t, "twitter")

	result := gateway.Invoke(context.Background(), req)

	if len(result.Hashtags) != req.Platform.HashtagLimit {
		t.Fatalf("expected hashtags capped at %d, got %d", req.Platform.HashtagLimit, len(result.Hashtags))
	}
}

func TestInvokeClampsConfidence(t *testing.T) {
	stub := &stubProvider{
		complete: func(_ context.Context, _ provider.CompletionRequest) (string, error) {
			return `{"content": "ok", "confidence": 3.5}`, nil
		},
	}
	gateway := newTestGateway(t, stub, GatewayOptions{})

	result := gateway.Invoke(context.Background(), testRequest(t))

	if result.Confidence != 1.0 {
		t.Fatalf("expected confidence clamped to 1.0, got %v", result.Confidence)
	}
}
