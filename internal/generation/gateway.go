package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"postcraft.app/postcraft/internal/provider"
)

const (
	defaultCallTimeout = 45 * time.Second
	defaultMaxTokens   = 1024

	// truncationPenalty is applied when provider output exceeds the
	// platform limit and has to be cut.
	truncationPenalty = 0.8

	// defaultConfidence stands in when the provider omits the field.
	defaultConfidence = 0.5
)

// GatewayOptions configures provider invocation.
type GatewayOptions struct {
	Provider    string
	CallTimeout time.Duration
	Retries     int
	MaxTokens   int
}

// Gateway sends composed prompts to a completion provider and shapes the
// reply into a Result. Provider-side failure never escapes: every code path
// ends in either a provider-derived or a fallback result.
type Gateway struct {
	registry     *provider.Registry
	providerName string
	callTimeout  time.Duration
	retries      int
	maxTokens    int
	logger       zerolog.Logger
}

func NewGateway(registry *provider.Registry, opts GatewayOptions, logger zerolog.Logger) *Gateway {
	callTimeout := opts.CallTimeout
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Gateway{
		registry:     registry,
		providerName: opts.Provider,
		callTimeout:  callTimeout,
		retries:      retries,
		maxTokens:    maxTokens,
		logger:       logger,
	}
}

// Invoke runs one request to completion-or-fallback. The request must already
// be validated; a request the composer rejects degrades to a fallback result
// rather than an error.
func (g *Gateway) Invoke(ctx context.Context, req Request) Result {
	prompt, err := Compose(req)
	if err != nil {
		return fallbackResult(req, err.Error())
	}

	p, err := g.registry.Provider(g.providerName)
	if err != nil {
		g.logger.Error().Err(err).Msg("provider resolution failed")
		return fallbackResult(req, err.Error())
	}

	var lastErr error
	attempts := g.retries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}

		started := time.Now()
		raw, callErr := g.complete(ctx, p, prompt)
		if callErr != nil {
			lastErr = callErr
			g.logger.Warn().
				Err(callErr).
				Str("provider", p.Name()).
				Str("target_lang", req.TargetLanguage.Code).
				Int("attempt", attempt+1).
				Msg("provider call failed")
			continue
		}

		payload, parseErr := decodeReply(raw)
		if parseErr != nil {
			lastErr = fmt.Errorf("malformed provider reply: %w", parseErr)
			g.logger.Warn().
				Err(parseErr).
				Str("provider", p.Name()).
				Str("target_lang", req.TargetLanguage.Code).
				Msg("provider reply unparsable")
			continue
		}
		if payload.SchemaViolation != "" {
			g.logger.Warn().
				Str("provider", p.Name()).
				Str("target_lang", req.TargetLanguage.Code).
				Str("violation", payload.SchemaViolation).
				Msg("provider reply repaired")
		}

		result := g.buildResult(req, p, payload)
		result.LatencyMs = time.Since(started).Milliseconds()
		return result
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider produced no reply")
	}
	return fallbackResult(req, lastErr.Error())
}

func (g *Gateway) complete(ctx context.Context, p provider.Provider, prompt Prompt) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	return p.Complete(callCtx, provider.CompletionRequest{
		System:    prompt.System,
		User:      prompt.User,
		JSONReply: true,
		MaxTokens: g.maxTokens,
	})
}

// buildResult fills per-field defaults and enforces platform limits on a
// decoded reply.
func (g *Gateway) buildResult(req Request, p provider.Provider, payload replyPayload) Result {
	result := Result{
		Content:       payload.Content,
		Hashtags:      payload.Hashtags,
		CulturalNotes: payload.CulturalNotes,
		Suggestions:   payload.Suggestions,
		Provider:      p.Name(),
		Model:         provider.ModelNameOf(p),
	}

	if result.Content == "" {
		// Content echoed verbatim rather than failing the whole result.
		result.Content = req.SourceContent
		result.Suggestions = append(result.Suggestions,
			"The provider reply was missing content; the original text is shown unchanged.")
	}

	confidence := defaultConfidence
	if payload.Confidence != nil {
		confidence = clamp01(*payload.Confidence)
	}
	result.Confidence = confidence

	if result.Hashtags == nil {
		result.Hashtags = []string{}
	}
	if result.CulturalNotes == nil {
		result.CulturalNotes = []string{}
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}

	if payload.SchemaViolation != "" {
		// A repaired reply must stay distinguishable from a strict one.
		result.Suggestions = append(result.Suggestions,
			"The provider reply did not match the expected format; recoverable fields were kept.")
	}

	if limit := req.Platform.HashtagLimit; limit > 0 && len(result.Hashtags) > limit {
		result.Hashtags = result.Hashtags[:limit]
	}

	if limit := req.Platform.MaxContentLength; limit > 0 {
		runes := []rune(result.Content)
		if len(runes) > limit {
			result.Content = string(runes[:limit])
			result.Confidence = clamp01(result.Confidence * truncationPenalty)
			result.Suggestions = append(result.Suggestions,
				fmt.Sprintf("Content was truncated to fit %s's %d-character limit.", req.Platform.Name, limit))
		}
	}

	return result
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
