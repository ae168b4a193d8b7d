package provider

import (
	"context"
	"strings"
)

// CompletionRequest describes one text-completion call.
type CompletionRequest struct {
	System    string
	User      string
	JSONReply bool
	MaxTokens int
}

// Provider completes prompts against a hosted text-generation service.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
}

type modelNameProvider interface {
	ModelName() string
}

// ModelNameOf returns the provider's configured model identifier when it
// exposes one.
func ModelNameOf(p Provider) string {
	named, ok := p.(modelNameProvider)
	if !ok {
		return ""
	}
	return strings.TrimSpace(named.ModelName())
}
