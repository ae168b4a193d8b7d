package generation

import (
	"errors"
	"fmt"
	"strings"

	"postcraft.app/postcraft/internal/catalog"
)

// ErrInvalidRequest marks malformed caller input. It is the only error class
// surfaced as a hard failure; provider trouble degrades to fallback results.
var ErrInvalidRequest = errors.New("invalid request")

// ContentType names the kind of content to produce.
type ContentType string

const (
	ContentTypePost     ContentType = "post"
	ContentTypeCaption  ContentType = "caption"
	ContentTypeScript   ContentType = "script"
	ContentTypeHashtags ContentType = "hashtags"
)

// ParseContentType resolves a content type name, case-insensitively.
func ParseContentType(raw string) (ContentType, error) {
	switch ContentType(strings.ToLower(strings.TrimSpace(raw))) {
	case ContentTypePost:
		return ContentTypePost, nil
	case ContentTypeCaption:
		return ContentTypeCaption, nil
	case ContentTypeScript:
		return ContentTypeScript, nil
	case ContentTypeHashtags:
		return ContentTypeHashtags, nil
	}
	return "", fmt.Errorf("%w: unknown content type %q", ErrInvalidRequest, raw)
}

// Request is one fully resolved generation/translation request. Language and
// platform references come from the catalog; a request with zero-valued refs
// is invalid.
type Request struct {
	SourceContent  string
	SourceLanguage catalog.LanguageDescriptor
	TargetLanguage catalog.LanguageDescriptor
	Platform       catalog.PlatformRule
	ContentType    ContentType
	Style          string
}

func (r Request) validate() error {
	if strings.TrimSpace(r.SourceContent) == "" {
		return fmt.Errorf("%w: source content is required", ErrInvalidRequest)
	}
	if r.SourceLanguage.Code == "" {
		return fmt.Errorf("%w: source language is required", ErrInvalidRequest)
	}
	if r.TargetLanguage.Code == "" {
		return fmt.Errorf("%w: target language is required", ErrInvalidRequest)
	}
	if r.Platform.Name == "" {
		return fmt.Errorf("%w: platform is required", ErrInvalidRequest)
	}
	if _, err := ParseContentType(string(r.ContentType)); err != nil {
		return err
	}
	return nil
}

// Result is the well-formed outcome of one request. Confidence 0.0 marks a
// fallback result.
type Result struct {
	Content       string   `json:"content"`
	Hashtags      []string `json:"hashtags"`
	CulturalNotes []string `json:"cultural_notes"`
	Confidence    float64  `json:"confidence"`
	Suggestions   []string `json:"suggestions"`
	Provider      string   `json:"provider,omitempty"`
	Model         string   `json:"model,omitempty"`
	Fallback      bool     `json:"fallback"`
	LatencyMs     int64    `json:"latency_ms,omitempty"`
}

// BatchJob holds one multi-target run. Results keys are exactly the deduped
// target codes once the job is returned.
type BatchJob struct {
	SourceLanguage string            `json:"source_language"`
	Platform       string            `json:"platform"`
	ContentType    ContentType       `json:"content_type"`
	Targets        []string          `json:"targets"`
	Results        map[string]Result `json:"results"`
}

// Complete reports whether every target has a result and no extra keys exist.
func (j BatchJob) Complete() bool {
	if len(j.Results) != len(j.Targets) {
		return false
	}
	for _, target := range j.Targets {
		if _, ok := j.Results[target]; !ok {
			return false
		}
	}
	return true
}
