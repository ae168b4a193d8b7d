package generation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"postcraft.app/postcraft/internal/catalog"
	"postcraft.app/postcraft/internal/langdetect"
	"postcraft.app/postcraft/internal/language"
)

const (
	defaultBatchConcurrency = 4
	fallbackSourceLanguage  = "en"
)

// ServiceOptions configures request defaults and batch execution.
type ServiceOptions struct {
	DefaultStyle       string
	DefaultContentType string
	BatchConcurrency   int
	// DetectLanguage overrides source-language detection; nil uses lingua.
	DetectLanguage func(string) string
}

// Service is the public entry point: it validates caller input, resolves
// catalog references, and drives the gateway for single and batch runs.
type Service struct {
	gateway            *Gateway
	logger             zerolog.Logger
	defaultStyle       string
	defaultContentType ContentType
	batchConcurrency   int
	detectLanguage     func(string) string
}

func NewService(gateway *Gateway, opts ServiceOptions, logger zerolog.Logger) *Service {
	defaultContentType := ContentTypePost
	if parsed, err := ParseContentType(opts.DefaultContentType); err == nil {
		defaultContentType = parsed
	}

	concurrency := opts.BatchConcurrency
	if concurrency < 1 {
		concurrency = defaultBatchConcurrency
	}

	detect := opts.DetectLanguage
	if detect == nil {
		detect = langdetect.DetectISO6391
	}

	return &Service{
		gateway:            gateway,
		logger:             logger,
		defaultStyle:       strings.TrimSpace(opts.DefaultStyle),
		defaultContentType: defaultContentType,
		batchConcurrency:   concurrency,
		detectLanguage:     detect,
	}
}

// GenerateParams is caller input for a single-target run. SourceLanguage may
// be empty; the service then detects it from the content.
type GenerateParams struct {
	SourceContent  string
	SourceLanguage string
	TargetLanguage string
	Platform       string
	ContentType    string
	Style          string
}

// BatchParams is caller input for a multi-target run.
type BatchParams struct {
	SourceContent   string
	SourceLanguage  string
	TargetLanguages []string
	Platform        string
	ContentType     string
	Style           string
}

// Generate runs one target to completion-or-fallback. Only invalid input
// returns an error.
func (s *Service) Generate(ctx context.Context, params GenerateParams) (Result, error) {
	req, err := s.buildRequest(params)
	if err != nil {
		return Result{}, err
	}
	return s.gateway.Invoke(ctx, req), nil
}

// RunBatch fans one source item out to every target language. Targets are
// deduplicated; per-target provider calls run concurrently, bounded by the
// configured concurrency. The returned job always carries exactly one result
// per target: a failing target degrades to its own fallback without touching
// siblings, and context cancellation resolves not-yet-started targets to
// fallback results.
func (s *Service) RunBatch(ctx context.Context, params BatchParams) (BatchJob, error) {
	if strings.TrimSpace(params.SourceContent) == "" {
		return BatchJob{}, fmt.Errorf("%w: source content is required", ErrInvalidRequest)
	}

	platform, err := catalog.LookupPlatform(params.Platform)
	if err != nil {
		return BatchJob{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	contentType, err := s.resolveContentType(params.ContentType)
	if err != nil {
		return BatchJob{}, err
	}

	sourceLanguage, err := s.resolveSourceLanguage(params.SourceLanguage, params.SourceContent)
	if err != nil {
		return BatchJob{}, err
	}

	targets, err := dedupeTargets(params.TargetLanguages)
	if err != nil {
		return BatchJob{}, err
	}

	style := strings.TrimSpace(params.Style)
	if style == "" {
		style = s.defaultStyle
	}

	job := BatchJob{
		SourceLanguage: sourceLanguage.Code,
		Platform:       platform.Name,
		ContentType:    contentType,
		Targets:        make([]string, 0, len(targets)),
		Results:        make(map[string]Result, len(targets)),
	}
	for _, target := range targets {
		job.Targets = append(job.Targets, target.Code)
	}

	results := make([]Result, len(targets))
	sem := make(chan struct{}, s.batchConcurrency)
	var wg sync.WaitGroup

	for i, target := range targets {
		wg.Add(1)
		go func(idx int, target catalog.LanguageDescriptor) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			req := Request{
				SourceContent:  params.SourceContent,
				SourceLanguage: sourceLanguage,
				TargetLanguage: target,
				Platform:       platform,
				ContentType:    contentType,
				Style:          style,
			}

			if ctx.Err() != nil {
				results[idx] = fallbackResult(req, "the batch was canceled before this target started")
				return
			}
			results[idx] = s.gateway.Invoke(ctx, req)
		}(i, target)
	}
	wg.Wait()

	for i, target := range targets {
		job.Results[target.Code] = results[i]
	}

	s.logger.Debug().
		Str("platform", platform.Name).
		Int("targets", len(targets)).
		Msg("batch completed")

	return job, nil
}

func (s *Service) buildRequest(params GenerateParams) (Request, error) {
	if strings.TrimSpace(params.SourceContent) == "" {
		return Request{}, fmt.Errorf("%w: source content is required", ErrInvalidRequest)
	}

	platform, err := catalog.LookupPlatform(params.Platform)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	contentType, err := s.resolveContentType(params.ContentType)
	if err != nil {
		return Request{}, err
	}

	sourceLanguage, err := s.resolveSourceLanguage(params.SourceLanguage, params.SourceContent)
	if err != nil {
		return Request{}, err
	}

	targetLanguage, err := catalog.LookupLanguage(params.TargetLanguage)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	style := strings.TrimSpace(params.Style)
	if style == "" {
		style = s.defaultStyle
	}

	return Request{
		SourceContent:  params.SourceContent,
		SourceLanguage: sourceLanguage,
		TargetLanguage: targetLanguage,
		Platform:       platform,
		ContentType:    contentType,
		Style:          style,
	}, nil
}

// ResolveContentType parses a content type name, applying the configured
// default when the input is blank.
func (s *Service) ResolveContentType(raw string) (ContentType, error) {
	return s.resolveContentType(raw)
}

func (s *Service) resolveContentType(raw string) (ContentType, error) {
	if strings.TrimSpace(raw) == "" {
		return s.defaultContentType, nil
	}
	return ParseContentType(raw)
}

// resolveSourceLanguage resolves an explicit source language, or detects one
// from the content. Detection failure falls back to English rather than
// rejecting the request; an explicit unknown code is still invalid.
func (s *Service) resolveSourceLanguage(code, content string) (catalog.LanguageDescriptor, error) {
	if strings.TrimSpace(code) != "" {
		descriptor, err := catalog.LookupLanguage(code)
		if err != nil {
			return catalog.LanguageDescriptor{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return descriptor, nil
	}

	if detected := s.detectLanguage(content); detected != "" {
		if descriptor, err := catalog.LookupLanguage(detected); err == nil {
			return descriptor, nil
		}
	}
	return catalog.LookupLanguage(fallbackSourceLanguage)
}

func dedupeTargets(codes []string) ([]catalog.LanguageDescriptor, error) {
	seen := make(map[string]struct{}, len(codes))
	targets := make([]catalog.LanguageDescriptor, 0, len(codes))
	for _, code := range codes {
		normalized := language.NormalizeCode(code)
		if _, exists := seen[normalized]; exists && normalized != "" {
			continue
		}

		descriptor, err := catalog.LookupLanguage(code)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		seen[descriptor.Code] = struct{}{}
		targets = append(targets, descriptor)
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: at least one target language is required", ErrInvalidRequest)
	}
	return targets, nil
}
