package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"postcraft.app/postcraft/internal/catalog"
	"postcraft.app/postcraft/internal/cli"
	"postcraft.app/postcraft/internal/config"
	"postcraft.app/postcraft/internal/generation"
	"postcraft.app/postcraft/internal/langdetect"
	"postcraft.app/postcraft/internal/logging"
	"postcraft.app/postcraft/internal/provider"
	"postcraft.app/postcraft/internal/reader"
)

func runGenerate(args []string) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
	langs := fs.String("lang", "", "Comma-separated target language codes (for example: es,fr)")
	sourceLang := fs.String("source-lang", "", "Source language code; detected from the content when empty")
	platformName := fs.String("platform", "", "Target platform (for example: twitter, instagram)")
	contentType := fs.String("type", "post", "Content type: post, caption, script, or hashtags")
	style := fs.String("style", "engaging", "Style hint (for example: engaging, professional)")
	providerName := fs.String("provider", "", "Completion provider; empty uses the configured default")
	sourceURL := fs.String("url", "", "Import the source content from a web page")
	dryRun := fs.Bool("dry-run", false, "Print the composed prompts without calling the provider")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	targets := splitLanguageList(*langs)
	if len(targets) == 0 {
		fmt.Fprintln(os.Stderr, "--lang is required (for example: --lang es,fr)")
		return 2
	}
	if strings.TrimSpace(*platformName) == "" {
		fmt.Fprintln(os.Stderr, "--platform is required")
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	source := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if source == "" && strings.TrimSpace(*sourceURL) != "" {
		fetched, err := reader.FetchSourceText(ctx, *sourceURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to import source content: %v\n", err)
			return 1
		}
		source = fetched
	}
	if source == "" {
		fmt.Fprintln(os.Stderr, "source content is required (pass it as an argument or use --url)")
		return 2
	}

	if *dryRun {
		return printComposedPrompts(source, *sourceLang, targets, *platformName, *contentType, *style)
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	registry := provider.NewRegistryFromConfig(cfg)
	if len(registry.ProviderNames()) == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no completion providers configured, results will fall back to the source content")
	}

	gateway := generation.NewGateway(registry, generation.GatewayOptions{
		Provider:    *providerName,
		CallTimeout: cfg.ProviderTimeout(),
		Retries:     cfg.ProviderRetries,
	}, logger)
	generator := generation.NewService(gateway, generation.ServiceOptions{
		DefaultStyle:       cfg.DefaultStyle,
		DefaultContentType: cfg.DefaultContentType,
		BatchConcurrency:   cfg.BatchConcurrency,
	}, logger)

	job, err := generator.RunBatch(ctx, generation.BatchParams{
		SourceContent:   source,
		SourceLanguage:  *sourceLang,
		TargetLanguages: targets,
		Platform:        *platformName,
		ContentType:     *contentType,
		Style:           *style,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generation failed: %v\n", err)
		return 1
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(job); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode results: %v\n", err)
		return 1
	}
	return 0
}

// printComposedPrompts resolves the request offline and prints the prompt
// that would be sent for each target.
func printComposedPrompts(source, sourceLang string, targets []string, platformName, contentType, style string) int {
	platform, err := catalog.LookupPlatform(platformName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid platform: %v\n", err)
		return 2
	}
	parsedType, err := generation.ParseContentType(contentType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid content type: %v\n", err)
		return 2
	}

	sourceCode := strings.TrimSpace(sourceLang)
	if sourceCode == "" {
		sourceCode = langdetect.DetectISO6391(source)
	}
	if sourceCode == "" {
		sourceCode = "en"
	}
	sourceDescriptor, err := catalog.LookupLanguage(sourceCode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid source language: %v\n", err)
		return 2
	}

	for _, target := range targets {
		targetDescriptor, err := catalog.LookupLanguage(target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid target language: %v\n", err)
			return 2
		}

		prompt, err := generation.Compose(generation.Request{
			SourceContent:  source,
			SourceLanguage: sourceDescriptor,
			TargetLanguage: targetDescriptor,
			Platform:       platform,
			ContentType:    parsedType,
			Style:          strings.TrimSpace(style),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to compose prompt: %v\n", err)
			return 2
		}

		fmt.Printf("--- target: %s ---\n", targetDescriptor.Code)
		fmt.Printf("[system]\n%s\n\n[user]\n%s\n\n", prompt.System, prompt.User)
	}
	return 0
}

func splitLanguageList(raw string) []string {
	parts := strings.Split(raw, ",")
	codes := make([]string, 0, len(parts))
	for _, part := range parts {
		code := strings.TrimSpace(part)
		if code == "" {
			continue
		}
		codes = append(codes, code)
	}
	return codes
}
