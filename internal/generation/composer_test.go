package generation

import (
	"errors"
	"strings"
	"testing"

	"postcraft.app/postcraft/internal/catalog"
)

func mustLanguage(t *testing.T, code string) catalog.LanguageDescriptor {
	t.Helper()
	descriptor, err := catalog.LookupLanguage(code)
	if err != nil {
		t.Fatalf("lookup language %q: %v", code, err)
	}
	return descriptor
}

func mustPlatform(t *testing.T, name string) catalog.PlatformRule {
	t.Helper()
	rule, err := catalog.LookupPlatform(name)
	if err != nil {
		t.Fatalf("lookup platform %q: %v", name, err)
	}
	return rule
}

func testRequest(t *testing.T) Request {
	t.Helper()
	return Request{
		SourceContent:  "Check out this tip!",
		SourceLanguage: mustLanguage(t, "en"),
		TargetLanguage: mustLanguage(t, "es"),
		Platform:       mustPlatform(t, "tiktok"),
		ContentType:    ContentTypeCaption,
		Style:          "viral",
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	req := testRequest(t)

	first, err := Compose(req)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	second, err := Compose(req)
	if err != nil {
		t.Fatalf("compose again: %v", err)
	}

	if first != second {
		t.Fatal("expected identical prompts for identical requests")
	}
}

func TestComposeEmbedsRequestDetails(t *testing.T) {
	req := testRequest(t)

	prompt, err := Compose(req)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	for _, want := range []string{
		"Check out this tip!",
		"Spanish",
		req.TargetLanguage.Region,
		"tiktok",
		"2200 characters",
		"viral",
		`"culturalNotes"`,
	} {
		if !strings.Contains(prompt.User, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt.User)
		}
	}
	if prompt.System == "" {
		t.Fatal("expected a system prompt")
	}
}

func TestComposeSameLanguageUsesGenerationPhrasing(t *testing.T) {
	req := testRequest(t)
	req.TargetLanguage = req.SourceLanguage

	prompt, err := Compose(req)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !strings.Contains(prompt.User, "Write a caption in English") {
		t.Fatalf("expected generation phrasing, got:\n%s", prompt.User)
	}
	if strings.Contains(prompt.User, "Translate and adapt") {
		t.Fatal("did not expect translation phrasing for same-language request")
	}
}

func TestComposeRejectsBlankContent(t *testing.T) {
	req := testRequest(t)
	req.SourceContent = "   \n\t "

	_, err := Compose(req)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestComposeRejectsUnresolvedRefs(t *testing.T) {
	req := testRequest(t)
	req.TargetLanguage = catalog.LanguageDescriptor{}
	if _, err := Compose(req); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for missing target, got %v", err)
	}

	req = testRequest(t)
	req.Platform = catalog.PlatformRule{}
	if _, err := Compose(req); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for missing platform, got %v", err)
	}
}
