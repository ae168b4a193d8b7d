package catalog

import (
	"errors"
	"sort"
	"testing"
)

func TestLookupLanguage(t *testing.T) {
	descriptor, err := LookupLanguage("es")
	if err != nil {
		t.Fatalf("lookup es: %v", err)
	}
	if descriptor.DisplayName != "Spanish" {
		t.Fatalf("unexpected display name: %q", descriptor.DisplayName)
	}
	if descriptor.Region == "" {
		t.Fatal("expected region to be set")
	}
}

func TestLookupLanguageToleratesRegionSubtag(t *testing.T) {
	descriptor, err := LookupLanguage("pt-BR")
	if err != nil {
		t.Fatalf("lookup pt-BR: %v", err)
	}
	if descriptor.Code != "pt" {
		t.Fatalf("unexpected code: %q", descriptor.Code)
	}
}

func TestLookupLanguageUnknown(t *testing.T) {
	_, err := LookupLanguage("xx")
	if !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
	if _, err := LookupLanguage("  "); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage for blank code, got %v", err)
	}
}

func TestLanguagesSortedAndComplete(t *testing.T) {
	items := Languages()
	if len(items) != len(LanguageCodes()) {
		t.Fatalf("language list size mismatch: %d vs %d", len(items), len(LanguageCodes()))
	}
	if !sort.SliceIsSorted(items, func(i, j int) bool { return items[i].Code < items[j].Code }) {
		t.Fatal("expected languages sorted by code")
	}
}

func TestLookupPlatform(t *testing.T) {
	rule, err := LookupPlatform("Twitter")
	if err != nil {
		t.Fatalf("lookup twitter: %v", err)
	}
	if rule.MaxContentLength != 280 {
		t.Fatalf("unexpected max length: %d", rule.MaxContentLength)
	}
	if rule.TonePolicy != ToneCasual {
		t.Fatalf("unexpected tone: %q", rule.TonePolicy)
	}
}

func TestLookupPlatformUnknown(t *testing.T) {
	_, err := LookupPlatform("myspace")
	if !errors.Is(err, ErrUnknownPlatform) {
		t.Fatalf("expected ErrUnknownPlatform, got %v", err)
	}
}

func TestPlatformsSorted(t *testing.T) {
	items := Platforms()
	if len(items) != 7 {
		t.Fatalf("unexpected platform count: %d", len(items))
	}
	if !sort.SliceIsSorted(items, func(i, j int) bool { return items[i].Name < items[j].Name }) {
		t.Fatal("expected platforms sorted by name")
	}
}
