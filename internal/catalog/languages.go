package catalog

import (
	"errors"
	"fmt"
	"sort"

	"postcraft.app/postcraft/internal/language"
)

var ErrUnknownLanguage = errors.New("unknown language")

// LanguageDescriptor describes one supported target or source language.
type LanguageDescriptor struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	NativeName  string `json:"native_name,omitempty"`
	Region      string `json:"region"`
}

var supportedLanguages = map[string]LanguageDescriptor{
	"ar": {Code: "ar", DisplayName: "Arabic", NativeName: "العربية", Region: "Middle East & North Africa"},
	"bn": {Code: "bn", DisplayName: "Bengali", NativeName: "বাংলা", Region: "South Asia"},
	"de": {Code: "de", DisplayName: "German", NativeName: "Deutsch", Region: "Central Europe"},
	"en": {Code: "en", DisplayName: "English", NativeName: "English", Region: "Global"},
	"es": {Code: "es", DisplayName: "Spanish", NativeName: "Español", Region: "Spain & Latin America"},
	"fr": {Code: "fr", DisplayName: "French", NativeName: "Français", Region: "France & Francophone Africa"},
	"hi": {Code: "hi", DisplayName: "Hindi", NativeName: "हिन्दी", Region: "India"},
	"id": {Code: "id", DisplayName: "Indonesian", NativeName: "Bahasa Indonesia", Region: "Southeast Asia"},
	"it": {Code: "it", DisplayName: "Italian", NativeName: "Italiano", Region: "Italy"},
	"ja": {Code: "ja", DisplayName: "Japanese", NativeName: "日本語", Region: "Japan"},
	"ko": {Code: "ko", DisplayName: "Korean", NativeName: "한국어", Region: "South Korea"},
	"ms": {Code: "ms", DisplayName: "Malay", NativeName: "Bahasa Melayu", Region: "Malaysia & Singapore"},
	"nl": {Code: "nl", DisplayName: "Dutch", NativeName: "Nederlands", Region: "Netherlands & Belgium"},
	"pl": {Code: "pl", DisplayName: "Polish", NativeName: "Polski", Region: "Poland"},
	"pt": {Code: "pt", DisplayName: "Portuguese", NativeName: "Português", Region: "Brazil & Portugal"},
	"ru": {Code: "ru", DisplayName: "Russian", NativeName: "Русский", Region: "Russia & CIS"},
	"sw": {Code: "sw", DisplayName: "Swahili", NativeName: "Kiswahili", Region: "East Africa"},
	"th": {Code: "th", DisplayName: "Thai", NativeName: "ไทย", Region: "Thailand"},
	"tr": {Code: "tr", DisplayName: "Turkish", NativeName: "Türkçe", Region: "Turkey"},
	"uk": {Code: "uk", DisplayName: "Ukrainian", NativeName: "Українська", Region: "Ukraine"},
	"vi": {Code: "vi", DisplayName: "Vietnamese", NativeName: "Tiếng Việt", Region: "Vietnam"},
	"zh": {Code: "zh", DisplayName: "Chinese", NativeName: "中文", Region: "China & Taiwan"},
}

// LookupLanguage resolves a language by ISO 639-1 code. Region subtags are
// tolerated ("en-US" resolves to "en").
func LookupLanguage(code string) (LanguageDescriptor, error) {
	normalized := language.NormalizeCode(code)
	if normalized == "" {
		return LanguageDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	descriptor, ok := supportedLanguages[normalized]
	if !ok {
		return LanguageDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	return descriptor, nil
}

// Languages returns all supported languages sorted by code.
func Languages() []LanguageDescriptor {
	codes := make([]string, 0, len(supportedLanguages))
	for code := range supportedLanguages {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	items := make([]LanguageDescriptor, 0, len(codes))
	for _, code := range codes {
		items = append(items, supportedLanguages[code])
	}
	return items
}

// LanguageCodes returns the sorted set of supported ISO 639-1 codes.
func LanguageCodes() []string {
	codes := make([]string, 0, len(supportedLanguages))
	for code := range supportedLanguages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
