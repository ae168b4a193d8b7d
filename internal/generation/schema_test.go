package generation

import (
	"testing"
)

func TestDecodeReplyStrictShape(t *testing.T) {
	payload, err := decodeReply(`{
		"content": "¡Mira este consejo!",
		"hashtags": ["#consejo"],
		"culturalNotes": ["Informal register suits TikTok in Spain"],
		"confidence": 0.9,
		"suggestions": []
	}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if payload.Content != "¡Mira este consejo!" {
		t.Fatalf("unexpected content: %q", payload.Content)
	}
	if len(payload.Hashtags) != 1 || payload.Hashtags[0] != "#consejo" {
		t.Fatalf("unexpected hashtags: %v", payload.Hashtags)
	}
	if payload.Confidence == nil || *payload.Confidence != 0.9 {
		t.Fatalf("unexpected confidence: %v", payload.Confidence)
	}
	if payload.SchemaViolation != "" {
		t.Fatalf("strict reply must not carry a violation, got %q", payload.SchemaViolation)
	}
}

func TestDecodeReplyMarksSchemaViolations(t *testing.T) {
	payload, err := decodeReply(`{"content": "ok", "hashtags": ["#a", 42]}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.SchemaViolation == "" {
		t.Fatal("expected a schema violation for a non-string hashtag")
	}
	if len(payload.Hashtags) != 1 || payload.Hashtags[0] != "#a" {
		t.Fatalf("expected usable hashtags kept, got %v", payload.Hashtags)
	}
}

func TestDecodeReplyToleratesCodeFences(t *testing.T) {
	payload, err := decodeReply("```json\n{\"content\": \"hola\", \"confidence\": 0.8}\n```")
	if err != nil {
		t.Fatalf("decode fenced reply: %v", err)
	}
	if payload.Content != "hola" {
		t.Fatalf("unexpected content: %q", payload.Content)
	}
}

func TestDecodeReplyToleratesSurroundingProse(t *testing.T) {
	payload, err := decodeReply(`Here is your result: {"content": "bonjour"} hope it helps!`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Content != "bonjour" {
		t.Fatalf("unexpected content: %q", payload.Content)
	}
}

func TestDecodeReplyRepairsFieldTypes(t *testing.T) {
	payload, err := decodeReply(`{
		"content": "ciao",
		"hashtags": "single-tag",
		"culturalNotes": [1, 2, "keep me"],
		"confidence": "high",
		"suggestions": null
	}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if payload.Content != "ciao" {
		t.Fatalf("unexpected content: %q", payload.Content)
	}
	if len(payload.Hashtags) != 1 || payload.Hashtags[0] != "single-tag" {
		t.Fatalf("unexpected hashtags: %v", payload.Hashtags)
	}
	if len(payload.CulturalNotes) != 1 || payload.CulturalNotes[0] != "keep me" {
		t.Fatalf("unexpected cultural notes: %v", payload.CulturalNotes)
	}
	if payload.Confidence != nil {
		t.Fatalf("expected nil confidence for non-numeric value, got %v", *payload.Confidence)
	}
	if payload.Suggestions == nil || len(payload.Suggestions) != 0 {
		t.Fatalf("expected empty suggestions, got %v", payload.Suggestions)
	}
	if payload.SchemaViolation == "" {
		t.Fatal("expected the repaired reply to carry a violation")
	}
}

func TestDecodeReplySnakeCaseCulturalNotes(t *testing.T) {
	payload, err := decodeReply(`{"content": "oi", "cultural_notes": ["pt-BR prefers oi over olá in captions"]}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.CulturalNotes) != 1 {
		t.Fatalf("unexpected cultural notes: %v", payload.CulturalNotes)
	}
}

func TestDecodeReplyRejectsNonJSON(t *testing.T) {
	if _, err := decodeReply("sorry, I cannot help with that"); err == nil {
		t.Fatal("expected error for reply without JSON object")
	}
	if _, err := decodeReply(""); err == nil {
		t.Fatal("expected error for empty reply")
	}
	if _, err := decodeReply(`["not", "an", "object"]`); err == nil {
		t.Fatal("expected error for JSON array reply")
	}
}
