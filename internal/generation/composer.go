package generation

import (
	"fmt"
	"strings"

	"postcraft.app/postcraft/internal/catalog"
)

// Prompt is a composed provider instruction pair.
type Prompt struct {
	System string
	User   string
}

const composerSystemPrompt = "You are a social media localization specialist. " +
	"You write native-quality, culturally adapted content for specific platforms and audiences. " +
	"You always reply with a single JSON object and no surrounding prose."

// Compose renders the provider instruction for one request. It is
// deterministic: identical requests produce identical prompts.
func Compose(req Request) (Prompt, error) {
	if err := req.validate(); err != nil {
		return Prompt{}, err
	}

	var b strings.Builder

	if req.SourceLanguage.Code == req.TargetLanguage.Code {
		fmt.Fprintf(&b, "Write a %s in %s for the %s platform based on the source content below.\n",
			contentTypeLabel(req.ContentType), req.TargetLanguage.DisplayName, req.Platform.Name)
	} else {
		fmt.Fprintf(&b, "Translate and adapt the source content below from %s into %s as a %s for the %s platform.\n",
			req.SourceLanguage.DisplayName, req.TargetLanguage.DisplayName,
			contentTypeLabel(req.ContentType), req.Platform.Name)
	}
	fmt.Fprintf(&b, "The audience is %s speakers in %s; adapt idioms, references, and formality so the result reads as native content, not a literal translation.\n",
		req.TargetLanguage.DisplayName, req.TargetLanguage.Region)

	b.WriteString("\nPlatform rules:\n")
	fmt.Fprintf(&b, "- Keep the content under %d characters.\n", req.Platform.MaxContentLength)
	fmt.Fprintf(&b, "- Tone: %s.\n", toneGuidance(req.Platform.TonePolicy))
	if req.Platform.PreserveHashtags {
		fmt.Fprintf(&b, "- Localize hashtags for the target audience, at most %d, and keep any branded hashtags from the source.\n", req.Platform.HashtagLimit)
	} else {
		fmt.Fprintf(&b, "- Use at most %d hashtags; this platform de-emphasizes them.\n", req.Platform.HashtagLimit)
	}
	if req.Platform.IncludeEmojis {
		b.WriteString("- Emojis are welcome where they fit the tone.\n")
	} else {
		b.WriteString("- Do not use emojis.\n")
	}

	if style := strings.TrimSpace(req.Style); style != "" {
		fmt.Fprintf(&b, "\nStyle hint: %s.\n", style)
	}

	b.WriteString("\nReply with a JSON object with exactly these fields:\n")
	b.WriteString(`{"content": string, "hashtags": [string], "culturalNotes": [string], "confidence": number between 0 and 1, "suggestions": [string]}`)
	b.WriteString("\n\nSource content:\n")
	b.WriteString(req.SourceContent)

	return Prompt{
		System: composerSystemPrompt,
		User:   b.String(),
	}, nil
}

func contentTypeLabel(ct ContentType) string {
	switch ct {
	case ContentTypeCaption:
		return "caption"
	case ContentTypeScript:
		return "short video script"
	case ContentTypeHashtags:
		return "hashtag set"
	default:
		return "post"
	}
}

func toneGuidance(tone catalog.TonePolicy) string {
	switch tone {
	case catalog.ToneProfessional:
		return "professional and insight-driven"
	case catalog.ToneYouth:
		return "energetic, trend-aware, and playful"
	case catalog.ToneCommunity:
		return "warm and conversation-starting"
	case catalog.TonePersonal:
		return "personal and authentic"
	default:
		return "casual and direct"
	}
}
