package generation

import (
	"fmt"
	"strings"
)

// fallbackResult builds the deterministic substitute result used whenever the
// provider cannot deliver a usable reply. The caller always receives a
// well-formed result: the source content is echoed with a target-language
// marker and Confidence is 0.0.
func fallbackResult(req Request, reason string) Result {
	content := req.SourceContent
	if req.TargetLanguage.Code != "" && req.TargetLanguage.Code != req.SourceLanguage.Code {
		content = fmt.Sprintf("[%s] %s", req.TargetLanguage.DisplayName, req.SourceContent)
	}

	explanation := strings.TrimSpace(reason)
	if explanation == "" {
		explanation = "the provider did not return a usable reply"
	}

	return Result{
		Content:       content,
		Hashtags:      []string{},
		CulturalNotes: []string{},
		Confidence:    0,
		Suggestions: []string{
			fmt.Sprintf("Automatic generation for %q was unavailable: %s. The original content is shown unchanged.",
				req.TargetLanguage.Code, explanation),
		},
		Fallback: true,
	}
}
