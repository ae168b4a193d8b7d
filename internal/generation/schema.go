package generation

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed result.schema.json
var resultSchemaJSON string

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// replyPayload is the provider's structured reply after validation/coercion.
// A nil Confidence means the provider omitted the field. SchemaViolation is
// empty for a reply that passed the strict schema; otherwise it names the
// first violation and the fields were recovered by type coercion.
type replyPayload struct {
	Content         string
	Hashtags        []string
	CulturalNotes   []string
	Confidence      *float64
	Suggestions     []string
	SchemaViolation string
}

// decodeReply parses a raw provider reply into a payload. Replies that carry
// a JSON object failing the strict schema are repaired field by field and
// marked with the violation. Only a reply with no JSON object at all is an
// error.
func decodeReply(raw string) (replyPayload, error) {
	fragment := extractJSONObject(raw)
	if fragment == "" {
		return replyPayload{}, fmt.Errorf("reply contains no JSON object")
	}

	var value any
	if err := json.Unmarshal([]byte(fragment), &value); err != nil {
		return replyPayload{}, fmt.Errorf("decode reply JSON: %w", err)
	}

	object, ok := value.(map[string]any)
	if !ok {
		return replyPayload{}, fmt.Errorf("reply JSON is not an object")
	}

	payload := payloadFromObject(object)
	if schema, err := loadResultSchema(); err != nil {
		payload.SchemaViolation = fmt.Sprintf("result schema unavailable: %v", err)
	} else if err := schema.Validate(value); err != nil {
		payload.SchemaViolation = violationSummary(err)
	}
	return payload, nil
}

// violationSummary flattens a jsonschema validation error to its first line;
// the full nested output is too noisy for a log field.
func violationSummary(err error) string {
	message := strings.TrimSpace(err.Error())
	if newline := strings.IndexByte(message, '\n'); newline >= 0 {
		message = message[:newline]
	}
	return message
}

func loadResultSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("generation-result.schema.json", strings.NewReader(resultSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, err := compiler.Compile("generation-result.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		compiledSchema = schema
	})
	return compiledSchema, compiledSchemaErr
}

func payloadFromObject(object map[string]any) replyPayload {
	return replyPayload{
		Content:       stringField(object, "content"),
		Hashtags:      stringSliceField(object, "hashtags"),
		CulturalNotes: stringSliceField(object, "culturalNotes", "cultural_notes"),
		Confidence:    floatField(object, "confidence"),
		Suggestions:   stringSliceField(object, "suggestions"),
	}
}

// extractJSONObject locates the outermost JSON object in a reply, tolerating
// markdown code fences and surrounding prose.
func extractJSONObject(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if end := strings.LastIndex(text, "```"); end >= 0 {
			text = text[:end]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

func stringField(object map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := object[key].(string); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func stringSliceField(object map[string]any, keys ...string) []string {
	for _, key := range keys {
		raw, exists := object[key]
		if !exists {
			continue
		}
		switch typed := raw.(type) {
		case []any:
			items := make([]string, 0, len(typed))
			for _, item := range typed {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					items = append(items, strings.TrimSpace(s))
				}
			}
			return items
		case string:
			if trimmed := strings.TrimSpace(typed); trimmed != "" {
				return []string{trimmed}
			}
		}
	}
	return []string{}
}

func floatField(object map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		if value, ok := object[key].(float64); ok {
			return &value
		}
	}
	return nil
}
