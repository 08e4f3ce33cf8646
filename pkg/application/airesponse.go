package application

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// extractJSON strips code fences and surrounding prose from a model
// response, returning the first JSON object or array found.
func extractJSON(text string) string {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return clean
	}

	startArray := strings.Index(clean, "[")
	startObject := strings.Index(clean, "{")
	start := -1
	if startArray == -1 {
		start = startObject
	} else if startObject == -1 || startArray < startObject {
		start = startArray
	} else {
		start = startObject
	}
	if start == -1 {
		return clean
	}

	endArray := strings.LastIndex(clean, "]")
	endObject := strings.LastIndex(clean, "}")
	end := -1
	if endArray == -1 {
		end = endObject
	} else if endObject == -1 || endArray > endObject {
		end = endArray
	} else {
		end = endObject
	}
	if end == -1 || end <= start {
		return clean
	}

	return strings.TrimSpace(clean[start : end+1])
}

// validateSchema checks a JSON document against a schema at the parse
// boundary. Any mismatch becomes an ordinary error, which upstream treats
// as "primary failed" and routes into the fallback.
func validateSchema(schemaLoader gojsonschema.JSONLoader, document string) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(document))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return fmt.Errorf("response does not match schema: %s", strings.Join(issues, "; "))
	}
	return nil
}
