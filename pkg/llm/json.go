package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var thinkTagPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)

// ExtractJSON extracts a JSON object from an LLM response that may wrap it
// in markdown code fences, reasoning tags, or surrounding prose.
func ExtractJSON(response string) string {
	cleaned := thinkTagPattern.ReplaceAllString(response, "")
	cleaned = strings.TrimSpace(cleaned)

	// Prefer fenced blocks when present
	if idx := strings.Index(cleaned, "```json"); idx != -1 {
		rest := cleaned[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}
	if idx := strings.Index(cleaned, "```"); idx != -1 {
		rest := cleaned[idx+3:]
		if end := strings.Index(rest, "```"); end != -1 {
			candidate := strings.TrimSpace(rest[:end])
			if strings.HasPrefix(candidate, "{") {
				return candidate
			}
		}
	}

	return extractBalancedJSON(cleaned)
}

// extractBalancedJSON scans for the first balanced top-level JSON object,
// tracking string literals and escapes so braces inside strings don't
// terminate the scan early.
func extractBalancedJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return s
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}

	// Unbalanced: return from the first brace and let unmarshal report it
	return s[start:]
}

// ParseJSONResponse extracts and unmarshals a JSON object from an LLM
// response into T.
func ParseJSONResponse[T any](response string) (T, error) {
	var result T
	extracted := ExtractJSON(response)
	if err := json.Unmarshal([]byte(extracted), &result); err != nil {
		return result, NewError(ErrorTypeParse, "failed to parse JSON from response", false, err)
	}
	return result, nil
}
