package chunk

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// splitFrontmatter separates a leading "---" YAML fence from the rest of
// the document body. Returns the parsed key-value pairs (values
// flattened to strings) and the remaining body. Malformed frontmatter is
// a recoverable ParseError: the body is returned unchanged and the
// frontmatter map is empty.
func splitFrontmatter(content string) (map[string]string, string, error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return nil, content, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		// Unterminated fence: treat the whole thing as opaque body.
		return nil, content, nil
	}

	raw := strings.Join(lines[1:end], "\n")
	body := strings.Join(lines[end+1:], "\n")

	fm, err := parseFrontmatter(raw)
	if err != nil {
		return nil, content, &ParseError{Cause: err}
	}
	return fm, body, nil
}

func parseFrontmatter(raw string) (map[string]string, error) {
	var generic map[string]any
	if err := yaml.Unmarshal([]byte(raw), &generic); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(generic))
	for k, v := range generic {
		out[k] = flattenScalar(v)
	}
	return out, nil
}

// flattenScalar renders a YAML value as a string for storage as a
// HAS_FRONTMATTER edge property. Lists are comma-joined.
func flattenScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, flattenScalar(item))
		}
		return strings.Join(parts, ", ")
	default:
		return toString(t)
	}
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return stringifyFallback(v)
}

// stringifyFallback renders a non-string YAML scalar (bool, int, float,
// nested map) for storage as a frontmatter property value.
func stringifyFallback(v any) string {
	return fmt.Sprintf("%v", v)
}
