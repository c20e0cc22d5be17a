package llm

import "strings"

// ExtractJSONObject pulls the first JSON object out of raw provider output.
// Providers often wrap JSON in markdown fences or prose; every response is
// treated as untrusted text. Returns false when no object-shaped substring
// exists — callers then take their documented fallback path.
func ExtractJSONObject(raw string) (string, bool) {
	s := strings.TrimSpace(raw)

	// Strip markdown code fences if present.
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
