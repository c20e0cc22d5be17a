package categorizer

import "strings"

// keywordEntry maps a category to the keywords that select it. Order matters:
// the first category with any title match wins.
type keywordEntry struct {
	category string
	keywords []string
}

var keywordTable = []keywordEntry{
	{"Programming", []string{"programming", "coding", "code", "golang", "python", "javascript", "software", "developer", "tutorial", "api"}},
	{"Science", []string{"science", "physics", "chemistry", "biology", "experiment", "astronomy", "research"}},
	{"Math", []string{"math", "mathematics", "algebra", "calculus", "geometry", "statistics", "proof"}},
	{"Business", []string{"business", "startup", "marketing", "finance", "investing", "entrepreneur", "economy"}},
	{"Design", []string{"design", "ui", "ux", "figma", "typography", "illustration", "graphic"}},
	{"Music", []string{"music", "song", "guitar", "piano", "album", "concert", "band"}},
	{"Language", []string{"language", "english", "spanish", "japanese", "grammar", "vocabulary", "pronunciation"}},
}

// KeywordFallback deterministically suggests a category by matching the title
// against a fixed keyword table, case-insensitive. The first category with any
// substring match wins; its matched keywords become the tags (max 5). Nothing
// matching yields the "General" category with no tags. Confidence is fixed.
func KeywordFallback(title string) Suggestion {
	lower := strings.ToLower(title)

	for _, entry := range keywordTable {
		var matched []string
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}
		if len(matched) > maxTags {
			matched = matched[:maxTags]
		}
		return Suggestion{
			SuggestedCategory: entry.category,
			IsNewCategory:     false,
			Tags:              matched,
			Confidence:        fallbackConfidence,
			Reason:            "Matched title keywords: " + strings.Join(matched, ", "),
		}
	}

	return Suggestion{
		SuggestedCategory: defaultCategory,
		IsNewCategory:     false,
		Tags:              []string{},
		Confidence:        fallbackConfidence,
		Reason:            "No keyword match; defaulted to General",
	}
}
