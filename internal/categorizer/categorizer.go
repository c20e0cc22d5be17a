// Package categorizer suggests a category and tags for a video, with a
// deterministic keyword fallback when the provider is unavailable or its
// response unparseable.
package categorizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"vidvault/internal/contextutil"
	"vidvault/internal/llm"
	"vidvault/internal/models"
)

const (
	// maxTranscriptChars bounds how much transcript enters the prompt.
	maxTranscriptChars = 1000
	maxTags            = 5
	fallbackConfidence = 0.5
	defaultCategory    = "General"

	systemPrompt = "You are a librarian assigning categories and tags to videos. " +
		"Respond with JSON only, no prose and no markdown fences."
)

// Suggestion is a category/tag recommendation for one video.
type Suggestion struct {
	SuggestedCategory string   `json:"suggested_category"`
	IsNewCategory     bool     `json:"is_new_category"`
	Tags              []string `json:"tags"`
	Confidence        float64  `json:"confidence"`
	Reason            string   `json:"reason"`
}

// BatchResult pairs a suggestion with the video it belongs to.
type BatchResult struct {
	VideoID    uint       `json:"video_id"`
	Suggestion Suggestion `json:"suggestion"`
}

// Categorizer suggests categories through a completion provider.
type Categorizer struct {
	provider llm.Provider
}

// New creates a Categorizer.
func New(provider llm.Provider) *Categorizer {
	return &Categorizer{provider: provider}
}

// Suggest recommends a category and tags for the video given the existing
// category names. Provider or parse failure falls back to the deterministic
// keyword match; Suggest itself never fails.
func (c *Categorizer) Suggest(ctx context.Context, video *models.Video, categories []string) Suggestion {
	logger := contextutil.LoggerFromContext(ctx)

	raw, err := c.provider.Generate(ctx, llm.GenerateRequest{
		Prompt:       buildPrompt(video, categories),
		SystemPrompt: systemPrompt,
		Temperature:  0.2,
		MaxTokens:    400,
	})
	if err != nil {
		logger.WarnContext(ctx, "categorization provider failed, using keyword fallback",
			"video_id", video.ID, "error", err)
		return KeywordFallback(video.Title)
	}

	suggestion, err := parseSuggestion(raw, categories)
	if err != nil {
		logger.WarnContext(ctx, "categorization response not parseable, using keyword fallback",
			"video_id", video.ID, "error", err)
		return KeywordFallback(video.Title)
	}

	logger.InfoContext(ctx, "category suggested",
		"video_id", video.ID, "category", suggestion.SuggestedCategory, "confidence", suggestion.Confidence)
	return suggestion
}

// SuggestBatch applies Suggest to each video sequentially. A failure on one
// item only degrades that item's suggestion; there is no parallelism and no
// partial-failure aggregation.
func (c *Categorizer) SuggestBatch(ctx context.Context, videos []models.Video, categories []string) []BatchResult {
	results := make([]BatchResult, 0, len(videos))
	for i := range videos {
		results = append(results, BatchResult{
			VideoID:    videos[i].ID,
			Suggestion: c.Suggest(ctx, &videos[i], categories),
		})
	}
	return results
}

func buildPrompt(video *models.Video, categories []string) string {
	transcript := ""
	if video.Transcript != nil {
		transcript = *video.Transcript
		if len(transcript) > maxTranscriptChars {
			transcript = transcript[:maxTranscriptChars]
		}
	}

	var b strings.Builder
	b.WriteString("Suggest one category and up to 5 tags for this video.\n")
	fmt.Fprintf(&b, "Title: %s\n", video.Title)
	fmt.Fprintf(&b, "Description: %s\n", video.Description)
	fmt.Fprintf(&b, "Transcript excerpt: %s\n", transcript)
	fmt.Fprintf(&b, "Existing categories: %s\n\n", strings.Join(categories, ", "))
	b.WriteString("Prefer an existing category; set is_new_category true only when none fits.\n")
	b.WriteString("Return a JSON object with exactly these fields:\n")
	b.WriteString(`{"suggested_category": "name", "is_new_category": false, "tags": ["tag"], "confidence": 0.8, "reason": "why"}`)
	return b.String()
}

// parseSuggestion strictly parses the provider response into the expected
// shape and normalizes its fields.
func parseSuggestion(raw string, categories []string) (Suggestion, error) {
	jsonText, ok := llm.ExtractJSONObject(raw)
	if !ok {
		return Suggestion{}, fmt.Errorf("no JSON object in response")
	}

	var s Suggestion
	if err := json.Unmarshal([]byte(jsonText), &s); err != nil {
		return Suggestion{}, fmt.Errorf("failed to decode suggestion: %w", err)
	}
	if s.SuggestedCategory == "" {
		return Suggestion{}, fmt.Errorf("suggested_category missing")
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if len(s.Tags) > maxTags {
		s.Tags = s.Tags[:maxTags]
	}
	if s.Confidence < 0 {
		s.Confidence = 0
	}
	if s.Confidence > 1 {
		s.Confidence = 1
	}

	// The model may claim a category is new when it already exists.
	for _, name := range categories {
		if strings.EqualFold(name, s.SuggestedCategory) {
			s.IsNewCategory = false
			break
		}
	}
	return s, nil
}
