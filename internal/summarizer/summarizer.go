// Package summarizer builds three-part transcript summaries via the
// completion provider, degrading gracefully when the provider misbehaves.
package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"vidvault/internal/contextutil"
	"vidvault/internal/llm"
)

const (
	// maxTranscriptChars bounds the prompt so provider input never grows with
	// transcript length.
	maxTranscriptChars = 10000
	truncationMarker   = "... [transcript truncated]"

	systemPrompt = "You are a precise assistant that summarizes video transcripts. " +
		"Respond with JSON only, no prose and no markdown fences."
)

// Summary is the three-part structured summary of a transcript.
type Summary struct {
	Quick     string   `json:"quick_summary"`
	Detailed  string   `json:"detailed_summary"`
	KeyPoints []string `json:"key_points"`
}

// Summarizer generates transcript summaries through a completion provider.
type Summarizer struct {
	provider llm.Provider
}

// New creates a Summarizer.
func New(provider llm.Provider) *Summarizer {
	return &Summarizer{provider: provider}
}

// Summarize produces a quick summary, detailed summary, and key points for
// the transcript. It never returns an error once a transcript exists: provider
// failure yields a fixed "generation failed" structure and parse failure a
// degraded result built from the raw response.
func (s *Summarizer) Summarize(ctx context.Context, transcriptText, title string) Summary {
	logger := contextutil.LoggerFromContext(ctx)

	prompt := buildPrompt(transcriptText, title)

	raw, err := s.provider.Generate(ctx, llm.GenerateRequest{
		Prompt:       prompt,
		SystemPrompt: systemPrompt,
		Temperature:  0.3,
		MaxTokens:    1500,
	})
	if err != nil {
		logger.ErrorContext(ctx, "summary generation failed", "title", title, "error", err)
		return failedSummary()
	}

	summary, err := parseSummary(raw)
	if err != nil {
		logger.WarnContext(ctx, "summary response not parseable, using degraded result", "title", title, "error", err)
		return degradedSummary(raw)
	}

	logger.InfoContext(ctx, "summary generated", "title", title, "key_points", len(summary.KeyPoints))
	return summary
}

// buildPrompt assembles the summarization prompt, truncating the transcript
// to maxTranscriptChars with a marker appended when longer.
func buildPrompt(transcriptText, title string) string {
	text := transcriptText
	if len(text) > maxTranscriptChars {
		text = text[:maxTranscriptChars] + truncationMarker
	}

	var b strings.Builder
	b.WriteString("Summarize the following video transcript.\n")
	fmt.Fprintf(&b, "Video title: %s\n\n", title)
	b.WriteString("Return a JSON object with exactly these fields:\n")
	b.WriteString(`{"quick_summary": "2-3 sentences", "detailed_summary": "several paragraphs", "key_points": ["point 1", "point 2"]}`)
	b.WriteString("\n\nTranscript:\n")
	b.WriteString(text)
	return b.String()
}

// parseSummary strictly parses the provider response into the expected shape.
func parseSummary(raw string) (Summary, error) {
	jsonText, ok := llm.ExtractJSONObject(raw)
	if !ok {
		return Summary{}, fmt.Errorf("no JSON object in response")
	}

	var summary Summary
	if err := json.Unmarshal([]byte(jsonText), &summary); err != nil {
		return Summary{}, fmt.Errorf("failed to decode summary: %w", err)
	}
	if summary.Quick == "" && summary.Detailed == "" {
		return Summary{}, fmt.Errorf("summary fields missing")
	}
	if summary.KeyPoints == nil {
		summary.KeyPoints = []string{}
	}
	return summary, nil
}

// degradedSummary builds a well-formed result from an unparseable response.
func degradedSummary(raw string) Summary {
	quick := raw
	if len(quick) > 200 {
		quick = quick[:200]
	}
	return Summary{
		Quick:     quick,
		Detailed:  raw,
		KeyPoints: []string{"Summary format was not structured; see detailed summary."},
	}
}

// failedSummary is the fixed structure returned when the provider call fails.
func failedSummary() Summary {
	return Summary{
		Quick:     "Summary generation failed.",
		Detailed:  "Summary generation failed. The transcript is stored and can be summarized again later.",
		KeyPoints: []string{"Summary generation failed."},
	}
}
