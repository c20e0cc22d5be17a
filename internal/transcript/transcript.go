// Package transcript acquires and normalizes video caption data.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoTranscript is returned when captions are disabled or absent for a
// video. This is a recoverable, reported condition, not a fatal error.
var ErrNoTranscript = errors.New("no transcript available")

// Segment is a single caption segment.
type Segment struct {
	// Text is the caption text for this segment.
	Text string `json:"text"`
	// Start is the offset from the beginning of the video, in seconds.
	Start float64 `json:"start"`
	// Duration is how long the segment is displayed, in seconds.
	Duration float64 `json:"duration"`
	// Language is the caption language tag, when the source reports one.
	Language string `json:"language,omitempty"`
}

// Result is a normalized transcript.
type Result struct {
	// Text is the full transcript with whitespace collapsed.
	Text string `json:"text"`
	// SegmentCount is the number of caption segments the text was built from.
	SegmentCount int `json:"segment_count"`
	// Language is the best-effort detected language tag, taken from the first
	// segment.
	Language string `json:"language"`
}

// Source fetches caption segments for a video identifier.
type Source interface {
	// Fetch returns the ordered caption segments for the video, or
	// ErrNoTranscript when captions are disabled or absent.
	Fetch(ctx context.Context, youtubeID string) ([]Segment, error)
}

// Acquire fetches captions from the source and normalizes them into a Result.
func Acquire(ctx context.Context, src Source, youtubeID string) (*Result, []Segment, error) {
	segments, err := src.Fetch(ctx, youtubeID)
	if err != nil {
		return nil, nil, err
	}
	if len(segments) == 0 {
		return nil, nil, ErrNoTranscript
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}

	lang := segments[0].Language
	if lang == "" {
		lang = "en"
	}

	return &Result{
		Text:         Normalize(strings.Join(parts, " ")),
		SegmentCount: len(segments),
		Language:     lang,
	}, segments, nil
}

// Normalize collapses all whitespace runs to single spaces and trims the ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// FormatTimestamp renders a second offset as H:MM:SS, or M:SS when under an
// hour.
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// KeySegments picks up to n evenly spaced segments from the full sequence.
// The selection is deterministic and returned as a materialized slice.
func KeySegments(segments []Segment, n int) []Segment {
	if n <= 0 || len(segments) == 0 {
		return []Segment{}
	}
	if len(segments) <= n {
		out := make([]Segment, len(segments))
		copy(out, segments)
		return out
	}

	step := len(segments) / n
	out := make([]Segment, 0, n)
	for i := 0; i < len(segments) && len(out) < n; i += step {
		out = append(out, segments[i])
	}
	return out
}
