package transcript

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_source.go -package=mocks vidvault/internal/transcript Source

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
)

// timedTextDoc represents YouTube's timedtext caption XML.
type timedTextDoc struct {
	XMLName xml.Name       `xml:"transcript"`
	Texts   []timedTextSeg `xml:"text"`
}

type timedTextSeg struct {
	Start    float64 `xml:"start,attr"`
	Duration float64 `xml:"dur,attr"`
	Body     string  `xml:",chardata"`
}

// YouTubeSource fetches captions from YouTube's timedtext endpoint.
type YouTubeSource struct {
	BaseURL  string
	Language string
	client   *http.Client
}

// NewYouTubeSource creates a caption source against the given timedtext
// endpoint. The language defaults to English.
func NewYouTubeSource(baseURL string) *YouTubeSource {
	return &YouTubeSource{
		BaseURL:  baseURL,
		Language: "en",
		client:   http.DefaultClient,
	}
}

// Fetch downloads caption segments for a video. It returns ErrNoTranscript
// when the endpoint has no captions for the video (empty document), and a
// wrapped error for transport or decode failures.
func (s *YouTubeSource) Fetch(ctx context.Context, youtubeID string) ([]Segment, error) {
	q := url.Values{}
	q.Set("v", youtubeID)
	q.Set("lang", s.Language)
	reqURL := fmt.Sprintf("%s?%s", s.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch captions: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoTranscript
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read caption body: %w", err)
	}

	// YouTube answers 200 with an empty body when captions are disabled.
	if len(body) == 0 {
		return nil, ErrNoTranscript
	}

	var doc timedTextDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode caption xml: %w", err)
	}
	if len(doc.Texts) == 0 {
		return nil, ErrNoTranscript
	}

	segments := make([]Segment, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		segments = append(segments, Segment{
			// Caption bodies carry doubly escaped entities (&amp;#39;).
			Text:     html.UnescapeString(t.Body),
			Start:    t.Start,
			Duration: t.Duration,
			Language: s.Language,
		})
	}
	return segments, nil
}
