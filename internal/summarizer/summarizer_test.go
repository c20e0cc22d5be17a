package summarizer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"vidvault/internal/llm"
	"vidvault/internal/llm/mocks"
)

func TestSummarize(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return(`{"quick_summary":"A short take.","detailed_summary":"A longer take.","key_points":["one","two"]}`, nil)

	s := New(provider)
	got := s.Summarize(context.Background(), "hello world transcript", "Test Video")

	if got.Quick != "A short take." {
		t.Errorf("Quick = %q", got.Quick)
	}
	if got.Detailed != "A longer take." {
		t.Errorf("Detailed = %q", got.Detailed)
	}
	if len(got.KeyPoints) != 2 {
		t.Errorf("KeyPoints = %v, want 2 entries", got.KeyPoints)
	}
}

func TestSummarize_FencedResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return("```json\n{\"quick_summary\":\"Fenced.\",\"detailed_summary\":\"Still fine.\",\"key_points\":[]}\n```", nil)

	s := New(provider)
	got := s.Summarize(context.Background(), "transcript", "Test Video")

	if got.Quick != "Fenced." {
		t.Errorf("Quick = %q, want fences stripped", got.Quick)
	}
	if got.KeyPoints == nil {
		t.Error("KeyPoints must never be nil")
	}
}

func TestSummarize_ProviderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return("", &llm.ProviderError{Provider: "openai", Err: fmt.Errorf("connection refused")})

	s := New(provider)
	got := s.Summarize(context.Background(), "transcript", "Test Video")

	if !strings.Contains(got.Quick, "failed") {
		t.Errorf("Quick = %q, want failure notice", got.Quick)
	}
	if got.Detailed == "" || len(got.KeyPoints) == 0 {
		t.Error("failed summary must still carry all three parts")
	}
}

func TestSummarize_UnparseableResponse(t *testing.T) {
	raw := "Here is a rambling answer with no structure to speak of."

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(raw, nil)

	s := New(provider)
	got := s.Summarize(context.Background(), "transcript", "Test Video")

	if got.Quick != raw {
		t.Errorf("Quick = %q, want raw response (short enough to keep whole)", got.Quick)
	}
	if got.Detailed != raw {
		t.Errorf("Detailed = %q, want full raw response", got.Detailed)
	}
	if len(got.KeyPoints) != 1 {
		t.Errorf("KeyPoints = %v, want single placeholder", got.KeyPoints)
	}
}

func TestSummarize_DegradedQuickTruncated(t *testing.T) {
	raw := strings.Repeat("x", 500)

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(raw, nil)

	s := New(provider)
	got := s.Summarize(context.Background(), "transcript", "Test Video")

	if len(got.Quick) != 200 {
		t.Errorf("Quick length = %d, want 200", len(got.Quick))
	}
	if got.Detailed != raw {
		t.Error("Detailed must keep the full raw response")
	}
}

func TestSummarize_TruncatesLongTranscripts(t *testing.T) {
	long := strings.Repeat("a", maxTranscriptChars+5000)

	var captured string
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.GenerateRequest) (string, error) {
			captured = req.Prompt
			return `{"quick_summary":"q","detailed_summary":"d","key_points":[]}`, nil
		})

	s := New(provider)
	s.Summarize(context.Background(), long, "Long Video")

	if !strings.Contains(captured, truncationMarker) {
		t.Error("prompt for an over-long transcript must carry the truncation marker")
	}
	if strings.Count(captured, "a") > maxTranscriptChars {
		t.Errorf("prompt carries %d transcript chars, want at most %d",
			strings.Count(captured, "a"), maxTranscriptChars)
	}
}
