package llm

import "testing"

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{
			name:   "bare object",
			raw:    `{"answer":"yes"}`,
			want:   `{"answer":"yes"}`,
			wantOK: true,
		},
		{
			name:   "json fence",
			raw:    "```json\n{\"answer\":\"yes\"}\n```",
			want:   `{"answer":"yes"}`,
			wantOK: true,
		},
		{
			name:   "plain fence",
			raw:    "```\n{\"answer\":\"yes\"}\n```",
			want:   `{"answer":"yes"}`,
			wantOK: true,
		},
		{
			name:   "surrounding prose",
			raw:    "Sure! Here is the result: {\"answer\":\"yes\"} Hope that helps.",
			want:   `{"answer":"yes"}`,
			wantOK: true,
		},
		{
			name:   "nested object",
			raw:    `{"outer":{"inner":1}}`,
			want:   `{"outer":{"inner":1}}`,
			wantOK: true,
		},
		{
			name:   "no object",
			raw:    "I cannot produce JSON for that.",
			wantOK: false,
		},
		{
			name:   "empty",
			raw:    "",
			wantOK: false,
		},
		{
			name:   "only closing brace",
			raw:    "}",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ExtractJSONObject() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ExtractJSONObject() = %q, want %q", got, tt.want)
			}
		})
	}
}
