package artifacts

import "testing"

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantToken string
		wantOK    bool
	}{
		{
			name:      "date in object name",
			input:     "recommendations/AAPL_2024-05-01.md",
			wantToken: "2024-05-01",
			wantOK:    true,
		},
		{
			name:      "first of multiple tokens wins",
			input:     "prices/MSFT_2024-01-15_to_2024-02-15.json",
			wantToken: "2024-01-15",
			wantOK:    true,
		},
		{
			name:   "no token",
			input:  "recommendations/AAPL.md",
			wantOK: false,
		},
		{
			name:   "partial token",
			input:  "recommendations/AAPL_2024-05.md",
			wantOK: false,
		},
		{
			name:      "pattern match only, no calendar validation",
			input:     "recommendations/AAPL_2024-13-40.md",
			wantToken: "2024-13-40",
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := ExtractDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && token != tt.wantToken {
				t.Errorf("ExtractDate(%q) = %q, want %q", tt.input, token, tt.wantToken)
			}
		})
	}
}
