package s0_data

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "   ", ""},
		{"plain", "Nasdaq closes higher", "Nasdaq closes higher"},
		{"markdown emphasis", "**NVDA** is *ripping*", "NVDA is ripping"},
		{"markdown link keeps text", "see [the filing](https://sec.gov/x) now", "see the filing now"},
		{"bare url removed", "chart: https://imgur.com/abc done", "chart: done"},
		{"html tags", "<p>Fed <b>holds</b> rates</p>", "Fed holds rates"},
		{"whitespace collapsed", "line one\n\nline   two", "line one line two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.input); got != tt.expected {
				t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
