package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"surrounding whitespace", "  Jane Doe  ", "Jane Doe"},
		{"internal runs collapsed", "Jane    Doe", "Jane Doe"},
		{"tabs and newlines", "Jane\t\nDoe", "Jane Doe"},
		{"control characters dropped", "Jane\x00Doe", "JaneDoe"},
		{"idempotent", "Jane Doe", "Jane Doe"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TrimAndNormalize(tc.input); got != tc.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jane.Doe@Example.COM "); got != "jane.doe@example.com" {
		t.Errorf("NormalizeEmail returned %q", got)
	}
	if got := NormalizeEmail(NormalizeEmail("A@B.com")); got != "a@b.com" {
		t.Errorf("NormalizeEmail not idempotent: %q", got)
	}
}
