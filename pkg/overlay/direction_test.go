package overlay

import "testing"

func TestIsRTL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lang, text string
		want       bool
	}{
		{"ar", "hello", true},
		{"he", "", true},
		{"ckb", "", true},
		{"fa-IR", "", true},
		{"Arabic", "", true},
		{"en", "مرحبا", false},
		{"en-US", "", false},
		{"az-Arab", "", true},
		{"uz-Latn", "", false},
		{"ku", "سڵاو", true},
		{"ku", "silav", false},
		{"", "שלום world", true},
		{"", "world שלום", false},
		{"", "123 مرحبا", true},
		{"not a tag!", "abc", false},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := IsRTL(tt.lang, tt.text); got != tt.want {
			t.Errorf("IsRTL(%q, %q) = %v, want %v", tt.lang, tt.text, got, tt.want)
		}
	}
}
