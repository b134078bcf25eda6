package overlay

import "testing"

func TestParseFontFamily(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want FontSpec
	}{
		{"Roboto", FontSpec{"Roboto", 400, StyleNormal, 36}},
		{"Roboto:700", FontSpec{"Roboto", 700, StyleNormal, 36}},
		{"Open Sans:italic", FontSpec{"Open Sans", 400, StyleItalic, 36}},
		{"Merriweather:700italic", FontSpec{"Merriweather", 700, StyleItalic, 36}},
		{"Lato:300i", FontSpec{"Lato", 300, StyleItalic, 36}},
		{"Lato:bogus", FontSpec{"Lato", 400, StyleNormal, 36}},
		{"Lato:1200", FontSpec{"Lato", 400, StyleNormal, 36}},
		{" Noto Sans Arabic ", FontSpec{"Noto Sans Arabic", 400, StyleNormal, 36}},
	}
	for _, tt := range tests {
		if got := ParseFontFamily(tt.in, 36); got != tt.want {
			t.Errorf("ParseFontFamily(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestFontSpecString(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"Roboto", "Roboto:700", "Roboto:italic", "Roboto:700italic"} {
		if got := ParseFontFamily(in, 10).String(); got != in {
			t.Errorf("String() = %q, want %q", got, in)
		}
	}
}

func TestParseFontStyle(t *testing.T) {
	t.Parallel()

	if ParseFontStyle("Italic") != StyleItalic || ParseFontStyle("oblique") != StyleItalic {
		t.Error("italic variants not recognized")
	}
	if ParseFontStyle("bold") != StyleNormal {
		t.Error("unknown style should be normal")
	}
}
