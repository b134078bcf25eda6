package overlay

import (
	"strings"
	"testing"
)

func TestAdjustFontSize(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	tests := []struct {
		name       string
		chars      int
		size       int
		imageWidth int
		wantSize   int
		wantShrunk bool
	}{
		// width = chars*size/2
		{"fits", 10, 40, 1000, 40, false},
		{"at threshold", 40, 40, 1000, 40, false},
		{"proportional", 50, 40, 1000, 28, true},       // scale 0.72
		{"ratio floor", 100, 40, 1000, 20, true},       // 14 < 40*0.5
		{"min size floor", 200, 20, 1000, 12, true},    // 7 < 12
		{"floor above size", 200, 10, 1000, 10, false}, // never grows
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := FontSpec{Family: "Roboto", Weight: 700, Size: tt.size}
			got, shrunk := AdjustFontSize(strings.Repeat("a", tt.chars), in, tt.imageWidth, runeMeasurer{}, opts)
			if got.Size != tt.wantSize || shrunk != tt.wantShrunk {
				t.Errorf("got size %d shrunk %v, want %d %v", got.Size, shrunk, tt.wantSize, tt.wantShrunk)
			}
			if got.Family != in.Family || got.Weight != in.Weight {
				t.Errorf("face changed: %+v", got)
			}
			if in.Size != tt.size {
				t.Error("input spec mutated")
			}
		})
	}
}

func TestAdjustFontSize_HardBreaks(t *testing.T) {
	t.Parallel()

	f := FontSpec{Size: 20}
	// Each "short line" is 100px against a 320px budget.
	text := strings.TrimSuffix(strings.Repeat("short line\n", 8), "\n")
	if got, shrunk := AdjustFontSize(text, f, 400, runeMeasurer{}, DefaultOptions()); shrunk || got.Size != 20 {
		t.Errorf("paragraphs that fit: size %d shrunk %v, want 20 false", got.Size, shrunk)
	}

	// The widest paragraph (40 runes = 400px) decides the scale: 320/400*0.9.
	text = "tiny\r\n" + strings.Repeat("a", 40)
	if got, shrunk := AdjustFontSize(text, f, 400, runeMeasurer{}, DefaultOptions()); !shrunk || got.Size != 14 {
		t.Errorf("wide paragraph: size %d shrunk %v, want 14 true", got.Size, shrunk)
	}
}

func TestAdjustFontSize_Degenerate(t *testing.T) {
	t.Parallel()

	f := FontSpec{Size: 30}
	if got, shrunk := AdjustFontSize("", f, 100, runeMeasurer{}, DefaultOptions()); shrunk || got != f {
		t.Errorf("empty text: %+v %v", got, shrunk)
	}
	if got, shrunk := AdjustFontSize("abc", f, 0, runeMeasurer{}, DefaultOptions()); shrunk || got != f {
		t.Errorf("zero width: %+v %v", got, shrunk)
	}
}

func TestShrinkFloor(t *testing.T) {
	t.Parallel()

	o := DefaultOptions()
	for size, want := range map[int]int{100: 50, 30: 15, 20: 12, 8: 8} {
		if got := o.ShrinkFloor(FontSpec{Size: size}); got != want {
			t.Errorf("ShrinkFloor(%d) = %d, want %d", size, got, want)
		}
	}
}
