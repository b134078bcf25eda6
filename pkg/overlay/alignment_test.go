package overlay

import (
	"image"
	"testing"
)

func TestParseAlignment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   Alignment
		wantOK bool
	}{
		{"bottom-center", Alignment{Bottom, Center}, true},
		{"top-left", Alignment{Top, Left}, true},
		{"center-right", Alignment{Middle, Right}, true},
		{" Top-Right ", Alignment{Top, Right}, true},
		{"", DefaultAlignment, false},
		{"center", DefaultAlignment, false},
		{"left-top", DefaultAlignment, false},
		{"top-left-extra", DefaultAlignment, false},
	}
	for _, tt := range tests {
		got, ok := ParseAlignment(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseAlignment(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestAlignmentEffective(t *testing.T) {
	t.Parallel()

	for h, want := range map[Horizontal]Horizontal{Left: Right, Right: Left, Center: Center} {
		a := Alignment{Top, h}
		if got := a.Effective(true); got != want {
			t.Errorf("RTL %s = %s, want %s", h, got, want)
		}
		if got := a.Effective(false); got != h {
			t.Errorf("LTR %s = %s", h, got)
		}
	}
}

func TestResolveTextOrigin(t *testing.T) {
	t.Parallel()

	box := ContainerBox{X: 100, Y: 50, Width: 400, Height: 200}
	p := Padding{Top: 10, Right: 20, Bottom: 30, Left: 40}
	const tw, th = 200, 60

	tests := []struct {
		name string
		a    Alignment
		rtl  bool
		want image.Point
	}{
		{"top-left", Alignment{Top, Left}, false, image.Pt(140, 60)},
		{"bottom-right", Alignment{Bottom, Right}, false, image.Pt(280, 160)},
		{"center-center", Alignment{Middle, Center}, false, image.Pt(200, 120)},
		{"rtl left reads right", Alignment{Top, Left}, true, image.Pt(280, 60)},
		{"rtl right reads left", Alignment{Top, Right}, true, image.Pt(140, 60)},
		{"rtl center unchanged", Alignment{Bottom, Center}, true, image.Pt(200, 160)},
	}
	for _, tt := range tests {
		if got := ResolveTextOrigin(box, tw, th, p, tt.a, tt.rtl); got != tt.want {
			t.Errorf("%s: origin = %v, want %v", tt.name, got, tt.want)
		}
	}
}
