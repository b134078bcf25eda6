package overlay

import (
	"errors"
	"image/color"
	"testing"
)

func TestInterpolate_Endpoints(t *testing.T) {
	t.Parallel()

	start := color.NRGBA{10, 20, 30, 40}
	end := color.NRGBA{250, 200, 150, 255}
	if got := Interpolate(start, end, 0); got != start {
		t.Errorf("ratio 0 = %v, want %v", got, start)
	}
	if got := Interpolate(start, end, 1); got != end {
		t.Errorf("ratio 1 = %v, want %v", got, end)
	}
	if got := Interpolate(start, end, 0.5); got != (color.NRGBA{130, 110, 90, 147}) {
		t.Errorf("ratio 0.5 = %v", got)
	}
	if got := Interpolate(start, end, 3); got != end {
		t.Errorf("ratio clamps high: %v", got)
	}
}

func TestRenderBackground_HorizontalMidpoint(t *testing.T) {
	t.Parallel()

	start := color.NRGBA{0, 0, 0, 255}
	end := color.NRGBA{200, 100, 50, 255}
	img := RenderBackground(100, 50, BackgroundSpec{
		Gradient: &Gradient{Start: start, End: end, Direction: GradientHorizontal},
	})

	if r := GradientRatio(GradientHorizontal, 50, 10, 100, 50); r != 0.5 {
		t.Fatalf("ratio = %v, want 0.5", r)
	}
	for _, y := range []int{0, 25, 49} {
		if got := img.NRGBAAt(50, y); got != (color.NRGBA{100, 50, 25, 255}) {
			t.Errorf("pixel (50,%d) = %v, want midpoint", y, got)
		}
	}
	if got := img.NRGBAAt(0, 0); got != start {
		t.Errorf("pixel (0,0) = %v, want start", got)
	}
}

func TestGradientRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dir  GradientDirection
		x, y int
		want float64
	}{
		{GradientVertical, 7, 25, 0.5},
		{GradientHorizontal, 25, 7, 0.25},
		{GradientDiagonal, 50, 25, 0.5},
		{GradientVertical, 0, 0, 0},
	}
	for _, tt := range tests {
		if got := GradientRatio(tt.dir, tt.x, tt.y, 100, 50); got != tt.want {
			t.Errorf("%s (%d,%d) = %v, want %v", tt.dir, tt.x, tt.y, got, tt.want)
		}
	}
	if got := GradientRatio(GradientVertical, 0, 0, 0, 0); got != 0 {
		t.Errorf("empty box ratio = %v", got)
	}
}

func TestRenderBackground_Layers(t *testing.T) {
	t.Parallel()

	base := color.NRGBA{100, 100, 100, 255}

	plain := RenderBackground(20, 30, BackgroundSpec{Fill: base})
	if got := plain.NRGBAAt(10, 29); got != base {
		t.Fatalf("solid fill = %v, want %v", got, base)
	}

	shaded := RenderBackground(20, 30, BackgroundSpec{Fill: base, Shade: true})
	if top, bottom := shaded.NRGBAAt(10, 0), shaded.NRGBAAt(10, 29); bottom.R >= top.R {
		t.Errorf("shade: bottom %v not darker than top %v", bottom, top)
	}

	glossy := RenderBackground(20, 30, BackgroundSpec{Fill: base, Gloss: true})
	if got := glossy.NRGBAAt(10, 0); got.R <= base.R {
		t.Errorf("gloss: top row %v not brighter", got)
	}
	if got := glossy.NRGBAAt(10, 20); got != base {
		t.Errorf("gloss leaked below the top third: %v", got)
	}
}

func TestRoundedMask(t *testing.T) {
	t.Parallel()

	square := RoundedMask(40, 20, 0)
	if a := square.AlphaAt(0, 0).A; a != 0xff {
		t.Errorf("square corner alpha = %d, want 255", a)
	}

	rounded := RoundedMask(40, 20, 8)
	if a := rounded.AlphaAt(0, 0).A; a != 0 {
		t.Errorf("rounded corner alpha = %d, want 0", a)
	}
	if a := rounded.AlphaAt(20, 10).A; a != 0xff {
		t.Errorf("center alpha = %d, want 255", a)
	}
}

func TestEffectiveRadius(t *testing.T) {
	t.Parallel()

	full := ContainerBox{X: 0, Y: 100, Width: 1080, Height: 200}
	inset := ContainerBox{X: 50, Y: 100, Width: 300, Height: 40}

	tests := []struct {
		name     string
		box      ContainerBox
		radius   int
		anchored bool
		want     int
	}{
		{"edge-to-edge squares off", full, 30, false, 0},
		{"anchored edge-to-edge keeps radius", full, 30, true, 30},
		{"inset keeps radius", inset, 15, false, 15},
		{"capped at half the short side", inset, 50, false, 20},
		{"zero stays zero", inset, 0, false, 0},
	}
	for _, tt := range tests {
		if got := EffectiveRadius(tt.box, 1080, tt.radius, tt.anchored); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestPaintBackground(t *testing.T) {
	t.Parallel()

	c := &recordingCanvas{w: 100, h: 100}
	box := ContainerBox{X: 1, Y: 2, Width: 30, Height: 40}
	if err := PaintBackground(c, box, BackgroundSpec{}, 5); err != nil {
		t.Fatal(err)
	}
	if len(c.filled) != 1 || c.filled[0] != box || c.radii[0] != 5 {
		t.Errorf("fill calls = %+v radii %v", c.filled, c.radii)
	}

	err := PaintBackground(c, ContainerBox{Width: 0, Height: 10}, BackgroundSpec{}, 0)
	if !errors.Is(err, ErrGeometryDegenerate) {
		t.Errorf("err = %v, want ErrGeometryDegenerate", err)
	}
}
