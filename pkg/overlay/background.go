// background.go - Container background: fill or gradient, shade, gloss and
// the rounded-corner mask.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
)

const (
	shadeMaxAlpha = 40 // bottom row of the darkening layer
	glossMaxAlpha = 60 // top row of the highlight layer
)

// Interpolate blends start toward end by ratio in [0,1]. Each channel is
// start + (end-start)*ratio, truncated.
func Interpolate(start, end color.NRGBA, ratio float64) color.NRGBA {
	ratio = min(max(ratio, 0), 1)
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*ratio)
	}
	return color.NRGBA{
		R: lerp(start.R, end.R),
		G: lerp(start.G, end.G),
		B: lerp(start.B, end.B),
		A: lerp(start.A, end.A),
	}
}

// GradientRatio returns the blend ratio of pixel (x,y) in a w×h box.
func GradientRatio(dir GradientDirection, x, y, w, h int) float64 {
	switch dir {
	case GradientHorizontal:
		if w <= 0 {
			return 0
		}
		return float64(x) / float64(w)
	case GradientDiagonal:
		if w+h <= 0 {
			return 0
		}
		return float64(x+y) / float64(w+h)
	default:
		if h <= 0 {
			return 0
		}
		return float64(y) / float64(h)
	}
}

// RenderBackground paints the unmasked w×h background. Layers, bottom up:
// base fill or gradient, optional bottom shade, optional top gloss.
func RenderBackground(w, h int, spec BackgroundSpec) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	if g := spec.Gradient; g != nil {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.SetNRGBA(x, y, Interpolate(g.Start, g.End, GradientRatio(g.Direction, x, y, w, h)))
			}
		}
	} else {
		draw.Draw(img, img.Bounds(), image.NewUniform(spec.Fill), image.Point{}, draw.Src)
	}

	if spec.Shade {
		for y := 0; y < h; y++ {
			a := uint8(shadeMaxAlpha * y / max(h-1, 1))
			overRow(img, y, color.NRGBA{A: a})
		}
	}

	if spec.Gloss {
		third := max(h/3, 1)
		for y := 0; y < third && y < h; y++ {
			a := uint8(glossMaxAlpha * (third - y) / third)
			overRow(img, y, color.NRGBA{R: 255, G: 255, B: 255, A: a})
		}
	}
	return img
}

func overRow(img *image.NRGBA, y int, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	row := image.Rect(img.Rect.Min.X, y, img.Rect.Max.X, y+1)
	draw.Draw(img, row, image.NewUniform(c), image.Point{}, draw.Over)
}

// RoundedMask returns an alpha mask of a w×h rounded rectangle. A radius
// of 0 yields a fully opaque mask.
func RoundedMask(w, h, radius int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	if radius <= 0 {
		draw.Draw(mask, mask.Bounds(), image.Opaque, image.Point{}, draw.Src)
		return mask
	}

	dc := gg.NewContext(w, h)
	dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), float64(radius))
	dc.SetRGBA(1, 1, 1, 1)
	dc.Fill()
	draw.Draw(mask, mask.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return mask
}

// EffectiveRadius is the corner radius actually drawn. Edge-to-edge bars
// are square unless the caller anchored them, and no radius exceeds half
// the shorter side.
func EffectiveRadius(box ContainerBox, imageWidth, radius int, anchored bool) int {
	if radius <= 0 {
		return 0
	}
	if !anchored && box.X == 0 && box.Width >= imageWidth {
		return 0
	}
	return min(radius, min(box.Width, box.Height)/2)
}

// PaintBackground fills box on c with spec, rounded to radius.
func PaintBackground(c Canvas, box ContainerBox, spec BackgroundSpec, radius int) error {
	if box.Width <= 0 || box.Height <= 0 {
		return fmt.Errorf("%w: background %dx%d", ErrGeometryDegenerate, box.Width, box.Height)
	}
	return c.FillRoundedRect(box, radius, spec)
}
