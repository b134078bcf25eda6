// color.go - Fill color parsing and solid image creation.
package generator

import (
	"crypto/rand"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/xob0t/GoCaption/pkg/overlay"
)

// ParseColor parses a fill color. Accepts any hex form overlay.ParseColor
// does, or "random". Empty string is treated as "random".
func ParseColor(s string) (color.NRGBA, error) {
	if s == "" || s == "random" {
		buf := make([]byte, 3)
		if _, err := rand.Read(buf); err != nil {
			return color.NRGBA{}, fmt.Errorf("random color: %w", err)
		}
		return color.NRGBA{R: buf[0], G: buf[1], B: buf[2], A: 255}, nil
	}
	return overlay.ParseColor(s, 1)
}

// NewSolidImage creates a uniform solid-color image using draw.Draw (O(1) fill).
func NewSolidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}
