// fontsize.go - Single-pass font shrink for overlong unwrapped text.
package overlay

import (
	"math"
	"strings"
)

// ShrinkFloor is the smallest size the shrink pass may produce for f.
func (o Options) ShrinkFloor(f FontSpec) int {
	floor := max(o.MinFontSize, int(float64(f.Size)*o.MinShrinkRatio))
	return min(max(floor, 1), f.Size)
}

// AdjustFontSize measures the widest unwrapped paragraph at the requested
// size and, when it is wider than ShrinkThreshold of the image width, returns
// the font at a proportionally reduced size. Hard line breaks split
// paragraphs. The returned bool reports whether it shrank.
// It never returns a size below ShrinkFloor.
func AdjustFontSize(text string, f FontSpec, imageWidth int, m Measurer, o Options) (FontSpec, bool) {
	if f.Size <= 0 || imageWidth <= 0 || text == "" {
		return f, false
	}

	var width int
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		w, _ := m.MeasureText(para, f)
		width = max(width, w)
	}
	threshold := o.ShrinkThreshold * float64(imageWidth)
	if width <= 0 || float64(width) <= threshold {
		return f, false
	}

	scale := threshold / float64(width) * o.ShrinkSafety
	size := int(math.Floor(float64(f.Size) * scale))
	size = max(size, o.ShrinkFloor(f))
	if size >= f.Size {
		return f, false
	}
	return f.WithSize(size), true
}
