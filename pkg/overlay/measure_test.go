package overlay

import (
	"image"
	"unicode/utf8"
)

// runeMeasurer gives every rune a width of size/2 and every line a height
// equal to the font size.
type runeMeasurer struct{}

func (runeMeasurer) MeasureText(text string, f FontSpec) (int, int) {
	return utf8.RuneCountInString(text) * f.Size / 2, f.Size
}

func (m runeMeasurer) MultilineMeasure(lines []string, f FontSpec) (int, int) {
	var w int
	for _, l := range lines {
		lw, _ := m.MeasureText(l, f)
		w = max(w, lw)
	}
	return w, len(lines) * f.Size
}

// width10 measures 10px per rune.
func width10(s string) int { return utf8.RuneCountInString(s) * 10 }

// recordingCanvas records drawing calls.
type recordingCanvas struct {
	runeMeasurer
	w, h int

	filled   []ContainerBox
	radii    []int
	drawnAt  []image.Point
	drawn    [][]string
	style    TextStyle
	fillErr  error
	drawnErr error
}

func (c *recordingCanvas) Size() (int, int) { return c.w, c.h }

func (c *recordingCanvas) DrawText(origin image.Point, lines []string, style TextStyle) error {
	c.drawnAt = append(c.drawnAt, origin)
	c.drawn = append(c.drawn, lines)
	c.style = style
	return c.drawnErr
}

func (c *recordingCanvas) FillRoundedRect(box ContainerBox, radius int, _ BackgroundSpec) error {
	c.filled = append(c.filled, box)
	c.radii = append(c.radii, radius)
	return c.fillErr
}

func (c *recordingCanvas) PasteRegion(image.Image, image.Point, image.Image) {}

func (c *recordingCanvas) CropAndResizeToAspect(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}
