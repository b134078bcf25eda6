// Package overlay lays out styled text containers on top of raster images.
//
// The engine wraps text, sizes and positions a background container, resolves
// the text origin inside it and paints the background. Font metrics and pixel
// work are delegated to a Canvas supplied by the caller.
package overlay

import (
	"image"
	"image/color"
)

// MinBottomMargin is the smallest gap kept between a bottom-aligned
// container and the image bottom, whatever margin the caller asked for.
const MinBottomMargin = 20

// DefaultFontWeight is used when a font spec names no weight.
const DefaultFontWeight = 400

// ── Request types ──

// Request is a fully normalized overlay request.
type Request struct {
	Text       string
	Language   string
	Font       FontSpec
	TextColor  color.NRGBA
	Background BackgroundSpec

	// Anchor, when set, is the text top-left before padding. It takes
	// precedence over WidthPercent for horizontal placement.
	Anchor *image.Point

	Alignment    Alignment
	Padding      Padding
	Margin       int
	WidthPercent float64 // 0 = unset, otherwise (0,100]
}

// FontStyle is the slant of a font face.
type FontStyle string

const (
	StyleNormal FontStyle = "normal"
	StyleItalic FontStyle = "italic"
)

// FontSpec identifies a font face at a pixel size.
type FontSpec struct {
	Family string
	Weight int
	Style  FontStyle
	Size   int
}

// WithSize returns a copy of f at a different pixel size.
func (f FontSpec) WithSize(size int) FontSpec {
	f.Size = size
	return f
}

// ── Geometry types ──

// ContainerBox is the background rectangle in image pixels.
type ContainerBox struct {
	X, Y          int
	Width, Height int
}

// Rect converts the box to an image.Rectangle.
func (b ContainerBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Min returns the top-left corner.
func (b ContainerBox) Min() image.Point { return image.Pt(b.X, b.Y) }

// WrappedText is the wrapper output with the measured block size.
type WrappedText struct {
	Lines  []string
	Width  int
	Height int
}

// ── Background types ──

// GradientDirection is the axis a two-color gradient runs along.
type GradientDirection string

const (
	GradientVertical   GradientDirection = "vertical"
	GradientHorizontal GradientDirection = "horizontal"
	GradientDiagonal   GradientDirection = "diagonal"
)

// Gradient is a linear two-color fill.
type Gradient struct {
	Start     color.NRGBA
	End       color.NRGBA
	Direction GradientDirection
}

// BackgroundSpec describes the container fill.
type BackgroundSpec struct {
	Fill     color.NRGBA
	Gradient *Gradient // overrides Fill when set
	Radius   int       // corner radius, 0 = square
	Shade    bool      // darken toward the bottom
	Gloss    bool      // white highlight across the top third
}

// TextStyle carries everything Canvas.DrawText needs besides the lines.
type TextStyle struct {
	Font  FontSpec
	Color color.NRGBA
	Align Horizontal
	RTL   bool
}

// ── Collaborators ──

// Measurer reports rendered text extents in pixels.
type Measurer interface {
	MeasureText(text string, font FontSpec) (width, height int)
	MultilineMeasure(lines []string, font FontSpec) (width, height int)
}

// Canvas is the drawing surface the engine paints on.
type Canvas interface {
	Measurer
	Size() (width, height int)
	DrawText(origin image.Point, lines []string, style TextStyle) error
	FillRoundedRect(box ContainerBox, radius int, bg BackgroundSpec) error
	PasteRegion(src image.Image, at image.Point, mask image.Image)
	CropAndResizeToAspect(targetW, targetH int) *image.RGBA
}

// Layout is the result of the layout pass.
type Layout struct {
	Font   FontSpec
	Text   WrappedText
	Box    ContainerBox
	Origin image.Point
	Radius int
	RTL    bool
	Align  Horizontal // effective line alignment after RTL mirroring
	Shrunk bool
}
