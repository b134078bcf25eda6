// Package canvas is the raster drawing surface used by the overlay engine.
// It measures and draws text with x/image font faces and composites
// backgrounds onto an *image.RGBA.
package canvas

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/xob0t/GoCaption/pkg/logger"
	"github.com/xob0t/GoCaption/pkg/overlay"
)

// DefaultLineSpacing is the line pitch as a multiple of the line height.
const DefaultLineSpacing = 1.2

// FaceSource returns a face for a font spec. *fonts.Manager implements it.
type FaceSource interface {
	Face(spec overlay.FontSpec) (font.Face, error)
}

// Canvas implements overlay.Canvas over an RGBA image. It is meant for one
// request at a time: faces obtained from the source are kept per spec and
// released by Close.
type Canvas struct {
	img   *image.RGBA
	faces FaceSource
	log   *zap.Logger

	cache map[overlay.FontSpec]font.Face

	// LineSpacing multiplies the line height to get the line pitch.
	LineSpacing float64
}

// New wraps img. faces may be nil, in which case every face is the
// built-in 7x13 bitmap font.
func New(img *image.RGBA, faces FaceSource) *Canvas {
	return &Canvas{
		img:         img,
		faces:       faces,
		log:         logger.L().Named("canvas"),
		cache:       make(map[overlay.FontSpec]font.Face),
		LineSpacing: DefaultLineSpacing,
	}
}

// FromImage copies src into a new RGBA canvas with its origin at (0,0).
func FromImage(src image.Image, faces FaceSource) *Canvas {
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)
	return New(img, faces)
}

// WithLogger replaces the canvas logger.
func (c *Canvas) WithLogger(l *zap.Logger) *Canvas {
	if l != nil {
		c.log = l.Named("canvas")
	}
	return c
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Size reports the image dimensions.
func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) face(spec overlay.FontSpec) font.Face {
	if c.faces == nil {
		return basicfont.Face7x13
	}
	if f, ok := c.cache[spec]; ok {
		return f
	}
	f, err := c.faces.Face(spec)
	if err != nil || f == nil {
		c.log.Warn("no face for font, using bitmap fallback",
			zap.String("font", spec.String()), zap.Error(err))
		f = basicfont.Face7x13
	}
	c.cache[spec] = f
	return f
}

// Close releases the faces this canvas obtained. The image stays valid.
func (c *Canvas) Close() error {
	var errs []error
	for spec, f := range c.cache {
		if f != basicfont.Face7x13 {
			if err := f.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		delete(c.cache, spec)
	}
	return errors.Join(errs...)
}

func lineHeight(f font.Face) int {
	m := f.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// gap is the extra space between two lines.
func (c *Canvas) gap(lh int) int {
	if c.LineSpacing <= 1 {
		return 0
	}
	return int(float64(lh) * (c.LineSpacing - 1))
}

// MeasureText returns the advance width and line height of text.
func (c *Canvas) MeasureText(text string, spec overlay.FontSpec) (int, int) {
	f := c.face(spec)
	return font.MeasureString(f, text).Ceil(), lineHeight(f)
}

// MultilineMeasure returns the widest line and the block height including
// line spacing.
func (c *Canvas) MultilineMeasure(lines []string, spec overlay.FontSpec) (int, int) {
	if len(lines) == 0 {
		return 0, 0
	}
	f := c.face(spec)
	var w int
	for _, l := range lines {
		w = max(w, font.MeasureString(f, l).Ceil())
	}
	lh := lineHeight(f)
	return w, len(lines)*lh + (len(lines)-1)*c.gap(lh)
}

// DrawText draws lines with the block's top-left at origin. Each line is
// aligned inside the block width; RTL lines are drawn in visual order.
func (c *Canvas) DrawText(origin image.Point, lines []string, style overlay.TextStyle) error {
	f := c.face(style.Font)
	lh := lineHeight(f)
	pitch := lh + c.gap(lh)
	ascent := f.Metrics().Ascent.Ceil()

	widths := make([]int, len(lines))
	var blockW int
	for i, l := range lines {
		widths[i] = font.MeasureString(f, l).Ceil()
		blockW = max(blockW, widths[i])
	}

	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(style.Color),
		Face: f,
	}
	for i, l := range lines {
		x := origin.X
		switch style.Align {
		case overlay.Right:
			x += blockW - widths[i]
		case overlay.Center:
			x += (blockW - widths[i]) / 2
		}
		d.Dot = fixed.P(x, origin.Y+i*pitch+ascent)
		d.DrawString(Visual(l, style.RTL))
	}
	return nil
}

// FillRoundedRect renders the background for box and pastes it through a
// rounded-corner mask.
func (c *Canvas) FillRoundedRect(box overlay.ContainerBox, radius int, bg overlay.BackgroundSpec) error {
	fill := overlay.RenderBackground(box.Width, box.Height, bg)
	var mask image.Image
	if radius > 0 {
		mask = overlay.RoundedMask(box.Width, box.Height, radius)
	}
	c.PasteRegion(fill, box.Min(), mask)
	return nil
}

// PasteRegion composites src over the canvas at at, through mask when given.
func (c *Canvas) PasteRegion(src image.Image, at image.Point, mask image.Image) {
	sb := src.Bounds()
	r := image.Rectangle{Min: at, Max: at.Add(sb.Size())}
	if mask == nil {
		draw.Draw(c.img, r, src, sb.Min, draw.Over)
		return
	}
	draw.DrawMask(c.img, r, src, sb.Min, mask, mask.Bounds().Min, draw.Over)
}

// CropAndResizeToAspect returns a copy of the canvas center-cropped to the
// target aspect ratio and scaled to targetW x targetH.
func (c *Canvas) CropAndResizeToAspect(targetW, targetH int) *image.RGBA {
	return CropToFit(c.img, targetW, targetH)
}

// Fill paints the whole canvas with col.
func (c *Canvas) Fill(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}
