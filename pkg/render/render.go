// Package render runs the full caption pipeline: style presets, validation,
// image loading, crop to the output size, font prefetch, layout and paint.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xob0t/GoCaption/pkg/canvas"
	"github.com/xob0t/GoCaption/pkg/generator"
	"github.com/xob0t/GoCaption/pkg/logger"
	"github.com/xob0t/GoCaption/pkg/overlay"
	"github.com/xob0t/GoCaption/pkg/preset"
	"github.com/xob0t/GoCaption/pkg/source"
)

// FontSource serves faces and can fetch missing fonts. *fonts.Manager
// implements it.
type FontSource interface {
	canvas.FaceSource
	Prefetch(ctx context.Context, spec overlay.FontSpec) error
}

// Renderer holds the collaborators of the pipeline. Nil collaborators are
// skipped: no Catalog means no style presets, no Fonts means the bitmap
// fallback face, no Loader means Render fails and only RenderImage works.
type Renderer struct {
	Fonts   FontSource
	Loader  *source.Loader
	Catalog *preset.Catalog

	Defaults    overlay.Defaults
	Options     overlay.Options
	LineSpacing float64

	// Output size when a request names none. Zero keeps the source size.
	DefaultWidth, DefaultHeight int

	Format      string // default output format: png, jpg or bmp
	JPEGQuality int

	Logger *zap.Logger
}

// Result is a rendered caption.
type Result struct {
	Image    *image.RGBA
	Layout   *overlay.Layout
	Request  *overlay.Request
	Format   string // output extension, e.g. ".png"
	Warnings []string

	quality int
}

// Encode writes the image in the result's format.
func (res *Result) Encode(w io.Writer) error {
	return generator.GenerateToWriter(w, res.Format, generator.Config{Image: res.Image, JPEGQuality: res.quality})
}

// ContentType is the MIME type of Encode's output.
func (res *Result) ContentType() string {
	ct, err := generator.ContentType(res.Format)
	if err != nil {
		return "application/octet-stream"
	}
	return ct
}

func (r *Renderer) log() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return logger.L()
}

// Prepare merges the request's style preset, if any.
func (r *Renderer) Prepare(raw overlay.RawRequest) (overlay.RawRequest, []string) {
	if r.Catalog == nil {
		if raw.Style != "" {
			return raw, []string{fmt.Sprintf("style presets unavailable; %q ignored", raw.Style)}
		}
		return raw, nil
	}
	return r.Catalog.Apply(raw)
}

// Render validates raw, loads its image_url and draws the caption.
func (r *Renderer) Render(ctx context.Context, raw overlay.RawRequest) (*Result, error) {
	start := time.Now()
	raw, warnings := r.Prepare(raw)
	if err := preset.Validate(raw); err != nil {
		return nil, err
	}
	if r.Loader == nil {
		return nil, fmt.Errorf("%w: no image loader configured", overlay.ErrImageUnavailable)
	}

	src, err := r.Loader.Load(ctx, raw.ImageURL)
	if err != nil {
		return nil, err
	}
	r.log().Info("image loaded", zap.String("url", raw.ImageURL), zap.String("format", src.Format),
		zap.Int("width", src.Bounds().Dx()), zap.Int("height", src.Bounds().Dy()))

	res, err := r.compose(ctx, src, raw)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(warnings, res.Warnings...)
	r.log().Info("image processed", zap.Duration("elapsed", time.Since(start)),
		zap.Int("width", res.Image.Bounds().Dx()), zap.Int("height", res.Image.Bounds().Dy()))
	return res, nil
}

// RenderImage draws the caption on src, ignoring raw.ImageURL.
func (r *Renderer) RenderImage(ctx context.Context, src image.Image, raw overlay.RawRequest) (*Result, error) {
	raw, warnings := r.Prepare(raw)
	if missing := raw.Padding.MissingEdges(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing padding keys: %s", overlay.ErrInvalidPadding, strings.Join(missing, ", "))
	}
	res, err := r.compose(ctx, src, raw)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(warnings, res.Warnings...)
	return res, nil
}

func (r *Renderer) compose(ctx context.Context, src image.Image, raw overlay.RawRequest) (*Result, error) {
	if src == nil {
		return nil, errors.New("compose: nil source image")
	}
	log := r.log()

	defW, defH := r.DefaultWidth, r.DefaultHeight
	if defW <= 0 || defH <= 0 {
		defW, defH = src.Bounds().Dx(), src.Bounds().Dy()
	}
	w, h, warnings := preset.ResolveDimensions(raw, defW, defH)

	req, reqWarnings, err := raw.Normalize(r.Defaults)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, reqWarnings...)
	log.Debug("request normalized",
		zap.String("font", req.Font.String()),
		zap.Int("font_size", req.Font.Size),
		zap.String("text_color", overlay.FormatColor(req.TextColor)),
		zap.String("background", overlay.FormatColor(req.Background.Fill)),
		zap.String("alignment", req.Alignment.String()))

	format, err := r.outputFormat(raw.OutputFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", preset.ErrInvalidRequest, err)
	}

	var faces canvas.FaceSource
	if r.Fonts != nil {
		faces = r.Fonts
		if err := r.Fonts.Prefetch(ctx, req.Font); err != nil {
			log.Warn("font unavailable, falling back", zap.String("font", req.Font.String()), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("font %s unavailable; using a fallback", req.Font.Family))
		}
	}

	c := canvas.FromImage(src, faces).WithLogger(log)
	if cw, ch := c.Size(); cw != w || ch != h {
		log.Debug("resizing image", zap.Int("from_width", cw), zap.Int("from_height", ch),
			zap.Int("width", w), zap.Int("height", h))
		c = canvas.New(c.CropAndResizeToAspect(w, h), faces).WithLogger(log)
	}
	defer c.Close()
	if r.LineSpacing > 0 {
		c.LineSpacing = r.LineSpacing
	}

	opts := r.Options
	if opts == (overlay.Options{}) {
		opts = overlay.DefaultOptions()
	}
	if opts.Logger == nil {
		opts.Logger = log
	}
	layout, err := overlay.Apply(c, req, opts)
	if err != nil {
		return nil, err
	}

	for _, msg := range warnings {
		log.Warn(msg)
	}
	return &Result{
		Image:    c.Image(),
		Layout:   layout,
		Request:  req,
		Format:   format,
		Warnings: warnings,
		quality:  r.JPEGQuality,
	}, nil
}

func (r *Renderer) outputFormat(requested string) (string, error) {
	f := requested
	if f == "" {
		f = r.Format
	}
	if f == "" {
		f = "png"
	}
	ext := "." + strings.TrimPrefix(strings.ToLower(f), ".")
	if _, err := generator.ContentType(ext); err != nil {
		return "", err
	}
	return ext, nil
}
