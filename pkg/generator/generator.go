// Package generator encodes rendered captions to image files.
//
// All output follows one pipeline: resolve an image.Image first (the
// rendered caption, or a solid fill when there is none), then encode it as
// PNG, JPEG or BMP.
package generator

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// DefaultJPEGQuality is used when Config.JPEGQuality is unset.
const DefaultJPEGQuality = 90

// Config holds parameters for output generation.
type Config struct {
	Width       int         // Pixel width of a solid fill (default: 1200)
	Height      int         // Pixel height of a solid fill (default: 630)
	Color       string      // Fill color: hex or "random"
	Image       image.Image // Rendered image; overrides Width/Height/Color
	JPEGQuality int         // 1-100
}

// Generate writes an output file. The format is inferred from the file
// extension: .png, .jpg/.jpeg or .bmp.
func Generate(output string, cfg Config) error {
	ext := filepath.Ext(output)
	if _, err := ContentType(ext); err != nil {
		return err
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	if err := GenerateToWriter(f, ext, cfg); err != nil {
		f.Close()
		os.Remove(output)
		return err
	}
	return f.Close()
}

// GenerateToWriter encodes to w in the format named by ext (".png", ".jpg",
// ".jpeg" or ".bmp"; the dot is optional). This is used for in-memory
// output such as HTTP responses and WASM.
func GenerateToWriter(w io.Writer, ext string, cfg Config) error {
	img, err := resolveImage(cfg)
	if err != nil {
		return err
	}

	switch normalizeExt(ext) {
	case ".png":
		err = png.Encode(w, img)
	case ".jpg", ".jpeg":
		q := cfg.JPEGQuality
		if q <= 0 || q > 100 {
			q = DefaultJPEGQuality
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case ".bmp":
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported format %q: use .png, .jpg or .bmp", ext)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", normalizeExt(ext), err)
	}
	return nil
}

// ContentType returns the MIME type for an output extension.
func ContentType(ext string) (string, error) {
	switch normalizeExt(ext) {
	case ".png":
		return "image/png", nil
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	case ".bmp":
		return "image/bmp", nil
	default:
		return "", fmt.Errorf("unsupported format %q: use .png, .jpg or .bmp", ext)
	}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// resolveImage returns the image from config, creating a solid-color image
// if none is provided.
func resolveImage(cfg Config) (image.Image, error) {
	if cfg.Image != nil {
		return cfg.Image, nil
	}

	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = 1200
	}
	if h <= 0 {
		h = 630
	}

	c, err := ParseColor(cfg.Color)
	if err != nil {
		return nil, err
	}
	return NewSolidImage(w, h, c), nil
}
