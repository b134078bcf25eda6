// validator.go - Request validation and dimension resolution.
package preset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xob0t/GoCaption/pkg/overlay"
)

// ErrInvalidRequest marks requests rejected before any work is done.
var ErrInvalidRequest = errors.New("invalid request")

// Validate checks the fields a render cannot proceed without. Padding maps
// must name all four edges; the error then wraps overlay.ErrInvalidPadding.
func Validate(req overlay.RawRequest) error {
	if req.ImageURL == "" {
		return fmt.Errorf("%w: missing required parameter: image_url", ErrInvalidRequest)
	}
	if !strings.HasPrefix(req.ImageURL, "http://") &&
		!strings.HasPrefix(req.ImageURL, "https://") &&
		!strings.HasPrefix(req.ImageURL, "file://") {
		return fmt.Errorf("%w: image_url must be an http, https or file URL", ErrInvalidRequest)
	}
	if missing := req.Padding.MissingEdges(); len(missing) > 0 {
		return fmt.Errorf("%w: missing padding keys: %s", overlay.ErrInvalidPadding, strings.Join(missing, ", "))
	}
	if req.Width < 0 || req.Height < 0 {
		return fmt.Errorf("%w: width and height must not be negative", ErrInvalidRequest)
	}
	if req.FontSize < 0 {
		return fmt.Errorf("%w: font_size must not be negative", ErrInvalidRequest)
	}
	return nil
}

// ResolveDimensions picks the output size: a known dimension preset wins,
// then explicit width/height, then the defaults. Unknown preset names are
// reported as warnings.
func ResolveDimensions(req overlay.RawRequest, defW, defH int) (w, h int, warnings []string) {
	w, h = defW, defH
	if req.Width > 0 {
		w = req.Width
	}
	if req.Height > 0 {
		h = req.Height
	}
	if req.Preset == "" {
		return w, h, nil
	}
	if dims, ok := Dimensions[strings.ToLower(req.Preset)]; ok {
		return dims[0], dims[1], nil
	}
	return w, h, []string{fmt.Sprintf("unknown dimension preset %q; using %dx%d", req.Preset, w, h)}
}

// Apply resolves req.Style against c and merges it. An unknown style name is
// reported as a warning and the request is returned unchanged.
func (c *Catalog) Apply(req overlay.RawRequest) (overlay.RawRequest, []string) {
	if req.Style == "" {
		return req, nil
	}
	s, ok := c.Get(req.Style)
	if !ok {
		return req, []string{fmt.Sprintf("unknown style preset %q; ignored", req.Style)}
	}
	return Merge(s, req), nil
}
