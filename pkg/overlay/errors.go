// errors.go - Error kinds surfaced by the layout engine and its boundaries.
package overlay

import "errors"

var (
	ErrInvalidColor       = errors.New("invalid color format")
	ErrInvalidPadding     = errors.New("invalid padding shape")
	ErrFontUnresolved     = errors.New("font unresolved")
	ErrImageUnavailable   = errors.New("image unavailable")
	ErrGeometryDegenerate = errors.New("degenerate container geometry")
)

// Kind returns the short kind name of err, or "internal" when err wraps
// none of the known kinds.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidColor):
		return "InvalidColorFormat"
	case errors.Is(err, ErrInvalidPadding):
		return "InvalidPaddingShape"
	case errors.Is(err, ErrFontUnresolved):
		return "FontUnresolved"
	case errors.Is(err, ErrImageUnavailable):
		return "ImageUnavailable"
	case errors.Is(err, ErrGeometryDegenerate):
		return "GeometryDegenerate"
	default:
		return "internal"
	}
}
