// alignment.go - Alignment tokens and text origin resolution.
package overlay

import (
	"image"
	"strings"
)

// Vertical is the vertical half of an alignment token.
type Vertical string

// Horizontal is the horizontal half of an alignment token.
type Horizontal string

const (
	Top    Vertical = "top"
	Middle Vertical = "center"
	Bottom Vertical = "bottom"

	Left   Horizontal = "left"
	Center Horizontal = "center"
	Right  Horizontal = "right"
)

// Alignment is a parsed "vertical-horizontal" token.
type Alignment struct {
	Vertical   Vertical
	Horizontal Horizontal
}

// DefaultAlignment is used for empty or unparseable tokens, on every path.
var DefaultAlignment = Alignment{Vertical: Bottom, Horizontal: Center}

// ParseAlignment parses tokens such as "bottom-center" or "top-left".
// It reports false and returns DefaultAlignment when the token is not a
// two-part token made of known values.
func ParseAlignment(s string) (Alignment, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return DefaultAlignment, false
	}

	a := Alignment{
		Vertical:   Vertical(strings.ToLower(strings.TrimSpace(parts[0]))),
		Horizontal: Horizontal(strings.ToLower(strings.TrimSpace(parts[1]))),
	}
	switch a.Vertical {
	case Top, Middle, Bottom:
	default:
		return DefaultAlignment, false
	}
	switch a.Horizontal {
	case Left, Center, Right:
	default:
		return DefaultAlignment, false
	}
	return a, true
}

// String formats the alignment back to its token form.
func (a Alignment) String() string { return string(a.Vertical) + "-" + string(a.Horizontal) }

// Effective returns the horizontal alignment as drawn: RTL text swaps
// left and right.
func (a Alignment) Effective(rtl bool) Horizontal {
	if !rtl {
		return a.Horizontal
	}
	switch a.Horizontal {
	case Left:
		return Right
	case Right:
		return Left
	default:
		return a.Horizontal
	}
}

// ResolveTextOrigin returns the top-left point of the text block inside box.
func ResolveTextOrigin(box ContainerBox, textW, textH int, pad Padding, a Alignment, rtl bool) image.Point {
	var p image.Point

	switch a.Effective(rtl) {
	case Left:
		p.X = box.X + pad.Left
	case Right:
		p.X = box.X + box.Width - textW - pad.Right
	default:
		p.X = box.X + (box.Width-textW)/2
	}

	switch a.Vertical {
	case Top:
		p.Y = box.Y + pad.Top
	case Bottom:
		p.Y = box.Y + box.Height - textH - pad.Bottom
	default:
		p.Y = box.Y + (box.Height-textH)/2
	}
	return p
}
