// geometry.go - Container sizing, placement and clamping to image bounds.
package overlay

import (
	"fmt"
	"image"
)

// Placement names the strategy that drives horizontal placement.
type Placement string

const (
	PlaceAnchor  Placement = "anchor"
	PlacePercent Placement = "percent"
	PlaceDefault Placement = "default" // bottom-center, sized to the text
)

// Geometry holds the inputs of container resolution.
type Geometry struct {
	ImageWidth   int
	ImageHeight  int
	Padding      Padding
	Margin       int
	WidthPercent float64
	Anchor       *image.Point
	Alignment    Alignment
}

// NewGeometry collects the geometry inputs of r for a w×h image.
func NewGeometry(r *Request, w, h int) Geometry {
	return Geometry{
		ImageWidth:   w,
		ImageHeight:  h,
		Padding:      r.Padding,
		Margin:       max(r.Margin, 0),
		WidthPercent: r.WidthPercent,
		Anchor:       r.Anchor,
		Alignment:    r.Alignment,
	}
}

// Placement reports which strategy applies. An anchor beats a percentage.
func (g Geometry) Placement() Placement {
	switch {
	case g.Anchor != nil:
		return PlaceAnchor
	case g.WidthPercent > 0:
		return PlacePercent
	default:
		return PlaceDefault
	}
}

// EdgeToEdge reports whether the container spans the full image width with
// no horizontal margin.
func (g Geometry) EdgeToEdge() bool {
	return g.Placement() == PlacePercent && g.WidthPercent >= 100
}

func (g Geometry) horizontalMargin() int {
	if g.EdgeToEdge() {
		return 0
	}
	return g.Margin
}

// placementAlignment is the alignment that positions the box. The default
// placement always sits at bottom-center.
func (g Geometry) placementAlignment() Alignment {
	if g.Placement() == PlaceDefault {
		return DefaultAlignment
	}
	return g.Alignment
}

func (g Geometry) bottomGap() int {
	if g.placementAlignment().Vertical == Bottom {
		return max(g.Margin, MinBottomMargin)
	}
	return g.Margin
}

func (g Geometry) percentWidth() int {
	if g.WidthPercent >= 100 {
		return g.ImageWidth
	}
	return int(float64(g.ImageWidth-2*g.Margin) * (g.WidthPercent / 100))
}

// TextBudget is the widest a wrapped line may be before the container is
// known.
func (g Geometry) TextBudget() int {
	full := g.ImageWidth - 2*g.Margin - g.Padding.Horizontal()

	var budget int
	switch g.Placement() {
	case PlacePercent:
		budget = g.percentWidth() - g.Padding.Horizontal()
	case PlaceAnchor:
		budget = min(g.ImageWidth-g.Anchor.X-g.Padding.Right-g.Margin, full)
		if budget <= 0 {
			budget = full
		}
	default:
		budget = full
	}
	return max(budget, 1)
}

// Resolve sizes and positions the container around a textW×textH block and
// clamps it inside the image. It fails with ErrGeometryDegenerate when
// nothing positive is left after clamping.
func (g Geometry) Resolve(textW, textH int) (ContainerBox, error) {
	return g.clamp(g.place(textW, textH))
}

// place computes the unclamped box.
func (g Geometry) place(textW, textH int) ContainerBox {
	pad := g.Padding
	need := textW + pad.Horizontal()
	box := ContainerBox{Height: textH + pad.Vertical()}

	switch g.Placement() {
	case PlaceAnchor:
		box.X = g.Anchor.X - pad.Left
		box.Y = g.Anchor.Y - pad.Top
		box.Width = need
		if g.Alignment.Vertical == Bottom {
			box.Y = min(box.Y, g.ImageHeight-box.Height-g.bottomGap())
		}
		return box

	case PlacePercent:
		box.Width = g.percentWidth()
		box.X = g.alignX(box.Width)
		if need > box.Width {
			box.Width = need
			if g.Alignment.Horizontal == Center {
				box.X = (g.ImageWidth - box.Width) / 2
			}
		}

	default:
		box.Width = need
		box.X = (g.ImageWidth - box.Width) / 2
	}

	box.Y = g.alignY(box.Height)
	return box
}

func (g Geometry) alignX(width int) int {
	hm := g.horizontalMargin()
	switch g.placementAlignment().Horizontal {
	case Left:
		return hm
	case Right:
		return g.ImageWidth - width - hm
	default:
		return (g.ImageWidth - width) / 2
	}
}

func (g Geometry) alignY(height int) int {
	switch g.placementAlignment().Vertical {
	case Top:
		return g.Margin
	case Bottom:
		return g.ImageHeight - height - g.bottomGap()
	default:
		return (g.ImageHeight - height) / 2
	}
}

// clamp enforces the bounds invariant. It must run after any re-centering.
func (g Geometry) clamp(box ContainerBox) (ContainerBox, error) {
	hm := g.horizontalMargin()
	top, bottom := g.Margin, g.bottomGap()

	box.Width = min(box.Width, g.ImageWidth-2*hm)
	box.Height = min(box.Height, g.ImageHeight-top-bottom)
	if box.Width <= 0 || box.Height <= 0 {
		return box, fmt.Errorf("%w: %dx%d container in %dx%d image (margin %d)",
			ErrGeometryDegenerate, box.Width, box.Height, g.ImageWidth, g.ImageHeight, g.Margin)
	}

	box.X = clampInt(box.X, hm, g.ImageWidth-box.Width-hm)
	box.Y = clampInt(box.Y, top, g.ImageHeight-box.Height-bottom)
	return box, nil
}

func clampInt(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
