// engine.go - Layout pipeline: shrink, wrap, size, place, align.
package overlay

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xob0t/GoCaption/pkg/logger"
)

// Options tune the layout pipeline.
type Options struct {
	ShrinkThreshold float64 // fraction of image width the unwrapped text may span
	ShrinkSafety    float64 // extra factor applied to the shrink scale
	MinFontSize     int
	MinShrinkRatio  float64 // shrink never goes below size*MinShrinkRatio

	Logger *zap.Logger // nil uses the package logger
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		ShrinkThreshold: 0.8,
		ShrinkSafety:    0.9,
		MinFontSize:     12,
		MinShrinkRatio:  0.5,
	}
}

func (o Options) log() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logger.L()
}

// ComputeLayout runs the whole pipeline for req on an imgW×imgH canvas and
// returns the resolved layout. It performs no drawing.
func ComputeLayout(req *Request, m Measurer, imgW, imgH int, o Options) (*Layout, error) {
	if req == nil {
		return nil, fmt.Errorf("compute layout: nil request")
	}
	if imgW <= 0 || imgH <= 0 {
		return nil, fmt.Errorf("%w: image is %dx%d", ErrGeometryDegenerate, imgW, imgH)
	}
	log := o.log()
	rtl := IsRTL(req.Language, req.Text)

	// Phase 1 measures at the requested size; phase 2 continues with the
	// adjusted spec so every later metric query uses the new size.
	font, shrunk := AdjustFontSize(req.Text, req.Font, imgW, m, o)
	if shrunk {
		log.Debug("font shrunk",
			zap.Int("from", req.Font.Size),
			zap.Int("to", font.Size),
			zap.Int("floor", o.ShrinkFloor(req.Font)))
	}

	geo := NewGeometry(req, imgW, imgH)
	budget := geo.TextBudget()
	measure := func(s string) int {
		w, _ := m.MeasureText(s, font)
		return w
	}
	lines := Wrap(req.Text, measure, budget, rtl)
	textW, textH := m.MultilineMeasure(lines, font)
	log.Debug("text wrapped",
		zap.String("placement", string(geo.Placement())),
		zap.Int("budget", budget),
		zap.Int("lines", len(lines)),
		zap.Int("width", textW),
		zap.Int("height", textH),
		zap.Bool("rtl", rtl))

	box, err := geo.Resolve(textW, textH)
	if err != nil {
		return nil, fmt.Errorf("resolve container: %w", err)
	}
	if raw := geo.place(textW, textH); raw != box {
		log.Debug("container clamped",
			zap.Any("placed", raw),
			zap.Any("clamped", box))
	}

	return &Layout{
		Font:   font,
		Text:   WrappedText{Lines: lines, Width: textW, Height: textH},
		Box:    box,
		Origin: ResolveTextOrigin(box, textW, textH, req.Padding, req.Alignment, rtl),
		Radius: EffectiveRadius(box, imgW, req.Background.Radius, req.Anchor != nil),
		RTL:    rtl,
		Align:  req.Alignment.Effective(rtl),
		Shrunk: shrunk,
	}, nil
}

// Apply computes the layout for req on c and draws the background and text.
// Nothing is drawn when the layout fails.
func Apply(c Canvas, req *Request, o Options) (*Layout, error) {
	w, h := c.Size()
	layout, err := ComputeLayout(req, c, w, h, o)
	if err != nil {
		return nil, err
	}
	if err := PaintBackground(c, layout.Box, req.Background, layout.Radius); err != nil {
		return nil, fmt.Errorf("paint background: %w", err)
	}
	style := TextStyle{
		Font:  layout.Font,
		Color: req.TextColor,
		Align: layout.Align,
		RTL:   layout.RTL,
	}
	if err := c.DrawText(layout.Origin, layout.Text.Lines, style); err != nil {
		return nil, fmt.Errorf("draw text: %w", err)
	}
	return layout, nil
}
