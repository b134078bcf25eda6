// request.go - Loosely typed wire request and its normalization.
package overlay

import (
	"fmt"
	"image"
	"strings"
)

// Position is an explicit text anchor in image pixels.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// RawRequest is the request as received over the wire or read from a preset.
// Zero values mean "unset"; pointer fields distinguish an explicit zero.
type RawRequest struct {
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	FontFamily string `json:"font_family,omitempty" yaml:"font_family,omitempty"` // "family[:weight][italic]"
	FontWeight int    `json:"font_weight,omitempty" yaml:"font_weight,omitempty"`
	FontStyle  string `json:"font_style,omitempty" yaml:"font_style,omitempty"`
	FontSize   int    `json:"font_size,omitempty" yaml:"font_size,omitempty"`

	TextColor       string   `json:"text_color,omitempty" yaml:"text_color,omitempty"`
	TextOpacity     *float64 `json:"text_opacity,omitempty" yaml:"text_opacity,omitempty"`
	BackgroundColor string   `json:"background_color,omitempty" yaml:"background_color,omitempty"`
	BgOpacity       *float64 `json:"bg_opacity,omitempty" yaml:"bg_opacity,omitempty"`

	GradientStartColor string `json:"gradient_start_color,omitempty" yaml:"gradient_start_color,omitempty"`
	GradientEndColor   string `json:"gradient_end_color,omitempty" yaml:"gradient_end_color,omitempty"`
	GradientDirection  string `json:"gradient_direction,omitempty" yaml:"gradient_direction,omitempty"`
	BgCurve            int    `json:"bg_curve,omitempty" yaml:"bg_curve,omitempty"`
	BgGloss            *bool  `json:"bg_gloss,omitempty" yaml:"bg_gloss,omitempty"`
	BgShade            *bool  `json:"bg_shade,omitempty" yaml:"bg_shade,omitempty"`

	TextPosition          *Position   `json:"text_position,omitempty" yaml:"text_position,omitempty"`
	Alignment             string      `json:"alignment,omitempty" yaml:"alignment,omitempty"`
	Padding               PaddingSpec `json:"padding,omitzero" yaml:"padding,omitempty"`
	ContainerMargin       *int        `json:"container_margin,omitempty" yaml:"container_margin,omitempty"`
	ContainerWidthPercent *float64    `json:"container_width_percent,omitempty" yaml:"container_width_percent,omitempty"`

	Width        int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height       int    `json:"height,omitempty" yaml:"height,omitempty"`
	Preset       string `json:"preset,omitempty" yaml:"preset,omitempty"` // named output dimensions
	Style        string `json:"style,omitempty" yaml:"style,omitempty"`   // named style preset
	OutputFormat string `json:"output_format,omitempty" yaml:"output_format,omitempty"`
}

// Defaults fill whatever a RawRequest leaves unset.
type Defaults struct {
	FontFamily      string
	RTLFontFamily   string
	FontSize        int
	TextColor       string
	BackgroundColor string
	Alignment       string
	Padding         int
	Margin          int
	WidthPercent    float64
}

// DefaultDefaults mirrors the service defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		FontFamily:      "Roboto",
		RTLFontFamily:   "Noto Sans Arabic",
		FontSize:        36,
		TextColor:       "#FFFFFF",
		BackgroundColor: "#000000",
		Alignment:       DefaultAlignment.String(),
		Padding:         20,
		WidthPercent:    90,
	}
}

// Normalize resolves r against d into a typed Request. Color errors wrap
// ErrInvalidColor. Non-fatal oddities are returned as warnings.
func (r RawRequest) Normalize(d Defaults) (*Request, []string, error) {
	var warnings []string
	rtl := IsRTL(r.Language, r.Text)

	req := &Request{
		Text:     r.Text,
		Language: r.Language,
	}

	// Font.
	family := r.FontFamily
	if family == "" {
		family = d.FontFamily
		if rtl && d.RTLFontFamily != "" {
			family = d.RTLFontFamily
		}
	}
	size := r.FontSize
	if size <= 0 {
		size = d.FontSize
	}
	req.Font = ParseFontFamily(family, size)
	if r.FontWeight > 0 {
		req.Font.Weight = r.FontWeight
	}
	if r.FontStyle != "" {
		req.Font.Style = ParseFontStyle(r.FontStyle)
	}

	// Colors.
	var err error
	req.TextColor, err = ParseColor(orDefault(r.TextColor, d.TextColor), opacity(r.TextOpacity))
	if err != nil {
		return nil, warnings, fmt.Errorf("text_color: %w", err)
	}
	bgOpacity := opacity(r.BgOpacity)
	req.Background.Fill, err = ParseColor(orDefault(r.BackgroundColor, d.BackgroundColor), bgOpacity)
	if err != nil {
		return nil, warnings, fmt.Errorf("background_color: %w", err)
	}

	switch {
	case r.GradientStartColor != "" && r.GradientEndColor != "":
		g := &Gradient{Direction: parseDirection(r.GradientDirection)}
		if g.Start, err = ParseColor(r.GradientStartColor, bgOpacity); err != nil {
			return nil, warnings, fmt.Errorf("gradient_start_color: %w", err)
		}
		if g.End, err = ParseColor(r.GradientEndColor, bgOpacity); err != nil {
			return nil, warnings, fmt.Errorf("gradient_end_color: %w", err)
		}
		req.Background.Gradient = g
	case r.GradientStartColor != "" || r.GradientEndColor != "":
		only := orDefault(r.GradientStartColor, r.GradientEndColor)
		if req.Background.Fill, err = ParseColor(only, bgOpacity); err != nil {
			return nil, warnings, fmt.Errorf("gradient color: %w", err)
		}
		warnings = append(warnings, "gradient needs two colors; using a solid fill")
	}
	req.Background.Radius = max(r.BgCurve, 0)
	req.Background.Gloss = r.BgGloss != nil && *r.BgGloss
	req.Background.Shade = r.BgShade != nil && *r.BgShade

	// Placement.
	if r.TextPosition != nil {
		req.Anchor = &image.Point{X: int(r.TextPosition.X), Y: int(r.TextPosition.Y)}
	}

	alignToken := orDefault(r.Alignment, d.Alignment)
	var ok bool
	if req.Alignment, ok = ParseAlignment(alignToken); !ok {
		warnings = append(warnings, fmt.Sprintf("alignment %q not recognized; using %s", alignToken, DefaultAlignment))
	}

	if r.Padding.IsSet() {
		req.Padding = r.Padding.Normalize()
	} else {
		req.Padding = Uniform(float64(d.Padding)).Normalize()
	}

	req.Margin = d.Margin
	if r.ContainerMargin != nil {
		req.Margin = *r.ContainerMargin
	}
	if req.Margin < 0 {
		warnings = append(warnings, "container_margin below 0; using 0")
		req.Margin = 0
	}

	req.WidthPercent = d.WidthPercent
	if r.ContainerWidthPercent != nil {
		req.WidthPercent = *r.ContainerWidthPercent
	}
	switch {
	case req.WidthPercent < 0:
		warnings = append(warnings, "container_width_percent below 0; sizing to the text")
		req.WidthPercent = 0
	case req.WidthPercent > 100:
		warnings = append(warnings, "container_width_percent above 100; using 100")
		req.WidthPercent = 100
	}

	return req, warnings, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func opacity(p *float64) float64 {
	if p == nil {
		return 1
	}
	return *p
}

func parseDirection(s string) GradientDirection {
	switch d := GradientDirection(strings.ToLower(strings.TrimSpace(s))); d {
	case GradientHorizontal, GradientDiagonal:
		return d
	default:
		return GradientVertical
	}
}
