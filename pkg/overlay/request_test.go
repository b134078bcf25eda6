package overlay

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNormalize_Defaults(t *testing.T) {
	t.Parallel()

	req, warnings, err := RawRequest{Text: "hi"}.Normalize(DefaultDefaults())
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if req.Font != (FontSpec{"Roboto", 400, StyleNormal, 36}) {
		t.Errorf("font = %+v", req.Font)
	}
	if req.TextColor != (color.NRGBA{255, 255, 255, 255}) || req.Background.Fill != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("colors = %v / %v", req.TextColor, req.Background.Fill)
	}
	if req.Alignment != DefaultAlignment || req.Padding != pad(20) || req.WidthPercent != 90 || req.Anchor != nil {
		t.Errorf("placement = %+v", req)
	}
}

func TestNormalize_FromJSON(t *testing.T) {
	t.Parallel()

	body := `{
		"text": "Hello",
		"font_family": "Merriweather:700italic",
		"font_size": 48,
		"text_color": "#f00",
		"text_opacity": 0.5,
		"background_color": "#000000",
		"bg_opacity": 0,
		"gradient_start_color": "#000000",
		"gradient_end_color": "#ffffff",
		"gradient_direction": "diagonal",
		"bg_curve": 16,
		"bg_gloss": true,
		"text_position": {"x": 30.7, "y": 40},
		"alignment": "top-right",
		"padding": {"top": 40, "bottom": 20, "left": 30, "right": 30},
		"container_margin": 0,
		"container_width_percent": 0
	}`
	var raw RawRequest
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatal(err)
	}
	req, _, err := raw.Normalize(DefaultDefaults())
	if err != nil {
		t.Fatal(err)
	}

	if req.Font != (FontSpec{"Merriweather", 700, StyleItalic, 48}) {
		t.Errorf("font = %+v", req.Font)
	}
	if req.TextColor != (color.NRGBA{255, 0, 0, 127}) {
		t.Errorf("text color = %v", req.TextColor)
	}
	g := req.Background.Gradient
	if g == nil || g.Direction != GradientDiagonal || g.Start.A != 0 || g.End != (color.NRGBA{255, 255, 255, 0}) {
		t.Errorf("gradient = %+v", g)
	}
	if req.Background.Radius != 16 || !req.Background.Gloss || req.Background.Shade {
		t.Errorf("background = %+v", req.Background)
	}
	if req.Anchor == nil || *req.Anchor != image.Pt(30, 40) {
		t.Errorf("anchor = %v", req.Anchor)
	}
	if req.Alignment != (Alignment{Top, Right}) {
		t.Errorf("alignment = %v", req.Alignment)
	}
	if req.Padding != (Padding{Top: 40, Right: 30, Bottom: 20, Left: 30}) {
		t.Errorf("padding = %+v", req.Padding)
	}
	if req.Margin != 0 || req.WidthPercent != 0 {
		t.Errorf("margin %d percent %v, want explicit zeros", req.Margin, req.WidthPercent)
	}
}

func TestNormalize_RTLDefaultFamily(t *testing.T) {
	t.Parallel()

	req, _, err := RawRequest{Text: "سلام", Language: "ckb"}.Normalize(DefaultDefaults())
	if err != nil {
		t.Fatal(err)
	}
	if req.Font.Family != "Noto Sans Arabic" {
		t.Errorf("family = %q", req.Font.Family)
	}
}

func TestNormalize_Warnings(t *testing.T) {
	t.Parallel()

	margin := -4
	percent := 140.0
	raw := RawRequest{
		Text:                  "x",
		Alignment:             "sideways",
		GradientStartColor:    "#123456",
		ContainerMargin:       &margin,
		ContainerWidthPercent: &percent,
	}
	req, warnings, err := raw.Normalize(DefaultDefaults())
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 4 {
		t.Errorf("warnings = %q, want 4", warnings)
	}
	if req.Alignment != DefaultAlignment || req.Margin != 0 || req.WidthPercent != 100 {
		t.Errorf("req = %+v", req)
	}
	if req.Background.Gradient != nil || req.Background.Fill != (color.NRGBA{0x12, 0x34, 0x56, 255}) {
		t.Errorf("background = %+v", req.Background)
	}
}

func TestNormalize_BadColor(t *testing.T) {
	t.Parallel()

	for _, raw := range []RawRequest{
		{TextColor: "#zz0000"},
		{BackgroundColor: "blue"},
		{GradientStartColor: "#000", GradientEndColor: "#12"},
	} {
		if _, _, err := raw.Normalize(DefaultDefaults()); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("%+v: err = %v, want ErrInvalidColor", raw, err)
		}
	}
}
