// examples.go - Built-in styles, listing and starter files for `gocaption init`.
package preset

import (
	"fmt"
	"strings"

	"github.com/xob0t/GoCaption/pkg/overlay"
)

func f64(v float64) *float64 { return &v }
func intp(v int) *int { return &v }
func boolp(v bool) *bool { return &v }

// Builtin returns the stock style presets.
func Builtin() []*Style {
	return []*Style{
		{
			Meta: Meta{Name: "Professional Quote", Category: "english",
				Description: "Elegant professional quote with gradient background"},
			Request: overlay.RawRequest{
				FontFamily: "Montserrat:700", FontSize: 48,
				TextColor: "#FFFFFF", BackgroundColor: "#1a1a1a", BgOpacity: f64(0.85),
				GradientStartColor: "#FF416C", GradientEndColor: "#FF4B2B",
				BgCurve: 15, Alignment: "center-center",
			},
		},
		{
			Meta: Meta{Name: "Nature Caption", Category: "english",
				Description: "Nature caption with subtle overlay"},
			Request: overlay.RawRequest{
				FontFamily: "Roboto:300", FontSize: 42,
				TextColor: "#FFFFFF", BackgroundColor: "#000000", BgOpacity: f64(0.65),
				GradientStartColor: "#4776E6", GradientEndColor: "#8E54E9",
				BgCurve: 8, Alignment: "bottom-center",
			},
		},
		{
			Meta: Meta{Name: "Creative Inspiration", Category: "english",
				Description: "Inspiration quote with modern styling"},
			Request: overlay.RawRequest{
				FontFamily: "Open Sans:italic", FontSize: 36,
				TextColor: "#F8F8F8", BackgroundColor: "#181818", BgOpacity: f64(0.75),
				GradientStartColor: "#11998e", GradientEndColor: "#38ef7d",
				BgCurve: 20, Alignment: "top-center",
			},
		},
		{
			Meta: Meta{Name: "Arabic Wisdom", Category: "arabic",
				Description: "Classic Arabic quote with elegant styling"},
			Request: overlay.RawRequest{
				Language: "ar", FontFamily: "Cairo:700", FontSize: 52,
				TextColor: "#FFFFFF", BackgroundColor: "#222222", BgOpacity: f64(0.8),
				GradientStartColor: "#f953c6", GradientEndColor: "#b91d73",
				BgCurve: 12, Alignment: "center-center",
			},
		},
		{
			Meta: Meta{Name: "Kurdish Banner", Category: "kurdish",
				Description: "Large Sorani text on a full-width gradient bar"},
			Request: overlay.RawRequest{
				Language: "ckb", FontFamily: "Noto Sans Arabic:700", FontSize: 64,
				TextColor: "#FFFFFF", BackgroundColor: "#1a1a1a", BgOpacity: f64(0.7),
				GradientStartColor: "#FF9500", GradientEndColor: "#FF4C00",
				GradientDirection: "horizontal", Alignment: "center-center",
				ContainerWidthPercent: f64(100), ContainerMargin: intp(0),
			},
		},
		{
			Meta: Meta{Name: "Glossy Label", Category: "effects",
				Description: "Rounded label with gloss and bottom shade"},
			Request: overlay.RawRequest{
				FontFamily: "Roboto:500", FontSize: 40,
				TextColor: "#FFFFFF", BackgroundColor: "#0f3460", BgOpacity: f64(0.9),
				BgCurve: 24, BgGloss: boolp(true), BgShade: boolp(true),
				Alignment: "bottom-center", Padding: overlay.Uniform(24),
			},
		},
	}
}

// FormatPresets returns a human-readable listing of dimension and style
// presets.
func FormatPresets(c *Catalog) string {
	var sb strings.Builder
	sb.WriteString("Dimension presets:\n")
	for _, n := range DimensionNames() {
		d := Dimensions[n]
		fmt.Fprintf(&sb, "  %-18s %dx%d\n", n, d[0], d[1])
	}

	sb.WriteString("\nStyle presets:\n")
	for _, s := range c.All() {
		fmt.Fprintf(&sb, "  %-22s", Key(s.Meta.Name))
		if s.Meta.Description != "" {
			sb.WriteString(" " + s.Meta.Description)
		}
		if f := s.Request.FontFamily; f != "" {
			fmt.Fprintf(&sb, " [%s]", f)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ExampleFiles returns starter files for `gocaption init`, keyed by file name.
func ExampleFiles() map[string]string {
	return map[string]string{
		"request.json": `{
  "image_url": "https://images.unsplash.com/photo-1470071459604-3b5ec3a7fe05?w=1200",
  "text": "Find peace in the beauty of nature's embrace",
  "language": "en",
  "font_family": "Roboto:500",
  "font_size": 48,
  "text_color": "#FFFFFF",
  "background_color": "#000000",
  "bg_opacity": 0.65,
  "bg_curve": 12,
  "alignment": "bottom-center",
  "padding": {"top": 20, "right": 40, "bottom": 20, "left": 40},
  "container_width_percent": 90,
  "preset": "instagram-feed"
}
`,
		"presets/my-style.yaml": `meta:
  name: My Style
  description: Starter style preset
request:
  font_family: Open Sans:700
  font_size: 44
  text_color: "#FFFFFF"
  background_color: "#222222"
  bg_opacity: 0.8
  gradient_start_color: "#2193b0"
  gradient_end_color: "#6dd5ed"
  gradient_direction: diagonal
  bg_curve: 16
  alignment: bottom-center
  padding: 24
`,
	}
}
