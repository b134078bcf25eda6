// merge.go - Merge style preset defaults under request fields.
package preset

import "github.com/xob0t/GoCaption/pkg/overlay"

// Merge fills every field req leaves unset from style. Request values always
// win; style is never modified. A nil style returns req unchanged.
func Merge(style *Style, req overlay.RawRequest) overlay.RawRequest {
	if style == nil {
		return req
	}
	base := style.Request
	out := req

	str := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	num := func(dst *int, v int) {
		if *dst == 0 {
			*dst = v
		}
	}

	str(&out.ImageURL, base.ImageURL)
	str(&out.Text, base.Text)
	str(&out.Language, base.Language)
	str(&out.FontFamily, base.FontFamily)
	num(&out.FontWeight, base.FontWeight)
	str(&out.FontStyle, base.FontStyle)
	num(&out.FontSize, base.FontSize)
	str(&out.TextColor, base.TextColor)
	str(&out.BackgroundColor, base.BackgroundColor)
	str(&out.GradientStartColor, base.GradientStartColor)
	str(&out.GradientEndColor, base.GradientEndColor)
	str(&out.GradientDirection, base.GradientDirection)
	num(&out.BgCurve, base.BgCurve)
	str(&out.Alignment, base.Alignment)
	num(&out.Width, base.Width)
	num(&out.Height, base.Height)
	str(&out.Preset, base.Preset)
	str(&out.OutputFormat, base.OutputFormat)

	if out.TextOpacity == nil {
		out.TextOpacity = base.TextOpacity
	}
	if out.BgOpacity == nil {
		out.BgOpacity = base.BgOpacity
	}
	if out.BgGloss == nil {
		out.BgGloss = base.BgGloss
	}
	if out.BgShade == nil {
		out.BgShade = base.BgShade
	}
	if out.TextPosition == nil {
		out.TextPosition = base.TextPosition
	}
	if out.ContainerMargin == nil {
		out.ContainerMargin = base.ContainerMargin
	}
	if out.ContainerWidthPercent == nil {
		out.ContainerWidthPercent = base.ContainerWidthPercent
	}
	if !out.Padding.IsSet() {
		out.Padding = base.Padding
	}
	return out
}
