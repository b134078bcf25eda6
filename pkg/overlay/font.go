// font.go - Font family strings with "family:weight[italic]" suffixes.
package overlay

import (
	"strconv"
	"strings"
)

// ParseFontFamily splits "Roboto:700", "Open Sans:italic" or
// "Merriweather:700italic" into a FontSpec at size. Unknown suffixes are
// ignored and leave the defaults (weight 400, normal).
func ParseFontFamily(s string, size int) FontSpec {
	f := FontSpec{Weight: DefaultFontWeight, Style: StyleNormal, Size: size}

	family, suffix, ok := strings.Cut(strings.TrimSpace(s), ":")
	f.Family = strings.TrimSpace(family)
	if !ok {
		return f
	}

	suffix = strings.ToLower(strings.TrimSpace(suffix))
	if rest, found := strings.CutSuffix(suffix, "italic"); found {
		f.Style = StyleItalic
		suffix = rest
	} else if rest, found := strings.CutSuffix(suffix, "i"); found && rest != "" {
		f.Style = StyleItalic
		suffix = rest
	}
	if w, err := strconv.Atoi(suffix); err == nil && w >= 100 && w <= 900 {
		f.Weight = w
	}
	return f
}

// ParseFontStyle maps "italic"/"oblique" to StyleItalic and anything else
// to StyleNormal.
func ParseFontStyle(s string) FontStyle {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "italic", "oblique":
		return StyleItalic
	default:
		return StyleNormal
	}
}

// String formats the font back to the suffix syntax, without the size.
func (f FontSpec) String() string {
	var sb strings.Builder
	sb.WriteString(f.Family)
	if f.Weight != DefaultFontWeight || f.Style == StyleItalic {
		sb.WriteByte(':')
		if f.Weight != DefaultFontWeight {
			sb.WriteString(strconv.Itoa(f.Weight))
		}
		if f.Style == StyleItalic {
			sb.WriteString("italic")
		}
	}
	return sb.String()
}
