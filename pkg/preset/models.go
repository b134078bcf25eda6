// Package preset provides output dimension presets and named style presets
// that fill unset request fields.
package preset

import (
	"sort"
	"strings"

	"github.com/xob0t/GoCaption/pkg/overlay"
)

// ── Dimension presets ──

// Dimensions maps preset names to [width, height].
var Dimensions = map[string][2]int{
	"instagram-stories": {1080, 1920},
	"instagram-feed":    {1080, 1350},
	"instagram-grid":    {1080, 1080},
	"open-graph":        {1200, 630},
	"720p":              {1280, 720},
	"1080p":             {1920, 1080},
	"4k":                {3840, 2160},
	"youtube_thumb":     {1280, 720},
}

// DimensionNames returns the dimension preset names, sorted.
func DimensionNames() []string {
	names := make([]string, 0, len(Dimensions))
	for n := range Dimensions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ── Style presets ──

// Style is a named set of request defaults, read from a .yaml/.json file,
// a .gcpreset bundle or the built-in list.
type Style struct {
	Meta    Meta               `yaml:"meta" json:"meta"`
	Request overlay.RawRequest `yaml:"request" json:"request"`

	// Fonts lists the font files a bundle installed.
	Fonts []string `yaml:"-" json:"fonts,omitempty"`
}

// Meta holds style metadata.
type Meta struct {
	Name        string `yaml:"name" json:"name"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`
	Author      string `yaml:"author,omitempty" json:"author,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Category    string `yaml:"category,omitempty" json:"category,omitempty"`
}

// Key is the lookup key for a style name: lower case, spaces as dashes.
func Key(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
