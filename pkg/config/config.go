// Package config loads service settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xob0t/GoCaption/pkg/logger"
	"github.com/xob0t/GoCaption/pkg/overlay"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "gocaption.yaml"

// Config is the full service configuration.
type Config struct {
	Server  Server  `yaml:"server"`
	Paths   Paths   `yaml:"paths"`
	Image   Image   `yaml:"image"`
	Cleanup Cleanup `yaml:"cleanup"`
	Fonts   Fonts   `yaml:"fonts"`
	Layout  Layout  `yaml:"layout"`
	Log     Log     `yaml:"log"`
}

type Server struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Debug bool   `yaml:"debug"`
}

type Paths struct {
	Output      string `yaml:"output"`
	Images      string `yaml:"images"`
	Fonts       string `yaml:"fonts"`
	GoogleFonts string `yaml:"google_fonts"`
	Presets     string `yaml:"presets"`
}

type Image struct {
	DefaultWidth  int           `yaml:"default_width"`
	DefaultHeight int           `yaml:"default_height"`
	MaxBytes      int64         `yaml:"max_bytes"`
	AllowedTypes  []string      `yaml:"allowed_types"`
	Format        string        `yaml:"format"`
	JPEGQuality   int           `yaml:"jpeg_quality"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
}

type Cleanup struct {
	MaxAge   time.Duration `yaml:"max_age"`
	Interval time.Duration `yaml:"interval"`
}

type Fonts struct {
	DefaultFamily   string        `yaml:"default_family"`
	DefaultSize     int           `yaml:"default_size"`
	RTLFamily       string        `yaml:"rtl_family"`
	Remote          bool          `yaml:"remote"`
	DownloadTimeout time.Duration `yaml:"download_timeout"`
}

type Layout struct {
	ShrinkThreshold float64 `yaml:"shrink_threshold"`
	ShrinkSafety    float64 `yaml:"shrink_safety"`
	MinFontSize     int     `yaml:"min_font_size"`
	MinShrinkRatio  float64 `yaml:"min_shrink_ratio"`
	LineSpacing     float64 `yaml:"line_spacing"`
	WidthPercent    float64 `yaml:"width_percent"`
	Padding         int     `yaml:"padding"`
	Margin          int     `yaml:"margin"`
	Alignment       string  `yaml:"alignment"`
	TextColor       string  `yaml:"text_color"`
	BackgroundColor string  `yaml:"background_color"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	lo := overlay.DefaultOptions()
	rd := overlay.DefaultDefaults()
	return &Config{
		Server: Server{Host: "0.0.0.0", Port: 5001},
		Paths: Paths{
			Output:      "output",
			Images:      "images",
			Fonts:       "fonts",
			GoogleFonts: "fonts/google_fonts",
			Presets:     "presets",
		},
		Image: Image{
			DefaultWidth:  1200,
			DefaultHeight: 630,
			MaxBytes:      10 << 20,
			AllowedTypes:  []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp"},
			Format:        "png",
			JPEGQuality:   90,
			FetchTimeout:  20 * time.Second,
		},
		Cleanup: Cleanup{MaxAge: 20 * time.Minute, Interval: 5 * time.Minute},
		Fonts: Fonts{
			DefaultFamily:   rd.FontFamily,
			DefaultSize:     rd.FontSize,
			RTLFamily:       rd.RTLFontFamily,
			Remote:          true,
			DownloadTimeout: 15 * time.Second,
		},
		Layout: Layout{
			ShrinkThreshold: lo.ShrinkThreshold,
			ShrinkSafety:    lo.ShrinkSafety,
			MinFontSize:     lo.MinFontSize,
			MinShrinkRatio:  lo.MinShrinkRatio,
			LineSpacing:     1.2,
			WidthPercent:    rd.WidthPercent,
			Padding:         rd.Padding,
			Margin:          rd.Margin,
			Alignment:       rd.Alignment,
			TextColor:       rd.TextColor,
			BackgroundColor: rd.BackgroundColor,
		},
		Log: Log{Level: "info", Format: "console"},
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path tries DefaultFile and silently skips it when absent.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment. GOCAPTION_* names win
// over the bare HOST, PORT and DEBUG names.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(names ...string) (string, bool) {
		for _, n := range names {
			if v, ok := lookup(n); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}

	if v, ok := get("GOCAPTION_HOST", "HOST"); ok {
		c.Server.Host = v
	}
	if v, ok := get("GOCAPTION_PORT", "PORT"); ok {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", v, err)
		}
		c.Server.Port = p
	}
	if v, ok := get("GOCAPTION_DEBUG", "DEBUG"); ok {
		c.Server.Debug = strings.EqualFold(v, "true") || v == "1"
	}
	if v, ok := get("GOCAPTION_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("GOCAPTION_LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := get("GOCAPTION_FONTS_DIR"); ok {
		c.Paths.Fonts = v
	}
	if v, ok := get("GOCAPTION_OUTPUT_DIR"); ok {
		c.Paths.Output = v
	}
	return nil
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Image.DefaultWidth <= 0 || c.Image.DefaultHeight <= 0 {
		errs = append(errs, fmt.Errorf("image default size %dx%d must be positive", c.Image.DefaultWidth, c.Image.DefaultHeight))
	}
	if c.Image.MaxBytes <= 0 {
		errs = append(errs, errors.New("image.max_bytes must be positive"))
	}
	switch strings.ToLower(c.Image.Format) {
	case "png", "jpg", "jpeg":
	default:
		errs = append(errs, fmt.Errorf("image.format %q not supported", c.Image.Format))
	}
	if c.Image.JPEGQuality < 1 || c.Image.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("image.jpeg_quality %d out of range", c.Image.JPEGQuality))
	}
	if c.Cleanup.Interval < 0 || c.Cleanup.MaxAge < 0 {
		errs = append(errs, errors.New("cleanup durations must not be negative"))
	}
	if c.Fonts.DefaultSize <= 0 {
		errs = append(errs, fmt.Errorf("fonts.default_size %d must be positive", c.Fonts.DefaultSize))
	}
	l := c.Layout
	if l.ShrinkThreshold <= 0 || l.ShrinkThreshold > 1 {
		errs = append(errs, fmt.Errorf("layout.shrink_threshold %v must be in (0,1]", l.ShrinkThreshold))
	}
	if l.ShrinkSafety <= 0 || l.ShrinkSafety > 1 {
		errs = append(errs, fmt.Errorf("layout.shrink_safety %v must be in (0,1]", l.ShrinkSafety))
	}
	if l.MinFontSize <= 0 {
		errs = append(errs, fmt.Errorf("layout.min_font_size %d must be positive", l.MinFontSize))
	}
	if l.MinShrinkRatio < 0 || l.MinShrinkRatio > 1 {
		errs = append(errs, fmt.Errorf("layout.min_shrink_ratio %v must be in [0,1]", l.MinShrinkRatio))
	}
	if l.LineSpacing < 1 {
		errs = append(errs, fmt.Errorf("layout.line_spacing %v must be at least 1", l.LineSpacing))
	}
	if l.WidthPercent < 0 || l.WidthPercent > 100 {
		errs = append(errs, fmt.Errorf("layout.width_percent %v must be in [0,100]", l.WidthPercent))
	}
	if l.Padding < 0 || l.Margin < 0 {
		errs = append(errs, errors.New("layout padding and margin must not be negative"))
	}
	if _, ok := overlay.ParseAlignment(l.Alignment); !ok {
		errs = append(errs, fmt.Errorf("layout.alignment %q is not a valid token", l.Alignment))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// LayoutOptions maps the layout section onto engine options.
func (c *Config) LayoutOptions() overlay.Options {
	return overlay.Options{
		ShrinkThreshold: c.Layout.ShrinkThreshold,
		ShrinkSafety:    c.Layout.ShrinkSafety,
		MinFontSize:     c.Layout.MinFontSize,
		MinShrinkRatio:  c.Layout.MinShrinkRatio,
	}
}

// RequestDefaults are applied to fields a request leaves unset.
func (c *Config) RequestDefaults() overlay.Defaults {
	return overlay.Defaults{
		FontFamily:      c.Fonts.DefaultFamily,
		RTLFontFamily:   c.Fonts.RTLFamily,
		FontSize:        c.Fonts.DefaultSize,
		TextColor:       c.Layout.TextColor,
		BackgroundColor: c.Layout.BackgroundColor,
		Alignment:       c.Layout.Alignment,
		Padding:         c.Layout.Padding,
		Margin:          c.Layout.Margin,
		WidthPercent:    c.Layout.WidthPercent,
	}
}

// LoggerOptions configures pkg/logger. Debug mode forces the debug level.
func (c *Config) LoggerOptions() logger.Options {
	lvl := c.Log.Level
	if c.Server.Debug {
		lvl = "debug"
	}
	return logger.Options{Level: lvl, Format: c.Log.Format}
}

// Marshal renders the configuration as YAML, e.g. for `gocaption init`.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
