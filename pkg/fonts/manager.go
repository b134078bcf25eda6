// Package fonts resolves font specs to faces with a local-first fallback chain.
//
// Lookup order: mapping file, <dir>/<Family>.ttf, the Google Fonts cache,
// remote download (only via Prefetch/Download), then an embedded Go font
// matching the requested weight and style. Resolution never fails the
// caller; misses are logged and served from the embedded fonts.
package fonts

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/xob0t/GoCaption/pkg/logger"
	"github.com/xob0t/GoCaption/pkg/overlay"
)

// Options configures a Manager.
type Options struct {
	Dir         string // local fonts directory
	GoogleDir   string // download cache, defaults to <Dir>/google_fonts
	MappingFile string // defaults to <Dir>/google_fonts_mapping.json
	Remote      bool   // allow Google Fonts downloads
	Timeout     time.Duration
	Client      *http.Client
	CSSBaseURL  string // defaults to the public CSS2 endpoint
	Logger      *zap.Logger
}

// Manager resolves font specs and caches parsed fonts. It is safe for
// concurrent use; the faces it returns are not.
type Manager struct {
	opts Options
	log  *zap.Logger

	mu      sync.Mutex
	mapping map[string]string // family -> path relative to Dir
	parsed  map[string]*opentype.Font
}

// NewManager creates a manager. Directories are created lazily on download.
func NewManager(opts Options) *Manager {
	if opts.GoogleDir == "" && opts.Dir != "" {
		opts.GoogleDir = filepath.Join(opts.Dir, "google_fonts")
	}
	if opts.MappingFile == "" && opts.Dir != "" {
		opts.MappingFile = filepath.Join(opts.Dir, "google_fonts_mapping.json")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.CSSBaseURL == "" {
		opts.CSSBaseURL = googleCSSURL
	}
	log := opts.Logger
	if log == nil {
		log = logger.L()
	}

	return &Manager{
		opts:   opts,
		log:    log.Named("fonts"),
		parsed: make(map[string]*opentype.Font),
	}
}

// Embedded returns a manager that only serves the embedded Go fonts.
func Embedded() *Manager { return NewManager(Options{}) }

// Lookup returns the local file serving spec, without touching the network.
func (m *Manager) Lookup(spec overlay.FontSpec) (string, bool) {
	if m.opts.Dir == "" || spec.Family == "" {
		return "", false
	}

	m.mu.Lock()
	mapping := m.mappingLocked()
	m.mu.Unlock()

	if rel, ok := mapping[spec.Family]; ok {
		if p := filepath.Join(m.opts.Dir, rel); fileExists(p) {
			return p, true
		}
	}
	for _, name := range []string{spec.Family + ".ttf", spec.Family + ".otf"} {
		if p := filepath.Join(m.opts.Dir, name); fileExists(p) {
			return p, true
		}
	}
	if p := m.cachePath(spec); p != "" && fileExists(p) {
		return p, true
	}
	return "", false
}

// Resolve parses the local font for spec. Misses wrap overlay.ErrFontUnresolved.
func (m *Manager) Resolve(spec overlay.FontSpec) (*opentype.Font, error) {
	path, ok := m.Lookup(spec)
	if !ok {
		return nil, fmt.Errorf("%w: %s", overlay.ErrFontUnresolved, spec)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.parsed[path]; ok {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", overlay.ErrFontUnresolved, path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", overlay.ErrFontUnresolved, path, err)
	}
	m.parsed[path] = f
	return f, nil
}

// Face returns a new face for spec. Unresolved families fall back to the
// embedded font closest to the requested weight and style. Parsed fonts are
// cached and shared; faces are not safe for concurrent use, so every call
// gets its own and the caller closes it.
func (m *Manager) Face(spec overlay.FontSpec) (font.Face, error) {
	f, err := m.Resolve(spec)
	if err != nil {
		if spec.Family != "" && m.opts.Dir != "" {
			m.log.Warn("font not found locally, using embedded fallback",
				zap.String("font", spec.String()), zap.Error(err))
		}
		if f, err = embeddedFont(spec); err != nil {
			return nil, err
		}
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(max(spec.Size, 1)),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %s: %w", spec, err)
	}
	return face, nil
}

// Available lists the families known to the mapping file and fonts
// directory, sorted.
func (m *Manager) Available() []string {
	m.mu.Lock()
	mapping := m.mappingLocked()
	m.mu.Unlock()

	names := make([]string, 0, len(mapping))
	for name := range mapping {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close drops the parsed font cache. Faces already handed out stay usable.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.parsed)
	return nil
}

// cachePath is the Google Fonts cache file for spec.
func (m *Manager) cachePath(spec overlay.FontSpec) string {
	if m.opts.GoogleDir == "" {
		return ""
	}
	style := spec.Style
	if style == "" {
		style = overlay.StyleNormal
	}
	weight := spec.Weight
	if weight == 0 {
		weight = overlay.DefaultFontWeight
	}
	safe := strings.ToLower(strings.ReplaceAll(spec.Family, " ", ""))
	return filepath.Join(m.opts.GoogleDir, fmt.Sprintf("%s_%d_%s.ttf", safe, weight, style))
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// Install writes a font file into the fonts directory and refreshes the
// mapping. name is reduced to its base name.
func (m *Manager) Install(name string, data []byte) (string, error) {
	if m.opts.Dir == "" {
		return "", fmt.Errorf("install %s: no fonts directory configured", name)
	}
	name = filepath.Base(name)
	if ext := strings.ToLower(filepath.Ext(name)); ext != ".ttf" && ext != ".otf" {
		return "", fmt.Errorf("install %s: not a .ttf or .otf file", name)
	}
	if _, err := opentype.Parse(data); err != nil {
		return "", fmt.Errorf("install %s: %w", name, err)
	}
	if err := os.MkdirAll(m.opts.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create fonts dir: %w", err)
	}
	target := filepath.Join(m.opts.Dir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("install %s: %w", name, err)
	}
	if _, err := m.RefreshMapping(); err != nil {
		return target, err
	}
	return target, nil
}
