// google.go - Google Fonts download through the CSS2 API.
package fonts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/xob0t/GoCaption/pkg/overlay"
)

const googleCSSURL = "https://fonts.googleapis.com/css2"

// A desktop browser agent makes the CSS API answer with TrueType sources.
const browserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const maxFontBytes = 20 << 20

var cssSrcURL = regexp.MustCompile(`src:\s*url\(([^)]+)\)`)

// CSSQuery builds the css2 "family" parameter for spec, e.g.
// "Open Sans:ital,wght@1,700".
func CSSQuery(spec overlay.FontSpec) string {
	weight := spec.Weight
	if weight == 0 {
		weight = overlay.DefaultFontWeight
	}
	family := spec.Family
	switch {
	case spec.Style == overlay.StyleItalic:
		return fmt.Sprintf("%s:ital,wght@1,%d", family, weight)
	case weight != overlay.DefaultFontWeight:
		return fmt.Sprintf("%s:wght@%d", family, weight)
	default:
		return family
	}
}

// Prefetch makes spec available locally, downloading it when allowed.
// A miss is logged and reported but never prevents rendering.
func (m *Manager) Prefetch(ctx context.Context, spec overlay.FontSpec) error {
	if _, ok := m.Lookup(spec); ok || spec.Family == "" {
		return nil
	}
	if !m.opts.Remote {
		return fmt.Errorf("%w: %s not installed and downloads are disabled", overlay.ErrFontUnresolved, spec)
	}
	_, err := m.Download(ctx, spec)
	return err
}

// Download fetches spec from Google Fonts into the cache directory and
// returns the file path. Cached files are reused.
func (m *Manager) Download(ctx context.Context, spec overlay.FontSpec) (string, error) {
	target := m.cachePath(spec)
	if target == "" {
		return "", fmt.Errorf("%w: no fonts directory configured", overlay.ErrFontUnresolved)
	}
	if fileExists(target) {
		return target, nil
	}

	log := m.log.With(zap.String("font", spec.String()))
	log.Info("downloading font")

	css, err := m.get(ctx, m.opts.CSSBaseURL+"?family="+url.QueryEscape(CSSQuery(spec))+"&display=swap", 1<<20)
	if err != nil {
		return "", fmt.Errorf("%w: fetch css for %s: %v", overlay.ErrFontUnresolved, spec, err)
	}
	match := cssSrcURL.FindSubmatch(css)
	if match == nil {
		return "", fmt.Errorf("%w: no font url in css for %s", overlay.ErrFontUnresolved, spec)
	}
	fontURL := strings.Trim(string(match[1]), `"'`)

	data, err := m.get(ctx, fontURL, maxFontBytes)
	if err != nil {
		return "", fmt.Errorf("%w: download %s: %v", overlay.ErrFontUnresolved, fontURL, err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	tmp := target + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write font: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("install font: %w", err)
	}
	log.Info("font downloaded", zap.String("path", target), zap.Int("bytes", len(data)))

	if _, err := m.RefreshMapping(); err != nil {
		log.Warn("refresh font mapping", zap.Error(err))
	}
	return target, nil
}

func (m *Manager) get(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserAgent)

	resp, err := m.opts.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response larger than %d bytes", limit)
	}
	return data, nil
}
