// Package source fetches and decodes the images captions are drawn on.
package source

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/xob0t/GoCaption/pkg/logger"
	"github.com/xob0t/GoCaption/pkg/overlay"
)

// DefaultMaxBytes caps downloaded and local image sizes.
const DefaultMaxBytes = 10 << 20

// DefaultAllowedTypes are the accepted image media types.
var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp"}

// Options configures a Loader.
type Options struct {
	ImagesDir    string // serves http://localhost/images/<file> without a request
	FileRoot     string // when set, file:// URLs must name a file under it
	MaxBytes     int64
	AllowedTypes []string
	Timeout      time.Duration
	Client       *http.Client
	Logger       *zap.Logger
}

// Loader resolves image URLs to decoded images.
type Loader struct {
	opts Options
	log  *zap.Logger
}

// NewLoader fills unset options with defaults.
func NewLoader(opts Options) *Loader {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if len(opts.AllowedTypes) == 0 {
		opts.AllowedTypes = DefaultAllowedTypes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	log := opts.Logger
	if log == nil {
		log = logger.L()
	}
	return &Loader{opts: opts, log: log.Named("source")}
}

// Image is a decoded source image.
type Image struct {
	image.Image
	Format string // decoder name: png, jpeg, gif, webp, bmp
	Bytes  int
}

// Load fetches rawURL and decodes it. Supported forms are http(s) URLs,
// file:// URLs and http://localhost/images/<file>, which is read from the
// images directory. Every failure wraps overlay.ErrImageUnavailable.
func (l *Loader) Load(ctx context.Context, rawURL string) (*Image, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: parse url: %v", overlay.ErrImageUnavailable, err)
	}

	var data []byte
	switch {
	case u.Scheme == "file":
		var path string
		if path, err = l.filePath(u.Path); err == nil {
			data, err = l.readFile(path)
		}
	case u.Scheme == "http" || u.Scheme == "https":
		if name, ok := l.localImage(u); ok {
			data, err = l.readFile(filepath.Join(l.opts.ImagesDir, name))
			break
		}
		data, err = l.fetch(ctx, u.String())
	default:
		err = fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", overlay.ErrImageUnavailable, rawURL, err)
	}

	if ct := http.DetectContentType(data); !l.allowed(ct) {
		return nil, fmt.Errorf("%w: %s: content type %s not allowed", overlay.ErrImageUnavailable, rawURL, ct)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", overlay.ErrImageUnavailable, rawURL, err)
	}
	b := img.Bounds()
	l.log.Debug("image loaded", zap.String("url", rawURL), zap.String("format", format),
		zap.Int("width", b.Dx()), zap.Int("height", b.Dy()), zap.Int("bytes", len(data)))
	return &Image{Image: img, Format: format, Bytes: len(data)}, nil
}

// localImage reports whether u points at this host's /images/ route.
func (l *Loader) localImage(u *url.URL) (string, bool) {
	if l.opts.ImagesDir == "" || !strings.HasPrefix(u.Path, "/images/") {
		return "", false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1":
	default:
		return "", false
	}
	name := strings.TrimPrefix(u.Path, "/images/")
	if name == "" || name != filepath.Base(name) {
		return "", false
	}
	return name, true
}

// filePath confines file:// paths to FileRoot when one is configured.
func (l *Loader) filePath(p string) (string, error) {
	p = filepath.Clean(filepath.FromSlash(p))
	if l.opts.FileRoot == "" {
		return p, nil
	}
	root, err := filepath.Abs(l.opts.FileRoot)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("file %s is outside %s", p, root)
	}
	return filepath.Join(root, rel), nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.readLimited(f)
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", strings.Join(l.opts.AllowedTypes, ", "))

	resp, err := l.opts.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	if resp.ContentLength > l.opts.MaxBytes {
		return nil, fmt.Errorf("image is %d bytes, limit %d", resp.ContentLength, l.opts.MaxBytes)
	}
	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil &&
		strings.HasPrefix(mt, "image/") && !l.allowed(mt) {
		return nil, fmt.Errorf("content type %s not allowed", mt)
	}
	return l.readLimited(resp.Body)
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.opts.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.opts.MaxBytes {
		return nil, fmt.Errorf("image larger than %d bytes", l.opts.MaxBytes)
	}
	return data, nil
}

func (l *Loader) allowed(mediaType string) bool {
	return slices.Contains(l.opts.AllowedTypes, mediaType)
}
