// loader.go - Load style presets from files, directories and .gcpreset bundles.
package preset

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// BundleExt is the extension of zipped style bundles.
const BundleExt = ".gcpreset"

// maxBundleEntry caps the size of a single extracted bundle entry.
const maxBundleEntry = 32 << 20

// FontInstaller receives font files shipped in a bundle. *fonts.Manager
// implements it.
type FontInstaller interface {
	Install(name string, data []byte) (string, error)
}

// ParseStyle decodes a style from YAML or JSON, chosen by ext.
func ParseStyle(data []byte, ext string) (*Style, error) {
	var s Style
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse style JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse style YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported style file type %q", ext)
	}
	return &s, nil
}

// LoadFile reads one .yaml, .yml or .json style. An unnamed style takes the
// file name.
func LoadFile(path string) (*Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style: %w", err)
	}
	ext := filepath.Ext(path)
	s, err := ParseStyle(data, ext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Meta.Name == "" {
		s.Meta.Name = strings.TrimSuffix(filepath.Base(path), ext)
	}
	return s, nil
}

// LoadBundle opens a .gcpreset ZIP, extracts it to a temp directory, installs
// every fonts/*.ttf|otf through fonts (when non-nil) and parses preset.yaml
// or preset.json. The temp directory is removed before returning.
func LoadBundle(path string, fonts FontInstaller) (*Style, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	tmpDir, err := os.MkdirTemp("", "gcpreset-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := extractZip(&r.Reader, tmpDir); err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}

	var s *Style
	for _, name := range []string{"preset.yaml", "preset.yml", "preset.json"} {
		p := filepath.Join(tmpDir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if s, err = LoadFile(p); err != nil {
			return nil, err
		}
		break
	}
	if s == nil {
		return nil, fmt.Errorf("%s: bundle has no preset.yaml or preset.json", path)
	}
	if s.Meta.Name == "preset" {
		s.Meta.Name = strings.TrimSuffix(filepath.Base(path), BundleExt)
	}

	entries, err := os.ReadDir(filepath.Join(tmpDir, "fonts"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read bundle fonts: %w", err)
	}
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		if fonts == nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tmpDir, "fonts", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read bundle font: %w", err)
		}
		if _, err := fonts.Install(e.Name(), data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		s.Fonts = append(s.Fonts, e.Name())
	}
	return s, nil
}

// LoadDir adds every style file and bundle in dir to c. Files that fail to
// load are skipped and reported as warnings. A missing dir is not an error.
func (c *Catalog) LoadDir(dir string, fonts FontInstaller) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read presets dir: %w", err)
	}

	var warnings []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		var s *Style
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			s, err = LoadFile(path)
		case BundleExt:
			s, err = LoadBundle(path, fonts)
		default:
			continue
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping %s: %v", e.Name(), err))
			continue
		}
		c.Add(s)
	}
	return warnings, nil
}

// extractZip extracts all files from a zip reader into destDir.
func extractZip(r *zip.Reader, destDir string) error {
	for _, f := range r.File {
		target := filepath.Join(destDir, f.Name)

		// Guard against zip slip.
		if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal path in zip: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

// extractFile writes a single zip entry to disk.
func extractFile(f *zip.File, target string) error {
	if f.UncompressedSize64 > maxBundleEntry {
		return fmt.Errorf("%s: entry larger than %d bytes", f.Name, maxBundleEntry)
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, io.LimitReader(rc, maxBundleEntry))
	return err
}
