// mapping.go - Family name to font file mapping, persisted as JSON.
package fonts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// mappingLocked returns the cached mapping, loading or rebuilding it on
// first use. m.mu must be held.
func (m *Manager) mappingLocked() map[string]string {
	if m.mapping != nil {
		return m.mapping
	}
	if m.opts.Dir == "" {
		m.mapping = map[string]string{}
		return m.mapping
	}

	if data, err := os.ReadFile(m.opts.MappingFile); err == nil {
		var mapping map[string]string
		if err := json.Unmarshal(data, &mapping); err == nil && mapping != nil {
			m.mapping = mapping
			return m.mapping
		}
		m.log.Warn("font mapping unreadable, rebuilding", zap.String("file", m.opts.MappingFile))
	}

	mapping, err := m.scanLocked()
	if err != nil {
		m.log.Error("scan fonts", zap.Error(err))
	}
	m.mapping = mapping
	return m.mapping
}

// RefreshMapping rescans the fonts directories and rewrites the mapping file.
func (m *Manager) RefreshMapping() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mapping, err := m.scanLocked()
	m.mapping = mapping
	if err != nil {
		return mapping, err
	}
	if m.opts.MappingFile == "" {
		return mapping, nil
	}

	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return mapping, fmt.Errorf("encode mapping: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.opts.MappingFile), 0o755); err != nil {
		return mapping, fmt.Errorf("create fonts dir: %w", err)
	}
	if err := os.WriteFile(m.opts.MappingFile, data, 0o644); err != nil {
		return mapping, fmt.Errorf("write mapping: %w", err)
	}
	m.log.Info("font mapping updated", zap.Int("fonts", len(mapping)))
	return mapping, nil
}

// scanLocked maps every .ttf/.otf stem in the cache dir and the fonts dir to
// its path relative to the fonts dir. Fonts dir entries win on collision.
func (m *Manager) scanLocked() (map[string]string, error) {
	mapping := make(map[string]string)
	for _, dir := range []string{m.opts.GoogleDir, m.opts.Dir} {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return mapping, fmt.Errorf("read %s: %w", dir, err)
		}
		for _, e := range entries {
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
				continue
			}
			rel, err := filepath.Rel(m.opts.Dir, filepath.Join(dir, e.Name()))
			if err != nil {
				continue
			}
			mapping[strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))] = rel
		}
	}
	return mapping, nil
}
