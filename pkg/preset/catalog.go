// catalog.go - Registry of style presets.
package preset

import (
	"sort"
	"sync"
)

// Catalog holds style presets by key. It is safe for concurrent use.
type Catalog struct {
	mu     sync.RWMutex
	styles map[string]*Style
}

// NewCatalog returns a catalog seeded with the built-in styles.
func NewCatalog() *Catalog {
	c := &Catalog{styles: make(map[string]*Style)}
	for _, s := range Builtin() {
		c.Add(s)
	}
	return c
}

// Add registers s under the key of its name, replacing any previous entry.
func (c *Catalog) Add(s *Style) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.styles[Key(s.Meta.Name)] = s
}

// Get looks up a style by name.
func (c *Catalog) Get(name string) (*Style, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.styles[Key(name)]
	return s, ok
}

// Names returns the registered keys, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.styles))
	for k := range c.styles {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// All returns the registered styles ordered by key.
func (c *Catalog) All() []*Style {
	names := c.Names()
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Style, 0, len(names))
	for _, n := range names {
		out = append(out, c.styles[n])
	}
	return out
}
