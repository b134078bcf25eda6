// padding.go - Uniform or per-edge padding, normalized once at the boundary.
package overlay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Padding is the normalized four-edge form. All edges are >= 0.
type Padding struct {
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Left   int `json:"left" yaml:"left"`
}

// Horizontal returns Left+Right.
func (p Padding) Horizontal() int { return p.Left + p.Right }

// Vertical returns Top+Bottom.
func (p Padding) Vertical() int { return p.Top + p.Bottom }

// PaddingSpec is either a uniform scalar or a set of named edges.
// The zero value is "unset".
type PaddingSpec struct {
	scalar *float64
	edges  map[string]float64
}

// Uniform builds a scalar padding spec.
func Uniform(v float64) PaddingSpec { return PaddingSpec{scalar: &v} }

// Edges builds an edge padding spec. Missing keys normalize to 0.
func Edges(edges map[string]float64) PaddingSpec {
	m := make(map[string]float64, len(edges))
	for k, v := range edges {
		m[k] = v
	}
	return PaddingSpec{edges: m}
}

// IsSet reports whether the padding carries any value.
func (p PaddingSpec) IsSet() bool { return p.scalar != nil || p.edges != nil }

// IsZero lets encoders treat an unset spec as empty.
func (p PaddingSpec) IsZero() bool { return !p.IsSet() }

// MissingEdges lists the edges an edge spec does not name, in
// top/right/bottom/left order. Scalar and unset specs report none.
func (p PaddingSpec) MissingEdges() []string {
	if p.edges == nil {
		return nil
	}
	var missing []string
	for _, k := range []string{"top", "right", "bottom", "left"} {
		if _, ok := p.edges[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// Normalize returns the four-edge form.
func (p PaddingSpec) Normalize() Padding {
	if p.scalar != nil {
		v := edgeValue(*p.scalar)
		return Padding{Top: v, Right: v, Bottom: v, Left: v}
	}
	return Padding{
		Top:    edgeValue(p.edges["top"]),
		Right:  edgeValue(p.edges["right"]),
		Bottom: edgeValue(p.edges["bottom"]),
		Left:   edgeValue(p.edges["left"]),
	}
}

func edgeValue(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	return int(v)
}

var paddingKeys = map[string]bool{"top": true, "right": true, "bottom": true, "left": true}

// UnmarshalJSON accepts a number or an object of numeric edges.
func (p *PaddingSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = PaddingSpec{}
		return nil
	}

	var scalar float64
	if err := json.Unmarshal(data, &scalar); err == nil {
		*p = Uniform(scalar)
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: expected number or {top,right,bottom,left}", ErrInvalidPadding)
	}
	edges := make(map[string]float64, len(raw))
	for k, v := range raw {
		if !paddingKeys[k] {
			return fmt.Errorf("%w: unknown edge %q", ErrInvalidPadding, k)
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return fmt.Errorf("%w: edge %q must be a number", ErrInvalidPadding, k)
		}
		edges[k] = f
	}
	*p = PaddingSpec{edges: edges}
	return nil
}

// MarshalJSON writes the padding back in its original shape.
func (p PaddingSpec) MarshalJSON() ([]byte, error) {
	switch {
	case p.scalar != nil:
		return json.Marshal(*p.scalar)
	case p.edges != nil:
		return json.Marshal(p.edges)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalYAML accepts a scalar or a mapping of numeric edges.
func (p *PaddingSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var f float64
		if err := node.Decode(&f); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPadding, err)
		}
		*p = Uniform(f)
		return nil
	case yaml.MappingNode:
		var edges map[string]float64
		if err := node.Decode(&edges); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPadding, err)
		}
		for k := range edges {
			if !paddingKeys[k] {
				return fmt.Errorf("%w: unknown edge %q", ErrInvalidPadding, k)
			}
		}
		*p = PaddingSpec{edges: edges}
		return nil
	default:
		return fmt.Errorf("%w: expected scalar or mapping", ErrInvalidPadding)
	}
}

// MarshalYAML writes the padding back in its original shape.
func (p PaddingSpec) MarshalYAML() (any, error) {
	switch {
	case p.scalar != nil:
		return *p.scalar, nil
	case p.edges != nil:
		return p.edges, nil
	default:
		return nil, nil
	}
}
