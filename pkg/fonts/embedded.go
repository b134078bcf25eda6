// embedded.go - Embedded Go fonts used when nothing else resolves.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/xob0t/GoCaption/pkg/overlay"
)

var (
	embeddedMu     sync.Mutex
	embeddedParsed = map[string]*opentype.Font{}
)

// EmbeddedName names the embedded face used for spec.
func EmbeddedName(spec overlay.FontSpec) string {
	weight := "regular"
	switch {
	case spec.Weight >= 600:
		weight = "bold"
	case spec.Weight >= 500:
		weight = "medium"
	}
	if spec.Style == overlay.StyleItalic {
		if weight == "regular" {
			return "italic"
		}
		return weight + "italic"
	}
	return weight
}

func embeddedTTF(name string) []byte {
	switch name {
	case "bold":
		return gobold.TTF
	case "bolditalic":
		return gobolditalic.TTF
	case "medium":
		return gomedium.TTF
	case "mediumitalic":
		return gomediumitalic.TTF
	case "italic":
		return goitalic.TTF
	default:
		return goregular.TTF
	}
}

func embeddedFont(spec overlay.FontSpec) (*opentype.Font, error) {
	name := EmbeddedName(spec)

	embeddedMu.Lock()
	defer embeddedMu.Unlock()
	if f, ok := embeddedParsed[name]; ok {
		return f, nil
	}
	f, err := opentype.Parse(embeddedTTF(name))
	if err != nil {
		return nil, fmt.Errorf("parse embedded font %s: %w", name, err)
	}
	embeddedParsed[name] = f
	return f, nil
}
