// direction.go - Right-to-left detection from language codes and text.
package overlay

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

var rtlNames = map[string]bool{
	"arabic": true, "kurdish": true, "sorani": true, "hebrew": true,
	"urdu": true, "persian": true, "farsi": true, "pashto": true,
}

var rtlBases = map[string]bool{
	"ar": true, "ckb": true, "he": true, "iw": true, "ur": true, "fa": true,
	"ps": true, "yi": true, "sd": true, "ug": true, "dv": true, "syr": true,
}

var rtlScripts = map[string]bool{
	"Arab": true, "Hebr": true, "Syrc": true, "Thaa": true, "Nkoo": true,
	"Adlm": true, "Rohg": true, "Samr": true, "Mand": true,
}

// ambiguousBases are languages written in both directions; their text decides.
var ambiguousBases = map[string]bool{"ku": true, "pa": true, "ks": true}

// IsRTL reports whether text in the given language is laid out right to
// left. Empty, unknown or ambiguous codes fall back to the direction of the
// first strong character in text.
func IsRTL(lang, text string) bool {
	lang = strings.TrimSpace(lang)
	if rtlNames[strings.ToLower(lang)] {
		return true
	}

	tag, err := language.Parse(lang)
	if err != nil || tag == language.Und {
		return textIsRTL(text)
	}

	if script, conf := tag.Script(); conf == language.Exact {
		return rtlScripts[script.String()]
	}
	base, _ := tag.Base()
	switch b := base.String(); {
	case rtlBases[b]:
		return true
	case ambiguousBases[b]:
		return textIsRTL(text)
	default:
		return false
	}
}

func textIsRTL(text string) bool {
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.R, bidi.AL:
			return true
		case bidi.L:
			return false
		}
	}
	return false
}
