// wrap.go - Greedy word wrapping with grapheme-level fallback for long words.
package overlay

import (
	"math"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Wrap breaks text into lines whose measured width fits maxWidth.
//
// Words are never reordered. A word is split only when it alone exceeds
// maxWidth, and then only between grapheme clusters; a single cluster wider
// than maxWidth becomes a line of its own. Explicit newlines are hard breaks.
// RTL text keeps its space tokens and is joined without inserted spaces.
func Wrap(text string, measure func(string) int, maxWidth int, rtl bool) []string {
	text = strings.TrimFunc(strings.ReplaceAll(text, "\r\n", "\n"), unicode.IsSpace)
	if text == "" {
		return nil
	}
	if maxWidth <= 0 {
		maxWidth = math.MaxInt
	}

	b := &lineBuilder{measure: measure, maxWidth: maxWidth, rtl: rtl}
	for _, para := range strings.Split(text, "\n") {
		tokens := Tokenize(para, rtl)
		if len(tokens) == 0 {
			b.lines = append(b.lines, "")
			continue
		}
		for _, tok := range tokens {
			b.add(tok)
		}
		b.flush()
	}
	return b.lines
}

// Tokenize splits a paragraph into wrap tokens. LTR drops whitespace; RTL
// keeps each whitespace run as its own token.
func Tokenize(s string, rtl bool) []string {
	if !rtl {
		return strings.Fields(s)
	}

	var tokens []string
	var sb strings.Builder
	inSpace := false
	for _, r := range s {
		space := unicode.IsSpace(r)
		if sb.Len() > 0 && space != inSpace {
			tokens = append(tokens, sb.String())
			sb.Reset()
		}
		inSpace = space
		sb.WriteRune(r)
	}
	if sb.Len() > 0 {
		tokens = append(tokens, sb.String())
	}
	return tokens
}

func isSpaceToken(tok string) bool { return strings.TrimSpace(tok) == "" }

type lineBuilder struct {
	measure  func(string) int
	maxWidth int
	rtl      bool

	lines   []string
	current string
}

func (b *lineBuilder) join(tok string) string {
	if b.current == "" {
		return tok
	}
	if b.rtl {
		return b.current + tok
	}
	return b.current + " " + tok
}

func (b *lineBuilder) add(tok string) {
	space := isSpaceToken(tok)
	if space && b.current == "" {
		return
	}

	candidate := b.join(tok)
	if b.measure(candidate) <= b.maxWidth {
		b.current = candidate
		return
	}
	if space {
		b.flush()
		return
	}

	if b.current != "" {
		b.flush()
		if b.measure(tok) <= b.maxWidth {
			b.current = tok
			return
		}
	}
	b.split(tok)
}

// split handles a token wider than maxWidth on its own. The tail stays open
// so the next token may still join it.
func (b *lineBuilder) split(tok string) {
	var part string
	g := uniseg.NewGraphemes(tok)
	for g.Next() {
		cluster := g.Str()
		if part != "" && b.measure(part+cluster) > b.maxWidth {
			b.lines = append(b.lines, part)
			part = cluster
			continue
		}
		part += cluster
	}
	b.current = part
}

func (b *lineBuilder) flush() {
	line := b.current
	if b.rtl {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	if line != "" {
		b.lines = append(b.lines, line)
	}
	b.current = ""
}
