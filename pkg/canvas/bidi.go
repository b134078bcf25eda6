// bidi.go - Logical to visual reordering for right-to-left lines.
package canvas

import (
	"golang.org/x/text/unicode/bidi"
)

// Visual returns an RTL line in left-to-right drawing order: directional
// runs are laid out right to left and the characters of each RTL run are
// reversed. LTR lines are returned unchanged. Contextual shaping is not
// performed.
func Visual(line string, rtl bool) string {
	if !rtl || line == "" {
		return line
	}

	var p bidi.Paragraph
	if _, err := p.SetString(line, bidi.DefaultDirection(bidi.RightToLeft)); err != nil {
		return bidi.ReverseString(line)
	}
	order, err := p.Order()
	if err != nil {
		return bidi.ReverseString(line)
	}

	out := make([]byte, 0, len(line))
	for i := order.NumRuns() - 1; i >= 0; i-- {
		run := order.Run(i)
		if run.Direction() == bidi.RightToLeft {
			out = bidi.AppendReverse(out, []byte(run.String()))
			continue
		}
		out = append(out, run.String()...)
	}
	return string(out)
}
