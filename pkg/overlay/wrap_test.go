package overlay

import (
	"reflect"
	"strings"
	"testing"
	"unicode"

	"github.com/rivo/uniseg"
)

func TestWrap_Greedy(t *testing.T) {
	t.Parallel()

	got := Wrap("the quick brown fox jumps", width10, 100, false)
	want := []string{"the quick", "brown fox", "jumps"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Wrap() = %q, want %q", got, want)
	}
}

func TestWrap_LongWordSplits(t *testing.T) {
	t.Parallel()

	word := strings.Repeat("x", 35) // 350px
	lines := Wrap(word, width10, 200, false)
	if len(lines) < 2 {
		t.Fatalf("got %d lines, want >= 2", len(lines))
	}
	for i, l := range lines {
		if w := width10(l); w > 200 {
			t.Errorf("line %d is %dpx, want <= 200", i, w)
		}
	}
	if strings.Join(lines, "") != word {
		t.Errorf("split lost characters: %q", lines)
	}
}

func TestWrap_SplitTailStaysOpen(t *testing.T) {
	t.Parallel()

	got := Wrap("abcdefghijklmnopqrstuvwxy z", width10, 100, false)
	want := []string{"abcdefghij", "klmnopqrst", "uvwxy z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Wrap() = %q, want %q", got, want)
	}
}

func TestWrap_PreservesWordOrder(t *testing.T) {
	t.Parallel()

	text := "one two three four five six seven eight nine ten eleven twelve"
	for _, max := range []int{60, 80, 120, 200, 1000} {
		lines := Wrap(text, width10, max, false)
		if got := strings.Fields(strings.Join(lines, " ")); !reflect.DeepEqual(got, strings.Fields(text)) {
			t.Errorf("max %d: words = %q", max, got)
		}
	}
}

func TestWrap_WidthBound(t *testing.T) {
	t.Parallel()

	texts := []string{
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit",
		"supercalifragilisticexpialidocious is a word",
		"a bb ccc dddd eeeee ffffff ggggggg hhhhhhhh",
		"مرحبا بالعالم هذا نص طويل جدا للاختبار",
	}
	for _, text := range texts {
		for _, max := range []int{10, 30, 70, 150} {
			for _, rtl := range []bool{false, true} {
				for _, l := range Wrap(text, width10, max, rtl) {
					if width10(l) > max && uniseg.GraphemeClusterCount(l) > 1 {
						t.Errorf("%q max=%d rtl=%v: line %q is %dpx", text, max, rtl, l, width10(l))
					}
				}
			}
		}
	}
}

func TestWrap_GraphemeClusters(t *testing.T) {
	t.Parallel()

	word := strings.Repeat("e\u0301", 5) // decomposed é
	measure := func(s string) int { return uniseg.GraphemeClusterCount(s) * 10 }

	lines := Wrap(word, measure, 20, false)
	if len(lines) != 3 {
		t.Fatalf("got %d lines %q, want 3", len(lines), lines)
	}
	for _, l := range lines {
		if strings.HasPrefix(l, "\u0301") {
			t.Errorf("line %q starts with a combining mark", l)
		}
	}
}

func TestWrap_OversizeGraphemeAlone(t *testing.T) {
	t.Parallel()

	measure := func(s string) int { return uniseg.GraphemeClusterCount(s) * 50 }
	got := Wrap("WMW", measure, 20, false)
	want := []string{"W", "M", "W"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Wrap() = %q, want %q", got, want)
	}
}

func TestWrap_HardBreaks(t *testing.T) {
	t.Parallel()

	got := Wrap("one\n\ntwo three", width10, 1000, false)
	want := []string{"one", "", "two three"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Wrap() = %q, want %q", got, want)
	}
}

func TestWrap_RTL(t *testing.T) {
	t.Parallel()

	got := Wrap("مرحبا بالعالم الجميل", width10, 130, true)
	want := []string{"مرحبا بالعالم", "الجميل"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Wrap() = %q, want %q", got, want)
	}
	for _, l := range got {
		if l != strings.TrimFunc(l, unicode.IsSpace) {
			t.Errorf("line %q has edge spaces", l)
		}
	}
}

func TestWrap_RTLNoLeadingSpace(t *testing.T) {
	t.Parallel()

	for _, max := range []int{20, 40, 50, 60, 90} {
		for _, l := range Wrap("אב  גד   הו זח", width10, max, true) {
			if strings.HasPrefix(l, " ") {
				t.Errorf("max %d: line %q starts with a space", max, l)
			}
		}
	}
}

func TestWrap_Empty(t *testing.T) {
	t.Parallel()

	if got := Wrap("  \n ", width10, 100, false); got != nil {
		t.Errorf("Wrap(blank) = %q, want nil", got)
	}
}

func TestWrap_NoLimit(t *testing.T) {
	t.Parallel()

	got := Wrap("all on one line", width10, 0, false)
	if len(got) != 1 {
		t.Errorf("Wrap() = %q, want a single line", got)
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	if got := Tokenize("  a  b ", false); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("LTR = %q", got)
	}
	if got := Tokenize("a  b", true); !reflect.DeepEqual(got, []string{"a", "  ", "b"}) {
		t.Errorf("RTL = %q", got)
	}
}
