package measure

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/model"
)

func TestCellsMeasure(t *testing.T) {
	c := Cells{MaxWidth: 10, MinWidth: 6}
	tests := []struct {
		name  string
		text  string
		style layout.Style
		want  model.Size
	}{
		{"topic", "hello", layout.StyleTopic, model.Size{W: 7, H: 2}},
		{"root is boxed", "Topic", layout.StyleRoot, model.Size{W: 9, H: 3}},
		{"empty uses minimum", "", layout.StyleTopic, model.Size{W: 6, H: 2}},
		{"word wrap", "aaaa bbbb cccc", layout.StyleTopic, model.Size{W: 11, H: 3}},
		{"explicit newline", "ab\ncd", layout.StyleTopic, model.Size{W: 6, H: 3}},
		{"wide runes", "日本", layout.StyleTopic, model.Size{W: 6, H: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Measure(tt.text, tt.style); got != tt.want {
				t.Errorf("Measure(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestWrapHardBreaksLongWords(t *testing.T) {
	lines := Wrap("abcdefghijkl", 5)
	if len(lines) != 3 {
		t.Fatalf("Wrap = %q, want 3 lines", lines)
	}
	if strings.Join(lines, "") != "abcdefghijkl" {
		t.Errorf("Wrap lost text: %q", lines)
	}
}

func TestFontMeasure(t *testing.T) {
	f, err := NewFont(DefaultFontOptions())
	if err != nil {
		t.Fatalf("NewFont: %v", err)
	}

	empty := f.Measure("", layout.StyleTopic)
	if empty.W != 100 || empty.H != 40 {
		t.Errorf("empty text = %+v, want minimum 100x40", empty)
	}

	one := f.Measure("line", layout.StyleTopic)
	five := f.Measure("a\nb\nc\nd\ne", layout.StyleTopic)
	if five.H <= one.H {
		t.Errorf("five lines (%v) not taller than one (%v)", five.H, one.H)
	}

	long := strings.Repeat("word ", 40)
	got := f.Measure(long, layout.StyleTopic)
	if got.W > 150+20+1 {
		t.Errorf("wrapped width %v exceeds wrap width plus padding", got.W)
	}
	if len(f.WrapLines(long, layout.StyleTopic)) < 2 {
		t.Error("long text did not wrap")
	}

	if again := f.Measure(long, layout.StyleTopic); again != got {
		t.Errorf("measurement not deterministic: %+v then %+v", got, again)
	}

	if f.LineHeight(layout.StyleRoot) <= f.LineHeight(layout.StyleTopic) {
		t.Error("root face should be taller than topic face")
	}
}
