package measure

import (
	"fmt"
	"strings"
	"sync"

	"git.sr.ht/~sbinet/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/model"
)

// FontOptions configures pixel measurement.
type FontOptions struct {
	Size      float64 // topic point size
	RootSize  float64 // root point size (bold face)
	WrapWidth float64 // text wrap width in pixels
	PadX      float64
	PadY      float64
	MinW      float64
	MinH      float64
}

// DefaultFontOptions returns the pixel defaults.
func DefaultFontOptions() FontOptions {
	return FontOptions{
		Size:      10,
		RootSize:  12,
		WrapWidth: 150,
		PadX:      20,
		PadY:      10,
		MinW:      100,
		MinH:      40,
	}
}

// Font measures text in pixels with the Go fonts. Faces are not safe for
// concurrent use, so measurement is serialized.
type Font struct {
	opts  FontOptions
	mu    sync.Mutex
	topic *gg.Context
	root  *gg.Context
}

// NewFont parses the embedded Go fonts at the configured sizes.
func NewFont(opts FontOptions) (*Font, error) {
	topic, err := faceContext(goregular.TTF, opts.Size)
	if err != nil {
		return nil, fmt.Errorf("load topic font: %w", err)
	}
	root, err := faceContext(gobold.TTF, opts.RootSize)
	if err != nil {
		return nil, fmt.Errorf("load root font: %w", err)
	}
	return &Font{opts: opts, topic: topic, root: root}, nil
}

func faceContext(ttf []byte, size float64) (*gg.Context, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)
	return dc, nil
}

// WrapLines wraps text to the configured width in the face for style.
func (f *Font) WrapLines(text string, style layout.Style) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wrap(f.context(style), text)
}

func (f *Font) context(style layout.Style) *gg.Context {
	if style == layout.StyleRoot {
		return f.root
	}
	return f.topic
}

func (f *Font) wrap(dc *gg.Context, text string) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		if para == "" {
			out = append(out, "")
			continue
		}
		out = append(out, dc.WordWrap(para, f.opts.WrapWidth)...)
	}
	return out
}

// Measure implements layout.Measurer.
func (f *Font) Measure(text string, style layout.Style) model.Size {
	f.mu.Lock()
	defer f.mu.Unlock()
	dc := f.context(style)
	w, h := dc.MeasureMultilineString(strings.Join(f.wrap(dc, text), "\n"), 1)
	return model.Size{
		W: max(f.opts.MinW, w+f.opts.PadX),
		H: max(f.opts.MinH, h+f.opts.PadY),
	}
}

// LineHeight returns the font height for style.
func (f *Font) LineHeight(style layout.Style) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.context(style).FontHeight()
}
