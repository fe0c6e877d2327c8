// Package viewport tracks which part of the unbounded layout plane is on
// screen and which node is selected.
package viewport

import "github.com/vanderheijden86/mindmap/pkg/model"

// Config tunes scrolling.
type Config struct {
	Center        model.Point // logical point shown first
	RegionMargin  float64     // space added around the content bounds
	VisibleMargin float64     // fraction of the region kept between a selection and the view edge
	ScrollUnit    float64     // logical distance of one scroll step
}

// DefaultConfig returns the pixel defaults.
func DefaultConfig() Config {
	return Config{
		Center:        model.Point{X: 5000, Y: 5000},
		RegionMargin:  500,
		VisibleMargin: 0.05,
		ScrollUnit:    20,
	}
}

// Viewport is a window of size W×H onto the scroll region, positioned by the
// logical coordinates of its top-left corner.
type Viewport struct {
	cfg      Config
	region   model.Rect
	origin   model.Point
	w, h     float64
	centered bool
}

// New creates a viewport with no content yet.
func New(cfg Config) *Viewport {
	return &Viewport{cfg: cfg}
}

// SetSize sets the on-screen size of the view in logical units.
func (v *Viewport) SetSize(w, h float64) {
	v.w, v.h = max(w, 0), max(h, 0)
	v.clamp()
}

// ViewSize returns the view size.
func (v *Viewport) ViewSize() (w, h float64) {
	return v.w, v.h
}

// SetContent updates the scroll region from the content bounds. The first
// call centres the view on the configured logical centre.
func (v *Viewport) SetContent(bounds model.Rect) {
	v.region = bounds.Inset(v.cfg.RegionMargin)
	if !v.centered {
		v.centered = true
		v.CenterOn(v.cfg.Center)
		return
	}
	v.clamp()
}

// Recenter makes the next SetContent centre the view again, e.g. after a
// document is opened.
func (v *Viewport) Recenter() {
	v.centered = false
}

// Region returns the scroll region.
func (v *Viewport) Region() model.Rect {
	return v.region
}

// Origin returns the logical position of the view's top-left corner.
func (v *Viewport) Origin() model.Point {
	return v.origin
}

// Rect returns the visible part of the layout plane.
func (v *Viewport) Rect() model.Rect {
	return model.Rect{MinX: v.origin.X, MinY: v.origin.Y, MaxX: v.origin.X + v.w, MaxY: v.origin.Y + v.h}
}

// CenterOn scrolls so p is in the middle of the view, as far as the region
// allows.
func (v *Viewport) CenterOn(p model.Point) {
	v.origin = model.Point{X: p.X - v.w/2, Y: p.Y - v.h/2}
	v.clamp()
}

// EnsureVisible scrolls the minimum needed so p sits inside the view with a
// margin, centring each axis that is out of bounds. With force both axes are
// centred unconditionally. It reports whether the view moved.
func (v *Viewport) EnsureVisible(p model.Point, force bool) bool {
	before := v.origin
	mx := min(v.cfg.VisibleMargin*v.region.Width(), v.w/4)
	my := min(v.cfg.VisibleMargin*v.region.Height(), v.h/4)

	if force || p.X < v.origin.X+mx || p.X > v.origin.X+v.w-mx {
		v.origin.X = p.X - v.w/2
	}
	if force || p.Y < v.origin.Y+my || p.Y > v.origin.Y+v.h-my {
		v.origin.Y = p.Y - v.h/2
	}
	v.clamp()
	return v.origin != before
}

// ScrollBy moves the view by a logical offset.
func (v *Viewport) ScrollBy(dx, dy float64) {
	v.origin = v.origin.Add(model.Point{X: dx, Y: dy})
	v.clamp()
}

// Scroll moves the view by whole scroll units.
func (v *Viewport) Scroll(dx, dy int) {
	v.ScrollBy(float64(dx)*v.cfg.ScrollUnit, float64(dy)*v.cfg.ScrollUnit)
}

// ToLogical converts a view-relative position to the layout plane.
func (v *Viewport) ToLogical(screen model.Point) model.Point {
	return v.origin.Add(screen)
}

// ToScreen converts a layout position to view-relative coordinates.
func (v *Viewport) ToScreen(logical model.Point) model.Point {
	return logical.Sub(v.origin)
}

// clamp keeps the view inside the region. A region smaller than the view
// pins the view to the region's top-left edge.
func (v *Viewport) clamp() {
	if v.region == (model.Rect{}) {
		return
	}
	v.origin.X = clampAxis(v.origin.X, v.region.MinX, v.region.MaxX-v.w)
	v.origin.Y = clampAxis(v.origin.Y, v.region.MinY, v.region.MaxY-v.h)
}

func clampAxis(x, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return min(max(x, lo), hi)
}
