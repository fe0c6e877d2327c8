package drag

import "github.com/vanderheijden86/mindmap/pkg/model"

// Scroller is the viewport surface auto-scroll nudges.
type Scroller interface {
	ViewSize() (w, h float64)
	Scroll(dx, dy int)
}

// AutoScroller scrolls toward a viewport edge while the pointer is close to
// it, throttled to one step every n motion events.
type AutoScroller struct {
	view   Scroller
	margin float64
	every  int
	ticks  int
}

// NewAutoScroller creates an auto-scroller. every < 1 is treated as 1.
func NewAutoScroller(view Scroller, margin float64, every int) *AutoScroller {
	return &AutoScroller{view: view, margin: margin, every: max(every, 1)}
}

// Reset restarts the throttle count.
func (a *AutoScroller) Reset() { a.ticks = 0 }

// Tick records a motion event at screen position p and scrolls one unit
// toward any edge p is within margin of, if the throttle allows. It returns
// the step taken.
func (a *AutoScroller) Tick(p model.Point) (dx, dy int) {
	a.ticks++
	if a.ticks%a.every != 0 {
		return 0, 0
	}
	w, h := a.view.ViewSize()
	switch {
	case p.X < a.margin:
		dx = -1
	case p.X > w-a.margin:
		dx = 1
	}
	switch {
	case p.Y < a.margin:
		dy = -1
	case p.Y > h-a.margin:
		dy = 1
	}
	if dx != 0 || dy != 0 {
		a.view.Scroll(dx, dy)
	}
	return dx, dy
}
