package render

import (
	"math"

	"github.com/vanderheijden86/mindmap/pkg/model"
)

// Anchors returns where a connector leaves parent and meets child. The root
// is connected at its side edge, topics at the outer end of their underline.
func Anchors(parent, child *model.Node) (from, to model.Point) {
	dir := 1.0
	if child.Side.IsLeft() {
		dir = -1
	}
	from = model.Point{X: parent.Pos.X + dir*parent.Size.W/2, Y: parent.Pos.Y}
	if !parent.IsRoot() {
		from.Y += parent.Size.H / 2
	}
	to = model.Point{X: child.Pos.X - dir*child.Size.W/2, Y: child.Pos.Y + child.Size.H/2}
	return from, to
}

// Curve is a cubic bezier segment.
type Curve struct {
	P0, P1, P2, P3 model.Point
}

// Connector returns the S-shaped curve between two anchors: both control
// points sit halfway across horizontally, level with their end point.
func Connector(from, to model.Point) Curve {
	mid := (to.X - from.X) / 2
	return Curve{
		P0: from,
		P1: model.Point{X: from.X + mid, Y: from.Y},
		P2: model.Point{X: to.X - mid, Y: to.Y},
		P3: to,
	}
}

// At evaluates the curve at t in [0,1].
func (c Curve) At(t float64) model.Point {
	u := 1 - t
	a, b, cc, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return model.Point{
		X: a*c.P0.X + b*c.P1.X + cc*c.P2.X + d*c.P3.X,
		Y: a*c.P0.Y + b*c.P1.Y + cc*c.P2.Y + d*c.P3.Y,
	}
}

// tangent returns the derivative at t.
func (c Curve) tangent(t float64) model.Point {
	u := 1 - t
	return model.Point{
		X: 3*u*u*(c.P1.X-c.P0.X) + 6*u*t*(c.P2.X-c.P1.X) + 3*t*t*(c.P3.X-c.P2.X),
		Y: 3*u*u*(c.P1.Y-c.P0.Y) + 6*u*t*(c.P2.Y-c.P1.Y) + 3*t*t*(c.P3.Y-c.P2.Y),
	}
}

// Sample returns n+1 evenly spaced points along the curve.
func (c Curve) Sample(n int) []model.Point {
	n = max(n, 1)
	out := make([]model.Point, n+1)
	for i := 0; i <= n; i++ {
		out[i] = c.At(float64(i) / float64(n))
	}
	return out
}

// Taper outlines the curve as a closed polygon whose width shrinks linearly
// from startW at P0 to endW at P3.
func (c Curve) Taper(startW, endW float64, steps int) []model.Point {
	steps = max(steps, 1)
	left := make([]model.Point, 0, steps+1)
	right := make([]model.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := c.At(t)
		d := c.tangent(t)
		l := math.Hypot(d.X, d.Y)
		if l == 0 {
			d, l = model.Point{X: 1}, 1
		}
		half := (startW + (endW-startW)*t) / 2
		nx, ny := -d.Y/l*half, d.X/l*half
		left = append(left, model.Point{X: p.X + nx, Y: p.Y + ny})
		right = append(right, model.Point{X: p.X - nx, Y: p.Y - ny})
	}
	out := left
	for i := len(right) - 1; i >= 0; i-- {
		out = append(out, right[i])
	}
	return out
}
