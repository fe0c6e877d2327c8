package viewport

import (
	"testing"

	"github.com/vanderheijden86/mindmap/pkg/model"
)

var content = model.Rect{MinX: 4900, MinY: 4950, MaxX: 5100, MaxY: 5050}

func newView() *Viewport {
	v := New(DefaultConfig())
	v.SetSize(800, 600)
	v.SetContent(content)
	return v
}

func TestFirstContentCentres(t *testing.T) {
	v := newView()
	want := model.Rect{MinX: 4400, MinY: 4450, MaxX: 5600, MaxY: 5550}
	if v.Region() != want {
		t.Errorf("region = %+v, want %+v", v.Region(), want)
	}
	if got := v.Origin(); got != (model.Point{X: 4600, Y: 4700}) {
		t.Errorf("origin = %v", got)
	}
	if got := v.ToLogical(model.Point{X: 400, Y: 300}); got != (model.Point{X: 5000, Y: 5000}) {
		t.Errorf("view centre maps to %v", got)
	}
	if got := v.ToScreen(model.Point{X: 5000, Y: 5000}); got != (model.Point{X: 400, Y: 300}) {
		t.Errorf("logical centre maps to %v", got)
	}
}

func TestLaterContentKeepsScroll(t *testing.T) {
	v := newView()
	v.Scroll(2, 1)
	before := v.Origin()
	if before != (model.Point{X: 4640, Y: 4720}) {
		t.Fatalf("after Scroll(2,1) origin = %v", before)
	}
	v.SetContent(content)
	if v.Origin() != before {
		t.Errorf("SetContent moved the view to %v", v.Origin())
	}
	v.Recenter()
	v.SetContent(content)
	if v.Origin() != (model.Point{X: 4600, Y: 4700}) {
		t.Errorf("Recenter then SetContent = %v", v.Origin())
	}
}

func TestEnsureVisible(t *testing.T) {
	tests := []struct {
		name  string
		p     model.Point
		force bool
		moved bool
		want  model.Point
	}{
		{"already visible", model.Point{X: 5000, Y: 5000}, false, false, model.Point{X: 4600, Y: 4700}},
		{"inside margin is fine", model.Point{X: 5300, Y: 5200}, false, false, model.Point{X: 4600, Y: 4700}},
		{"near right edge", model.Point{X: 5390, Y: 5000}, false, true, model.Point{X: 4800, Y: 4700}},
		{"near top edge", model.Point{X: 5000, Y: 4720}, false, true, model.Point{X: 4600, Y: 4450}},
		{"forced centre", model.Point{X: 5100, Y: 5050}, true, true, model.Point{X: 4700, Y: 4750}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newView()
			if moved := v.EnsureVisible(tt.p, tt.force); moved != tt.moved {
				t.Errorf("moved = %v, want %v", moved, tt.moved)
			}
			if v.Origin() != tt.want {
				t.Errorf("origin = %v, want %v", v.Origin(), tt.want)
			}
		})
	}
}

func TestScrollClampsToRegion(t *testing.T) {
	v := newView()
	v.ScrollBy(-10000, 10000)
	if got := v.Origin(); got != (model.Point{X: 4400, Y: 4950}) {
		t.Errorf("origin = %v, want clamped to region", got)
	}

	v.SetSize(2000, 2000)
	if got := v.Origin(); got != (model.Point{X: 4400, Y: 4450}) {
		t.Errorf("oversized view origin = %v, want region top-left", got)
	}
	if w, h := v.ViewSize(); w != 2000 || h != 2000 {
		t.Errorf("ViewSize = %v x %v", w, h)
	}
}

func TestSelection(t *testing.T) {
	tr := model.NewTree("root")
	a, _ := tr.AddChild(tr.Root().ID, "a", model.SideUnset)
	b, _ := tr.AddChild(a.ID, "b", model.SideUnset)
	c, _ := tr.AddChild(b.ID, "c", model.SideUnset)

	var s Selection
	if s.Active(tr) != tr.Root() {
		t.Error("empty selection should fall back to root")
	}

	s.Select(c.ID)
	if s.Repair(tr) {
		t.Error("visible selection repaired")
	}
	_ = tr.SetCollapsed(a.ID, true)
	_ = tr.SetCollapsed(b.ID, true)
	if !s.Repair(tr) || s.ID() != a.ID {
		t.Errorf("hidden selection repaired to %q, want outermost collapsed ancestor %q", s.ID(), a.ID)
	}

	tr.RemoveChild(a.ID)
	if !s.Repair(tr) || s.ID() != tr.Root().ID {
		t.Errorf("stale selection repaired to %q", s.ID())
	}
	if s.Active(tr) != tr.Root() {
		t.Error("Active after repair is not root")
	}
}
