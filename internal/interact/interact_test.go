package interact

import (
	"math"
	"testing"

	"github.com/olivierh59500/clustergraph/internal/viewport"
)

type fakeNode struct {
	x, y, r float64
	pinned  bool
	fx, fy  float64
}

type fakeSim struct {
	nodes    []fakeNode
	target   float64
	restarts int
}

func (s *fakeSim) Len() int                          { return len(s.nodes) }
func (s *fakeSim) Position(i int) (float64, float64) { return s.nodes[i].x, s.nodes[i].y }
func (s *fakeSim) Radius(i int) float64              { return s.nodes[i].r }
func (s *fakeSim) SetAlphaTarget(t float64)          { s.target = t }
func (s *fakeSim) DragAlphaTarget() float64          { return 0.3 }
func (s *fakeSim) Restart()                          { s.restarts++ }

func (s *fakeSim) Pin(i int, x, y float64) {
	n := &s.nodes[i]
	n.pinned, n.fx, n.fy = true, x, y
	n.x, n.y = x, y
}

func (s *fakeSim) Unpin(i int) { s.nodes[i].pinned = false }

func setup() (*Controller, *fakeSim, *viewport.Controller) {
	sim := &fakeSim{nodes: []fakeNode{
		{x: 100, y: 100, r: 20},
		{x: 110, y: 100, r: 20},
		{x: 400, y: 300, r: 10},
	}}
	view := viewport.New(viewport.Box{Width: 800, Height: 600})
	return New(view, sim), sim, view
}

func mouse(kind Kind, x, y float64) Event {
	return Event{Kind: kind, Pointer: Pointer{ID: 0, X: x, Y: y}}
}

func touch(kind Kind, id int, x, y float64) Event {
	return Event{Kind: kind, Pointer: Pointer{ID: id, X: x, Y: y, Touch: true}}
}

func TestHitTestTopmostWins(t *testing.T) {
	_, sim, _ := setup()
	// (105, 100) lies inside both node 0 and node 1; node 1 is drawn last.
	if got := HitTest(sim, 105, 100); got != 1 {
		t.Errorf("HitTest overlap = %d, want 1", got)
	}
	if got := HitTest(sim, 85, 100); got != 0 {
		t.Errorf("HitTest node 0 only = %d, want 0", got)
	}
	if got := HitTest(sim, 410, 300); got != 2 {
		t.Errorf("HitTest on boundary = %d, want 2", got)
	}
	if got := HitTest(sim, 600, 600); got != -1 {
		t.Errorf("HitTest empty space = %d, want -1", got)
	}
	sim.nodes[1].x = math.NaN()
	if got := HitTest(sim, 105, 100); got != 0 {
		t.Errorf("HitTest with non-finite node = %d, want 0", got)
	}
}

func TestDragLifecycle(t *testing.T) {
	c, sim, _ := setup()
	if sim.nodes[2].pinned {
		t.Fatal("pinned before drag")
	}

	c.Handle(mouse(Down, 405, 302))
	if c.Mode() != Dragging {
		t.Fatalf("mode = %v, want dragging", c.Mode())
	}
	if n, ok := c.DraggedNode(); !ok || n != 2 {
		t.Fatalf("DraggedNode = %d, %v", n, ok)
	}
	if !sim.nodes[2].pinned || sim.nodes[2].fx != 400 || sim.nodes[2].fy != 300 {
		t.Fatalf("pin at grab = %+v, want at node position", sim.nodes[2])
	}
	if sim.target != 0.3 || sim.restarts != 1 {
		t.Errorf("alpha target %v restarts %d", sim.target, sim.restarts)
	}

	c.Handle(mouse(Move, 505, 352))
	if n := sim.nodes[2]; !n.pinned || n.fx != 500 || n.fy != 350 {
		t.Errorf("pin after move = (%v, %v), want (500, 350) keeping grab offset", n.fx, n.fy)
	}
	if _, x, y, ok := c.Hover(); !ok || x != 505 || y != 352 {
		t.Errorf("tooltip position (%v, %v, %v)", x, y, ok)
	}

	c.Handle(mouse(Up, 505, 352))
	if c.Mode() != Idle {
		t.Errorf("mode after up = %v", c.Mode())
	}
	if sim.nodes[2].pinned {
		t.Error("pin survived release")
	}
	if sim.target != 0 {
		t.Errorf("alpha target after release = %v", sim.target)
	}
}

func TestDragUnderZoom(t *testing.T) {
	c, sim, view := setup()
	view.Set(viewport.Viewport{X: 0, Y: 0, W: 400, H: 300})
	// World (400, 300) is at screen (800, 600) at 2x.
	c.Handle(mouse(Down, 800, 600))
	if c.Mode() != Dragging {
		t.Fatalf("mode = %v", c.Mode())
	}
	c.Handle(mouse(Move, 700, 500))
	if n := sim.nodes[2]; n.fx != 350 || n.fy != 250 {
		t.Errorf("pin = (%v, %v), want (350, 250)", n.fx, n.fy)
	}
}

func TestPan(t *testing.T) {
	c, sim, view := setup()
	c.Handle(mouse(Down, 700, 50))
	if c.Mode() != Panning {
		t.Fatalf("mode = %v, want panning", c.Mode())
	}
	c.Handle(mouse(Move, 650, 80))
	vp := view.Viewport()
	if vp.X != 50 || vp.Y != -30 || vp.W != 800 || vp.H != 600 {
		t.Errorf("viewport after pan %+v", vp)
	}
	c.Handle(mouse(Up, 650, 80))
	if c.Mode() != Idle {
		t.Errorf("mode after up = %v", c.Mode())
	}
	for i, n := range sim.nodes {
		if n.pinned {
			t.Errorf("node %d pinned by pan", i)
		}
	}
}

func TestPinchCancelsDrag(t *testing.T) {
	c, sim, view := setup()
	c.Handle(touch(Down, 1, 400, 300))
	if c.Mode() != Dragging {
		t.Fatalf("mode = %v", c.Mode())
	}
	c.Handle(touch(Down, 2, 600, 300))
	if c.Mode() != Pinching {
		t.Fatalf("mode = %v, want pinching", c.Mode())
	}
	if sim.nodes[2].pinned || sim.target != 0 {
		t.Error("drag not cancelled by pinch")
	}

	// Spread from 200 to 400 px apart around the same midpoint.
	c.Handle(touch(Move, 1, 300, 300))
	c.Handle(touch(Move, 2, 700, 300))
	vp := view.Viewport()
	if math.Abs(vp.W-400) > 1e-9 || math.Abs(vp.H-300) > 1e-9 {
		t.Errorf("pinch size %vx%v, want 400x300", vp.W, vp.H)
	}
	wx, wy := view.ScreenToWorld(500, 300)
	if math.Abs(wx-500) > 1e-9 || math.Abs(wy-300) > 1e-9 {
		t.Errorf("pinch focal point moved to (%v, %v)", wx, wy)
	}

	c.Handle(touch(Up, 2, 700, 300))
	if c.Mode() != Idle {
		t.Errorf("mode after lifting one finger = %v", c.Mode())
	}
	c.Handle(touch(Move, 1, 250, 250))
	if view.Viewport() != vp {
		t.Error("remaining finger moved the view after pinch ended")
	}
	c.Handle(touch(Up, 1, 250, 250))
	if c.Mode() != Idle {
		t.Errorf("mode = %v", c.Mode())
	}
}

func TestPinchFromPan(t *testing.T) {
	c, _, _ := setup()
	c.Handle(touch(Down, 1, 700, 50))
	if c.Mode() != Panning {
		t.Fatalf("mode = %v", c.Mode())
	}
	c.Handle(touch(Down, 2, 750, 50))
	if c.Mode() != Pinching {
		t.Errorf("mode = %v, want pinching", c.Mode())
	}
}

func TestHover(t *testing.T) {
	c, _, _ := setup()
	c.Handle(mouse(Move, 400, 300))
	if n, x, y, ok := c.Hover(); !ok || n != 2 || x != 400 || y != 300 {
		t.Errorf("Hover = %d (%v, %v) %v", n, x, y, ok)
	}
	c.Handle(mouse(Move, 700, 50))
	if _, _, _, ok := c.Hover(); ok {
		t.Error("hover over empty space")
	}
	c.Handle(mouse(Move, 400, 300))
	c.Handle(mouse(Cancel, 400, 300))
	if _, _, _, ok := c.Hover(); ok {
		t.Error("hover survived cancel")
	}
}

func TestMalformedSequences(t *testing.T) {
	c, sim, _ := setup()
	c.Handle(touch(Up, 9, 0, 0))
	c.Handle(touch(Cancel, 3, 0, 0))
	c.Handle(touch(Move, 4, 10, 10))
	if c.Mode() != Idle {
		t.Errorf("mode = %v after stray events", c.Mode())
	}

	// A drag whose up event never arrived is released by the next press.
	c.Handle(mouse(Down, 400, 300))
	c.Handle(touch(Up, 7, 0, 0))
	if c.Mode() != Dragging {
		t.Fatalf("stray up ended drag: %v", c.Mode())
	}
	c.Handle(mouse(Cancel, 400, 300))
	if c.Mode() != Idle || sim.nodes[2].pinned {
		t.Errorf("cancel did not release drag: %v pinned=%v", c.Mode(), sim.nodes[2].pinned)
	}
}

func TestNilSimulation(t *testing.T) {
	view := viewport.New(viewport.Box{Width: 100, Height: 100})
	c := New(view, nil)
	c.Handle(mouse(Down, 50, 50))
	if c.Mode() != Panning {
		t.Errorf("mode = %v, want panning", c.Mode())
	}
	c.Handle(mouse(Up, 50, 50))
	c.Handle(mouse(Move, 50, 50))
	if _, _, _, ok := c.Hover(); ok {
		t.Error("hover without nodes")
	}
}

func TestSetSimulationDropsState(t *testing.T) {
	c, old, _ := setup()
	c.Handle(mouse(Down, 400, 300))
	next := &fakeSim{nodes: []fakeNode{{x: 10, y: 10, r: 5}}}
	c.SetSimulation(next)
	if c.Mode() != Idle {
		t.Errorf("mode = %v", c.Mode())
	}
	c.Handle(mouse(Up, 400, 300))
	if !old.nodes[2].pinned {
		t.Error("old engine touched after swap")
	}
}

func TestWheelAndReset(t *testing.T) {
	c, _, view := setup()
	c.Wheel(400, 300, 1)
	if view.Viewport().W <= 800 {
		t.Errorf("wheel did not zoom out: %+v", view.Viewport())
	}
	c.ResetView()
	if view.Viewport() != (viewport.Viewport{W: 800, H: 600}) {
		t.Errorf("ResetView = %+v", view.Viewport())
	}
}
