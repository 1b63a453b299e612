// Package interact turns mouse and touch input into node drags, view pans
// and pinch zooms.
//
// Both input kinds arrive as the same Event type, so one state machine
// serves them. Exactly one interaction is active at a time.
package interact

import (
	"math"

	"github.com/olivierh59500/clustergraph/internal/viewport"
)

// Kind is the type of a pointer event.
type Kind int

const (
	Down Kind = iota
	Move
	Up
	Cancel
)

// Pointer is one mouse cursor or touch contact, in screen pixels.
type Pointer struct {
	ID    int
	X, Y  float64
	Touch bool
}

// Event is a single pointer transition.
type Event struct {
	Kind    Kind
	Pointer Pointer
}

// Mode is the active interaction.
type Mode int

const (
	Idle Mode = iota
	Dragging
	Panning
	Pinching
)

func (m Mode) String() string {
	switch m {
	case Dragging:
		return "dragging"
	case Panning:
		return "panning"
	case Pinching:
		return "pinching"
	}
	return "idle"
}

// Nodes is the read side used for hit-testing. Index order is draw order.
type Nodes interface {
	Len() int
	Position(i int) (float64, float64)
	Radius(i int) float64
}

// Simulation is what a drag needs from the layout engine.
type Simulation interface {
	Nodes
	Pin(i int, x, y float64)
	Unpin(i int)
	SetAlphaTarget(t float64)
	DragAlphaTarget() float64
	Restart()
}

type dragState struct {
	pointer    int
	node       int
	offX, offY float64
}

type panState struct {
	pointer  int
	start    viewport.Viewport
	sx0, sy0 float64
}

type pinchState struct {
	ids    [2]int
	dist   float64
	start  viewport.Viewport
	cx, cy float64
}

// Controller is the interaction state machine.
type Controller struct {
	view *viewport.Controller
	sim  Simulation

	mode   Mode
	active map[int]Pointer
	order  []int
	drag   dragState
	pan    panState
	pinch  pinchState

	hover      int
	tipX, tipY float64
}

// New returns an idle controller. sim may be nil while there is no graph.
func New(view *viewport.Controller, sim Simulation) *Controller {
	return &Controller{
		view:   view,
		sim:    sim,
		active: make(map[int]Pointer),
		hover:  -1,
	}
}

// SetSimulation swaps in the engine of a rebuilt graph. Any interaction in
// progress is dropped without touching the old engine.
func (c *Controller) SetSimulation(sim Simulation) {
	c.sim = sim
	c.mode = Idle
	c.hover = -1
	c.active = make(map[int]Pointer)
	c.order = c.order[:0]
}

// Mode returns the active interaction.
func (c *Controller) Mode() Mode { return c.mode }

// DraggedNode returns the node being dragged, if any.
func (c *Controller) DraggedNode() (int, bool) {
	if c.mode != Dragging {
		return -1, false
	}
	return c.drag.node, true
}

// Hover returns the node to show a tooltip for and the screen point to
// place it at.
func (c *Controller) Hover() (node int, x, y float64, ok bool) {
	if c.hover < 0 || c.sim == nil || c.hover >= c.sim.Len() {
		return -1, 0, 0, false
	}
	return c.hover, c.tipX, c.tipY, true
}

// Handle feeds one pointer event through the state machine.
func (c *Controller) Handle(ev Event) {
	p := ev.Pointer
	switch ev.Kind {
	case Down:
		c.down(p)
	case Move:
		c.move(p)
	case Up:
		c.up(p, false)
	case Cancel:
		c.up(p, true)
	}
}

// Wheel zooms the view around the pointer.
func (c *Controller) Wheel(px, py, deltaY float64) {
	c.view.Wheel(px, py, deltaY)
}

// ResetView restores the 1:1 view of the surface.
func (c *Controller) ResetView() { c.view.Reset() }

func (c *Controller) down(p Pointer) {
	if _, ok := c.active[p.ID]; !ok {
		c.order = append(c.order, p.ID)
	}
	c.active[p.ID] = p

	if len(c.active) >= 2 {
		c.startPinch()
		return
	}
	// A lone pointer means whatever was in progress lost its pointer.
	c.release()

	wx, wy := c.view.ScreenToWorld(p.X, p.Y)
	if node := c.hitTest(wx, wy); node >= 0 {
		nx, ny := c.sim.Position(node)
		c.drag = dragState{pointer: p.ID, node: node, offX: wx - nx, offY: wy - ny}
		c.sim.Pin(node, nx, ny)
		c.sim.SetAlphaTarget(c.sim.DragAlphaTarget())
		c.sim.Restart()
		c.mode = Dragging
		c.hover, c.tipX, c.tipY = node, p.X, p.Y
		return
	}
	c.pan = panState{pointer: p.ID, start: c.view.Viewport(), sx0: p.X, sy0: p.Y}
	c.mode = Panning
}

func (c *Controller) startPinch() {
	c.release()
	a, b := c.active[c.order[0]], c.active[c.order[1]]
	c.pinch = pinchState{
		ids:   [2]int{a.ID, b.ID},
		dist:  math.Hypot(a.X-b.X, a.Y-b.Y),
		start: c.view.Viewport(),
		cx:    (a.X + b.X) / 2,
		cy:    (a.Y + b.Y) / 2,
	}
	c.mode = Pinching
}

func (c *Controller) move(p Pointer) {
	if _, ok := c.active[p.ID]; !ok {
		if c.mode == Idle && !p.Touch {
			c.updateHover(p)
		}
		return
	}
	c.active[p.ID] = p

	switch c.mode {
	case Dragging:
		if p.ID != c.drag.pointer {
			return
		}
		wx, wy := c.view.ScreenToWorld(p.X, p.Y)
		c.sim.Pin(c.drag.node, wx-c.drag.offX, wy-c.drag.offY)
		c.tipX, c.tipY = p.X, p.Y
	case Panning:
		if p.ID != c.pan.pointer {
			return
		}
		c.view.PanFrom(c.pan.start, c.pan.sx0, c.pan.sy0, p.X, p.Y)
	case Pinching:
		a, okA := c.active[c.pinch.ids[0]]
		b, okB := c.active[c.pinch.ids[1]]
		if !okA || !okB {
			return
		}
		d := math.Hypot(a.X-b.X, a.Y-b.Y)
		c.view.PinchFrom(c.pinch.start, c.pinch.cx, c.pinch.cy, c.pinch.dist, d)
	}
}

func (c *Controller) up(p Pointer, cancel bool) {
	if _, ok := c.active[p.ID]; ok {
		delete(c.active, p.ID)
		for i, id := range c.order {
			if id == p.ID {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}

	switch c.mode {
	case Dragging:
		if p.ID == c.drag.pointer || len(c.active) == 0 {
			c.release()
		}
	case Panning:
		if p.ID == c.pan.pointer || len(c.active) == 0 {
			c.release()
		}
	case Pinching:
		if len(c.active) < 2 {
			c.release()
		}
	}
	if cancel {
		c.hover = -1
	}
}

// release ends the current interaction and returns to Idle.
func (c *Controller) release() {
	if c.mode == Dragging && c.sim != nil {
		c.sim.Unpin(c.drag.node)
		c.sim.SetAlphaTarget(0)
		c.hover = -1
	}
	c.mode = Idle
}

func (c *Controller) updateHover(p Pointer) {
	wx, wy := c.view.ScreenToWorld(p.X, p.Y)
	c.hover = c.hitTest(wx, wy)
	c.tipX, c.tipY = p.X, p.Y
}

func (c *Controller) hitTest(wx, wy float64) int {
	if c.sim == nil {
		return -1
	}
	return HitTest(c.sim, wx, wy)
}

// HitTest returns the top-most node containing the world point, or -1.
// Later indices are drawn on top, so the scan runs backwards.
func HitTest(nodes Nodes, wx, wy float64) int {
	for i := nodes.Len() - 1; i >= 0; i-- {
		x, y := nodes.Position(i)
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			continue
		}
		r := nodes.Radius(i)
		dx, dy := wx-x, wy-y
		if dx*dx+dy*dy <= r*r {
			return i
		}
	}
	return -1
}
