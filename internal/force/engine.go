// Package force lays out a similarity graph with a damped, cooling
// force simulation: n-body repulsion, similarity springs, centering and
// collision.
//
// Every pass in a tick reads one position snapshot and writes into
// temporary velocity buffers; positions only move once all forces are in.
// Repulsion and collision are all-pairs, so a tick costs O(n²). Graph size
// is bounded upstream by graph.Options.MaxNodes.
package force

import (
	"context"
	"log/slog"
	"math"
	"math/rand"

	"github.com/olivierh59500/clustergraph/internal/graph"
)

const (
	initialRadius = 10.0
	jiggleScale   = 1e-6
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Point is a position in world space.
type Point struct {
	X, Y float64
}

type link struct {
	source, target int
	distance       float64
	strength       float64
	bias           float64
}

// Engine owns the mutable layout state of one graph.
type Engine struct {
	params Params

	// Node state, indexed like graph.Graph.Nodes.
	x, y    []float64
	vx, vy  []float64
	fx, fy  []float64
	pinned  []bool
	radius  []float64
	links   []link
	cx, cy  float64
	alpha   float64
	target  float64
	ticks   int
	settled bool
	stopped bool
	rng     *rand.Rand
	logger  *slog.Logger

	// Per tick scratch.
	sx, sy []float64
	tempVX []float64
	tempVY []float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed fixes the source used to separate coincident nodes.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithLogger sets the logger used for invariant violations.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New seeds node positions on a spiral around the layout center and
// starts the simulation hot.
func New(g *graph.Graph, p Params, opts ...Option) *Engine {
	n := len(g.Nodes)
	e := &Engine{
		params: p,
		x:      make([]float64, n),
		y:      make([]float64, n),
		vx:     make([]float64, n),
		vy:     make([]float64, n),
		fx:     make([]float64, n),
		fy:     make([]float64, n),
		pinned: make([]bool, n),
		radius: make([]float64, n),
		sx:     make([]float64, n),
		sy:     make([]float64, n),
		tempVX: make([]float64, n),
		tempVY: make([]float64, n),
		cx:     p.Width / 2,
		cy:     p.Height / 2,
		alpha:  1,
		rng:    rand.New(rand.NewSource(1)),
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}

	for i, node := range g.Nodes {
		e.radius[i] = node.Radius
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		e.x[i] = e.cx + r*math.Cos(a)
		e.y[i] = e.cy + r*math.Sin(a)
	}

	e.links = make([]link, len(g.Edges))
	for k, edge := range g.Edges {
		ds, dt := g.Degree(edge.Source), g.Degree(edge.Target)
		e.links[k] = link{
			source:   edge.Source,
			target:   edge.Target,
			distance: p.LinkDistance * (1 - edge.Similarity),
			strength: edge.Similarity * p.LinkStrengthScale,
			bias:     float64(ds) / float64(ds+dt),
		}
	}
	return e
}

// Tick advances the layout by one step. It returns false without doing
// anything once the engine is stopped or has cooled below AlphaMin.
func (e *Engine) Tick() bool {
	if e.stopped || e.settled {
		return false
	}
	e.alpha += (e.target - e.alpha) * e.params.AlphaDecay

	n := len(e.x)
	copy(e.sx, e.x)
	copy(e.sy, e.y)
	for i := 0; i < n; i++ {
		e.tempVX[i] = 0
		e.tempVY[i] = 0
	}

	e.applyCharge()
	e.applyLinks()
	e.applyCenter()
	e.applyCollide()

	damp := 1 - e.params.VelocityDecay
	for i := 0; i < n; i++ {
		if e.pinned[i] {
			e.x[i], e.y[i] = e.fx[i], e.fy[i]
			e.vx[i], e.vy[i] = 0, 0
			continue
		}
		e.vx[i] = (e.vx[i] + e.tempVX[i]) * damp
		e.vy[i] = (e.vy[i] + e.tempVY[i]) * damp
		e.x[i] += e.vx[i]
		e.y[i] += e.vy[i]

		if !finite(e.x[i]) || !finite(e.y[i]) {
			e.logger.Error("force: non-finite position, restoring",
				"node", i, "tick", e.ticks, "x", e.x[i], "y", e.y[i])
			e.x[i], e.y[i] = e.sx[i], e.sy[i]
			e.vx[i], e.vy[i] = 0, 0
		}
	}

	e.ticks++
	if e.alpha < e.params.AlphaMin && e.target == 0 {
		e.settled = true
		e.logger.Debug("force: layout settled", "ticks", e.ticks, "alpha", e.alpha)
	}
	return true
}

// applyCharge is the n-body repulsion. The squared distance is floored at
// 1 so near-coincident nodes do not receive unbounded kicks.
func (e *Engine) applyCharge() {
	w := e.params.Charge * e.alpha
	if w == 0 {
		return
	}
	n := len(e.sx)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := e.sx[j] - e.sx[i]
			dy := e.sy[j] - e.sy[i]
			if dx == 0 && dy == 0 {
				dx, dy = e.jiggle(), e.jiggle()
			}
			l := dx*dx + dy*dy
			if l < 1 {
				l = math.Sqrt(l)
			}
			k := w / l
			e.tempVX[i] += dx * k
			e.tempVY[i] += dy * k
			e.tempVX[j] -= dx * k
			e.tempVY[j] -= dy * k
		}
	}
}

// applyLinks pulls linked nodes toward their rest length. The correction
// is split between the endpoints by degree so hubs move less.
func (e *Engine) applyLinks() {
	for _, l := range e.links {
		dx := e.sx[l.target] + e.vx[l.target] - e.sx[l.source] - e.vx[l.source]
		dy := e.sy[l.target] + e.vy[l.target] - e.sy[l.source] - e.vy[l.source]
		if dx == 0 && dy == 0 {
			dx, dy = e.jiggle(), e.jiggle()
		}
		d := math.Sqrt(dx*dx + dy*dy)
		k := (d - l.distance) / d * e.alpha * l.strength
		dx *= k
		dy *= k
		e.tempVX[l.target] -= dx * l.bias
		e.tempVY[l.target] -= dy * l.bias
		e.tempVX[l.source] += dx * (1 - l.bias)
		e.tempVY[l.source] += dy * (1 - l.bias)
	}
}

func (e *Engine) applyCenter() {
	n := len(e.sx)
	if n == 0 || e.params.CenterStrength == 0 {
		return
	}
	var mx, my float64
	for i := 0; i < n; i++ {
		mx += e.sx[i]
		my += e.sy[i]
	}
	mx /= float64(n)
	my /= float64(n)
	kx := (e.cx - mx) * e.params.CenterStrength
	ky := (e.cy - my) * e.params.CenterStrength
	for i := 0; i < n; i++ {
		e.tempVX[i] += kx
		e.tempVY[i] += ky
	}
}

// applyCollide separates overlapping circles, moving the smaller one more.
func (e *Engine) applyCollide() {
	n := len(e.sx)
	pad := e.params.CollidePadding
	for i := 0; i < n; i++ {
		xi := e.sx[i] + e.vx[i]
		yi := e.sy[i] + e.vy[i]
		ri2 := e.radius[i] * e.radius[i]
		for j := i + 1; j < n; j++ {
			minDist := e.radius[i] + e.radius[j] + pad
			dx := xi - e.sx[j] - e.vx[j]
			dy := yi - e.sy[j] - e.vy[j]
			l := dx*dx + dy*dy
			if l >= minDist*minDist {
				continue
			}
			if dx == 0 {
				dx = e.jiggle()
				l += dx * dx
			}
			if dy == 0 {
				dy = e.jiggle()
				l += dy * dy
			}
			d := math.Sqrt(l)
			k := (minDist - d) / d * e.params.CollideStrength
			dx *= k
			dy *= k
			rj2 := e.radius[j] * e.radius[j]
			share := 0.5
			if ri2+rj2 > 0 {
				share = rj2 / (ri2 + rj2)
			}
			e.tempVX[i] += dx * share
			e.tempVY[i] += dy * share
			e.tempVX[j] -= dx * (1 - share)
			e.tempVY[j] -= dy * (1 - share)
		}
	}
}

func (e *Engine) jiggle() float64 {
	return (e.rng.Float64() - 0.5) * jiggleScale
}

// RunUntilSettled ticks until the layout cools, the engine is stopped,
// maxTicks is reached, or ctx is done. It returns the ticks it ran.
func (e *Engine) RunUntilSettled(ctx context.Context, maxTicks int) (int, error) {
	ran := 0
	for maxTicks <= 0 || ran < maxTicks {
		if err := ctx.Err(); err != nil {
			return ran, err
		}
		if !e.Tick() {
			break
		}
		ran++
	}
	return ran, nil
}

// Stop halts the engine for good. Later ticks are no-ops.
func (e *Engine) Stop() { e.stopped = true }

// Stopped reports whether Stop was called.
func (e *Engine) Stopped() bool { return e.stopped }

// Settled reports whether the layout has cooled to rest.
func (e *Engine) Settled() bool { return e.settled }

// Restart wakes a settled engine without changing alpha.
func (e *Engine) Restart() { e.settled = false }

// Reheat resets alpha to 1 and wakes the engine.
func (e *Engine) Reheat() {
	e.alpha = 1
	e.settled = false
}

// SetAlphaTarget sets the level alpha decays toward.
func (e *Engine) SetAlphaTarget(t float64) { e.target = t }

// Alpha returns the current energy.
func (e *Engine) Alpha() float64 { return e.alpha }

// AlphaTarget returns the level alpha is decaying toward.
func (e *Engine) AlphaTarget() float64 { return e.target }

// DragAlphaTarget is the sustained energy requested while a node is held.
func (e *Engine) DragAlphaTarget() float64 { return e.params.DragAlphaTarget }

// Ticks returns the number of completed ticks.
func (e *Engine) Ticks() int { return e.ticks }

// SetCenter moves the centering target to the middle of a w×h area.
// Alpha is left alone.
func (e *Engine) SetCenter(w, h float64) {
	e.cx, e.cy = w/2, h/2
}

// Len returns the node count.
func (e *Engine) Len() int { return len(e.x) }

// Position returns the current position of node i.
func (e *Engine) Position(i int) (float64, float64) { return e.x[i], e.y[i] }

// Radius returns the radius of node i.
func (e *Engine) Radius(i int) float64 { return e.radius[i] }

// Pin holds node i at (x, y) until Unpin. The node moves there at once.
// A non-finite pin is dropped; it would poison every pairwise force.
func (e *Engine) Pin(i int, x, y float64) {
	if !finite(x) || !finite(y) {
		e.logger.Error("force: non-finite pin ignored", "node", i, "x", x, "y", y)
		return
	}
	e.pinned[i] = true
	e.fx[i], e.fy[i] = x, y
	e.x[i], e.y[i] = x, y
	e.vx[i], e.vy[i] = 0, 0
}

// Unpin releases node i back to the integrator.
func (e *Engine) Unpin(i int) {
	e.pinned[i] = false
	e.fx[i], e.fy[i] = 0, 0
}

// Pinned returns the pin of node i, if any.
func (e *Engine) Pinned(i int) (x, y float64, ok bool) {
	if !e.pinned[i] {
		return 0, 0, false
	}
	return e.fx[i], e.fy[i], true
}

// Snapshot appends the current positions to dst[:0] and returns it.
func (e *Engine) Snapshot(dst []Point) []Point {
	dst = dst[:0]
	for i := range e.x {
		dst = append(dst, Point{X: e.x[i], Y: e.y[i]})
	}
	return dst
}

// Bounds returns the box enclosing every node circle. It is zero for an
// empty engine.
func (e *Engine) Bounds() (minX, minY, maxX, maxY float64) {
	if len(e.x) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for i := range e.x {
		r := e.radius[i]
		minX = math.Min(minX, e.x[i]-r)
		minY = math.Min(minY, e.y[i]-r)
		maxX = math.Max(maxX, e.x[i]+r)
		maxY = math.Max(maxY, e.y[i]+r)
	}
	return minX, minY, maxX, maxY
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
