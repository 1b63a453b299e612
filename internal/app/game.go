// Package app runs the cluster graph in an Ebitengine window.
package app

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/olivierh59500/clustergraph/internal/config"
	"github.com/olivierh59500/clustergraph/internal/force"
	"github.com/olivierh59500/clustergraph/internal/graph"
	"github.com/olivierh59500/clustergraph/internal/interact"
	"github.com/olivierh59500/clustergraph/internal/render"
	"github.com/olivierh59500/clustergraph/internal/viewport"
)

const (
	mousePointer   = -1
	thresholdStep  = 0.05
	thresholdFloor = 0.1
	thresholdCeil  = 0.8
)

// Game holds the window state. It implements ebiten.Game.
type Game struct {
	cfg      *config.Config
	logger   *slog.Logger
	clusters []graph.Cluster
	opts     graph.Options

	graph  *graph.Graph
	engine *force.Engine
	view   *viewport.Controller
	input  *interact.Controller

	snapshot []force.Point
	frame    render.Frame
	dropped  int

	Width, Height int
	Paused        bool

	mouseX, mouseY float64
	mouseDown      bool
	touchIDs       []ebiten.TouchID
	touchPos       map[ebiten.TouchID][2]float64
}

// NewGame builds the graph for clusters and starts its simulation.
func NewGame(cfg *config.Config, clusters []graph.Cluster, logger *slog.Logger) (*Game, error) {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Game{
		cfg:      cfg,
		logger:   logger,
		clusters: clusters,
		opts:     cfg.GraphOptions(),
		Width:    cfg.View.Width,
		Height:   cfg.View.Height,
		touchPos: make(map[ebiten.TouchID][2]float64),
	}
	g.view = viewport.New(viewport.Box{Width: float64(g.Width), Height: float64(g.Height)})
	g.input = interact.New(g.view, nil)
	if err := g.rebuild(); err != nil {
		return nil, err
	}
	return g, nil
}

// SetClusters replaces the input records and rebuilds the graph.
func (g *Game) SetClusters(clusters []graph.Cluster) error {
	g.clusters = clusters
	return g.rebuild()
}

// SetThreshold changes the similarity threshold and rebuilds the graph.
func (g *Game) SetThreshold(t float64) error {
	g.opts.Threshold = t
	return g.rebuild()
}

// rebuild discards the running simulation and starts a hot one for the
// current clusters and threshold.
func (g *Game) rebuild() error {
	gr, err := graph.Build(g.clusters, g.opts)
	if err != nil {
		return err
	}
	if g.engine != nil {
		g.engine.Stop()
	}
	g.graph = gr
	g.engine = force.New(gr, g.cfg.ForceParams(float64(g.Width), float64(g.Height)),
		force.WithSeed(g.cfg.Simulation.Seed), force.WithLogger(g.logger))
	if gr.Empty() {
		g.input.SetSimulation(nil)
	} else {
		g.input.SetSimulation(g.engine)
	}
	g.snapshot = g.engine.Snapshot(g.snapshot)
	g.logger.Info("graph built",
		"nodes", len(gr.Nodes), "edges", len(gr.Edges), "threshold", gr.Threshold)
	return nil
}

// Close stops the simulation.
func (g *Game) Close() {
	if g.engine != nil {
		g.engine.Stop()
	}
}

// Update is called each tick by Ebitengine: input, one simulation step,
// snapshot, then compose the frame Draw will paint.
func (g *Game) Update() error {
	g.handleInput()

	if !g.Paused {
		g.engine.Tick()
	}
	g.snapshot = g.engine.Snapshot(g.snapshot)

	node, x, y, ok := g.input.Hover()
	g.frame = render.Compose(g.graph, g.snapshot, g.view, render.Hover{Node: node, X: x, Y: y, OK: ok})
	if g.frame.Dropped > 0 && g.frame.Dropped != g.dropped {
		g.logger.Warn("skipping nodes with non-finite positions", "count", g.frame.Dropped)
	}
	g.dropped = g.frame.Dropped
	return nil
}

// Layout tracks the window size. A resize re-measures the view and moves
// the layout center without reheating the simulation.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != g.Width || outsideHeight != g.Height) {
		g.Width, g.Height = outsideWidth, outsideHeight
		g.view.Resize(viewport.Box{Width: float64(g.Width), Height: float64(g.Height)})
		g.engine.SetCenter(float64(g.Width), float64(g.Height))
	}
	return g.Width, g.Height
}

// handleInput processes keyboard, mouse and touch input
func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.Paused = !g.Paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.input.ResetView()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.stepThreshold(thresholdStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.stepThreshold(-thresholdStep)
	}

	g.handleMouse()
	g.handleTouches()
}

func (g *Game) stepThreshold(d float64) {
	t := math.Round((g.opts.Threshold+d)*100) / 100
	t = math.Max(thresholdFloor, math.Min(thresholdCeil, t))
	if t == g.opts.Threshold {
		return
	}
	if err := g.SetThreshold(t); err != nil {
		g.logger.Error("rebuild failed", "threshold", t, "error", err)
	}
}

func (g *Game) handleMouse() {
	cx, cy := ebiten.CursorPosition()
	mx, my := float64(cx), float64(cy)
	p := interact.Pointer{ID: mousePointer, X: mx, Y: my}

	if !ebiten.IsFocused() {
		if g.mouseDown {
			g.input.Handle(interact.Event{Kind: interact.Cancel, Pointer: p})
			g.mouseDown = false
		}
		return
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if resetButton(g.Width, g.Height).contains(mx, my) {
			g.input.ResetView()
		} else {
			g.input.Handle(interact.Event{Kind: interact.Down, Pointer: p})
			g.mouseDown = true
		}
	}
	if mx != g.mouseX || my != g.mouseY {
		g.input.Handle(interact.Event{Kind: interact.Move, Pointer: p})
	}
	if g.mouseDown && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.input.Handle(interact.Event{Kind: interact.Up, Pointer: p})
		g.mouseDown = false
	}
	g.mouseX, g.mouseY = mx, my

	// Ebitengine reports wheel-up as positive; the view zooms in on it.
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.input.Wheel(mx, my, -wy)
	}
}

func (g *Game) handleTouches() {
	g.touchIDs = inpututil.AppendJustReleasedTouchIDs(g.touchIDs[:0])
	for _, id := range g.touchIDs {
		pos := g.touchPos[id]
		delete(g.touchPos, id)
		g.input.Handle(interact.Event{Kind: interact.Up, Pointer: touchPointer(id, pos[0], pos[1])})
	}

	g.touchIDs = inpututil.AppendJustPressedTouchIDs(g.touchIDs[:0])
	for _, id := range g.touchIDs {
		tx, ty := ebiten.TouchPosition(id)
		x, y := float64(tx), float64(ty)
		g.touchPos[id] = [2]float64{x, y}
		g.input.Handle(interact.Event{Kind: interact.Down, Pointer: touchPointer(id, x, y)})
	}

	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	for _, id := range g.touchIDs {
		tx, ty := ebiten.TouchPosition(id)
		x, y := float64(tx), float64(ty)
		if prev, ok := g.touchPos[id]; ok && prev == [2]float64{x, y} {
			continue
		}
		g.touchPos[id] = [2]float64{x, y}
		g.input.Handle(interact.Event{Kind: interact.Move, Pointer: touchPointer(id, x, y)})
	}
}

func touchPointer(id ebiten.TouchID, x, y float64) interact.Pointer {
	return interact.Pointer{ID: int(id), X: x, Y: y, Touch: true}
}

// status is the one-line summary in the corner of the window.
func (g *Game) status() string {
	state := "running"
	switch {
	case g.Paused:
		state = "paused"
	case g.engine.Settled():
		state = "settled"
	}
	return fmt.Sprintf("%d clusters  %d edges  threshold %.2f  alpha %.3f  %s",
		len(g.graph.Nodes), len(g.graph.Edges), g.graph.Threshold, g.engine.Alpha(), state)
}

// Run opens the window and blocks until it is closed.
func Run(g *Game) error {
	defer g.Close()
	ebiten.SetWindowSize(g.Width, g.Height)
	ebiten.SetWindowTitle(g.cfg.View.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.cfg.View.TPS)
	return ebiten.RunGame(g)
}
