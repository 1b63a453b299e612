// Package render turns a graph and a position snapshot into a screen-space
// frame: edge lines, node circles, labels and the tooltip panel. It does
// no drawing itself, so the same frame can be painted by any backend.
package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/olivierh59500/clustergraph/internal/force"
	"github.com/olivierh59500/clustergraph/internal/graph"
	"github.com/olivierh59500/clustergraph/internal/viewport"
)

const (
	EmptyMessage = "No clusters available"

	// LabelMinRadius is the smallest world radius that gets a label.
	LabelMinRadius = 12.0
	labelMaxRunes  = 14
	labelKeepRunes = 12

	FillOpacity   = 0.7
	StrokeOpacity = 0.9
	StrokeWidth   = 1.5
)

// EdgeColor is the base stroke color of edges.
var EdgeColor = color.RGBA{148, 163, 184, 255}

// Palette is the fixed categorical node palette.
var Palette = []color.RGBA{
	{0x63, 0x66, 0xf1, 0xff}, {0x8b, 0x5c, 0xf6, 0xff}, {0xa8, 0x55, 0xf7, 0xff},
	{0xd9, 0x46, 0xef, 0xff}, {0xec, 0x48, 0x99, 0xff}, {0xf4, 0x3f, 0x5e, 0xff},
	{0xf9, 0x73, 0x16, 0xff}, {0xea, 0xb3, 0x08, 0xff}, {0x22, 0xc5, 0x5e, 0xff},
	{0x14, 0xb8, 0xa6, 0xff}, {0x06, 0xb6, 0xd4, 0xff}, {0x3b, 0x82, 0xf6, 0xff},
	{0x25, 0x63, 0xeb, 0xff}, {0x7c, 0x3a, 0xed, 0xff}, {0xc0, 0x26, 0xd3, 0xff},
}

// Edge is a line between two node centers.
type Edge struct {
	X1, Y1, X2, Y2 float64
	Width          float64
	Opacity        float64
	Similarity     float64
}

// Node is one circle, with its label if it is large enough to carry one.
type Node struct {
	Index int
	ID    int
	X, Y  float64
	R     float64
	Fill  color.RGBA
	Label string
}

// Hover asks for a tooltip on Node, anchored at screen point (X, Y).
type Hover struct {
	Node int
	X, Y float64
	OK   bool
}

// Frame is everything to paint for one tick.
type Frame struct {
	Empty   bool
	Message string
	Edges   []Edge
	Nodes   []Node
	Tooltip *Tooltip
	// Dropped counts nodes skipped for non-finite positions.
	Dropped int
}

// Compose builds the frame for g at the snapshot positions as seen
// through view. pos must be indexed like g.Nodes.
func Compose(g *graph.Graph, pos []force.Point, view *viewport.Controller, hover Hover) Frame {
	if g.Empty() {
		return Frame{Empty: true, Message: EmptyMessage}
	}
	scale, _ := view.Scale()
	f := Frame{
		Edges: make([]Edge, 0, len(g.Edges)),
		Nodes: make([]Node, 0, len(g.Nodes)),
	}

	ok := make([]bool, len(g.Nodes))
	for i := range g.Nodes {
		if i < len(pos) {
			ok[i] = finite(pos[i].X) && finite(pos[i].Y)
		}
		if !ok[i] {
			f.Dropped++
		}
	}

	for _, e := range g.Edges {
		if !ok[e.Source] || !ok[e.Target] {
			continue
		}
		x1, y1 := view.WorldToScreen(pos[e.Source].X, pos[e.Source].Y)
		x2, y2 := view.WorldToScreen(pos[e.Target].X, pos[e.Target].Y)
		f.Edges = append(f.Edges, Edge{
			X1: x1, Y1: y1, X2: x2, Y2: y2,
			Width:      EdgeWidth(e.Similarity) * scale,
			Opacity:    EdgeOpacity(e.Similarity),
			Similarity: e.Similarity,
		})
	}

	for i, n := range g.Nodes {
		if !ok[i] {
			continue
		}
		x, y := view.WorldToScreen(pos[i].X, pos[i].Y)
		node := Node{Index: i, ID: n.ID, X: x, Y: y, R: n.Radius * scale, Fill: NodeColor(n.ID)}
		if n.Radius > LabelMinRadius {
			node.Label = Truncate(n.Label)
		}
		f.Nodes = append(f.Nodes, node)
	}

	if hover.OK && hover.Node >= 0 && hover.Node < len(g.Nodes) {
		box := view.Box()
		tip := NewTooltip(TooltipLines(g.Nodes[hover.Node]))
		tip.Place(hover.X, hover.Y, box.Left+box.Width, box.Top+box.Height)
		f.Tooltip = tip
	}
	return f
}

// EdgeWidth is the stroke width, in world units, for a similarity.
func EdgeWidth(s float64) float64 { return 1 + s*3 }

// EdgeOpacity grows with similarity from a visible floor of 0.2.
func EdgeOpacity(s float64) float64 {
	return math.Max(0.2, math.Min(1, 0.2+s*0.6))
}

// NodeColor picks the palette entry for a cluster id.
func NodeColor(id int) color.RGBA {
	n := len(Palette)
	return Palette[((id%n)+n)%n]
}

// Truncate shortens labels longer than 14 characters to 12 plus "...".
func Truncate(label string) string {
	if utf8.RuneCountInString(label) <= labelMaxRunes {
		return label
	}
	r := []rune(label)
	return string(r[:labelKeepRunes]) + "..."
}

// TooltipLines is the panel text for a node.
func TooltipLines(n graph.Node) []string {
	lines := []string{n.Label, fmt.Sprintf("%d members", n.MemberCount)}
	if d := strings.TrimSpace(n.Description); d != "" {
		lines = append(lines, Wrap(d, tooltipWrapRunes)...)
	}
	return lines
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
