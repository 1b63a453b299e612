// Package report prints a terminal summary of a settled layout.
package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/olivierh59500/clustergraph/internal/force"
	"github.com/olivierh59500/clustergraph/internal/graph"
	"github.com/olivierh59500/clustergraph/internal/render"
)

var (
	Title  = color.New(color.FgHiGreen, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Info   = color.New(color.FgCyan)
	Warn   = color.New(color.FgYellow)
)

// Pair is one edge named by its cluster labels.
type Pair struct {
	Source, Target string
	Similarity     float64
}

// Summary describes a graph and the state of its simulation.
type Summary struct {
	Nodes, Edges int
	Isolated     int
	Threshold    float64
	Ticks        int
	Settled      bool
	Alpha        float64
	// Bounds of the laid-out node circles.
	MinX, MinY, MaxX, MaxY float64
	Strongest              []Pair
}

// Summarize collects the summary of g as laid out by e, listing up to top
// of the strongest edges.
func Summarize(g *graph.Graph, e *force.Engine, top int) Summary {
	s := Summary{
		Nodes:     len(g.Nodes),
		Edges:     len(g.Edges),
		Threshold: g.Threshold,
		Ticks:     e.Ticks(),
		Settled:   e.Settled(),
		Alpha:     e.Alpha(),
	}
	for i := range g.Nodes {
		if g.Degree(i) == 0 {
			s.Isolated++
		}
	}
	s.MinX, s.MinY, s.MaxX, s.MaxY = e.Bounds()
	for _, edge := range g.StrongestEdges(top) {
		s.Strongest = append(s.Strongest, Pair{
			Source:     g.Nodes[edge.Source].Label,
			Target:     g.Nodes[edge.Target].Label,
			Similarity: edge.Similarity,
		})
	}
	return s
}

// Write prints s to w.
func Write(w io.Writer, s Summary) error {
	var b strings.Builder
	b.WriteString(Title.Sprint("cluster graph") + "\n")
	if s.Nodes == 0 {
		b.WriteString("  " + Warn.Sprint(render.EmptyMessage) + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	state := Warn.Sprint("still moving")
	if s.Settled {
		state = Info.Sprint("settled")
	}
	fmt.Fprintf(&b, "  %s %d  %s %d  %s %d  %s %.2f\n",
		Subtle.Sprint("clusters"), s.Nodes,
		Subtle.Sprint("edges"), s.Edges,
		Subtle.Sprint("isolated"), s.Isolated,
		Subtle.Sprint("threshold"), s.Threshold)
	fmt.Fprintf(&b, "  %s after %d ticks (alpha %.4f)\n", state, s.Ticks, s.Alpha)
	fmt.Fprintf(&b, "  %s %.0f×%.0f at (%.0f, %.0f)\n",
		Subtle.Sprint("extent"), s.MaxX-s.MinX, s.MaxY-s.MinY, s.MinX, s.MinY)

	if len(s.Strongest) > 0 {
		b.WriteString("\n" + Title.Sprint("strongest edges") + "\n")
		width := 0
		for _, p := range s.Strongest {
			if n := utf8.RuneCountInString(p.Source + " - " + p.Target); n > width {
				width = n
			}
		}
		for _, p := range s.Strongest {
			name := p.Source + " - " + p.Target
			pad := width - utf8.RuneCountInString(name)
			fmt.Fprintf(&b, "  %s%s  %s\n", name, strings.Repeat(" ", pad), Info.Sprintf("%.3f", p.Similarity))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
