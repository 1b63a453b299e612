// Package graph turns topic cluster records into a similarity graph.
//
// Nodes are kept in a flat slice and edges refer to them by index, so the
// force engine and the renderer can address the same node without sharing
// pointers.
package graph

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Defaults for Options.
const (
	DefaultThreshold = 0.3
	DefaultMinRadius = 8.0
	DefaultMaxRadius = 40.0
	// DefaultMaxNodes bounds the all-pairs edge and force passes, which are
	// O(n²·d) and O(n²) per tick respectively.
	DefaultMaxNodes = 500
)

var (
	ErrTooManyNodes    = errors.New("graph: node count exceeds limit")
	ErrDuplicateID     = errors.New("graph: duplicate cluster id")
	ErrNegativeMembers = errors.New("graph: negative member count")
	ErrBadThreshold    = errors.New("graph: threshold must be finite and positive")
)

// Cluster is one topic cluster record as delivered by the data layer.
type Cluster struct {
	ID          int       `json:"id" yaml:"id"`
	Label       string    `json:"label" yaml:"label"`
	MemberCount int       `json:"member_count" yaml:"member_count"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Centroid    []float64 `json:"centroid,omitempty" yaml:"centroid,omitempty"`
}

// Node is a cluster placed in the graph.
type Node struct {
	ID          int
	Label       string
	MemberCount int
	Description string
	Radius      float64
	HasCentroid bool
}

// Edge joins two nodes by index. Source is always less than Target.
type Edge struct {
	Source, Target int
	Similarity     float64
}

// Graph is the immutable result of Build.
type Graph struct {
	Nodes     []Node
	Edges     []Edge
	Threshold float64

	index  map[int]int
	degree []int
}

// Options controls graph construction.
type Options struct {
	Threshold float64
	MinRadius float64
	MaxRadius float64
	// MaxNodes is a hard ceiling; zero means DefaultMaxNodes.
	MaxNodes int
}

// DefaultOptions returns the reference settings.
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		MinRadius: DefaultMinRadius,
		MaxRadius: DefaultMaxRadius,
		MaxNodes:  DefaultMaxNodes,
	}
}

// Build creates nodes for every cluster and an edge for every pair of
// centroid-bearing clusters whose cosine similarity reaches the threshold.
func Build(clusters []Cluster, opts Options) (*Graph, error) {
	if math.IsNaN(opts.Threshold) || math.IsInf(opts.Threshold, 0) || opts.Threshold <= 0 {
		return nil, ErrBadThreshold
	}
	limit := opts.MaxNodes
	if limit <= 0 {
		limit = DefaultMaxNodes
	}
	if len(clusters) > limit {
		return nil, fmt.Errorf("%w: %d clusters, limit %d", ErrTooManyNodes, len(clusters), limit)
	}

	g := &Graph{
		Nodes:     make([]Node, len(clusters)),
		Threshold: opts.Threshold,
		index:     make(map[int]int, len(clusters)),
		degree:    make([]int, len(clusters)),
	}

	maxMembers := 0
	for i, c := range clusters {
		if c.MemberCount < 0 {
			return nil, fmt.Errorf("%w: cluster %d has %d", ErrNegativeMembers, c.ID, c.MemberCount)
		}
		if _, dup := g.index[c.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, c.ID)
		}
		g.index[c.ID] = i
		if c.MemberCount > maxMembers {
			maxMembers = c.MemberCount
		}
	}

	scale := NewRadiusScale(maxMembers, opts.MinRadius, opts.MaxRadius)
	for i, c := range clusters {
		g.Nodes[i] = Node{
			ID:          c.ID,
			Label:       c.Label,
			MemberCount: c.MemberCount,
			Description: c.Description,
			Radius:      scale.Radius(c.MemberCount),
			HasCentroid: len(c.Centroid) > 0,
		}
	}

	for i := 0; i < len(clusters); i++ {
		if !g.Nodes[i].HasCentroid {
			continue
		}
		for j := i + 1; j < len(clusters); j++ {
			if !g.Nodes[j].HasCentroid {
				continue
			}
			s := Similarity(clusters[i].Centroid, clusters[j].Centroid)
			if s >= opts.Threshold {
				g.Edges = append(g.Edges, Edge{Source: i, Target: j, Similarity: s})
				g.degree[i]++
				g.degree[j]++
			}
		}
	}
	return g, nil
}

// Similarity returns the cosine similarity of a and b. It is 0 when either
// vector has zero magnitude, when the lengths differ, or when the inputs are
// not finite.
func Similarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	denom := floats.Norm(a, 2) * floats.Norm(b, 2)
	if denom == 0 {
		return 0
	}
	s := floats.Dot(a, b) / denom
	switch {
	case math.IsNaN(s) || math.IsInf(s, 0):
		return 0
	case s > 1:
		return 1
	case s < -1:
		return -1
	}
	return s
}

// Empty reports whether the graph has no nodes.
func (g *Graph) Empty() bool { return g == nil || len(g.Nodes) == 0 }

// Index returns the node index for a cluster id.
func (g *Graph) Index(id int) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Degree returns the number of edges touching node i.
func (g *Graph) Degree(i int) int { return g.degree[i] }

// StrongestEdges returns up to k edges ordered by descending similarity.
func (g *Graph) StrongestEdges(k int) []Edge {
	out := append([]Edge(nil), g.Edges...)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Similarity > out[b].Similarity })
	if k >= 0 && k < len(out) {
		out = out[:k]
	}
	return out
}
