// Package source reads cluster records from disk and generates demo data.
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/aquilax/go-perlin"
	"gopkg.in/yaml.v3"

	"github.com/olivierh59500/clustergraph/internal/graph"
)

var ErrFormat = errors.New("source: unsupported file format")

// envelope is an object wrapping the records: the graph endpoint puts
// them under nodes, the paginated listing under items. Pointers tell an
// absent key from an empty list.
type envelope struct {
	Nodes *[]graph.Cluster `json:"nodes" yaml:"nodes"`
	Items *[]graph.Cluster `json:"items" yaml:"items"`
}

func (e envelope) clusters() ([]graph.Cluster, error) {
	switch {
	case e.Nodes != nil:
		return *e.Nodes, nil
	case e.Items != nil:
		return *e.Items, nil
	default:
		return nil, fmt.Errorf("%w: object has neither nodes nor items", ErrFormat)
	}
}

// Load reads clusters from a .json, .yaml or .yml file. A bare list and an
// object with a "nodes" or "items" list are accepted.
func Load(path string) ([]graph.Cluster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clusters: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return DecodeJSON(data)
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, ext)
	}
}

// DecodeJSON parses a JSON list of clusters or an object wrapping one.
func DecodeJSON(data []byte) ([]graph.Cluster, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var cs []graph.Cluster
		if err := json.Unmarshal(trimmed, &cs); err != nil {
			return nil, fmt.Errorf("decode clusters: %w", err)
		}
		return cs, nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode clusters: %w", err)
	}
	return env.clusters()
}

// DecodeYAML parses a YAML sequence of clusters or a mapping with nodes
// or items.
func DecodeYAML(data []byte) ([]graph.Cluster, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode clusters: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		var cs []graph.Cluster
		if err := root.Decode(&cs); err != nil {
			return nil, fmt.Errorf("decode clusters: %w", err)
		}
		return cs, nil
	}
	var env envelope
	if err := root.Decode(&env); err != nil {
		return nil, fmt.Errorf("decode clusters: %w", err)
	}
	return env.clusters()
}

// Demo generates n clusters whose centroids are read off a smooth noise
// field, so clusters with nearby indices point in similar directions.
func Demo(n, dim int, seed int64) []graph.Cluster {
	if dim <= 0 {
		dim = 16
	}
	noise := perlin.NewPerlin(2, 2, 3, seed)
	out := make([]graph.Cluster, n)
	for i := range out {
		t := float64(i) * 0.35
		centroid := make([]float64, dim)
		for d := range centroid {
			centroid[d] = noise.Noise2D(t, float64(d)*0.5+0.25)
		}
		members := int(math.Round(math.Abs(noise.Noise1D(t+100.5)) * 400))
		out[i] = graph.Cluster{
			ID:          i + 1,
			Label:       fmt.Sprintf("topic %02d", i+1),
			MemberCount: members,
			Description: fmt.Sprintf("Synthetic cluster %d of %d", i+1, n),
			Centroid:    centroid,
		}
	}
	return out
}
