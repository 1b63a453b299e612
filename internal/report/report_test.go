package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/olivierh59500/clustergraph/internal/force"
	"github.com/olivierh59500/clustergraph/internal/graph"
)

func init() { color.NoColor = true }

func TestSummarizeAndWrite(t *testing.T) {
	g, err := graph.Build([]graph.Cluster{
		{ID: 1, Label: "go", MemberCount: 30, Centroid: []float64{1, 0}},
		{ID: 2, Label: "rust", MemberCount: 20, Centroid: []float64{0.9, 0.2}},
		{ID: 3, Label: "cooking", MemberCount: 10, Centroid: []float64{0, 1}},
		{ID: 4, Label: "no vector", MemberCount: 5},
	}, graph.Options{Threshold: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	e := force.New(g, force.DefaultParams())
	if _, err := e.RunUntilSettled(context.Background(), 5000); err != nil {
		t.Fatal(err)
	}

	s := Summarize(g, e, 5)
	if s.Nodes != 4 || s.Edges != 1 || s.Isolated != 2 || !s.Settled {
		t.Errorf("summary = %+v", s)
	}
	if len(s.Strongest) != 1 || s.Strongest[0].Source != "go" || s.Strongest[0].Target != "rust" {
		t.Errorf("strongest = %+v", s.Strongest)
	}
	if s.MaxX <= s.MinX || s.MaxY <= s.MinY {
		t.Errorf("degenerate bounds %+v", s)
	}

	var buf bytes.Buffer
	if err := Write(&buf, s); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"clusters 4", "edges 1", "isolated 2", "settled", "go - rust"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Summary{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No clusters available") {
		t.Errorf("empty output = %q", buf.String())
	}
}

func TestWriteAlignsNonASCIILabels(t *testing.T) {
	s := Summary{Nodes: 4, Edges: 2, Strongest: []Pair{
		{Source: "café", Target: "thé", Similarity: 0.91},
		{Source: "tea", Target: "coffee", Similarity: 0.52},
	}}
	var buf bytes.Buffer
	if err := Write(&buf, s); err != nil {
		t.Fatal(err)
	}
	cols := map[string]int{}
	for _, line := range strings.Split(buf.String(), "\n") {
		for _, sim := range []string{"0.910", "0.520"} {
			if i := strings.Index(line, sim); i >= 0 {
				cols[sim] = utf8.RuneCountInString(line[:i])
			}
		}
	}
	if len(cols) != 2 || cols["0.910"] != cols["0.520"] {
		t.Errorf("similarity columns %v not aligned:\n%s", cols, buf.String())
	}
}
