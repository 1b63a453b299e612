// Package config loads clustergraph settings from TOML.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/olivierh59500/clustergraph/internal/force"
	"github.com/olivierh59500/clustergraph/internal/graph"
)

// Config holds all clustergraph settings.
type Config struct {
	Graph      GraphConfig      `toml:"graph"`
	Simulation SimulationConfig `toml:"simulation"`
	View       ViewConfig       `toml:"view"`
}

// GraphConfig controls edge construction and node sizing.
type GraphConfig struct {
	Threshold float64 `toml:"threshold"`
	MinRadius float64 `toml:"min_radius"`
	MaxRadius float64 `toml:"max_radius"`
	MaxNodes  int     `toml:"max_nodes"`
}

// SimulationConfig holds the force constants.
type SimulationConfig struct {
	Charge            float64 `toml:"charge"`
	LinkDistance      float64 `toml:"link_distance"`
	LinkStrengthScale float64 `toml:"link_strength_scale"`
	CollidePadding    float64 `toml:"collide_padding"`
	CenterStrength    float64 `toml:"center_strength"`
	VelocityDecay     float64 `toml:"velocity_decay"`
	AlphaDecay        float64 `toml:"alpha_decay"`
	AlphaMin          float64 `toml:"alpha_min"`
	DragAlphaTarget   float64 `toml:"drag_alpha_target"`
	Seed              int64   `toml:"seed"`
}

// ViewConfig controls the window.
type ViewConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	TPS    int    `toml:"tps"`
}

// Default returns the reference configuration.
func Default() *Config {
	gp := graph.DefaultOptions()
	fp := force.DefaultParams()
	return &Config{
		Graph: GraphConfig{
			Threshold: gp.Threshold,
			MinRadius: gp.MinRadius,
			MaxRadius: gp.MaxRadius,
			MaxNodes:  gp.MaxNodes,
		},
		Simulation: SimulationConfig{
			Charge:            fp.Charge,
			LinkDistance:      fp.LinkDistance,
			LinkStrengthScale: fp.LinkStrengthScale,
			CollidePadding:    fp.CollidePadding,
			CenterStrength:    fp.CenterStrength,
			VelocityDecay:     fp.VelocityDecay,
			AlphaDecay:        fp.AlphaDecay,
			AlphaMin:          fp.AlphaMin,
			DragAlphaTarget:   fp.DragAlphaTarget,
			Seed:              1,
		},
		View: ViewConfig{
			Width:  900,
			Height: 600,
			Title:  "Cluster Graph",
			TPS:    60,
		},
	}
}

// ConfigPath returns the default config file location.
func ConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "clustergraph", "config.toml")
}

// Load reads path over the defaults. A missing file yields the defaults;
// unknown keys are rejected so typos are not silently ignored.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges that would break the simulation or the window.
func (c *Config) Validate() error {
	switch {
	case math.IsNaN(c.Graph.Threshold) || math.IsInf(c.Graph.Threshold, 0) || c.Graph.Threshold <= 0:
		return errors.New("graph.threshold must be finite and positive")
	case c.Graph.MinRadius <= 0 || c.Graph.MaxRadius < c.Graph.MinRadius:
		return errors.New("graph radii must satisfy 0 < min_radius <= max_radius")
	case c.Graph.MaxNodes <= 0:
		return errors.New("graph.max_nodes must be positive")
	case c.Simulation.AlphaDecay <= 0 || c.Simulation.AlphaDecay >= 1:
		return errors.New("simulation.alpha_decay must be in (0, 1)")
	case c.Simulation.VelocityDecay < 0 || c.Simulation.VelocityDecay >= 1:
		return errors.New("simulation.velocity_decay must be in [0, 1)")
	case c.Simulation.AlphaMin <= 0:
		return errors.New("simulation.alpha_min must be positive")
	case c.View.Width <= 0 || c.View.Height <= 0:
		return errors.New("view dimensions must be positive")
	case c.View.TPS <= 0:
		return errors.New("view.tps must be positive")
	}
	return nil
}

// GraphOptions converts the graph section for graph.Build.
func (c *Config) GraphOptions() graph.Options {
	return graph.Options{
		Threshold: c.Graph.Threshold,
		MinRadius: c.Graph.MinRadius,
		MaxRadius: c.Graph.MaxRadius,
		MaxNodes:  c.Graph.MaxNodes,
	}
}

// ForceParams converts the simulation section for force.New, laid out on
// a w×h area.
func (c *Config) ForceParams(w, h float64) force.Params {
	p := force.DefaultParams()
	p.Charge = c.Simulation.Charge
	p.LinkDistance = c.Simulation.LinkDistance
	p.LinkStrengthScale = c.Simulation.LinkStrengthScale
	p.CollidePadding = c.Simulation.CollidePadding
	p.CenterStrength = c.Simulation.CenterStrength
	p.VelocityDecay = c.Simulation.VelocityDecay
	p.AlphaDecay = c.Simulation.AlphaDecay
	p.AlphaMin = c.Simulation.AlphaMin
	p.DragAlphaTarget = c.Simulation.DragAlphaTarget
	p.Width, p.Height = w, h
	return p
}
