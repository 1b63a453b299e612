package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Graph.Threshold != 0.3 || cfg.Simulation.Charge != -200 || cfg.Simulation.AlphaDecay != 0.02 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.View.Width != 900 {
		t.Errorf("missing file did not yield defaults: %+v", cfg.View)
	}
	if cfg, err := Load(""); err != nil || cfg == nil {
		t.Errorf("Load(\"\") = %v, %v", cfg, err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[graph]
threshold = 0.55

[simulation]
charge = -120.5
seed = 9

[view]
title = "Topics"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Graph.Threshold != 0.55 || cfg.Simulation.Charge != -120.5 || cfg.Simulation.Seed != 9 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.View.Title != "Topics" || cfg.View.Width != 900 {
		t.Errorf("view = %+v", cfg.View)
	}
	if cfg.Graph.MaxRadius != 40 {
		t.Errorf("unset key lost its default: %v", cfg.Graph.MaxRadius)
	}

	p := cfg.ForceParams(1200, 800)
	if p.Charge != -120.5 || p.Width != 1200 || p.Height != 800 {
		t.Errorf("ForceParams = %+v", p)
	}
	if o := cfg.GraphOptions(); o.Threshold != 0.55 || o.MaxNodes != 500 {
		t.Errorf("GraphOptions = %+v", o)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "[graph]\nthreshhold = 0.4\n", "unknown key"},
		{"bad decay", "[simulation]\nalpha_decay = 1.5\n", "alpha_decay"},
		{"zero threshold", "[graph]\nthreshold = 0.0\n", "threshold"},
		{"negative threshold", "[graph]\nthreshold = -0.3\n", "threshold"},
		{"bad radius", "[graph]\nmin_radius = 50\nmax_radius = 10\n", "radii"},
		{"syntax", "[graph\n", "config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigPath(); got != "/tmp/xdg/clustergraph/config.toml" {
		t.Errorf("ConfigPath = %q", got)
	}
}
