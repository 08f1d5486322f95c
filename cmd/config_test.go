package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mj1618/desktop-throw/internal/config"
	"gopkg.in/yaml.v3"
)

func TestConfigCommand_Defaults(t *testing.T) {
	out, err := execute(t, "", "config")
	if err != nil {
		t.Fatal(err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg != config.Default() {
		t.Errorf("config = %+v, want defaults", cfg)
	}
}

func TestConfigCommand_FileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "throw.yaml")
	if err := os.WriteFile(path, []byte("friction: 6\nestimator: total\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "", "config", "--config", path, "--friction", "9", "--constrain-y=false")
	if err != nil {
		t.Fatal(err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Friction != 9 || cfg.Estimator != "total" || cfg.ConstrainY || !cfg.ConstrainX {
		t.Errorf("config = %+v", cfg)
	}
}

func TestConfigCommand_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir", "throw.yaml")
	out, err := execute(t, "", "config", "--config", path, "--write", "--ring-capacity", "8")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output = %q", out)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RingCapacity != 8 {
		t.Errorf("ring capacity = %d, want 8", cfg.RingCapacity)
	}
}

func TestConfigCommand_Path(t *testing.T) {
	out, err := execute(t, "", "config", "--path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), filepath.Join("desktop-throw", "config.yaml")) {
		t.Errorf("path = %q", out)
	}
}
