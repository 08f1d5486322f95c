// Package config loads the throw settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mj1618/desktop-throw/internal/motion"
	"github.com/mj1618/desktop-throw/internal/platform"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable read by the throw driver and the X11 host.
type Config struct {
	Friction      float64 `yaml:"friction"       json:"friction"`
	ConstrainX    bool    `yaml:"constrain_x"    json:"constrain_x"`
	ConstrainY    bool    `yaml:"constrain_y"    json:"constrain_y"`
	SnapThreshold float64 `yaml:"snap_threshold" json:"snap_threshold"`
	Estimator     string  `yaml:"estimator"      json:"estimator"`
	RingCapacity  int     `yaml:"ring_capacity"  json:"ring_capacity"`
	FrameRate     int     `yaml:"frame_rate"     json:"frame_rate"`
	Button        string  `yaml:"button"         json:"button"`
	Modifier      string  `yaml:"modifier"       json:"modifier"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Friction:      3,
		ConstrainX:    true,
		ConstrainY:    true,
		SnapThreshold: 0.05,
		Estimator:     string(motion.KindRing),
		RingCapacity:  motion.DefaultRingCapacity,
		FrameRate:     60,
		Button:        "left",
		Modifier:      "Mod1",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/desktop-throw/config.yaml, falling
// back to the user config dir reported by the OS.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		d, err := os.UserConfigDir()
		if err != nil {
			return ""
		}
		dir = d
	}
	return filepath.Join(dir, "desktop-throw", "config.yaml")
}

// Load reads the config file at path on top of the defaults. A missing
// file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML config data on top of the defaults and validates it.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg as YAML to path, creating the parent directory.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks ranges and enum values.
func (c Config) Validate() error {
	if c.Friction < 0 {
		return fmt.Errorf("friction must be >= 0, got %v", c.Friction)
	}
	if c.SnapThreshold <= 0 {
		return fmt.Errorf("snap_threshold must be > 0, got %v", c.SnapThreshold)
	}
	if _, err := motion.ParseEstimatorKind(c.Estimator); err != nil {
		return err
	}
	if c.RingCapacity < 1 {
		return fmt.Errorf("ring_capacity must be > 0, got %d", c.RingCapacity)
	}
	if c.FrameRate < 1 || c.FrameRate > 1000 {
		return fmt.Errorf("frame_rate must be between 1 and 1000, got %d", c.FrameRate)
	}
	if _, err := platform.ParseMouseButton(c.Button); err != nil {
		return err
	}
	return nil
}

// Params returns the physics inputs for motion.Window.Tick.
func (c Config) Params() motion.Params {
	return motion.Params{
		Friction:      c.Friction,
		SnapThreshold: c.SnapThreshold,
		ConstrainX:    c.ConstrainX,
		ConstrainY:    c.ConstrainY,
	}
}

// NewEstimator returns a fresh estimator for one tracked window.
func (c Config) NewEstimator() motion.Estimator {
	kind, _ := motion.ParseEstimatorKind(c.Estimator)
	return motion.NewEstimator(kind, c.RingCapacity)
}

// FrameInterval is the time between frame ticks at FrameRate.
func (c Config) FrameInterval() time.Duration {
	if c.FrameRate < 1 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.FrameRate)
}

// ProviderOptions converts the input settings for platform.NewProvider.
func (c Config) ProviderOptions() (platform.ProviderOptions, error) {
	button, err := platform.ParseMouseButton(c.Button)
	if err != nil {
		return platform.ProviderOptions{}, err
	}
	return platform.ProviderOptions{
		Button:        button,
		Modifier:      c.Modifier,
		FrameInterval: c.FrameInterval(),
	}, nil
}
