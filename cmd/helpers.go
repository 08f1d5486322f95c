package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mj1618/desktop-throw/internal/config"
	"github.com/mj1618/desktop-throw/internal/platform"
	"github.com/spf13/cobra"
)

// loadConfig reads the config file named by --config (or the default path)
// and applies any physics flags given on the command line. An explicit
// --config file must exist.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return config.Config{}, fmt.Errorf("config file: %w", err)
		}
	} else {
		path = config.DefaultPath()
	}
	return loadConfigFrom(cmd, path)
}

// loadConfigFrom reads path, which may be missing, and applies flag overrides.
func loadConfigFrom(cmd *cobra.Command, path string) (config.Config, error) {
	flags := cmd.Flags()
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if flags.Changed("friction") {
		cfg.Friction, _ = flags.GetFloat64("friction")
	}
	if flags.Changed("snap-threshold") {
		cfg.SnapThreshold, _ = flags.GetFloat64("snap-threshold")
	}
	if flags.Changed("constrain-x") {
		cfg.ConstrainX, _ = flags.GetBool("constrain-x")
	}
	if flags.Changed("constrain-y") {
		cfg.ConstrainY, _ = flags.GetBool("constrain-y")
	}
	if flags.Changed("estimator") {
		cfg.Estimator, _ = flags.GetString("estimator")
	}
	if flags.Changed("ring-capacity") {
		cfg.RingCapacity, _ = flags.GetInt("ring-capacity")
	}
	if flags.Changed("frame-rate") {
		cfg.FrameRate, _ = flags.GetInt("frame-rate")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger returns a stderr logger when --verbose is set, otherwise a
// logger that discards everything.
func newLogger(cmd *cobra.Command) *log.Logger {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return log.New(os.Stderr, "desktop-throw: ", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

// parseGeometry parses an "x,y,w,h" flag with an optional border width.
func parseGeometry(s string, border int) (platform.Geometry, error) {
	b, err := platform.ParseBounds(s)
	if err != nil {
		return platform.Geometry{}, err
	}
	if border < 0 {
		return platform.Geometry{}, fmt.Errorf("border must be >= 0, got %d", border)
	}
	return platform.Geometry{
		X: b.X, Y: b.Y, Width: b.Width, Height: b.Height,
		Borders: platform.Borders{Left: border, Right: border, Top: border, Bottom: border},
	}, nil
}
