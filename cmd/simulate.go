package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mj1618/desktop-throw/internal/model"
	"github.com/mj1618/desktop-throw/internal/motion"
	"github.com/mj1618/desktop-throw/internal/output"
	"github.com/mj1618/desktop-throw/internal/platform"
	"github.com/mj1618/desktop-throw/internal/scenario"
	"github.com/mj1618/desktop-throw/internal/throw"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Throw a window on a simulated screen",
	Long: `Release a window on an in-memory screen and print where it comes to rest.

The release velocity is given directly with --vx/--vy (px/ms), or estimated from
drag samples with --sample dx,dy,dt (repeatable).

Examples:
  desktop-throw simulate --vx 2 --vy 1
  desktop-throw simulate --sample 10,0,16 --sample 14,2,16 --sample 20,3,16
  desktop-throw simulate --vx 3 --friction 8 --points --format json
  desktop-throw simulate --vx 3 --save throw.json`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	addThrowFlags(simulateCmd)
	simulateCmd.Flags().Bool("points", false, "Include every frame in the output")
	simulateCmd.Flags().String("save", "", "Also write the trajectory as JSON to this file")
}

// addThrowFlags registers the flags shared by simulate, plot and trail.
func addThrowFlags(c *cobra.Command) {
	c.Flags().String("screen", "0,0,1920,1080", "Screen bounds as x,y,w,h")
	c.Flags().String("window", "100,100,400,300", "Window client bounds as x,y,w,h")
	c.Flags().Int("border", 0, "Window border width on every side")
	c.Flags().Float64("vx", 0, "Release velocity along x in px/ms")
	c.Flags().Float64("vy", 0, "Release velocity along y in px/ms")
	c.Flags().StringArray("sample", nil, "Drag sample dx,dy,dt (repeatable)")
	c.Flags().Int("frame-ms", 0, "Frame interval in ms (default from frame rate)")
	c.Flags().Int("frames", scenario.DefaultMaxFrames, "Maximum frames to simulate")
}

// simulateFromFlags runs the throw described by the shared flags.
func simulateFromFlags(cmd *cobra.Command) (model.Trajectory, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return model.Trajectory{}, err
	}

	screenStr, _ := cmd.Flags().GetString("screen")
	windowStr, _ := cmd.Flags().GetString("window")
	border, _ := cmd.Flags().GetInt("border")
	samples, _ := cmd.Flags().GetStringArray("sample")
	frameMs, _ := cmd.Flags().GetInt("frame-ms")
	frames, _ := cmd.Flags().GetInt("frames")

	screen, err := platform.ParseBounds(screenStr)
	if err != nil {
		return model.Trajectory{}, fmt.Errorf("--screen: %w", err)
	}
	win, err := parseGeometry(windowStr, border)
	if err != nil {
		return model.Trajectory{}, fmt.Errorf("--window: %w", err)
	}

	spec := scenario.ThrowSpec{
		Screen:    screen,
		Window:    win,
		FrameMs:   frameMs,
		MaxFrames: frames,
	}
	if cmd.Flags().Changed("vx") || cmd.Flags().Changed("vy") {
		vx, _ := cmd.Flags().GetFloat64("vx")
		vy, _ := cmd.Flags().GetFloat64("vy")
		spec.Velocity = &motion.Velocity{X: vx, Y: vy}
	}
	for _, s := range samples {
		sample, err := parseSample(s)
		if err != nil {
			return model.Trajectory{}, err
		}
		spec.Samples = append(spec.Samples, sample)
	}
	if spec.Velocity == nil && len(spec.Samples) == 0 {
		return model.Trajectory{}, fmt.Errorf("specify --vx/--vy or at least one --sample")
	}

	return scenario.Throw(cfg, spec, throw.WithLogger(newLogger(cmd)))
}

func runSimulate(cmd *cobra.Command, args []string) error {
	points, _ := cmd.Flags().GetBool("points")
	save, _ := cmd.Flags().GetString("save")

	traj, err := simulateFromFlags(cmd)
	if err != nil {
		return err
	}
	if save != "" {
		if err := model.SaveTrajectory(save, traj); err != nil {
			return err
		}
	}
	return output.Fprint(cmd.OutOrStdout(), output.NewThrowResult(traj, points))
}

// parseSample parses a "dx,dy,dt" drag sample.
func parseSample(s string) (scenario.DragSample, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return scenario.DragSample{}, fmt.Errorf("invalid sample %q: expected dx,dy,dt", s)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return scenario.DragSample{}, fmt.Errorf("invalid sample %q: %w", s, err)
		}
		vals[i] = v
	}
	if vals[2] < 0 {
		return scenario.DragSample{}, fmt.Errorf("invalid sample %q: dt must be >= 0", s)
	}
	return scenario.DragSample{DX: vals[0], DY: vals[1], DT: vals[2]}, nil
}
