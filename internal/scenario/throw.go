// Package scenario runs throws against the in-memory screen. It is shared by
// the simulate, replay, plot and trail commands and by the MCP server.
package scenario

import (
	"fmt"

	"github.com/mj1618/desktop-throw/internal/config"
	"github.com/mj1618/desktop-throw/internal/model"
	"github.com/mj1618/desktop-throw/internal/motion"
	"github.com/mj1618/desktop-throw/internal/platform"
	"github.com/mj1618/desktop-throw/internal/platform/sim"
	"github.com/mj1618/desktop-throw/internal/throw"
)

// DefaultMaxFrames bounds a simulated throw that never comes to rest.
const DefaultMaxFrames = 1000

// thrownWindow is the ID given to the single window of a ThrowSpec.
const thrownWindow platform.WindowID = 1

// DragSample is one pointer delta of a simulated drag, DT milliseconds after
// the previous one.
type DragSample struct {
	DX, DY, DT int
}

// ThrowSpec describes a single-window throw. Either Velocity or Samples
// must be set; Velocity wins when both are.
type ThrowSpec struct {
	Screen    platform.Bounds
	Window    platform.Geometry
	Velocity  *motion.Velocity
	Samples   []DragSample
	FrameMs   int // defaults to the config frame interval
	MaxFrames int // defaults to DefaultMaxFrames
}

// Throw releases a window as described by spec and ticks it until it comes
// to rest or MaxFrames is reached. Point 0 is the window right after release.
func Throw(cfg config.Config, spec ThrowSpec, opts ...throw.Option) (model.Trajectory, error) {
	if spec.Screen.Width <= 0 || spec.Screen.Height <= 0 {
		return model.Trajectory{}, fmt.Errorf("screen must have a positive size, got %dx%d", spec.Screen.Width, spec.Screen.Height)
	}
	if spec.Window.Width <= 0 || spec.Window.Height <= 0 {
		return model.Trajectory{}, fmt.Errorf("window must have a positive size, got %dx%d", spec.Window.Width, spec.Window.Height)
	}
	if spec.Velocity == nil && len(spec.Samples) == 0 {
		return model.Trajectory{}, fmt.Errorf("a release velocity or drag samples are required")
	}

	frameMs := spec.FrameMs
	if frameMs <= 0 {
		frameMs = FrameMs(cfg)
	}
	maxFrames := spec.MaxFrames
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}

	screen := sim.NewScreen(spec.Screen)
	screen.AddWindow(thrownWindow, spec.Window)
	d := throw.NewDriver(screen, cfg, opts...)
	d.OnWindowCreated(thrownWindow)

	if spec.Velocity != nil {
		d.Throw(thrownWindow, *spec.Velocity)
	} else {
		d.OnGrabBegin(thrownWindow)
		for _, s := range spec.Samples {
			if err := screen.MoveBy(thrownWindow, s.DX, s.DY); err != nil {
				return model.Trajectory{}, err
			}
			d.OnDragMove(thrownWindow, s.DX, s.DY)
			d.Tick(s.DT)
		}
		d.OnGrabEnd(thrownWindow)
	}

	snap, _ := d.Window(thrownWindow)
	traj := model.Trajectory{
		Window:  int(thrownWindow),
		Screen:  [4]int{spec.Screen.X, spec.Screen.Y, spec.Screen.Width, spec.Screen.Height},
		Size:    [2]int{spec.Window.Width, spec.Window.Height},
		Release: [2]float64{snap.Velocity.X, snap.Velocity.Y},
		FrameMs: frameMs,
	}
	traj.Points = append(traj.Points, point(d, screen, 0, 0, throw.FrameReport{}))

	for frame := 1; frame <= maxFrames && d.Active(); frame++ {
		report := d.Tick(frameMs)
		traj.Points = append(traj.Points, point(d, screen, frame, frame*frameMs, report))
	}
	traj.Rest = !d.Active()
	return traj, nil
}

// FrameMs is the whole-millisecond frame interval for cfg, at least 1.
func FrameMs(cfg config.Config) int {
	ms := int(cfg.FrameInterval().Milliseconds())
	if ms < 1 {
		return 1
	}
	return ms
}

func point(d *throw.Driver, screen *sim.Screen, frame, t int, report throw.FrameReport) model.Point {
	p := model.Point{Frame: frame, TimeMs: t}
	if g, err := screen.Geometry(thrownWindow); err == nil {
		p.X, p.Y = g.X, g.Y
	}
	if snap, ok := d.Window(thrownWindow); ok {
		p.VX, p.VY = snap.Velocity.X, snap.Velocity.Y
	}
	p.Moved = len(report.Moves) > 0
	p.Redrawn = len(report.Redrawn) > 0
	return p
}
