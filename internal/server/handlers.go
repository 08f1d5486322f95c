package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/desktop-throw/internal/model"
	"github.com/mj1618/desktop-throw/internal/motion"
	"github.com/mj1618/desktop-throw/internal/output"
	"github.com/mj1618/desktop-throw/internal/platform"
	"github.com/mj1618/desktop-throw/internal/render"
	"github.com/mj1618/desktop-throw/internal/scenario"
	"gopkg.in/yaml.v3"
)

// toText serializes a tool result to YAML for the MCP response.
func toText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

// throwSpec builds a ThrowSpec and its cache key from tool arguments.
func (s *Server) throwSpec(params map[string]interface{}) (scenario.ThrowSpec, throwKey, error) {
	var spec scenario.ThrowSpec

	screen, err := platform.ParseBounds(scenario.StringParam(params, "screen", "0,0,1920,1080"))
	if err != nil {
		return spec, throwKey{}, err
	}
	win, err := platform.ParseBounds(scenario.StringParam(params, "window", "100,100,400,300"))
	if err != nil {
		return spec, throwKey{}, err
	}
	border := scenario.IntParam(params, "border", 0)

	spec.Screen = screen
	spec.Window = platform.Geometry{
		X: win.X, Y: win.Y, Width: win.Width, Height: win.Height,
		Borders: platform.Borders{Left: border, Right: border, Top: border, Bottom: border},
	}
	spec.FrameMs = scenario.IntParam(params, "frame-ms", 0)
	spec.MaxFrames = scenario.IntParam(params, "frames", 0)

	_, hasVX := params["vx"]
	_, hasVY := params["vy"]
	if hasVX || hasVY {
		spec.Velocity = &motion.Velocity{
			X: scenario.FloatParam(params, "vx", 0),
			Y: scenario.FloatParam(params, "vy", 0),
		}
	}
	if raw, ok := params["samples"]; ok {
		arr, ok := raw.([]interface{})
		if !ok {
			return spec, throwKey{}, fmt.Errorf("samples must be an array")
		}
		for _, item := range arr {
			m, ok := item.(map[string]interface{})
			if !ok {
				return spec, throwKey{}, fmt.Errorf("each sample must be an object with dx, dy and dt")
			}
			spec.Samples = append(spec.Samples, scenario.DragSample{
				DX: scenario.IntParam(m, "dx", 0),
				DY: scenario.IntParam(m, "dy", 0),
				DT: scenario.IntParam(m, "dt", 0),
			})
		}
	}

	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	key := throwKey{
		Config:    cfg,
		Screen:    spec.Screen,
		Window:    spec.Window,
		Samples:   fmt.Sprint(spec.Samples),
		FrameMs:   spec.FrameMs,
		MaxFrames: spec.MaxFrames,
	}
	if spec.Velocity != nil {
		key.HasV, key.VX, key.VY = true, spec.Velocity.X, spec.Velocity.Y
	}
	return spec, key, nil
}

func (s *Server) trajectory(params map[string]interface{}) (model.Trajectory, error) {
	spec, key, err := s.throwSpec(params)
	if err != nil {
		return model.Trajectory{}, err
	}
	traj, hit, err := s.cache.Get(key, func() (model.Trajectory, error) {
		return scenario.Throw(key.Config, spec)
	})
	if hit {
		s.logger.Printf("simulate: cache hit")
	}
	return traj, err
}

func (s *Server) handleSimulate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	traj, err := s.trajectory(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result := output.NewThrowResult(traj, scenario.BoolParam(params, "points", false))
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *Server) handleRender(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	kind := scenario.StringParam(params, "kind", string(render.PlotPosition))

	traj, err := s.trajectory(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var buf bytes.Buffer
	if kind == "trail" {
		err = render.WriteTrail(&buf, traj, render.TrailOptions{
			Scale: scenario.FloatParam(params, "scale", 0),
			Every: scenario.IntParam(params, "every", 0),
		})
	} else {
		var pk render.PlotKind
		pk, err = render.ParsePlotKind(kind)
		if err == nil {
			err = render.WritePlot(&buf, traj, pk, "png")
		}
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
				MIMEType: "image/png",
			},
		},
	}, nil
}

func (s *Server) handleReplay(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	stopOnError := scenario.BoolParam(params, "stop-on-error", true)

	stepsRaw, ok := params["steps"]
	if !ok {
		return mcp.NewToolResultError("steps parameter is required"), nil
	}
	arr, ok := stepsRaw.([]interface{})
	if !ok {
		return mcp.NewToolResultError("steps must be an array"), nil
	}

	steps := make([]scenario.Step, 0, len(arr))
	for i, item := range arr {
		m, ok := item.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("step %d: each step must be an object", i+1)), nil
		}
		step, err := scenario.StepFromMap(m)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("step %d: %v", i+1, err)), nil
		}
		steps = append(steps, step)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.session.Run(steps, stopOnError)
	if !result.OK {
		return mcp.NewToolResultError(toText(result)), nil
	}
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *Server) handleWindows(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type windowsResult struct {
		Screen  [4]int         `yaml:"screen"  json:"screen"`
		Frames  int            `yaml:"frames"  json:"frames"`
		Active  bool           `yaml:"active"  json:"active"`
		Windows []model.Window `yaml:"windows" json:"windows"`
	}
	b, _ := s.session.Screen.ScreenSize()
	return mcp.NewToolResultText(toText(windowsResult{
		Screen:  [4]int{b.X, b.Y, b.Width, b.Height},
		Frames:  s.session.Frames(),
		Active:  s.session.Driver.Active(),
		Windows: s.session.Windows(),
	})), nil
}

func (s *Server) handleReset(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.mu.Lock()
	defer s.mu.Unlock()

	screen := s.screen
	if v := scenario.StringParam(params, "screen", ""); v != "" {
		b, err := platform.ParseBounds(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if b.Width <= 0 || b.Height <= 0 {
			return mcp.NewToolResultError("screen must have a positive size"), nil
		}
		screen = b
	}
	s.screen = screen
	s.session = s.newSession(screen)
	return mcp.NewToolResultText(toText(map[string]interface{}{"ok": true, "action": "reset"})), nil
}

func (s *Server) handleConfig(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.cfg
	cfg.Friction = scenario.FloatParam(params, "friction", cfg.Friction)
	cfg.SnapThreshold = scenario.FloatParam(params, "snap-threshold", cfg.SnapThreshold)
	cfg.ConstrainX = scenario.BoolParam(params, "constrain-x", cfg.ConstrainX)
	cfg.ConstrainY = scenario.BoolParam(params, "constrain-y", cfg.ConstrainY)
	cfg.Estimator = scenario.StringParam(params, "estimator", cfg.Estimator)
	cfg.RingCapacity = scenario.IntParam(params, "ring-capacity", cfg.RingCapacity)
	cfg.FrameRate = scenario.IntParam(params, "frame-rate", cfg.FrameRate)
	if err := cfg.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if cfg != s.cfg {
		s.cfg = cfg
		s.session.SetConfig(cfg)
		s.cache.InvalidateAll()
		s.logger.Printf("config updated: %+v", cfg)
	}
	return mcp.NewToolResultText(toText(s.cfg)), nil
}
