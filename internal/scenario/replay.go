package scenario

import (
	"fmt"
	"io"
	"sort"

	"github.com/mj1618/desktop-throw/internal/config"
	"github.com/mj1618/desktop-throw/internal/model"
	"github.com/mj1618/desktop-throw/internal/motion"
	"github.com/mj1618/desktop-throw/internal/platform"
	"github.com/mj1618/desktop-throw/internal/platform/sim"
	"github.com/mj1618/desktop-throw/internal/throw"
	"gopkg.in/yaml.v3"
)

// DefaultSettleFrames bounds the settle action.
const DefaultSettleFrames = 10000

// Actions lists the step types understood by Session.Exec.
var Actions = []string{"screen", "window", "destroy", "grab", "move", "release", "drag", "throw", "tick", "settle"}

// Step is one action of a replay script.
type Step struct {
	Action string
	Params map[string]interface{}
}

// ParseSteps reads a YAML list of single-key maps, for example:
//
//	- window: { id: 1, x: 100, y: 100, width: 400, height: 300 }
//	- drag: { id: 1, dx: 120, dy: 0, ms: 80, steps: 8 }
//	- settle: {}
func ParseSteps(r io.Reader) ([]Step, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read steps: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no steps provided: expected a YAML list of actions")
	}

	var rawSteps []map[string]map[string]interface{}
	if err := yaml.Unmarshal(data, &rawSteps); err != nil {
		return nil, fmt.Errorf("failed to parse YAML steps: %w", err)
	}
	if len(rawSteps) == 0 {
		return nil, fmt.Errorf("no steps provided: expected a YAML list of actions")
	}

	steps := make([]Step, 0, len(rawSteps))
	for i, raw := range rawSteps {
		if len(raw) != 1 {
			return nil, fmt.Errorf("step %d: expected exactly one action key, got %d", i+1, len(raw))
		}
		for action, params := range raw {
			if params == nil {
				params = map[string]interface{}{}
			}
			steps = append(steps, Step{Action: action, Params: params})
		}
	}
	return steps, nil
}

// StepFromMap converts a decoded JSON step such as {"tick": {"ms": 16}}.
func StepFromMap(m map[string]interface{}) (Step, error) {
	if len(m) != 1 {
		return Step{}, fmt.Errorf("expected exactly one action key, got %d", len(m))
	}
	for action, raw := range m {
		switch params := raw.(type) {
		case nil:
			return Step{Action: action, Params: map[string]interface{}{}}, nil
		case map[string]interface{}:
			return Step{Action: action, Params: params}, nil
		default:
			return Step{}, fmt.Errorf("%s: parameters must be an object", action)
		}
	}
	return Step{}, nil
}

// Session is a simulated window system with a throw driver attached.
type Session struct {
	Screen  *sim.Screen
	Driver  *throw.Driver
	frameMs int
	frames  int
}

// NewSession creates an empty session on a screen covering bounds.
func NewSession(cfg config.Config, bounds platform.Bounds, opts ...throw.Option) *Session {
	screen := sim.NewScreen(bounds)
	return &Session{
		Screen:  screen,
		Driver:  throw.NewDriver(screen, cfg, opts...),
		frameMs: FrameMs(cfg),
	}
}

// SetConfig applies new physics settings to the session.
func (s *Session) SetConfig(cfg config.Config) {
	s.Driver.SetConfig(cfg)
	s.frameMs = FrameMs(cfg)
}

// Frames returns the number of frames ticked so far.
func (s *Session) Frames() int { return s.frames }

// Run executes steps in order. With stopOnError the first failing step
// ends the run.
func (s *Session) Run(steps []Step, stopOnError bool) model.ReplayResult {
	results := make([]model.StepResult, 0, len(steps))
	completed := 0
	var lastErr string

	for i, step := range steps {
		stepNum := i + 1
		result, err := s.Exec(step)
		result.Step = stepNum
		if err != nil {
			result.OK = false
			result.Error = err.Error()
			results = append(results, result)
			lastErr = fmt.Sprintf("step %d: %s", stepNum, err.Error())
			if stopOnError {
				break
			}
			continue
		}
		result.OK = true
		completed++
		results = append(results, result)
	}

	return model.ReplayResult{
		OK:        lastErr == "",
		Action:    "replay",
		Steps:     len(steps),
		Completed: completed,
		Frames:    s.frames,
		Error:     lastErr,
		Results:   results,
		Windows:   s.Windows(),
	}
}

// Exec runs a single step.
func (s *Session) Exec(step Step) (model.StepResult, error) {
	result := model.StepResult{Action: step.Action}
	p := step.Params

	switch step.Action {
	case "screen":
		b, err := boundsParam(p, platform.Bounds{})
		if err != nil {
			return result, err
		}
		if b.Width <= 0 || b.Height <= 0 {
			return result, fmt.Errorf("screen must have a positive size")
		}
		s.Screen.SetBounds(b)
		return result, nil

	case "window":
		id, err := idParam(p)
		if err != nil {
			return result, err
		}
		result.Window = id
		b, err := boundsParam(p, platform.Bounds{Width: 100, Height: 100})
		if err != nil {
			return result, err
		}
		if b.Width <= 0 || b.Height <= 0 {
			return result, fmt.Errorf("window must have a positive size")
		}
		border := IntParam(p, "border", 0)
		s.Screen.AddWindow(platform.WindowID(id), platform.Geometry{
			X: b.X, Y: b.Y, Width: b.Width, Height: b.Height,
			Borders: platform.Borders{Left: border, Right: border, Top: border, Bottom: border},
		})
		s.Driver.OnWindowCreated(platform.WindowID(id))
		return result, nil

	case "destroy":
		id, err := s.existing(p)
		if err != nil {
			return result, err
		}
		result.Window = int(id)
		s.Screen.RemoveWindow(id)
		s.Driver.OnWindowDestroyed(id)
		return result, nil

	case "grab":
		id, err := s.existing(p)
		if err != nil {
			return result, err
		}
		result.Window = int(id)
		s.Driver.OnGrabBegin(id)
		return result, nil

	case "move":
		id, err := s.grabbed(p)
		if err != nil {
			return result, err
		}
		result.Window = int(id)
		if err := s.dragBy(id, IntParam(p, "dx", 0), IntParam(p, "dy", 0)); err != nil {
			return result, err
		}
		if ms := IntParam(p, "ms", 0); ms > 0 {
			s.tick(ms, &result)
		}
		return result, nil

	case "release":
		id, err := s.grabbed(p)
		if err != nil {
			return result, err
		}
		result.Window = int(id)
		s.Driver.OnGrabEnd(id)
		result.Velocity = s.velocity(id)
		return result, nil

	case "drag":
		id, err := s.existing(p)
		if err != nil {
			return result, err
		}
		result.Window = int(id)
		n := IntParam(p, "steps", 1)
		if n < 1 {
			return result, fmt.Errorf("steps must be > 0")
		}
		ms := IntParam(p, "ms", s.frameMs*n)
		if ms < 0 {
			return result, fmt.Errorf("ms must be >= 0")
		}
		if snap, _ := s.Driver.Window(id); snap.Phase != motion.PhaseGrabbed {
			s.Driver.OnGrabBegin(id)
		}
		dx, dy := IntParam(p, "dx", 0), IntParam(p, "dy", 0)
		var sentX, sentY, spent int
		for i := 1; i <= n; i++ {
			// Spread the totals so the parts always add up exactly.
			px, py, pt := dx*i/n-sentX, dy*i/n-sentY, ms*i/n-spent
			sentX, sentY, spent = sentX+px, sentY+py, spent+pt
			if err := s.dragBy(id, px, py); err != nil {
				return result, err
			}
			s.tick(pt, &result)
		}
		if BoolParam(p, "release", true) {
			s.Driver.OnGrabEnd(id)
			result.Velocity = s.velocity(id)
		}
		return result, nil

	case "throw":
		id, err := s.existing(p)
		if err != nil {
			return result, err
		}
		result.Window = int(id)
		s.Driver.Throw(id, motion.Velocity{X: FloatParam(p, "vx", 0), Y: FloatParam(p, "vy", 0)})
		result.Velocity = s.velocity(id)
		return result, nil

	case "tick":
		ms := IntParam(p, "ms", s.frameMs)
		count := IntParam(p, "count", 1)
		if ms < 0 || count < 1 {
			return result, fmt.Errorf("tick needs ms >= 0 and count > 0")
		}
		for i := 0; i < count; i++ {
			s.tick(ms, &result)
		}
		return result, nil

	case "settle":
		ms := IntParam(p, "ms", s.frameMs)
		maxFrames := IntParam(p, "max", DefaultSettleFrames)
		if ms <= 0 || maxFrames < 1 {
			return result, fmt.Errorf("settle needs ms > 0 and max > 0")
		}
		for s.Driver.Active() && result.Frames < maxFrames {
			s.tick(ms, &result)
		}
		if s.Driver.Active() {
			return result, fmt.Errorf("windows still moving after %d frames", maxFrames)
		}
		return result, nil

	default:
		return result, fmt.Errorf("unknown action: %q (expected one of %v)", step.Action, Actions)
	}
}

// Windows returns the tracked windows in ID order.
func (s *Session) Windows() []model.Window {
	ids := s.Driver.Windows()
	out := make([]model.Window, 0, len(ids))
	for _, id := range ids {
		snap, _ := s.Driver.Window(id)
		w := model.Window{
			ID:       int(id),
			Phase:    snap.Phase.String(),
			Velocity: [2]float64{snap.Velocity.X, snap.Velocity.Y},
			Moving:   snap.Phase == motion.PhaseUngrabbed && !snap.Velocity.IsZero(),
		}
		if g, err := s.Screen.Geometry(id); err == nil {
			w.Bounds = [4]int{g.X, g.Y, g.Width, g.Height}
		}
		out = append(out, w)
	}
	return out
}

// dragBy moves the window the way the window system does during a drag,
// then reports the delta to the driver. A delta the screen refused is not
// reported.
func (s *Session) dragBy(id platform.WindowID, dx, dy int) error {
	if err := s.Screen.MoveBy(id, dx, dy); err != nil {
		return fmt.Errorf("drag window %d: %w", id, err)
	}
	s.Driver.OnDragMove(id, dx, dy)
	return nil
}

func (s *Session) tick(ms int, result *model.StepResult) {
	report := s.Driver.Tick(ms)
	s.frames++
	result.Frames++
	result.Moves += len(report.Moves)
	for _, id := range report.Redrawn {
		result.Redrawn = appendUnique(result.Redrawn, int(id))
	}
}

func (s *Session) existing(p map[string]interface{}) (platform.WindowID, error) {
	id, err := idParam(p)
	if err != nil {
		return 0, err
	}
	wid := platform.WindowID(id)
	if !s.Screen.HasWindow(wid) {
		return 0, fmt.Errorf("no window %d", id)
	}
	return wid, nil
}

func (s *Session) grabbed(p map[string]interface{}) (platform.WindowID, error) {
	id, err := s.existing(p)
	if err != nil {
		return 0, err
	}
	if snap, ok := s.Driver.Window(id); !ok || snap.Phase != motion.PhaseGrabbed {
		return 0, fmt.Errorf("window %d is not grabbed", id)
	}
	return id, nil
}

func (s *Session) velocity(id platform.WindowID) *[2]float64 {
	snap, ok := s.Driver.Window(id)
	if !ok {
		return nil
	}
	return &[2]float64{snap.Velocity.X, snap.Velocity.Y}
}

// boundsParam reads either a "bounds: x,y,w,h" string or separate x, y,
// width and height keys.
func boundsParam(p map[string]interface{}, def platform.Bounds) (platform.Bounds, error) {
	if s := StringParam(p, "bounds", ""); s != "" {
		return platform.ParseBounds(s)
	}
	return platform.Bounds{
		X:      IntParam(p, "x", def.X),
		Y:      IntParam(p, "y", def.Y),
		Width:  IntParam(p, "width", def.Width),
		Height: IntParam(p, "height", def.Height),
	}, nil
}

func appendUnique(ids []int, id int) []int {
	i := sort.SearchInts(ids, id)
	if i < len(ids) && ids[i] == id {
		return ids
	}
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}
