package scenario

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mj1618/desktop-throw/internal/config"
	"github.com/mj1618/desktop-throw/internal/model"
	"github.com/mj1618/desktop-throw/internal/platform"
)

func mustParse(t *testing.T, script string) []Step {
	t.Helper()
	steps, err := ParseSteps(strings.NewReader(script))
	if err != nil {
		t.Fatalf("ParseSteps: %v", err)
	}
	return steps
}

func TestParseSteps(t *testing.T) {
	steps := mustParse(t, `
- window: { id: 1, x: 10, y: 20 }
- settle:
- tick: { ms: 16, count: 3 }
`)
	if len(steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(steps))
	}
	if steps[0].Action != "window" || IntParam(steps[0].Params, "y", 0) != 20 {
		t.Errorf("step 1 = %+v", steps[0])
	}
	if steps[1].Action != "settle" || steps[1].Params == nil {
		t.Errorf("step 2 = %+v, want settle with empty params", steps[1])
	}
}

func TestParseSteps_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"empty", "", "no steps"},
		{"empty list", "[]", "no steps"},
		{"bad yaml", "- window: [", "parse"},
		{"two keys", "- { window: {id: 1}, grab: {id: 1} }", "exactly one action key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSteps(strings.NewReader(tt.script))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestSession_DragAndRelease(t *testing.T) {
	s := NewSession(freeConfig(), fullHD)
	res := s.Run(mustParse(t, `
- window: { id: 1, x: 100, y: 100, width: 200, height: 200 }
- drag: { id: 1, dx: 30, dy: 0, ms: 20, steps: 2 }
- tick: { ms: 10 }
`), true)

	if !res.OK || res.Completed != 3 || res.Frames != 3 {
		t.Fatalf("result = %+v", res)
	}
	drag := res.Results[1]
	if drag.Frames != 2 || drag.Moves != 0 || drag.Velocity == nil {
		t.Fatalf("drag step = %+v", drag)
	}
	if math.Abs(drag.Velocity[0]-1.5) > 1e-9 || drag.Velocity[1] != 0 {
		t.Errorf("release velocity = %v, want [1.5 0]", *drag.Velocity)
	}
	tick := res.Results[2]
	if tick.Moves != 1 || !cmp.Equal(tick.Redrawn, []int{1}) {
		t.Errorf("tick step = %+v", tick)
	}
	if got := res.Windows[0].Bounds; got != [4]int{144, 100, 200, 200} {
		t.Errorf("bounds = %v, want [144 100 200 200]", got)
	}
	if res.Windows[0].Phase != "ungrabbed" || !res.Windows[0].Moving {
		t.Errorf("window = %+v", res.Windows[0])
	}
}

func TestSession_ManualGrab(t *testing.T) {
	s := NewSession(freeConfig(), fullHD)
	res := s.Run(mustParse(t, `
- window: { id: 2, bounds: "0,0,50,50" }
- grab: { id: 2 }
- move: { id: 2, dx: 0, dy: 8, ms: 4 }
- move: { id: 2, dx: 0, dy: 8, ms: 4 }
- release: { id: 2 }
`), true)
	if !res.OK {
		t.Fatalf("replay failed: %s", res.Error)
	}
	v := res.Results[4].Velocity
	if v == nil || v[0] != 0 || math.Abs(v[1]-2) > 1e-9 {
		t.Errorf("velocity = %v, want [0 2]", v)
	}
}

func TestSession_DragFailureIsReported(t *testing.T) {
	s := NewSession(freeConfig(), fullHD)
	res := s.Run(mustParse(t, `
- window: { id: 3, bounds: "0,0,50,50" }
- grab: { id: 3 }
`), true)
	if !res.OK {
		t.Fatalf("setup failed: %s", res.Error)
	}
	s.Screen.Fail = func(platform.WindowID) error { return errors.New("window is stuck") }

	for _, script := range []string{
		`- move: { id: 3, dx: 10, ms: 4 }`,
		`- drag: { id: 3, dx: 10, ms: 8, steps: 2 }`,
	} {
		res := s.Run(mustParse(t, script), true)
		if res.OK || !strings.Contains(res.Error, "window is stuck") {
			t.Errorf("%s: got ok=%v error=%q, want drag failure", script, res.OK, res.Error)
		}
	}
	if snap, _ := s.Driver.Window(3); snap.Samples != 0 {
		t.Errorf("samples = %d, want none recorded from refused drags", snap.Samples)
	}
}

func TestSession_Settle(t *testing.T) {
	s := NewSession(config.Default(), fullHD)
	res := s.Run(mustParse(t, `
- window: { id: 1, x: 800, y: 400, width: 200, height: 200 }
- throw: { id: 1, vx: 2, vy: -1 }
- settle: { ms: 16 }
`), true)
	if !res.OK {
		t.Fatalf("replay failed: %s", res.Error)
	}
	w := res.Windows[0]
	if w.Moving || w.Velocity != [2]float64{} {
		t.Errorf("window still moving: %+v", w)
	}
	if w.Bounds[0] != 1720 {
		t.Errorf("x = %d, want clamped to 1720", w.Bounds[0])
	}
	if s.Driver.Active() {
		t.Error("driver should be idle after settle")
	}
}

func TestSession_SettleWhileGrabbed(t *testing.T) {
	s := NewSession(config.Default(), fullHD)
	res := s.Run(mustParse(t, `
- window: { id: 1 }
- grab: { id: 1 }
- settle: { max: 5 }
`), true)
	if res.OK || res.Results[2].Frames != 5 {
		t.Errorf("settle should fail after 5 frames: %+v", res.Results[2])
	}
}

func TestSession_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"unknown action", "- fling: { id: 1 }", "unknown action"},
		{"missing id", "- window: { x: 1 }", "id is required"},
		{"no window", "- grab: { id: 9 }", "no window 9"},
		{"not grabbed", "- window: { id: 1 }\n- move: { id: 1, dx: 3 }", "not grabbed"},
		{"bad screen", "- screen: { width: 0, height: 10 }", "positive size"},
		{"bad bounds", "- window: { id: 1, bounds: \"1,2,3\" }", "invalid bounds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewSession(config.Default(), fullHD).Run(mustParse(t, tt.script), true)
			if res.OK || !strings.Contains(res.Error, tt.want) {
				t.Errorf("error = %q, want containing %q", res.Error, tt.want)
			}
		})
	}
}

func TestSession_ContinueOnError(t *testing.T) {
	s := NewSession(config.Default(), fullHD)
	res := s.Run(mustParse(t, `
- grab: { id: 1 }
- window: { id: 1 }
- destroy: { id: 1 }
`), false)
	if res.OK || res.Completed != 2 || len(res.Results) != 3 {
		t.Fatalf("result = %+v", res)
	}
	if res.Results[0].OK || !res.Results[1].OK || !res.Results[2].OK {
		t.Errorf("step results = %+v", res.Results)
	}
	if len(res.Windows) != 0 {
		t.Errorf("windows = %+v, want none", res.Windows)
	}
}

func TestSession_StopOnError(t *testing.T) {
	s := NewSession(config.Default(), fullHD)
	res := s.Run(mustParse(t, `
- grab: { id: 1 }
- window: { id: 1 }
`), true)
	want := model.ReplayResult{
		OK:        false,
		Action:    "replay",
		Steps:     2,
		Completed: 0,
		Error:     "step 1: no window 1",
		Results:   []model.StepResult{{Step: 1, Action: "grab", Error: "no window 1"}},
		Windows:   []model.Window{},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendUnique(t *testing.T) {
	var ids []int
	for _, id := range []int{5, 1, 5, 3, 1} {
		ids = appendUnique(ids, id)
	}
	if !cmp.Equal(ids, []int{1, 3, 5}) {
		t.Errorf("ids = %v", ids)
	}
}

func TestStepFromMap(t *testing.T) {
	step, err := StepFromMap(map[string]interface{}{"tick": map[string]interface{}{"ms": float64(16)}})
	if err != nil {
		t.Fatal(err)
	}
	if step.Action != "tick" || IntParam(step.Params, "ms", 0) != 16 {
		t.Errorf("step = %+v", step)
	}
	if step, err := StepFromMap(map[string]interface{}{"settle": nil}); err != nil || step.Params == nil {
		t.Errorf("settle step = %+v, %v", step, err)
	}
	if _, err := StepFromMap(map[string]interface{}{"tick": 3}); err == nil {
		t.Error("expected error for non-object params")
	}
	if _, err := StepFromMap(map[string]interface{}{}); err == nil {
		t.Error("expected error for empty step")
	}
}
