package motion

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mj1618/desktop-throw/internal/platform"
)

var (
	testScreen = platform.Bounds{Width: 1920, Height: 1080}
	testGeom   = platform.Geometry{Width: 400, Height: 300}
)

func unconstrained(friction float64) Params {
	return Params{Friction: friction, SnapThreshold: 0.05}
}

func TestWindow_InitialState(t *testing.T) {
	w := NewWindow(7, nil, 100, 200)
	if w.Phase() != PhaseUngrabbed {
		t.Errorf("phase = %s, want ungrabbed", w.Phase())
	}
	if x, y := w.Position(); x != 100 || y != 200 {
		t.Errorf("position = (%d,%d), want (100,200)", x, y)
	}
	if w.Moving() {
		t.Error("new window should be at rest")
	}
}

func TestWindow_GrabDragRelease(t *testing.T) {
	w := NewWindow(1, NewEstimator(KindTotal, 0), 0, 0)
	if !w.Grab(0, 0) {
		t.Fatal("Grab from ungrabbed should transition")
	}
	if w.Grab(0, 0) {
		t.Error("Grab while grabbed should be a no-op")
	}

	w.Move(4, 0)
	w.Move(6, 0)
	st := w.Tick(10, testGeom, testScreen, unconstrained(10))
	if st.Moved || st.Dirty {
		t.Errorf("grabbed tick should not move or dirty: %+v", st)
	}
	w.Move(20, 0)
	w.Tick(10, testGeom, testScreen, unconstrained(10))

	if !w.Velocity().IsZero() {
		t.Errorf("velocity while grabbed = %+v, want zero", w.Velocity())
	}
	if x, _ := w.Position(); x != 0 {
		t.Errorf("Move must not reposition the window; x = %d", x)
	}

	if !w.Ungrab(30, 0) {
		t.Fatal("Ungrab from grabbed should transition")
	}
	if w.Ungrab(30, 0) {
		t.Error("Ungrab while ungrabbed should be a no-op")
	}
	if v := w.Velocity(); !approx(v.X, 1.5) || v.Y != 0 {
		t.Errorf("release velocity = %+v, want {1.5 0}", v)
	}
	if x, _ := w.Position(); x != 30 {
		t.Errorf("position after ungrab = %d, want 30 (host position)", x)
	}
}

func TestWindow_ImmediateRelease(t *testing.T) {
	w := NewWindow(1, nil, 0, 0)
	w.Grab(0, 0)
	w.Move(50, 50)
	w.Ungrab(50, 50)
	if !w.Velocity().IsZero() {
		t.Errorf("grab+release with no ticks should not throw, got %+v", w.Velocity())
	}
}

func TestWindow_MoveIgnoredWhenUngrabbed(t *testing.T) {
	w := NewWindow(1, nil, 0, 0)
	w.Move(100, 100)
	w.Grab(0, 0)
	w.Tick(16, testGeom, testScreen, unconstrained(0))
	w.Ungrab(0, 0)
	if !w.Velocity().IsZero() {
		t.Errorf("got %+v, want zero", w.Velocity())
	}
}

func TestWindow_FrictionScenario(t *testing.T) {
	w := NewWindow(1, nil, 0, 0)
	w.Launch(Velocity{X: 1.5})
	st := w.Tick(10, testGeom, testScreen, unconstrained(10))

	if !approx(w.Velocity().X, 1.5/1.1) {
		t.Errorf("vx = %v, want %v", w.Velocity().X, 1.5/1.1)
	}
	want := Step{Moved: true, X: 14, Y: 0, Dirty: true}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Errorf("step mismatch (-want +got):\n%s", diff)
	}
}

func TestWindow_RestTickIsIdempotent(t *testing.T) {
	w := NewWindow(1, nil, 40, 50)
	for i := 0; i < 3; i++ {
		st := w.Tick(16, testGeom, testScreen, unconstrained(10))
		if st.Moved || st.Dirty || w.Dirty() {
			t.Fatalf("tick %d at rest: %+v", i, st)
		}
		if st.X != 40 || st.Y != 50 {
			t.Fatalf("tick %d at rest moved to (%d,%d)", i, st.X, st.Y)
		}
	}
}

func TestWindow_FrictionMonotonicAndFinite(t *testing.T) {
	for _, k := range []float64{0.5, 3, 10, 50, 200} {
		w := NewWindow(1, nil, 0, 0)
		w.Launch(Velocity{X: 3, Y: -2})
		prev := w.Velocity().Speed()
		ticks := 0
		for w.Moving() {
			w.Tick(16, testGeom, testScreen, unconstrained(k))
			speed := w.Velocity().Speed()
			if speed >= prev {
				t.Fatalf("k=%v: speed did not decrease: %v -> %v", k, prev, speed)
			}
			prev = speed
			ticks++
			if ticks > 100000 {
				t.Fatalf("k=%v: window never came to rest", k)
			}
		}
	}
}

func TestWindow_ZeroFrictionKeepsSpeed(t *testing.T) {
	w := NewWindow(1, nil, 0, 0)
	w.Launch(Velocity{X: 1})
	for i := 0; i < 10; i++ {
		w.Tick(10, testGeom, testScreen, unconstrained(0))
	}
	if w.Velocity().X != 1 {
		t.Errorf("vx = %v, want 1 with zero friction", w.Velocity().X)
	}
	if x, _ := w.Position(); x != 100 {
		t.Errorf("x = %d, want 100", x)
	}
}

func TestWindow_SnapIsPerAxis(t *testing.T) {
	w := NewWindow(1, nil, 0, 0)
	w.Launch(Velocity{X: 2, Y: 0.01})
	w.Tick(10, testGeom, testScreen, unconstrained(0))
	v := w.Velocity()
	if v.Y != 0 {
		t.Errorf("vy = %v, want snapped to 0", v.Y)
	}
	if v.X != 2 {
		t.Errorf("vx = %v, want 2 (other axis keeps moving)", v.X)
	}
}

func TestWindow_SubPixelAccumulation(t *testing.T) {
	w := NewWindow(1, nil, 0, 0)
	w.Launch(Velocity{X: 0.1})
	moves := 0
	for i := 0; i < 10; i++ {
		st := w.Tick(3, testGeom, testScreen, unconstrained(0))
		if st.Moved {
			moves++
		}
		if !st.Dirty {
			t.Fatalf("tick %d: moving window should stay dirty", i)
		}
	}
	// 10 ticks of 0.3px land on x=3 instead of rounding every step to 0.
	if x, _ := w.Position(); x != 3 {
		t.Errorf("x = %d, want 3", x)
	}
	if moves != 3 {
		t.Errorf("moves = %d, want 3", moves)
	}
}

func TestWindow_ClampLeftEdge(t *testing.T) {
	w := NewWindow(1, nil, 0, 100)
	w.Launch(Velocity{X: -2})
	p := Params{Friction: 1, SnapThreshold: 0.05, ConstrainX: true}

	st := w.Tick(16, testGeom, testScreen, p)
	if st.X != 0 || !st.ClampedX {
		t.Errorf("step = %+v, want clamped at x=0", st)
	}
	if w.Velocity().X != 0 {
		t.Errorf("vx = %v, want 0 after clamp", w.Velocity().X)
	}
	st = w.Tick(16, testGeom, testScreen, p)
	if st.X != 0 || st.Moved {
		t.Errorf("subsequent tick moved: %+v", st)
	}
}

func TestWindow_ClampRespectsBorders(t *testing.T) {
	geom := platform.Geometry{Width: 400, Height: 300, Borders: platform.Borders{Left: 5, Right: 5, Top: 25, Bottom: 5}}
	p := Params{SnapThreshold: 0.05, ConstrainX: true, ConstrainY: true}

	w := NewWindow(1, nil, 1500, 700)
	w.Launch(Velocity{X: 10, Y: 10})
	st := w.Tick(100, geom, testScreen, p)

	if st.X != 1920-400-5 || st.Y != 1080-300-5 {
		t.Errorf("clamped to (%d,%d), want (%d,%d)", st.X, st.Y, 1920-400-5, 1080-300-5)
	}
	if !w.Velocity().IsZero() {
		t.Errorf("velocity = %+v, want zero after clamping both axes", w.Velocity())
	}

	w = NewWindow(2, nil, 100, 100)
	w.Launch(Velocity{X: -10, Y: -10})
	st = w.Tick(100, geom, testScreen, p)
	if st.X != 5 || st.Y != 25 {
		t.Errorf("clamped to (%d,%d), want (5,25)", st.X, st.Y)
	}
}

func TestWindow_ClampOnlyConfiguredAxis(t *testing.T) {
	w := NewWindow(1, nil, 10, 10)
	w.Launch(Velocity{X: -1, Y: -1})
	st := w.Tick(100, testGeom, testScreen, Params{SnapThreshold: 0.05, ConstrainY: true})
	if st.X != -90 {
		t.Errorf("x = %d, want -90 (x unconstrained)", st.X)
	}
	if st.Y != 0 {
		t.Errorf("y = %d, want 0", st.Y)
	}
}

func TestWindow_OversizedWindowDoesNotPanic(t *testing.T) {
	geom := platform.Geometry{Width: 4000, Height: 3000, Borders: platform.Borders{Left: 2, Right: 2, Top: 2, Bottom: 2}}
	w := NewWindow(1, nil, 0, 0)
	w.Launch(Velocity{X: 5, Y: 5})
	st := w.Tick(16, geom, testScreen, Params{SnapThreshold: 0.05, ConstrainX: true, ConstrainY: true})
	if st.X != 2 || st.Y != 2 {
		t.Errorf("oversized window clamped to (%d,%d), want (2,2)", st.X, st.Y)
	}
}

func TestWindow_ConstrainedNeverLeavesScreen(t *testing.T) {
	p := Params{Friction: 2, SnapThreshold: 0.05, ConstrainX: true}
	velocities := []float64{-50, -3, -0.2, 0.2, 3, 50}
	for _, vx := range velocities {
		w := NewWindow(1, nil, 700, 0)
		w.Launch(Velocity{X: vx})
		for i := 0; i < 500 && w.Moving(); i++ {
			st := w.Tick(16, testGeom, testScreen, p)
			if st.X < 0 || st.X+testGeom.Width > testScreen.Width {
				t.Fatalf("vx=%v tick %d: x=%d leaves screen", vx, i, st.X)
			}
		}
	}
}

func TestWindow_NonFiniteStopsMotion(t *testing.T) {
	w := NewWindow(1, nil, 10, 10)
	w.Launch(Velocity{X: math.Inf(1)})
	if !w.Velocity().IsZero() {
		t.Errorf("Launch with Inf should be ignored, got %+v", w.Velocity())
	}

	w.Launch(Velocity{X: math.MaxFloat64})
	st := w.Tick(1000, testGeom, testScreen, unconstrained(0))
	if st.Moved {
		t.Errorf("overflowing tick should not move: %+v", st)
	}
	if !w.Velocity().IsZero() {
		t.Errorf("velocity = %+v, want zero", w.Velocity())
	}
	if x, y := w.Position(); x != 10 || y != 10 {
		t.Errorf("position = (%d,%d), want (10,10)", x, y)
	}
}

func TestWindow_HugeVelocityStopsMotion(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"unconstrained", unconstrained(0)},
		{"constrained", Params{SnapThreshold: 0.05, ConstrainX: true, ConstrainY: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(1, nil, 10, 10)
			w.Launch(Velocity{X: 1e300})
			st := w.Tick(16, testGeom, testScreen, tt.params)
			if st.Moved || st.X != 10 || st.Y != 10 {
				t.Errorf("step = %+v, want no move at (10,10)", st)
			}
			if !w.Velocity().IsZero() {
				t.Errorf("velocity = %+v, want zero", w.Velocity())
			}
		})
	}
}

func TestWindow_StopAt(t *testing.T) {
	w := NewWindow(1, nil, 10, 10)
	w.Launch(Velocity{X: 2})
	w.Tick(10, testGeom, testScreen, unconstrained(0))
	if x, _ := w.Position(); x != 30 {
		t.Fatalf("x = %d, want 30", x)
	}
	w.StopAt(10, 10)
	snap := w.Snapshot()
	if snap.X != 10 || snap.Y != 10 || !snap.Velocity.IsZero() {
		t.Errorf("snapshot = %+v, want rest at (10,10)", snap)
	}
	w.Launch(Velocity{X: 1})
	if st := w.Tick(10, testGeom, testScreen, unconstrained(0)); st.X != 20 {
		t.Errorf("x after relaunch = %d, want 20", st.X)
	}
}

func TestWindow_GrabResetsVelocity(t *testing.T) {
	w := NewWindow(1, nil, 0, 0)
	w.Launch(Velocity{X: 3})
	w.Tick(16, testGeom, testScreen, unconstrained(1))
	w.Grab(42, 24)
	if !w.Velocity().IsZero() {
		t.Errorf("velocity after grab = %+v, want zero", w.Velocity())
	}
	snap := w.Snapshot()
	if snap.X != 42 || snap.Y != 24 || snap.Phase != PhaseGrabbed {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestPhase_String(t *testing.T) {
	if PhaseGrabbed.String() != "grabbed" || PhaseUngrabbed.String() != "ungrabbed" {
		t.Errorf("unexpected phase names: %s %s", PhaseGrabbed, PhaseUngrabbed)
	}
}
