package motion

import (
	"math"

	"github.com/mj1618/desktop-throw/internal/platform"
)

// Phase is the grab state of a tracked window.
type Phase int

const (
	// PhaseUngrabbed windows integrate their velocity every frame.
	PhaseUngrabbed Phase = iota
	// PhaseGrabbed windows follow the pointer and record samples.
	PhaseGrabbed
)

func (p Phase) String() string {
	if p == PhaseGrabbed {
		return "grabbed"
	}
	return "ungrabbed"
}

// Params are the physics inputs read on every ungrabbed tick.
type Params struct {
	Friction      float64 // percent of velocity removed per tick, >= 0
	SnapThreshold float64 // px/ms below which an axis stops
	ConstrainX    bool
	ConstrainY    bool
}

// Step is the outcome of one tick.
type Step struct {
	Moved    bool // integer position changed; the host must move the window
	X, Y     int  // integer position after the tick
	Dirty    bool // the window needs a repaint this frame
	ClampedX bool
	ClampedY bool
}

// Snapshot is a read-only view of a window's motion state.
type Snapshot struct {
	ID       platform.WindowID
	Phase    Phase
	X, Y     float64
	Velocity Velocity
	Dirty    bool
	Samples  int
}

// Window is the motion state of one tracked window.
type Window struct {
	id    platform.WindowID
	phase Phase

	// Precise position. ix/iy is the last integer position committed.
	x, y   float64
	ix, iy int

	v     Velocity
	dirty bool

	est     Estimator
	pending Sample
}

// NewWindow creates an ungrabbed window at rest at (x, y).
func NewWindow(id platform.WindowID, est Estimator, x, y int) *Window {
	if est == nil {
		est = NewRingEstimator(DefaultRingCapacity)
	}
	w := &Window{id: id, est: est}
	w.sync(x, y)
	return w
}

func (w *Window) ID() platform.WindowID { return w.id }
func (w *Window) Phase() Phase          { return w.phase }
func (w *Window) Velocity() Velocity    { return w.v }
func (w *Window) Dirty() bool           { return w.dirty }

// Position returns the last integer position committed to the host.
func (w *Window) Position() (int, int) { return w.ix, w.iy }

// Moving reports whether the next ungrabbed tick will do any work.
func (w *Window) Moving() bool {
	return w.phase == PhaseUngrabbed && !w.v.IsZero()
}

// Snapshot returns a copy of the window's state.
func (w *Window) Snapshot() Snapshot {
	return Snapshot{
		ID:       w.id,
		Phase:    w.phase,
		X:        w.x,
		Y:        w.y,
		Velocity: w.v,
		Dirty:    w.dirty,
		Samples:  w.est.Len(),
	}
}

// Grab enters PhaseGrabbed with the window at (x, y). It returns false if
// the window was already grabbed.
func (w *Window) Grab(x, y int) bool {
	if w.phase == PhaseGrabbed {
		return false
	}
	w.phase = PhaseGrabbed
	w.v = Velocity{}
	w.dirty = false
	w.est.Reset()
	w.pending = Sample{}
	w.sync(x, y)
	return true
}

// Ungrab commits the estimated velocity and enters PhaseUngrabbed with the
// window at (x, y), where the host left it. Motion since the last frame
// tick has no elapsed time yet and is discarded. It returns false if the
// window was not grabbed.
func (w *Window) Ungrab(x, y int) bool {
	if w.phase != PhaseGrabbed {
		return false
	}
	w.phase = PhaseUngrabbed
	w.pending = Sample{}
	w.v = w.est.Finalize()
	w.sync(x, y)
	return true
}

// Move records a drag delta. Only grabbed windows sample motion; the window
// itself is moved by the host's drag handling.
func (w *Window) Move(dx, dy int) {
	if w.phase != PhaseGrabbed {
		return
	}
	w.pending.DX += float64(dx)
	w.pending.DY += float64(dy)
}

// Launch gives an ungrabbed window an initial velocity.
func (w *Window) Launch(v Velocity) {
	if w.phase == PhaseGrabbed {
		return
	}
	if !v.finite() {
		v = Velocity{}
	}
	w.v = v
}

// Stop zeroes the velocity and snaps the precise position back to the
// last committed integer position.
func (w *Window) Stop() {
	w.v = Velocity{}
	w.x, w.y = float64(w.ix), float64(w.iy)
}

// StopAt zeroes the velocity and puts the window back at (x, y), for
// when the host did not apply the last move.
func (w *Window) StopAt(x, y int) {
	w.v = Velocity{}
	w.sync(x, y)
}

// Tick advances the window by ms milliseconds. geom and screen are only
// read when the window is moving.
func (w *Window) Tick(ms int, geom platform.Geometry, screen platform.Bounds, p Params) Step {
	if w.phase == PhaseGrabbed {
		w.dirty = false
		if ms > 0 {
			w.est.Record(w.pending.DX, w.pending.DY, float64(ms))
			w.pending = Sample{}
		}
		return Step{X: w.ix, Y: w.iy}
	}
	return w.integrate(float64(ms), geom, screen, p)
}

func (w *Window) integrate(ms float64, geom platform.Geometry, screen platform.Bounds, p Params) Step {
	w.dirty = false
	if w.v.IsZero() {
		return Step{X: w.ix, Y: w.iy}
	}

	if math.Abs(w.v.X) < p.SnapThreshold {
		w.v.X = 0
	}
	if math.Abs(w.v.Y) < p.SnapThreshold {
		w.v.Y = 0
	}

	decay := 1 + math.Max(p.Friction, 0)/100
	w.v.X /= decay
	w.v.Y /= decay

	if ms > 0 {
		w.x += w.v.X * ms
		w.y += w.v.Y * ms
	}

	if !w.v.finite() || !inRange(w.x) || !inRange(w.y) {
		w.Stop()
		return Step{X: w.ix, Y: w.iy}
	}

	st := Step{X: int(math.Round(w.x)), Y: int(math.Round(w.y))}

	if p.ConstrainX {
		lo, hi := axisRange(screen.X, screen.Width, geom.Width, geom.Borders.Left, geom.Borders.Right)
		if x, ok := clamp(st.X, lo, hi); ok {
			st.X, w.x, w.v.X = x, float64(x), 0
			st.ClampedX = true
		}
	}
	if p.ConstrainY {
		lo, hi := axisRange(screen.Y, screen.Height, geom.Height, geom.Borders.Top, geom.Borders.Bottom)
		if y, ok := clamp(st.Y, lo, hi); ok {
			st.Y, w.y, w.v.Y = y, float64(y), 0
			st.ClampedY = true
		}
	}

	st.Moved = st.X != w.ix || st.Y != w.iy
	w.ix, w.iy = st.X, st.Y
	w.dirty = st.Moved || !w.v.IsZero()
	st.Dirty = w.dirty
	return st
}

// maxCoord bounds positions so they convert to int without overflow.
const maxCoord = math.MaxInt32

func inRange(f float64) bool {
	return finite(f) && math.Abs(f) <= maxCoord
}

func (w *Window) sync(x, y int) {
	w.ix, w.iy = x, y
	w.x, w.y = float64(x), float64(y)
}

// axisRange returns the allowed client origins along one axis so that the
// window plus its borders stays inside [origin, origin+extent]. A window
// larger than the screen collapses the range to its lower bound.
func axisRange(origin, extent, size, before, after int) (lo, hi int) {
	lo = origin + before
	hi = origin + extent - size - after
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func clamp(v, lo, hi int) (int, bool) {
	if v < lo {
		return lo, true
	}
	if v > hi {
		return hi, true
	}
	return v, false
}
