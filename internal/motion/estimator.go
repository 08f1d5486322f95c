package motion

import (
	"fmt"
	"math"
	"strings"
)

// Velocity is a 2D velocity in pixels per millisecond.
type Velocity struct {
	X, Y float64
}

// IsZero reports whether both components are exactly zero.
func (v Velocity) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Speed returns the magnitude of v.
func (v Velocity) Speed() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Velocity) finite() bool {
	return finite(v.X) && finite(v.Y)
}

// Sample is the motion accumulated between two frame ticks during a grab.
type Sample struct {
	DX, DY float64
	DT     float64 // milliseconds
}

// Estimator turns the samples of one grab session into a release velocity.
type Estimator interface {
	// Record adds one sample. Samples with a negative or non-finite dt are dropped.
	Record(dx, dy, dt float64)

	// Finalize returns the averaged velocity and resets the estimator.
	// A session with no elapsed time yields the zero velocity.
	Finalize() Velocity

	// Reset discards all samples.
	Reset()

	// Len returns the number of samples currently held.
	Len() int
}

// EstimatorKind selects the averaging algorithm.
type EstimatorKind string

const (
	// KindRing averages the last N samples so the final flick dominates.
	KindRing EstimatorKind = "ring"
	// KindTotal averages total displacement over total grabbed time.
	KindTotal EstimatorKind = "total"
)

// DefaultRingCapacity is the number of samples kept by a ring estimator.
const DefaultRingCapacity = 20

// ParseEstimatorKind converts a config or flag value to an EstimatorKind.
func ParseEstimatorKind(s string) (EstimatorKind, error) {
	switch EstimatorKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindRing, "":
		return KindRing, nil
	case KindTotal:
		return KindTotal, nil
	default:
		return KindRing, fmt.Errorf("unknown estimator: %q (expected ring or total)", s)
	}
}

// NewEstimator returns an estimator of the given kind. capacity is only used
// by the ring estimator; values < 1 fall back to DefaultRingCapacity.
func NewEstimator(kind EstimatorKind, capacity int) Estimator {
	if kind == KindTotal {
		return &TotalEstimator{}
	}
	return NewRingEstimator(capacity)
}

// RingEstimator keeps a fixed number of samples, overwriting the oldest.
type RingEstimator struct {
	buf  []Sample
	next int
	n    int
}

// NewRingEstimator creates a ring estimator holding up to capacity samples.
func NewRingEstimator(capacity int) *RingEstimator {
	if capacity < 1 {
		capacity = DefaultRingCapacity
	}
	return &RingEstimator{buf: make([]Sample, capacity)}
}

func (r *RingEstimator) Record(dx, dy, dt float64) {
	if !validDT(dt) || !finite(dx) || !finite(dy) {
		return
	}
	r.buf[r.next] = Sample{DX: dx, DY: dy, DT: dt}
	r.next = (r.next + 1) % len(r.buf)
	if r.n < len(r.buf) {
		r.n++
	}
}

func (r *RingEstimator) Finalize() Velocity {
	var sx, sy, st float64
	for i := 0; i < r.n; i++ {
		s := r.buf[i]
		sx += s.DX
		sy += s.DY
		st += s.DT
	}
	r.Reset()
	return average(sx, sy, st)
}

func (r *RingEstimator) Reset() {
	r.next = 0
	r.n = 0
}

func (r *RingEstimator) Len() int { return r.n }

// Cap returns the ring capacity.
func (r *RingEstimator) Cap() int { return len(r.buf) }

// TotalEstimator is a running sum of displacement and time.
type TotalEstimator struct {
	dx, dy, dt float64
	n          int
}

func (t *TotalEstimator) Record(dx, dy, dt float64) {
	if !validDT(dt) || !finite(dx) || !finite(dy) {
		return
	}
	t.dx += dx
	t.dy += dy
	t.dt += dt
	t.n++
}

func (t *TotalEstimator) Finalize() Velocity {
	v := average(t.dx, t.dy, t.dt)
	t.Reset()
	return v
}

func (t *TotalEstimator) Reset() {
	*t = TotalEstimator{}
}

func (t *TotalEstimator) Len() int { return t.n }

func average(dx, dy, dt float64) Velocity {
	if dt <= 0 {
		return Velocity{}
	}
	v := Velocity{X: dx / dt, Y: dy / dt}
	if !v.finite() {
		return Velocity{}
	}
	return v
}

func validDT(dt float64) bool {
	return dt >= 0 && finite(dt)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
