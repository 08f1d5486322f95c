// Package throw drives window motion frame by frame. A Driver keeps one
// motion.Window per tracked host window, routes host notifications to it,
// and asks the host to move and repaint windows after every frame tick.
package throw

import (
	"io"
	"log"
	"sort"

	"github.com/mj1618/desktop-throw/internal/config"
	"github.com/mj1618/desktop-throw/internal/motion"
	"github.com/mj1618/desktop-throw/internal/platform"
)

// Move is a window position committed to the host during a frame.
type Move struct {
	Window platform.WindowID `yaml:"window" json:"window"`
	X      int               `yaml:"x"      json:"x"`
	Y      int               `yaml:"y"      json:"y"`
}

// FrameReport summarizes one OnFrameTick.
type FrameReport struct {
	Frame   int                 `yaml:"frame"             json:"frame"`
	Elapsed int                 `yaml:"elapsed_ms"        json:"elapsed_ms"`
	Moves   []Move              `yaml:"moves,omitempty"   json:"moves,omitempty"`
	Redrawn []platform.WindowID `yaml:"redrawn,omitempty" json:"redrawn,omitempty"`
}

// Driver is the frame driver. It is not safe for concurrent use; the host
// calls it from one goroutine.
type Driver struct {
	host    platform.Host
	cfg     config.Config
	params  motion.Params
	windows map[platform.WindowID]*motion.Window
	logger  *log.Logger
	frame   int
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger used for host errors.
func WithLogger(l *log.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDriver creates a driver bound to host.
func NewDriver(host platform.Host, cfg config.Config, opts ...Option) *Driver {
	d := &Driver{
		host:    host,
		windows: make(map[platform.WindowID]*motion.Window),
		logger:  log.New(io.Discard, "", 0),
	}
	d.SetConfig(cfg)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetConfig replaces the physics settings. Estimators of already tracked
// windows are kept.
func (d *Driver) SetConfig(cfg config.Config) {
	d.cfg = cfg
	d.params = cfg.Params()
}

// Config returns the active configuration.
func (d *Driver) Config() config.Config { return d.cfg }

// OnWindowCreated starts tracking id. Tracking an already tracked window is
// a no-op.
func (d *Driver) OnWindowCreated(id platform.WindowID) {
	d.track(id)
}

// OnWindowDestroyed stops tracking id.
func (d *Driver) OnWindowDestroyed(id platform.WindowID) {
	delete(d.windows, id)
}

// OnGrabBegin puts the window into the grabbed phase. Unknown windows are
// tracked first.
func (d *Driver) OnGrabBegin(id platform.WindowID) {
	w := d.track(id)
	x, y := d.position(w)
	w.Grab(x, y)
}

// OnGrabEnd releases the window and commits its throw velocity.
func (d *Driver) OnGrabEnd(id platform.WindowID) {
	w, ok := d.windows[id]
	if !ok {
		return
	}
	x, y := d.position(w)
	if w.Ungrab(x, y) {
		v := w.Velocity()
		d.logger.Printf("window %d released at (%d,%d) with velocity (%.3f,%.3f) px/ms", id, x, y, v.X, v.Y)
	}
}

// OnDragMove records a pointer drag delta for a grabbed window.
func (d *Driver) OnDragMove(id platform.WindowID, dx, dy int) {
	if w, ok := d.windows[id]; ok {
		w.Move(dx, dy)
	}
}

// OnFrameTick implements platform.Sink.
func (d *Driver) OnFrameTick(elapsedMs int) {
	d.Tick(elapsedMs)
}

// Throw launches an ungrabbed window with velocity v, as if it had just
// been released.
func (d *Driver) Throw(id platform.WindowID, v motion.Velocity) {
	w := d.track(id)
	w.Launch(v)
}

// Tick advances every tracked window by elapsedMs. All windows are ticked
// before any redraw is requested.
func (d *Driver) Tick(elapsedMs int) FrameReport {
	d.frame++
	report := FrameReport{Frame: d.frame, Elapsed: elapsedMs}

	var (
		screen    platform.Bounds
		haveScr   bool
		screenErr bool
		dirty     []platform.WindowID
	)

	for _, id := range d.Windows() {
		w := d.windows[id]

		var geom platform.Geometry
		if w.Moving() {
			if !haveScr && !screenErr {
				s, err := d.host.ScreenSize()
				if err != nil {
					d.logger.Printf("screen size: %v", err)
					screenErr = true
				} else {
					screen, haveScr = s, true
				}
			}
			g, err := d.host.Geometry(id)
			if err != nil || (!haveScr && (d.params.ConstrainX || d.params.ConstrainY)) {
				if err != nil {
					d.logger.Printf("window %d geometry: %v", id, err)
				}
				w.Stop()
				continue
			}
			geom = g
		}

		px, py := w.Position()
		st := w.Tick(elapsedMs, geom, screen, d.params)
		if st.Moved {
			if err := d.host.MoveWindowTo(id, st.X, st.Y); err != nil {
				d.logger.Printf("window %d move to (%d,%d): %v", id, st.X, st.Y, err)
				w.StopAt(px, py)
				continue
			}
			report.Moves = append(report.Moves, Move{Window: id, X: st.X, Y: st.Y})
		}
		if st.Dirty {
			dirty = append(dirty, id)
		}
	}

	for _, id := range dirty {
		if err := d.host.RequestRedraw(id); err != nil {
			d.logger.Printf("window %d redraw: %v", id, err)
			continue
		}
		report.Redrawn = append(report.Redrawn, id)
	}
	return report
}

// Windows returns the tracked window IDs in ascending order.
func (d *Driver) Windows() []platform.WindowID {
	ids := make([]platform.WindowID, 0, len(d.windows))
	for id := range d.windows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Window returns a snapshot of a tracked window.
func (d *Driver) Window(id platform.WindowID) (motion.Snapshot, bool) {
	w, ok := d.windows[id]
	if !ok {
		return motion.Snapshot{}, false
	}
	return w.Snapshot(), true
}

// Active reports whether any window is grabbed or still moving.
func (d *Driver) Active() bool {
	for _, w := range d.windows {
		if w.Phase() == motion.PhaseGrabbed || w.Moving() {
			return true
		}
	}
	return false
}

func (d *Driver) track(id platform.WindowID) *motion.Window {
	if w, ok := d.windows[id]; ok {
		return w
	}
	var x, y int
	if g, err := d.host.Geometry(id); err == nil {
		x, y = g.X, g.Y
	} else {
		d.logger.Printf("window %d geometry: %v", id, err)
	}
	w := motion.NewWindow(id, d.cfg.NewEstimator(), x, y)
	d.windows[id] = w
	return w
}

// position reads the window's host position, falling back to the last
// committed one.
func (d *Driver) position(w *motion.Window) (int, int) {
	g, err := d.host.Geometry(w.ID())
	if err != nil {
		d.logger.Printf("window %d geometry: %v", w.ID(), err)
		return w.Position()
	}
	return g.X, g.Y
}
