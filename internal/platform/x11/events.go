//go:build linux

package x11

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
	"github.com/mj1618/desktop-throw/internal/platform"
)

// DragEvents binds a window drag on the root window and ticks frames.
type DragEvents struct {
	host     *X11Host
	binding  string
	interval time.Duration

	tracked map[platform.WindowID]bool

	// Active drag.
	grabbed      xproto.Window
	lastX, lastY int
}

// NewDragEvents creates the event pump for host.
func NewDragEvents(host *X11Host, opts platform.ProviderOptions) *DragEvents {
	interval := opts.FrameInterval
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &DragEvents{
		host:     host,
		binding:  bindingString(opts.Modifier, opts.Button),
		interval: interval,
		tracked:  make(map[platform.WindowID]bool),
	}
}

// bindingString builds an xgbutil mouse binding such as "Mod1-1".
func bindingString(modifier string, button platform.MouseButton) string {
	if modifier == "" {
		return fmt.Sprintf("%d", button.X11())
	}
	return fmt.Sprintf("%s-%d", modifier, button.X11())
}

// Run grabs the drag binding and blocks until ctx is cancelled or the X
// event loop quits. X callbacks and frame ticks are serialized on the
// calling goroutine through xevent.MainPing.
func (e *DragEvents) Run(ctx context.Context, sink platform.Sink) error {
	xu := e.host.XUtil()
	root := e.host.RootWindow()
	mousebind.Initialize(xu)

	begin := func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) (bool, xproto.Cursor) {
		win, err := e.host.topLevelAt()
		if err != nil {
			log.Printf("x11: %v", err)
			return false, 0
		}
		if win == 0 {
			return false, 0
		}
		id := platform.WindowID(win)
		if !e.tracked[id] {
			e.watch(xu, win, sink)
			sink.OnWindowCreated(id)
		}
		e.grabbed = win
		e.lastX, e.lastY = rootX, rootY
		sink.OnGrabBegin(id)
		return true, 0
	}
	step := func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
		if e.grabbed == 0 {
			return
		}
		id := platform.WindowID(e.grabbed)
		dx, dy := rootX-e.lastX, rootY-e.lastY
		e.lastX, e.lastY = rootX, rootY
		if dx == 0 && dy == 0 {
			return
		}
		g, err := e.host.Geometry(id)
		if err != nil {
			log.Printf("x11: drag: %v", err)
			return
		}
		if err := e.host.MoveWindowTo(id, g.X+dx, g.Y+dy); err != nil {
			log.Printf("x11: drag: %v", err)
			return
		}
		sink.OnDragMove(id, dx, dy)
	}
	end := func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
		if e.grabbed == 0 {
			return
		}
		sink.OnGrabEnd(platform.WindowID(e.grabbed))
		e.grabbed = 0
	}

	mousebind.Drag(xu, root, root, e.binding, true, begin, step, end)
	log.Printf("x11: throw binding %s active on root %d", e.binding, root)

	before, after, quit := xevent.MainPing(xu)
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			xevent.Quit(xu)
			return ctx.Err()
		case <-before:
			<-after
		case now := <-ticker.C:
			ms := int(now.Sub(last) / time.Millisecond)
			last = now
			sink.OnFrameTick(ms)
		case <-quit:
			return nil
		}
	}
}

// watch reports the window's destruction to the sink.
func (e *DragEvents) watch(xu *xgbutil.XUtil, win xproto.Window, sink platform.Sink) {
	id := platform.WindowID(win)
	e.tracked[id] = true
	if err := xwindow.New(xu, win).Listen(xproto.EventMaskStructureNotify); err != nil {
		log.Printf("x11: listen on window %d: %v", win, err)
		return
	}
	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		if ev.Window != win {
			return
		}
		if e.grabbed == win {
			e.grabbed = 0
		}
		delete(e.tracked, id)
		e.host.forget(id)
		xevent.Detach(xu, win)
		sink.OnWindowDestroyed(id)
	}).Connect(xu, win)
}
