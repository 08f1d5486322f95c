//go:build linux

package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xwindow"
	"github.com/mj1618/desktop-throw/internal/platform"
)

// X11Host implements platform.Host on an X connection. Window IDs are the
// top-level (root child) XIDs, which under a reparenting window manager are
// the frame windows.
type X11Host struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	// Border widths from the last Geometry call, needed to convert the
	// client origin back to the outer corner ConfigureWindow expects.
	borders map[platform.WindowID]int
}

// NewHost connects to the display named by $DISPLAY.
func NewHost() (*X11Host, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	return &X11Host{
		xu:      xu,
		root:    xu.RootWin(),
		borders: make(map[platform.WindowID]int),
	}, nil
}

// XUtil exposes the connection for the event pump.
func (h *X11Host) XUtil() *xgbutil.XUtil { return h.xu }

// RootWindow returns the root window of the default screen.
func (h *X11Host) RootWindow() xproto.Window { return h.root }

func (h *X11Host) MoveWindowTo(id platform.WindowID, x, y int) error {
	mask, values := moveRequest(x, y, h.borders[id])
	err := xproto.ConfigureWindowChecked(h.xu.Conn(), xproto.Window(id), mask, values).Check()
	if err != nil {
		return fmt.Errorf("move window %d: %w", id, err)
	}
	return nil
}

// moveRequest builds the ConfigureWindow arguments that put the client
// origin at (x, y). X takes the outer corner, so the border is subtracted.
// Negative coordinates are sent as their two's complement.
func moveRequest(x, y, border int) (uint16, []uint32) {
	return xproto.ConfigWindowX | xproto.ConfigWindowY,
		[]uint32{uint32(int32(x - border)), uint32(int32(y - border))}
}

// RequestRedraw asks the server to send Expose events for the whole window.
func (h *X11Host) RequestRedraw(id platform.WindowID) error {
	return xproto.ClearAreaChecked(h.xu.Conn(), true, xproto.Window(id), 0, 0, 0, 0).Check()
}

// Geometry reports the client origin in root coordinates. The X border is
// the same width on every side.
func (h *X11Host) Geometry(id platform.WindowID) (platform.Geometry, error) {
	conn := h.xu.Conn()
	win := xproto.Window(id)

	geom, err := xproto.GetGeometry(conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return platform.Geometry{}, fmt.Errorf("get geometry of window %d: %w", id, err)
	}
	tr, err := xproto.TranslateCoordinates(conn, win, h.root, 0, 0).Reply()
	if err != nil {
		return platform.Geometry{}, fmt.Errorf("translate coordinates of window %d: %w", id, err)
	}

	bw := int(geom.BorderWidth)
	h.borders[id] = bw
	return platform.Geometry{
		X:       int(tr.DstX),
		Y:       int(tr.DstY),
		Width:   int(geom.Width),
		Height:  int(geom.Height),
		Borders: platform.Borders{Left: bw, Right: bw, Top: bw, Bottom: bw},
	}, nil
}

func (h *X11Host) ScreenSize() (platform.Bounds, error) {
	r := xwindow.RootGeometry(h.xu)
	return platform.Bounds{X: r.X(), Y: r.Y(), Width: r.Width(), Height: r.Height()}, nil
}

// topLevelAt returns the root child under the pointer, or 0 if the pointer
// is over the root window itself.
func (h *X11Host) topLevelAt() (xproto.Window, error) {
	reply, err := xproto.QueryPointer(h.xu.Conn(), h.root).Reply()
	if err != nil {
		return 0, fmt.Errorf("query pointer: %w", err)
	}
	return reply.Child, nil
}

func (h *X11Host) forget(id platform.WindowID) {
	delete(h.borders, id)
}
