package platform

import "context"

// Host is the window system side of a throw: geometry queries plus the
// primitives used to reposition and repaint windows.
type Host interface {
	// MoveWindowTo places the window's client origin at (x, y).
	MoveWindowTo(id WindowID, x, y int) error

	// RequestRedraw marks the window as damaged for the next paint.
	RequestRedraw(id WindowID) error

	// Geometry returns the window's current position, size and borders.
	Geometry(id WindowID) (Geometry, error)

	// ScreenSize returns the visible screen rectangle.
	ScreenSize() (Bounds, error)
}

// Sink receives host notifications. All calls arrive on a single goroutine.
type Sink interface {
	OnWindowCreated(id WindowID)
	OnWindowDestroyed(id WindowID)
	OnGrabBegin(id WindowID)
	OnGrabEnd(id WindowID)
	OnDragMove(id WindowID, dx, dy int)
	OnFrameTick(elapsedMs int)
}

// Events pumps window system input and frame ticks into a Sink until the
// context is cancelled or the connection closes.
type Events interface {
	Run(ctx context.Context, sink Sink) error
}
