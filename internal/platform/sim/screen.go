// Package sim provides an in-memory window system. It backs the simulate
// and replay commands, the MCP server and the driver tests.
package sim

import (
	"fmt"

	"github.com/mj1618/desktop-throw/internal/platform"
)

// MoveRecord is one MoveWindowTo call seen by the screen.
type MoveRecord struct {
	Window platform.WindowID
	X, Y   int
}

// Screen is a fake host holding windows on a single screen.
type Screen struct {
	bounds  platform.Bounds
	windows map[platform.WindowID]platform.Geometry

	Moves   []MoveRecord
	Redraws []platform.WindowID

	// Fail, when set, makes MoveWindowTo, MoveBy, RequestRedraw and
	// Geometry fail for the matching window.
	Fail func(id platform.WindowID) error
}

// NewScreen creates an empty screen covering bounds.
func NewScreen(bounds platform.Bounds) *Screen {
	return &Screen{
		bounds:  bounds,
		windows: make(map[platform.WindowID]platform.Geometry),
	}
}

// AddWindow places a window on the screen, replacing any previous one with
// the same ID.
func (s *Screen) AddWindow(id platform.WindowID, g platform.Geometry) {
	s.windows[id] = g
}

// RemoveWindow deletes a window.
func (s *Screen) RemoveWindow(id platform.WindowID) {
	delete(s.windows, id)
}

// HasWindow reports whether id exists.
func (s *Screen) HasWindow(id platform.WindowID) bool {
	_, ok := s.windows[id]
	return ok
}

// MoveBy shifts a window by (dx, dy), as the window system's own drag
// handling would. It does not record a MoveRecord.
func (s *Screen) MoveBy(id platform.WindowID, dx, dy int) error {
	if err := s.fail(id); err != nil {
		return err
	}
	g, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("no window %d", id)
	}
	g.X += dx
	g.Y += dy
	s.windows[id] = g
	return nil
}

// SetBounds resizes the screen. Windows keep their positions.
func (s *Screen) SetBounds(b platform.Bounds) {
	s.bounds = b
}

// Reset clears the recorded moves and redraws.
func (s *Screen) Reset() {
	s.Moves = nil
	s.Redraws = nil
}

func (s *Screen) MoveWindowTo(id platform.WindowID, x, y int) error {
	if err := s.fail(id); err != nil {
		return err
	}
	g, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("no window %d", id)
	}
	g.X, g.Y = x, y
	s.windows[id] = g
	s.Moves = append(s.Moves, MoveRecord{Window: id, X: x, Y: y})
	return nil
}

func (s *Screen) RequestRedraw(id platform.WindowID) error {
	if err := s.fail(id); err != nil {
		return err
	}
	if _, ok := s.windows[id]; !ok {
		return fmt.Errorf("no window %d", id)
	}
	s.Redraws = append(s.Redraws, id)
	return nil
}

func (s *Screen) Geometry(id platform.WindowID) (platform.Geometry, error) {
	if err := s.fail(id); err != nil {
		return platform.Geometry{}, err
	}
	g, ok := s.windows[id]
	if !ok {
		return platform.Geometry{}, fmt.Errorf("no window %d", id)
	}
	return g, nil
}

func (s *Screen) ScreenSize() (platform.Bounds, error) {
	return s.bounds, nil
}

func (s *Screen) fail(id platform.WindowID) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail(id)
}
