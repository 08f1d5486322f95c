package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// WindowID identifies a host window. On X11 it is the window XID.
type WindowID uint32

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// ParseMouseButton converts a string flag value to MouseButton.
func ParseMouseButton(s string) (MouseButton, error) {
	switch strings.ToLower(s) {
	case "left":
		return MouseLeft, nil
	case "right":
		return MouseRight, nil
	case "middle":
		return MouseMiddle, nil
	default:
		return MouseLeft, fmt.Errorf("unknown mouse button: %q (expected left, right, or middle)", s)
	}
}

// X11 returns the core protocol button number (1 = left, 2 = middle, 3 = right).
func (b MouseButton) X11() int {
	switch b {
	case MouseMiddle:
		return 2
	case MouseRight:
		return 3
	default:
		return 1
	}
}

func (b MouseButton) String() string {
	switch b {
	case MouseMiddle:
		return "middle"
	case MouseRight:
		return "right"
	default:
		return "left"
	}
}

// Bounds represents a screen rectangle.
type Bounds struct {
	X, Y, Width, Height int
}

// ParseBounds parses a "x,y,w,h" string into a Bounds.
func ParseBounds(s string) (Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, fmt.Errorf("invalid bounds %q: expected x,y,w,h", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Bounds{}, fmt.Errorf("invalid bounds %q: %w", s, err)
		}
		vals[i] = v
	}
	if vals[2] < 0 || vals[3] < 0 {
		return Bounds{}, fmt.Errorf("invalid bounds %q: negative size", s)
	}
	return Bounds{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// Borders are the decoration extents around a window's client area.
type Borders struct {
	Left, Right, Top, Bottom int
}

// Geometry describes a window on screen. X and Y are the client origin;
// Width and Height exclude the borders.
type Geometry struct {
	X, Y, Width, Height int
	Borders             Borders
}

// Outer returns the rectangle covered by the window including its borders.
func (g Geometry) Outer() Bounds {
	return Bounds{
		X:      g.X - g.Borders.Left,
		Y:      g.Y - g.Borders.Top,
		Width:  g.Width + g.Borders.Left + g.Borders.Right,
		Height: g.Height + g.Borders.Top + g.Borders.Bottom,
	}
}
