package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Point is the state of a thrown window after one frame.
type Point struct {
	Frame   int     `yaml:"frame"             json:"frame"`
	TimeMs  int     `yaml:"t"                 json:"t"`
	X       int     `yaml:"x"                 json:"x"`
	Y       int     `yaml:"y"                 json:"y"`
	VX      float64 `yaml:"vx"                json:"vx"`
	VY      float64 `yaml:"vy"                json:"vy"`
	Moved   bool    `yaml:"moved,omitempty"   json:"moved,omitempty"`
	Redrawn bool    `yaml:"redrawn,omitempty" json:"redrawn,omitempty"`
}

// Speed returns the magnitude of the point's velocity in px/ms.
func (p Point) Speed() float64 {
	return math.Hypot(p.VX, p.VY)
}

// Trajectory is the frame-by-frame path of one thrown window.
type Trajectory struct {
	Window  int        `yaml:"window"  json:"window"`
	Screen  [4]int     `yaml:"screen"  json:"screen"` // [x, y, width, height]
	Size    [2]int     `yaml:"size"    json:"size"`   // window [width, height]
	Release [2]float64 `yaml:"release" json:"release"`
	FrameMs int        `yaml:"frame_ms" json:"frame_ms"`
	Rest    bool       `yaml:"rest"    json:"rest"` // came to rest within the frame limit
	Points  []Point    `yaml:"points"  json:"points"`
}

// Start returns the position before the first frame.
func (t Trajectory) Start() (int, int) {
	if len(t.Points) == 0 {
		return 0, 0
	}
	return t.Points[0].X, t.Points[0].Y
}

// End returns the final position.
func (t Trajectory) End() (int, int) {
	if len(t.Points) == 0 {
		return 0, 0
	}
	p := t.Points[len(t.Points)-1]
	return p.X, p.Y
}

// Distance returns the straight-line distance from start to end in pixels.
func (t Trajectory) Distance() float64 {
	sx, sy := t.Start()
	ex, ey := t.End()
	return math.Hypot(float64(ex-sx), float64(ey-sy))
}

// DurationMs returns the simulated time covered by the trajectory.
func (t Trajectory) DurationMs() int {
	if len(t.Points) == 0 {
		return 0
	}
	return t.Points[len(t.Points)-1].TimeMs
}

// SaveTrajectory writes t as JSON so it can be plotted later.
func SaveTrajectory(path string, t Trajectory) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal trajectory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadTrajectory reads a trajectory written by SaveTrajectory.
func LoadTrajectory(path string) (Trajectory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trajectory{}, fmt.Errorf("load trajectory: %w", err)
	}
	var t Trajectory
	if err := json.Unmarshal(data, &t); err != nil {
		return Trajectory{}, fmt.Errorf("unmarshal trajectory: %w", err)
	}
	return t, nil
}
