// Package render draws trajectories as charts and as screen trails.
package render

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"github.com/mj1618/desktop-throw/internal/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotKind selects what a chart shows over time.
type PlotKind string

const (
	PlotPosition PlotKind = "position"
	PlotVelocity PlotKind = "velocity"
)

// ParsePlotKind validates a --kind flag value.
func ParsePlotKind(s string) (PlotKind, error) {
	switch PlotKind(strings.ToLower(s)) {
	case PlotPosition, "":
		return PlotPosition, nil
	case PlotVelocity:
		return PlotVelocity, nil
	default:
		return "", fmt.Errorf("unknown plot kind: %q (expected position or velocity)", s)
	}
}

var (
	xColor     = color.RGBA{R: 220, G: 50, B: 47, A: 255}
	yColor     = color.RGBA{R: 38, G: 139, B: 210, A: 255}
	speedColor = color.RGBA{R: 88, G: 110, B: 117, A: 255}
)

// Plot size.
const (
	plotWidth  = 10 * vg.Inch
	plotHeight = 5 * vg.Inch
)

// NewPlot builds a chart of t against simulated time.
func NewPlot(t model.Trajectory, kind PlotKind) (*plot.Plot, error) {
	if len(t.Points) == 0 {
		return nil, fmt.Errorf("trajectory has no points")
	}

	p := plot.New()
	p.X.Label.Text = "Time (ms)"

	xs := make(plotter.XYs, 0, len(t.Points))
	ys := make(plotter.XYs, 0, len(t.Points))
	var speed plotter.XYs
	for _, pt := range t.Points {
		ts := float64(pt.TimeMs)
		switch kind {
		case PlotVelocity:
			xs = append(xs, plotter.XY{X: ts, Y: pt.VX})
			ys = append(ys, plotter.XY{X: ts, Y: pt.VY})
			speed = append(speed, plotter.XY{X: ts, Y: pt.Speed()})
		default:
			xs = append(xs, plotter.XY{X: ts, Y: float64(pt.X)})
			ys = append(ys, plotter.XY{X: ts, Y: float64(pt.Y)})
		}
	}

	switch kind {
	case PlotVelocity:
		p.Title.Text = fmt.Sprintf("Window %d - Velocity (friction decay)", t.Window)
		p.Y.Label.Text = "Velocity (px/ms)"
	default:
		p.Title.Text = fmt.Sprintf("Window %d - Position", t.Window)
		p.Y.Label.Text = "Position (px)"
	}

	if err := addLine(p, xs, "x", xColor); err != nil {
		return nil, err
	}
	if err := addLine(p, ys, "y", yColor); err != nil {
		return nil, err
	}
	if speed != nil {
		if err := addLine(p, speed, "speed", speedColor); err != nil {
			return nil, err
		}
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// SavePlot writes a chart of t to path. The format follows the file
// extension (png, svg, pdf, ...).
func SavePlot(t model.Trajectory, kind PlotKind, path string) error {
	p, err := NewPlot(t, kind)
	if err != nil {
		return err
	}
	if filepath.Ext(path) == "" {
		return fmt.Errorf("output file %q needs an extension such as .png or .svg", path)
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// WritePlot encodes a chart of t to w in the given format.
func WritePlot(w io.Writer, t model.Trajectory, kind PlotKind, format string) error {
	p, err := NewPlot(t, kind)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, format)
	if err != nil {
		return fmt.Errorf("plot writer: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func addLine(p *plot.Plot, pts plotter.XYs, label string, c color.Color) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = c
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}
