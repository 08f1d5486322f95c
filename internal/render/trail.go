package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/mj1618/desktop-throw/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TrailOptions control how a trail image is drawn.
type TrailOptions struct {
	Scale float64 // image pixels per screen pixel, defaults to 0.5
	Every int     // draw every Nth frame, defaults to 10
	Label bool    // print the frame number inside each outline
}

var (
	backgroundColor = color.RGBA{R: 32, G: 32, B: 32, A: 255}
	screenColor     = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	startColor      = color.RGBA{R: 38, G: 139, B: 210, A: 255}
	endColor        = color.RGBA{R: 220, G: 50, B: 47, A: 255}
	textColor       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor    = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

// Trail draws the screen and the window outline at every Nth frame of t.
// Outlines fade from blue at release to red at rest.
func Trail(t model.Trajectory, opts TrailOptions) (*image.RGBA, error) {
	if len(t.Points) == 0 {
		return nil, fmt.Errorf("trajectory has no points")
	}
	if t.Screen[2] <= 0 || t.Screen[3] <= 0 {
		return nil, fmt.Errorf("trajectory has no screen size")
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 0.5
	}
	every := opts.Every
	if every < 1 {
		every = 10
	}

	sx, sy := t.Screen[0], t.Screen[1]
	imgW := int(float64(t.Screen[2])*scale) + 1
	imgH := int(float64(t.Screen[3])*scale) + 1
	img := image.NewRGBA(image.Rect(0, 0, imgW, imgH))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)
	drawRectangle(img, 0, 0, imgW, imgH, screenColor)

	last := len(t.Points) - 1
	for i, pt := range t.Points {
		if i%every != 0 && i != last {
			continue
		}
		x := int(float64(pt.X-sx) * scale)
		y := int(float64(pt.Y-sy) * scale)
		w := int(float64(t.Size[0]) * scale)
		h := int(float64(t.Size[1]) * scale)
		c := blend(startColor, endColor, float64(i)/float64(max(last, 1)))
		drawRectangle(img, x, y, x+w, y+h, c)
		if opts.Label {
			drawTextWithOutline(img, fmt.Sprintf("%d", pt.Frame), x+w/2, y+h/2, textColor, outlineColor)
		}
	}
	return img, nil
}

// SaveTrail writes a PNG trail of t to path.
func SaveTrail(t model.Trajectory, opts TrailOptions, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trail: %w", err)
	}
	if err := WriteTrail(f, t, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteTrail encodes a PNG trail of t to w.
func WriteTrail(w io.Writer, t model.Trajectory, opts TrailOptions) error {
	img, err := Trail(t, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode trail: %w", err)
	}
	return nil
}

func blend(a, b color.RGBA, f float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*f) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// isWithinBounds checks if a point is within the image bounds
func isWithinBounds(bounds image.Rectangle, x, y int) bool {
	return x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y
}

// drawRectangle draws a rectangle outline, clipped to the image.
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()
	if x2 <= x1 || y2 <= y1 {
		return
	}
	for x := x1; x < x2; x++ {
		if isWithinBounds(bounds, x, y1) {
			img.Set(x, y1, c)
		}
		if isWithinBounds(bounds, x, y2-1) {
			img.Set(x, y2-1, c)
		}
	}
	for y := y1; y < y2; y++ {
		if isWithinBounds(bounds, x1, y) {
			img.Set(x1, y, c)
		}
		if isWithinBounds(bounds, x2-1, y) {
			img.Set(x2-1, y, c)
		}
	}
}

// drawTextWithOutline draws text centered on (x, y) with a one pixel outline.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, fg, outline color.Color) {
	// basicfont.Face7x13 glyphs are 7x13
	offsetX := x - len(text)*7/2
	offsetY := y + 13/2

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawString(img, text, offsetX+dx, offsetY+dy, outline)
		}
	}
	drawString(img, text, offsetX, offsetY, fg)
}

func drawString(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
