// Package chart draws wallet analytics onto fixed-size 2D surfaces.
//
// Renderers only talk to the Surface interface, so the same routines feed the
// PNG rasterizer used by the HTTP API and the Recorder used in tests. A nil
// surface is always a no-op: charts may be asked to draw before their target
// has been attached.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Point is a position in surface pixels.
type Point struct {
	X, Y float64
}

// TextAlign controls horizontal anchoring of FillText.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// LinearGradient is a vertical gradient between two colors.
type LinearGradient struct {
	Y0, Y1   float64
	From, To color.RGBA
}

// At returns the interpolated color at y, clamped to the gradient ends.
func (g LinearGradient) At(y float64) color.RGBA {
	if g.Y1 == g.Y0 {
		return g.From
	}
	t := (y - g.Y0) / (g.Y1 - g.Y0)
	t = math.Max(0, math.Min(1, t))
	lerp := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return color.RGBA{
		R: lerp(g.From.R, g.To.R),
		G: lerp(g.From.G, g.To.G),
		B: lerp(g.From.B, g.To.B),
		A: lerp(g.From.A, g.To.A),
	}
}

// Paint is either a solid color or a gradient when Gradient is set.
type Paint struct {
	Color    color.RGBA
	Gradient *LinearGradient
}

// Solid wraps a single color.
func Solid(c color.RGBA) Paint {
	return Paint{Color: c}
}

// Surface is the drawing target for chart routines.
type Surface interface {
	Size() (width, height int)
	Clear()
	FillPath(path *Path, paint Paint)
	StrokePath(path *Path, c color.RGBA, width float64)
	FillText(text string, x, y float64, c color.RGBA, align TextAlign)
}

// arcSegmentsPerTurn bounds the flattening error of arcs on small surfaces.
const arcSegmentsPerTurn = 96

type subpath struct {
	points []Point
	closed bool
}

// Path is a polyline path with arcs flattened on insertion.
type Path struct {
	subpaths []subpath
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) *Path {
	p.subpaths = append(p.subpaths, subpath{points: []Point{{X: x, Y: y}}})
	return p
}

// LineTo extends the current subpath, starting one when needed.
func (p *Path) LineTo(x, y float64) *Path {
	if len(p.subpaths) == 0 {
		return p.MoveTo(x, y)
	}
	last := &p.subpaths[len(p.subpaths)-1]
	last.points = append(last.points, Point{X: x, Y: y})
	return p
}

// Arc appends a clockwise arc from start to end radians (screen coordinates,
// y down), joined to the current point by a straight line.
func (p *Path) Arc(cx, cy, r, start, end float64) *Path {
	sweep := end - start
	steps := int(math.Ceil(math.Abs(sweep) / (2 * math.Pi) * arcSegmentsPerTurn))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		angle := start + sweep*float64(i)/float64(steps)
		p.LineTo(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
	}
	return p
}

// Close marks the current subpath as closed.
func (p *Path) Close() *Path {
	if len(p.subpaths) > 0 {
		p.subpaths[len(p.subpaths)-1].closed = true
	}
	return p
}

// Subpaths returns a copy of the flattened points per subpath.
func (p *Path) Subpaths() [][]Point {
	out := make([][]Point, len(p.subpaths))
	for i, sp := range p.subpaths {
		out[i] = append([]Point(nil), sp.points...)
	}
	return out
}

// Rect builds a closed rectangle path.
func Rect(x, y, w, h float64) *Path {
	return new(Path).MoveTo(x, y).LineTo(x+w, y).LineTo(x+w, y+h).LineTo(x, y+h).Close()
}

// Circle builds a closed circle path.
func Circle(cx, cy, r float64) *Path {
	return new(Path).MoveTo(cx+r, cy).Arc(cx, cy, r, 0, 2*math.Pi).Close()
}

// ParseHex converts "#RRGGBB" or "#RGB" into an opaque color.
func ParseHex(hex string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("chart: invalid color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("chart: invalid color %q: %w", hex, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustHex is ParseHex for compile-time palette constants.
func MustHex(hex string) color.RGBA {
	c, err := ParseHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Style holds the palette consumed by the chart routines.
type Style struct {
	Background color.RGBA
	Grid       color.RGBA
	Label      color.RGBA
	SeriesA    color.RGBA
	SeriesB    color.RGBA
	BarFrom    color.RGBA
	BarTo      color.RGBA
}

// DefaultStyle mirrors the light card background the charts are drawn on.
func DefaultStyle() Style {
	return Style{
		Background: MustHex("#FFFFFF"),
		Grid:       MustHex("#E5E5E5"),
		Label:      MustHex("#666666"),
		SeriesA:    MustHex("#FFD700"),
		SeriesB:    MustHex("#FF6B35"),
		BarFrom:    MustHex("#FFD700"),
		BarTo:      MustHex("#FFA500"),
	}
}
