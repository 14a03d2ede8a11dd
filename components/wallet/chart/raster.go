package chart

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// RasterSurface draws onto an in-memory RGBA image. It is safe for
// concurrent use; each call holds the surface lock.
type RasterSurface struct {
	mu   sync.Mutex
	img  *image.RGBA
	face font.Face
	rast *vector.Rasterizer
}

var _ Surface = (*RasterSurface)(nil)

// NewRasterSurface allocates a transparent surface of the given size.
func NewRasterSurface(width, height int) *RasterSurface {
	return &RasterSurface{
		img:  image.NewRGBA(image.Rect(0, 0, width, height)),
		face: basicfont.Face7x13,
		rast: vector.NewRasterizer(width, height),
	}
}

// Size returns the surface dimensions.
func (s *RasterSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image exposes the backing image. Callers must not read it while another
// goroutine draws.
func (s *RasterSurface) Image() *image.RGBA {
	return s.img
}

// EncodePNG writes the surface as PNG.
func (s *RasterSurface) EncodePNG(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return png.Encode(w, s.img)
}

// Clear resets every pixel to transparent.
func (s *RasterSurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	draw.Draw(s.img, s.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// FillPath fills every subpath of path with paint.
func (s *RasterSurface) FillPath(path *Path, paint Paint) {
	if path == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fill(path.subpaths, paint)
}

// fill rasterizes subpaths inside their bounding box only. Caller holds mu.
func (s *RasterSurface) fill(subpaths []subpath, paint Paint) {
	r := pathBounds(subpaths).Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	s.rast.Reset(r.Dx(), r.Dy())
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	for _, sp := range subpaths {
		if len(sp.points) < 3 {
			continue
		}
		s.rast.MoveTo(float32(sp.points[0].X-ox), float32(sp.points[0].Y-oy))
		for _, pt := range sp.points[1:] {
			s.rast.LineTo(float32(pt.X-ox), float32(pt.Y-oy))
		}
		s.rast.ClosePath()
	}
	s.rast.Draw(s.img, r, s.source(paint), r.Min)
}

// pathBounds returns the pixel rectangle covering every fillable subpath,
// padded by one pixel for anti-aliased edges.
func pathBounds(subpaths []subpath) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, sp := range subpaths {
		if len(sp.points) < 3 {
			continue
		}
		for _, pt := range sp.points {
			minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
			minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
		}
	}
	if minX > maxX || minY > maxY {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	)
}

// StrokePath outlines path segments as quads with round joins. Each primitive
// is rasterized on its own so overlapping pieces never cancel out.
func (s *RasterSurface) StrokePath(path *Path, c color.RGBA, width float64) {
	if path == nil || width <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	half := width / 2
	paint := Solid(c)
	for _, sp := range path.subpaths {
		pts := sp.points
		if sp.closed && len(pts) > 1 {
			pts = append(append([]Point(nil), pts...), pts[0])
		}
		for i := 1; i < len(pts); i++ {
			a, b := pts[i-1], pts[i]
			dx, dy := b.X-a.X, b.Y-a.Y
			length := math.Hypot(dx, dy)
			if length == 0 {
				continue
			}
			nx, ny := -dy/length*half, dx/length*half
			quad := new(Path).
				MoveTo(a.X+nx, a.Y+ny).
				LineTo(b.X+nx, b.Y+ny).
				LineTo(b.X-nx, b.Y-ny).
				LineTo(a.X-nx, a.Y-ny).
				Close()
			s.fill(quad.subpaths, paint)
		}
		if half >= 1 {
			for _, pt := range pts {
				s.fill(Circle(pt.X, pt.Y, half).subpaths, paint)
			}
		}
	}
}

// FillText draws text with its baseline at y.
func (s *RasterSurface) FillText(text string, x, y float64, c color.RGBA, align TextAlign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := &font.Drawer{Dst: s.img, Src: image.NewUniform(c), Face: s.face}
	width := d.MeasureString(text).Ceil()
	switch align {
	case AlignCenter:
		x -= float64(width) / 2
	case AlignRight:
		x -= float64(width)
	}
	d.Dot = fixed.P(int(math.Round(x)), int(math.Round(y)))
	d.DrawString(text)
}

func (s *RasterSurface) source(paint Paint) image.Image {
	if paint.Gradient != nil {
		return gradientImage{g: *paint.Gradient, bounds: s.img.Bounds()}
	}
	return image.NewUniform(paint.Color)
}

// gradientImage exposes a LinearGradient as an image source for the rasterizer.
type gradientImage struct {
	g      LinearGradient
	bounds image.Rectangle
}

func (g gradientImage) ColorModel() color.Model { return color.RGBAModel }

func (g gradientImage) Bounds() image.Rectangle { return g.bounds }

func (g gradientImage) At(_, y int) color.Color {
	return g.g.At(float64(y) + 0.5)
}
