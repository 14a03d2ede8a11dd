package chart

import (
	"image/color"
	"math"
)

const (
	pieInset       = 20
	pieStrokeWidth = 2
	pieStartAngle  = -math.Pi / 2
)

// Slice is one pie input: non-negative amount and fill color.
type Slice struct {
	Label  string
	Amount int64
	Color  color.RGBA
}

// SliceGeometry is the angular extent of one slice in radians.
type SliceGeometry struct {
	Label    string
	Start    float64
	End      float64
	Fraction float64
}

// Span returns End-Start.
func (g SliceGeometry) Span() float64 {
	return g.End - g.Start
}

// PieLayout computes slice angles clockwise from 12 o'clock. It returns nil
// when the amounts sum to zero. Negative amounts count as zero.
func PieLayout(slices []Slice) []SliceGeometry {
	var total int64
	for _, s := range slices {
		if s.Amount > 0 {
			total += s.Amount
		}
	}
	if total == 0 {
		return nil
	}
	out := make([]SliceGeometry, len(slices))
	angle := pieStartAngle
	for i, s := range slices {
		amount := s.Amount
		if amount < 0 {
			amount = 0
		}
		fraction := float64(amount) / float64(total)
		span := fraction * 2 * math.Pi
		out[i] = SliceGeometry{Label: s.Label, Start: angle, End: angle + span, Fraction: fraction}
		angle += span
	}
	return out
}

// DrawPie clears the surface and draws the slices with a border in the
// background color. Nothing is drawn when the total is zero.
func DrawPie(s Surface, slices []Slice, style Style) []SliceGeometry {
	if s == nil {
		return nil
	}
	s.Clear()
	layout := PieLayout(slices)
	if layout == nil {
		return nil
	}
	w, h := s.Size()
	cx, cy := float64(w)/2, float64(h)/2
	radius := math.Min(cx, cy) - pieInset
	if radius <= 0 {
		return layout
	}
	for i, geo := range layout {
		if geo.Span() == 0 {
			continue
		}
		path := new(Path).MoveTo(cx, cy).Arc(cx, cy, radius, geo.Start, geo.End).Close()
		s.FillPath(path, Solid(slices[i].Color))
		s.StrokePath(path, style.Background, pieStrokeWidth)
	}
	return layout
}
