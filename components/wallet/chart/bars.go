package chart

const (
	barPadding = 20
	barGutter  = 1
)

// BarRect is the filled rectangle of one bar.
type BarRect struct {
	X, Y, Width, Height float64
}

// LayoutBars spreads n equal-width bars across the plot area, heights scaled
// to the largest value. A zero maximum yields zero-height bars.
func LayoutBars(width, height int, values []float64) []BarRect {
	n := len(values)
	if n == 0 {
		return nil
	}
	chartW := float64(width) - 2*barPadding
	chartH := float64(height) - 2*barPadding
	barW := chartW / float64(n)

	var peak float64
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}

	out := make([]BarRect, n)
	for i, v := range values {
		var h float64
		if peak > 0 && v > 0 {
			h = v / peak * chartH
		}
		x := barPadding + float64(i)*barW
		y := barPadding + chartH - h
		out[i] = BarRect{X: x + barGutter, Y: y, Width: barW - 2*barGutter, Height: h}
	}
	return out
}

// DrawBars fills each bar with the vertical style gradient.
func DrawBars(s Surface, values []float64, style Style) []BarRect {
	if s == nil {
		return nil
	}
	s.Clear()
	w, h := s.Size()
	bars := LayoutBars(w, h, values)
	for _, bar := range bars {
		if bar.Height <= 0 || bar.Width <= 0 {
			continue
		}
		s.FillPath(Rect(bar.X, bar.Y, bar.Width, bar.Height), Paint{
			Color: style.BarFrom,
			Gradient: &LinearGradient{
				Y0:   bar.Y,
				Y1:   bar.Y + bar.Height,
				From: style.BarFrom,
				To:   style.BarTo,
			},
		})
	}
	return bars
}
