package chart

const (
	trendPadding     = 40
	gridDivisions    = 5
	trendLineWidth   = 3
	trendPointRadius = 4
	labelBaseline    = 10
)

// TrendPoint carries two series values for one x-axis label.
type TrendPoint struct {
	Label string
	A, B  float64
}

// TrendLayout is the computed geometry of a trend chart.
type TrendLayout struct {
	GridY  []float64
	A, B   []Point
	Labels []Point
}

// LayoutTrend positions the series inside the padded plot area. The larger of
// both series maps to the top and zero to the bottom. A single point sits in
// the middle; an all-zero series stays on the baseline.
func LayoutTrend(width, height int, points []TrendPoint) TrendLayout {
	chartW := float64(width) - 2*trendPadding
	chartH := float64(height) - 2*trendPadding
	layout := TrendLayout{GridY: make([]float64, 0, gridDivisions+1)}
	for i := 0; i <= gridDivisions; i++ {
		layout.GridY = append(layout.GridY, trendPadding+chartH/gridDivisions*float64(i))
	}

	var peak float64
	for _, p := range points {
		if p.A > peak {
			peak = p.A
		}
		if p.B > peak {
			peak = p.B
		}
	}
	scaleY := func(v float64) float64 {
		if peak <= 0 {
			return trendPadding + chartH
		}
		return trendPadding + chartH - v/peak*chartH
	}

	n := len(points)
	for i, p := range points {
		var x float64
		if n < 2 {
			x = trendPadding + chartW/2
		} else {
			x = trendPadding + chartW/float64(n-1)*float64(i)
		}
		layout.A = append(layout.A, Point{X: x, Y: scaleY(p.A)})
		layout.B = append(layout.B, Point{X: x, Y: scaleY(p.B)})
		layout.Labels = append(layout.Labels, Point{X: x, Y: float64(height) - labelBaseline})
	}
	return layout
}

// DrawTrend draws gridlines, both polylines, point markers and labels.
func DrawTrend(s Surface, points []TrendPoint, style Style) TrendLayout {
	if s == nil {
		return TrendLayout{}
	}
	s.Clear()
	w, h := s.Size()
	layout := LayoutTrend(w, h, points)

	for _, y := range layout.GridY {
		grid := new(Path).MoveTo(trendPadding, y).LineTo(float64(w)-trendPadding, y)
		s.StrokePath(grid, style.Grid, 1)
	}

	series := []struct {
		points []Point
		paint  Paint
	}{
		{layout.A, Solid(style.SeriesA)},
		{layout.B, Solid(style.SeriesB)},
	}
	for _, line := range series {
		if len(line.points) >= 2 {
			path := new(Path)
			for i, pt := range line.points {
				if i == 0 {
					path.MoveTo(pt.X, pt.Y)
					continue
				}
				path.LineTo(pt.X, pt.Y)
			}
			s.StrokePath(path, line.paint.Color, trendLineWidth)
		}
		for _, pt := range line.points {
			s.FillPath(Circle(pt.X, pt.Y, trendPointRadius), line.paint)
		}
	}

	for i, at := range layout.Labels {
		s.FillText(points[i].Label, at.X, at.Y, style.Label, AlignCenter)
	}
	return layout
}
