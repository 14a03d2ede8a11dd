package chart

import (
	"image/color"
	"strconv"
	"unicode/utf16"
)

// QRModules is the side length of the pseudo QR grid.
const QRModules = 25

const finderSize = 7

// QRHash is a 31-multiplier string hash over UTF-16 code units with 32-bit
// wraparound, returned as an absolute value.
func QRHash(s string) int64 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(unit)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// QRPattern returns the module grid for data indexed [column][row]. A module
// is dark when the hash of data followed by both indices is even. Finder
// patterns are not included.
func QRPattern(data string) [QRModules][QRModules]bool {
	var grid [QRModules][QRModules]bool
	for i := 0; i < QRModules; i++ {
		for j := 0; j < QRModules; j++ {
			key := data + strconv.Itoa(i) + strconv.Itoa(j)
			grid[i][j] = QRHash(key)%2 == 0
		}
	}
	return grid
}

// DrawQR paints the pseudo pattern and three finder patterns.
func DrawQR(s Surface, data string, dark, light color.RGBA) {
	if s == nil {
		return
	}
	w, h := s.Size()
	size := float64(w)
	if h < w {
		size = float64(h)
	}
	module := size / QRModules

	s.FillPath(Rect(0, 0, size, size), Solid(light))
	grid := QRPattern(data)
	for i := 0; i < QRModules; i++ {
		for j := 0; j < QRModules; j++ {
			if grid[i][j] {
				s.FillPath(Rect(float64(i)*module, float64(j)*module, module, module), Solid(dark))
			}
		}
	}

	far := float64(QRModules-finderSize) * module
	for _, origin := range []Point{{0, 0}, {far, 0}, {0, far}} {
		drawFinder(s, origin, module, dark, light)
	}
}

func drawFinder(s Surface, at Point, module float64, dark, light color.RGBA) {
	s.FillPath(Rect(at.X, at.Y, 7*module, 7*module), Solid(dark))
	s.FillPath(Rect(at.X+module, at.Y+module, 5*module, 5*module), Solid(light))
	s.FillPath(Rect(at.X+2*module, at.Y+2*module, 3*module, 3*module), Solid(dark))
}
