package chart

import (
	"image/color"
	"sort"
	"sync"
)

// OpKind labels a recorded drawing call.
type OpKind string

const (
	OpFill   OpKind = "fill"
	OpStroke OpKind = "stroke"
	OpText   OpKind = "text"
)

// Op is one captured drawing call.
type Op struct {
	Kind   OpKind
	Points [][]Point
	Paint  Paint
	Color  color.RGBA
	Width  float64
	Text   string
	At     Point
	Align  TextAlign
}

// Recorder is a Surface that keeps the drawing calls instead of pixels.
// Clears are counted separately because they never paint.
type Recorder struct {
	mu     sync.Mutex
	width  int
	height int
	clears int
	ops    []Op
}

var _ Surface = (*Recorder)(nil)

// NewRecorder creates a recorder reporting the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) Size() (int, int) { return r.width, r.height }

func (r *Recorder) Clear() {
	r.mu.Lock()
	r.clears++
	r.mu.Unlock()
}

func (r *Recorder) FillPath(path *Path, paint Paint) {
	if path == nil {
		return
	}
	r.record(Op{Kind: OpFill, Points: path.Subpaths(), Paint: paint})
}

func (r *Recorder) StrokePath(path *Path, c color.RGBA, width float64) {
	if path == nil {
		return
	}
	r.record(Op{Kind: OpStroke, Points: path.Subpaths(), Color: c, Width: width})
}

func (r *Recorder) FillText(text string, x, y float64, c color.RGBA, align TextAlign) {
	r.record(Op{Kind: OpText, Text: text, At: Point{X: x, Y: y}, Color: c, Align: align})
}

func (r *Recorder) record(op Op) {
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.mu.Unlock()
}

// Ops returns a copy of the recorded calls.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Op(nil), r.ops...)
}

// Count returns how many calls of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Clears returns the number of Clear calls.
func (r *Recorder) Clears() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clears
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.ops = nil
	r.clears = 0
	r.mu.Unlock()
}

// Registry maps element ids to attached surfaces.
type Registry struct {
	mu       sync.RWMutex
	surfaces map[string]Surface
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{surfaces: make(map[string]Surface)}
}

// Attach binds a surface to id, replacing any previous one.
func (r *Registry) Attach(id string, s Surface) {
	if r == nil || s == nil {
		return
	}
	r.mu.Lock()
	r.surfaces[id] = s
	r.mu.Unlock()
}

// Detach removes the surface bound to id.
func (r *Registry) Detach(id string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	delete(r.surfaces, id)
	r.mu.Unlock()
}

// Lookup returns the surface for id, or nil when nothing is attached.
func (r *Registry) Lookup(id string) Surface {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.surfaces[id]
	if !ok {
		return nil
	}
	return s
}

// IDs lists attached ids in sorted order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.surfaces))
	for id := range r.surfaces {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
