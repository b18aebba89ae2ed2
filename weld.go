package intrinsic

import "github.com/go-gl/mathgl/mgl64"

// Welder turns a triangle soup into an indexed mesh, merging corners with
// exactly equal coordinates.
type Welder struct {
	positions  []mgl64.Vec3
	pointIndex map[mgl64.Vec3]int
	indices    []int
	dropped    int
}

func NewWelder() *Welder {
	return &Welder{
		pointIndex: make(map[mgl64.Vec3]int),
	}
}

// AddPoint returns the index of p, adding it if it has not been seen before.
func (w *Welder) AddPoint(p mgl64.Vec3) int {
	if index, found := w.pointIndex[p]; found {
		return index
	}
	w.positions = append(w.positions, p)
	index := len(w.positions) - 1
	w.pointIndex[p] = index
	return index
}

// AddTriangle adds a face. Faces whose corners weld into fewer than three
// distinct points are dropped and false is returned.
func (w *Welder) AddTriangle(a, b, c mgl64.Vec3) bool {
	// Checked before adding points so a dropped face leaves no orphans.
	if a == b || b == c || c == a {
		w.dropped++
		return false
	}
	w.indices = append(w.indices, w.AddPoint(a), w.AddPoint(b), w.AddPoint(c))
	return true
}

func (w *Welder) Indices() []int { return w.indices }

func (w *Welder) Positions() []mgl64.Vec3 { return w.positions }

// Dropped returns how many degenerate faces AddTriangle rejected.
func (w *Welder) Dropped() int { return w.dropped }

// WeldTriangles welds tris in one go.
func WeldTriangles(tris [][3]mgl64.Vec3) ([]int, []mgl64.Vec3) {
	w := NewWelder()
	for _, t := range tris {
		w.AddTriangle(t[0], t[1], t[2])
	}
	return w.Indices(), w.Positions()
}
