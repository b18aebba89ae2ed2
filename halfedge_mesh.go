// Package intrinsic implements intrinsic triangulations of triangle meshes:
// a purely combinatorial half-edge mesh plus a signpost layer that tracks
// edge lengths, vertex angle sums and per-halfedge bearings, and restores the
// intrinsic Delaunay property through edge flips without any embedding.
package intrinsic

import (
	"github.com/pkg/errors"
)

// NullID marks a missing twin, edge, vertex or half-edge.
const NullID = -1

// HalfedgeMesh is the connectivity of a triangulated surface.
//
// Half-edges 3f, 3f+1 and 3f+2 belong to face f. Half-edge h runs from Vert(h)
// to Vert(Succ(h)). All relations are dense indices into flat slices.
type HalfedgeMesh struct {
	twin []int // per half-edge, NullID on the boundary
	vert []int // per half-edge, the vertex it leaves from
	edge []int // per half-edge

	edgeHalfedge []int // per edge, representative half-edge
	vertHalfedge []int // per vertex, outgoing half-edge, boundary if there is one

	origVert []int // per vertex, id in the input index list
}

// BuildHalfedgeMesh builds the connectivity of the triangles in indices.
// Each consecutive triple of vertex ids is one face. Faces must be
// consistently oriented.
//
// On invalid input the returned error is a *BuildError (wrapped with a stack
// trace) that matches one of ErrNonManifoldEdge, ErrNonManifoldVertex,
// ErrOrphanVertex or ErrMalformedIndices with errors.Is. The mesh is nil in
// that case; a partially built mesh is never returned.
func BuildHalfedgeMesh(indices []int, opts ...BuildOption) (*HalfedgeMesh, error) {
	o := defaultBuildOptions()
	for _, opt := range opts {
		opt(&o)
	}
	m, err := buildHalfedgeMesh(indices, o)
	if err != nil {
		if o.panicOnInvalid {
			panic(err)
		}
		return nil, err
	}
	Logger().Debug("intrinsic: halfedge mesh built",
		"vertices", m.V(), "edges", m.E(), "faces", m.F())
	return m, nil
}

// MustBuildHalfedgeMesh is like BuildHalfedgeMesh but panics on invalid input.
func MustBuildHalfedgeMesh(indices []int, opts ...BuildOption) *HalfedgeMesh {
	m, err := BuildHalfedgeMesh(indices, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func buildHalfedgeMesh(indices []int, o buildOptions) (*HalfedgeMesh, error) {
	if len(indices)%3 != 0 {
		return nil, errors.WithStack(newBuildError(MalformedIndices))
	}

	nv := o.vertexCount
	maxIndex := -1
	for i, v := range indices {
		if v < 0 || (o.vertexCount >= 0 && v >= o.vertexCount) {
			be := newBuildError(MalformedIndices)
			be.Face = i / 3
			be.Vertex = v
			return nil, errors.WithStack(be)
		}
		maxIndex = max(maxIndex, v)
	}
	if nv < 0 {
		nv = maxIndex + 1
	}
	for f := 0; f < len(indices)/3; f++ {
		a, b, c := indices[3*f], indices[3*f+1], indices[3*f+2]
		if a == b || b == c || c == a {
			be := newBuildError(MalformedIndices)
			be.Face = f
			return nil, errors.WithStack(be)
		}
	}

	used := make([]bool, nv)
	for _, v := range indices {
		used[v] = true
	}
	remap := make([]int, nv)
	origVert := make([]int, 0, nv)
	for v := range remap {
		if o.compactVertices && !used[v] {
			remap[v] = NullID
			continue
		}
		remap[v] = len(origVert)
		origVert = append(origVert, v)
	}

	nh := len(indices)
	m := &HalfedgeMesh{
		twin:         make([]int, nh),
		vert:         make([]int, nh),
		edge:         make([]int, nh),
		edgeHalfedge: make([]int, 0, nh/2+1),
		vertHalfedge: make([]int, len(origVert)),
		origVert:     origVert,
	}
	for h, v := range indices {
		m.vert[h] = remap[v]
		m.twin[h] = NullID
	}

	keyToEdge := make(map[[2]int]int, nh/2+1)
	for h := 0; h < nh; h++ {
		a, b := m.vert[h], m.vert[m.Succ(h)]
		key := [2]int{min(a, b), max(a, b)}
		e, found := keyToEdge[key]
		if !found {
			keyToEdge[key] = len(m.edgeHalfedge)
			m.edge[h] = len(m.edgeHalfedge)
			m.edgeHalfedge = append(m.edgeHalfedge, h)
			continue
		}
		first := m.edgeHalfedge[e]
		if m.twin[first] != NullID {
			be := newBuildError(NonManifoldEdge)
			be.Edge = [2]int{origVert[key[0]], origVert[key[1]]}
			be.Face = h / 3
			return nil, errors.WithStack(be)
		}
		m.twin[first] = h
		m.twin[h] = first
		m.edge[h] = e
	}

	for v := range m.vertHalfedge {
		m.vertHalfedge[v] = NullID
	}
	boundary := make([]bool, len(origVert))
	for h := 0; h < nh; h++ {
		v := m.vert[h]
		if m.twin[h] != NullID {
			if m.vertHalfedge[v] == NullID {
				m.vertHalfedge[v] = h
			}
			continue
		}
		if boundary[v] {
			be := newBuildError(NonManifoldVertex)
			be.Vertex = origVert[v]
			return nil, errors.WithStack(be)
		}
		boundary[v] = true
		m.vertHalfedge[v] = h
	}

	for v, h := range m.vertHalfedge {
		if h == NullID {
			be := newBuildError(OrphanVertex)
			be.Vertex = origVert[v]
			return nil, errors.WithStack(be)
		}
	}

	if err := m.checkFans(); err != nil {
		return nil, err
	}
	return m, nil
}

// checkFans walks the fan of every vertex and makes sure it reaches all of the
// vertex's outgoing half-edges. This catches vertices where several closed
// fans, or a closed fan and a boundary fan, meet.
func (m *HalfedgeMesh) checkFans() error {
	outgoing := make([]int, m.V())
	for _, v := range m.vert {
		outgoing[v]++
	}
	for v := range m.vertHalfedge {
		seen := 0
		start := m.vertHalfedge[v]
		h := start
		for {
			if m.vert[h] != v {
				be := newBuildError(MalformedIndices)
				be.Face = m.Face(h)
				be.Vertex = m.origVert[v]
				return errors.WithStack(be)
			}
			seen++
			h = m.NextOutgoing(h)
			if h == NullID || h == start || seen > outgoing[v] {
				break
			}
		}
		if seen != outgoing[v] {
			be := newBuildError(NonManifoldVertex)
			be.Vertex = m.origVert[v]
			return errors.WithStack(be)
		}
	}
	return nil
}

// H returns the number of half-edges.
func (m *HalfedgeMesh) H() int { return len(m.vert) }

// V returns the number of vertices.
func (m *HalfedgeMesh) V() int { return len(m.vertHalfedge) }

// E returns the number of undirected edges.
func (m *HalfedgeMesh) E() int { return len(m.edgeHalfedge) }

// F returns the number of faces.
func (m *HalfedgeMesh) F() int { return len(m.vert) / 3 }

func (m *HalfedgeMesh) Twin(h int) int { return m.twin[h] }

// Succ returns the next half-edge inside h's face.
func (m *HalfedgeMesh) Succ(h int) int { return h - h%3 + (h+1)%3 }

// Prev returns the previous half-edge inside h's face.
func (m *HalfedgeMesh) Prev(h int) int { return h - h%3 + (h+2)%3 }

// Vert returns the vertex h leaves from.
func (m *HalfedgeMesh) Vert(h int) int { return m.vert[h] }

// Head returns the vertex h points to.
func (m *HalfedgeMesh) Head(h int) int { return m.vert[m.Succ(h)] }

func (m *HalfedgeMesh) Edge(h int) int { return m.edge[h] }

func (m *HalfedgeMesh) Face(h int) int { return h / 3 }

func (m *HalfedgeMesh) EdgeToHalfedge(e int) int { return m.edgeHalfedge[e] }

func (m *HalfedgeMesh) VertToHalfedge(v int) int { return m.vertHalfedge[v] }

// OriginalVertex maps a vertex back to its id in the index list given to
// BuildHalfedgeMesh. It is the identity unless vertices were compacted.
func (m *HalfedgeMesh) OriginalVertex(v int) int { return m.origVert[v] }

func (m *HalfedgeMesh) IsBoundaryHalfedge(h int) bool { return m.twin[h] == NullID }

func (m *HalfedgeMesh) IsBoundaryEdge(e int) bool { return m.twin[m.edgeHalfedge[e]] == NullID }

// IsBoundaryVertex relies on the representative half-edge being a boundary
// half-edge whenever the vertex has one.
func (m *HalfedgeMesh) IsBoundaryVertex(v int) bool { return m.twin[m.vertHalfedge[v]] == NullID }

// EdgeVertices returns the endpoints of e, starting with the vertex its
// representative half-edge leaves from.
func (m *HalfedgeMesh) EdgeVertices(e int) (int, int) {
	h := m.edgeHalfedge[e]
	return m.vert[h], m.Head(h)
}

func (m *HalfedgeMesh) FaceVertices(f int) [3]int {
	return [3]int{m.vert[3*f], m.vert[3*f+1], m.vert[3*f+2]}
}

// NextOutgoing rotates counter-clockwise around Vert(h) to the next outgoing
// half-edge, or returns NullID when h's face is the last one of a boundary fan.
func (m *HalfedgeMesh) NextOutgoing(h int) int {
	return m.twin[m.Prev(h)]
}

// ForEachOutgoing calls fn for every half-edge leaving v, in counter-clockwise
// order starting at VertToHalfedge(v). Iteration stops early if fn returns false.
func (m *HalfedgeMesh) ForEachOutgoing(v int, fn func(h int) bool) {
	start := m.vertHalfedge[v]
	h := start
	for {
		if !fn(h) {
			return
		}
		h = m.NextOutgoing(h)
		if h == NullID || h == start {
			return
		}
	}
}

// Clone returns a deep copy of m.
func (m *HalfedgeMesh) Clone() *HalfedgeMesh {
	return &HalfedgeMesh{
		twin:         append([]int(nil), m.twin...),
		vert:         append([]int(nil), m.vert...),
		edge:         append([]int(nil), m.edge...),
		edgeHalfedge: append([]int(nil), m.edgeHalfedge...),
		vertHalfedge: append([]int(nil), m.vertHalfedge...),
		origVert:     append([]int(nil), m.origVert...),
	}
}

func (m *HalfedgeMesh) link(a, b int) {
	m.twin[a] = b
	if b != NullID {
		m.twin[b] = a
	}
}

// FlipEdge replaces the diagonal e of the quad formed by its two faces with
// the other diagonal. e must be an interior edge.
//
//	         w                      w
//	        /|\                    / \
//	      a1 | b2               a1/   \a0
//	      /  |  \                /     \
//	     x a0|b0 y      flip    x--a2---y
//	      \  |  /                \--b2-/
//	      a2 | b1               b0\   /b1
//	        \|/                    \ /
//	         u                      u
//
// a0 and b0 are relabelled to start at y and x and take over the outer edges
// of b2 and a2. The new diagonal is carried by a2 and b2 and keeps index e.
//
// Edge and vertex ids are stable, half-edge and face ids are not. Flipping e
// twice restores every edge's endpoints and the set of faces, but the two
// faces end up in each other's slots, so no half-edge keeps its original Twin,
// Vert or Edge. Callers must not hold half-edge or face ids across a flip.
func (m *HalfedgeMesh) FlipEdge(e int) {
	a0 := m.edgeHalfedge[e]
	b0 := m.twin[a0]
	assert(b0 != NullID, "FlipEdge on a boundary edge")
	assert(m.Face(a0) != m.Face(b0), "FlipEdge on an edge with a single face")

	a1, a2 := m.Succ(a0), m.Prev(a0)
	b1, b2 := m.Succ(b0), m.Prev(b0)

	u, w := m.vert[a0], m.vert[b0]
	x, y := m.vert[a2], m.vert[b2]
	ta2, tb2 := m.twin[a2], m.twin[b2]
	ea2, eb2 := m.edge[a2], m.edge[b2]

	m.vert[a0] = y
	m.vert[b0] = x

	m.link(a0, tb2)
	m.link(b0, ta2)
	m.link(a2, b2)

	m.edge[a0] = eb2
	m.edge[b0] = ea2
	m.edge[a2] = e
	m.edge[b2] = e

	if m.edgeHalfedge[eb2] == b2 {
		m.edgeHalfedge[eb2] = a0
	}
	if m.edgeHalfedge[ea2] == a2 {
		m.edgeHalfedge[ea2] = b0
	}
	m.edgeHalfedge[e] = a2

	if m.vertHalfedge[u] == a0 {
		m.vertHalfedge[u] = b1
	}
	if m.vertHalfedge[w] == b0 {
		m.vertHalfedge[w] = a1
	}
	if m.vertHalfedge[x] == a2 {
		m.vertHalfedge[x] = b0
	}
	if m.vertHalfedge[y] == b2 {
		m.vertHalfedge[y] = a0
	}
}

// CheckSanity verifies the connectivity invariants and returns the first
// violation found, or nil.
func (m *HalfedgeMesh) CheckSanity() error {
	nh := m.H()
	if nh%3 != 0 || len(m.twin) != nh || len(m.edge) != nh {
		return errors.Errorf("half-edge arrays have inconsistent sizes")
	}
	if len(m.origVert) != m.V() {
		return errors.Errorf("original vertex map has %d entries for %d vertices", len(m.origVert), m.V())
	}

	refs := make([]int, m.E())
	boundaryOut := make([]bool, m.V())
	for h := 0; h < nh; h++ {
		v := m.vert[h]
		if v < 0 || v >= m.V() {
			return errors.Errorf("half-edge %d: vertex %d out of range", h, v)
		}
		e := m.edge[h]
		if e < 0 || e >= m.E() {
			return errors.Errorf("half-edge %d: edge %d out of range", h, e)
		}
		refs[e]++

		t := m.twin[h]
		if t == NullID {
			boundaryOut[v] = true
			continue
		}
		if t < 0 || t >= nh || t == h {
			return errors.Errorf("half-edge %d: invalid twin %d", h, t)
		}
		if m.twin[t] != h {
			return errors.Errorf("half-edge %d: twin %d points back to %d", h, t, m.twin[t])
		}
		if m.edge[t] != e {
			return errors.Errorf("half-edge %d: twin %d is on edge %d, not %d", h, t, m.edge[t], e)
		}
		if m.vert[t] != m.Head(h) || m.Head(t) != v {
			return errors.Errorf("half-edge %d: twin %d has the same orientation", h, t)
		}
		if m.Face(t) == m.Face(h) {
			return errors.Errorf("half-edge %d: twin %d is in the same face", h, t)
		}
	}

	for e, h := range m.edgeHalfedge {
		if h < 0 || h >= nh {
			return errors.Errorf("edge %d: representative %d out of range", e, h)
		}
		if m.edge[h] != e {
			return errors.Errorf("edge %d: representative %d belongs to edge %d", e, h, m.edge[h])
		}
		if refs[e] != 1 && refs[e] != 2 {
			return errors.Errorf("edge %d: referenced by %d half-edges", e, refs[e])
		}
	}

	for v, h := range m.vertHalfedge {
		if h < 0 || h >= nh {
			return errors.Errorf("vertex %d: representative %d out of range", v, h)
		}
		if m.vert[h] != v {
			return errors.Errorf("vertex %d: representative %d leaves from %d", v, h, m.vert[h])
		}
		if boundaryOut[v] && m.twin[h] != NullID {
			return errors.Errorf("vertex %d: representative %d is not a boundary half-edge", v, h)
		}
	}
	return nil
}

func assert(cond bool, msg string) {
	if !cond {
		panic("intrinsic: assertion failed: " + msg)
	}
}
