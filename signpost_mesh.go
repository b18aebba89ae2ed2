package intrinsic

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// SignpostMesh is an intrinsic triangulation: connectivity plus one length
// per edge, one angle sum per vertex and two signposts per edge.
//
// A signpost is the bearing of an edge at one of its endpoints, measured
// counter-clockwise from the vertex's reference half-edge and normalised by
// the vertex angle sum, so it lies in [0, 1). phi0 is the bearing at the
// vertex the edge's representative half-edge leaves from, phi1 the bearing at
// the other endpoint.
//
// A SignpostMesh is not safe for concurrent use while it is being flipped.
type SignpostMesh struct {
	conn   *HalfedgeMesh
	length []float64
	phi0   []float64
	phi1   []float64
	theta  []float64
	bias   float64
}

// FlipStats reports the work done by FlipToDelaunayTriangulation.
type FlipStats struct {
	Checked int // edges taken from the active set
	Flips   int
}

// BuildSignpostMesh builds the connectivity from indices and lays the
// intrinsic geometry of positions on top of it. positions is indexed by the
// vertex ids used in indices.
func BuildSignpostMesh(indices []int, positions []mgl64.Vec3, edgeLengthTolerance float64, opts ...BuildOption) (*SignpostMesh, error) {
	conn, err := BuildHalfedgeMesh(indices, opts...)
	if err != nil {
		return nil, err
	}
	return NewSignpostMesh(conn, positions, edgeLengthTolerance)
}

// NewSignpostMesh wraps conn, which the returned mesh takes ownership of and
// mutates when flipping. positions is indexed by conn.OriginalVertex ids.
//
// All edge lengths are lengthened by the smallest common bias that makes every
// face satisfy the triangle inequality with a margin of edgeLengthTolerance,
// or of a tiny fraction of the longest edge when that is larger.
func NewSignpostMesh(conn *HalfedgeMesh, positions []mgl64.Vec3, edgeLengthTolerance float64) (*SignpostMesh, error) {
	if conn == nil {
		return nil, errors.WithStack(ErrNilConnectivity)
	}
	for v := 0; v < conn.V(); v++ {
		if ov := conn.OriginalVertex(v); ov >= len(positions) {
			return nil, errors.Wrapf(ErrMissingPosition, "vertex %d (input id %d), %d positions given", v, ov, len(positions))
		}
	}

	s := &SignpostMesh{
		conn:   conn,
		length: make([]float64, conn.E()),
		phi0:   make([]float64, conn.E()),
		phi1:   make([]float64, conn.E()),
		theta:  make([]float64, conn.V()),
	}
	for e := range s.length {
		a, b := conn.EdgeVertices(e)
		pa := positions[conn.OriginalVertex(a)]
		pb := positions[conn.OriginalVertex(b)]
		s.length[e] = pa.Sub(pb).Len()
	}

	s.bias = s.lengthBias(edgeLengthTolerance)
	if s.bias > 0 {
		for e := range s.length {
			s.length[e] += s.bias
		}
	}

	s.computeThetas()
	s.computeSignposts()

	Logger().Debug("intrinsic: signpost mesh built",
		"edges", conn.E(), "vertices", conn.V(), "bias", s.bias)
	return s, nil
}

// lengthBias returns the smallest bias >= 0 that, added to every edge,
// leaves each face with a triangle inequality slack of at least tol. The
// margin never drops below minRelativeSlack times the longest edge, so every
// biased length and slack is strictly positive even for tol <= 0.
func (s *SignpostMesh) lengthBias(tol float64) float64 {
	c := s.conn
	longest := 0.0
	for _, l := range s.length {
		longest = max(longest, l)
	}
	if longest == 0 {
		longest = 1
	}
	tol = max(tol, minRelativeSlack*longest)

	bias := 0.0
	for f := 0; f < c.F(); f++ {
		slack := triangleSlack(
			s.length[c.Edge(3*f)],
			s.length[c.Edge(3*f+1)],
			s.length[c.Edge(3*f+2)])
		bias = max(bias, tol-slack)
	}
	return bias
}

func (s *SignpostMesh) computeThetas() {
	for v := range s.theta {
		s.theta[v] = 0
	}
	for h := 0; h < s.conn.H(); h++ {
		s.theta[s.conn.Vert(h)] += s.CornerAngle(h)
	}
}

func (s *SignpostMesh) computeSignposts() {
	c := s.conn
	for v := 0; v < c.V(); v++ {
		curr := 0.0
		last := NullID
		c.ForEachOutgoing(v, func(h int) bool {
			s.setBearing(h, curr)
			curr = clampBearing(curr + s.CornerAngle(h)/s.theta[v])
			last = h
			return true
		})
		if c.IsBoundaryVertex(v) {
			// The fan ends with an incoming boundary half-edge; its edge's
			// bearing at v is the far end of the fan.
			s.phi1[c.Edge(c.Prev(last))] = curr
		}
	}
}

// Connectivity returns the underlying half-edge mesh. It must only be
// modified through the SignpostMesh.
func (s *SignpostMesh) Connectivity() *HalfedgeMesh { return s.conn }

func (s *SignpostMesh) Length(e int) float64 { return s.length[e] }

// Signposts returns the bearings of e at its two endpoints.
func (s *SignpostMesh) Signposts(e int) (phi0, phi1 float64) {
	return s.phi0[e], s.phi1[e]
}

// Theta returns the sum of the corner angles at v.
func (s *SignpostMesh) Theta(v int) float64 { return s.theta[v] }

// Bias returns the length added to every edge at build time.
func (s *SignpostMesh) Bias() float64 { return s.bias }

// Bearing returns the signpost of h at Vert(h).
func (s *SignpostMesh) Bearing(h int) float64 {
	e := s.conn.Edge(h)
	if s.conn.EdgeToHalfedge(e) == h {
		return s.phi0[e]
	}
	return s.phi1[e]
}

func (s *SignpostMesh) setBearing(h int, phi float64) {
	e := s.conn.Edge(h)
	if s.conn.EdgeToHalfedge(e) == h {
		s.phi0[e] = phi
	} else {
		s.phi1[e] = phi
	}
}

// CornerAngle returns the angle at Vert(h) inside h's face.
func (s *SignpostMesh) CornerAngle(h int) float64 {
	c := s.conn
	return cornerAngle(
		s.length[c.Edge(c.Succ(h))],
		s.length[c.Edge(h)],
		s.length[c.Edge(c.Prev(h))])
}

// oppositeAngles returns the corner angles facing e in its two faces. ok is
// false for boundary edges.
func (s *SignpostMesh) oppositeAngles(e int) (alpha, beta float64, ok bool) {
	c := s.conn
	a0 := c.EdgeToHalfedge(e)
	b0 := c.Twin(a0)
	if b0 == NullID {
		return 0, 0, false
	}
	return s.CornerAngle(c.Prev(a0)), s.CornerAngle(c.Prev(b0)), true
}

// IsDelaunayEdge reports whether the angles facing e sum to at most
// pi*(1+tolerance). Boundary edges are always Delaunay.
func (s *SignpostMesh) IsDelaunayEdge(e int, tolerance float64) bool {
	alpha, beta, ok := s.oppositeAngles(e)
	return !ok || alpha+beta <= math.Pi*(1+tolerance)
}

// NonDelaunayEdges lists the interior edges that fail IsDelaunayEdge.
func (s *SignpostMesh) NonDelaunayEdges(tolerance float64) []int {
	var out []int
	for e := range s.length {
		if !s.IsDelaunayEdge(e, tolerance) {
			out = append(out, e)
		}
	}
	return out
}

// FlipEdge flips the interior edge e and updates its length and signposts.
// It returns false, leaving the mesh untouched, if e is a boundary edge.
// As with HalfedgeMesh.FlipEdge, only edge and vertex ids survive the flip.
func (s *SignpostMesh) FlipEdge(e int) bool {
	alpha, beta, ok := s.oppositeAngles(e)
	if !ok {
		return false
	}
	s.flip(e, alpha, beta)
	return true
}

// flip performs the combinatorial flip of e, whose facing angles are alpha
// and beta, and recomputes the intrinsic data of the new diagonal.
func (s *SignpostMesh) flip(e int, alpha, beta float64) {
	c := s.conn
	a0 := c.EdgeToHalfedge(e)
	b0 := c.Twin(a0)
	l0 := s.length[e]
	wx := s.length[c.Edge(c.Succ(a0))]
	xu := s.length[c.Edge(c.Prev(a0))]
	uy := s.length[c.Edge(c.Succ(b0))]
	yw := s.length[c.Edge(c.Prev(b0))]

	c.FlipEdge(e)
	s.length[e] = flippedDiagonal(l0, uy, yw, wx, xu, alpha, beta)

	// The diagonal now runs x->y in a2 and y->x in b2. Around x it directly
	// follows b0 (x->u), around y it follows a0 (y->w).
	a2, b2 := c.Prev(a0), c.Prev(b0)
	x, y := c.Vert(a2), c.Vert(b2)
	s.setBearing(a2, wrapBearing(s.Bearing(b0)+s.CornerAngle(b0)/s.theta[x]))
	s.setBearing(b2, wrapBearing(s.Bearing(a0)+s.CornerAngle(a0)/s.theta[y]))
}

// FlipToDelaunayTriangulation flips edges until every interior edge has
// facing angles summing to at most pi*(1+tolerance).
//
// Edges are processed smallest id first. After a flip the four outer edges of
// the quad are queued again. Only the flipped edge's length and signposts are
// recomputed; angle sums never change.
//
// If the flip cap (see WithMaxFlips) is reached the call stops and returns an
// error matching ErrFlipLimit; the mesh is valid but may not be Delaunay.
func (s *SignpostMesh) FlipToDelaunayTriangulation(tolerance float64, opts ...FlipOption) (FlipStats, error) {
	c := s.conn
	o := defaultFlipOptions(c.E())
	for _, opt := range opts {
		opt(&o)
	}

	var stats FlipStats
	limit := math.Pi * (1 + tolerance)
	q := newEdgeQueue(c.E())
	for {
		e, ok := q.pop()
		if !ok {
			break
		}
		stats.Checked++

		alpha, beta, interior := s.oppositeAngles(e)
		if !interior || alpha+beta <= limit {
			continue
		}
		if stats.Flips >= o.maxFlips {
			Logger().Warn("intrinsic: flip limit reached",
				"flips", stats.Flips, "pending", q.len()+1)
			return stats, errors.Wrapf(ErrFlipLimit, "after %d flips", stats.Flips)
		}

		a0 := c.EdgeToHalfedge(e)
		b0 := c.Twin(a0)
		s.flip(e, alpha, beta)
		stats.Flips++

		for _, h := range [4]int{a0, c.Succ(a0), b0, c.Succ(b0)} {
			q.push(c.Edge(h))
		}
	}

	Logger().Debug("intrinsic: delaunay flipping done",
		"checked", stats.Checked, "flips", stats.Flips)
	return stats, nil
}
