package intrinsic

import (
	"errors"
	"fmt"
)

// ErrorKind identifies why a mesh was rejected at build time.
type ErrorKind int

const (
	// NonManifoldEdge: an undirected edge is shared by three or more faces.
	NonManifoldEdge ErrorKind = iota + 1
	// NonManifoldVertex: a vertex has more than one boundary fan.
	NonManifoldVertex
	// OrphanVertex: a vertex index is never referenced by a face.
	OrphanVertex
	// MalformedIndices: the index list is not a list of triangles.
	MalformedIndices
)

func (k ErrorKind) String() string {
	switch k {
	case NonManifoldEdge:
		return "non-manifold edge"
	case NonManifoldVertex:
		return "non-manifold vertex"
	case OrphanVertex:
		return "orphan vertex"
	case MalformedIndices:
		return "malformed indices"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

var (
	ErrNonManifoldEdge   = errors.New("intrinsic: non-manifold edge")
	ErrNonManifoldVertex = errors.New("intrinsic: non-manifold vertex")
	ErrOrphanVertex      = errors.New("intrinsic: orphan vertex")
	ErrMalformedIndices  = errors.New("intrinsic: malformed triangle indices")

	ErrNilConnectivity = errors.New("intrinsic: nil connectivity")
	ErrMissingPosition = errors.New("intrinsic: missing vertex position")
	ErrFlipLimit       = errors.New("intrinsic: flip limit reached before the triangulation became Delaunay")
)

// BuildError describes the first problem found while building a HalfedgeMesh.
// Vertex and Edge hold the offending vertex id and the (min,max) vertex pair of
// the offending edge, or NullID when they do not apply.
type BuildError struct {
	Kind   ErrorKind
	Vertex int
	Edge   [2]int
	Face   int
}

func newBuildError(kind ErrorKind) *BuildError {
	return &BuildError{Kind: kind, Vertex: NullID, Edge: [2]int{NullID, NullID}, Face: NullID}
}

func (e *BuildError) Error() string {
	switch e.Kind {
	case NonManifoldEdge:
		return fmt.Sprintf("intrinsic: non-manifold edge (%d,%d) at face %d", e.Edge[0], e.Edge[1], e.Face)
	case NonManifoldVertex:
		return fmt.Sprintf("intrinsic: non-manifold vertex %d", e.Vertex)
	case OrphanVertex:
		return fmt.Sprintf("intrinsic: orphan vertex %d", e.Vertex)
	case MalformedIndices:
		if e.Face != NullID {
			return fmt.Sprintf("intrinsic: malformed indices at face %d", e.Face)
		}
		return "intrinsic: index count is not a multiple of 3"
	}
	return "intrinsic: invalid mesh: " + e.Kind.String()
}

// Is reports whether target is the sentinel error for e's kind.
func (e *BuildError) Is(target error) bool {
	switch e.Kind {
	case NonManifoldEdge:
		return target == ErrNonManifoldEdge
	case NonManifoldVertex:
		return target == ErrNonManifoldVertex
	case OrphanVertex:
		return target == ErrOrphanVertex
	case MalformedIndices:
		return target == ErrMalformedIndices
	}
	return false
}
