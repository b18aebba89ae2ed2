package intrinsic

// BuildOption configures BuildHalfedgeMesh and BuildSignpostMesh.
//
// Example:
//
//	m, err := intrinsic.BuildHalfedgeMesh(indices, intrinsic.WithCompactVertices(true))
type BuildOption func(*buildOptions)

type buildOptions struct {
	panicOnInvalid  bool
	compactVertices bool
	vertexCount     int
}

func defaultBuildOptions() buildOptions {
	return buildOptions{
		vertexCount: -1, // derived from the largest index
	}
}

// WithPanicOnInvalidInput makes Build panic with the *BuildError instead of
// returning it.
func WithPanicOnInvalidInput(panicOnInvalid bool) BuildOption {
	return func(o *buildOptions) {
		o.panicOnInvalid = panicOnInvalid
	}
}

// WithCompactVertices drops vertices that no face references instead of
// rejecting them. The surviving vertices are renumbered densely; use
// HalfedgeMesh.OriginalVertex to map back to the input ids.
func WithCompactVertices(compact bool) BuildOption {
	return func(o *buildOptions) {
		o.compactVertices = compact
	}
}

// WithVertexCount declares how many vertices the input has. Without it the
// count is one more than the largest index. Indices at or above n are
// malformed.
func WithVertexCount(n int) BuildOption {
	return func(o *buildOptions) {
		o.vertexCount = n
	}
}

// FlipOption configures SignpostMesh.FlipToDelaunayTriangulation.
type FlipOption func(*flipOptions)

type flipOptions struct {
	maxFlips int
}

func defaultFlipOptions(edgeCount int) flipOptions {
	return flipOptions{maxFlips: max(1000, 50*edgeCount)}
}

// WithMaxFlips caps the number of flips a single call may perform.
// Values <= 0 keep the default cap.
func WithMaxFlips(n int) FlipOption {
	return func(o *flipOptions) {
		if n > 0 {
			o.maxFlips = n
		}
	}
}
