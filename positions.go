package intrinsic

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Float is the set of coordinate types accepted by PositionsFrom.
type Float interface {
	~float32 | ~float64
}

// PositionsFrom turns a flat x, y, z coordinate array into positions.
// Trailing coordinates that do not form a full point are ignored.
func PositionsFrom[T Float](xyz []T) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(xyz)/3)
	for i := range out {
		out[i] = mgl64.Vec3{float64(xyz[3*i]), float64(xyz[3*i+1]), float64(xyz[3*i+2])}
	}
	return out
}

// PositionsFromVec3f widens single precision positions. Lengths and angles
// are always computed in double precision.
func PositionsFromVec3f(ps []mgl32.Vec3) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(ps))
	for i, p := range ps {
		out[i] = mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
	}
	return out
}
