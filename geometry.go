package intrinsic

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// maxBearing is the largest bearing below one full turn.
var maxBearing = math.Nextafter(1, 0)

// minRelativeSlack is the smallest triangle inequality slack the length bias
// leaves, relative to the longest edge, whatever tolerance the caller asks for.
const minRelativeSlack = 1e-9

// cornerAngle returns the angle opposite side a in a triangle with side
// lengths a, b and c (law of cosines). A corner with a zero-length side
// has angle 0.
func cornerAngle(a, b, c float64) float64 {
	if b <= 0 || c <= 0 {
		return 0
	}
	cos := (b*b + c*c - a*a) / (2 * b * c)
	return math.Acos(mgl64.Clamp(cos, -1, 1))
}

// triangleSlack is the smallest amount by which two sides of the triangle
// exceed the third. It is negative for lengths that violate the triangle
// inequality.
func triangleSlack(l0, l1, l2 float64) float64 {
	return min(l0+l1-l2, l1+l2-l0, l2+l0-l1)
}

// flippedDiagonal returns the length of diagonal xy of the planar quad
// u, y, w, x once it is laid out flat around diagonal uw.
//
// l0 is |uw|, the sides are given in cyclic order and alpha, beta are the
// corner angles at x and y. It uses the general form of Ptolemy's relation
//
//	|uw|^2 |xy|^2 = (uy wx)^2 + (yw xu)^2 - 2 uy wx yw xu cos(alpha+beta)
//
// which reduces to |uw| |xy| = uy wx + yw xu for cocircular quads.
func flippedDiagonal(l0, uy, yw, wx, xu, alpha, beta float64) float64 {
	p := uy * wx
	q := yw * xu
	d2 := p*p + q*q - 2*p*q*math.Cos(alpha+beta)
	return math.Sqrt(max(d2, 0)) / l0
}

// clampBearing keeps a bearing inside [0, 1).
func clampBearing(phi float64) float64 {
	return mgl64.Clamp(phi, 0, maxBearing)
}

// wrapBearing reduces a bearing modulo one full turn.
func wrapBearing(phi float64) float64 {
	return clampBearing(phi - math.Floor(phi))
}
