package intrinsic

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// quadDiagonal lays out the quad u, y, w, x in the plane and compares
// flippedDiagonal against the distance |xy|.
func quadDiagonal(u, y, w, x mgl64.Vec2) (got, want float64) {
	uw := w.Sub(u).Len()
	uy := y.Sub(u).Len()
	yw := w.Sub(y).Len()
	wx := x.Sub(w).Len()
	xu := u.Sub(x).Len()
	alpha := cornerAngle(uw, wx, xu)
	beta := cornerAngle(uw, uy, yw)
	return flippedDiagonal(uw, uy, yw, wx, xu, alpha, beta), x.Sub(y).Len()
}

func TestFlippedDiagonal(t *testing.T) {
	onCircle := func(a float64) mgl64.Vec2 { return mgl64.Vec2{math.Cos(a), math.Sin(a)} }

	tests := []struct {
		name       string
		u, y, w, x mgl64.Vec2
	}{
		{"square", mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0}, mgl64.Vec2{1, 1}, mgl64.Vec2{0, 1}},
		{"convex", mgl64.Vec2{0, 0}, mgl64.Vec2{3, 0.2}, mgl64.Vec2{3.3, 2.4}, mgl64.Vec2{-0.2, 1.9}},
		{"thin", mgl64.Vec2{0, 0}, mgl64.Vec2{2, -0.05}, mgl64.Vec2{4, 0}, mgl64.Vec2{2, 0.1}},
		{"cyclic", onCircle(0.3), onCircle(1.9), onCircle(3.5), onCircle(5.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, want := quadDiagonal(tt.u, tt.y, tt.w, tt.x)
			if math.Abs(got-want) > 1e-5*want {
				t.Errorf("flippedDiagonal() = %v, want %v", got, want)
			}
		})
	}
}

func TestFlippedDiagonalCyclicMatchesPtolemy(t *testing.T) {
	at := func(a float64) mgl64.Vec2 { return mgl64.Vec2{math.Cos(a), math.Sin(a)} }
	u, y, w, x := at(0.3), at(1.9), at(3.5), at(5.0)
	l1 := y.Sub(u).Len()
	l2 := w.Sub(y).Len()
	l3 := x.Sub(w).Len()
	l4 := u.Sub(x).Len()
	ptolemy := math.Sqrt((l1*l3 + l2*l4) * (l1*l2 + l3*l4) / (l1*l4 + l2*l3))

	got, _ := quadDiagonal(u, y, w, x)
	if math.Abs(got-ptolemy) > 1e-5*ptolemy {
		t.Errorf("flippedDiagonal() = %v, sides-only Ptolemy = %v", got, ptolemy)
	}
}

func TestCornerAngle(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
		want    float64
	}{
		{"equilateral", 1, 1, 1, math.Pi / 3},
		{"right", 5, 3, 4, math.Pi / 2},
		{"flat", 2, 1, 1, math.Pi},
		{"violating", 3, 1, 1, math.Pi},
		{"zero", 0, 1, 1, 0},
		{"zero adjacent side", 1, 0, 1, 0},
		{"zero sides", 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cornerAngle(tt.a, tt.b, tt.c); !almostEqual(got, tt.want) {
				t.Errorf("cornerAngle(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.c, got, tt.want)
			}
		})
	}
}

func TestTriangleSlack(t *testing.T) {
	if got := triangleSlack(3, 4, 5); !almostEqual(got, 2) {
		t.Errorf("triangleSlack(3, 4, 5) = %v, want 2", got)
	}
	if got := triangleSlack(1, 1, 2); got != 0 {
		t.Errorf("triangleSlack(1, 1, 2) = %v, want 0", got)
	}
	if got := triangleSlack(1, 5, 1); !almostEqual(got, -3) {
		t.Errorf("triangleSlack(1, 5, 1) = %v, want -3", got)
	}
}

func TestBearings(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{
		{0, 0}, {0.4, 0.4}, {1.25, 0.25}, {-0.25, 0.75}, {3, 0},
	} {
		if got := wrapBearing(tc.in); !almostEqual(got, tc.want) {
			t.Errorf("wrapBearing(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if got := wrapBearing(-1e-18); got >= 1 {
		t.Errorf("wrapBearing(-1e-18) = %v, want < 1", got)
	}
	if got := clampBearing(1); got >= 1 || got != maxBearing {
		t.Errorf("clampBearing(1) = %v", got)
	}
	if got := clampBearing(-0.1); got != 0 {
		t.Errorf("clampBearing(-0.1) = %v, want 0", got)
	}
}
