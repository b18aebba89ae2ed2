package intrinsic

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

func TestPositionsFrom(t *testing.T) {
	got := PositionsFrom([]float32{0, 1, 2, 3.5, 4, 5, 9})
	want := []mgl64.Vec3{{0, 1, 2}, {3.5, 4, 5}}
	if len(got) != len(want) {
		t.Fatalf("PositionsFrom() = %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].ApproxEqual(want[i]) {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}

	if got := PositionsFrom([]float64{}); len(got) != 0 {
		t.Errorf("PositionsFrom(empty) = %v", got)
	}
}

func TestPositionsFromVec3f(t *testing.T) {
	got := PositionsFromVec3f([]mgl32.Vec3{{1, 2, 3}, {-1, 0.5, 0}})
	if len(got) != 2 || !got[1].ApproxEqual(mgl64.Vec3{-1, 0.5, 0}) {
		t.Errorf("PositionsFromVec3f() = %v", got)
	}
}
