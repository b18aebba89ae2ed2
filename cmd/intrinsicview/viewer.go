package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/smasonuk/intrinsic"
)

const (
	screenWidth  = 800
	screenHeight = 600
)

var (
	inputColor     = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	intrinsicColor = color.RGBA{R: 255, G: 120, B: 40, A: 255}
	boundaryColor  = color.RGBA{R: 80, G: 160, B: 255, A: 255}
)

// viewer draws the input triangulation and the intrinsic one as straight
// chords between vertex positions.
type viewer struct {
	input     *intrinsic.HalfedgeMesh
	mesh      *intrinsic.SignpostMesh
	positions []mgl64.Vec3 // indexed by compacted vertex id, centred
	scale     float64
	status    string

	yaw, pitch    float64
	dragging      bool
	lastX, lastY  int
	showInput     bool
	showIntrinsic bool
}

func newViewer(input *intrinsic.HalfedgeMesh, mesh *intrinsic.SignpostMesh, positions []mgl64.Vec3, status string) *viewer {
	conn := mesh.Connectivity()
	v := &viewer{
		input:         input,
		mesh:          mesh,
		positions:     make([]mgl64.Vec3, conn.V()),
		status:        status,
		pitch:         -0.4,
		showInput:     true,
		showIntrinsic: true,
	}

	var lo, hi mgl64.Vec3
	for i := range v.positions {
		p := positions[conn.OriginalVertex(i)]
		v.positions[i] = p
		for k := 0; k < 3; k++ {
			if i == 0 || p[k] < lo[k] {
				lo[k] = p[k]
			}
			if i == 0 || p[k] > hi[k] {
				hi[k] = p[k]
			}
		}
	}
	centre := lo.Add(hi).Mul(0.5)
	for i := range v.positions {
		v.positions[i] = v.positions[i].Sub(centre)
	}
	if size := hi.Sub(lo).Len(); size > 0 {
		v.scale = 0.8 * math.Min(screenWidth, screenHeight) / size
	} else {
		v.scale = 1
	}
	return v
}

func (v *viewer) Update() error {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		v.dragging = true
		v.lastX, v.lastY = ebiten.CursorPosition()
	}
	if v.dragging {
		x, y := ebiten.CursorPosition()
		v.yaw += float64(x-v.lastX) / 200.0
		v.pitch += float64(y-v.lastY) / 200.0
		v.lastX, v.lastY = x, y
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		v.dragging = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		v.showInput = !v.showInput
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		v.showIntrinsic = !v.showIntrinsic
	}
	return nil
}

// project maps a vertex to screen space with an orthographic view.
func (v *viewer) project(rot mgl64.Mat3, i int) (float32, float32) {
	p := rot.Mul3x1(v.positions[i])
	x := p.X()*v.scale + screenWidth/2
	y := -p.Y()*v.scale + screenHeight/2
	return float32(x), float32(y)
}

func (v *viewer) drawEdges(screen *ebiten.Image, rot mgl64.Mat3, m *intrinsic.HalfedgeMesh, width float32, clr color.Color) {
	for e := 0; e < m.E(); e++ {
		a, b := m.EdgeVertices(e)
		x0, y0 := v.project(rot, a)
		x1, y1 := v.project(rot, b)
		c := clr
		if m.IsBoundaryEdge(e) {
			c = boundaryColor
		}
		vector.StrokeLine(screen, x0, y0, x1, y1, width, c, true)
	}
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	rot := mgl64.Rotate3DX(v.pitch).Mul3(mgl64.Rotate3DY(v.yaw))

	if v.showInput {
		v.drawEdges(screen, rot, v.input, 1, inputColor)
	}
	if v.showIntrinsic {
		v.drawEdges(screen, rot, v.mesh.Connectivity(), 1.5, intrinsicColor)
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\n[I] input %v  [T] intrinsic %v  FPS: %0.1f",
		v.status, v.showInput, v.showIntrinsic, ebiten.ActualFPS()))
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
