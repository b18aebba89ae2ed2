package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const quadPLY = `ply
format ascii 1.0
comment unit square plus a spare corner
element vertex 5
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 0
0 0 0
4 0 1 2 3
`

// squareDXF holds two triangular 3DFACEs covering the unit square.
var squareDXF = strings.Join([]string{
	"0", "SECTION", "2", "ENTITIES",
	"0", "3DFACE", "8", "0",
	"10", "0.0", "20", "0.0", "30", "0.0",
	"11", "1.0", "21", "0.0", "31", "0.0",
	"12", "1.0", "22", "1.0", "32", "0.0",
	"13", "1.0", "23", "1.0", "33", "0.0",
	"0", "3DFACE", "8", "0",
	"10", "0.0", "20", "0.0", "30", "0.0",
	"11", "1.0", "21", "1.0", "31", "0.0",
	"12", "0.0", "22", "1.0", "32", "0.0",
	"13", "0.0", "23", "1.0", "33", "0.0",
	"0", "ENDSEC", "0", "EOF",
}, "\n") + "\n"

func TestReadPLY(t *testing.T) {
	m, err := readPLY(strings.NewReader(quadPLY), false)
	if err != nil {
		t.Fatalf("readPLY() error = %v", err)
	}
	if len(m.positions) != 5 {
		t.Errorf("positions = %d, want 5", len(m.positions))
	}
	want := []int{0, 1, 2, 0, 2, 3}
	if len(m.indices) != len(want) {
		t.Fatalf("indices = %v, want %v", m.indices, want)
	}
	for i := range want {
		if m.indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", m.indices, want)
		}
	}
	if !m.positions[2].ApproxEqual(mgl64.Vec3{1, 1, 0}) {
		t.Errorf("positions[2] = %v", m.positions[2])
	}
}

func TestReadPLYWeld(t *testing.T) {
	m, err := readPLY(strings.NewReader(quadPLY), true)
	if err != nil {
		t.Fatalf("readPLY() error = %v", err)
	}
	// the spare corner duplicates vertex 0 and is not referenced
	if len(m.positions) != 4 || m.faceCount() != 2 {
		t.Errorf("welded to %d points, %d faces", len(m.positions), m.faceCount())
	}
}

func TestReadPLYErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no magic", "obj\n"},
		{"binary", "ply\nformat binary_little_endian 1.0\nend_header\n"},
		{"no end_header", "ply\nformat ascii 1.0\nelement vertex 1\n"},
		{"short vertex list", "ply\nformat ascii 1.0\nelement vertex 2\nend_header\n0 0 0\n"},
		{"bad coordinate", "ply\nformat ascii 1.0\nelement vertex 1\nend_header\n0 x 0\n"},
		{"index out of range", "ply\nformat ascii 1.0\nelement vertex 3\nelement face 1\nend_header\n0 0 0\n1 0 0\n0 1 0\n3 0 1 7\n"},
		{"negative vertex count", "ply\nformat ascii 1.0\nelement vertex -1\nend_header\n"},
		{"negative face count", "ply\nformat ascii 1.0\nelement vertex 0\nelement face -3\nend_header\n"},
		{"huge vertex count", "ply\nformat ascii 1.0\nelement vertex 1000000000000\nend_header\n0 0 0\n"},
		{"two sided face", "ply\nformat ascii 1.0\nelement vertex 3\nelement face 1\nend_header\n0 0 0\n1 0 0\n0 1 0\n2 0 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := readPLY(strings.NewReader(tt.input), false); err == nil {
				t.Error("readPLY() succeeded")
			}
		})
	}
}

func TestReadDXF(t *testing.T) {
	m, err := readDXF(strings.NewReader(squareDXF))
	if err != nil {
		t.Fatalf("readDXF() error = %v", err)
	}
	if len(m.positions) != 4 || m.faceCount() != 2 {
		t.Errorf("read %d points, %d faces, want 4 and 2", len(m.positions), m.faceCount())
	}
	if m.dropped != 0 {
		t.Errorf("dropped = %d", m.dropped)
	}
}

func TestReadDXFErrors(t *testing.T) {
	for _, input := range []string{
		"0\n3DFACE\n10\nabc\n0\nEOF\n",
		"zero\n3DFACE\n",
		"0\n",
	} {
		if _, err := readDXF(strings.NewReader(input)); err == nil {
			t.Errorf("readDXF(%q) succeeded", input)
		}
	}
}

func TestLoadMeshFileAndProcess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "square.dxf")
	if err := os.WriteFile(path, []byte(squareDXF), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := loadMeshFile(path, false)
	if err != nil {
		t.Fatalf("loadMeshFile() error = %v", err)
	}

	input, mesh, sum, err := process(m, config{tol: 1e-6, flipTol: 1e-9, compact: true})
	if err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if sum.vertices != 4 || sum.edges != 5 || sum.faces != 2 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.nonDelaunayAfter != 0 {
		t.Errorf("nonDelaunayAfter = %d", sum.nonDelaunayAfter)
	}
	if input.E() != mesh.Connectivity().E() {
		t.Errorf("input has %d edges, intrinsic %d", input.E(), mesh.Connectivity().E())
	}

	var b strings.Builder
	sum.write(&b)
	if !strings.Contains(b.String(), "flips: ") {
		t.Errorf("report = %q", b.String())
	}

	if _, err := loadMeshFile(filepath.Join(dir, "missing.ply"), false); err == nil {
		t.Error("loadMeshFile() accepted a missing file")
	}
	other := filepath.Join(dir, "mesh.obj")
	if err := os.WriteFile(other, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadMeshFile(other, false); err == nil {
		t.Error("loadMeshFile() accepted an .obj file")
	}
}

func TestProcessRejectsNonManifold(t *testing.T) {
	m := &meshData{
		indices: []int{0, 1, 2, 0, 1, 3, 0, 1, 4},
		positions: []mgl64.Vec3{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1},
		},
	}
	if _, _, _, err := process(m, config{tol: 1e-6}); err == nil {
		t.Error("process() accepted a non-manifold edge")
	}
}

func TestParseFlags(t *testing.T) {
	c, err := parseFlags([]string{"-in", "a.ply", "-max-flips", "10", "-headless"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if c.in != "a.ply" || c.maxFlips != 10 || !c.headless || !c.compact {
		t.Errorf("config = %+v", c)
	}
	if c, err := parseFlags(nil); err != nil || c.in != "" || c.terrainSize < 1 {
		t.Errorf("parseFlags(nil) = %+v, %v", c, err)
	}
	if _, err := parseFlags([]string{"-terrain", "0"}); err == nil {
		t.Error("parseFlags() accepted an empty terrain")
	}
}
