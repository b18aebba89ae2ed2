package main

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/smasonuk/intrinsic"
)

// maxPrealloc bounds the capacity reserved from header counts; larger inputs
// grow as they are read.
const maxPrealloc = 1 << 16

// meshData is an indexed triangle mesh as read from disk.
type meshData struct {
	indices   []int
	positions []mgl64.Vec3
	dropped   int // degenerate faces removed while welding
}

func (m *meshData) faceCount() int { return len(m.indices) / 3 }

// loadMeshFile reads a .ply or .dxf file. DXF input is always welded, PLY
// input only when weld is set.
func loadMeshFile(fileName string, weld bool) (*meshData, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s", fileName)
	}
	defer file.Close()

	var m *meshData
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".ply":
		m, err = readPLY(file, weld)
	case ".dxf":
		m, err = readDXF(file)
	default:
		return nil, errors.Errorf("unsupported file type %q", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing %s", fileName)
	}
	return m, nil
}

// readPLY reads an ASCII PLY file. Only the first three vertex properties
// are used; polygons are fan triangulated.
func readPLY(reader io.Reader, weld bool) (*meshData, error) {
	scanner := bufio.NewScanner(reader)

	var vertexCount, faceCount int
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "ply" {
		return nil, errors.New("missing ply magic")
	}
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 2 || parts[1] != "ascii" {
				return nil, errors.Errorf("unsupported ply format %q", strings.Join(parts[1:], " "))
			}
		case "element":
			if len(parts) != 3 {
				continue
			}
			n, err := strconv.Atoi(parts[2])
			if err != nil {
				return nil, errors.Wrapf(err, "bad element count %q", parts[2])
			}
			if n < 0 {
				return nil, errors.Errorf("negative %s count %d", parts[1], n)
			}
			if parts[1] == "vertex" {
				vertexCount = n
			} else if parts[1] == "face" {
				faceCount = n
			}
		case "end_header":
			goto endHeaderLoop
		}
	}
	return nil, errors.New("unexpected end of file while reading header")
endHeaderLoop:

	positions := make([]mgl64.Vec3, 0, min(vertexCount, maxPrealloc))
	for i := 0; i < vertexCount; i++ {
		if !scanner.Scan() {
			return nil, errors.New("unexpected end of file while reading vertices")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) < 3 {
			return nil, errors.Errorf("invalid vertex data on vertex %d", i)
		}
		var p mgl64.Vec3
		for k := range p {
			v, err := strconv.ParseFloat(parts[k], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "vertex %d", i)
			}
			p[k] = v
		}
		positions = append(positions, p)
	}

	indices := make([]int, 0, 3*min(faceCount, maxPrealloc))
	for i := 0; i < faceCount; i++ {
		if !scanner.Scan() {
			return nil, errors.New("unexpected end of file while reading faces")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			return nil, errors.Errorf("empty face %d", i)
		}
		n, err := strconv.Atoi(parts[0])
		if err != nil || n < 3 || len(parts) < n+1 {
			return nil, errors.Errorf("invalid face data on face %d", i)
		}
		poly := make([]int, n)
		for j := range poly {
			idx, err := strconv.Atoi(parts[j+1])
			if err != nil {
				return nil, errors.Wrapf(err, "face %d", i)
			}
			if idx < 0 || idx >= vertexCount {
				return nil, errors.Errorf("face %d references vertex %d of %d", i, idx, vertexCount)
			}
			poly[j] = idx
		}
		for j := 1; j+1 < n; j++ {
			indices = append(indices, poly[0], poly[j], poly[j+1])
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading from PLY source")
	}

	if !weld {
		return &meshData{indices: indices, positions: positions}, nil
	}
	w := intrinsic.NewWelder()
	for f := 0; f+2 < len(indices); f += 3 {
		w.AddTriangle(positions[indices[f]], positions[indices[f+1]], positions[indices[f+2]])
	}
	return &meshData{indices: w.Indices(), positions: w.Positions(), dropped: w.Dropped()}, nil
}

// readDXF collects the 3DFACE entities of a DXF file. A face whose fourth
// corner repeats the third is a triangle, any other face is split into two.
func readDXF(reader io.Reader) (*meshData, error) {
	scanner := bufio.NewScanner(reader)

	// DXF is a sequence of (group code, value) line pairs.
	readPair := func() (int, string, bool, error) {
		if !scanner.Scan() {
			return 0, "", false, scanner.Err()
		}
		code, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil {
			return 0, "", false, errors.Wrapf(err, "bad group code %q", scanner.Text())
		}
		if !scanner.Scan() {
			return 0, "", false, errors.Errorf("missing value for group code %d", code)
		}
		return code, strings.TrimSpace(scanner.Text()), true, nil
	}

	w := intrinsic.NewWelder()
	var corners [4]mgl64.Vec3
	inFace := false
	flush := func() {
		if !inFace {
			return
		}
		w.AddTriangle(corners[0], corners[1], corners[2])
		if corners[3] != corners[2] {
			w.AddTriangle(corners[0], corners[2], corners[3])
		}
		inFace = false
	}

	for {
		code, value, ok, err := readPair()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if code == 0 {
			flush()
			if value == "3DFACE" {
				inFace = true
				corners = [4]mgl64.Vec3{}
			}
			continue
		}
		if !inFace {
			continue
		}
		// 10..13 are x of corners 0..3, 20..23 y, 30..33 z.
		if code < 10 || code > 33 || code%10 > 3 {
			continue
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse coordinate for group code %d", code)
		}
		corners[code%10][code/10-1] = v
	}
	flush()

	return &meshData{indices: w.Indices(), positions: w.Positions(), dropped: w.Dropped()}, nil
}
