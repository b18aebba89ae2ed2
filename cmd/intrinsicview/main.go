// Command intrinsicview loads a triangle mesh, flips its intrinsic
// triangulation to Delaunay and shows both triangulations.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"

	"github.com/smasonuk/intrinsic"
)

type config struct {
	in       string
	tol      float64
	flipTol  float64
	maxFlips int
	headless bool
	weld     bool
	compact  bool
	verbose  bool

	terrainSize   int
	terrainHeight float64
	seed          int64
}

func parseFlags(args []string) (config, error) {
	var c config
	fs := flag.NewFlagSet("intrinsicview", flag.ContinueOnError)
	fs.StringVar(&c.in, "in", "", "input mesh (.ply or .dxf), a noise terrain if empty")
	fs.Float64Var(&c.tol, "tol", 1e-6, "minimum triangle inequality slack after biasing edge lengths")
	fs.Float64Var(&c.flipTol, "flip-tol", 1e-9, "relative tolerance of the Delaunay angle test")
	fs.IntVar(&c.maxFlips, "max-flips", 0, "flip cap, 0 for the default")
	fs.BoolVar(&c.headless, "headless", false, "print the report and exit")
	fs.BoolVar(&c.weld, "weld", false, "merge PLY vertices with equal coordinates")
	fs.BoolVar(&c.compact, "compact", true, "drop vertices no face uses")
	fs.BoolVar(&c.verbose, "v", false, "debug logging")
	fs.IntVar(&c.terrainSize, "terrain", 24, "terrain grid size when no -in is given")
	fs.Float64Var(&c.terrainHeight, "height", 4, "terrain height")
	fs.Int64Var(&c.seed, "seed", 1, "terrain noise seed")
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	if c.in == "" && c.terrainSize < 1 {
		return c, errors.Errorf("-terrain must be at least 1, got %d", c.terrainSize)
	}
	return c, nil
}

// summary is what the command reports about a run.
type summary struct {
	vertices, edges, faces int
	dropped                int
	bias                   float64
	nonDelaunayBefore      int
	nonDelaunayAfter       int
	stats                  intrinsic.FlipStats
	flipErr                error
}

func (s summary) write(w io.Writer) {
	fmt.Fprintf(w, "vertices: %d  edges: %d  faces: %d\n", s.vertices, s.edges, s.faces)
	if s.dropped > 0 {
		fmt.Fprintf(w, "degenerate faces dropped: %d\n", s.dropped)
	}
	fmt.Fprintf(w, "length bias: %g\n", s.bias)
	fmt.Fprintf(w, "non-Delaunay edges: %d -> %d\n", s.nonDelaunayBefore, s.nonDelaunayAfter)
	fmt.Fprintf(w, "edges checked: %d  flips: %d\n", s.stats.Checked, s.stats.Flips)
	if s.flipErr != nil {
		fmt.Fprintf(w, "warning: %v\n", s.flipErr)
	}
}

func (s summary) status() string {
	return fmt.Sprintf("V %d  E %d  F %d  flips %d  non-Delaunay %d -> %d",
		s.vertices, s.edges, s.faces, s.stats.Flips, s.nonDelaunayBefore, s.nonDelaunayAfter)
}

// process builds the signpost mesh for m and flips it to Delaunay. It
// returns the input connectivity alongside the flipped mesh.
func process(m *meshData, c config) (*intrinsic.HalfedgeMesh, *intrinsic.SignpostMesh, summary, error) {
	s, err := intrinsic.BuildSignpostMesh(m.indices, m.positions, c.tol,
		intrinsic.WithCompactVertices(c.compact),
		intrinsic.WithVertexCount(len(m.positions)))
	if err != nil {
		return nil, nil, summary{}, err
	}
	conn := s.Connectivity()
	input := conn.Clone()

	sum := summary{
		vertices:          conn.V(),
		edges:             conn.E(),
		faces:             conn.F(),
		dropped:           m.dropped,
		bias:              s.Bias(),
		nonDelaunayBefore: len(s.NonDelaunayEdges(c.flipTol)),
	}
	sum.stats, sum.flipErr = s.FlipToDelaunayTriangulation(c.flipTol, intrinsic.WithMaxFlips(c.maxFlips))
	if sum.flipErr != nil && !errors.Is(sum.flipErr, intrinsic.ErrFlipLimit) {
		return nil, nil, summary{}, sum.flipErr
	}
	sum.nonDelaunayAfter = len(s.NonDelaunayEdges(c.flipTol))
	return input, s, sum, nil
}

func main() {
	c, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}
	if c.verbose {
		intrinsic.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var m *meshData
	if c.in == "" {
		log.Printf("Generating %dx%d terrain...", c.terrainSize, c.terrainSize)
		m = terrainMesh(c.terrainSize, c.terrainHeight, c.seed)
		c.in = "terrain"
	} else {
		log.Printf("Loading %s...", c.in)
		if m, err = loadMeshFile(c.in, c.weld); err != nil {
			log.Fatalf("%+v", err)
		}
	}
	log.Printf("Points: %d", len(m.positions))
	log.Printf("Faces: %d", m.faceCount())

	input, mesh, sum, err := process(m, c)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	sum.write(os.Stdout)
	if c.headless {
		return
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("intrinsicview - " + c.in)
	if err := ebiten.RunGame(newViewer(input, mesh, m.positions, sum.status())); err != nil {
		log.Fatal(err)
	}
}
