package main

import (
	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	terrainAlpha  = 2.0
	terrainBeta   = 2.0
	terrainOctave = 3
)

// terrainMesh returns an n x n grid of unit quads, each split into two
// triangles, lifted by Perlin noise. The same seed always gives the same mesh.
func terrainMesh(n int, height float64, seed int64) *meshData {
	noise := perlin.NewPerlin(terrainAlpha, terrainBeta, terrainOctave, seed)

	id := func(i, j int) int { return j*(n+1) + i }
	positions := make([]mgl64.Vec3, 0, (n+1)*(n+1))
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			x, y := float64(i), float64(j)
			z := height * noise.Noise2D(x/float64(n), y/float64(n))
			positions = append(positions, mgl64.Vec3{x, y, z})
		}
	}

	indices := make([]int, 0, 6*n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			a, b, c, d := id(i, j), id(i+1, j), id(i+1, j+1), id(i, j+1)
			indices = append(indices, a, b, c, a, c, d)
		}
	}
	return &meshData{indices: indices, positions: positions}
}
