// Package mesh holds the triangle meshes produced by surface computations
// and the merge step that stitches per-group surfaces into a single,
// globally indexed mesh.
package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vertex is a surface point with its outward normal.
type Vertex struct {
	Position r3.Vec
	Normal   r3.Vec
}

// Triangle holds three 0-based vertex indices, in winding order.
type Triangle [3]int

// Color is a per-vertex RGBA color, components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Gray returns an opaque gray color of intensity v.
func Gray(v float64) Color {
	return Color{R: v, G: v, B: v, A: 1.0}
}

// RawSurface is the output of a single surface computation for one atom group.
// Triangle indices refer to the local Vertices slice.
type RawSurface struct {
	Vertices  []Vertex
	Triangles []Triangle

	// ClosestAtom holds, for each vertex, the 0-based index of the closest
	// atom within the group the surface was computed for.
	ClosestAtom []int
}

// Validate checks that every triangle index is in range.
func (r *RawSurface) Validate() error {
	return checkIndices(r.Triangles, len(r.Vertices))
}

// Mesh is the accumulated surface of a whole run.
// Triangle indices refer to the global Vertices slice.
// Colors is either empty or aligned with Vertices.
type Mesh struct {
	Vertices  []Vertex
	Triangles []Triangle
	Colors    []Color
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// HasColors returns true if the mesh carries one color per vertex.
func (m *Mesh) HasColors() bool {
	return len(m.Colors) > 0 && len(m.Colors) == len(m.Vertices)
}

// Validate checks the mesh invariants: all triangle indices in range and
// colors either absent or one per vertex.
func (m *Mesh) Validate() error {
	if err := checkIndices(m.Triangles, len(m.Vertices)); err != nil {
		return err
	}
	if len(m.Colors) != 0 && len(m.Colors) != len(m.Vertices) {
		return fmt.Errorf("%d colors for %d vertices", len(m.Colors), len(m.Vertices))
	}
	return nil
}

func checkIndices(tris []Triangle, n int) error {
	for i, t := range tris {
		for _, idx := range t {
			if idx < 0 || idx >= n {
				return fmt.Errorf("triangle %d: index %d out of range [0,%d)", i, idx, n)
			}
		}
	}
	return nil
}
