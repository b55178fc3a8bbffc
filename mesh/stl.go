package mesh

import (
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangles3 converts the indexed mesh to the sdfx triangle soup.
func (m *Mesh) Triangles3() []*sdf.Triangle3 {
	tris := make([]*sdf.Triangle3, 0, len(m.Triangles))
	for _, t := range m.Triangles {
		tri := sdf.Triangle3{
			toV3(m.Vertices[t[0]].Position),
			toV3(m.Vertices[t[1]].Position),
			toV3(m.Vertices[t[2]].Position),
		}
		tris = append(tris, &tri)
	}
	return tris
}

// SaveSTL writes the mesh geometry to a binary STL file.
// Normals and colors are not stored; STL readers derive facet normals.
func SaveSTL(path string, m *Mesh) error {
	return render.SaveSTL(path, m.Triangles3())
}

func toV3(v r3.Vec) v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
