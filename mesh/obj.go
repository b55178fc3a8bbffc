package mesh

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOBJ writes the mesh as Wavefront OBJ text: a "v" and a "vn" line per
// vertex with 6 decimals, then an "f" line per triangle with 1-based indices.
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v.Position.X, v.Position.Y, v.Position.Z)
		fmt.Fprintf(bw, "vn %.6f %.6f %.6f\n", v.Normal.X, v.Normal.Y, v.Normal.Z)
	}
	for _, t := range m.Triangles {
		fmt.Fprintf(bw, "f %d %d %d\n", t[0]+1, t[1]+1, t[2]+1)
	}
	return bw.Flush()
}
