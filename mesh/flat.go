package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Buffers is the float32 form of a mesh, as uploaded to a GPU or a web viewer.
type Buffers struct {
	Positions []mgl32.Vec3 `json:"positions"`
	Normals   []mgl32.Vec3 `json:"normals"`
	Indices   []uint32     `json:"indices"`
	Colors    []mgl32.Vec4 `json:"colors,omitempty"`
}

// Flatten32 converts the mesh to float32 buffers.
func (m *Mesh) Flatten32() Buffers {
	b := Buffers{
		Positions: make([]mgl32.Vec3, len(m.Vertices)),
		Normals:   make([]mgl32.Vec3, len(m.Vertices)),
		Indices:   make([]uint32, 0, len(m.Triangles)*3),
	}
	for i, v := range m.Vertices {
		b.Positions[i] = mgl32.Vec3{float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z)}
		b.Normals[i] = mgl32.Vec3{float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z)}
	}
	for _, t := range m.Triangles {
		b.Indices = append(b.Indices, uint32(t[0]), uint32(t[1]), uint32(t[2]))
	}
	if m.HasColors() {
		b.Colors = make([]mgl32.Vec4, len(m.Colors))
		for i, c := range m.Colors {
			b.Colors[i] = mgl32.Vec4{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
		}
	}
	return b
}
