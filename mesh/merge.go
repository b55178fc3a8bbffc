package mesh

// Merge appends raw to into, shifting raw's triangle indices by the number
// of vertices already present in into. Vertex order and triangle winding
// are preserved. Colors of into are dropped, since they no longer cover
// every vertex.
func Merge(raw *RawSurface, into *Mesh) {
	offset := len(into.Vertices)

	into.Vertices = append(into.Vertices, raw.Vertices...)
	for _, t := range raw.Triangles {
		into.Triangles = append(into.Triangles, Triangle{t[0] + offset, t[1] + offset, t[2] + offset})
	}
	into.Colors = nil
}
