package msms

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tikz/molsurf/mesh"
	"github.com/tikz/molsurf/partition"
	"gonum.org/v1/gonum/spatial/r3"
)

// WriteXYZR writes one "x y z r" line per atom, with 5 decimals.
func WriteXYZR(w io.Writer, g *partition.Group) error {
	bw := bufio.NewWriter(w)
	for i, p := range g.Positions {
		fmt.Fprintf(bw, "%.5f %.5f %.5f %.5f\n", p.X, p.Y, p.Z, g.Radii[i])
	}
	return bw.Flush()
}

// ParseVertices parses a .vert file. Each record holds the position, the
// normal, the analytical surface number and the 1-based index of the closest
// atom, which is returned 0-based alongside the vertices. Atom indices below
// 1 are rejected.
func ParseVertices(r io.Reader) (vertices []mesh.Vertex, closest []int, err error) {
	err = eachRecord(r, 8, func(n int, fields []string) error {
		vals, err := parseFloats(fields[:6])
		if err != nil {
			return fmt.Errorf("line %d: %v", n, err)
		}
		atom, err := strconv.Atoi(fields[7])
		if err != nil {
			return fmt.Errorf("line %d: closest atom: %v", n, err)
		}
		if atom < 1 {
			return fmt.Errorf("line %d: closest atom %d out of range", n, atom)
		}

		vertices = append(vertices, mesh.Vertex{
			Position: r3.Vec{X: vals[0], Y: vals[1], Z: vals[2]},
			Normal:   r3.Vec{X: vals[3], Y: vals[4], Z: vals[5]},
		})
		closest = append(closest, atom-1)
		return nil
	})
	return
}

// ParseFaces parses a .face file, converting the 1-based vertex indices of
// each triangle to 0-based.
func ParseFaces(r io.Reader) (triangles []mesh.Triangle, err error) {
	err = eachRecord(r, 3, func(n int, fields []string) error {
		var t mesh.Triangle
		for i := 0; i < 3; i++ {
			idx, err := strconv.Atoi(fields[i])
			if err != nil {
				return fmt.Errorf("line %d: %v", n, err)
			}
			t[i] = idx - 1
		}
		triangles = append(triangles, t)
		return nil
	})
	return
}

// eachRecord calls fn for every non-blank line not starting with '#',
// after checking that it has at least minFields fields.
func eachRecord(r io.Reader, minFields int, fn func(n int, fields []string) error) error {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	n := 0
	for s.Scan() {
		n++
		line := s.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < minFields {
			return fmt.Errorf("line %d: expected at least %d fields, got %d", n, minFields, len(fields))
		}
		if err := fn(n, fields); err != nil {
			return err
		}
	}
	return s.Err()
}

func parseFloats(fields []string) ([]float64, error) {
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
