package msms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tikz/molsurf/mesh"
	"github.com/tikz/molsurf/partition"
	"gonum.org/v1/gonum/spatial/r3"
)

func twoAtoms() *partition.Group {
	return &partition.Group{
		Chain:     "A",
		Positions: []r3.Vec{{X: 1.5, Y: -2.25, Z: 3}, {X: 0.123456, Y: 0, Z: 10}},
		Radii:     []float64{1.7, 1.52},
		Serials:   []int64{1, 2},
	}
}

func TestWriteXYZR(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXYZR(&buf, twoAtoms()); err != nil {
		t.Fatal(err)
	}

	expected := "1.50000 -2.25000 3.00000 1.70000\n0.12346 0.00000 10.00000 1.52000\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestParseVertices(t *testing.T) {
	f, err := os.Open("testdata/surface.vert")
	if err != nil {
		t.Fatalf("cannot open file: %s", err)
	}
	defer f.Close()

	vertices, closest, err := ParseVertices(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(vertices) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(vertices))
	}
	if len(closest) != len(vertices) {
		t.Fatalf("expected one closest atom per vertex, got %d", len(closest))
	}

	v := vertices[2]
	if v.Position != (r3.Vec{X: 1, Y: 1}) {
		t.Errorf("unexpected position %v", v.Position)
	}
	if v.Normal != (r3.Vec{Z: 1}) {
		t.Errorf("unexpected normal %v", v.Normal)
	}
	if closest[0] != 0 || closest[2] != 1 {
		t.Errorf("expected 0-based closest atoms, got %v", closest)
	}
}

func TestParseFaces(t *testing.T) {
	f, err := os.Open("testdata/surface.face")
	if err != nil {
		t.Fatalf("cannot open file: %s", err)
	}
	defer f.Close()

	faces, err := ParseFaces(f)
	if err != nil {
		t.Fatal(err)
	}
	expected := []mesh.Triangle{{0, 1, 2}, {0, 2, 3}}
	if len(faces) != len(expected) {
		t.Fatalf("expected %d faces, got %d", len(expected), len(faces))
	}
	for i := range expected {
		if faces[i] != expected[i] {
			t.Errorf("face %d: expected %v, got %v", i, expected[i], faces[i])
		}
	}
}

func TestParseDeterministic(t *testing.T) {
	raw, err := os.ReadFile("testdata/surface.vert")
	if err != nil {
		t.Fatal(err)
	}
	first, _, err := ParseVertices(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := ParseVertices(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("vertex %d differs between runs", i)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	if _, _, err := ParseVertices(strings.NewReader("1 2 3 4 5 6\n")); err == nil {
		t.Error("expected error for short vertex record")
	}
	if _, _, err := ParseVertices(strings.NewReader("1 2 x 0 0 1 0 1\n")); err == nil {
		t.Error("expected error for non-numeric vertex field")
	}
	if _, _, err := ParseVertices(strings.NewReader("1 2 3 0 0 1 0 0\n")); err == nil {
		t.Error("expected error for closest atom 0")
	}
	if _, err := ParseFaces(strings.NewReader("1 2\n")); err == nil {
		t.Error("expected error for short face record")
	}
}

// stub writes a shell script standing in for msms. It records its arguments
// and input, and copies the given fixtures to the requested output base.
func stub(t *testing.T, vert, face string) string {
	t.Helper()
	dir := t.TempDir()

	var copies string
	if vert != "" {
		abs, _ := filepath.Abs(vert)
		copies += fmt.Sprintf("cp %q \"$out.vert\"\n", abs)
	}
	if face != "" {
		abs, _ := filepath.Abs(face)
		copies += fmt.Sprintf("cp %q \"$out.face\"\n", abs)
	}

	script := `#!/bin/sh
echo "$@" > "$(dirname "$0")/args"
while [ $# -gt 0 ]; do
	case "$1" in
		-if) in="$2"; shift ;;
		-of) out="$2"; shift ;;
	esac
	shift
done
cp "$in" "$(dirname "$0")/input.xyzr"
` + copies

	path := filepath.Join(dir, "msms")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompute(t *testing.T) {
	bin := stub(t, "testdata/surface.vert", "testdata/surface.face")
	tmp := t.TempDir()

	m, err := NewMSMS(bin, tmp)
	if err != nil {
		t.Fatal(err)
	}

	surface, err := m.Compute(context.Background(), twoAtoms(), Params{ProbeRadius: 1.4, Density: 10, HighDensity: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(surface.Vertices) != 4 || len(surface.Triangles) != 2 {
		t.Errorf("expected 4 vertices and 2 triangles, got %d and %d", len(surface.Vertices), len(surface.Triangles))
	}

	args, err := os.ReadFile(filepath.Join(filepath.Dir(bin), "args"))
	if err != nil {
		t.Fatal(err)
	}
	for _, flag := range []string{"-probe_radius 1.4", "-density 10", "-hdensity 3", "-no_area", "-no_rest", "-no_header"} {
		if !strings.Contains(string(args), flag) {
			t.Errorf("expected %q in arguments %q", flag, args)
		}
	}

	input, err := os.ReadFile(filepath.Join(filepath.Dir(bin), "input.xyzr"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(input), "\n") != 2 {
		t.Errorf("expected 2 input records, got %q", input)
	}

	entries, _ := os.ReadDir(tmp)
	if len(entries) != 0 {
		t.Errorf("expected work dir to be removed, found %d entries", len(entries))
	}
}

func TestComputeMissingOutput(t *testing.T) {
	bin := stub(t, "testdata/surface.vert", "")
	tmp := t.TempDir()

	m, err := NewMSMS(bin, tmp)
	if err != nil {
		t.Fatal(err)
	}

	surface, err := m.Compute(context.Background(), twoAtoms(), Params{ProbeRadius: 1.4, Density: 10, HighDensity: 3})
	if !errors.Is(err, ErrSurfaceFailed) {
		t.Errorf("expected ErrSurfaceFailed, got %v", err)
	}
	if surface != nil {
		t.Error("expected no partial surface")
	}
	if !strings.Contains(err.Error(), "chain A") {
		t.Errorf("expected group in error, got %q", err)
	}

	entries, _ := os.ReadDir(tmp)
	if len(entries) != 0 {
		t.Errorf("expected work dir to be removed on failure, found %d entries", len(entries))
	}
}

func TestComputeBadFaces(t *testing.T) {
	faces := filepath.Join(t.TempDir(), "bad.face")
	if err := os.WriteFile(faces, []byte("1 2 9\n"), 0644); err != nil {
		t.Fatal(err)
	}
	bin := stub(t, "testdata/surface.vert", faces)

	m, err := NewMSMS(bin, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Compute(context.Background(), twoAtoms(), Params{ProbeRadius: 1.4, Density: 10, HighDensity: 3}); !errors.Is(err, ErrSurfaceFailed) {
		t.Errorf("expected ErrSurfaceFailed for out of range face, got %v", err)
	}
}

func TestNewMSMSMissingBinary(t *testing.T) {
	if _, err := NewMSMS(filepath.Join(t.TempDir(), "msms"), ""); err == nil {
		t.Error("expected error for missing binary")
	}
}

func TestComputeClosestAtomOutOfRange(t *testing.T) {
	vert := filepath.Join(t.TempDir(), "bad.vert")
	if err := os.WriteFile(vert, []byte("0 0 0 0 0 1 0 1\n1 0 0 0 0 1 0 3\n1 1 0 0 0 1 0 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	face := filepath.Join(t.TempDir(), "ok.face")
	if err := os.WriteFile(face, []byte("1 2 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	bin := stub(t, vert, face)

	m, err := NewMSMS(bin, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Compute(context.Background(), twoAtoms(), Params{ProbeRadius: 1.4, Density: 10, HighDensity: 3}); !errors.Is(err, ErrSurfaceFailed) {
		t.Errorf("expected ErrSurfaceFailed for closest atom past the group, got %v", err)
	}
}

func TestComputeCancel(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "msms")
	// The sleep runs in a child of the shell, which keeps the output pipe open.
	if err := os.WriteFile(bin, []byte("#!/bin/sh\nsleep 30 &\nwait\n"), 0755); err != nil {
		t.Fatal(err)
	}
	tmp := t.TempDir()

	m, err := NewMSMS(bin, tmp)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	surface, err := m.Compute(ctx, twoAtoms(), Params{ProbeRadius: 1.4, Density: 10, HighDensity: 3})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrSurfaceFailed) {
		t.Errorf("expected ErrSurfaceFailed, got %v", err)
	}
	if surface != nil {
		t.Error("expected no surface after cancellation")
	}
	if elapsed > 10*time.Second {
		t.Errorf("cancelled run took %s", elapsed)
	}

	entries, _ := os.ReadDir(tmp)
	if len(entries) != 0 {
		t.Errorf("expected work dir to be removed after cancellation, found %d entries", len(entries))
	}
}
