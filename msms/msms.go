// Package msms computes solvent excluded surfaces with the MSMS executable
// (Sanner, Olson & Spehner) and parses its triangulated output.
package msms

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/tikz/molsurf/logging"
	"github.com/tikz/molsurf/mesh"
	"github.com/tikz/molsurf/partition"
)

// ErrSurfaceFailed is returned when MSMS did not produce a usable surface.
var ErrSurfaceFailed = errors.New("surface computation failed")

// WaitDelay bounds how long a cancelled run waits for the output pipes to
// close once msms has been killed. Processes forked by msms may hold them open.
var WaitDelay = time.Second

const (
	vertExt = ".vert"
	faceExt = ".face"
)

// Params are the MSMS triangulation parameters.
type Params struct {
	ProbeRadius float64
	Density     float64
	HighDensity float64
}

// MSMS runs the msms binary.
type MSMS struct {
	binPath string
	tempDir string

	KeepTemp bool // keep the per-call working directory
	Log      logging.Logger
}

// NewMSMS instantiates the runner for the binary at binPath.
// Intermediate files are created under tempDir, or the system default if empty.
func NewMSMS(binPath string, tempDir string) (m *MSMS, err error) {
	m = &MSMS{tempDir: tempDir, Log: logging.Discard()}
	if m.binPath, err = filepath.Abs(binPath); err != nil {
		return nil, err
	}
	if _, err := os.Stat(m.binPath); os.IsNotExist(err) {
		return nil, errors.Wrap(err, "msms binary")
	}
	return m, nil
}

// Path returns the absolute path of the binary.
func (m *MSMS) Path() string {
	return m.binPath
}

// Compute triangulates the molecular surface of g. Either both output files
// are produced and parsed, or ErrSurfaceFailed is returned with no data.
func (m *MSMS) Compute(ctx context.Context, g *partition.Group, p Params) (*mesh.RawSurface, error) {
	dir, err := os.MkdirTemp(m.tempDir, "msms-")
	if err != nil {
		return nil, errors.Wrap(err, "create work dir")
	}
	if m.KeepTemp {
		m.Log.Debugf("msms: keeping work dir %s", dir)
	} else {
		defer os.RemoveAll(dir)
	}

	inPath := filepath.Join(dir, "atoms.xyzr")
	outBase := filepath.Join(dir, "surface")

	var buf bytes.Buffer
	if err := WriteXYZR(&buf, g); err != nil {
		return nil, err
	}
	if err := os.WriteFile(inPath, buf.Bytes(), 0644); err != nil {
		return nil, errors.Wrap(err, "write xyzr")
	}

	cmd := exec.CommandContext(ctx, m.binPath,
		"-if", inPath,
		"-of", outBase,
		"-probe_radius", formatFloat(p.ProbeRadius),
		"-density", formatFloat(p.Density),
		"-hdensity", formatFloat(p.HighDensity),
		"-no_area",
		"-no_rest",
		"-no_header")
	cmd.Dir = filepath.Dir(m.binPath)
	cmd.WaitDelay = WaitDelay

	m.Log.Debugf("msms: %s, %d atoms", g.Name(), g.Len())
	out, runErr := cmd.CombinedOutput()
	if ctx.Err() != nil {
		return nil, errors.Wrapf(ErrSurfaceFailed, "%s: %s: %v", g.Name(), m.binPath, ctx.Err())
	}

	// msms exit codes are unreliable; the output files decide.
	vertPath, facePath := outBase+vertExt, outBase+faceExt
	if fileNotExist(vertPath) || fileNotExist(facePath) {
		return nil, errors.Wrapf(ErrSurfaceFailed, "%s: %s: missing output (exit: %v): %s",
			g.Name(), m.binPath, runErr, bytes.TrimSpace(out))
	}

	surface, err := parseOutput(vertPath, facePath, g.Len())
	if err != nil {
		return nil, errors.Wrapf(ErrSurfaceFailed, "%s: %s: %v", g.Name(), m.binPath, err)
	}
	return surface, nil
}

// parseOutput reads both output files of a run over atoms input atoms.
func parseOutput(vertPath, facePath string, atoms int) (*mesh.RawSurface, error) {
	vf, err := os.Open(vertPath)
	if err != nil {
		return nil, err
	}
	defer vf.Close()

	vertices, closest, err := ParseVertices(vf)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %v", filepath.Base(vertPath), err)
	}
	for i, a := range closest {
		if a >= atoms {
			return nil, fmt.Errorf("vertex %d: closest atom %d out of range (%d atoms)", i, a+1, atoms)
		}
	}

	ff, err := os.Open(facePath)
	if err != nil {
		return nil, err
	}
	defer ff.Close()

	triangles, err := ParseFaces(ff)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %v", filepath.Base(facePath), err)
	}

	surface := &mesh.RawSurface{
		Vertices:    vertices,
		Triangles:   triangles,
		ClosestAtom: closest,
	}
	if err := surface.Validate(); err != nil {
		return nil, err
	}
	return surface, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func fileNotExist(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}
