// Package aoembree computes per-vertex ambient occlusion of a surface mesh
// with the AOEmbree executable.
package aoembree

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tikz/molsurf/logging"
	"github.com/tikz/molsurf/mesh"
)

// ErrAOFailed is returned when AOEmbree output does not hold one value per vertex.
var ErrAOFailed = errors.New("ambient occlusion computation failed")

// WaitDelay bounds how long a cancelled run waits for the output pipes to
// close once AOEmbree has been killed.
var WaitDelay = time.Second

// AOEmbree runs the AOEmbree binary.
type AOEmbree struct {
	binPath string
	libVar  string
	tempDir string

	KeepTemp bool
	Log      logging.Logger
}

// NewAOEmbree instantiates the runner for the binary at binPath. If libVar is
// not empty, the binary is run with that environment variable pointing to its
// own directory so that its bundled shared libraries are found.
func NewAOEmbree(binPath string, libVar string, tempDir string) (ao *AOEmbree, err error) {
	ao = &AOEmbree{libVar: libVar, tempDir: tempDir, Log: logging.Discard()}
	if ao.binPath, err = filepath.Abs(binPath); err != nil {
		return nil, err
	}
	if _, err := os.Stat(ao.binPath); os.IsNotExist(err) {
		return nil, errors.Wrap(err, "AOEmbree binary")
	}
	return ao, nil
}

// Path returns the absolute path of the binary.
func (ao *AOEmbree) Path() string {
	return ao.binPath
}

// Compute returns one gray color per vertex of m, its intensity being the
// ambient occlusion value computed with the given ray count and maximum distance.
func (ao *AOEmbree) Compute(ctx context.Context, m *mesh.Mesh, steps int, maxDistance float64) ([]mesh.Color, error) {
	dir, err := os.MkdirTemp(ao.tempDir, "aoembree-")
	if err != nil {
		return nil, errors.Wrap(err, "create work dir")
	}
	if ao.KeepTemp {
		ao.Log.Debugf("aoembree: keeping work dir %s", dir)
	} else {
		defer os.RemoveAll(dir)
	}

	objPath := filepath.Join(dir, "surface.obj")
	f, err := os.Create(objPath)
	if err != nil {
		return nil, errors.Wrap(err, "create obj")
	}
	err = mesh.WriteOBJ(f, m)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, errors.Wrap(err, "write obj")
	}

	cmd := exec.CommandContext(ctx, ao.binPath,
		"-n",
		"-i", objPath,
		"-a",
		"-s", strconv.Itoa(steps),
		"-d", strconv.FormatFloat(maxDistance, 'f', -1, 64))
	cmd.Dir = filepath.Dir(ao.binPath)
	cmd.Env = ao.environ()
	cmd.WaitDelay = WaitDelay

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	ao.Log.Debugf("aoembree: %d vertices, %d steps, max distance %g", m.VertexCount(), steps, maxDistance)
	out, runErr := cmd.Output()
	if ctx.Err() != nil {
		return nil, errors.Wrapf(ErrAOFailed, "%s: %v", ao.binPath, ctx.Err())
	}

	// The exit status is not trusted; the values on stdout decide.
	colors, err := ParseColors(out, m.VertexCount())
	if err != nil {
		if runErr != nil {
			return nil, errors.Wrapf(err, "%s (exit: %v): %s", ao.binPath, runErr, bytes.TrimSpace(stderr.Bytes()))
		}
		return nil, errors.Wrapf(err, "%s", ao.binPath)
	}
	if runErr != nil {
		ao.Log.Warnf("aoembree: %s: %v, output accepted", ao.binPath, runErr)
	}
	return colors, nil
}

// environ returns the current environment with the library path override
// applied, leaving the process environment untouched.
func (ao *AOEmbree) environ() []string {
	env := os.Environ()
	if ao.libVar == "" {
		return env
	}
	return withEnv(env, ao.libVar, filepath.Dir(ao.binPath))
}

// withEnv returns a copy of env with key set to value.
func withEnv(env []string, key, value string) []string {
	out := make([]string, 0, len(env)+1)
	prefix := key + "="
	for _, kv := range env {
		if !strings.HasPrefix(kv, prefix) {
			out = append(out, kv)
		}
	}
	return append(out, prefix+value)
}

// ParseColors reads n whitespace separated occlusion values and returns them
// as opaque gray colors. Tokens after the n-th are ignored.
func ParseColors(out []byte, n int) ([]mesh.Color, error) {
	fields := strings.Fields(string(out))
	if len(fields) < n {
		return nil, errors.Wrapf(ErrAOFailed, "expected %d values, got %d", n, len(fields))
	}

	colors := make([]mesh.Color, n)
	for i := 0; i < n; i++ {
		ao, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, errors.Wrapf(ErrAOFailed, "value %d: %v", i, err)
		}
		colors[i] = mesh.Gray(ao)
	}
	return colors, nil
}
