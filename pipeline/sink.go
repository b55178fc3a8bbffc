package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/tikz/molsurf/mesh"
)

// FileSink writes delivered meshes to Dir as <complex>.obj and/or <complex>.stl.
type FileSink struct {
	Dir string
	OBJ bool
	STL bool
}

// Deliver implements Sink.
func (s *FileSink) Deliver(ctx context.Context, complexID string, m *mesh.Mesh) error {
	if err := os.MkdirAll(s.Dir, os.ModePerm); err != nil {
		return err
	}
	base := filepath.Join(s.Dir, complexID)

	if s.OBJ {
		f, err := os.Create(base + ".obj")
		if err != nil {
			return err
		}
		err = mesh.WriteOBJ(f, m)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return errors.Wrap(err, "write OBJ")
		}
	}

	if s.STL {
		if err := mesh.SaveSTL(base+".stl", m); err != nil {
			return errors.Wrap(err, "write STL")
		}
	}
	return nil
}

// Sinks delivers to each of its members, stopping at the first error.
type Sinks []Sink

// Deliver implements Sink.
func (ss Sinks) Deliver(ctx context.Context, complexID string, m *mesh.Mesh) error {
	for _, s := range ss {
		if err := s.Deliver(ctx, complexID, m); err != nil {
			return err
		}
	}
	return nil
}
