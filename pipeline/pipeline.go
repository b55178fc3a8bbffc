// Package pipeline assembles the molecular surface of a complex: it splits
// the complex into atom groups, computes a surface per group, merges them
// into a single mesh, colors it with ambient occlusion and delivers it.
package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tikz/molsurf/config"
	"github.com/tikz/molsurf/logging"
	"github.com/tikz/molsurf/mesh"
	"github.com/tikz/molsurf/msms"
	"github.com/tikz/molsurf/partition"
)

// ErrRunning is returned when Run is called while another run is in progress.
var ErrRunning = errors.New("surface computation already running")

// SurfaceComputer computes the surface of a single atom group.
// *msms.MSMS implements it.
type SurfaceComputer interface {
	Compute(ctx context.Context, g *partition.Group, p msms.Params) (*mesh.RawSurface, error)
	Path() string
}

// AOComputer computes per-vertex ambient occlusion colors of a mesh.
// *aoembree.AOEmbree implements it.
type AOComputer interface {
	Compute(ctx context.Context, m *mesh.Mesh, steps int, maxDistance float64) ([]mesh.Color, error)
	Path() string
}

// Sink receives the finished mesh of a complex.
type Sink interface {
	Deliver(ctx context.Context, complexID string, m *mesh.Mesh) error
}

// Complex is a structure to compute the surface of.
type Complex struct {
	ID       string
	Molecule *partition.Molecule
}

// Result summarizes a run.
type Result struct {
	RunID     string
	ComplexID string
	Groups    int      // groups the complex was split into
	Failed    []string // names of the groups whose surface computation failed
	Vertices  int
	Triangles int
	Colored   bool
	Delivered bool
	Err       error // set by RunAll
}

// Pipeline runs surface computations, one at a time.
type Pipeline struct {
	Config   config.Config
	Surface  SurfaceComputer
	AO       AOComputer // nil when no AO executable is available
	Sink     Sink
	Notifier Notifier
	Log      logging.Logger

	mu      sync.Mutex
	running bool
	state   State
}

// New returns a pipeline using surface for per-group computations.
func New(cfg config.Config, surface SurfaceComputer) *Pipeline {
	return &Pipeline{
		Config:  cfg,
		Surface: surface,
		Log:     logging.Default(),
	}
}

// State returns the current state of the pipeline.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Run computes, assembles and delivers the surface of c.
// ErrNothingSelected aborts the run before any surface computation.
// Failed groups and a failed AO computation are logged and skipped.
func (p *Pipeline) Run(ctx context.Context, c Complex) (*Result, error) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil, ErrRunning
	}
	p.running = true
	p.state = Partitioning
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	res := &Result{RunID: uuid.NewString(), ComplexID: c.ID}
	log := p.logger()

	groups, err := partition.Partition(c.Molecule, p.Config.ByChain, p.Config.SelectedOnly)
	if err != nil {
		p.setState(Aborted)
		if errors.Is(err, partition.ErrNothingSelected) {
			p.notify(Message, "Nothing is selected")
		}
		log.Infof("run %s: complex %s: %v", res.RunID, c.ID, err)
		return res, err
	}
	res.Groups = len(groups)
	log.Infof("run %s: complex %s: %d group(s)", res.RunID, c.ID, len(groups))

	p.setState(Computing)
	m := &mesh.Mesh{}
	p.computeGroups(ctx, res, groups, m)

	if p.Config.AO && p.AO != nil && !m.IsEmpty() {
		p.setState(Coloring)
		colors, err := p.AO.Compute(ctx, m, p.Config.AOSteps, p.Config.AOMaxDistance)
		if err != nil {
			log.Warnf("run %s: complex %s: ambient occlusion with %s: %v", res.RunID, c.ID, p.AO.Path(), err)
		} else {
			m.Colors = colors
			res.Colored = true
		}
	}

	if err := m.Validate(); err != nil {
		p.setState(Aborted)
		return res, errors.Wrap(err, "assembled mesh")
	}
	res.Vertices, res.Triangles = m.VertexCount(), m.TriangleCount()

	if p.Sink == nil {
		p.setState(Idle)
		log.Warnf("run %s: complex %s: no sink, %d vertices, %d triangles not delivered",
			res.RunID, c.ID, res.Vertices, res.Triangles)
		return res, nil
	}
	if err := p.Sink.Deliver(ctx, c.ID, m); err != nil {
		p.setState(Aborted)
		return res, errors.Wrapf(err, "deliver complex %s", c.ID)
	}
	res.Delivered = true
	p.setState(Delivered)
	log.Infof("run %s: complex %s: delivered %d vertices, %d triangles, %d failed group(s)",
		res.RunID, c.ID, res.Vertices, res.Triangles, len(res.Failed))

	return res, nil
}

// computeGroups computes the surface of every group, with up to
// Config.Workers computations in flight, and merges the results into m in
// group order as they become available.
func (p *Pipeline) computeGroups(ctx context.Context, res *Result, groups []partition.Group, m *mesh.Mesh) {
	workers := p.Config.Workers
	if workers < 1 {
		workers = 1
	}

	slots := make([]chan *mesh.RawSurface, len(groups))
	for i := range slots {
		slots[i] = make(chan *mesh.RawSurface, 1)
	}

	go func() {
		sem := make(chan struct{}, workers)
		for i := range groups {
			sem <- struct{}{}
			go func(i int) {
				defer func() { <-sem }()
				slots[i] <- p.computeGroup(ctx, res.RunID, &groups[i])
			}(i)
		}
	}()

	for i := range groups {
		surface := <-slots[i]
		if surface == nil {
			res.Failed = append(res.Failed, groups[i].Name())
			continue
		}
		mesh.Merge(surface, m)
	}
}

// computeGroup returns nil if the surface computation failed.
func (p *Pipeline) computeGroup(ctx context.Context, runID string, g *partition.Group) *mesh.RawSurface {
	params := msms.Params{
		ProbeRadius: p.Config.ProbeRadius,
		Density:     p.Config.Density,
		HighDensity: p.Config.HighDensity,
	}

	surface, err := p.Surface.Compute(ctx, g, params)
	if err != nil {
		p.logger().Errorf("run %s: %s (%d atoms): %s: %v", runID, g.Name(), g.Len(), p.Surface.Path(), err)
		return nil
	}
	p.logger().Debugf("run %s: %s: %d vertices, %d triangles", runID, g.Name(), len(surface.Vertices), len(surface.Triangles))
	return surface
}

func (p *Pipeline) logger() logging.Logger {
	if p.Log == nil {
		return logging.Discard()
	}
	return p.Log
}

func (p *Pipeline) notify(kind NotificationKind, msg string) {
	if p.Notifier != nil {
		p.Notifier.Notify(kind, msg)
	}
}
