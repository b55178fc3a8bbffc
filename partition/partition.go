// Package partition splits a molecule into the atom groups that surfaces
// are computed for: the whole molecule at once, or one group per chain.
package partition

import (
	"errors"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNothingSelected is returned when only selected atoms are requested
// and no atom in the molecule is selected.
var ErrNothingSelected = errors.New("nothing is selected")

// Atom is the read-only view of a structure atom used for surface computation.
type Atom struct {
	Serial    int64
	Chain     string
	Position  r3.Vec
	VdWRadius float64
	Selected  bool
}

// Chain is an ordered list of atoms sharing a chain identifier.
type Chain struct {
	ID    string
	Atoms []Atom
}

// Molecule is an ordered list of chains.
type Molecule struct {
	Chains []Chain
}

// AtomCount returns the total number of atoms across all chains.
func (m *Molecule) AtomCount() int {
	return lo.SumBy(m.Chains, func(c Chain) int { return len(c.Atoms) })
}

// Group is the input of one surface computation.
// Positions, Radii and Serials are aligned by index.
type Group struct {
	Whole     bool   // the group spans the whole molecule
	Chain     string // chain ID, only meaningful when not Whole
	Positions []r3.Vec
	Radii     []float64
	Serials   []int64
}

// Len returns the number of atoms in the group.
func (g *Group) Len() int {
	return len(g.Positions)
}

// Name returns a human readable label, used in logs.
func (g *Group) Name() string {
	if g.Whole {
		return "molecule"
	}
	if strings.TrimSpace(g.Chain) == "" {
		return "chain <blank>"
	}
	return "chain " + g.Chain
}

func (g *Group) add(a Atom) {
	g.Positions = append(g.Positions, a.Position)
	g.Radii = append(g.Radii, a.VdWRadius)
	g.Serials = append(g.Serials, a.Serial)
}

// Partition groups the atoms of m. With byChain, one group is produced per
// chain in chain order, and chains left without atoms are omitted. Otherwise
// a single group holds every atom. With selectedOnly, unselected atoms are
// dropped; if none remain anywhere, ErrNothingSelected is returned and no
// group is produced.
func Partition(m *Molecule, byChain bool, selectedOnly bool) ([]Group, error) {
	keep := func(a Atom, _ int) bool {
		return !selectedOnly || a.Selected
	}

	var groups []Group
	whole := Group{Whole: true}
	count := 0
	for _, chain := range m.Chains {
		atoms := lo.Filter(chain.Atoms, keep)
		count += len(atoms)

		if !byChain {
			for _, a := range atoms {
				whole.add(a)
			}
			continue
		}

		if len(atoms) == 0 {
			continue
		}
		g := Group{Chain: chain.ID}
		for _, a := range atoms {
			g.add(a)
		}
		groups = append(groups, g)
	}

	if count == 0 {
		if selectedOnly {
			return nil, ErrNothingSelected
		}
		return nil, nil
	}

	if !byChain {
		groups = []Group{whole}
	}
	return groups, nil
}
