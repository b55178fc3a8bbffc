package pdb

import (
	"github.com/tikz/molsurf/partition"
)

// Molecule returns the structure as chains of atoms in file order, for
// surface computation. HETATM records other than water are included when
// hetero is true. Chains left without atoms are not listed.
func (pdb *PDB) Molecule(hetero bool) *partition.Molecule {
	byChain := make(map[string][]partition.Atom)
	add := func(a *Atom) {
		byChain[a.Chain] = append(byChain[a.Chain], partition.Atom{
			Serial:    a.Number,
			Chain:     a.Chain,
			Position:  a.Position(),
			VdWRadius: a.VdWRadius(),
			Selected:  a.Selected,
		})
	}

	for _, a := range pdb.Atoms {
		add(a)
	}
	if hetero {
		for _, a := range pdb.HetAtoms {
			if !a.IsWater() {
				add(a)
			}
		}
	}

	m := &partition.Molecule{}
	for _, id := range pdb.ChainOrder {
		if atoms := byChain[id]; len(atoms) > 0 {
			m.Chains = append(m.Chains, partition.Chain{ID: id, Atoms: atoms})
		}
	}
	return m
}
