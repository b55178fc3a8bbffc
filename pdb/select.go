package pdb

// allAtoms returns ATOM then HETATM records.
func (pdb *PDB) allAtoms() []*Atom {
	all := make([]*Atom, 0, len(pdb.Atoms)+len(pdb.HetAtoms))
	all = append(all, pdb.Atoms...)
	return append(all, pdb.HetAtoms...)
}

// Select marks every atom for which fn returns true as selected, keeping
// previous selections. Returns the number of atoms newly matched.
func (pdb *PDB) Select(fn func(*Atom) bool) int {
	n := 0
	for _, a := range pdb.allAtoms() {
		if fn(a) {
			a.Selected = true
			n++
		}
	}
	return n
}

// SelectAll selects every atom.
func (pdb *PDB) SelectAll() int {
	return pdb.Select(func(*Atom) bool { return true })
}

// ClearSelection deselects every atom.
func (pdb *PDB) ClearSelection() {
	for _, a := range pdb.allAtoms() {
		a.Selected = false
	}
}

// SelectChains selects every atom of the given chains.
func (pdb *PDB) SelectChains(chains ...string) int {
	set := make(map[string]bool)
	for _, c := range chains {
		set[c] = true
	}
	return pdb.Select(func(a *Atom) bool { return set[a.Chain] })
}

// SelectResidues selects the atoms of residues from..to (inclusive) of a chain,
// HETATM records numbered within the range included.
func (pdb *PDB) SelectResidues(chain string, from int64, to int64) int {
	n := 0
	for pos, res := range pdb.Chains[chain] {
		if pos < from || pos > to {
			continue
		}
		for _, a := range res.Atoms {
			a.Selected = true
			n++
		}
	}
	for _, a := range pdb.HetAtoms {
		if a.Chain == chain && a.ResidueNumber >= from && a.ResidueNumber <= to {
			a.Selected = true
			n++
		}
	}
	return n
}

// SelectNear selects atoms within distance of any atom of the HET group het,
// the group's own atoms included.
func (pdb *PDB) SelectNear(het string, distance float64) int {
	var ligand []*Atom
	for _, a := range pdb.HetAtoms {
		if a.Residue == het {
			ligand = append(ligand, a)
		}
	}
	if len(ligand) == 0 {
		return 0
	}

	return pdb.Select(func(a *Atom) bool {
		return nearAny(a, ligand, distance)
	})
}
