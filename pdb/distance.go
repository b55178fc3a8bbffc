package pdb

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Distance returns the distance between a pair of atoms
func Distance(atom1 *Atom, atom2 *Atom) float64 {
	return r3.Norm(r3.Sub(atom1.Position(), atom2.Position()))
}

// nearAny returns true if atom is within distance of any of others.
func nearAny(atom *Atom, others []*Atom, distance float64) bool {
	for _, o := range others {
		if Distance(atom, o) <= distance {
			return true
		}
	}
	return false
}
