package pdb

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var residueNames = [...][3]string{
	{"Alanine", "Ala", "A"},
	{"Arginine", "Arg", "R"},
	{"Asparagine", "Asn", "N"},
	{"Aspartic acid", "Asp", "D"},
	{"Cysteine", "Cys", "C"},
	{"Glutamic acid", "Glu", "E"},
	{"Glutamine", "Gln", "Q"},
	{"Glycine", "Gly", "G"},
	{"Histidine", "His", "H"},
	{"Isoleucine", "Ile", "I"},
	{"Leucine", "Leu", "L"},
	{"Lysine", "Lys", "K"},
	{"Methionine", "Met", "M"},
	{"Phenylalanine", "Phe", "F"},
	{"Proline", "Pro", "P"},
	{"Serine", "Ser", "S"},
	{"Threonine", "Thr", "T"},
	{"Tryptophan", "Trp", "W"},
	{"Tyrosine", "Tyr", "Y"},
	{"Valine", "Val", "V"},
}

// Residue represents a single residue from the PDB structure.
type Residue struct {
	Chain          string  `json:"chain"`
	StructPosition int64   `json:"structPosition"`
	Name           string  `json:"-"`
	Name1          string  `json:"name1"`
	Name3          string  `json:"-"`
	Atoms          []*Atom `json:"-"`
}

// AminoacidNames receives a name and returns a 3-sized array of all the possible representations as a string.
func AminoacidNames(input string) (string, string, string) {
	s := strings.ToLower(input)
	for _, res := range residueNames {
		for _, n := range res {
			if strings.ToLower(n) == s {
				return res[0], res[1], res[2]
			}
		}
	}

	return input, "Unk", "X"
}

// NewResidue constructs a new residue given a chain, position and aminoacid name.
// The name is case-insensitive and can be either a full aminoacid name, one or three letter abbreviation.
func NewResidue(chain string, pos int64, input string) *Residue {
	name, abbrv3, abbrv1 := AminoacidNames(input)

	return &Residue{
		Chain:          chain,
		StructPosition: pos,
		Name:           name,
		Name1:          abbrv1,
		Name3:          abbrv3,
	}
}

// ExtractResidues extracts data from the ATOM and HETATM records and parses them.
func (pdb *PDB) ExtractResidues() error {
	pdb.HetGroups = nil
	pdb.ChainOrder = nil

	atoms, hetatms, err := pdb.extractPDBATMRecords()
	if err != nil {
		return fmt.Errorf("extract ATOM records: %v", err)
	}

	pdb.Atoms = atoms
	pdb.HetAtoms = hetatms

	err = pdb.ExtractPDBChains()
	if err != nil {
		return fmt.Errorf("extract PDB chains: %v", err)
	}

	return nil
}

// ExtractPDBChains groups ATOM records into residues per chain.
func (pdb *PDB) ExtractPDBChains() error {
	if len(pdb.Atoms) == 0 && len(pdb.HetAtoms) == 0 {
		return errors.New("empty atoms list")
	}

	chains := make(map[string]map[int64]*Residue)
	for _, atom := range pdb.Atoms {
		if _, ok := chains[atom.Chain]; !ok {
			chains[atom.Chain] = make(map[int64]*Residue)
		}
		res, ok := chains[atom.Chain][atom.ResidueNumber]
		if !ok {
			res = NewResidue(atom.Chain, atom.ResidueNumber, atom.Residue)
			chains[atom.Chain][atom.ResidueNumber] = res
		}
		res.Atoms = append(res.Atoms, atom)
	}

	pdb.Chains = chains
	pdb.TotalLength = 0
	for _, chain := range pdb.Chains {
		pdb.TotalLength += int64(len(chain))
	}

	return nil
}

// Sequence returns the one letter sequence of a chain in residue order,
// with X for residues that are not standard amino acids.
func (pdb *PDB) Sequence(chain string) string {
	residues := pdb.Chains[chain]
	positions := make([]int64, 0, len(residues))
	for pos := range residues {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })

	var b strings.Builder
	for _, pos := range positions {
		b.WriteString(residues[pos].Name1)
	}
	return b.String()
}
