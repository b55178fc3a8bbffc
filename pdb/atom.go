package pdb

import (
	"bufio"
	"bytes"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/spatial/r3"
)

// Atom represents a single atom in the structure.
// It contains the columns from an ATOM or HETATM record in a PDB file.
type Atom struct {
	// PDB columns for the ATOM tag
	Number        int64
	Name          string
	Residue       string
	Chain         string
	ResidueNumber int64
	X             float64
	Y             float64
	Z             float64
	Occupancy     float64
	BFactor       float64
	Element       string
	Charge        string

	Het      bool // HETATM record
	Selected bool
}

// Position returns the atom coordinates.
func (a *Atom) Position() r3.Vec {
	return r3.Vec{X: a.X, Y: a.Y, Z: a.Z}
}

// IsWater returns true for solvent water atoms.
func (a *Atom) IsWater() bool {
	return a.Het && (a.Residue == "HOH" || a.Residue == "WAT")
}

// extractPDBATMRecords extracts ATOM and HETATM records of the first model,
// in file order.
func (pdb *PDB) extractPDBATMRecords() (atoms []*Atom, hetatms []*Atom, err error) {
	s := bufio.NewScanner(bytes.NewReader(pdb.RawPDB))
	for s.Scan() {
		line := s.Text()
		if strings.HasPrefix(line, "ENDMDL") {
			break
		}
		isAtom := strings.HasPrefix(line, "ATOM")
		isHet := strings.HasPrefix(line, "HETATM")
		if !isAtom && !isHet {
			continue
		}
		if len(line) < 54 {
			return nil, nil, errors.New("truncated record: " + line)
		}
		// Pad to the full record width so optional trailing columns slice safely.
		if len(line) < 80 {
			line += strings.Repeat(" ", 80-len(line))
		}

		var atom Atom
		var perr error
		parseFloat := func(col string) float64 {
			v, err := strconv.ParseFloat(strings.TrimSpace(col), 64)
			if err != nil && perr == nil {
				perr = err
			}
			return v
		}

		// https://www.wwpdb.org/documentation/file-format-content/format33/sect9.html#ATOM
		atom.Number, _ = strconv.ParseInt(strings.TrimSpace(line[6:11]), 10, 64)
		atom.Name = strings.TrimSpace(line[12:16])
		atom.Residue = strings.TrimSpace(line[17:20])
		atom.Chain = line[21:22]
		atom.ResidueNumber, _ = strconv.ParseInt(strings.TrimSpace(line[22:26]), 10, 64)
		atom.X = parseFloat(line[30:38])
		atom.Y = parseFloat(line[38:46])
		atom.Z = parseFloat(line[46:54])
		atom.Occupancy, _ = strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64)
		atom.BFactor, _ = strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64)
		atom.Element = strings.TrimSpace(line[76:78])
		atom.Charge = strings.TrimSpace(line[78:80])
		atom.Het = isHet
		if perr != nil {
			return nil, nil, errors.New("bad coordinates: " + strings.TrimSpace(line))
		}
		if atom.Element == "" {
			atom.Element = elementFromName(line[12:16])
		}

		pdb.addChain(atom.Chain)
		if isHet {
			hetatms = append(hetatms, &atom)
			pdb.addHetGroup(atom.Residue)
		} else {
			atoms = append(atoms, &atom)
		}
	}
	if err := s.Err(); err != nil {
		return nil, nil, err
	}

	if len(atoms) == 0 && len(hetatms) == 0 {
		return nil, nil, errors.New("atoms not found")
	}
	return atoms, hetatms, nil
}

func (pdb *PDB) addChain(id string) {
	for _, c := range pdb.ChainOrder {
		if c == id {
			return
		}
	}
	pdb.ChainOrder = append(pdb.ChainOrder, id)
}

func (pdb *PDB) addHetGroup(name string) {
	for _, het := range pdb.HetGroups {
		if het == name {
			return
		}
	}
	pdb.HetGroups = append(pdb.HetGroups, name)
}

// elementFromName guesses the element from the atom name columns, for files
// that leave the element columns blank. Names of single letter elements
// start at column 14, two letter ones at column 13.
func elementFromName(name string) string {
	if len(name) < 2 {
		return ""
	}
	if name[0] == ' ' || unicode.IsDigit(rune(name[0])) {
		return strings.TrimSpace(name[1:2])
	}
	return strings.TrimSpace(name[0:2])
}
