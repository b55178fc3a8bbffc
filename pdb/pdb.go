// Package pdb reads atomic structures from PDB files and exposes them as
// molecules for surface computation.
package pdb

import (
	"fmt"
	"os"
	"strings"

	"github.com/tikz/molsurf/http"
)

// PDB represents a single PDB entry.
type PDB struct {
	ID     string `json:"id"`     // PDB ID
	URL    string `json:"url"`    // RCSB web page URL
	PDBURL string `json:"pdbUrl"` // RCSB download URL for the PDB file

	Atoms     []*Atom  `json:"-"`         // ATOM records of the first model
	HetAtoms  []*Atom  `json:"-"`         // HETATM records of the first model
	HetGroups []string `json:"hetGroups"` // HET groups in the structure

	Chains      map[string]map[int64]*Residue `json:"chains"`      // chain ID and position to residue
	ChainOrder  []string                      `json:"chainOrder"`  // chain IDs in order of first appearance
	TotalLength int64                         `json:"totalLength"` // total length as sum of residues of all chains

	RawPDB    []byte `json:"-"` // PDB file raw data
	LocalPath string `json:"-"` // local path for the PDB file
}

// NewPDBFromID constructs a new instance from a PDB ID, fetching and parsing the data.
func NewPDBFromID(pdbID string) (*PDB, error) {
	pdb := &PDB{ID: strings.ToLower(pdbID)}

	err := pdb.Load()
	return pdb, err
}

// NewPDBFromFile constructs a new instance from a local PDB file.
func NewPDBFromFile(path string) (*PDB, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read PDB file: %v", err)
	}

	pdb, err := NewPDBFromRaw(raw)
	if err != nil {
		return nil, err
	}
	pdb.LocalPath = path
	return pdb, nil
}

// NewPDBFromRaw constructs a new instance from raw bytes.
func NewPDBFromRaw(raw []byte) (*PDB, error) {
	pdb := PDB{RawPDB: raw}

	err := pdb.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse: %v", err)
	}

	return &pdb, nil
}

// Load fetches and parses the necessary data.
func (pdb *PDB) Load() error {
	err := pdb.Fetch()
	if err != nil {
		return fmt.Errorf("fetch data: %v", err)
	}

	err = pdb.Parse()
	if err != nil {
		return fmt.Errorf("parse: %v", err)
	}

	return nil
}

// Fetch downloads the PDB file from RCSB.
func (pdb *PDB) Fetch() error {
	url := "https://www.rcsb.org/structure/" + pdb.ID
	urlPDB := "https://files.rcsb.org/download/" + pdb.ID + ".pdb"
	rawPDB, err := http.Get(urlPDB)
	if err != nil {
		return fmt.Errorf("download PDB file: %v", err)
	}

	pdb.URL = url
	pdb.PDBURL = urlPDB
	pdb.RawPDB = rawPDB

	return nil
}

// Parse parses the raw PDB text.
func (pdb *PDB) Parse() error {
	err := pdb.ExtractResidues()
	if err != nil {
		return fmt.Errorf("extract PDB residues: %v", err)
	}

	return nil
}

// WriteFile writes the raw PDB contents to a file.
func (pdb *PDB) WriteFile(path string) error {
	err := os.WriteFile(path, pdb.RawPDB, 0644)
	if err != nil {
		return fmt.Errorf("write PDB file: %v", err)
	}

	pdb.LocalPath = path
	return nil
}
