package pdb

import (
	"bytes"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func LoadTestFile(path string) ([]byte, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return data, nil
}

func loadTest(t *testing.T) *PDB {
	t.Helper()
	raw, err := LoadTestFile("./testdata/1tst.pdb")
	if err != nil {
		t.Fatalf("cannot open file: %s", err)
	}

	pdb, err := NewPDBFromRaw(raw)
	if err != nil {
		t.Fatal(err)
	}
	return pdb
}

func TestAtoms(t *testing.T) {
	pdb := loadTest(t)

	// Second model is ignored.
	if len(pdb.Atoms) != 9 {
		t.Errorf("expected 9 atoms, got %d", len(pdb.Atoms))
	}
	if len(pdb.HetAtoms) != 2 {
		t.Errorf("expected 2 HET atoms, got %d", len(pdb.HetAtoms))
	}

	a := pdb.Atoms[1]
	if a.Name != "CA" || a.Residue != "ALA" || a.Chain != "A" || a.Element != "C" {
		t.Errorf("unexpected atom %+v", a)
	}
	if a.X != 1.458 {
		t.Errorf("expected x 1.458, got %f", a.X)
	}

	zn := pdb.HetAtoms[0]
	if zn.Element != "ZN" || !zn.Het {
		t.Errorf("expected ZN HET atom, got %+v", zn)
	}
	if !pdb.HetAtoms[1].IsWater() {
		t.Error("expected HOH to be water")
	}
}

func TestChains(t *testing.T) {
	pdb := loadTest(t)

	if pdb.TotalLength != 3 {
		t.Errorf("expected 3 residues, got %d", pdb.TotalLength)
	}
	if len(pdb.ChainOrder) != 2 || pdb.ChainOrder[0] != "A" || pdb.ChainOrder[1] != "B" {
		t.Errorf("expected chain order [A B], got %v", pdb.ChainOrder)
	}

	res := pdb.Chains["A"][2]
	expect := "Glycine"
	if res.Name != expect {
		t.Errorf("expected %s in A-2, got %s", expect, res.Name)
	}
	if len(res.Atoms) != 2 {
		t.Errorf("expected 2 atoms in A-2, got %d", len(res.Atoms))
	}

	expect = "Serine"
	res = pdb.Chains["B"][1]
	if res.Name != expect {
		t.Errorf("expected %s in B-1, got %s", expect, res.Name)
	}
}

func TestVdWRadius(t *testing.T) {
	if VdWRadius("o") != 1.52 {
		t.Errorf("expected 1.52 for O, got %f", VdWRadius("o"))
	}
	if VdWRadius("Xx") != DefaultVdWRadius {
		t.Errorf("expected default radius for unknown element")
	}
	if elementFromName(" CA ") != "C" {
		t.Errorf("expected C for alpha carbon, got %s", elementFromName(" CA "))
	}
	if elementFromName("ZN  ") != "ZN" {
		t.Errorf("expected ZN, got %s", elementFromName("ZN  "))
	}
}

func TestSelection(t *testing.T) {
	pdb := loadTest(t)

	if n := pdb.SelectChains("B"); n != 3 {
		t.Errorf("expected 3 atoms in chain B, got %d", n)
	}
	if n := pdb.SelectResidues("A", 2, 2); n != 2 {
		t.Errorf("expected 2 atoms in A-2, got %d", n)
	}

	pdb.ClearSelection()
	for _, a := range pdb.Atoms {
		if a.Selected {
			t.Fatal("expected selection to be cleared")
		}
	}

	// ZN sits at (1,1,0): N, CA, C, O of ALA 1 are within 2 angstroms, plus ZN itself.
	if n := pdb.SelectNear("ZN", 2.0); n != 5 {
		t.Errorf("expected 5 atoms near ZN, got %d", n)
	}
	if n := pdb.SelectNear("HEM", 5.0); n != 0 {
		t.Errorf("expected no atoms near a missing group, got %d", n)
	}
}

func TestMolecule(t *testing.T) {
	pdb := loadTest(t)
	pdb.SelectChains("A")

	m := pdb.Molecule(false)
	if len(m.Chains) != 2 {
		t.Fatalf("expected 2 chains, got %d", len(m.Chains))
	}
	if len(m.Chains[0].Atoms) != 6 || len(m.Chains[1].Atoms) != 3 {
		t.Errorf("unexpected chain sizes %d and %d", len(m.Chains[0].Atoms), len(m.Chains[1].Atoms))
	}
	if !m.Chains[0].Atoms[0].Selected || m.Chains[1].Atoms[0].Selected {
		t.Error("selection not carried to molecule atoms")
	}
	if m.Chains[0].Atoms[0].VdWRadius != 1.55 {
		t.Errorf("expected nitrogen radius 1.55, got %f", m.Chains[0].Atoms[0].VdWRadius)
	}

	// Hetero atoms join their chain, water stays out.
	m = pdb.Molecule(true)
	if len(m.Chains[0].Atoms) != 7 {
		t.Errorf("expected 7 atoms in chain A with hetero atoms, got %d", len(m.Chains[0].Atoms))
	}
	if m.AtomCount() != 10 {
		t.Errorf("expected 10 atoms, got %d", m.AtomCount())
	}
}

func TestDistance(t *testing.T) {
	pdb := loadTest(t)
	d := Distance(pdb.Atoms[0], pdb.Atoms[1])
	if math.Abs(d-1.458) > 1e-9 {
		t.Errorf("expected 1.458, got %f", d)
	}
}

func TestNoAtoms(t *testing.T) {
	if _, err := NewPDBFromRaw([]byte("HEADER    EMPTY\nEND\n")); err == nil {
		t.Error("expected error for a file without atoms")
	}
}

func TestSequence(t *testing.T) {
	pdb := loadTest(t)

	if seq := pdb.Sequence("A"); seq != "AG" {
		t.Errorf("expected AG for chain A, got %s", seq)
	}
	if seq := pdb.Sequence("B"); seq != "S" {
		t.Errorf("expected S for chain B, got %s", seq)
	}
	if seq := pdb.Sequence("Z"); seq != "" {
		t.Errorf("expected empty sequence for a missing chain, got %s", seq)
	}
}

func TestSelectResiduesHetero(t *testing.T) {
	pdb := loadTest(t)

	// ALA 1, GLY 2 and ZN 101; HOH 201 is out of range.
	if n := pdb.SelectResidues("A", 1, 101); n != 7 {
		t.Errorf("expected 7 atoms in A 1-101, got %d", n)
	}
	if pdb.HetAtoms[1].Selected {
		t.Error("expected water outside the range to stay unselected")
	}
	if n := pdb.SelectResidues("C", 1, 100); n != 0 {
		t.Errorf("expected no atoms in a missing chain, got %d", n)
	}
}

func TestWriteFile(t *testing.T) {
	pdb := loadTest(t)

	path := filepath.Join(t.TempDir(), "1tst.pdb")
	if err := pdb.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	if pdb.LocalPath != path {
		t.Errorf("expected local path %s, got %s", path, pdb.LocalPath)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw, pdb.RawPDB) {
		t.Error("written file differs from raw data")
	}
}
