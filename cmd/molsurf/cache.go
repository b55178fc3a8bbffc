package main

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tikz/molsurf/pdb"
)

const fileExt = ".data"

// loadPDB returns the structure for arg, read from disk if arg is a file,
// otherwise fetched from RCSB by ID and cached under dataDir.
func loadPDB(dataDir string, arg string) (*pdb.PDB, error) {
	if _, err := os.Stat(arg); err == nil {
		p, err := pdb.NewPDBFromFile(arg)
		if err != nil {
			return nil, err
		}
		p.ID = strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
		return p, nil
	}

	pdbDir := filepath.Join(dataDir, "pdb")
	if err := os.MkdirAll(pdbDir, os.ModePerm); err != nil {
		return nil, err
	}

	pdbID := strings.ToLower(arg)
	path := filepath.Join(pdbDir, pdbID+fileExt)
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		p, err := pdb.NewPDBFromID(pdbID)
		if err != nil {
			return nil, err
		}

		err = store(pdbDir, p)
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	return readPDB(path)
}

// store caches the parsed structure and keeps the raw entry next to it.
func store(pdbDir string, p *pdb.PDB) error {
	err := write(filepath.Join(pdbDir, p.ID+fileExt), p)
	if err != nil {
		return fmt.Errorf("write PDB: %v", err)
	}

	return p.WriteFile(filepath.Join(pdbDir, p.ID+".pdb"))
}

func readPDB(path string) (*pdb.PDB, error) {
	p := new(pdb.PDB)
	err := read(path, p)
	if err != nil {
		return nil, fmt.Errorf("load file: %v", err)
	}

	err = p.Parse()
	return p, err
}

func write(filePath string, object interface{}) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(object)
}

func read(filePath string, object interface{}) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewDecoder(file).Decode(object)
}
