package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tikz/molsurf/pdb"
)

// applySelection selects atoms of p from the command line selection
// expressions. With no expression every atom is selected.
func applySelection(p *pdb.PDB, chains, residues, near string) (int, error) {
	if chains == "" && residues == "" && near == "" {
		return p.SelectAll(), nil
	}

	n := 0
	if chains != "" {
		n += p.SelectChains(strings.Split(chains, ",")...)
	}

	// A:10-50,B:3-7
	if residues != "" {
		for _, expr := range strings.Split(residues, ",") {
			chain, span, ok := strings.Cut(expr, ":")
			if !ok {
				return n, errors.Errorf("residue range %q: expected chain:from-to", expr)
			}
			fromStr, toStr, ok := strings.Cut(span, "-")
			if !ok {
				toStr = fromStr
			}
			from, err := strconv.ParseInt(fromStr, 10, 64)
			if err != nil {
				return n, errors.Wrapf(err, "residue range %q", expr)
			}
			to, err := strconv.ParseInt(toStr, 10, 64)
			if err != nil {
				return n, errors.Wrapf(err, "residue range %q", expr)
			}
			n += p.SelectResidues(chain, from, to)
		}
	}

	// HEM:5.0
	if near != "" {
		het, distStr, ok := strings.Cut(near, ":")
		if !ok {
			return n, errors.Errorf("near %q: expected HET:distance", near)
		}
		dist, err := strconv.ParseFloat(distStr, 64)
		if err != nil {
			return n, errors.Wrapf(err, "near %q", near)
		}
		n += p.SelectNear(het, dist)
	}

	return n, nil
}
