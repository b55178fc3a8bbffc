package pdb

import "strings"

// DefaultVdWRadius is used for elements missing from vdwRadii.
const DefaultVdWRadius = 1.8

// vdwRadii holds Van der Waals radii in angstroms, Bondi (1964) where
// available and Alvarez (2013) for the remaining metals.
var vdwRadii = map[string]float64{
	"H":  1.20,
	"C":  1.70,
	"N":  1.55,
	"O":  1.52,
	"F":  1.47,
	"P":  1.80,
	"S":  1.80,
	"CL": 1.75,
	"BR": 1.85,
	"I":  1.98,
	"SE": 1.90,
	"NA": 2.27,
	"K":  2.75,
	"MG": 1.73,
	"CA": 2.31,
	"MN": 2.45,
	"FE": 2.44,
	"CO": 2.40,
	"NI": 1.63,
	"CU": 1.40,
	"ZN": 1.39,
}

// VdWRadius returns the Van der Waals radius of the element.
func VdWRadius(element string) float64 {
	if r, ok := vdwRadii[strings.ToUpper(element)]; ok {
		return r
	}
	return DefaultVdWRadius
}

// VdWRadius returns the Van der Waals radius of the atom's element.
func (a *Atom) VdWRadius() float64 {
	return VdWRadius(a.Element)
}
