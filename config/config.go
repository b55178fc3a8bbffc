// Package config holds the run parameters of a surface computation and
// resolves the external executables available on the current platform.
package config

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Config holds surface, ambient occlusion and pipeline parameters.
type Config struct {
	// MSMS parameters
	ProbeRadius float64 // probe sphere radius in angstroms
	Density     float64 // vertices per square angstrom
	HighDensity float64 // density used for high density surface regions

	ByChain      bool // compute one surface per chain instead of one for the whole molecule
	SelectedOnly bool // only selected atoms contribute to the surface

	// Ambient occlusion parameters
	AO            bool
	AOSteps       int     // rays sampled per vertex
	AOMaxDistance float64 // maximum ray distance

	Workers  int    // concurrent surface computations
	BinDir   string // root of the bundled executables
	KeepTemp bool   // keep intermediate files, for debugging
}

// Default returns the usual MSMS and AOEmbree parameters for protein surfaces.
func Default() Config {
	return Config{
		ProbeRadius:   1.4,
		Density:       10.0,
		HighDensity:   3.0,
		ByChain:       true,
		SelectedOnly:  true,
		AO:            true,
		AOSteps:       512,
		AOMaxDistance: 50.0,
		Workers:       1,
		BinDir:        "binaries",
	}
}

// FromEnv returns c overlaid with any MOLSURF_* environment variables that are set.
func FromEnv(c Config) (Config, error) {
	floats := map[string]*float64{
		"MOLSURF_PROBE_RADIUS":    &c.ProbeRadius,
		"MOLSURF_DENSITY":         &c.Density,
		"MOLSURF_HDENSITY":        &c.HighDensity,
		"MOLSURF_AO_MAX_DISTANCE": &c.AOMaxDistance,
	}
	for key, dst := range floats {
		if v, ok := os.LookupEnv(key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return c, errors.Wrapf(err, "parse %s", key)
			}
			*dst = f
		}
	}

	ints := map[string]*int{
		"MOLSURF_AO_STEPS": &c.AOSteps,
		"MOLSURF_WORKERS":  &c.Workers,
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(key); ok {
			i, err := strconv.Atoi(v)
			if err != nil {
				return c, errors.Wrapf(err, "parse %s", key)
			}
			*dst = i
		}
	}

	bools := map[string]*bool{
		"MOLSURF_BY_CHAIN":      &c.ByChain,
		"MOLSURF_SELECTED_ONLY": &c.SelectedOnly,
		"MOLSURF_AO":            &c.AO,
		"MOLSURF_KEEP_TEMP":     &c.KeepTemp,
	}
	for key, dst := range bools {
		if v, ok := os.LookupEnv(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return c, errors.Wrapf(err, "parse %s", key)
			}
			*dst = b
		}
	}

	if v, ok := os.LookupEnv("MOLSURF_BIN_DIR"); ok {
		c.BinDir = v
	}

	return c, nil
}

// Validate rejects parameters the external executables cannot work with.
func (c Config) Validate() error {
	switch {
	case c.ProbeRadius <= 0:
		return errors.Errorf("probe radius must be positive, got %g", c.ProbeRadius)
	case c.Density <= 0:
		return errors.Errorf("density must be positive, got %g", c.Density)
	case c.HighDensity <= 0:
		return errors.Errorf("high density must be positive, got %g", c.HighDensity)
	case c.Workers < 1:
		return errors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.AO {
		if c.AOSteps <= 0 {
			return errors.Errorf("AO steps must be positive, got %d", c.AOSteps)
		}
		if c.AOMaxDistance <= 0 {
			return errors.Errorf("AO max distance must be positive, got %g", c.AOMaxDistance)
		}
	}
	return nil
}
