// Command molsurf computes the molecular surface of PDB structures with MSMS,
// colors it with AOEmbree ambient occlusion, and writes it to OBJ/STL files
// or streams it to websocket viewers.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/tikz/molsurf/aoembree"
	"github.com/tikz/molsurf/config"
	"github.com/tikz/molsurf/logging"
	"github.com/tikz/molsurf/msms"
	"github.com/tikz/molsurf/pipeline"
	"github.com/tikz/molsurf/viewer"
)

func main() {
	cfg, err := config.FromEnv(config.Default())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var (
		dataDir  = flag.String("data", "data", "Cache directory for fetched PDB files")
		outDir   = flag.String("out", "surfaces", "Output directory for mesh files")
		writeOBJ = flag.Bool("obj", true, "Write <complex>.obj")
		writeSTL = flag.Bool("stl", false, "Write <complex>.stl")
		serve    = flag.String("serve", "", "Serve meshes to websocket viewers on this address (e.g. :8080)")
		hetero   = flag.Bool("het", false, "Include HETATM records other than water")
		chains   = flag.String("select-chains", "", "Select chains, comma separated (e.g. A,B)")
		residues = flag.String("select-residues", "", "Select residue ranges (e.g. A:10-50,B:3)")
		near     = flag.String("select-near", "", "Select atoms near a HET group (e.g. HEM:5.0)")
		msmsPath = flag.String("msms", "", "Path to the msms binary, overriding the bundled one")
		aoPath   = flag.String("aoembree", "", "Path to the AOEmbree binary, overriding the bundled one")
		verbose  = flag.Bool("v", false, "Debug logging")
	)
	flag.Float64Var(&cfg.ProbeRadius, "probe", cfg.ProbeRadius, "Probe radius")
	flag.Float64Var(&cfg.Density, "density", cfg.Density, "Triangulation density")
	flag.Float64Var(&cfg.HighDensity, "hdensity", cfg.HighDensity, "High triangulation density")
	flag.BoolVar(&cfg.ByChain, "per-chain", cfg.ByChain, "Compute one surface per chain")
	flag.BoolVar(&cfg.SelectedOnly, "selected-only", cfg.SelectedOnly, "Only selected atoms contribute to the surface")
	flag.BoolVar(&cfg.AO, "ao", cfg.AO, "Color the surface with ambient occlusion")
	flag.IntVar(&cfg.AOSteps, "ao-steps", cfg.AOSteps, "Ambient occlusion rays per vertex")
	flag.Float64Var(&cfg.AOMaxDistance, "ao-dist", cfg.AOMaxDistance, "Ambient occlusion maximum ray distance")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent surface computations")
	flag.StringVar(&cfg.BinDir, "bin", cfg.BinDir, "Directory of the bundled executables")
	flag.BoolVar(&cfg.KeepTemp, "keep-temp", cfg.KeepTemp, "Keep intermediate files")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <pdb file or ID>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logging.New("molsurf", os.Stderr, *verbose)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	locator := config.NewLocator(cfg.BinDir)
	if *msmsPath != "" {
		locator.Overrides[config.MSMS] = *msmsPath
	}
	if *aoPath != "" {
		locator.Overrides[config.AOEmbree] = *aoPath
	}

	msmsExe, err := locator.Lookup(config.MSMS)
	if err != nil {
		log.Fatalf("%v", err)
	}
	surface, err := msms.NewMSMS(msmsExe.Path, "")
	if err != nil {
		log.Fatalf("%v", err)
	}
	surface.KeepTemp = cfg.KeepTemp
	surface.Log = log

	p := pipeline.New(cfg, surface)
	p.Log = log

	if cfg.AO {
		aoExe, err := locator.Lookup(config.AOEmbree)
		if err != nil {
			log.Warnf("ambient occlusion disabled: %v", err)
		} else if ao, err := aoembree.NewAOEmbree(aoExe.Path, aoExe.LibraryPathVar, ""); err != nil {
			log.Warnf("ambient occlusion disabled: %v", err)
		} else {
			ao.KeepTemp = cfg.KeepTemp
			ao.Log = log
			p.AO = ao
		}
	}

	sinks := pipeline.Sinks{}
	notifiers := pipeline.Notifiers{pipeline.WriterNotifier{W: os.Stderr}}
	if *writeOBJ || *writeSTL {
		sinks = append(sinks, &pipeline.FileSink{Dir: *outDir, OBJ: *writeOBJ, STL: *writeSTL})
	}

	serverErr := make(chan error, 1)
	if *serve != "" {
		hub := viewer.NewHub()
		hub.Log = log
		sinks = append(sinks, hub)
		notifiers = append(notifiers, hub)

		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		go func() {
			log.Infof("viewer websocket on %s/ws", *serve)
			serverErr <- http.ListenAndServe(*serve, mux)
		}()
	}
	p.Sink = sinks
	p.Notifier = notifiers

	var complexes []pipeline.Complex
	for _, arg := range flag.Args() {
		s, err := loadPDB(*dataDir, arg)
		if err != nil {
			log.Errorf("%s: %v", arg, err)
			continue
		}
		n, err := applySelection(s, *chains, *residues, *near)
		if err != nil {
			log.Fatalf("selection: %v", err)
		}
		log.Debugf("%s: %d residue(s), %d atom(s) selected", s.ID, s.TotalLength, n)
		for _, c := range s.ChainOrder {
			log.Debugf("%s: chain %s: %s", s.ID, c, s.Sequence(c))
		}
		complexes = append(complexes, pipeline.Complex{ID: s.ID, Molecule: s.Molecule(*hetero)})
	}

	failed := 0
	for _, res := range p.RunAll(context.Background(), complexes) {
		if res.Err != nil {
			failed++
			log.Errorf("%s: %v", res.ComplexID, res.Err)
		}
	}

	if *serve != "" {
		log.Fatalf("viewer: %v", <-serverErr)
	}
	if failed > 0 || len(complexes) < flag.NArg() {
		os.Exit(1)
	}
}
