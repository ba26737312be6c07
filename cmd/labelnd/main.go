// Command labelnd labels the connected components of a single-band binary
// raster (TIFF) or a multi-frame DICOM volume. Rank-2 results are written as
// a 32-bit label TIFF; higher-rank results as a raw buffer plus a JSON shape
// sidecar.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/pspoerri/ndlabel/internal/ccl"
	"github.com/pspoerri/ndlabel/internal/ndimage"
	"github.com/pspoerri/ndlabel/internal/rasterio"
	"github.com/pspoerri/ndlabel/internal/volsource"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	var (
		connectivity int
		boundaryStr  string
		minSize      int
		maxSize      int
		showVersion  bool
		verbose      bool
		cpuProfile   string
		inputFormat  string
	)

	flag.StringVar(&inputFormat, "format", "tiff", "Input source format: tiff (single 2-D raster), dicom (3-D volume from a multi-frame series)")
	flag.IntVar(&connectivity, "connectivity", 1, "Neighborhood connectivity k (1 = face neighbors only, up to rank)")
	flag.StringVar(&boundaryStr, "boundary", "add_zeros", "Boundary condition for every axis: add_zeros, periodic, mirror")
	flag.IntVar(&minSize, "min-size", 0, "Drop regions smaller than this many pixels")
	flag.IntVar(&maxSize, "max-size", 0, "Drop regions larger than this many pixels (0 = unbounded)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose progress output")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: labelnd [flags] <input> <output>\n\n")
		fmt.Fprintf(os.Stderr, "Label the connected components of a single-band binary raster or volume.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("labelnd %s (commit %s, built %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(2)
	}
	inputPath, outputPath := args[0], args[1]

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatalf("creating cpu profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("starting cpu profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	boundaryCondition, err := ccl.ParseBoundaryCondition(boundaryStr)
	if err != nil {
		log.Fatalf("invalid -boundary: %v", err)
	}

	start := time.Now()
	if verbose {
		log.Printf("reading %s", inputPath)
	}

	var bin *ndimage.BinaryImage
	switch inputFormat {
	case "tiff":
		bin, err = rasterio.ReadBinary(inputPath, rasterio.NonZero)
	case "dicom":
		bin, err = volsource.ReadVolume(inputPath, volsource.AboveZero)
	default:
		log.Fatalf("unknown -format %q", inputFormat)
	}
	if err != nil {
		log.Fatalf("reading input: %v", err)
	}
	if verbose {
		log.Printf("read %v pixels, %d foreground, in %v", bin.Shape(), bin.CountForeground(), time.Since(start))
	}

	rank := bin.Shape().Rank()
	boundary := make([]ccl.BoundaryCondition, rank)
	for i := range boundary {
		boundary[i] = boundaryCondition
	}

	out := ndimage.ForgeLabel(bin.Shape().Sizes())

	labelStart := time.Now()
	res, err := ccl.Label(bin, out, ccl.Options{
		Connectivity: connectivity,
		Boundary:     boundary,
		Filter:       ccl.SizeFilter{Min: minSize, Max: maxSize},
	})
	if err != nil {
		log.Fatalf("labeling: %v", err)
	}
	if verbose {
		log.Printf("found %d regions in %v", res.NumLabels, time.Since(labelStart))
	}

	if rank == 2 {
		err = rasterio.WriteLabels(outputPath, out, rasterio.GeoInfo{})
	} else {
		err = volsource.WriteVolume(outputPath, out)
	}
	if err != nil {
		log.Fatalf("writing output: %v", err)
	}
	if verbose {
		log.Printf("wrote %s in %v total", outputPath, time.Since(start))
	}
}
