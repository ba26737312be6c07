// Package ccl implements the N-dimensional connected-component labeling
// core: neighbor geometry, the disjoint-set region table, the general and
// specialized first passes, periodic boundary unification and the final
// relabel/size-filter rewrite.
package ccl

import "github.com/pspoerri/ndlabel/internal/ndimage"

// Options configures a single Label call.
type Options struct {
	// Connectivity is k in the city-block neighborhood 1 <= ||d||_0 <= k.
	// Must satisfy 1 <= Connectivity <= rank.
	Connectivity int
	// Boundary gives the per-axis boundary condition. A nil or short slice
	// defaults the remaining axes to AddZeros.
	Boundary []BoundaryCondition
	// Filter restricts the output to regions whose pixel count matches.
	// The zero value keeps every region.
	Filter SizeFilter
}

// Result summarizes a completed labeling.
type Result struct {
	// NumLabels is the number of regions present in the final output,
	// i.e. the maximum label value (labels are dense, 1..NumLabels).
	NumLabels int
}

// Label connects foreground pixels of bin into regions under the
// configured connectivity, unifies labels across periodic boundaries, and
// writes the dense final labeling into out. out is reforged to bin's shape
// and pixel size; any prior contents are discarded. All preconditions are
// validated synchronously: on error, out is left in whatever partial state
// Reforge produced, but carries no meaningful labels.
func Label(bin *ndimage.BinaryImage, out *ndimage.LabelImage, opts Options) (Result, error) {
	if !bin.Forged() {
		return Result{}, newError(KindImageNotForged, "input binary image has no backing buffer")
	}

	shape := bin.Shape()
	sizes := shape.Sizes()
	rank := shape.Rank()

	for axis, size := range sizes {
		if size <= 0 {
			return Result{}, newError(KindImageTooSmall, "axis %d has extent %d", axis, size)
		}
	}

	if opts.Connectivity < 1 || opts.Connectivity > rank {
		return Result{}, newError(KindParameterOutOfRange, "connectivity %d out of range [1,%d]", opts.Connectivity, rank)
	}

	boundary := make([]BoundaryCondition, rank)
	copy(boundary, opts.Boundary)
	for _, bc := range opts.Boundary {
		if bc == Periodic && opts.Connectivity > 1 {
			return Result{}, newError(KindParameterOutOfRange, "periodic boundary conditions require connectivity 1")
		}
	}

	out.Reforge(sizes, bin.PixelSize())
	regions := NewRegionTable()

	var err error
	if rank == 2 && opts.Connectivity == 2 {
		err = firstPass2D8(bin, out, regions)
	} else {
		err = firstPassND(bin, out, regions, opts.Connectivity)
	}
	if err != nil {
		return Result{}, err
	}

	applyBoundaryConditions(out, regions, boundary)

	kept := relabelAndRewrite(out, regions, opts.Filter)
	return Result{NumLabels: kept}, nil
}
