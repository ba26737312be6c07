package ccl

import "github.com/pspoerri/ndlabel/internal/ndimage"

// BoundaryCondition selects the per-axis treatment of the image border.
// Only Periodic causes the boundary pass to act; the others are accepted
// as valid configuration but are no-ops here.
type BoundaryCondition int

const (
	AddZeros BoundaryCondition = iota
	Periodic
	Mirror
)

// ParseBoundaryCondition converts a configuration string to a
// BoundaryCondition, returning parameter_out_of_range on an unknown value.
func ParseBoundaryCondition(s string) (BoundaryCondition, error) {
	switch s {
	case "", "add_zeros", "zero":
		return AddZeros, nil
	case "periodic":
		return Periodic, nil
	case "mirror":
		return Mirror, nil
	default:
		return 0, newError(KindParameterOutOfRange, "unknown boundary condition %q", s)
	}
}

// applyBoundaryConditions unifies opposite-face labels for every periodic
// axis. Only connectivity-1 wrap-around is supported: corners are not
// wrapped diagonally even when k > 1.
func applyBoundaryConditions(out *ndimage.LabelImage, regions *RegionTable, bc []BoundaryCondition) {
	shape := out.Shape()
	sizes := shape.Sizes()
	n := shape.Rank()

	for axis := 0; axis < n; axis++ {
		if axis >= len(bc) || bc[axis] != Periodic {
			continue
		}

		faceSizes := make([]int, n)
		copy(faceSizes, sizes)
		faceSizes[axis] = 1
		faceShape := ndimage.NewShape(faceSizes)

		coord := make([]int, n)
		for i := 0; i < faceShape.NumPixels(); i++ {
			unflatten(i, faceSizes, coord)
			coord[axis] = 0
			lo := shape.Offset(coord)
			coord[axis] = sizes[axis] - 1
			hi := shape.Offset(coord)

			l0, l1 := out.At(lo), out.At(hi)
			if l0 != 0 && l1 != 0 {
				regions.Union(l0, l1)
			}
		}
	}
}

// unflatten writes into coord the multi-index corresponding to flat index i
// under row-major sizes.
func unflatten(i int, sizes []int, coord []int) {
	for axis := len(sizes) - 1; axis >= 0; axis-- {
		coord[axis] = i % sizes[axis]
		i /= sizes[axis]
	}
}
