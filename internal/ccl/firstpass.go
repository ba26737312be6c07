package ccl

import "github.com/pspoerri/ndlabel/internal/ndimage"

// reservedLabel is the provisional value every foreground pixel starts
// with before the general N-D first pass visits it. It is retired via
// union(0, reservedLabel) once the scan completes so it never survives
// relabeling, keeping 0 unambiguous as "background" throughout the scan.
const reservedLabel = ndimage.LabelType(1)

// optimalAxis picks the axis with the largest extent, breaking ties by
// preferring the lowest axis index, to minimize per-line setup overhead
// and maximize the length of runs handled by the interior branch.
func optimalAxis(sizes []int) int {
	best := 0
	for i := 1; i < len(sizes); i++ {
		if sizes[i] > sizes[best] {
			best = i
		}
	}
	return best
}

// backwardSplit partitions the backward neighbor set into line/same/forward
// displacements relative to the processing axis.
type backwardSplit struct {
	linePresent    bool
	lineOffset     int
	sameOffsets    []int
	sameDisps      []Displacement
	forwardOffsets []int
	forwardDisps   []Displacement
	allOffsets     []int
	allDisps       []Displacement
}

func splitBackward(full, backward []Displacement, axis int, strides []int) backwardSplit {
	var s backwardSplit
	s.allOffsets = computeOffsets(backward, strides)
	s.allDisps = backward

	for i, d := range backward {
		if isPrevious(d, axis) {
			s.linePresent = true
			s.lineOffset = s.allOffsets[i]
			continue
		}
		shifted := shiftedAlong(d, axis)
		if containsDisplacement(full, shifted) {
			s.sameDisps = append(s.sameDisps, d)
		} else {
			s.forwardDisps = append(s.forwardDisps, d)
		}
	}
	s.sameOffsets = computeOffsets(s.sameDisps, strides)
	s.forwardOffsets = computeOffsets(s.forwardDisps, strides)
	return s
}

// firstPassND runs the general N-dimensional raster-scan first pass. The
// per-pixel branch below already covers a processing axis of length 1 or
// 2 correctly: the interior branch's condition simply never holds, so the
// first/last-pixel branch handles every pixel.
func firstPassND(bin *ndimage.BinaryImage, out *ndimage.LabelImage, regions *RegionTable, connectivity int) error {
	shape := bin.Shape()
	sizes := shape.Sizes()
	strides := shape.Strides()
	n := shape.Rank()

	axis := optimalAxis(sizes)
	full := neighbors(n, connectivity)
	backward := selectBackward(full, axis)
	split := splitBackward(full, backward, axis, strides)

	out.FillFromBinary(bin, reservedLabel)
	if _, err := regions.Create(0); err != nil { // reservedLabel == 1
		return err
	}

	lineLen := sizes[axis]
	coord := make([]int, n)

	// visitLine processes one scan line along axis, starting at flat
	// offset lineStart.
	visitLine := func(lineStart int) error {
		lastLabel := ndimage.LabelType(0)

		for i := 0; i < lineLen; i++ {
			coord[axis] = i
			offset := lineStart + i*strides[axis]

			if !bin.At(offset) {
				lastLabel = 0
				out.Set(offset, 0)
				continue
			}

			switch {
			case i > 0 && i < lineLen-1 && lastLabel != 0:
				// Interior pixel, predecessor foreground: only
				// forward_neighbors can introduce a genuinely new label.
				for j, off := range split.forwardOffsets {
					if !inImage(split.forwardDisps[j], coord, sizes) {
						continue
					}
					nbLabel := out.At(offset + off)
					if nbLabel != 0 {
						lastLabel = regions.Union(lastLabel, nbLabel)
					}
				}
				*regions.Value(lastLabel)++
				out.Set(offset, lastLabel)

			default:
				// First pixel, last pixel, or interior pixel whose
				// predecessor was background: inspect every in-image
				// backward neighbor.
				found := ndimage.LabelType(0)
				for j, off := range split.allOffsets {
					if !inImage(split.allDisps[j], coord, sizes) {
						continue
					}
					nb := out.At(offset + off)
					if nb == 0 {
						continue
					}
					if found == 0 {
						found = regions.Find(nb)
					} else {
						found = regions.Union(found, nb)
					}
				}
				if found != 0 {
					*regions.Value(found)++
					lastLabel = found
				} else {
					l, err := regions.Create(1)
					if err != nil {
						return err
					}
					lastLabel = l
				}
				out.Set(offset, lastLabel)
			}
		}
		return nil
	}

	// Iterate every scan line: every coordinate combination on the
	// non-axis dimensions, axis itself swept by visitLine.
	lineCoord := make([]int, n)
	for {
		lineCoord[axis] = 0
		lineStart := shape.Offset(lineCoord)
		copy(coord, lineCoord)
		if err := visitLine(lineStart); err != nil {
			return err
		}

		if !advanceOdometer(lineCoord, sizes, axis) {
			break
		}
	}

	regions.Union(0, reservedLabel)
	return nil
}

// advanceOdometer increments coord across every axis except skip, carrying
// overflow into the next axis, and reports whether another combination
// remains.
func advanceOdometer(coord, sizes []int, skip int) bool {
	axis := len(coord) - 1
	for axis == skip {
		axis--
	}
	for axis >= 0 {
		coord[axis]++
		if coord[axis] < sizes[axis] {
			return true
		}
		coord[axis] = 0
		axis--
		for axis == skip {
			axis--
		}
	}
	return false
}
