package ccl

import "github.com/pspoerri/ndlabel/internal/ndimage"

// firstPass2D8 is the specialized first pass for rank 2, connectivity 2
// (8-connectivity): a block-based scan inspired by Grana, Montiel &
// Baraldi (2016) "Optimized Block-Based Connected Components Labeling".
// Rather than the full bitmask-driven decision table from that paper, it
// processes 2x2 pixel blocks with four-neighbor block look-behind (west,
// north, north-west, north-east): every pair of foreground pixels within
// one block is mutually 8-adjacent regardless of position, so a block
// never needs more than one provisional label, and only the four
// already-processed neighbor blocks can introduce a merge. This trades the
// paper's exhaustive case analysis for a smaller, easier-to-verify branch
// count while producing identical output semantics to firstPassND. It does
// not reserve label 1: the output starts at 0 and the first real region
// receives dense id 1 directly.
func firstPass2D8(bin *ndimage.BinaryImage, out *ndimage.LabelImage, regions *RegionTable) error {
	sizes := bin.Shape().Sizes()
	rows, cols := sizes[0], sizes[1]
	strides := bin.Shape().Strides()
	rowStride, colStride := strides[0], strides[1]

	idx := func(r, c int) int { return r*rowStride + c*colStride }

	for r := 0; r < rows; r += 2 {
		hasNextRow := r+1 < rows
		for c := 0; c < cols; c += 2 {
			hasNextCol := c+1 < cols

			pOff := idx(r, c)
			hasP := bin.At(pOff)

			var qOff int
			hasQ := false
			if hasNextCol {
				qOff = idx(r, c+1)
				hasQ = bin.At(qOff)
			}

			var rOff int
			hasR := false
			if hasNextRow {
				rOff = idx(r+1, c)
				hasR = bin.At(rOff)
			}

			var sOff int
			hasS := false
			if hasNextRow && hasNextCol {
				sOff = idx(r+1, c+1)
				hasS = bin.At(sOff)
			}

			count := 0
			if hasP {
				count++
			}
			if hasQ {
				count++
			}
			if hasR {
				count++
			}
			if hasS {
				count++
			}
			if count == 0 {
				continue
			}

			blockLabel, err := regions.Create(uint64(count))
			if err != nil {
				return err
			}
			if hasP {
				out.Set(pOff, blockLabel)
			}
			if hasQ {
				out.Set(qOff, blockLabel)
			}
			if hasR {
				out.Set(rOff, blockLabel)
			}
			if hasS {
				out.Set(sOff, blockLabel)
			}

			// West block: its right column (Q,S at column c-1) borders
			// this block's left column (P,R at column c).
			if c >= 2 && (hasP || hasR) {
				blockLabel = unionIfForeground(bin, out, regions, blockLabel, r, c-1)
				blockLabel = unionIfForeground(bin, out, regions, blockLabel, r+1, c-1)
			}

			// North block: its bottom row (R,S at row r-1) borders this
			// block's top row (P,Q at row r).
			if r >= 2 && (hasP || hasQ) {
				blockLabel = unionIfForeground(bin, out, regions, blockLabel, r-1, c)
				blockLabel = unionIfForeground(bin, out, regions, blockLabel, r-1, c+1)
			}

			// North-west block: only its bottom-right pixel (r-1,c-1)
			// diagonally touches this block's top-left pixel P.
			if r >= 2 && c >= 2 && hasP {
				blockLabel = unionIfForeground(bin, out, regions, blockLabel, r-1, c-1)
			}

			// North-east block: only its bottom-left pixel (r-1,c+2)
			// diagonally touches this block's top-right pixel Q.
			if r >= 2 && hasQ && c+2 < cols {
				blockLabel = unionIfForeground(bin, out, regions, blockLabel, r-1, c+2)
			}
		}
	}

	return nil
}

// unionIfForeground reads the neighbor pixel at (row,col), and if it is
// in range and foreground, unions its already-assigned label into current
// and returns the (possibly new) survivor.
func unionIfForeground(bin *ndimage.BinaryImage, out *ndimage.LabelImage, regions *RegionTable, current ndimage.LabelType, row, col int) ndimage.LabelType {
	if row < 0 || col < 0 {
		return current
	}
	sizes := bin.Shape().Sizes()
	if row >= sizes[0] || col >= sizes[1] {
		return current
	}
	strides := bin.Shape().Strides()
	offset := row*strides[0] + col*strides[1]
	if !bin.At(offset) {
		return current
	}
	nbLabel := out.At(offset)
	if nbLabel == 0 {
		return current
	}
	return regions.Union(current, nbLabel)
}
