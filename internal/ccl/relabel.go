package ccl

import "github.com/pspoerri/ndlabel/internal/ndimage"

// SizeFilter keeps only regions whose pixel count satisfies min <= n (and
// n <= max when max > 0). A zero-value SizeFilter keeps everything.
type SizeFilter struct {
	Min int
	Max int // 0 means unbounded
}

func (f SizeFilter) keep(n uint64) bool {
	if n < uint64(f.Min) {
		return false
	}
	if f.Max > 0 && n > uint64(f.Max) {
		return false
	}
	return true
}

// relabelAndRewrite assigns dense final ids to the surviving regions and
// rewrites every pixel of out in place. Regions failing the filter are
// rewritten to 0 along with true background. Returns the number of regions
// in the final labeling.
func relabelAndRewrite(out *ndimage.LabelImage, regions *RegionTable, filter SizeFilter) int {
	translation, kept := regions.Relabel(filter.keep)

	data := out.Data()
	for i, l := range data {
		if l == 0 {
			continue
		}
		data[i] = Translate(translation, l)
	}

	return kept
}
