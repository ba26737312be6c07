package ccl

import "github.com/pspoerri/ndlabel/internal/ndimage"

// MergeFunc combines the accumulator of a region being absorbed into the
// accumulator of the surviving representative. The default is integer
// addition (pixel count), but the structure generalizes to any commutative,
// associative per-region statistic.
type MergeFunc func(survivor, absorbed uint64) uint64

func sumMerge(survivor, absorbed uint64) uint64 { return survivor + absorbed }

// RegionTable is a disjoint-set forest over label identifiers. Index 0 is a
// sentinel background label with parent(0)=0; value(0) is never read. The
// forest invariant is parent(l) <= l, and parent(l) == l iff l is a
// representative.
type RegionTable struct {
	parent []ndimage.LabelType
	value  []uint64
	merge  MergeFunc
}

// NewRegionTable returns an empty table with the sentinel label 0 already
// present.
func NewRegionTable() *RegionTable {
	return &RegionTable{
		parent: []ndimage.LabelType{0},
		value:  []uint64{0},
		merge:  sumMerge,
	}
}

// SetMergeFunc overrides the accumulator merge policy. Must be called
// before any Create.
func (t *RegionTable) SetMergeFunc(fn MergeFunc) { t.merge = fn }

// Len returns the number of labels created so far, including the sentinel.
func (t *RegionTable) Len() int { return len(t.parent) }

// Create allocates a new root label with the given initial accumulator
// value and returns it. Labels are 1-based and assigned densely in
// creation order.
func (t *RegionTable) Create(v uint64) (ndimage.LabelType, error) {
	if len(t.parent) > int(ndimage.MaxLabel) {
		return 0, newError(KindLabelOverflow, "more than %d provisional labels", ndimage.MaxLabel)
	}
	l := ndimage.LabelType(len(t.parent))
	t.parent = append(t.parent, l)
	t.value = append(t.value, v)
	return l, nil
}

// Find returns the representative of l's equivalence class, applying full
// path compression.
func (t *RegionTable) Find(l ndimage.LabelType) ndimage.LabelType {
	root := l
	for t.parent[root] != root {
		root = t.parent[root]
	}
	for t.parent[l] != root {
		next := t.parent[l]
		t.parent[l] = root
		l = next
	}
	return root
}

// Union merges the equivalence classes of a and b and returns the
// surviving representative: the smaller-numbered of the two roots. The
// other root's parent becomes the survivor and its accumulator is folded
// in via the configured merge function. union(a,a) and union of labels
// already in the same class are no-ops that just return that root.
func (t *RegionTable) Union(a, b ndimage.LabelType) ndimage.LabelType {
	ra, rb := t.Find(a), t.Find(b)
	if ra == rb {
		return ra
	}
	survivor, absorbed := ra, rb
	if absorbed < survivor {
		survivor, absorbed = absorbed, survivor
	}
	t.parent[absorbed] = survivor
	t.value[survivor] = t.merge(t.value[survivor], t.value[absorbed])
	return survivor
}

// Value returns a mutable pointer to l's accumulator. l must already be a
// representative; callers that aren't sure should Find first.
func (t *RegionTable) Value(l ndimage.LabelType) *uint64 {
	return &t.value[l]
}

// Relabel enumerates representatives in ascending id order and assigns
// dense ids: representative r keeps a positive id 1,2,... if pred(value(r))
// holds, else it is assigned 0 (dropped). Every non-representative label
// inherits its representative's dense id via Find. Returns the translation
// table (indexed by the original 1-based label id) and the count of kept
// regions.
func (t *RegionTable) Relabel(pred func(uint64) bool) (translation []ndimage.LabelType, kept int) {
	translation = make([]ndimage.LabelType, len(t.parent))

	dense := ndimage.LabelType(0)
	for l := ndimage.LabelType(1); int(l) < len(t.parent); l++ {
		if t.parent[l] != l {
			continue // not a representative yet
		}
		if pred(t.value[l]) {
			dense++
			translation[l] = dense
		} else {
			translation[l] = 0
		}
	}

	for l := ndimage.LabelType(1); int(l) < len(t.parent); l++ {
		root := t.Find(l)
		translation[l] = translation[root]
	}

	return translation, int(dense)
}

// Translate maps an original label through a translation table built by
// Relabel, returning 0 for label 0.
func Translate(translation []ndimage.LabelType, l ndimage.LabelType) ndimage.LabelType {
	if l == 0 {
		return 0
	}
	return translation[l]
}
