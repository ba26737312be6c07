package ndimage

// LabelImage is a dense, rectangular raster of LabelType values: the
// output of the connected-component labeler. 0 means background.
type LabelImage struct {
	shape     Shape
	data      []LabelType
	pixelSize PixelSize
	forged    bool
}

// ForgeLabel allocates a new all-zero label image of the given shape.
func ForgeLabel(sizes []int) *LabelImage {
	shape := NewShape(sizes)
	return &LabelImage{
		shape:  shape,
		data:   make([]LabelType, shape.NumPixels()),
		forged: true,
	}
}

// Reforge reallocates the image to a new shape, discarding prior contents
// and preserving the caller-supplied pixel size. It is the label-image
// analogue of the "reforge" operation the enclosing library's image
// container exposes to its elementwise kernels.
func (l *LabelImage) Reforge(sizes []int, pixelSize PixelSize) {
	l.shape = NewShape(sizes)
	l.data = make([]LabelType, l.shape.NumPixels())
	l.pixelSize = pixelSize
	l.forged = true
}

// Forged reports whether the image has a backing buffer.
func (l *LabelImage) Forged() bool { return l != nil && l.forged }

// Shape returns the image's rank/sizes/strides.
func (l *LabelImage) Shape() Shape { return l.shape }

// PixelSize returns the physical pixel size metadata.
func (l *LabelImage) PixelSize() PixelSize { return l.pixelSize }

// Data returns the raw backing buffer. Index with Shape().Offset(coord).
func (l *LabelImage) Data() []LabelType { return l.data }

// At returns the label at the flat offset.
func (l *LabelImage) At(offset int) LabelType { return l.data[offset] }

// Set writes a label at the flat offset.
func (l *LabelImage) Set(offset int, v LabelType) { l.data[offset] = v }

// Fill sets every pixel to v.
func (l *LabelImage) Fill(v LabelType) {
	for i := range l.data {
		l.data[i] = v
	}
}

// FillFromBinary copies src into l, mapping foreground to fg and
// background to 0. l must already be forged to src's shape.
func (l *LabelImage) FillFromBinary(src *BinaryImage, fg LabelType) {
	for i, v := range src.Data() {
		if v != 0 {
			l.data[i] = fg
		} else {
			l.data[i] = 0
		}
	}
}

// AliasCopy returns a LabelImage sharing the same backing buffer.
// Mutating one mutates the other; used where the enclosing library would
// hand out a cheap alias rather than duplicate storage.
func (l *LabelImage) AliasCopy() *LabelImage {
	alias := *l
	return &alias
}

// DeepCopy returns a LabelImage with an independent backing buffer.
func (l *LabelImage) DeepCopy() *LabelImage {
	cp := &LabelImage{shape: l.shape, pixelSize: l.pixelSize, forged: l.forged}
	cp.data = make([]LabelType, len(l.data))
	copy(cp.data, l.data)
	return cp
}

// AxisIterator walks every line of pixels along axis, invoking fn with the
// flat offset of the line's first pixel and the element stride to advance
// along axis. This mirrors the per-pixel iterator along a chosen axis that
// the enclosing library's image container exposes.
func (l *LabelImage) AxisIterator(axis int, fn func(lineStart, stride, length int)) {
	sizes := l.shape.Sizes()
	strides := l.shape.Strides()
	n := l.shape.Rank()

	lineLen := sizes[axis]
	lineStride := strides[axis]

	coord := make([]int, n)
	for {
		coord[axis] = 0
		fn(l.shape.Offset(coord), lineStride, lineLen)

		axisToAdvance := n - 1
		for axisToAdvance == axis {
			axisToAdvance--
		}
		if axisToAdvance < 0 {
			return
		}
		for {
			coord[axisToAdvance]++
			if coord[axisToAdvance] < sizes[axisToAdvance] {
				break
			}
			coord[axisToAdvance] = 0
			axisToAdvance--
			for axisToAdvance == axis {
				axisToAdvance--
			}
			if axisToAdvance < 0 {
				return
			}
		}
	}
}
