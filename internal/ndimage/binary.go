package ndimage

// BinaryImage is a dense, rectangular foreground/background raster: any
// nonzero byte is foreground. It is "forged" (allocated) on construction;
// the zero value is deliberately not forged so the core can detect
// image_not_forged inputs.
type BinaryImage struct {
	shape     Shape
	data      []byte
	pixelSize PixelSize
	forged    bool
}

// ForgeBinary allocates a new all-background binary image of the given
// shape.
func ForgeBinary(sizes []int) *BinaryImage {
	shape := NewShape(sizes)
	return &BinaryImage{
		shape:  shape,
		data:   make([]byte, shape.NumPixels()),
		forged: true,
	}
}

// Forged reports whether the image has a backing buffer.
func (b *BinaryImage) Forged() bool { return b != nil && b.forged }

// Shape returns the image's rank/sizes/strides.
func (b *BinaryImage) Shape() Shape { return b.shape }

// PixelSize returns the physical pixel size metadata.
func (b *BinaryImage) PixelSize() PixelSize { return b.pixelSize }

// SetPixelSize attaches pixel size metadata, e.g. from a raster's
// georeferencing or a DICOM slice's PixelSpacing.
func (b *BinaryImage) SetPixelSize(p PixelSize) { b.pixelSize = p }

// Data returns the raw backing buffer: 0 is background, nonzero is
// foreground. Index with Shape().Offset(coord).
func (b *BinaryImage) Data() []byte { return b.data }

// At reports whether the pixel at the flat offset is foreground.
func (b *BinaryImage) At(offset int) bool { return b.data[offset] != 0 }

// Set writes a foreground/background value at the flat offset.
func (b *BinaryImage) Set(offset int, foreground bool) {
	if foreground {
		b.data[offset] = 1
	} else {
		b.data[offset] = 0
	}
}

var wideScan = hasAVX2()

// CountForeground returns the number of nonzero pixels. On AVX2-capable
// hardware it walks the buffer eight bytes at a time, which the compiler
// can autovectorize; elsewhere it falls back to a plain byte scan.
func (b *BinaryImage) CountForeground() int {
	if wideScan {
		return countForegroundWide(b.data)
	}
	return countForegroundScalar(b.data)
}

func countForegroundScalar(data []byte) int {
	n := 0
	for _, v := range data {
		if v != 0 {
			n++
		}
	}
	return n
}

func countForegroundWide(data []byte) int {
	n := 0
	i := 0
	for ; i+8 <= len(data); i += 8 {
		chunk := data[i : i+8 : i+8]
		for _, v := range chunk {
			if v != 0 {
				n++
			}
		}
	}
	for ; i < len(data); i++ {
		if data[i] != 0 {
			n++
		}
	}
	return n
}
