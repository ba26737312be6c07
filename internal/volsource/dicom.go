// Package volsource loads true N-dimensional (3-D and beyond) volumes for
// labeling, as opposed to rasterio's single 2-D raster slices. DICOM series
// are its first source: a multi-frame study becomes one [Z,Y,X] binary
// volume.
package volsource

import (
	"fmt"

	"github.com/cocosip/go-dicom/pkg/dicom/parser"
	"github.com/cocosip/go-dicom/pkg/imaging"

	"github.com/pspoerri/ndlabel/internal/ndimage"
)

// Threshold decides whether a decoded sample value is foreground.
type Threshold func(sample int32) bool

// AboveZero treats any positive sample as foreground, the default for a
// binary segmentation mask stored as a DICOM series.
func AboveZero(sample int32) bool { return sample > 0 }

// ReadVolume parses a multi-frame DICOM file and stacks its frames into a
// [Z,Y,X] BinaryImage. PixelSize is set to 1 mm on every axis; the file's
// row/column spacing and slice spacing are not read.
func ReadVolume(path string, threshold Threshold) (*ndimage.BinaryImage, error) {
	res, err := parser.ParseFile(path, parser.WithReadOption(parser.ReadAll))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	pd, err := imaging.CreatePixelData(res.Dataset)
	if err != nil {
		return nil, fmt.Errorf("%s: no pixel data: %w", path, err)
	}

	info := pd.Info
	if info.SamplesPerPixel != 1 {
		return nil, fmt.Errorf("%s: expected a single-channel volume, got %d samples per pixel", path, info.SamplesPerPixel)
	}

	frames := pd.FrameCount()
	if frames == 0 {
		return nil, fmt.Errorf("%s: no frames present", path)
	}

	width, height := int(info.Width), int(info.Height)
	vol := ndimage.ForgeBinary([]int{frames, height, width})

	bytesPerSample := (int(info.BitsAllocated) + 7) / 8
	for z := 0; z < frames; z++ {
		frame, err := pd.GetFrame(z)
		if err != nil {
			return nil, fmt.Errorf("%s: reading frame %d: %w", path, z, err)
		}
		if err := fillSlice(vol, z, frame, bytesPerSample, info.PixelRepresentation, threshold); err != nil {
			return nil, fmt.Errorf("%s: frame %d: %w", path, z, err)
		}
	}

	vol.SetPixelSize(ndimage.PixelSize{Unit: "mm", Values: []float64{1, 1, 1}})
	return vol, nil
}

// fillSlice decodes one frame's little-endian samples and writes the
// thresholded result into vol's z-th slice.
func fillSlice(vol *ndimage.BinaryImage, z int, frame []byte, bytesPerSample int, pixelRep uint16, threshold Threshold) error {
	sizes := vol.Shape().Sizes()
	height, width := sizes[1], sizes[2]
	strides := vol.Shape().Strides()

	wantLen := height * width * bytesPerSample
	if len(frame) < wantLen {
		return fmt.Errorf("frame has %d bytes, want at least %d", len(frame), wantLen)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			off := (y*width + x) * bytesPerSample
			sample := decodeDicomSample(frame[off:off+bytesPerSample], pixelRep)
			offset := z*strides[0] + y*strides[1] + x*strides[2]
			vol.Set(offset, threshold(sample))
		}
	}
	return nil
}

func decodeDicomSample(b []byte, pixelRep uint16) int32 {
	switch len(b) {
	case 1:
		if pixelRep == 1 {
			return int32(int8(b[0]))
		}
		return int32(b[0])
	case 2:
		v := uint16(b[0]) | uint16(b[1])<<8
		if pixelRep == 1 {
			return int32(int16(v))
		}
		return int32(v)
	default:
		v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
		if pixelRep == 1 {
			return int32(v)
		}
		return int32(v)
	}
}
