// Package rasterio reads single-band TIFF and GeoTIFF rasters into the
// core's binary image representation: strip decompression (tiled layouts
// are rejected), predictor reversal, GeoTIFF pixel-size extraction, and
// memory-mapped access to the raw file.
package rasterio

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pspoerri/ndlabel/internal/ndimage"
)

const (
	compressionNone    = 1
	compressionLZW     = 5
	compressionDeflate = 8
	compressionZIP     = 32946
)

// Threshold decides, given a raw decoded sample value, whether a pixel is
// foreground. The reader is agnostic to the raster's semantic meaning (a
// classification raster, a probability map, a mask): callers supply the
// predicate appropriate to their source.
type Threshold func(sample float64) bool

// NonZero treats any nonzero sample as foreground, the default for
// single-band mask and label rasters.
func NonZero(sample float64) bool { return sample != 0 }

// ReadBinary opens a single-band TIFF file at path, decodes its first IFD,
// and returns a BinaryImage of shape [Height, Width] with pixel size
// populated from any GeoTIFF tags present.
func ReadBinary(path string, threshold Threshold) (*ndimage.BinaryImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	ifds, bo, err := parseTIFF(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(ifds) == 0 {
		return nil, fmt.Errorf("%s: no image file directories found", path)
	}
	ifd := &ifds[0]

	if ifd.SamplesPerPixel != 1 {
		return nil, fmt.Errorf("%s: expected a single-band raster, got %d samples per pixel", path, ifd.SamplesPerPixel)
	}

	var src io.ReaderAt = f
	if mapped, mmapErr := mapFileForReading(f); mmapErr == nil {
		src = mapped
		defer munmapRasterFile(mapped.data)
	}

	samples, err := decodeSamples(src, ifd, bo)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	img := ndimage.ForgeBinary([]int{int(ifd.Height), int(ifd.Width)})
	for i, v := range samples {
		img.Set(i, threshold(v))
	}
	img.SetPixelSize(parseGeoInfo(ifd).ToPixelSize())
	return img, nil
}

// decodeSamples returns one float64 per pixel in row-major order,
// dispatching on compression and bit depth. Only stripped layouts are
// supported; tiled rasters return an error.
func decodeSamples(f io.ReaderAt, ifd *IFD, bo binary.ByteOrder) ([]float64, error) {
	if ifd.Tiled() {
		return nil, fmt.Errorf("tiled TIFF layout not supported")
	}
	if len(ifd.StripOffsets) == 0 {
		return nil, fmt.Errorf("no strip offsets present")
	}

	bitsPerSample := 8
	if len(ifd.BitsPerSample) > 0 {
		bitsPerSample = int(ifd.BitsPerSample[0])
	}
	bytesPerSample := (bitsPerSample + 7) / 8

	rowsPerStrip := int(ifd.RowsPerStrip)
	if rowsPerStrip == 0 {
		rowsPerStrip = int(ifd.Height)
	}
	width := int(ifd.Width)
	height := int(ifd.Height)

	raw := make([]byte, 0, width*height*bytesPerSample)
	for i, off := range ifd.StripOffsets {
		var count int64
		if i < len(ifd.StripByteCounts) {
			count = int64(ifd.StripByteCounts[i])
		}
		compressed := make([]byte, count)
		if _, err := f.ReadAt(compressed, int64(off)); err != nil {
			return nil, fmt.Errorf("reading strip %d: %w", i, err)
		}

		rowsInStrip := rowsPerStrip
		if remaining := height - i*rowsPerStrip; remaining < rowsInStrip {
			rowsInStrip = remaining
		}
		stripBytes := rowsInStrip * width * bytesPerSample

		decompressed, err := decompressStrip(compressed, ifd.Compression, stripBytes)
		if err != nil {
			return nil, fmt.Errorf("decompressing strip %d: %w", i, err)
		}
		if ifd.Predictor == 2 {
			reverseHorizontalPredictor(decompressed, width, bytesPerSample, bo)
		}
		raw = append(raw, decompressed...)
	}

	samples := make([]float64, width*height)
	for i := range samples {
		off := i * bytesPerSample
		samples[i] = decodeSample(raw[off:off+bytesPerSample], bo, ifd.SampleFormat, bitsPerSample)
	}
	return samples, nil
}

// mmapReaderAt adapts a memory-mapped byte slice to io.ReaderAt, letting
// the strip decoder address large volumes without per-strip syscalls.
type mmapReaderAt struct {
	data []byte
}

func (m *mmapReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}

// mapFileForReading memory-maps f read-only. Callers must munmapRasterFile
// the returned reader's data once done; on platforms or files where mapping
// fails, callers fall back to ordinary ReadAt calls on f.
func mapFileForReading(f *os.File) (*mmapReaderAt, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 || info.Size() > math.MaxInt32 {
		return nil, fmt.Errorf("mmap not attempted for this file size")
	}
	data, err := mmapRasterFile(f.Fd(), int(info.Size()))
	if err != nil {
		return nil, err
	}
	return &mmapReaderAt{data: data}, nil
}

func decompressStrip(data []byte, compression uint16, wantLen int) ([]byte, error) {
	switch compression {
	case 0, compressionNone:
		return data, nil
	case compressionLZW:
		return decodeStripLZW(data)
	case compressionDeflate, compressionZIP:
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		buf := make([]byte, wantLen)
		if _, err := io.ReadFull(r, buf); err != nil && err != io.ErrUnexpectedEOF {
			return nil, err
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("unsupported compression scheme %d", compression)
	}
}

// reverseHorizontalPredictor undoes TIFF predictor 2: each sample (beyond
// the first in its row) was stored as the difference from its left
// neighbor.
func reverseHorizontalPredictor(data []byte, width, bytesPerSample int, bo binary.ByteOrder) {
	stride := width * bytesPerSample
	for rowStart := 0; rowStart+stride <= len(data); rowStart += stride {
		for col := 1; col < width; col++ {
			cur := rowStart + col*bytesPerSample
			prev := cur - bytesPerSample
			switch bytesPerSample {
			case 2:
				bo.PutUint16(data[cur:], bo.Uint16(data[cur:])+bo.Uint16(data[prev:]))
			case 4:
				bo.PutUint32(data[cur:], bo.Uint32(data[cur:])+bo.Uint32(data[prev:]))
			case 8:
				bo.PutUint64(data[cur:], bo.Uint64(data[cur:])+bo.Uint64(data[prev:]))
			default:
				for b := 0; b < bytesPerSample; b++ {
					data[cur+b] += data[prev+b]
				}
			}
		}
	}
}

func decodeSample(b []byte, bo binary.ByteOrder, sampleFormat uint16, bitsPerSample int) float64 {
	switch {
	case sampleFormat == sampleFormatFloat && bitsPerSample == 32:
		return float64(math.Float32frombits(bo.Uint32(b)))
	case sampleFormat == sampleFormatFloat && bitsPerSample == 64:
		return math.Float64frombits(bo.Uint64(b))
	case bitsPerSample == 8:
		if sampleFormat == sampleFormatInt {
			return float64(int8(b[0]))
		}
		return float64(b[0])
	case bitsPerSample == 16:
		if sampleFormat == sampleFormatInt {
			return float64(int16(bo.Uint16(b)))
		}
		return float64(bo.Uint16(b))
	case bitsPerSample == 32:
		if sampleFormat == sampleFormatInt {
			return float64(int32(bo.Uint32(b)))
		}
		return float64(bo.Uint32(b))
	default:
		return float64(b[0])
	}
}
