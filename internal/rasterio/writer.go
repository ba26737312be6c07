package rasterio

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/pspoerri/ndlabel/internal/ndimage"
)

// WriteLabels writes lbl as an uncompressed, single-band, 32-bit unsigned
// TIFF: one strip per image, little-endian, no georeferencing tags beyond
// what geo carries (geo may be the zero value for a non-georeferenced
// output).
func WriteLabels(path string, lbl *ndimage.LabelImage, geo GeoInfo) error {
	if lbl.Shape().Rank() != 2 {
		return fmt.Errorf("TIFF output requires a rank-2 label image, got rank %d", lbl.Shape().Rank())
	}
	sizes := lbl.Shape().Sizes()
	height, width := sizes[0], sizes[1]

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	bo := binary.LittleEndian
	pixelData := make([]byte, width*height*4)
	for i, v := range lbl.Data() {
		bo.PutUint32(pixelData[i*4:], v)
	}

	entries := buildLabelIFDEntries(uint32(width), uint32(height), geo)
	return writeTIFF(f, bo, entries, pixelData)
}

// tiffOutEntry is a directory entry ready to be serialized; short/long
// values are inlined, everything else is appended after the directory.
type tiffOutEntry struct {
	tag      uint16
	dataType uint16
	count    uint32
	inline   uint32 // used when dataType is short/long and count fits inline
	extra    []byte // used otherwise
}

func buildLabelIFDEntries(width, height uint32, geo GeoInfo) []tiffOutEntry {
	entries := []tiffOutEntry{
		{tag: tagImageWidth, dataType: dtLong, count: 1, inline: width},
		{tag: tagImageLength, dataType: dtLong, count: 1, inline: height},
		{tag: tagBitsPerSample, dataType: dtShort, count: 1, inline: 32},
		{tag: tagCompression, dataType: dtShort, count: 1, inline: 1},
		{tag: tagPhotometric, dataType: dtShort, count: 1, inline: 1},
		{tag: tagSamplesPerPixel, dataType: dtShort, count: 1, inline: 1},
		{tag: tagRowsPerStrip, dataType: dtLong, count: 1, inline: height},
		{tag: tagPlanarConfig, dataType: dtShort, count: 1, inline: 1},
		{tag: tagSampleFormat, dataType: dtShort, count: 1, inline: sampleFormatUint},
		// tagStripOffsets and tagStripByteCounts are patched in by
		// writeTIFF once the pixel data's file offset is known.
		{tag: tagStripOffsets, dataType: dtLong, count: 1},
		{tag: tagStripByteCounts, dataType: dtLong, count: 1, inline: height * width * 4},
	}

	if geo.EPSG != 0 {
		entries = append(entries, tiffOutEntry{
			tag: tagModelPixelScaleTag, dataType: dtDouble, count: 3,
			extra: float64sToBytes([]float64{geo.PixelSizeX, geo.PixelSizeY, 0}),
		})
	}
	return entries
}

func float64sToBytes(vs []float64) []byte {
	buf := make([]byte, len(vs)*8)
	for i, v := range vs {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

// writeTIFF serializes a classic (non-Big) little-endian TIFF with a
// single IFD, patching the strip offset entry once the directory's and
// pixel data's layout is known.
func writeTIFF(f *os.File, bo binary.ByteOrder, entries []tiffOutEntry, pixelData []byte) error {
	header := make([]byte, 8)
	copy(header[0:2], "II")
	bo.PutUint16(header[2:4], 42)

	dirEntrySize := 12
	dirHeaderSize := 2 + len(entries)*dirEntrySize + 4
	ifdOffset := uint32(8)
	bo.PutUint32(header[4:8], ifdOffset)

	extraBase := ifdOffset + uint32(dirHeaderSize)

	var extra []byte
	for _, e := range entries {
		extra = append(extra, e.extra...)
	}
	stripOffset := extraBase + uint32(len(extra))

	dir := make([]byte, 0, dirHeaderSize)
	dir = binary.LittleEndian.AppendUint16(dir, uint16(len(entries)))

	pos := extraBase
	for i := range entries {
		e := &entries[i]
		entryBytes := make([]byte, 12)
		bo.PutUint16(entryBytes[0:2], e.tag)
		bo.PutUint16(entryBytes[2:4], e.dataType)
		bo.PutUint32(entryBytes[4:8], e.count)

		switch {
		case e.tag == tagStripOffsets:
			bo.PutUint32(entryBytes[8:12], stripOffset)
		case len(e.extra) > 0:
			bo.PutUint32(entryBytes[8:12], pos)
			pos += uint32(len(e.extra))
		default:
			switch e.dataType {
			case dtShort:
				bo.PutUint16(entryBytes[8:10], uint16(e.inline))
			default:
				bo.PutUint32(entryBytes[8:12], e.inline)
			}
		}
		dir = append(dir, entryBytes...)
	}
	dir = binary.LittleEndian.AppendUint32(dir, 0) // no next IFD

	if _, err := f.Write(header); err != nil {
		return err
	}
	if _, err := f.Write(dir); err != nil {
		return err
	}
	if _, err := f.Write(extra); err != nil {
		return err
	}
	if _, err := f.Write(pixelData); err != nil {
		return err
	}
	return nil
}
