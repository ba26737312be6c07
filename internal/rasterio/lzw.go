package rasterio

// Strip-level LZW decoding for compressed TIFF rasters.
//
// TIFF's LZW variant differs from the GIF/PDF flavor compress/lzw handles:
// TIFF switches to the next code width one code earlier than GIF does
// ("early change"), so the two bit streams diverge. Feeding a
// TIFF LZW stream to compress/lzw produces "invalid code" errors, so strips
// are decoded here instead, bit-for-bit per the TIFF 6.0 LZW scheme.

import (
	"errors"
	"io"
)

const (
	lzwMaxWidth  = 12
	lzwClearCode = 256
	lzwEOICode   = 257
	lzwFirstCode = 258
)

type lzwTableEntry struct {
	prefix int  // index of prefix entry (-1 for single-byte entries)
	suffix byte // the byte added by this entry
	length int  // total length of the string
}

// decodeStripLZW decodes a single LZW-compressed TIFF strip (MSB bit
// ordering).
func decodeStripLZW(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r := &stripLZWReader{
		src:    data,
		bitPos: 0,
	}

	return r.decode()
}

type stripLZWReader struct {
	src    []byte
	bitPos int // current bit position in src
}

// readBits reads n bits from the source (MSB first).
func (r *stripLZWReader) readBits(n int) (int, error) {
	if n <= 0 || n > 16 {
		return 0, errors.New("lzw: invalid bit count")
	}

	result := 0
	for i := 0; i < n; i++ {
		bytePos := r.bitPos / 8
		bitOff := 7 - (r.bitPos % 8) // MSB first
		if bytePos >= len(r.src) {
			return 0, io.ErrUnexpectedEOF
		}
		bit := (int(r.src[bytePos]) >> bitOff) & 1
		result = (result << 1) | bit
		r.bitPos++
	}
	return result, nil
}

func (r *stripLZWReader) decode() ([]byte, error) {
	// Code table holds all single-byte entries up front; codes 256/257 are
	// reserved for clear/EOI, and the table grows up to 12-bit width.
	table := make([]lzwTableEntry, 4097)
	for i := 0; i < 256; i++ {
		table[i] = lzwTableEntry{prefix: -1, suffix: byte(i), length: 1}
	}

	nextCode := lzwFirstCode
	codeWidth := 9

	var output []byte
	buf := make([]byte, 0, 4096)

	// Helper: extract the string for a given code into buf (reversed, then flipped).
	getString := func(code int) []byte {
		entry := &table[code]
		buf = buf[:entry.length]
		idx := entry.length - 1
		for code >= 0 {
			e := &table[code]
			buf[idx] = e.suffix
			idx--
			code = e.prefix
		}
		return buf
	}

	// First code must be a clear code per TIFF spec.
	code, err := r.readBits(codeWidth)
	if err != nil {
		return nil, err
	}
	if code != lzwClearCode {
		return nil, errors.New("lzw: first code is not clear code")
	}

	// After clear code, read the first literal.
	prevCode := -1

	for {
		code, err := r.readBits(codeWidth)
		if err != nil {
			if err == io.ErrUnexpectedEOF {
				return output, nil
			}
			return nil, err
		}

		if code == lzwEOICode {
			return output, nil
		}

		if code == lzwClearCode {
			// Reset.
			nextCode = lzwFirstCode
			codeWidth = 9
			prevCode = -1
			continue
		}

		if prevCode == -1 {
			// First code after clear: must be a literal (0-255).
			if code >= 256 {
				return nil, errors.New("lzw: first code after clear is not literal")
			}
			output = append(output, byte(code))
			prevCode = code
			continue
		}

		var outStr []byte

		if code < nextCode {
			// Code is in the table.
			outStr = getString(code)
			output = append(output, outStr...)

			// Add new entry: prevCode's string + first byte of current string.
			if nextCode < 4097 {
				table[nextCode] = lzwTableEntry{
					prefix: prevCode,
					suffix: outStr[0],
					length: table[prevCode].length + 1,
				}
				nextCode++
			}
		} else if code == nextCode {
			// KwKwK case: code is not yet in the table.
			prevStr := getString(prevCode)
			firstByte := prevStr[0]
			output = append(output, prevStr...)
			output = append(output, firstByte)

			// Add new entry.
			if nextCode < 4097 {
				table[nextCode] = lzwTableEntry{
					prefix: prevCode,
					suffix: firstByte,
					length: table[prevCode].length + 1,
				}
				nextCode++
			}
		} else {
			return nil, errors.New("lzw: invalid code")
		}

		// Increase code width when the next possible entry would exceed
		// the current width's capacity.
		if nextCode+1 >= (1<<codeWidth) && codeWidth < lzwMaxWidth {
			codeWidth++
		}

		prevCode = code
	}
}
