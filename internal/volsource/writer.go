package volsource

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pspoerri/ndlabel/internal/ndimage"
)

// volumeHeader is the JSON sidecar written alongside a raw volume dump: the
// shape needed to reinterpret the flat uint32 label buffer. A raw dump has
// no self-describing shape of its own, so the sidecar carries it instead.
type volumeHeader struct {
	Sizes []int  `json:"sizes"`
	Unit  string `json:"unit"`
}

// WriteVolume dumps lbl as a raw little-endian uint32 buffer at path, plus
// a "<path>.json" sidecar describing its shape, for ranks rasterio's
// 2-D-only TIFF writer cannot represent.
func WriteVolume(path string, lbl *ndimage.LabelImage) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 4)
	for _, v := range lbl.Data() {
		binary.LittleEndian.PutUint32(buf, v)
		if _, err := f.Write(buf); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	header := volumeHeader{Sizes: lbl.Shape().Sizes(), Unit: lbl.PixelSize().Unit}
	data, err := json.MarshalIndent(header, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path+".json", data, 0644)
}
