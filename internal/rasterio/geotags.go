package rasterio

import "github.com/pspoerri/ndlabel/internal/ndimage"

// GeoTIFF GeoKey IDs.
const (
	gkGeographicTypeGeoKey  = 2048
	gkProjectedCSTypeGeoKey = 3072
)

// GeoInfo holds the georeferencing metadata of a raster, in CRS units.
// It becomes the opaque ndimage.PixelSize carried through the labeling
// pipeline unchanged (see the core's pixel-size passthrough contract).
type GeoInfo struct {
	EPSG       int     // EPSG code (0 if unknown)
	OriginX    float64 // easting of upper-left corner
	OriginY    float64 // northing of upper-left corner
	PixelSizeX float64 // pixel width in CRS units (positive)
	PixelSizeY float64 // pixel height in CRS units (positive)
}

// ToPixelSize converts the GeoTIFF pixel scale into the opaque metadata
// record the core treats as pass-through.
func (g GeoInfo) ToPixelSize() ndimage.PixelSize {
	unit := "px"
	if g.EPSG != 0 {
		unit = "crs-unit"
	}
	return ndimage.PixelSize{
		Unit:   unit,
		Values: []float64{g.PixelSizeY, g.PixelSizeX},
	}
}

// parseGeoInfo extracts geographic metadata from an IFD.
func parseGeoInfo(ifd *IFD) GeoInfo {
	info := GeoInfo{}

	if len(ifd.ModelPixelScale) >= 2 {
		info.PixelSizeX = ifd.ModelPixelScale[0]
		info.PixelSizeY = ifd.ModelPixelScale[1]
	}

	if len(ifd.ModelTiepoint) >= 6 {
		info.OriginX = ifd.ModelTiepoint[3] - ifd.ModelTiepoint[0]*info.PixelSizeX
		info.OriginY = ifd.ModelTiepoint[4] + ifd.ModelTiepoint[1]*info.PixelSizeY
	}

	info.EPSG = parseEPSG(ifd.GeoKeys)
	return info
}

// parseEPSG extracts the EPSG code from GeoKey directory entries.
func parseEPSG(geoKeys []uint16) int {
	if len(geoKeys) < 4 {
		return 0
	}

	numKeys := int(geoKeys[3])
	for i := 0; i < numKeys; i++ {
		base := 4 + i*4
		if base+3 >= len(geoKeys) {
			break
		}
		keyID := geoKeys[base]
		valueOffset := geoKeys[base+3]

		switch keyID {
		case gkProjectedCSTypeGeoKey, gkGeographicTypeGeoKey:
			if valueOffset > 0 {
				return int(valueOffset)
			}
		}
	}

	return 0
}
