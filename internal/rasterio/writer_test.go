package rasterio

import (
	"path/filepath"
	"testing"

	"github.com/pspoerri/ndlabel/internal/ndimage"
)

func TestWriteLabelsRoundTrip(t *testing.T) {
	lbl := ndimage.ForgeLabel([]int{2, 3})
	lbl.Set(0, 1)
	lbl.Set(1, 1)
	lbl.Set(5, 2)

	path := filepath.Join(t.TempDir(), "out.tif")
	if err := WriteLabels(path, lbl, GeoInfo{}); err != nil {
		t.Fatal(err)
	}

	img, err := ReadBinary(path, NonZero)
	if err != nil {
		t.Fatal(err)
	}
	if img.Shape().Sizes()[0] != 2 || img.Shape().Sizes()[1] != 3 {
		t.Fatalf("shape = %v, want [2 3]", img.Shape().Sizes())
	}
	for i, want := range []bool{true, true, false, false, false, true} {
		if got := img.At(i); got != want {
			t.Errorf("pixel %d = %v, want %v", i, got, want)
		}
	}
}

func TestWriteLabelsRejectsNonRank2(t *testing.T) {
	lbl := ndimage.ForgeLabel([]int{2, 2, 2})
	path := filepath.Join(t.TempDir(), "out.tif")
	if err := WriteLabels(path, lbl, GeoInfo{}); err == nil {
		t.Fatal("expected an error for a rank-3 label image")
	}
}
