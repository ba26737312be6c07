package ccl

import (
	"testing"

	"github.com/pspoerri/ndlabel/internal/ndimage"
)

func gridFromRows(rows []string) *ndimage.BinaryImage {
	h := len(rows)
	w := len(rows[0])
	img := ndimage.ForgeBinary([]int{h, w})
	for r, row := range rows {
		for c, ch := range row {
			if ch == 'X' {
				img.Set(img.Shape().Offset([]int{r, c}), true)
			}
		}
	}
	return img
}

func labelAt(out *ndimage.LabelImage, r, c int) ndimage.LabelType {
	return out.At(out.Shape().Offset([]int{r, c}))
}

func TestLabelTwoDiagonalBlobsConnectivity1(t *testing.T) {
	bin := gridFromRows([]string{
		"X.X",
		".X.",
		"X.X",
	})
	out := ndimage.ForgeLabel([]int{3, 3})

	res, err := Label(bin, out, Options{Connectivity: 1})
	if err != nil {
		t.Fatal(err)
	}
	// 4-connectivity: the center touches none of the corners orthogonally,
	// so every X is its own region.
	if res.NumLabels != 5 {
		t.Fatalf("NumLabels = %d, want 5", res.NumLabels)
	}
}

func TestLabelDiagonalChainConnectivity2(t *testing.T) {
	bin := gridFromRows([]string{
		"X..",
		".X.",
		"..X",
	})
	out := ndimage.ForgeLabel([]int{3, 3})

	res, err := Label(bin, out, Options{Connectivity: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.NumLabels != 1 {
		t.Fatalf("NumLabels = %d, want 1 (diagonal chain under 8-connectivity)", res.NumLabels)
	}
	l := labelAt(out, 0, 0)
	if l == 0 {
		t.Fatal("expected foreground pixel to carry a nonzero label")
	}
	if labelAt(out, 1, 1) != l || labelAt(out, 2, 2) != l {
		t.Fatal("expected every pixel of the diagonal chain to share a label")
	}
}

func TestLabelDomainPreservation(t *testing.T) {
	bin := gridFromRows([]string{
		"XX.",
		".XX",
		"X..",
	})
	out := ndimage.ForgeLabel([]int{3, 3})
	if _, err := Label(bin, out, Options{Connectivity: 2}); err != nil {
		t.Fatal(err)
	}
	for i, fg := range bin.Data() {
		isFg := fg != 0
		isLabeled := out.At(i) != 0
		if isFg != isLabeled {
			t.Fatalf("offset %d: foreground=%v labeled=%v, domains must match", i, isFg, isLabeled)
		}
	}
}

func TestLabelDenseIDs(t *testing.T) {
	bin := gridFromRows([]string{
		"X.X.X",
	})
	out := ndimage.ForgeLabel([]int{1, 5})
	res, err := Label(bin, out, Options{Connectivity: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.NumLabels != 3 {
		t.Fatalf("NumLabels = %d, want 3", res.NumLabels)
	}
	seen := map[ndimage.LabelType]bool{}
	for _, l := range out.Data() {
		if l != 0 {
			seen[l] = true
		}
	}
	for l := ndimage.LabelType(1); int(l) <= res.NumLabels; l++ {
		if !seen[l] {
			t.Fatalf("expected dense label %d to be present", l)
		}
	}
}

func TestLabelSizeFilterDropsSmallRegions(t *testing.T) {
	bin := gridFromRows([]string{
		"XX.X",
		"XX..",
	})
	out := ndimage.ForgeLabel([]int{2, 4})
	res, err := Label(bin, out, Options{Connectivity: 1, Filter: SizeFilter{Min: 2}})
	if err != nil {
		t.Fatal(err)
	}
	if res.NumLabels != 1 {
		t.Fatalf("NumLabels = %d, want 1 (the lone pixel region is filtered out)", res.NumLabels)
	}
	if labelAt(out, 0, 3) != 0 {
		t.Fatal("expected the isolated single pixel to be filtered to background")
	}
}

func TestLabelPeriodicBoundaryUnifiesOppositeFaces(t *testing.T) {
	bin := gridFromRows([]string{
		"X..X",
		"....",
	})
	outOpen := ndimage.ForgeLabel([]int{2, 4})
	resOpen, err := Label(bin, outOpen, Options{Connectivity: 1})
	if err != nil {
		t.Fatal(err)
	}
	if resOpen.NumLabels != 2 {
		t.Fatalf("open boundary NumLabels = %d, want 2", resOpen.NumLabels)
	}

	outWrap := ndimage.ForgeLabel([]int{2, 4})
	resWrap, err := Label(bin, outWrap, Options{
		Connectivity: 1,
		Boundary:     []BoundaryCondition{AddZeros, Periodic},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resWrap.NumLabels != 1 {
		t.Fatalf("periodic boundary NumLabels = %d, want 1", resWrap.NumLabels)
	}
}

func TestLabelConnectivityMonotonicity(t *testing.T) {
	bin := gridFromRows([]string{
		"X.X",
		".X.",
		"X.X",
	})
	out1 := ndimage.ForgeLabel([]int{3, 3})
	res1, err := Label(bin, out1, Options{Connectivity: 1})
	if err != nil {
		t.Fatal(err)
	}
	out2 := ndimage.ForgeLabel([]int{3, 3})
	res2, err := Label(bin, out2, Options{Connectivity: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res2.NumLabels > res1.NumLabels {
		t.Fatalf("higher connectivity must not increase region count: k1=%d k2=%d", res1.NumLabels, res2.NumLabels)
	}
}

func TestLabelRejectsUnforgedImage(t *testing.T) {
	var bin *ndimage.BinaryImage
	out := ndimage.ForgeLabel([]int{1, 1})
	_, err := Label(bin, out, Options{Connectivity: 1})
	if err == nil {
		t.Fatal("expected an error for an unforged input")
	}
	ccErr, ok := err.(*Error)
	if !ok || ccErr.Kind != KindImageNotForged {
		t.Fatalf("expected KindImageNotForged, got %v", err)
	}
}

func TestLabelRejectsConnectivityOutOfRange(t *testing.T) {
	bin := ndimage.ForgeBinary([]int{3, 3})
	out := ndimage.ForgeLabel([]int{3, 3})
	_, err := Label(bin, out, Options{Connectivity: 3})
	if err == nil {
		t.Fatal("expected an error for connectivity exceeding rank")
	}
	ccErr, ok := err.(*Error)
	if !ok || ccErr.Kind != KindParameterOutOfRange {
		t.Fatalf("expected KindParameterOutOfRange, got %v", err)
	}
}

func Test3DVolumeSingleRegion(t *testing.T) {
	sizes := []int{2, 2, 2}
	bin := ndimage.ForgeBinary(sizes)
	for i := range bin.Data() {
		bin.Set(i, true)
	}
	out := ndimage.ForgeLabel(sizes)
	res, err := Label(bin, out, Options{Connectivity: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.NumLabels != 1 {
		t.Fatalf("NumLabels = %d, want 1 for a fully foreground cube", res.NumLabels)
	}
}

func TestLabelEmptyImageNoRegions(t *testing.T) {
	bin := ndimage.ForgeBinary([]int{4, 4})
	out := ndimage.ForgeLabel([]int{4, 4})
	res, err := Label(bin, out, Options{Connectivity: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.NumLabels != 0 {
		t.Fatalf("NumLabels = %d, want 0 for an all-background image", res.NumLabels)
	}
}

func TestLabelSingleColumnAxis(t *testing.T) {
	// Exercises an axis of length 1: optimalAxis must pick the other axis
	// (length 4) as the scan axis, and the output must still be correct.
	bin := gridFromRows([]string{
		"X",
		"X",
		".",
		"X",
	})
	out := ndimage.ForgeLabel([]int{4, 1})
	res, err := Label(bin, out, Options{Connectivity: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.NumLabels != 2 {
		t.Fatalf("NumLabels = %d, want 2", res.NumLabels)
	}
}

// TestLabelScanAxisLengthTwo exercises optimalAxis choosing a scan axis
// whose own extent is 2: the interior branch's 0 < i < lineLen-1 condition
// is then never true, so every pixel on the line runs through the
// first/last-pixel branch instead. In a 2x2 square optimalAxis (tie broken
// toward the lowest index) picks a length-2 axis as the scan axis, rather
// than routing around it via a longer second axis the way
// TestLabelSingleColumnAxis's 4x1 grid does.
func TestLabelScanAxisLengthTwo(t *testing.T) {
	bin := gridFromRows([]string{
		"XX",
		"XX",
	})
	out := ndimage.ForgeLabel([]int{2, 2})
	res, err := Label(bin, out, Options{Connectivity: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.NumLabels != 1 {
		t.Fatalf("NumLabels = %d, want 1", res.NumLabels)
	}
	want := labelAt(out, 0, 0)
	if want == 0 {
		t.Fatal("expected a nonzero label")
	}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if got := labelAt(out, r, c); got != want {
				t.Fatalf("label(%d,%d) = %d, want %d", r, c, got, want)
			}
		}
	}
}

// TestLabelScanAxisLengthOne exercises a 1x1 image, where optimalAxis's
// chosen axis has extent 1 and the single pixel is simultaneously the
// first and last pixel of its line.
func TestLabelScanAxisLengthOne(t *testing.T) {
	bin := gridFromRows([]string{"X"})
	out := ndimage.ForgeLabel([]int{1, 1})
	res, err := Label(bin, out, Options{Connectivity: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.NumLabels != 1 {
		t.Fatalf("NumLabels = %d, want 1", res.NumLabels)
	}
	if labelAt(out, 0, 0) == 0 {
		t.Fatal("expected the single pixel to carry a nonzero label")
	}
}
