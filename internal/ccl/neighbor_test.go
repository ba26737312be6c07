package ccl

import "testing"

func TestNeighborsCount(t *testing.T) {
	// rank 2, connectivity 1: the 4-neighborhood.
	n4 := neighbors(2, 1)
	if len(n4) != 4 {
		t.Fatalf("4-neighborhood size = %d, want 4", len(n4))
	}
	// rank 2, connectivity 2: the 8-neighborhood.
	n8 := neighbors(2, 2)
	if len(n8) != 8 {
		t.Fatalf("8-neighborhood size = %d, want 8", len(n8))
	}
	// rank 3, connectivity 1: face neighbors only.
	n6 := neighbors(3, 1)
	if len(n6) != 6 {
		t.Fatalf("3-D face neighborhood size = %d, want 6", len(n6))
	}
}

func TestSelectBackwardCount(t *testing.T) {
	// With axis 1 (columns) as the innermost loop and 8-connectivity,
	// exactly half of the 8 neighbors were already visited.
	full := neighbors(2, 2)
	backward := selectBackward(full, 1)
	if len(backward) != 4 {
		t.Fatalf("backward neighbor count = %d, want 4", len(backward))
	}
}

func TestSelectBackwardIncludesDiagonalAboveRight(t *testing.T) {
	// d = (-1, +1): one row up, one column right. With axis 1 as the
	// innermost loop, the entire previous row is already visited
	// regardless of column, so this displacement must be backward.
	full := neighbors(2, 2)
	backward := selectBackward(full, 1)
	found := false
	for _, d := range backward {
		if d[0] == -1 && d[1] == 1 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected (-1,+1) to be classified as a backward neighbor")
	}
}

func TestInImage(t *testing.T) {
	sizes := []int{3, 3}
	if !inImage(Displacement{1, 1}, []int{0, 0}, sizes) {
		t.Error("(0,0)+(1,1) should be in image")
	}
	if inImage(Displacement{-1, 0}, []int{0, 0}, sizes) {
		t.Error("(0,0)+(-1,0) should be out of image")
	}
	if inImage(Displacement{0, 1}, []int{0, 2}, sizes) {
		t.Error("(0,2)+(0,1) should be out of image")
	}
}

func TestIsPrevious(t *testing.T) {
	if !isPrevious(Displacement{-1, 0}, 0) {
		t.Error("(-1,0) should be previous along axis 0")
	}
	if isPrevious(Displacement{-1, 0}, 1) {
		t.Error("(-1,0) should not be previous along axis 1")
	}
	if isPrevious(Displacement{-1, 1}, 0) {
		t.Error("(-1,1) should not be previous along axis 0 (extra component)")
	}
}
