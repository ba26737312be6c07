package ndimage

import "testing"

func TestForgeBinaryCountForeground(t *testing.T) {
	img := ForgeBinary([]int{3, 3})
	if !img.Forged() {
		t.Fatal("expected forged image")
	}
	if img.CountForeground() != 0 {
		t.Fatal("expected empty image to have no foreground")
	}

	img.Set(0, true)
	img.Set(4, true)
	img.Set(8, true)
	if got := img.CountForeground(); got != 3 {
		t.Fatalf("CountForeground = %d, want 3", got)
	}
	if !img.At(4) {
		t.Fatal("expected pixel 4 to be foreground")
	}

	img.Set(4, false)
	if img.At(4) {
		t.Fatal("expected pixel 4 to be cleared")
	}
	if got := img.CountForeground(); got != 2 {
		t.Fatalf("CountForeground after clear = %d, want 2", got)
	}
}

func TestCountForegroundWideMatchesScalar(t *testing.T) {
	data := make([]byte, 37)
	for i := range data {
		if i%3 == 0 {
			data[i] = 1
		}
	}
	if countForegroundWide(data) != countForegroundScalar(data) {
		t.Fatal("wide and scalar foreground counts disagree")
	}
}

func TestUnforgedBinaryImage(t *testing.T) {
	var img *BinaryImage
	if img.Forged() {
		t.Fatal("nil image must report not forged")
	}
}
