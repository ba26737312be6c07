package ccl

import "testing"

func TestRegionTableCreateFind(t *testing.T) {
	rt := NewRegionTable()
	a, err := rt.Create(5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := rt.Create(7)
	if err != nil {
		t.Fatal(err)
	}
	if rt.Find(a) != a || rt.Find(b) != b {
		t.Fatal("fresh labels should be their own representative")
	}
}

func TestRegionTableUnionPicksSmallerSurvivor(t *testing.T) {
	rt := NewRegionTable()
	a, _ := rt.Create(1)
	b, _ := rt.Create(2)
	c, _ := rt.Create(3)

	survivor := rt.Union(b, c)
	if survivor != b {
		t.Fatalf("Union(b,c) = %d, want %d (smaller id)", survivor, b)
	}
	if *rt.Value(b) != 5 {
		t.Fatalf("merged value = %d, want 5", *rt.Value(b))
	}

	survivor = rt.Union(a, survivor)
	if survivor != a {
		t.Fatalf("Union(a,b) = %d, want %d", survivor, a)
	}
	if rt.Find(b) != a || rt.Find(c) != a {
		t.Fatal("b and c should now resolve to a")
	}
}

func TestRegionTableUnionSameRootIsNoop(t *testing.T) {
	rt := NewRegionTable()
	a, _ := rt.Create(10)
	if rt.Union(a, a) != a {
		t.Fatal("self-union should return the same root")
	}
	if *rt.Value(a) != 10 {
		t.Fatal("self-union must not double the accumulator")
	}
}

func TestRegionTableRelabelDense(t *testing.T) {
	rt := NewRegionTable()
	a, _ := rt.Create(1) // becomes dense id 1
	b, _ := rt.Create(1) // becomes dense id 2
	c, _ := rt.Create(1) // becomes dense id 3
	rt.Union(a, a)

	translation, kept := rt.Relabel(func(v uint64) bool { return v > 0 })
	if translation[b] == 0 {
		t.Fatal("expected b to receive a positive dense id")
	}
	if kept != 3 {
		// all three survive the trivial predicate
		t.Fatalf("kept = %d, want 3", kept)
	}
	if translation[a] == 0 || translation[c] == 0 {
		t.Fatal("expected a and c to receive positive dense ids")
	}
	if translation[a] == translation[c] {
		t.Fatal("expected distinct dense ids for distinct regions")
	}
}

func TestRegionTableRelabelFiltersOut(t *testing.T) {
	rt := NewRegionTable()
	small, _ := rt.Create(2)
	big, _ := rt.Create(20)

	translation, kept := rt.Relabel(func(v uint64) bool { return v >= 10 })
	if kept != 1 {
		t.Fatalf("kept = %d, want 1", kept)
	}
	if translation[small] != 0 {
		t.Fatal("small region should be dropped to 0")
	}
	if translation[big] == 0 {
		t.Fatal("big region should survive with a positive id")
	}
}

