package ctltest

import "testing"

func TestSimArenaLifecycle(t *testing.T) {
	a := newSimArena(10000, 0)
	defer a.release()

	if err := a.alloc(100); err != nil {
		t.Fatal(err)
	}
	if a.smallAllocated != uint64(alignUp(100, quantum)) {
		t.Fatalf("smallAllocated = %d", a.smallAllocated)
	}
	if a.mapped != slabBytes {
		t.Fatalf("mapped = %d, want one slab of %d", a.mapped, slabBytes)
	}
	if a.pactive != 1 {
		t.Fatalf("pactive = %d, want 1", a.pactive)
	}

	// a request past smallMax is accounted large and page-aligned
	big := smallMax + 1
	if err := a.alloc(big); err != nil {
		t.Fatal(err)
	}
	if a.largeAllocated != uint64(alignUp(big, quantum)) {
		t.Fatalf("largeAllocated = %d", a.largeAllocated)
	}

	al := allocation{size: uint64(alignUp(100, quantum)), pages: 1}
	a.free(al)
	if a.smallAllocated != 0 || a.pdirty != 1 || a.pactive != uint64(alignUp(big, pageSize)/pageSize) {
		t.Fatalf("after free: small=%d pdirty=%d pactive=%d", a.smallAllocated, a.pdirty, a.pactive)
	}

	a.decay()
	if a.pdirty != 0 || a.pmuzzy != 1 {
		t.Fatalf("after decay: pdirty=%d pmuzzy=%d", a.pdirty, a.pmuzzy)
	}

	a.purge()
	if a.pmuzzy != 0 || a.retained != pageSize {
		t.Fatalf("after purge: pmuzzy=%d retained=%d", a.pmuzzy, a.retained)
	}

	a.reset()
	if a.allocated() != 0 || a.pactive != 0 {
		t.Fatalf("after reset: allocated=%d pactive=%d", a.allocated(), a.pactive)
	}
}

func TestSimArenaGrowsSlabs(t *testing.T) {
	a := newSimArena(0, 0)
	defer a.release()

	// more than one slab's worth of small allocations
	for range slabBytes/1024 + 8 {
		if err := a.alloc(1024); err != nil {
			t.Fatal(err)
		}
	}
	if len(a.slabs) < 2 {
		t.Fatalf("slabs = %d, want >= 2", len(a.slabs))
	}
	if a.mapped != uint64(len(a.slabs))*slabBytes {
		t.Fatalf("mapped = %d for %d slabs", a.mapped, len(a.slabs))
	}

	// an oversized request maps a dedicated extent
	huge := 2 * slabBytes
	if err := a.alloc(huge); err != nil {
		t.Fatal(err)
	}
	last := a.slabs[len(a.slabs)-1]
	if len(last) != alignUp(huge, pageSize) {
		t.Fatalf("dedicated extent = %d bytes, want %d", len(last), alignUp(huge, pageSize))
	}
}
