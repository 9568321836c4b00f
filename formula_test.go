package cellvalue

import "testing"

func TestNewFormulaUnpooled(t *testing.T) {
	f := NewFormula("=A1+B1")
	if f.Source() != "=A1+B1" {
		t.Errorf("Source = %q, want =A1+B1", f.Source())
	}
	if f.String() != "=A1+B1" {
		t.Errorf("String = %q, want =A1+B1", f.String())
	}
	if f.RefCount() != 0 {
		t.Errorf("RefCount = %d, want 0 before any cell references it", f.RefCount())
	}
}

func TestPoolInternSharesHandles(t *testing.T) {
	pool := NewFormulaPool()

	a := pool.Intern("=SUM(A1:A10)")
	b := pool.Intern("=SUM(A1:A10)")
	c := pool.Intern("=A1")

	if a != b {
		t.Error("Interning the same source should return the same handle")
	}
	if a == c {
		t.Error("Different sources should not share a handle")
	}
	if pool.Count() != 2 {
		t.Errorf("Count = %d, want 2", pool.Count())
	}
}

func TestPoolGetFormula(t *testing.T) {
	pool := NewFormulaPool()
	interned := pool.Intern("=A1")

	if f, exists := pool.GetFormula("=A1"); !exists || f != interned {
		t.Errorf("GetFormula(=A1) = %v, %v, want the interned handle", f, exists)
	}
	if _, exists := pool.GetFormula("=B1"); exists {
		t.Error("GetFormula should not create missing formulas")
	}
	if pool.Count() != 1 {
		t.Errorf("Count = %d, want 1", pool.Count())
	}
}

func TestPoolReferenceAccounting(t *testing.T) {
	pool := NewFormulaPool()
	f := pool.Intern("=A1*2")

	if pool.TotalReferences() != 0 {
		t.Errorf("TotalReferences = %d, want 0 before any values exist", pool.TotalReferences())
	}

	v1 := FromFormula(f)
	v2 := FromFormula(f)
	if f.RefCount() != 2 || pool.TotalReferences() != 2 {
		t.Errorf("RefCount = %d, TotalReferences = %d, want 2 and 2",
			f.RefCount(), pool.TotalReferences())
	}

	v1.Release()
	if f.RefCount() != 1 || pool.Count() != 1 {
		t.Errorf("After one release: RefCount = %d, Count = %d, want 1 and 1",
			f.RefCount(), pool.Count())
	}

	v2.Release()
	if pool.Count() != 0 {
		t.Errorf("Count after last release = %d, want 0", pool.Count())
	}
	if _, exists := pool.GetFormula("=A1*2"); exists {
		t.Error("Formula should be evicted once its last cell reference is released")
	}
}

func TestPoolReInternAfterEviction(t *testing.T) {
	pool := NewFormulaPool()

	first := pool.Intern("=A1")
	v := FromFormula(first)
	v.Release()

	second := pool.Intern("=A1")
	if first == second {
		t.Error("Re-interning after eviction should create a fresh handle")
	}
	if pool.Count() != 1 {
		t.Errorf("Count = %d, want 1", pool.Count())
	}
}

func TestPoolClearDetachesHandles(t *testing.T) {
	pool := NewFormulaPool()
	f := pool.Intern("=A1")
	v := FromFormula(f)

	pool.Clear()
	if pool.Count() != 0 {
		t.Errorf("Count after Clear = %d, want 0", pool.Count())
	}

	// the live handle keeps working and releases without a pool
	if f.Source() != "=A1" {
		t.Errorf("Source after Clear = %q, want =A1", f.Source())
	}
	v.Release()
	if f.RefCount() != 0 {
		t.Errorf("RefCount after release = %d, want 0", f.RefCount())
	}
	if pool.Count() != 0 {
		t.Errorf("Count = %d, want 0, released handles must not repopulate", pool.Count())
	}
}

func TestUnpooledFormulaLifecycle(t *testing.T) {
	f := NewFormula("=A1")
	v1 := FromFormula(f)
	v2, _ := v1.Clone()

	v1.Release()
	v2.Release()
	if f.RefCount() != 0 {
		t.Errorf("RefCount = %d, want 0 after all values released", f.RefCount())
	}
}
