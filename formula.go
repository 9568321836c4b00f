package cellvalue

// Formula is an immutable formula source shared by reference count
// among all cell values that use it. The count tracks cell references
// only: a bare handle is not counted, FromFormula and Clone each add a
// reference, and releasing the holding Value drops it. When the count
// returns to zero a pooled formula is evicted from its pool.
type Formula struct {
	src  string
	refs int
	pool *FormulaPool
}

// NewFormula creates an unpooled handle with no cell references yet.
func NewFormula(src string) *Formula {
	return &Formula{src: src}
}

// Source returns the formula text exactly as constructed.
func (f *Formula) Source() string {
	return f.src
}

func (f *Formula) String() string {
	return f.src
}

// RefCount returns the number of cell values currently referencing
// this formula.
func (f *Formula) RefCount() int {
	return f.refs
}

func (f *Formula) retain() {
	f.refs++
}

func (f *Formula) release() {
	f.refs--
	if f.refs <= 0 && f.pool != nil {
		f.pool.evict(f)
	}
}

// FormulaPool stores formulas centrally, interned by source text, so
// that many cells referencing the same formula share one handle.
// Intern itself never counts a reference; counting happens when a
// Value is constructed from the handle.
type FormulaPool struct {
	bySource map[string]*Formula
}

// NewFormulaPool creates a new formula pool
func NewFormulaPool() *FormulaPool {
	return &FormulaPool{
		bySource: make(map[string]*Formula),
	}
}

// Intern returns the pool's handle for src, creating it on first use.
func (p *FormulaPool) Intern(src string) *Formula {
	// check if formula already exists
	if f, exists := p.bySource[src]; exists {
		return f
	}

	// add new formula
	f := &Formula{src: src, pool: p}
	p.bySource[src] = f
	return f
}

// GetFormula returns the interned handle for src without creating one
func (p *FormulaPool) GetFormula(src string) (*Formula, bool) {
	f, exists := p.bySource[src]
	return f, exists
}

// Count returns the number of unique formulas
func (p *FormulaPool) Count() int {
	return len(p.bySource)
}

// TotalReferences returns the total number of cell references across
// all interned formulas
func (p *FormulaPool) TotalReferences() int {
	total := 0
	for _, f := range p.bySource {
		total += f.refs
	}
	return total
}

// Clear detaches and removes all formulas from the pool. Handles held
// by live cell values keep working; they simply stop being shared
// through this pool.
func (p *FormulaPool) Clear() {
	for _, f := range p.bySource {
		f.pool = nil
	}
	p.bySource = make(map[string]*Formula)
}

// evict drops a formula whose last cell reference was just released.
// A handle interned again after eviction is a distinct formula, so the
// identity check guards against evicting its replacement.
func (p *FormulaPool) evict(f *Formula) {
	if cur, exists := p.bySource[f.src]; exists && cur == f {
		delete(p.bySource, f.src)
		f.pool = nil
	}
}
