package cellvalue

// Release frees whatever the block owns and zeroes it back to the
// number zero. Dispatch is by tag: the block records no destructor.
//
// Each constructed Value must be released exactly once. Copies of a
// block share its resources, so release one copy and drop the rest;
// releasing two copies of the same block is a double free. The zero
// Value owns nothing and releasing it is always safe, which is also
// why a released block can be released again only through a stale
// copy, never through the same pointer.
func (v *Value) Release() {
	switch extractTag(v.flags) {
	case TagText:
		// dropping the only pointer frees the backing array
	case TagFormula:
		(*Formula)(v.ref).release()
	case TagSequence:
		(*seqState)(v.ref).close()
	case TagNumber:
		// nothing owned
	}
	*v = Value{}
}

// Owned wraps a single Value with structural exactly once release, for
// engine layers that cannot track the discipline by hand. Borrow reads
// the live block, Move transfers it out, and Release after either a
// Release or a Move is a no-op.
type Owned struct {
	v    Value
	live bool
}

// Own adopts v. The caller must not release v directly afterwards.
func Own(v Value) *Owned {
	return &Owned{v: v, live: true}
}

// Borrow returns the held block for reading, or nil once the wrapper
// has released or moved it.
func (o *Owned) Borrow() *Value {
	if !o.live {
		return nil
	}
	return &o.v
}

// Move transfers the value out, leaving the wrapper empty, and returns
// false when nothing is held. The caller takes over the release duty.
func (o *Owned) Move() (Value, bool) {
	if !o.live {
		return Value{}, false
	}
	o.live = false
	v := o.v
	o.v = Value{}
	return v, true
}

// Release releases the held value. Further calls are no-ops.
func (o *Owned) Release() {
	if !o.live {
		return
	}
	o.live = false
	o.v.Release()
}
