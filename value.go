// Package cellvalue implements the packed value block held by a single
// spreadsheet cell: one of a fixed-width decimal number, an owned text
// buffer, a shared formula reference, or a lazily produced sequence of
// further values (a spill). The variant tag is hidden in spare payload
// bits rather than stored as its own word, and every block is released
// exactly once through tag dispatched teardown.
//
// The package is single threaded by contract. Blocks carry no locks or
// atomics; an engine that shards cells across goroutines must confine
// each block, and the formula pool with it, to one goroutine.
package cellvalue

import (
	"bytes"
	"unsafe"
)

// maxTextBytes is the largest text payload the thin layout can record,
// since length and capacity each live in one 32 bit word.
const maxTextBytes = 1<<32 - 1

// Value holds the content of one spreadsheet cell. It is a plain 24
// byte block: the four words of a Decimal overlaid with the variant
// tag in the two low flag bits, plus one pointer word for the variants
// that own heap state.
//
// Word use by variant:
//
//	Number    flags, lo, mid, hi are the Decimal itself; ref is nil
//	Text      lo is length, mid is capacity, ref is the byte buffer
//	Formula   ref is the shared *Formula; other words zero
//	Sequence  ref is the fused sequence state; other words zero
//
// Copy a Value freely for reading, replace it wholesale to mutate, and
// release each constructed block exactly once when its cell is
// overwritten or torn down. The zero Value is the number zero.
type Value struct {
	flags uint32
	lo    uint32
	mid   uint32
	hi    uint32
	ref   unsafe.Pointer
}

// FromNumber wraps a Decimal. The decimal's reserved flag bits double
// as the tag slot and TagNumber is zero, so the stored words are
// exactly the decimal's own bits.
func FromNumber(d Decimal) Value {
	return Value{
		flags: embedTag(d.flags, TagNumber),
		lo:    d.lo,
		mid:   d.mid,
		hi:    d.hi,
	}
}

// FromText takes ownership of buf. The caller must not read, write or
// grow the buffer afterwards. Length and capacity move into the
// block's spare coefficient words, so the backing array is the only
// allocation a text cell costs.
func FromText(buf []byte) Value {
	if uint64(len(buf)) > maxTextBytes || uint64(cap(buf)) > maxTextBytes {
		panic("cellvalue: text buffer too large")
	}
	v := Value{
		flags: embedTag(0, TagText),
		lo:    uint32(len(buf)),
		mid:   uint32(cap(buf)),
	}
	if cap(buf) > 0 {
		v.ref = unsafe.Pointer(unsafe.SliceData(buf))
	}
	return v
}

// FromTextString copies s into a fresh owned buffer.
func FromTextString(s string) Value {
	return FromText([]byte(s))
}

// FromFormula wraps a shared formula handle. The new block holds one
// counted reference, dropped again when the block is released.
func FromFormula(f *Formula) Value {
	if f == nil {
		panic("cellvalue: nil formula")
	}
	f.retain()
	p := unsafe.Pointer(f)
	checkPayloadAlign(p)
	return Value{
		flags: embedTag(0, TagFormula),
		ref:   p,
	}
}

// FromSequence takes ownership of seq. The block's view of it is
// fused, so advancing past exhaustion stays exhausted, and if seq also
// implements Close it runs exactly once when the block is released.
func FromSequence(seq Sequence) Value {
	if seq == nil {
		panic("cellvalue: nil sequence")
	}
	p := unsafe.Pointer(&seqState{src: seq})
	checkPayloadAlign(p)
	return Value{
		flags: embedTag(0, TagSequence),
		ref:   p,
	}
}

// Tag reports which variant the block currently holds.
func (v Value) Tag() Tag {
	return extractTag(v.flags)
}

// AsNumber returns the Decimal payload, or false when the block holds
// some other variant. Stripping the zero Number tag is the identity,
// so the returned bits are exactly the constructed bits.
func (v Value) AsNumber() (Decimal, bool) {
	if v.Tag() != TagNumber {
		return Decimal{}, false
	}
	return Decimal{
		flags: stripTag(v.flags),
		lo:    v.lo,
		mid:   v.mid,
		hi:    v.hi,
	}, true
}

// AsText returns the text payload, or false for other variants. The
// slice aliases the owned buffer and is valid until the block is
// released.
func (v Value) AsText() ([]byte, bool) {
	if v.Tag() != TagText {
		return nil, false
	}
	if v.ref == nil {
		return []byte{}, true
	}
	return unsafe.Slice((*byte)(v.ref), v.mid)[:v.lo:v.mid], true
}

// AsFormula returns the shared formula handle, or false for other
// variants. The handle stays counted by the block; use Clone to give
// another cell its own reference.
func (v Value) AsFormula() (*Formula, bool) {
	if v.Tag() != TagFormula {
		return nil, false
	}
	return (*Formula)(v.ref), true
}

// AsSequence returns the advance view of the sequence payload, or
// false for other variants. Every call returns the same fused state,
// so copies of the block observe one shared position.
func (v Value) AsSequence() (Sequence, bool) {
	if v.Tag() != TagSequence {
		return nil, false
	}
	return (*seqState)(v.ref), true
}

// Equal reports semantic equality: numbers compare by numeric value,
// text by bytes, formulas by source text. Two sequence blocks are
// equal only when they share one state.
func (v Value) Equal(o Value) bool {
	if v.Tag() != o.Tag() {
		return false
	}
	switch v.Tag() {
	case TagNumber:
		a, _ := v.AsNumber()
		b, _ := o.AsNumber()
		return a.Equal(b)
	case TagText:
		a, _ := v.AsText()
		b, _ := o.AsText()
		return bytes.Equal(a, b)
	case TagFormula:
		a, _ := v.AsFormula()
		b, _ := o.AsFormula()
		return a.Source() == b.Source()
	default:
		return v.ref == o.ref
	}
}

// Clone returns an independently owned copy that must be released on
// its own: numbers are copied outright, text buffers are duplicated,
// formulas gain one reference. A sequence has a single advance stream
// and cannot be cloned, reported as false.
func (v Value) Clone() (Value, bool) {
	switch v.Tag() {
	case TagNumber:
		return v, true
	case TagText:
		b, _ := v.AsText()
		return FromText(append([]byte(nil), b...)), true
	case TagFormula:
		f, _ := v.AsFormula()
		return FromFormula(f), true
	default:
		return Value{}, false
	}
}
