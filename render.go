package cellvalue

// RenderText renders the block for display using the same tag dispatch
// the accessors use: numbers as plain decimal text, text as a copy of
// the owned buffer, formulas as their source text, and sequences as
// the #SPILL! marker, since a lazy sequence has no single cell
// rendering until an engine expands it.
//
// The returned buffer is always a fresh copy the caller owns.
func (v Value) RenderText() []byte {
	switch v.Tag() {
	case TagNumber:
		d, _ := v.AsNumber()
		return []byte(d.String())
	case TagText:
		b, _ := v.AsText()
		out := make([]byte, len(b))
		copy(out, b)
		return out
	case TagFormula:
		f, _ := v.AsFormula()
		return []byte(f.Source())
	default:
		return []byte(ErrorMapper[ErrorCodeSpill])
	}
}

// String implements fmt.Stringer over the same dispatch as RenderText.
func (v Value) String() string {
	return string(v.RenderText())
}
