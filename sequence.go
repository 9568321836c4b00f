package cellvalue

import "iter"

// Sequence is the minimal lazy sequence contract: a single advance
// operation. Next returns the next element and true, or the zero Value
// and false once the sequence is exhausted. Everything else a sequence
// can do is derived from Next by the adapters below.
//
// Produced elements transfer to the caller, including any text or
// formula resources inside them, so each one must be released.
type Sequence interface {
	Next() (Value, bool)
}

// SequenceFunc adapts a bare advance function, with its state captured
// in the closure, to a Sequence.
type SequenceFunc func() (Value, bool)

func (fn SequenceFunc) Next() (Value, bool) {
	return fn()
}

// sequenceCloser is the optional teardown a sequence may implement.
// Releasing a sequence Value runs it exactly once.
type sequenceCloser interface {
	Close()
}

// seqState is the payload a sequence tagged block owns. It fuses the
// inner sequence: after the first exhausted result the inner Next is
// never called again, so advancing past the end is a harmless no-op
// forever, even over an inner sequence that misbehaves.
type seqState struct {
	src  Sequence
	done bool
}

func (s *seqState) Next() (Value, bool) {
	if s.done || s.src == nil {
		return Value{}, false
	}
	v, ok := s.src.Next()
	if !ok {
		s.done = true
		return Value{}, false
	}
	return v, true
}

// close runs the inner teardown if there is one, then drops the inner
// sequence so a stale view held across release stays exhausted.
func (s *seqState) close() {
	if c, ok := s.src.(sequenceCloser); ok {
		c.Close()
	}
	s.src = nil
	s.done = true
}

// EmptySequence returns a sequence that is exhausted from the start.
func EmptySequence() Sequence {
	return SequenceFunc(func() (Value, bool) {
		return Value{}, false
	})
}

// SequenceOf yields the given values in order. Ownership of each value
// transfers to whoever drains the sequence.
func SequenceOf(values ...Value) Sequence {
	i := 0
	return SequenceFunc(func() (Value, bool) {
		if i >= len(values) {
			return Value{}, false
		}
		v := values[i]
		i++
		return v, true
	})
}

// NumberSequence yields the given decimals as Number values.
func NumberSequence(nums ...Decimal) Sequence {
	i := 0
	return SequenceFunc(func() (Value, bool) {
		if i >= len(nums) {
			return Value{}, false
		}
		v := FromNumber(nums[i])
		i++
		return v, true
	})
}

// Take caps seq at n elements. The rest of the inner sequence stays
// unproduced.
func Take(seq Sequence, n int) Sequence {
	taken := 0
	return SequenceFunc(func() (Value, bool) {
		if taken >= n {
			return Value{}, false
		}
		v, ok := seq.Next()
		if !ok {
			taken = n
			return Value{}, false
		}
		taken++
		return v, true
	})
}

// Map transforms each element as it is produced. fn takes ownership of
// the element it is handed and the caller owns what fn returns.
func Map(seq Sequence, fn func(Value) Value) Sequence {
	return SequenceFunc(func() (Value, bool) {
		v, ok := seq.Next()
		if !ok {
			return Value{}, false
		}
		return fn(v), true
	})
}

// Collect drains seq into a slice. The caller owns every element.
func Collect(seq Sequence) []Value {
	var out []Value
	for {
		v, ok := seq.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// Count drains seq, releasing each element, and reports how many
// elements it produced.
func Count(seq Sequence) int {
	n := 0
	for {
		v, ok := seq.Next()
		if !ok {
			return n
		}
		v.Release()
		n++
	}
}

// Values bridges a Sequence into a standard iterator for range over
// func loops. Breaking out of the loop leaves the rest of the sequence
// unproduced.
func Values(seq Sequence) iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for {
			v, ok := seq.Next()
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
