package cellvalue

import (
	matrix "github.com/skelterjohn/go.matrix"
)

// SpillNumbers yields the given floats as Number values, the simplest
// spill producer. A float with no decimal form (NaN or an infinity)
// ends the spill early through the ordinary exhausted channel, since a
// sequence has no mid-stream error path.
func SpillNumbers(nums ...float64) Sequence {
	i := 0
	return SequenceFunc(func() (Value, bool) {
		if i >= len(nums) {
			return Value{}, false
		}
		d, err := DecimalFromFloat(nums[i])
		if err != nil {
			i = len(nums)
			return Value{}, false
		}
		i++
		return FromNumber(d), true
	})
}

// SpillMatrix walks a dense matrix row by row, yielding one Number per
// entry. This is the order in which a matrix formula's results extend
// into the cells below and to the right of their anchor. A nil matrix
// spills nothing, and a non finite entry ends the spill early the same
// way SpillNumbers does.
func SpillMatrix(m *matrix.DenseMatrix) Sequence {
	if m == nil {
		return EmptySequence()
	}
	rows, cols := m.Rows(), m.Cols()
	r, c := 0, 0
	return SequenceFunc(func() (Value, bool) {
		if r >= rows || cols == 0 {
			return Value{}, false
		}
		d, err := DecimalFromFloat(m.Get(r, c))
		if err != nil {
			r = rows
			return Value{}, false
		}
		c++
		if c == cols {
			c = 0
			r++
		}
		return FromNumber(d), true
	})
}
