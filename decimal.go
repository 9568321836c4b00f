package cellvalue

import (
	"encoding/binary"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// MaxScale is the largest representable number of decimal places.
const MaxScale = 28

const (
	signMask   = uint32(1) << 31
	scaleShift = 16
	scaleMask  = uint32(0xFF) << scaleShift
)

// reservedMask covers every flags bit that must stay zero in a
// canonical Decimal: the low sixteen bits, where a cell value block
// embeds its variant tag, and bits 24 through 30.
const reservedMask = ^(signMask | scaleMask)

// Decimal is a fixed-width 128 bit decimal scalar: a 96 bit unsigned
// coefficient in lo, mid and hi, and a flags word carrying scale and
// sign. The represented value is coefficient / 10^scale, negated when
// the sign bit is set.
//
// flags layout:
//
//	bit  31     sign, 1 means negative
//	bits 24-30  always zero
//	bits 16-23  scale, the number of digits after the decimal point, 0 to 28
//	bits 0-15   always zero; the cell value block stores its variant tag
//	            in the lowest of these bits and strips it back out before
//	            any Decimal routine reads the word
type Decimal struct {
	flags uint32
	lo    uint32
	mid   uint32
	hi    uint32
}

var (
	bigTen = big.NewInt(10)
	bigOne = big.NewInt(1)

	// maxCoefficient is the largest coefficient that fits the three
	// 32 bit words, 2^96 - 1.
	maxCoefficient = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 96), bigOne)
)

// MaxDecimal is the largest representable value, 2^96 - 1 at scale
// zero, which prints as 79228162514264337593543950335.
var MaxDecimal = Decimal{lo: math.MaxUint32, mid: math.MaxUint32, hi: math.MaxUint32}

// MinDecimal is the negation of MaxDecimal.
var MinDecimal = Decimal{flags: signMask, lo: math.MaxUint32, mid: math.MaxUint32, hi: math.MaxUint32}

func packFlags(scale uint32, negative bool) uint32 {
	flags := scale << scaleShift
	if negative {
		flags |= signMask
	}
	return flags
}

// NewDecimal creates the value coefficient * 10^-scale. A scale above
// MaxScale is a contract violation and panics.
func NewDecimal(value int64, scale uint32) Decimal {
	if scale > MaxScale {
		panic("cellvalue: decimal scale out of range")
	}
	neg := value < 0
	u := uint64(value)
	if neg {
		u = -u
	}
	return Decimal{
		flags: packFlags(scale, neg),
		lo:    uint32(u),
		mid:   uint32(u >> 32),
	}
}

// DecimalFromInt creates a whole number at scale zero.
func DecimalFromInt(value int64) Decimal {
	return NewDecimal(value, 0)
}

// DecimalFromParts assembles a Decimal from the raw 96 bit coefficient
// words plus explicit scale and sign. Zero coefficients normalize to a
// positive sign so that canonical zero has a single bit pattern.
func DecimalFromParts(lo, mid, hi, scale uint32, negative bool) Decimal {
	if scale > MaxScale {
		panic("cellvalue: decimal scale out of range")
	}
	if lo|mid|hi == 0 {
		negative = false
	}
	return Decimal{
		flags: packFlags(scale, negative),
		lo:    lo,
		mid:   mid,
		hi:    hi,
	}
}

// DecimalFromFloat converts through the float's shortest decimal
// representation, the way the number would have been typed into a
// cell. NaN and infinities have no decimal form and report #NUM!.
func DecimalFromFloat(f float64) (Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Decimal{}, NewSpreadsheetError(ErrorCodeNum, "not a finite number")
	}
	return decimalFromBig(decimal.NewFromFloat(f))
}

// ParseDecimal parses decimal text such as "1.5", "-0.25" or "12e3".
// Malformed text reports #VALUE!; values too large for the 96 bit
// coefficient at any scale report #NUM!.
func ParseDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, NewSpreadsheetError(ErrorCodeValue, "malformed number: "+s)
	}
	return decimalFromBig(d)
}

// shiftRightRounded drops shift decimal digits from coef, rounding
// half to even.
func shiftRightRounded(coef *big.Int, shift int64) *big.Int {
	pow := new(big.Int).Exp(bigTen, big.NewInt(shift), nil)
	q, r := new(big.Int).QuoRem(coef, pow, new(big.Int))
	switch r.Lsh(r, 1).Cmp(pow) {
	case 1:
		q.Add(q, bigOne)
	case 0:
		if q.Bit(0) == 1 {
			q.Add(q, bigOne)
		}
	}
	return q
}

// decimalFromBig fits an arbitrary precision decimal into the fixed
// width form: the scale is clamped to MaxScale and the coefficient is
// reduced one digit at a time, rounding half to even, until it fits
// 96 bits. A coefficient that cannot fit at scale zero reports #NUM!.
func decimalFromBig(d decimal.Decimal) (Decimal, error) {
	neg := d.Sign() < 0
	exp := int64(d.Exponent())
	coef := new(big.Int).Abs(d.Coefficient())

	if exp > 0 {
		if coef.Sign() == 0 {
			return Decimal{}, nil
		}
		if exp > MaxScale {
			// even a one digit coefficient overflows 96 bits
			return Decimal{}, NewSpreadsheetError(ErrorCodeNum, "number out of range")
		}
		coef.Mul(coef, new(big.Int).Exp(bigTen, big.NewInt(exp), nil))
		exp = 0
	}

	scale := -exp
	if scale > MaxScale {
		shift := scale - MaxScale
		// coefficients far below the representable range round
		// straight to zero without computing the power of ten
		if float64(coef.BitLen())*0.30103+2 < float64(shift) {
			return Decimal{}, nil
		}
		coef = shiftRightRounded(coef, shift)
		scale = MaxScale
	}
	for coef.Cmp(maxCoefficient) > 0 {
		if scale == 0 {
			return Decimal{}, NewSpreadsheetError(ErrorCodeNum, "number out of range")
		}
		coef = shiftRightRounded(coef, 1)
		scale--
	}

	if coef.Sign() == 0 {
		neg = false
		scale = 0
	}
	var b [12]byte
	coef.FillBytes(b[:])
	return Decimal{
		flags: packFlags(uint32(scale), neg),
		lo:    binary.BigEndian.Uint32(b[8:12]),
		mid:   binary.BigEndian.Uint32(b[4:8]),
		hi:    binary.BigEndian.Uint32(b[0:4]),
	}, nil
}

// coefficient returns the unsigned 96 bit coefficient as a big integer.
func (d Decimal) coefficient() *big.Int {
	var b [12]byte
	binary.BigEndian.PutUint32(b[0:4], d.hi)
	binary.BigEndian.PutUint32(b[4:8], d.mid)
	binary.BigEndian.PutUint32(b[8:12], d.lo)
	return new(big.Int).SetBytes(b[:])
}

// asBig widens to the arbitrary precision form the arithmetic and
// formatting run on.
func (d Decimal) asBig() decimal.Decimal {
	coef := d.coefficient()
	if d.IsNegative() {
		coef.Neg(coef)
	}
	return decimal.NewFromBigInt(coef, -int32(d.Scale()))
}

// Scale returns the number of digits after the decimal point.
func (d Decimal) Scale() uint32 {
	return (d.flags & scaleMask) >> scaleShift
}

// IsNegative returns true if the sign bit is set.
func (d Decimal) IsNegative() bool {
	return d.flags&signMask != 0
}

// IsZero returns true if the coefficient is zero at any scale.
func (d Decimal) IsZero() bool {
	return d.lo|d.mid|d.hi == 0
}

// Sign returns -1, 0 or 1.
func (d Decimal) Sign() int {
	if d.IsZero() {
		return 0
	}
	if d.IsNegative() {
		return -1
	}
	return 1
}

// Bits returns the four raw words of the 128 bit representation.
func (d Decimal) Bits() (flags, lo, mid, hi uint32) {
	return d.flags, d.lo, d.mid, d.hi
}

// canonical reports whether every reserved flags bit is zero and the
// scale is in range. Constructors only produce canonical values.
func (d Decimal) canonical() bool {
	return d.flags&reservedMask == 0 && d.Scale() <= MaxScale
}

// Neg returns the value with its sign flipped. Zero stays positive.
func (d Decimal) Neg() Decimal {
	if d.IsZero() {
		return d
	}
	d.flags ^= signMask
	return d
}

// Abs returns the value with the sign bit cleared.
func (d Decimal) Abs() Decimal {
	d.flags &^= signMask
	return d
}

// Cmp compares two values numerically, ignoring scale differences, and
// returns -1, 0 or 1.
func (d Decimal) Cmp(o Decimal) int {
	return d.asBig().Cmp(o.asBig())
}

// Equal reports numeric equality, so 1.50 equals 1.5. Compare Bits for
// representation identity.
func (d Decimal) Equal(o Decimal) bool {
	return d.Cmp(o) == 0
}

// Add returns d + o, or #NUM! if the sum cannot be represented.
func (d Decimal) Add(o Decimal) (Decimal, error) {
	return decimalFromBig(d.asBig().Add(o.asBig()))
}

// Sub returns d - o, or #NUM! if the difference cannot be represented.
func (d Decimal) Sub(o Decimal) (Decimal, error) {
	return decimalFromBig(d.asBig().Sub(o.asBig()))
}

// Mul returns d * o, or #NUM! if the product cannot be represented.
func (d Decimal) Mul(o Decimal) (Decimal, error) {
	return decimalFromBig(d.asBig().Mul(o.asBig()))
}

// trimZeros drops trailing zero digits so that an exact quotient such
// as 1/8 comes back as 0.125 instead of 28 padded places.
func trimZeros(d decimal.Decimal) decimal.Decimal {
	coef := d.Coefficient()
	exp := d.Exponent()
	if coef.Sign() == 0 {
		return decimal.New(0, 0)
	}
	q, r := new(big.Int), new(big.Int)
	for exp < 0 {
		q.QuoRem(coef, bigTen, r)
		if r.Sign() != 0 {
			break
		}
		coef.Set(q)
		exp++
	}
	return decimal.NewFromBigInt(coef, exp)
}

// Div returns d / o carried to at most MaxScale digits, with exact
// quotients keeping their natural scale. A zero divisor reports
// #DIV/0! and a quotient too large to represent reports #NUM!.
func (d Decimal) Div(o Decimal) (Decimal, error) {
	if o.IsZero() {
		return Decimal{}, NewSpreadsheetError(ErrorCodeDiv0, "")
	}
	return decimalFromBig(trimZeros(d.asBig().DivRound(o.asBig(), MaxScale)))
}

// Float64 returns the nearest floating point value.
func (d Decimal) Float64() float64 {
	f, _ := d.asBig().Float64()
	return f
}

// String renders the plain decimal text, "1.5" for coefficient 15 at
// scale 1.
func (d Decimal) String() string {
	return d.asBig().String()
}
