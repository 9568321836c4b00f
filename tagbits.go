package cellvalue

import "unsafe"

// Tag identifies which variant a Value block currently holds. The tag
// occupies the two low bits of the block's flags word; there is no
// separate discriminant field.
type Tag uint32

const (
	// TagNumber is zero so that embedding it is the identity operation:
	// a Number block's words are bit for bit the Decimal that built it.
	TagNumber   Tag = 0
	TagSequence Tag = 1
	TagText     Tag = 2
	TagFormula  Tag = 3
)

// tagMask covers the two flag bits that carry the tag.
const tagMask = uint32(0b11)

// tagNames maps tags to their string representations
var tagNames = map[Tag]string{
	TagNumber:   "Number",
	TagSequence: "Sequence",
	TagText:     "Text",
	TagFormula:  "Formula",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "Unknown"
}

// embedTag stamps a tag into the low bits of a payload flags word.
// The slot must already be clear: a canonical Decimal keeps its low
// flag bits zero, and the pointer variants store an all zero word.
// A dirty slot means a forged payload, which is a caller bug.
func embedTag(bits uint32, t Tag) uint32 {
	if bits&tagMask != 0 {
		panic("cellvalue: tag slot not clear, payload is not canonical")
	}
	return bits | uint32(t)
}

// extractTag reads the tag without touching the payload bits.
func extractTag(bits uint32) Tag {
	return Tag(bits & tagMask)
}

// stripTag restores the untagged payload word.
func stripTag(bits uint32) uint32 {
	return bits &^ tagMask
}

// The structs a block points at must keep their two low address bits
// free. Their alignment guarantees it; these declarations stop
// compiling if an edit ever drops an alignment below 4. Text buffers
// are exempt: a byte array may be 1 aligned, and nothing inspects the
// low bits of a text pointer.
var (
	_ [unsafe.Alignof(Formula{}) - 4]byte
	_ [unsafe.Alignof(seqState{}) - 4]byte
)

// checkPayloadAlign is the runtime half of the same contract, applied
// to pointers handed in at construction.
func checkPayloadAlign(p unsafe.Pointer) {
	if uintptr(p)&uintptr(tagMask) != 0 {
		panic("cellvalue: payload pointer is not 4 byte aligned")
	}
}
