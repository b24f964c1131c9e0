package compute

// Codec describes a value type's GPU-native encoding: a bijective
// mapping to a fixed number of u32 words (spec.md §4.3's GpuType
// constraint). Grounded on the teacher's vm/safeconv.go safe-
// conversion helpers, generalized from single scalar casts to a
// words-per-element encode/decode pair so SeqBuffer/MapBuffer can
// stay generic over T.
type Codec[T any] struct {
	Words  int
	Encode func(T) []uint32
	Decode func([]uint32) T
}

// Uint32Codec is the identity encoding for a single u32 word.
var Uint32Codec = Codec[uint32]{
	Words:  1,
	Encode: func(v uint32) []uint32 { return []uint32{v} },
	Decode: func(w []uint32) uint32 { return w[0] },
}

// Int32Codec reinterprets a single u32 word as a signed value; the
// bit pattern is preserved exactly (no range loss), matching the
// teacher's AsInt32 "intentional reinterpretation" helper.
var Int32Codec = Codec[int32]{
	Words:  1,
	Encode: func(v int32) []uint32 { return []uint32{uint32(v)} },
	Decode: func(w []uint32) int32 { return int32(w[0]) },
}
