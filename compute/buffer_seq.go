package compute

import "fmt"

// SeqBuffer is a flat, length-N GPU buffer of elements with a
// well-defined native encoding (spec.md §4.3). Reads/writes are
// bounds-checked exactly like the teacher's vm/memory.go segment
// access, since the software device has no real staging-buffer
// mapping to scope.
type SeqBuffer[T any] struct {
	dev    *Device
	codec  Codec[T]
	native []uint32
	length int
}

// NewSeqBuffer allocates a zeroed buffer of length elements.
func NewSeqBuffer[T any](dev *Device, codec Codec[T], length int) *SeqBuffer[T] {
	return &SeqBuffer[T]{
		dev:    dev,
		codec:  codec,
		native: make([]uint32, length*codec.Words),
		length: length,
	}
}

// Len returns the element count.
func (b *SeqBuffer[T]) Len() int { return b.length }

func (b *SeqBuffer[T]) checkRange(offset, count int) error {
	if offset < 0 || count < 0 || offset+count > b.length {
		return fmt.Errorf("compute: seq buffer range [%d,%d) out of bounds for length %d", offset, offset+count, b.length)
	}
	return nil
}

// Read copies a sub-range [offset, offset+count) out into a fresh
// slice, the software analogue of mapping a read-staging buffer.
func (b *SeqBuffer[T]) Read(offset, count int) ([]T, error) {
	if err := b.checkRange(offset, count); err != nil {
		return nil, err
	}
	out := make([]T, count)
	w := b.codec.Words
	for i := 0; i < count; i++ {
		start := (offset + i) * w
		out[i] = b.codec.Decode(b.native[start : start+w])
	}
	return out, nil
}

// Write copies values into the buffer starting at offset.
func (b *SeqBuffer[T]) Write(offset int, values []T) error {
	if err := b.checkRange(offset, len(values)); err != nil {
		return err
	}
	w := b.codec.Words
	for i, v := range values {
		start := (offset + i) * w
		copy(b.native[start:start+w], b.codec.Encode(v))
	}
	return nil
}

// Native exposes the raw backing words, for tasks (RandGen,
// InitCell, ...) that operate on a CellDataBuffer at the word level
// rather than through the typed Read/Write API.
func (b *SeqBuffer[T]) Native() []uint32 { return b.native }

// NativeStride returns how many u32 words each element occupies.
func (b *SeqBuffer[T]) NativeStride() int { return b.codec.Words }
