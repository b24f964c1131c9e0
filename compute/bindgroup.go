package compute

import "fmt"

// Binding is one slot of a bind group: a name (for diagnostics) and
// the raw native words of the buffer bound there. Binding 0 is
// conventionally the uniform buffer; the rest are sequential/map
// storage buffers in declaration order (spec.md §4.3).
type Binding struct {
	Name   string
	Native []uint32
}

// BindGroup is the completed, fixed-arity result of a
// BindGroupBuilder.
type BindGroup struct {
	Bindings []Binding
}

// BindGroupBuilder accumulates bindings for a shader with a known,
// fixed binding count, grounded on the teacher's encoder package's
// fixed-field instruction builder (encoder/memory.go): a short-lived
// builder scope that returns a completed, validated value.
type BindGroupBuilder struct {
	expected int
	bindings []Binding
}

// NewBindGroupBuilder starts a builder expecting exactly expected
// bindings.
func NewBindGroupBuilder(expected int) *BindGroupBuilder {
	return &BindGroupBuilder{expected: expected}
}

// Add appends one binding and returns the builder for chaining.
func (b *BindGroupBuilder) Add(name string, native []uint32) *BindGroupBuilder {
	b.bindings = append(b.bindings, Binding{Name: name, Native: native})
	return b
}

// Build validates the binding count and returns the completed group.
func (b *BindGroupBuilder) Build() (*BindGroup, error) {
	if len(b.bindings) != b.expected {
		return nil, fmt.Errorf("compute: bind group expected %d bindings, got %d", b.expected, len(b.bindings))
	}
	return &BindGroup{Bindings: b.bindings}, nil
}
