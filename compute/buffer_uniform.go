package compute

// UniformBuffer holds a single value, initialized at creation and
// replaceable wholesale (spec.md §4.3).
type UniformBuffer[T any] struct {
	codec Codec[T]
	value T
}

// NewUniformBuffer allocates a uniform buffer holding initial.
func NewUniformBuffer[T any](dev *Device, codec Codec[T], initial T) *UniformBuffer[T] {
	return &UniformBuffer[T]{codec: codec, value: initial}
}

// Get returns the current value.
func (u *UniformBuffer[T]) Get() T { return u.value }

// Set replaces the current value.
func (u *UniformBuffer[T]) Set(v T) { u.value = v }

// Native returns the current value's GPU-native word encoding.
func (u *UniformBuffer[T]) Native() []uint32 { return u.codec.Encode(u.value) }
