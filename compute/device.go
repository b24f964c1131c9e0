// Package compute models the GPU compute device and typed buffers of
// spec.md §4.3 as a deterministic software implementation: no real GPU
// compute library exists anywhere in the retrieval pack (the one
// GPU-touching example wires a presentation API, not a compute one —
// see DESIGN.md), so every dispatch here runs synchronously on the
// CPU instead of a shader, while preserving the device's lifecycle
// and buffer/bind-group contracts exactly.
package compute

import (
	"sync"
	"time"
)

// Device owns the logical GPU handle and a background polling loop,
// reference-shared the way the teacher's session/broadcaster pairing
// shares a single background goroutine across many subscribers
// (api/broadcaster.go): Retain/Release stand in for Rc-style
// reference counting, since Go has no destructor to hook a Drop impl
// into.
type Device struct {
	mu        sync.Mutex
	refs      int
	stop      chan struct{}
	stopped   bool
	submitted []*ComputePass
	shaders   *ShaderRegistry
}

// pollInterval matches spec.md §4.3's "~100 Hz" polling cadence.
const pollInterval = 10 * time.Millisecond

// NewDevice creates a device with one outstanding reference and
// starts its poll loop at the default ~100 Hz cadence.
func NewDevice() *Device {
	return NewDeviceWithPollInterval(pollInterval)
}

// NewDeviceWithPollInterval creates a device whose background poll
// loop runs at the given cadence instead of the default, so a daemon
// can trade poll responsiveness against idle CPU use (config's
// Generation.DeviceTickIntervalMs).
func NewDeviceWithPollInterval(interval time.Duration) *Device {
	d := &Device{refs: 1, stop: make(chan struct{}), shaders: newShaderRegistry()}
	go d.pollLoop(interval)
	return d
}

// Shaders returns the device's named shader module registry. Buffers,
// bind groups, and shaders are all created through the device
// (spec.md §4.3); this is the shader side of that contract.
func (d *Device) Shaders() *ShaderRegistry {
	return d.shaders
}

func (d *Device) pollLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			// A real device polls driver callbacks here; the software
			// device has no outstanding async work to service, since
			// Submit runs each pass synchronously.
		case <-d.stop:
			return
		}
	}
}

// Retain increments the reference count and returns d, for call sites
// that want to keep the device alive alongside an existing owner
// (e.g. a second world sharing one device).
func (d *Device) Retain() *Device {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refs++
	return d
}

// Release drops a reference. When the last reference is released the
// poll loop is stopped and the device is no longer usable.
func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refs--
	if d.refs <= 0 && !d.stopped {
		d.stopped = true
		close(d.stop)
	}
}

// Submit records pass and runs fn synchronously, the software
// stand-in for "submit the encoder, then block on a wait-for-
// submission call" (spec.md §5). fn performs the actual per-cell
// work a real implementation would hand to a shader.
func (d *Device) Submit(pass *ComputePass, fn func()) {
	d.mu.Lock()
	d.submitted = append(d.submitted, pass)
	d.mu.Unlock()
	fn()
}

// SubmittedPasses returns every pass submitted so far, for tests that
// assert dispatch sizing without re-deriving it.
func (d *Device) SubmittedPasses() []*ComputePass {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*ComputePass, len(d.submitted))
	copy(out, d.submitted)
	return out
}
