// Package shady defines the Shady VM's instruction set: register file
// layout, the 64-bit bitcode encoding, and the condition/operation/
// control-flow vocabularies shared by the assembler (shady/asm), the
// text parser (shady/shasm), and the reference interpreter
// (shady/exec).
package shady

// Register file layout (spec.md §3). Indices 0..=239 are
// general-purpose; 240 is VMID (read-only lane id); 241 is PC.
const (
	NumRegisters = 256

	FirstGeneralRegister = 0
	LastGeneralRegister  = 239

	RegVMID = 240
	RegPC   = 241

	// CallStackBase..CallStackTop reserve a fixed-depth range shady/exec
	// uses as the VM's call stack (pushing past its depth is an error) for Call/Ret control flow (the source
	// leaves this implementation-defined; see DESIGN.md). These
	// registers remain addressable as ordinary general-purpose
	// registers by the bitcode format: neither shady/asm nor
	// shady/shasm rejects a program that writes them directly, so a
	// program sharing this range with Call/Ret can corrupt its own
	// return addresses. Callers that use Call/Ret must avoid this range
	// by convention.
	CallStackDepth = 16
	CallStackBase  = LastGeneralRegister - CallStackDepth + 1 // 224
	CallStackTop   = LastGeneralRegister                      // 239
)

// RegisterFile holds one VM lane's 256 signed 32-bit registers. The
// interpreter-private call-stack pointer is not part of it; it lives in
// shady/exec.Lane.
type RegisterFile struct {
	Regs [NumRegisters]int32
}

// Reset zeroes every general-purpose register and PC, leaving VMID
// untouched (it is assigned once per lane at dispatch).
func (r *RegisterFile) Reset() {
	for i := range r.Regs {
		if i == RegVMID {
			continue
		}
		r.Regs[i] = 0
	}
}
