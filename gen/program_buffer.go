package gen

import "github.com/kannanvijayan/renfrew-river/shady"

// programPad and programAlign are the PAD/ALIGN constants of spec.md
// §4.5's ProgramIndex formula.
const (
	programPad   = 4
	programAlign = 16
)

// ProgramIndex is the aligned instruction offset a named program lives
// at within a stage's program buffer.
type ProgramIndex uint32

type namedProgram struct {
	name   string
	index  ProgramIndex
	instrs []shady.Instruction
}

// ProgramBuffer holds one stage's programs contiguously, each indexed
// by a ProgramIndex assigned at insertion (spec.md §4.5). The zero
// value is not usable; construct with NewProgramBuffer.
type ProgramBuffer struct {
	programs []namedProgram
	names    map[string]ProgramIndex
}

// NewProgramBuffer returns an empty program buffer.
func NewProgramBuffer() *ProgramBuffer {
	return &ProgramBuffer{names: make(map[string]ProgramIndex)}
}

// nextIndex computes the ProgramIndex the next inserted program would
// receive: ceil((count + PAD) / ALIGN) * ALIGN, where count is the
// number of programs already held (spec.md §4.5).
func (b *ProgramBuffer) nextIndex() ProgramIndex {
	n := len(b.programs) + programPad
	n = ((n + programAlign - 1) / programAlign) * programAlign
	return ProgramIndex(n)
}

// Insert adds a named program and returns its assigned index.
// Inserting a name already present shadows its old entry in the name
// table but does not remove the stale slot from programs — callers
// rewriting a stage's programs call Reset first (spec.md §4.5:
// "Rewriting the stage's programs invalidates all indices").
func (b *ProgramBuffer) Insert(name string, instrs []shady.Instruction) ProgramIndex {
	idx := b.nextIndex()
	b.programs = append(b.programs, namedProgram{name: name, index: idx, instrs: instrs})
	b.names[name] = idx
	return idx
}

// Lookup resolves a program name to its ProgramIndex.
func (b *ProgramBuffer) Lookup(name string) (ProgramIndex, bool) {
	idx, ok := b.names[name]
	return idx, ok
}

// Program returns the bitcode inserted under name.
func (b *ProgramBuffer) Program(name string) ([]shady.Instruction, bool) {
	for _, p := range b.programs {
		if p.name == name {
			return p.instrs, true
		}
	}
	return nil, false
}

// Count returns how many programs are currently held.
func (b *ProgramBuffer) Count() int { return len(b.programs) }

// Reset clears every program and name entry, invalidating every
// previously returned ProgramIndex.
func (b *ProgramBuffer) Reset() {
	b.programs = nil
	b.names = make(map[string]ProgramIndex)
}
