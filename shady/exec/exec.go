// Package exec is the Shady VM's CPU reference interpreter: the
// execution semantics of spec.md §4.2, written once so both unit tests
// and the software compute.Device (which has no real GPU backend to
// dispatch through — see DESIGN.md) can run the same bitcode the same
// way. It plays the role the teacher's vm/executor.go plays for ARM.
package exec

import (
	"fmt"

	"github.com/kannanvijayan/renfrew-river/shady"
)

// Flags holds the VM's condition flags, derived from the last
// set_flags-tagged instruction's computed result.
type Flags struct {
	Zero     bool
	Negative bool
	Positive bool
}

// Eval reports whether cond is satisfied by these flags.
func (f Flags) Eval(cond shady.Cond) bool {
	switch cond {
	case shady.CondNever:
		return false
	case shady.CondEqual:
		return f.Zero
	case shady.CondLess:
		return f.Negative
	case shady.CondLessEqual:
		return f.Negative || f.Zero
	case shady.CondGreater:
		return f.Positive
	case shady.CondGreaterEqual:
		return f.Positive || f.Zero
	case shady.CondNotEqual:
		return !f.Zero
	case shady.CondAlways:
		return true
	default:
		return false
	}
}

// Lane is one VM lane's private execution state: its register file,
// flags, and call stack pointer (the call stack itself lives in the
// reserved shady.CallStackBase..Top register range — see
// DESIGN.md's Open Question decision).
type Lane struct {
	Regs  shady.RegisterFile
	Flags Flags
	csp   int
	Err   error
	Steps int
}

// State is the execution state of every lane in one dispatch.
type State struct {
	Regs []shady.RegisterFile // exported view mirrored from lanes after Run
	Lanes []Lane
}

// NewState allocates numLanes lanes, each with VMID set to its lane
// index (spec.md §3).
func NewState(numLanes int) *State {
	st := &State{
		Regs:  make([]shady.RegisterFile, numLanes),
		Lanes: make([]Lane, numLanes),
	}
	for i := range st.Lanes {
		st.Lanes[i].Regs.Regs[shady.RegVMID] = int32(i)
	}
	return st
}

// sync copies each lane's register file into the exported Regs slice;
// called after Run so callers (and tests) can read st.Regs directly.
func (st *State) sync() {
	for i := range st.Lanes {
		st.Regs[i] = st.Lanes[i].Regs
	}
}

// Run executes program on every lane of st, up to budget instructions
// per lane. A lane that hits a call-stack overflow/underflow records
// the error in st.Lanes[i].Err and stops; other lanes are unaffected.
func Run(st *State, program []shady.Instruction, budget int) {
	for i := range st.Lanes {
		runLane(&st.Lanes[i], program, budget)
	}
	st.sync()
}

func runLane(l *Lane, program []shady.Instruction, budget int) {
	for step := 0; step < budget; step++ {
		pc := l.Regs.Regs[shady.RegPC]
		if pc < 0 || int(pc) >= len(program) {
			return
		}
		l.Steps++
		if !stepOnce(l, program[pc]) {
			return
		}
	}
}

// stepOnce executes one instruction and returns false if the lane must
// stop (a call-stack fault).
func stepOnce(l *Lane, in shady.Instruction) bool {
	pc := l.Regs.Regs[shady.RegPC]

	if !l.Flags.Eval(in.Cond) {
		l.Regs.Regs[shady.RegPC] = pc + 1
		return true
	}

	src1 := resolveOperand(l, in.Src1, false)
	src2 := resolveOperand(l, in.Src2, in.Shift16Src2)

	result := applyKind(in.Kind, src1, src2)
	if in.Dst.Negate {
		result = -result
	}

	destReg := resolveDestReg(l, in.Dst)
	writeRegister(l, destReg, result)

	if in.SetFlags {
		l.Flags = Flags{Zero: result == 0, Negative: result < 0, Positive: result > 0}
	}

	switch in.Cflow {
	case shady.CflowNone:
		l.Regs.Regs[shady.RegPC] = pc + 1
	case shady.CflowWrite:
		l.Regs.Regs[shady.RegPC] = result
	case shady.CflowCall:
		if err := push(l, pc+1); err != nil {
			l.Err = err
			return false
		}
		l.Regs.Regs[shady.RegPC] = result
	case shady.CflowRet:
		target, err := pop(l)
		if err != nil {
			l.Err = err
			return false
		}
		l.Regs.Regs[shady.RegPC] = target
	}
	return true
}

func resolveOperand(l *Lane, op shady.Operand, forceShift16 bool) int32 {
	var value int32
	if op.Imm {
		value = int32(op.ImmValue)
	} else {
		value = l.Regs.Regs[op.Reg&0xFF]
		if op.Indirect {
			idx := uint8(value) & 0xFF
			value = l.Regs.Regs[idx]
		}
	}

	if forceShift16 {
		value = int32(uint32(value) << 16)
	} else if op.Shift > 0 {
		value = int32(uint32(value) << uint(op.Shift))
	} else if op.Shift < 0 {
		value = value >> uint(-op.Shift)
	}

	if op.Negate {
		value = -value
	}
	return value
}

func resolveDestReg(l *Lane, d shady.Dest) uint8 {
	base := uint16(d.Reg)
	if d.Indirect {
		base = uint16(uint8(l.Regs.Regs[d.Reg&0xFF]) & 0xFF)
	}
	return uint8((int16(base) + int16(d.Bump)) & 0xFF)
}

func writeRegister(l *Lane, reg uint8, value int32) {
	if reg == shady.RegVMID {
		return // read-only
	}
	l.Regs.Regs[reg] = value
}

func applyKind(k shady.Kind, a, b int32) int32 {
	switch k {
	case shady.KindAdd:
		return a + b
	case shady.KindMul:
		return a * b
	case shady.KindDiv:
		if b == 0 {
			return 0
		}
		return a / b
	case shady.KindMod:
		if b == 0 {
			return 0
		}
		return a % b
	case shady.KindBitAnd:
		return a & b
	case shady.KindBitOr:
		return a | b
	case shady.KindBitXor:
		return a ^ b
	case shady.KindMax:
		if a > b {
			return a
		}
		return b
	default:
		return 0
	}
}

func push(l *Lane, value int32) error {
	if l.csp >= shady.CallStackDepth {
		return fmt.Errorf("shady call stack overflow (depth %d)", shady.CallStackDepth)
	}
	l.Regs.Regs[shady.CallStackBase+l.csp] = value
	l.csp++
	return nil
}

func pop(l *Lane) (int32, error) {
	if l.csp <= 0 {
		return 0, fmt.Errorf("shady call stack underflow")
	}
	l.csp--
	return l.Regs.Regs[shady.CallStackBase+l.csp], nil
}
