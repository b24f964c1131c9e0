package shady

import "fmt"

// Cond is the 3-bit condition code gating whether an instruction's
// effects (register write, flag update, control flow) are applied.
type Cond uint8

const (
	CondNever Cond = iota
	CondEqual
	CondLess
	CondLessEqual
	CondGreater
	CondGreaterEqual
	CondNotEqual
	CondAlways
)

var condNames = map[Cond]string{
	CondNever: "never", CondEqual: "eq", CondLess: "lt", CondLessEqual: "le",
	CondGreater: "gt", CondGreaterEqual: "ge", CondNotEqual: "ne", CondAlways: "al",
}

func (c Cond) String() string {
	if s, ok := condNames[c]; ok {
		return s
	}
	return fmt.Sprintf("cond(%d)", uint8(c))
}

// Kind is the 3-bit arithmetic/logic operation. Subtraction is Add with
// negate on a source; Min is Max with both sources and the destination
// negated (spec.md §3).
type Kind uint8

const (
	KindAdd Kind = iota
	KindMul
	KindDiv
	KindMod
	KindBitAnd
	KindBitOr
	KindBitXor
	KindMax
)

var kindNames = map[Kind]string{
	KindAdd: "add", KindMul: "mul", KindDiv: "div", KindMod: "mod",
	KindBitAnd: "bitand", KindBitOr: "bitor", KindBitXor: "bitxor", KindMax: "max",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Cflow is the 3-bit control-flow tag.
type Cflow uint8

const (
	CflowNone Cflow = iota
	CflowWrite
	_ // 2 is unused
	CflowCall
	CflowRet
)

func (c Cflow) String() string {
	switch c {
	case CflowNone:
		return "none"
	case CflowWrite:
		return "write"
	case CflowCall:
		return "call"
	case CflowRet:
		return "ret"
	default:
		return fmt.Sprintf("cflow(%d)", uint8(c))
	}
}

// Operand is a decoded source operand: either a sign-extended 16-bit
// immediate, or a register reference with optional indirection, shift,
// and negation.
type Operand struct {
	Imm       bool
	ImmValue  int16 // valid when Imm
	Reg       uint8 // valid when !Imm
	Indirect  bool  // register's value is itself used as a register index
	Shift     int8  // signed, -32..31; arithmetic right if negative, left if positive
	Negate    bool
}

// Dest is a decoded destination operand.
type Dest struct {
	Reg      uint8
	Indirect bool // reg (or regs[reg] if Indirect) addresses the real destination
	Negate   bool
	Bump     int8 // signed, -64..63; added to an indirect destination index before write
}

// Instruction is the fully decoded form of one 64-bit Shady bitcode
// word pair.
type Instruction struct {
	Cond        Cond
	SetFlags    bool
	Shift16Src2 bool
	Kind        Kind
	Cflow       Cflow
	Dst         Dest
	Src1        Operand
	Src2        Operand
}

// ToNative encodes the instruction into its two-word wire form (low
// half first), per spec.md §3's bit-for-bit layout.
func (in Instruction) ToNative() [2]uint32 {
	op := uint32(in.Cond) & 0x7
	if in.SetFlags {
		op |= 1 << 3
	}
	if in.Src1.Imm {
		op |= 1 << 4
	}
	if in.Src2.Imm {
		op |= 1 << 5
	}
	if in.Shift16Src2 {
		op |= 1 << 6
	}
	if in.Src1.Indirect {
		op |= 1 << 7
	}
	if in.Src2.Indirect {
		op |= 1 << 8
	}
	if in.Dst.Indirect {
		op |= 1 << 9
	}
	op |= (uint32(in.Kind) & 0x7) << 10
	op |= (uint32(in.Cflow) & 0x7) << 13

	dst := uint32(in.Dst.Reg) & 0xFF
	if in.Dst.Negate {
		dst |= 1 << 8
	}
	dst |= (uint32(biasBump(in.Dst.Bump))) << 9

	half0 := op | (dst << 16)
	half1 := encodeSrcWord(in.Src1) | (encodeSrcWord(in.Src2) << 16)
	return [2]uint32{half0, half1}
}

// InstructionFromNative decodes a two-word wire form back into an
// Instruction.
func InstructionFromNative(words [2]uint32) Instruction {
	op := words[0] & 0xFFFF
	dst := (words[0] >> 16) & 0xFFFF
	src1 := words[1] & 0xFFFF
	src2 := (words[1] >> 16) & 0xFFFF

	in := Instruction{
		Cond:        Cond(op & 0x7),
		SetFlags:    op&(1<<3) != 0,
		Shift16Src2: op&(1<<6) != 0,
		Kind:        Kind((op >> 10) & 0x7),
		Cflow:       Cflow((op >> 13) & 0x7),
	}
	immSrc1 := op&(1<<4) != 0
	immSrc2 := op&(1<<5) != 0
	indSrc1 := op&(1<<7) != 0
	indSrc2 := op&(1<<8) != 0
	indDst := op&(1<<9) != 0

	in.Dst = Dest{
		Reg:      uint8(dst & 0xFF),
		Negate:   dst&(1<<8) != 0,
		Bump:     unbiasBump(uint8((dst >> 9) & 0x7F)),
		Indirect: indDst,
	}
	in.Src1 = decodeSrcWord(uint16(src1), immSrc1, indSrc1)
	in.Src2 = decodeSrcWord(uint16(src2), immSrc2, indSrc2)
	return in
}

func encodeSrcWord(o Operand) uint32 {
	if o.Imm {
		return uint32(uint16(o.ImmValue))
	}
	w := uint32(o.Reg) & 0xFF
	if o.Negate {
		w |= 1 << 8
	}
	w |= uint32(biasShift(o.Shift)) << 10
	return w
}

func decodeSrcWord(w uint16, imm, indirect bool) Operand {
	if imm {
		return Operand{Imm: true, ImmValue: int16(w)}
	}
	return Operand{
		Reg:      uint8(w & 0xFF),
		Negate:   w&(1<<8) != 0,
		Shift:    unbiasShift(uint8((w >> 10) & 0x3F)),
		Indirect: indirect,
	}
}

// Shift is biased: stored = value+32, range -32..31 (6 bits).
func biasShift(v int8) uint8  { return uint8(int16(v) + 32) }
func unbiasShift(v uint8) int8 { return int8(int16(v) - 32) }

// Bump is biased: stored = value+64, range -64..63 (7 bits).
func biasBump(v int8) uint8  { return uint8(int16(v) + 64) }
func unbiasBump(v uint8) int8 { return int8(int16(v) - 64) }
