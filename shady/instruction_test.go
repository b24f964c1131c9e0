package shady

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstructionRoundTrip(t *testing.T) {
	cases := []Instruction{
		{
			Cond: CondAlways, SetFlags: true, Kind: KindAdd, Cflow: CflowNone,
			Dst:  Dest{Reg: 0},
			Src1: Operand{Reg: 1},
			Src2: Operand{Reg: 2},
		},
		{
			Cond: CondEqual, Kind: KindMax, Cflow: CflowRet,
			Dst:  Dest{Reg: 240, Negate: true, Bump: -64, Indirect: true},
			Src1: Operand{Imm: true, ImmValue: -32768},
			Src2: Operand{Reg: 5, Shift: 31, Negate: true, Indirect: true},
		},
		{
			Cond: CondGreaterEqual, Shift16Src2: true, Kind: KindBitXor, Cflow: CflowCall,
			Dst:  Dest{Reg: 99, Bump: 63},
			Src1: Operand{Reg: 10, Shift: -32},
			Src2: Operand{Imm: true, ImmValue: 32767},
		},
	}
	for _, in := range cases {
		native := in.ToNative()
		got := InstructionFromNative(native)
		require.Equal(t, in, got)
	}
}

// S1: assemble `add r0, r1, r2` and check the exact native form.
func TestS1AddBitcode(t *testing.T) {
	in := Instruction{
		Cond: CondAlways, SetFlags: true, Kind: KindAdd, Cflow: CflowNone,
		Dst:  Dest{Reg: 0},
		Src1: Operand{Reg: 1},
		Src2: Operand{Reg: 2},
	}
	native := in.ToNative()
	back := InstructionFromNative(native)
	require.Equal(t, in, back)
	require.Equal(t, CondAlways, back.Cond)
	require.True(t, back.SetFlags)
	require.Equal(t, KindAdd, back.Kind)
	require.Equal(t, uint8(0), back.Dst.Reg)
	require.Equal(t, uint8(1), back.Src1.Reg)
	require.Equal(t, uint8(2), back.Src2.Reg)
}
