package shasm

import (
	"testing"

	"github.com/kannanvijayan/renfrew-river/shady"
	"github.com/stretchr/testify/require"
)

// S2a: unknown mnemonic produces a single line-1 error whose message
// starts with "Error parsing instruction: ".
func TestS2UnknownMnemonic(t *testing.T) {
	_, errs := Parse("ifeq addd r0, r1, r2\n")
	require.True(t, errs.HasErrors())
	require.Len(t, errs.Errors, 1)
	require.Equal(t, 1, errs.Errors[0].LineNo)
	require.Contains(t, errs.Errors[0].Message, "Error parsing instruction: ")
}

// S2b: a label-patched goto resolves to offset -1.
func TestS2GotoPatchedOffset(t *testing.T) {
	prog, errs := Parse("@loop:\nadd r0, r1, r2\ngoto loop\n")
	require.False(t, errs.HasErrors())
	require.Len(t, prog, 2)
	require.Equal(t, int16(-1), prog[1].Src2.ImmValue)
	require.Equal(t, shady.CflowWrite, prog[1].Cflow)
}

func TestParseBasicArithmetic(t *testing.T) {
	prog, errs := Parse("add r0, r1, r2\nsub r3, r0, 5\n")
	require.False(t, errs.HasErrors())
	require.Len(t, prog, 2)
	require.Equal(t, shady.KindAdd, prog[0].Kind)
	require.Equal(t, shady.KindAdd, prog[1].Kind) // sub lowers to Add+negate
	require.True(t, prog[1].Src2.Negate)
	require.Equal(t, int16(5), prog[1].Src2.ImmValue)
}

func TestParseModifiers(t *testing.T) {
	prog, errs := Parse("noflags ifgt add (bump 2; neg) *r10, *r1 shift 4 neg, 7\n")
	require.False(t, errs.HasErrors())
	require.Len(t, prog, 1)
	in := prog[0]
	require.False(t, in.SetFlags)
	require.Equal(t, shady.CondGreater, in.Cond)
	require.True(t, in.Dst.Indirect)
	require.Equal(t, int8(2), in.Dst.Bump)
	require.True(t, in.Dst.Negate)
	require.True(t, in.Src1.Indirect)
	require.Equal(t, int8(4), in.Src1.Shift)
	require.True(t, in.Src1.Negate)
}

func TestParseImm32LoadAndRet(t *testing.T) {
	prog, errs := Parse("imm32load r0, 100000\nret\n")
	require.False(t, errs.HasErrors())
	require.True(t, len(prog) > 1)
	require.Equal(t, shady.CflowRet, prog[len(prog)-1].Cflow)
}

func TestParseAccumulatesMultipleErrors(t *testing.T) {
	_, errs := Parse("bogus1 r0, r1, r2\nbogus2 r0, r1, r2\n")
	require.Len(t, errs.Errors, 2)
	require.Equal(t, 1, errs.Errors[0].LineNo)
	require.Equal(t, 2, errs.Errors[1].LineNo)
}

func TestParseEmptyLinesIgnored(t *testing.T) {
	prog, errs := Parse("\nadd r0, r1, r2\n\n\n")
	require.False(t, errs.HasErrors())
	require.Len(t, prog, 1)
}
