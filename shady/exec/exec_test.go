package exec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kannanvijayan/renfrew-river/shady"
)

func regOp(reg uint8) shady.Operand { return shady.Operand{Reg: reg} }
func immOp(v int16) shady.Operand   { return shady.Operand{Imm: true, ImmValue: v} }
func dstOp(reg uint8) shady.Dest    { return shady.Dest{Reg: reg} }

func TestRunAddWritesDestination(t *testing.T) {
	program := []shady.Instruction{
		{Cond: shady.CondAlways, Kind: shady.KindAdd, Dst: dstOp(3), Src1: immOp(2), Src2: immOp(5)},
	}
	st := NewState(1)
	Run(st, program, 16)

	require.NoError(t, st.Lanes[0].Err)
	require.Equal(t, int32(7), st.Regs[0].Regs[3])
	require.Equal(t, int32(1), st.Regs[0].Regs[shady.RegPC])
}

func TestRunRespectsLaneVMID(t *testing.T) {
	program := []shady.Instruction{
		{Cond: shady.CondAlways, Kind: shady.KindAdd, Dst: dstOp(0), Src1: regOp(shady.RegVMID), Src2: immOp(0)},
	}
	st := NewState(3)
	Run(st, program, 16)

	for i := 0; i < 3; i++ {
		require.Equal(t, int32(i), st.Regs[i].Regs[0])
	}
}

func TestRunSkipsCondNeverInstruction(t *testing.T) {
	program := []shady.Instruction{
		{Cond: shady.CondNever, Kind: shady.KindAdd, Dst: dstOp(0), Src1: immOp(1), Src2: immOp(1)},
		{Cond: shady.CondAlways, Kind: shady.KindAdd, Dst: dstOp(1), Src1: immOp(9), Src2: immOp(0)},
	}
	st := NewState(1)
	Run(st, program, 16)

	require.Equal(t, int32(0), st.Regs[0].Regs[0])
	require.Equal(t, int32(9), st.Regs[0].Regs[1])
}

func TestRunSetFlagsDrivesConditionalNext(t *testing.T) {
	program := []shady.Instruction{
		{Cond: shady.CondAlways, SetFlags: true, Kind: shady.KindAdd, Dst: dstOp(0), Src1: immOp(0), Src2: immOp(0)},
		{Cond: shady.CondEqual, Kind: shady.KindAdd, Dst: dstOp(1), Src1: immOp(1), Src2: immOp(0)},
		{Cond: shady.CondNotEqual, Kind: shady.KindAdd, Dst: dstOp(2), Src1: immOp(1), Src2: immOp(0)},
	}
	st := NewState(1)
	Run(st, program, 16)

	require.Equal(t, int32(1), st.Regs[0].Regs[1])
	require.Equal(t, int32(0), st.Regs[0].Regs[2])
}

func TestRunCallRetRoundTrip(t *testing.T) {
	// Call/ret use an unrelated scratch register (10) as their
	// destination so the arithmetic every instruction performs doesn't
	// clobber r0/r1, which carry the test's actual observations.
	//
	// 0: call 3              (pushes return address 1)
	// 1: add r0, 99, 0       <- landing site, reached only after ret
	// 2: jump 1000           halts by running the PC off the program
	// 3: add r1, 5, 0        <- function body
	// 4: ret
	const scratch = 10
	program := []shady.Instruction{
		{Cond: shady.CondAlways, Cflow: shady.CflowCall, Kind: shady.KindAdd, Dst: dstOp(scratch), Src1: immOp(3), Src2: immOp(0)},
		{Cond: shady.CondAlways, Kind: shady.KindAdd, Dst: dstOp(0), Src1: immOp(99), Src2: immOp(0)},
		{Cond: shady.CondAlways, Cflow: shady.CflowWrite, Kind: shady.KindAdd, Dst: dstOp(scratch), Src1: immOp(1000), Src2: immOp(0)},
		{Cond: shady.CondAlways, Kind: shady.KindAdd, Dst: dstOp(1), Src1: immOp(5), Src2: immOp(0)},
		{Cond: shady.CondAlways, Cflow: shady.CflowRet, Dst: dstOp(scratch)},
	}
	st := NewState(1)
	Run(st, program, 16)

	require.NoError(t, st.Lanes[0].Err)
	require.Equal(t, int32(5), st.Regs[0].Regs[1])
	require.Equal(t, int32(99), st.Regs[0].Regs[0], "ret lands back at the call's successor")
}

func TestRunCallStackOverflowStopsLane(t *testing.T) {
	// A self-call with no ret, looping until the call stack overflows.
	program := []shady.Instruction{
		{Cond: shady.CondAlways, Cflow: shady.CflowCall, Dst: dstOp(0), Src1: immOp(0), Src2: immOp(0), Kind: shady.KindAdd},
	}
	st := NewState(1)
	Run(st, program, shady.CallStackDepth+4)

	require.Error(t, st.Lanes[0].Err)
	require.Contains(t, st.Lanes[0].Err.Error(), "overflow")
	require.Less(t, st.Lanes[0].Steps, shady.CallStackDepth+4)
}

func TestRunRetUnderflowStopsLane(t *testing.T) {
	program := []shady.Instruction{
		{Cond: shady.CondAlways, Cflow: shady.CflowRet},
	}
	st := NewState(1)
	Run(st, program, 16)

	require.Error(t, st.Lanes[0].Err)
	require.Contains(t, st.Lanes[0].Err.Error(), "underflow")
}

func TestRunBudgetExhaustionStopsLaneWithoutError(t *testing.T) {
	program := []shady.Instruction{
		{Cond: shady.CondAlways, Cflow: shady.CflowWrite, Dst: dstOp(0), Src1: immOp(0), Src2: immOp(0), Kind: shady.KindAdd},
	}
	st := NewState(1)
	Run(st, program, 10)

	require.NoError(t, st.Lanes[0].Err)
	require.Equal(t, 10, st.Lanes[0].Steps)
}

func TestRunIndirectDestinationWrite(t *testing.T) {
	// r0 = 4 (the index to write through), then add writes dest indirect
	// through r0, landing in r4.
	program := []shady.Instruction{
		{Cond: shady.CondAlways, Kind: shady.KindAdd, Dst: dstOp(0), Src1: immOp(4), Src2: immOp(0)},
		{Cond: shady.CondAlways, Kind: shady.KindAdd, Dst: shady.Dest{Reg: 0, Indirect: true}, Src1: immOp(42), Src2: immOp(0)},
	}
	st := NewState(1)
	Run(st, program, 16)

	require.Equal(t, int32(42), st.Regs[0].Regs[4])
}
