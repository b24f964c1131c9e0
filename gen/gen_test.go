package gen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kannanvijayan/renfrew-river/shady"
)

var allSteps = []StepKind{RandGen, InitializeCell, PairwiseStep, PairwiseMerge, Finalize}

// Property 10: from each step's source phase, every step not allowed
// from that phase is rejected without changing the phase, and the
// allowed steps succeed. CellInitialized allows both PairwiseStep and
// Finalize, so each of those is checked to succeed there rather than
// to be rejected.
func TestMachineRejectsEveryDisallowedStep(t *testing.T) {
	for step, t2 := range allowed {
		m := NewMachine()
		m.phase = t2.From
		for _, other := range allSteps {
			if other == step {
				continue
			}
			if a := allowed[other]; a.From == t2.From {
				alt := NewMachine()
				alt.phase = a.From
				require.NoError(t, alt.TakeStep(other))
				continue
			}
			before := m.Phase()
			err := m.TakeStep(other)
			require.Error(t, err)
			require.Equal(t, before, m.Phase())
		}
		require.NoError(t, m.TakeStep(step))
		require.Equal(t, t2.To, m.Phase())
	}
}

func TestMachineFullCycleAndPairwiseLoop(t *testing.T) {
	m := NewMachine()
	require.Equal(t, NewlyCreated, m.Phase())

	require.NoError(t, m.TakeStep(RandGen))
	require.Equal(t, PreInitialize, m.Phase())

	require.NoError(t, m.TakeStep(InitializeCell))
	require.Equal(t, CellInitialized, m.Phase())

	for i := 0; i < 3; i++ {
		require.NoError(t, m.TakeStep(PairwiseStep))
		require.Equal(t, PreMerge, m.Phase())
		require.NoError(t, m.TakeStep(PairwiseMerge))
		require.Equal(t, CellInitialized, m.Phase())
	}

	require.NoError(t, m.TakeStep(Finalize))
	require.Equal(t, Finalized, m.Phase())
}

// S5. From NewlyCreated, TakeGenerationStep{Finalize} fails with an
// exact message and the phase is unchanged; TakeGenerationStep{RandGen}
// then succeeds and moves to PreInitialize.
func TestS5PhaseMachine(t *testing.T) {
	m := NewMachine()
	err := m.TakeStep(Finalize)
	require.EqualError(t, err, "Cannot perform Finalize step in phase NewlyCreated")
	require.Equal(t, NewlyCreated, m.Phase())

	require.NoError(t, m.TakeStep(RandGen))
	require.Equal(t, PreInitialize, m.Phase())
}

func TestProgramBufferIndexing(t *testing.T) {
	b := NewProgramBuffer()
	prog := []shady.Instruction{{}}

	idx0 := b.Insert("init", prog)
	require.Equal(t, ProgramIndex(16), idx0) // ceil((0+4)/16)*16 = 16

	idx1 := b.Insert("pairwise", prog)
	require.Equal(t, ProgramIndex(16), idx1) // ceil((1+4)/16)*16 = 16

	for i := 0; i < 11; i++ {
		b.Insert("filler", prog)
	}
	idxAfter13 := b.Insert("merge", prog)
	require.Equal(t, ProgramIndex(32), idxAfter13) // ceil((13+4)/16)*16 = 32

	gotIdx, ok := b.Lookup("init")
	require.True(t, ok)
	require.Equal(t, idx0, gotIdx)

	_, ok = b.Lookup("missing")
	require.False(t, ok)

	require.Equal(t, 14, b.Count())

	b.Reset()
	require.Equal(t, 0, b.Count())
	_, ok = b.Lookup("init")
	require.False(t, ok)

	idxFresh := b.Insert("init", prog)
	require.Equal(t, ProgramIndex(16), idxFresh)
}
