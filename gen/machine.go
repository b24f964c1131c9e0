package gen

import "fmt"

// transition names the phase a step expects to run from and the phase
// it leaves the machine in.
type transition struct {
	From Phase
	To   Phase
}

// allowed is the transition table of spec.md §4.5. Pairwise step/merge
// loop between CellInitialized and PreMerge; every other step is a
// one-way move to the next phase.
var allowed = map[StepKind]transition{
	RandGen:        {From: NewlyCreated, To: PreInitialize},
	InitializeCell: {From: PreInitialize, To: CellInitialized},
	PairwiseStep:   {From: CellInitialized, To: PreMerge},
	PairwiseMerge:  {From: PreMerge, To: CellInitialized},
	Finalize:       {From: CellInitialized, To: Finalized},
}

// Machine tracks one world's position in the generation phase graph.
// The zero value is not usable; construct with NewMachine.
type Machine struct {
	phase Phase
}

// NewMachine starts a machine in NewlyCreated.
func NewMachine() *Machine {
	return &Machine{phase: NewlyCreated}
}

// Phase returns the machine's current phase.
func (m *Machine) Phase() Phase { return m.phase }

// TakeStep attempts to run step from the machine's current phase,
// advancing it on success. Any step not listed as allowed from the
// current phase is rejected without changing state (spec.md §8
// property 10, §8 S5).
func (m *Machine) TakeStep(step StepKind) error {
	t, ok := allowed[step]
	if !ok {
		return fmt.Errorf("gen: unknown step kind %d", int(step))
	}
	if m.phase != t.From {
		genLog.Printf("rejected %s from phase %s", step, m.phase)
		return fmt.Errorf("Cannot perform %s step in phase %s", step, m.phase)
	}
	genLog.Printf("%s: %s -> %s", step, m.phase, t.To)
	m.phase = t.To
	return nil
}
