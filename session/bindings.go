package session

import (
	"github.com/kannanvijayan/renfrew-river/bitfield"
	"github.com/kannanvijayan/renfrew-river/compute/task"
)

// Register layout convention for a ruleset stage's four programs
// (Open Question decision, see DESIGN.md): every cell-format component
// gets one register, assigned in word/component declaration order
// starting at 0. PairwiseStep and PairwiseMerge additionally need a
// neighbour's copy of those same components and a scratch slot per
// component to carry a step's output into merge; rather than make a
// ruleset author declare three register sets, they are derived
// mechanically from the same per-component assignment by fixed
// offsets, so every stage program only ever has to know one thing:
// "my own fields start at register 0".
const (
	neighborRegisterOffset  = 64
	contribRegisterOffset   = 128
	maxStageFormatRegisters = 64
)

// stageBindings assigns one register per component of fmt, in
// declaration order.
func stageBindings(fmt bitfield.FormatRules) []task.RegisterBinding {
	var out []task.RegisterBinding
	reg := uint8(0)
	for wi, w := range fmt.Words {
		for _, c := range w.Components {
			out = append(out, task.RegisterBinding{
				Register: reg,
				Selector: bitfield.FormatComponentSelector{
					Word:   uint8(wi),
					Offset: c.Offset,
					Bits:   c.Bits,
				},
			})
			reg++
		}
	}
	return out
}

// stagePairwiseConfig derives the neighbour bindings and the
// PairwiseConfig a stage's PairwiseStep/PairwiseMerge programs run
// with, from the same cellBindings list.
func stagePairwiseConfig(cellBindings []task.RegisterBinding) ([]task.RegisterBinding, task.PairwiseConfig) {
	neighborBindings := make([]task.RegisterBinding, len(cellBindings))
	contribRegs := make([]uint8, len(cellBindings))
	for i, b := range cellBindings {
		neighborBindings[i] = task.RegisterBinding{
			Register: b.Register + neighborRegisterOffset,
			Selector: b.Selector,
		}
		contribRegs[i] = b.Register + contribRegisterOffset
	}
	cfg := task.PairwiseConfig{
		Neighborhood:     task.Neighborhood4,
		OutputRegisters:  contribRegs,
		ContribRegisters: contribRegs,
	}
	return neighborBindings, cfg
}
