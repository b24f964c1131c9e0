// Package task is the compute task library of spec.md §4.4: RandGen,
// InitCell, PairwiseStep, PairwiseMerge, Finalize, the map/minimap
// readout tasks, and the histogram/statistics reduction trees. Every
// task is grounded on the teacher's vm/executor.go "run one unit,
// advance state" shape (fetch the unit of work, execute it against
// shared state, record the result), generalized from "one ARM
// instruction" to "one cell/cell-pair's Shady program". The per-cell
// tasks and the reduction leaf passes are dispatched through
// compute.Device/ComputePass so the accounting from spec.md §4.3
// (dispatch sizing, bind groups) stays real even though execution
// itself runs in-process rather than on a shader; the two readout
// tasks and the reduction branch folds run directly, without a
// submitted pass.
package task

import (
	"github.com/kannanvijayan/renfrew-river/bitfield"
	"github.com/kannanvijayan/renfrew-river/compute"
)

// RegisterBinding names which lane register a ruleset program's final
// state writes into which CellData component — the "selector
// bindings" spec.md §4.4's InitCell/Finalize describe ("mutated cell
// words written through the ruleset's selector bindings; the
// program's final register state is discarded unless a selector
// writes it").
type RegisterBinding struct {
	Register uint8
	Selector bitfield.FormatComponentSelector
}

// Apply writes each bound register's final value into cell through
// its selector.
func Apply(bindings []RegisterBinding, regs [256]int32, cell bitfield.CellData) {
	for _, b := range bindings {
		cell.Set(b.Selector, uint32(regs[b.Register]))
	}
}

// Seed loads each bound selector's current value out of cell into the
// matching register, so a stage's program starts from the previous
// stage's output (spec.md §4.4: "initial cell words (may be zero)").
func Seed(bindings []RegisterBinding, cell bitfield.CellData, regs *[256]int32) {
	for _, b := range bindings {
		regs[b.Register] = int32(cell.Get(b.Selector))
	}
}

// CellDataCodec builds a compute.Codec for a fixed-width CellData
// record, numWords long.
func CellDataCodec(numWords int) compute.Codec[bitfield.CellData] {
	return compute.Codec[bitfield.CellData]{
		Words: numWords,
		Encode: func(c bitfield.CellData) []uint32 {
			out := make([]uint32, numWords)
			copy(out, c)
			return out
		},
		Decode: func(w []uint32) bitfield.CellData {
			out := make(bitfield.CellData, numWords)
			copy(out, w)
			return out
		},
	}
}
