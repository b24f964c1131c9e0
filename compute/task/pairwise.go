package task

import (
	"github.com/kannanvijayan/renfrew-river/bitfield"
	"github.com/kannanvijayan/renfrew-river/compute"
	"github.com/kannanvijayan/renfrew-river/data"
	"github.com/kannanvijayan/renfrew-river/shady/exec"
)

// NeighborOffset is one step of a fixed neighbourhood, in (dCol,dRow)
// cell units.
type NeighborOffset struct {
	DCol int
	DRow int
}

// Neighborhood4 is the 4-neighbourhood spec.md §4.4 names as the
// typical default, in a fixed, deterministic order (N, E, S, W) that
// PairwiseStep and PairwiseMerge both iterate in, so a cell's
// contributions land at the same scratch slots both tasks agree on.
var Neighborhood4 = []NeighborOffset{
	{DCol: 0, DRow: -1},
	{DCol: 1, DRow: 0},
	{DCol: 0, DRow: 1},
	{DCol: -1, DRow: 0},
}

// PairwiseConfig configures one stage's pairwise pass: which
// registers a step program's outputs are captured from, and which
// registers a merge program's neighbour contribution is seeded into.
type PairwiseConfig struct {
	Neighborhood     []NeighborOffset
	OutputRegisters  []uint8 // K registers captured per step, in order
	ContribRegisters []uint8 // same K registers, seeded per merge fold
}

func neighbor(dims data.WorldDims, c data.CellCoord, off NeighborOffset) (data.CellCoord, bool) {
	col := int(c.Col) + off.DCol
	row := int(c.Row) + off.DRow
	if col < 0 || row < 0 || col >= int(dims.Columns) || row >= int(dims.Rows) {
		return data.CellCoord{}, false
	}
	return data.CellCoord{Col: uint16(col), Row: uint16(row)}, true
}

// PairwiseStep runs module's program once per ordered (cell, existing
// neighbour) pair in cfg.Neighborhood order, seeding the cell's own
// bound registers plus the neighbour's (via neighborBindings, which
// must target disjoint registers from cellBindings), and writes the
// configured output registers into scratch at slot
// (cellIndex*len(neighborhood) + neighborIndex) * K.
func PairwiseStep(
	dev *compute.Device,
	cells *compute.MapBuffer[bitfield.CellData],
	scratch *compute.SeqBuffer[uint32],
	module *compute.ShaderModule,
	cellBindings, neighborBindings []RegisterBinding,
	cfg PairwiseConfig,
	budget int,
) error {
	dims := cells.Dims()
	k := len(cfg.OutputRegisters)
	numPairs := dims.Area() * len(cfg.Neighborhood)
	bg, err := compute.NewBindGroupBuilder(2).Add("cells", cells.Native()).Add("scratch", scratch.Native()).Build()
	if err != nil {
		return err
	}
	pass := compute.NewComputePass2D("pairwise_step", dims, bg)
	var runErr error
	dev.Submit(pass, func() {
		st := exec.NewState(numPairs)
		valid := make([]bool, numPairs)
		for row := uint16(0); row < dims.Rows && runErr == nil; row++ {
			for col := uint16(0); col < dims.Columns && runErr == nil; col++ {
				coord := data.CellCoord{Col: col, Row: row}
				cellIdx := dims.CoordIndex(coord)
				cell, err := cells.Get(coord)
				if err != nil {
					runErr = err
					return
				}
				for ni, off := range cfg.Neighborhood {
					nc, ok := neighbor(dims, coord, off)
					if !ok {
						continue
					}
					other, err := cells.Get(nc)
					if err != nil {
						runErr = err
						return
					}

					pairIdx := cellIdx*len(cfg.Neighborhood) + ni
					lane := &st.Lanes[pairIdx]
					Seed(cellBindings, cell, &lane.Regs.Regs)
					Seed(neighborBindings, other, &lane.Regs.Regs)
					valid[pairIdx] = true
				}
			}
		}
		if runErr != nil {
			return
		}

		exec.Run(st, module.Bitcode, budget)

		for pairIdx, ok := range valid {
			if !ok {
				continue
			}
			if st.Lanes[pairIdx].Err != nil {
				runErr = st.Lanes[pairIdx].Err
				return
			}
			vals := make([]uint32, k)
			for i, reg := range cfg.OutputRegisters {
				vals[i] = uint32(st.Lanes[pairIdx].Regs.Regs[reg])
			}
			if err := scratch.Write(pairIdx*k, vals); err != nil {
				runErr = err
				return
			}
		}
	})
	pass.Finish(8, 8)
	return runErr
}

// PairwiseMerge folds each cell's existing neighbours' scratch
// contributions into its own words via module's program, one fold per
// neighbour in cfg.Neighborhood order (deterministic), carrying the
// cell's bindings forward across folds so later neighbours see
// earlier ones' effect.
func PairwiseMerge(
	dev *compute.Device,
	cells *compute.MapBuffer[bitfield.CellData],
	scratch *compute.SeqBuffer[uint32],
	module *compute.ShaderModule,
	cellBindings []RegisterBinding,
	cfg PairwiseConfig,
	budget int,
) error {
	dims := cells.Dims()
	numCells := dims.Area()
	k := len(cfg.ContribRegisters)
	bg, err := compute.NewBindGroupBuilder(2).Add("cells", cells.Native()).Add("scratch", scratch.Native()).Build()
	if err != nil {
		return err
	}
	pass := compute.NewComputePass2D("pairwise_merge", dims, bg)

	coords := make([]data.CellCoord, numCells)
	cellsData := make([]bitfield.CellData, numCells)
	for row := uint16(0); row < dims.Rows; row++ {
		for col := uint16(0); col < dims.Columns; col++ {
			coord := data.CellCoord{Col: col, Row: row}
			idx := dims.CoordIndex(coord)
			coords[idx] = coord
		}
	}

	var runErr error
	dev.Submit(pass, func() {
		for idx, coord := range coords {
			cell, err := cells.Get(coord)
			if err != nil {
				runErr = err
				return
			}
			cellsData[idx] = cell
		}

		// Folds run one neighbour direction at a time across every
		// cell at once (VMID = cell index), but the directions
		// themselves stay sequential: each fold's Seed reads the
		// previous fold's Apply, so a cell's own neighbourhood order
		// (N, E, S, W) must still happen in series.
		for ni, off := range cfg.Neighborhood {
			fold := exec.NewState(numCells)
			valid := make([]bool, numCells)
			for idx, coord := range coords {
				if _, ok := neighbor(dims, coord, off); !ok {
					continue
				}
				slot := (idx*len(cfg.Neighborhood) + ni) * k
				contrib, err := scratch.Read(slot, k)
				if err != nil {
					runErr = err
					return
				}

				lane := &fold.Lanes[idx]
				Seed(cellBindings, cellsData[idx], &lane.Regs.Regs)
				for i, reg := range cfg.ContribRegisters {
					lane.Regs.Regs[reg] = int32(contrib[i])
				}
				valid[idx] = true
			}

			exec.Run(fold, module.Bitcode, budget)

			for idx, ok := range valid {
				if !ok {
					continue
				}
				if fold.Lanes[idx].Err != nil {
					runErr = fold.Lanes[idx].Err
					return
				}
				Apply(cellBindings, fold.Lanes[idx].Regs.Regs, cellsData[idx])
			}
		}

		for idx, coord := range coords {
			if err := cells.Set(coord, cellsData[idx]); err != nil {
				runErr = err
				return
			}
		}
	})
	pass.Finish(8, 8)
	return runErr
}
