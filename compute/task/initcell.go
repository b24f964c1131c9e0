package task

import (
	"github.com/kannanvijayan/renfrew-river/bitfield"
	"github.com/kannanvijayan/renfrew-river/compute"
	"github.com/kannanvijayan/renfrew-river/data"
	"github.com/kannanvijayan/renfrew-river/shady/exec"
)

// InitCell runs module's program once per cell of cells, lanes = cells
// (spec.md §4.4). Each lane's registers are seeded from the cell's
// current words through bindings, then the program runs for up to
// budget instructions; the bound registers' final values are written
// back through the same bindings. Unbound register state is
// discarded.
func InitCell(dev *compute.Device, cells *compute.MapBuffer[bitfield.CellData], module *compute.ShaderModule, bindings []RegisterBinding, budget int) error {
	dims := cells.Dims()
	numCells := dims.Area()
	bg, err := compute.NewBindGroupBuilder(1).Add("cells", cells.Native()).Build()
	if err != nil {
		return err
	}
	pass := compute.NewComputePass2D("init_cell", dims, bg)
	var runErr error
	dev.Submit(pass, func() {
		st := exec.NewState(numCells)
		coords := make([]data.CellCoord, numCells)
		cellsData := make([]bitfield.CellData, numCells)
		for row := uint16(0); row < dims.Rows; row++ {
			for col := uint16(0); col < dims.Columns; col++ {
				coord := data.CellCoord{Col: col, Row: row}
				idx := dims.CoordIndex(coord)
				cell, err := cells.Get(coord)
				if err != nil {
					runErr = err
					return
				}
				coords[idx] = coord
				cellsData[idx] = cell
				Seed(bindings, cell, &st.Lanes[idx].Regs.Regs)
			}
		}

		exec.Run(st, module.Bitcode, budget)

		for idx := 0; idx < numCells; idx++ {
			if st.Lanes[idx].Err != nil {
				runErr = st.Lanes[idx].Err
				return
			}
			out := cellsData[idx].Clone()
			Apply(bindings, st.Lanes[idx].Regs.Regs, out)
			if err := cells.Set(coords[idx], out); err != nil {
				runErr = err
				return
			}
		}
	})
	pass.Finish(8, 8)
	return runErr
}
