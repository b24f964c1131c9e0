package task

import (
	"github.com/kannanvijayan/renfrew-river/bitfield"
	"github.com/kannanvijayan/renfrew-river/compute"
	"github.com/kannanvijayan/renfrew-river/data"
	"github.com/kannanvijayan/renfrew-river/shady/exec"
)

// Finalize runs module's program once per cell of in, seeding
// registers from in's words via inBindings and writing the result
// into out (which may use a different word layout) via outBindings —
// spec.md §4.4: "may re-encode output into the next stage's format".
// in and out must share the same WorldDims.
func Finalize(
	dev *compute.Device,
	in *compute.MapBuffer[bitfield.CellData],
	out *compute.MapBuffer[bitfield.CellData],
	module *compute.ShaderModule,
	inBindings, outBindings []RegisterBinding,
	outNumWords int,
	budget int,
) error {
	dims := in.Dims()
	numCells := dims.Area()
	bg, err := compute.NewBindGroupBuilder(2).Add("in", in.Native()).Add("out", out.Native()).Build()
	if err != nil {
		return err
	}
	pass := compute.NewComputePass2D("finalize", dims, bg)
	var runErr error
	dev.Submit(pass, func() {
		st := exec.NewState(numCells)
		coords := make([]data.CellCoord, numCells)
		for row := uint16(0); row < dims.Rows; row++ {
			for col := uint16(0); col < dims.Columns; col++ {
				coord := data.CellCoord{Col: col, Row: row}
				idx := dims.CoordIndex(coord)
				cell, err := in.Get(coord)
				if err != nil {
					runErr = err
					return
				}
				coords[idx] = coord
				Seed(inBindings, cell, &st.Lanes[idx].Regs.Regs)
			}
		}

		exec.Run(st, module.Bitcode, budget)

		for idx := 0; idx < numCells; idx++ {
			if st.Lanes[idx].Err != nil {
				runErr = st.Lanes[idx].Err
				return
			}
			result := make(bitfield.CellData, outNumWords)
			Apply(outBindings, st.Lanes[idx].Regs.Regs, result)
			if err := out.Set(coords[idx], result); err != nil {
				runErr = err
				return
			}
		}
	})
	pass.Finish(8, 8)
	return runErr
}
