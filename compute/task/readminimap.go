package task

import (
	"fmt"

	"github.com/kannanvijayan/renfrew-river/bitfield"
	"github.com/kannanvijayan/renfrew-river/compute"
	"github.com/kannanvijayan/renfrew-river/data"
)

// ReadMinimapData downsamples cells to miniDims, which must tile
// evenly into the world (spec.md §4.4). Each mini-cell's value is the
// selector applied to its source block: block-max for a categorical
// component (an id naming a category has no meaningful average — see
// DESIGN.md's Open Question decision), block-average (rounded) for
// everything else.
func ReadMinimapData(
	dev *compute.Device,
	cells *compute.MapBuffer[bitfield.CellData],
	miniDims data.WorldDims,
	sel bitfield.FormatComponentSelector,
	categorical bool,
) (*data.VecMap[uint32], error) {
	worldDims := cells.Dims()
	if worldDims.Columns == 0 || worldDims.Rows == 0 || miniDims.Columns == 0 || miniDims.Rows == 0 ||
		worldDims.Columns%miniDims.Columns != 0 || worldDims.Rows%miniDims.Rows != 0 {
		return nil, fmt.Errorf("task: minimap dims %dx%d do not tile world %dx%d",
			miniDims.Columns, miniDims.Rows, worldDims.Columns, worldDims.Rows)
	}
	blockCols := worldDims.Columns / miniDims.Columns
	blockRows := worldDims.Rows / miniDims.Rows

	out := data.NewVecMap[uint32](miniDims)
	for miniRow := uint16(0); miniRow < miniDims.Rows; miniRow++ {
		for miniCol := uint16(0); miniCol < miniDims.Columns; miniCol++ {
			var max uint32
			var sum uint64
			var count uint64
			for br := uint16(0); br < blockRows; br++ {
				for bc := uint16(0); bc < blockCols; bc++ {
					coord := data.CellCoord{Col: miniCol*blockCols + bc, Row: miniRow*blockRows + br}
					cell, err := cells.Get(coord)
					if err != nil {
						return nil, err
					}
					v := cell.Get(sel)
					if v > max {
						max = v
					}
					sum += uint64(v)
					count++
				}
			}
			var value uint32
			if categorical {
				value = max
			} else {
				value = uint32((sum + count/2) / count)
			}
			out.Set(data.CellCoord{Col: miniCol, Row: miniRow}, value)
		}
	}
	return out, nil
}
