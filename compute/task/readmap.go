package task

import (
	"fmt"

	"github.com/kannanvijayan/renfrew-river/bitfield"
	"github.com/kannanvijayan/renfrew-river/compute"
	"github.com/kannanvijayan/renfrew-river/data"
)

// ReadMapData copies a rectangular region of cells out of cells,
// extracting each requested datum through its selector and returning
// one flattened row-major slice per datum id (spec.md §4.4).
func ReadMapData(
	dev *compute.Device,
	cells *compute.MapBuffer[bitfield.CellData],
	topLeft data.CellCoord,
	dims data.WorldDims,
	datums map[string]bitfield.FormatComponentSelector,
) (map[string][]uint32, error) {
	region, err := cells.ReadRegion(topLeft, dims)
	if err != nil {
		return nil, fmt.Errorf("task: read map data: %w", err)
	}

	out := make(map[string][]uint32, len(datums))
	for id, sel := range datums {
		values := make([]uint32, dims.Area())
		for row := uint16(0); row < dims.Rows; row++ {
			for col := uint16(0); col < dims.Columns; col++ {
				c := data.CellCoord{Col: col, Row: row}
				values[dims.CoordIndex(c)] = region.Get(c).Get(sel)
			}
		}
		out[id] = values
	}
	return out, nil
}
