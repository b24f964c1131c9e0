package task

import (
	"fmt"

	"github.com/kannanvijayan/renfrew-river/bitfield"
	"github.com/kannanvijayan/renfrew-river/compute"
	"github.com/kannanvijayan/renfrew-river/data"
)

func ceilDivU16(n, d uint16) uint16 {
	return (n + d - 1) / d
}

// HistogramReduce builds the grand histogram of sel's values across
// cells, via a leaf pass (one histogram per leafBlock-sized block of
// cells) followed by a branch tree folding 4x4 blocks of
// sub-histograms (spec.md §4.4, §8 property 7). worldDims must tile
// evenly into leafBlock.
func HistogramReduce(
	dev *compute.Device,
	cells *compute.MapBuffer[bitfield.CellData],
	sel bitfield.FormatComponentSelector,
	numBuckets int,
	leafBlock data.WorldDims,
) (data.Histogram, error) {
	worldDims := cells.Dims()
	if !worldDims.TilesEvenly(leafBlock) {
		return data.Histogram{}, fmt.Errorf("task: world %dx%d does not tile evenly into leaf block %dx%d",
			worldDims.Columns, worldDims.Rows, leafBlock.Columns, leafBlock.Rows)
	}
	leafDims := data.WorldDims{Columns: worldDims.Columns / leafBlock.Columns, Rows: worldDims.Rows / leafBlock.Rows}

	grid := data.NewVecMap[data.Histogram](leafDims)
	leafPass := compute.NewComputePass2D("histogram_leaf", leafDims)
	var leafErr error
	dev.Submit(leafPass, func() {
		for gr := uint16(0); gr < leafDims.Rows; gr++ {
			for gc := uint16(0); gc < leafDims.Columns; gc++ {
				h := data.NewHistogram(numBuckets)
				for br := uint16(0); br < leafBlock.Rows; br++ {
					for bc := uint16(0); bc < leafBlock.Columns; bc++ {
						coord := data.CellCoord{Col: gc*leafBlock.Columns + bc, Row: gr*leafBlock.Rows + br}
						cell, err := cells.Get(coord)
						if err != nil {
							leafErr = err
							return
						}
						h.Add(int(cell.Get(sel)))
					}
				}
				grid.Set(data.CellCoord{Col: gc, Row: gr}, h)
			}
		}
	})
	leafPass.Finish(8, 8)
	if leafErr != nil {
		return data.Histogram{}, leafErr
	}

	dims := leafDims
	for dims.Area() > 1024 && dims.Columns >= 4 && dims.Rows >= 4 {
		nextDims := data.WorldDims{Columns: ceilDivU16(dims.Columns, 4), Rows: ceilDivU16(dims.Rows, 4)}
		next := data.NewVecMap[data.Histogram](nextDims)
		for nr := uint16(0); nr < nextDims.Rows; nr++ {
			for nc := uint16(0); nc < nextDims.Columns; nc++ {
				folded := data.NewHistogram(numBuckets)
				for dr := uint16(0); dr < 4 && nr*4+dr < dims.Rows; dr++ {
					for dc := uint16(0); dc < 4 && nc*4+dc < dims.Columns; dc++ {
						folded.Merge(grid.Get(data.CellCoord{Col: nc*4 + dc, Row: nr*4 + dr}))
					}
				}
				next.Set(data.CellCoord{Col: nc, Row: nr}, folded)
			}
		}
		grid, dims = next, nextDims
	}

	grand := data.NewHistogram(numBuckets)
	for r := uint16(0); r < dims.Rows; r++ {
		for c := uint16(0); c < dims.Columns; c++ {
			grand.Merge(grid.Get(data.CellCoord{Col: c, Row: r}))
		}
	}
	return grand, nil
}

// StatisticsReduce builds the grand Statistics tuple of sel's values
// across cells, with the same leaf/branch tree shape as
// HistogramReduce (spec.md §4.4).
func StatisticsReduce(
	dev *compute.Device,
	cells *compute.MapBuffer[bitfield.CellData],
	sel bitfield.FormatComponentSelector,
	leafBlock data.WorldDims,
) (data.Statistics, error) {
	worldDims := cells.Dims()
	if !worldDims.TilesEvenly(leafBlock) {
		return data.Statistics{}, fmt.Errorf("task: world %dx%d does not tile evenly into leaf block %dx%d",
			worldDims.Columns, worldDims.Rows, leafBlock.Columns, leafBlock.Rows)
	}
	leafDims := data.WorldDims{Columns: worldDims.Columns / leafBlock.Columns, Rows: worldDims.Rows / leafBlock.Rows}

	grid := data.NewVecMap[data.Statistics](leafDims)
	leafPass := compute.NewComputePass2D("statistics_leaf", leafDims)
	var leafErr error
	dev.Submit(leafPass, func() {
		for gr := uint16(0); gr < leafDims.Rows; gr++ {
			for gc := uint16(0); gc < leafDims.Columns; gc++ {
				var s data.Statistics
				for br := uint16(0); br < leafBlock.Rows; br++ {
					for bc := uint16(0); bc < leafBlock.Columns; bc++ {
						coord := data.CellCoord{Col: gc*leafBlock.Columns + bc, Row: gr*leafBlock.Rows + br}
						cell, err := cells.Get(coord)
						if err != nil {
							leafErr = err
							return
						}
						s = data.Merge(s, data.NewStatisticsFromValue(int64(cell.Get(sel))))
					}
				}
				grid.Set(data.CellCoord{Col: gc, Row: gr}, s)
			}
		}
	})
	leafPass.Finish(8, 8)
	if leafErr != nil {
		return data.Statistics{}, leafErr
	}

	dims := leafDims
	for dims.Area() > 1024 && dims.Columns >= 4 && dims.Rows >= 4 {
		nextDims := data.WorldDims{Columns: ceilDivU16(dims.Columns, 4), Rows: ceilDivU16(dims.Rows, 4)}
		next := data.NewVecMap[data.Statistics](nextDims)
		for nr := uint16(0); nr < nextDims.Rows; nr++ {
			for nc := uint16(0); nc < nextDims.Columns; nc++ {
				var folded data.Statistics
				for dr := uint16(0); dr < 4 && nr*4+dr < dims.Rows; dr++ {
					for dc := uint16(0); dc < 4 && nc*4+dc < dims.Columns; dc++ {
						folded = data.Merge(folded, grid.Get(data.CellCoord{Col: nc*4 + dc, Row: nr*4 + dr}))
					}
				}
				next.Set(data.CellCoord{Col: nc, Row: nr}, folded)
			}
		}
		grid, dims = next, nextDims
	}

	var grand data.Statistics
	for r := uint16(0); r < dims.Rows; r++ {
		for c := uint16(0); c < dims.Columns; c++ {
			grand = data.Merge(grand, grid.Get(data.CellCoord{Col: c, Row: r}))
		}
	}
	return grand, nil
}
