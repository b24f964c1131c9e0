package task

import (
	"github.com/kannanvijayan/renfrew-river/compute"
	"github.com/kannanvijayan/renfrew-river/data"
)

// RandGenUniforms mirrors spec.md §4.4's RandGen uniforms:
// world_dims, top_left, out_dims, seed.
type RandGenUniforms struct {
	WorldDims data.WorldDims
	TopLeft   data.CellCoord
	OutDims   data.WorldDims
	Seed      uint64
}

// RandGen emits one 32-bit pseudo-random value per cell of out,
// derived from (seed, col, row) via a fixed splittable hash so
// repeated runs with the same (seed, dims) are byte-identical
// (spec.md §8 property 6).
func RandGen(dev *compute.Device, out *compute.SeqBuffer[uint32], u RandGenUniforms) error {
	pass := compute.NewComputePass2D("randgen", u.OutDims)
	var writeErr error
	dev.Submit(pass, func() {
		for row := uint16(0); row < u.OutDims.Rows; row++ {
			for col := uint16(0); col < u.OutDims.Columns; col++ {
				abs := data.CellCoord{Col: u.TopLeft.Col + col, Row: u.TopLeft.Row + row}
				idx := u.OutDims.CoordIndex(data.CellCoord{Col: col, Row: row})
				value := HashCell(u.Seed, abs.Col, abs.Row)
				if err := out.Write(idx, []uint32{value}); err != nil {
					writeErr = err
					return
				}
			}
		}
	})
	pass.Finish(8, 8)
	return writeErr
}

// HashCell derives a deterministic pseudo-random u32 from (seed, col,
// row) using a splitmix64-based counter hash: each coordinate mixes
// the running state through splitmix64's avalanche step, so the same
// triple always produces the same output (spec.md §4.4, §8 property
// 6) regardless of call order or machine.
func HashCell(seed uint64, col, row uint16) uint32 {
	state := seed
	state ^= uint64(col) * 0x9E3779B97F4A7C15
	state = splitmix64(state)
	state ^= uint64(row) * 0xBF58476D1CE4E5B9
	state = splitmix64(state)
	return uint32(state >> 32)
}

func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
