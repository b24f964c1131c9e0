package compute

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kannanvijayan/renfrew-river/data"
)

func TestSeqBufferReadWriteRoundTrip(t *testing.T) {
	dev := NewDevice()
	defer dev.Release()

	buf := NewSeqBuffer[uint32](dev, Uint32Codec, 8)
	require.NoError(t, buf.Write(2, []uint32{10, 20, 30}))

	got, err := buf.Read(2, 3)
	require.NoError(t, err)
	require.Equal(t, []uint32{10, 20, 30}, got)

	_, err = buf.Read(6, 4)
	require.Error(t, err)
}

func TestMapBufferRegionRoundTrip(t *testing.T) {
	dev := NewDevice()
	defer dev.Release()

	dims := data.WorldDims{Columns: 4, Rows: 3}
	buf := NewMapBuffer[int32](dev, Int32Codec, dims)

	region := data.NewVecMap[int32](data.WorldDims{Columns: 2, Rows: 2})
	region.Set(data.CellCoord{Col: 0, Row: 0}, 1)
	region.Set(data.CellCoord{Col: 1, Row: 0}, 2)
	region.Set(data.CellCoord{Col: 0, Row: 1}, 3)
	region.Set(data.CellCoord{Col: 1, Row: 1}, 4)

	require.NoError(t, buf.WriteRegion(data.CellCoord{Col: 1, Row: 1}, region))

	got, err := buf.ReadRegion(data.CellCoord{Col: 1, Row: 1}, data.WorldDims{Columns: 2, Rows: 2})
	require.NoError(t, err)
	require.Equal(t, int32(1), got.Get(data.CellCoord{Col: 0, Row: 0}))
	require.Equal(t, int32(4), got.Get(data.CellCoord{Col: 1, Row: 1}))

	v, err := buf.Get(data.CellCoord{Col: 2, Row: 2})
	require.NoError(t, err)
	require.Equal(t, int32(4), v)
}

func TestBindGroupBuilderArityCheck(t *testing.T) {
	_, err := NewBindGroupBuilder(2).Add("uniforms", []uint32{1}).Build()
	require.Error(t, err)

	bg, err := NewBindGroupBuilder(2).Add("uniforms", []uint32{1}).Add("cells", []uint32{2, 3}).Build()
	require.NoError(t, err)
	require.Len(t, bg.Bindings, 2)
}

func TestComputePassDispatchSizing(t *testing.T) {
	p1 := NewComputePass1D("randgen", 130)
	p1.Finish(64, 0)
	require.Equal(t, 3, p1.DispatchX)
	require.Equal(t, 1, p1.DispatchY)

	p2 := NewComputePass2D("initcell", data.WorldDims{Columns: 17, Rows: 9}, nil)
	p2.Finish(8, 8)
	require.Equal(t, 3, p2.DispatchX)
	require.Equal(t, 2, p2.DispatchY)
}

func TestDeviceSubmitRunsSynchronously(t *testing.T) {
	dev := NewDevice()
	defer dev.Release()

	ran := false
	pass := NewComputePass1D("test", 1)
	dev.Submit(pass, func() { ran = true })
	require.True(t, ran)
	require.Len(t, dev.SubmittedPasses(), 1)
}

func TestUniformBuffer(t *testing.T) {
	dev := NewDevice()
	defer dev.Release()

	u := NewUniformBuffer[uint32](dev, Uint32Codec, 42)
	require.Equal(t, uint32(42), u.Get())
	u.Set(7)
	require.Equal(t, []uint32{7}, u.Native())
}

func TestNewDeviceWithPollIntervalUsable(t *testing.T) {
	dev := NewDeviceWithPollInterval(time.Millisecond)
	defer dev.Release()

	pass := NewComputePass1D("test", 1)
	ran := false
	dev.Submit(pass, func() { ran = true })
	require.True(t, ran)
}
