package compute

import "github.com/kannanvijayan/renfrew-river/data"

// ComputePass wraps an extent, a list of bind groups, and the
// dispatch size once Finish is called (spec.md §4.3). 1-D passes
// leave ExtentY at 1.
type ComputePass struct {
	Name       string
	BindGroups []*BindGroup
	ExtentX    int
	ExtentY    int
	DispatchX  int
	DispatchY  int
	finished   bool
}

// NewComputePass1D starts a pass over a flat extent of n lanes.
func NewComputePass1D(name string, n int, groups ...*BindGroup) *ComputePass {
	return &ComputePass{Name: name, ExtentX: n, ExtentY: 1, BindGroups: groups}
}

// NewComputePass2D starts a pass over a WorldDims extent.
func NewComputePass2D(name string, dims data.WorldDims, groups ...*BindGroup) *ComputePass {
	return &ComputePass{Name: name, ExtentX: int(dims.Columns), ExtentY: int(dims.Rows), BindGroups: groups}
}

// Finish computes the dispatch size as ceil(extent/workgroup) per
// axis and records it (spec.md §4.3). workgroupY is ignored (treated
// as 1) for a 1-D pass.
func (p *ComputePass) Finish(workgroupX, workgroupY int) {
	p.DispatchX = ceilDiv(p.ExtentX, workgroupX)
	if workgroupY <= 0 {
		workgroupY = 1
	}
	p.DispatchY = ceilDiv(p.ExtentY, workgroupY)
	p.finished = true
}

func ceilDiv(n, d int) int {
	if d <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
