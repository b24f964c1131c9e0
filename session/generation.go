package session

import (
	"fmt"
	"time"

	"github.com/kannanvijayan/renfrew-river/bitfield"
	"github.com/kannanvijayan/renfrew-river/compute"
	"github.com/kannanvijayan/renfrew-river/compute/task"
	"github.com/kannanvijayan/renfrew-river/data"
	"github.com/kannanvijayan/renfrew-river/gen"
	"github.com/kannanvijayan/renfrew-river/ruleset"
)

// dispatchBudget bounds how many instructions a single cell/pair's
// program may execute before it is considered stuck (spec.md §4.2's
// per-dispatch instruction budget).
const dispatchBudget = 4096

// generation holds the runtime state BeginGeneration creates: the
// phase machine, the ruleset's compiled programs loaded into a
// program buffer, the software compute device, and the cell buffer
// the task library operates on (spec.md §4.5).
type generation struct {
	rules    ruleset.Ruleset
	seed     uint64
	machine  *gen.Machine
	programs *gen.ProgramBuffer
	device   *compute.Device
	cells    *compute.MapBuffer[bitfield.CellData]
	scratch  *compute.SeqBuffer[uint32]
}

func newGeneration(rules ruleset.Ruleset, desc WorldDescriptor, deviceTickInterval time.Duration) *generation {
	dev := compute.NewDeviceWithPollInterval(deviceTickInterval)
	stage := rules.TerrainGen.Stage
	numWords := stage.Format.NumWords()
	cells := compute.NewMapBuffer[bitfield.CellData](dev, task.CellDataCodec(numWords), desc.Dims)

	pb := gen.NewProgramBuffer()
	pb.Insert("init", stage.InitProgram.Bitcode)
	pb.Insert("pairwise", stage.PairwiseProgram.Bitcode)
	pb.Insert("merge", stage.MergeProgram.Bitcode)
	pb.Insert("final", stage.FinalProgram.Bitcode)

	dev.Shaders().Register("init", stage.InitProgram.Bitcode)
	dev.Shaders().Register("pairwise", stage.PairwiseProgram.Bitcode)
	dev.Shaders().Register("merge", stage.MergeProgram.Bitcode)
	dev.Shaders().Register("final", stage.FinalProgram.Bitcode)

	k := len(stageBindings(stage.Format))
	scratch := compute.NewSeqBuffer[uint32](dev, compute.Uint32Codec, desc.Dims.Area()*len(task.Neighborhood4)*k)

	return &generation{
		rules:    rules,
		seed:     desc.Seed,
		machine:  gen.NewMachine(),
		programs: pb,
		device:   dev,
		cells:    cells,
		scratch:  scratch,
	}
}

// release drops the generation's device handle; the session calls this
// when it returns to MainMenu.
func (g *generation) release() {
	g.device.Release()
}

// shaderModule looks up one of the stage's four programs by the name
// it was registered under in newGeneration.
func (g *generation) shaderModule(name string) (*compute.ShaderModule, error) {
	m, ok := g.device.Shaders().Lookup(name)
	if !ok {
		return nil, fmt.Errorf("session: shader module %q not registered", name)
	}
	return m, nil
}

func stepKindFromName(name string) (gen.StepKind, bool) {
	switch name {
	case "RandGen":
		return gen.RandGen, true
	case "InitializeCell":
		return gen.InitializeCell, true
	case "PairwiseStep":
		return gen.PairwiseStep, true
	case "PairwiseMerge":
		return gen.PairwiseMerge, true
	case "Finalize":
		return gen.Finalize, true
	default:
		return 0, false
	}
}

// takeStep validates the requested step against the phase machine,
// then dispatches the task chain it corresponds to (spec.md §4.5).
func (g *generation) takeStep(kindName string) error {
	kind, ok := stepKindFromName(kindName)
	if !ok {
		return fmt.Errorf("session: unknown generation step %q", kindName)
	}
	if err := g.machine.TakeStep(kind); err != nil {
		return err
	}

	stage := g.rules.TerrainGen.Stage
	bindings := stageBindings(stage.Format)
	dims := g.cells.Dims()

	switch kind {
	case gen.RandGen:
		return g.runRandGen(bindings, dims)
	case gen.InitializeCell:
		module, err := g.shaderModule("init")
		if err != nil {
			return err
		}
		return task.InitCell(g.device, g.cells, module, bindings, dispatchBudget)
	case gen.PairwiseStep:
		module, err := g.shaderModule("pairwise")
		if err != nil {
			return err
		}
		neighborBindings, cfg := stagePairwiseConfig(bindings)
		return task.PairwiseStep(g.device, g.cells, g.scratch, module, bindings, neighborBindings, cfg, dispatchBudget)
	case gen.PairwiseMerge:
		module, err := g.shaderModule("merge")
		if err != nil {
			return err
		}
		_, cfg := stagePairwiseConfig(bindings)
		return task.PairwiseMerge(g.device, g.cells, g.scratch, module, bindings, cfg, dispatchBudget)
	case gen.Finalize:
		module, err := g.shaderModule("final")
		if err != nil {
			return err
		}
		return task.Finalize(g.device, g.cells, g.cells, module, bindings, bindings, stage.Format.NumWords(), dispatchBudget)
	}
	return nil
}

// perlinSelector returns the selector of the component bound to the
// ruleset's configured noise register (TerrainGen.Perlin.Register), so
// runRandGen seeds the component the ruleset author actually chose
// instead of whichever one happens to be declared first.
func (g *generation) perlinSelector(bindings []task.RegisterBinding) (bitfield.FormatComponentSelector, bool) {
	want := g.rules.TerrainGen.Perlin.Register
	for _, b := range bindings {
		if b.Register == want {
			return b.Selector, true
		}
	}
	return bitfield.FormatComponentSelector{}, false
}

// runRandGen seeds every cell's configured noise component
// (TerrainGen.Perlin.Register) with a deterministic pseudo-random
// value; a ruleset's init program reads it back out through that same
// binding (spec.md §4.4, §4.5).
func (g *generation) runRandGen(bindings []task.RegisterBinding, dims data.WorldDims) error {
	sel, ok := g.perlinSelector(bindings)
	if !ok {
		return fmt.Errorf("session: no format component bound to perlin register %d", g.rules.TerrainGen.Perlin.Register)
	}
	out := compute.NewSeqBuffer[uint32](g.device, compute.Uint32Codec, dims.Area())
	if err := task.RandGen(g.device, out, task.RandGenUniforms{
		WorldDims: dims,
		OutDims:   dims,
		Seed:      g.seed,
	}); err != nil {
		return err
	}
	vals, err := out.Read(0, dims.Area())
	if err != nil {
		return err
	}
	for i, v := range vals {
		coord := dims.IndexCoord(i)
		cell, err := g.cells.Get(coord)
		if err != nil {
			return err
		}
		cell.Set(sel, v)
		if err := g.cells.Set(coord, cell); err != nil {
			return err
		}
	}
	return nil
}

// datumSelector resolves a "word.component" datum id against the
// generation's format.
func (g *generation) datumSelector(id string) (bitfield.FormatComponentSelector, bool, bool) {
	wordName, compName, ok := splitDatumID(id)
	if !ok {
		return bitfield.FormatComponentSelector{}, false, false
	}
	return g.rules.TerrainGen.Stage.Format.Lookup(wordName, compName)
}

func splitDatumID(id string) (word, component string, ok bool) {
	for i := 0; i < len(id); i++ {
		if id[i] == '.' {
			return id[:i], id[i+1:], true
		}
	}
	return "", "", false
}

func (g *generation) readMapData(topLeft data.CellCoord, dims data.WorldDims, datumIds []string) (map[string][]uint32, error) {
	selectors := make(map[string]bitfield.FormatComponentSelector, len(datumIds))
	for _, id := range datumIds {
		sel, found, _ := g.datumSelector(id)
		if !found {
			return nil, fmt.Errorf("session: unknown datum %q", id)
		}
		selectors[id] = sel
	}
	return task.ReadMapData(g.device, g.cells, topLeft, dims, selectors)
}

func (g *generation) readMinimapData(miniDims data.WorldDims, datumID string) (*data.VecMap[uint32], error) {
	sel, found, categorical := g.datumSelector(datumID)
	if !found {
		return nil, fmt.Errorf("session: unknown datum %q", datumID)
	}
	return task.ReadMinimapData(g.device, g.cells, miniDims, sel, categorical)
}
