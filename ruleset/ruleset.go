package ruleset

import (
	"fmt"
	"strconv"

	"github.com/kannanvijayan/renfrew-river/bitfield"
	"github.com/kannanvijayan/renfrew-river/shady"
	"github.com/kannanvijayan/renfrew-river/shady/shasm"
)

// Program is a Shasm source string paired with its compiled bitcode.
// The source is what gets persisted and round-tripped through Input;
// the bitcode is what a generation session actually dispatches.
type Program struct {
	Source  string
	Bitcode []shady.Instruction
}

// Perlin configures the noise register a world's seeding pass writes
// into, validated from TerrainGenPerlinInput.
type Perlin struct {
	Register uint8
}

// Stage bundles the cell layout and the four pipeline programs that
// operate on it.
type Stage struct {
	Format          bitfield.FormatRules
	InitProgram     Program
	PairwiseProgram Program
	MergeProgram    Program
	FinalProgram    Program
}

// TerrainGen is the validated terrain-generation configuration of a
// ruleset.
type TerrainGen struct {
	Perlin Perlin
	Stage  Stage
}

// Ruleset is the fully validated form a generation session runs.
type Ruleset struct {
	Name        string
	Description string
	TerrainGen  TerrainGen
}

// ToValidated attempts to produce a Ruleset from in, accumulating
// every validation failure across every field (spec.md §4.6, §7: no
// validation is short-circuited). If any message was produced it
// returns (nil, validation); otherwise (ruleset, nil).
func (in RulesetInput) ToValidated() (*Ruleset, *RulesetValidation) {
	v := &RulesetValidation{}
	out := Ruleset{Name: in.Name, Description: in.Description}

	if in.Name == "" {
		v.Name = append(v.Name, "The name is required.")
	}

	perlin, perlinV := in.TerrainGen.Perlin.toValidated()
	v.TerrainGen.Perlin = perlinV
	out.TerrainGen.Perlin = perlin

	stage, stageV := in.TerrainGen.Stage.toValidated()
	v.TerrainGen.Stage = stageV
	out.TerrainGen.Stage = stage

	if v.HasErrors() {
		return nil, v
	}
	return &out, nil
}

func (in TerrainGenPerlinInput) toValidated() (Perlin, TerrainGenPerlinValidation) {
	var v TerrainGenPerlinValidation
	reg, ok := parseRangedUint(in.Register, 0, 239, "register", &v.Register)
	if !ok {
		return Perlin{}, v
	}
	return Perlin{Register: uint8(reg)}, v
}

func (in StageInput) toValidated() (Stage, StageValidation) {
	var v StageValidation
	var out Stage

	words := make([]bitfield.FormatWord, 0, len(in.Format))
	v.Format = make([]FormatWordValidation, len(in.Format))
	for i, w := range in.Format {
		word, wv := w.toValidated()
		v.Format[i] = wv
		words = append(words, word)
	}
	out.Format = bitfield.FormatRules{Words: words}

	out.InitProgram = Program{Source: in.InitProgram}
	if bc, errs := shasm.Parse(in.InitProgram); errs.HasErrors() {
		v.InitProgram = programErrors(errs)
	} else {
		out.InitProgram.Bitcode = bc
	}

	out.PairwiseProgram = Program{Source: in.PairwiseProgram}
	if bc, errs := shasm.Parse(in.PairwiseProgram); errs.HasErrors() {
		v.PairwiseProgram = programErrors(errs)
	} else {
		out.PairwiseProgram.Bitcode = bc
	}

	out.MergeProgram = Program{Source: in.MergeProgram}
	if bc, errs := shasm.Parse(in.MergeProgram); errs.HasErrors() {
		v.MergeProgram = programErrors(errs)
	} else {
		out.MergeProgram.Bitcode = bc
	}

	out.FinalProgram = Program{Source: in.FinalProgram}
	if bc, errs := shasm.Parse(in.FinalProgram); errs.HasErrors() {
		v.FinalProgram = programErrors(errs)
	} else {
		out.FinalProgram.Bitcode = bc
	}

	return out, v
}

func programErrors(errs *shasm.ErrorList) []string {
	out := make([]string, 0, len(errs.Errors))
	for _, e := range errs.Errors {
		out = append(out, fmt.Sprintf("line %d: %s", e.LineNo, e.Message))
	}
	return out
}

// toValidated validates a single FormatComponentInput per spec.md
// §4.6/S3: name non-empty; offset an integer in 0..32; bits an
// integer in 1..=32; offset+bits<=32 reported as a component-level
// error once both fields individually parse.
func (in FormatComponentInput) toValidated() (bitfield.FormatComponent, FormatComponentValidation) {
	var v FormatComponentValidation
	var out bitfield.FormatComponent

	if in.Name == "" {
		v.Name = append(v.Name, "The name is required.")
	} else {
		out.Name = in.Name
	}

	offset, offsetOK := parseRangedUint(in.Offset, 0, 31, "offset", &v.Offset)
	bits, bitsOK := parseRangedUint(in.Bits, 1, 32, "bits", &v.Bits)
	if offsetOK {
		out.Offset = uint8(offset)
	}
	if bitsOK {
		out.Bits = uint8(bits)
	}
	out.Categorical = in.Categorical
	if offsetOK && bitsOK && offset+bits > 32 {
		v.Errors = append(v.Errors, "The offset and bits must not exceed 32.")
	}
	return out, v
}

func (in FormatWordInput) toValidated() (bitfield.FormatWord, FormatWordValidation) {
	var v FormatWordValidation
	var out bitfield.FormatWord

	if in.Name == "" {
		v.Name = append(v.Name, "The name is required.")
	} else {
		out.Name = in.Name
	}

	out.Components = make([]bitfield.FormatComponent, 0, len(in.Components))
	v.Components = make([]FormatComponentValidation, len(in.Components))
	seen := map[string]bool{}
	occupied := make([]bool, 32)
	for i, c := range in.Components {
		comp, cv := c.toValidated()
		if c.Name != "" && seen[c.Name] {
			cv.Errors = append(cv.Errors, fmt.Sprintf("The name %q is already used by another component in this word.", c.Name))
		}
		seen[c.Name] = true

		if comp.Bits > 0 && int(comp.Offset)+int(comp.Bits) <= 32 {
			overlaps := false
			for b := int(comp.Offset); b < int(comp.Offset)+int(comp.Bits); b++ {
				if occupied[b] {
					overlaps = true
				} else {
					occupied[b] = true
				}
			}
			if overlaps {
				cv.Errors = append(cv.Errors, "This component overlaps another component in the same word.")
			}
		}
		v.Components[i] = cv
		out.Components = append(out.Components, comp)
	}
	return out, v
}

// parseRangedUint parses field as a non-negative base-10 integer in
// [lo,hi], appending the appropriate message to dst and returning
// (0, false) on any failure. An empty string is "required"; anything
// that fails to parse (including a leading '-') is "must be a
// number"; anything out of range is "must be between lo and hi".
func parseRangedUint(field string, lo, hi int, name string, dst *[]string) (int, bool) {
	if field == "" {
		*dst = append(*dst, fmt.Sprintf("The %s is required.", name))
		return 0, false
	}
	n, err := strconv.ParseUint(field, 10, 32)
	if err != nil {
		*dst = append(*dst, fmt.Sprintf("The %s must be a number.", name))
		return 0, false
	}
	if int(n) < lo || int(n) > hi {
		*dst = append(*dst, fmt.Sprintf("The %s must be between %d and %d.", name, lo, hi))
		return 0, false
	}
	return int(n), true
}

// ToInput converts a validated Ruleset back to its string-typed Input
// form, for persistence round-trips and the client's "edit an
// existing ruleset" flow (spec.md §8 property 3).
func (r Ruleset) ToInput() RulesetInput {
	words := make([]FormatWordInput, len(r.TerrainGen.Stage.Format.Words))
	for i, w := range r.TerrainGen.Stage.Format.Words {
		comps := make([]FormatComponentInput, len(w.Components))
		for j, c := range w.Components {
			comps[j] = FormatComponentInput{
				Name:        c.Name,
				Offset:      strconv.Itoa(int(c.Offset)),
				Bits:        strconv.Itoa(int(c.Bits)),
				Categorical: c.Categorical,
			}
		}
		words[i] = FormatWordInput{Name: w.Name, Components: comps}
	}
	return RulesetInput{
		Name:        r.Name,
		Description: r.Description,
		TerrainGen: TerrainGenInput{
			Perlin: TerrainGenPerlinInput{Register: strconv.Itoa(int(r.TerrainGen.Perlin.Register))},
			Stage: StageInput{
				Format:          words,
				InitProgram:     r.TerrainGen.Stage.InitProgram.Source,
				PairwiseProgram: r.TerrainGen.Stage.PairwiseProgram.Source,
				MergeProgram:    r.TerrainGen.Stage.MergeProgram.Source,
				FinalProgram:    r.TerrainGen.Stage.FinalProgram.Source,
			},
		},
	}
}
