// Package ruleset implements the ruleset model from spec.md §4.6: the
// string-typed Input shape a client edits, the validated Ruleset a
// generation session actually runs, and the RulesetValidation error
// tree that mirrors Input's shape field-for-field. Grounded on the
// teacher's parser.Error/ErrorList accumulating-errors pattern
// (parser/errors.go), generalized from a flat error list to a tree
// that tracks which field each message belongs to.
package ruleset

// FormatComponentInput mirrors bitfield.FormatComponent with string
// fields, as submitted by a client before validation.
type FormatComponentInput struct {
	Name   string `json:"name"`
	Offset string `json:"offset"`
	Bits   string `json:"bits"`
	// Categorical mirrors bitfield.FormatComponent.Categorical: a
	// checkbox, not a parsed field, so it carries no validation
	// messages of its own.
	Categorical bool `json:"categorical"`
}

// FormatWordInput mirrors bitfield.FormatWord with string fields.
type FormatWordInput struct {
	Name       string                 `json:"name"`
	Components []FormatComponentInput `json:"components"`
}

// TerrainGenPerlinInput mirrors TerrainGenPerlin with string fields.
type TerrainGenPerlinInput struct {
	Register string `json:"register"`
}

// StageInput mirrors Stage with string-typed program source.
type StageInput struct {
	Format          []FormatWordInput `json:"format"`
	InitProgram     string            `json:"initProgram"`
	PairwiseProgram string            `json:"pairwiseProgram"`
	MergeProgram    string            `json:"mergeProgram"`
	FinalProgram    string            `json:"finalProgram"`
}

// TerrainGenInput mirrors TerrainGen.
type TerrainGenInput struct {
	Perlin TerrainGenPerlinInput `json:"perlin"`
	Stage  StageInput            `json:"stage"`
}

// RulesetInput is the string-typed shape a client submits via
// UpdateRules/ValidateRules, before conversion to a validated Ruleset.
type RulesetInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	TerrainGen  TerrainGenInput `json:"terrainGen"`
}
