package ruleset

// FormatComponentValidation mirrors FormatComponentInput field-for-
// field, each field holding every validation message against it.
// Errors holds messages that span more than one field (e.g. offset
// and bits both individually valid but jointly exceeding the word).
type FormatComponentValidation struct {
	Name   []string `json:"name,omitempty"`
	Offset []string `json:"offset,omitempty"`
	Bits   []string `json:"bits,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

func (v FormatComponentValidation) hasErrors() bool {
	return len(v.Name) > 0 || len(v.Offset) > 0 || len(v.Bits) > 0 || len(v.Errors) > 0
}

// FormatWordValidation mirrors FormatWordInput.
type FormatWordValidation struct {
	Name       []string                    `json:"name,omitempty"`
	Components []FormatComponentValidation `json:"components,omitempty"`
	Errors     []string                    `json:"errors,omitempty"`
}

func (v FormatWordValidation) hasErrors() bool {
	if len(v.Name) > 0 || len(v.Errors) > 0 {
		return true
	}
	for _, c := range v.Components {
		if c.hasErrors() {
			return true
		}
	}
	return false
}

// TerrainGenPerlinValidation mirrors TerrainGenPerlinInput.
type TerrainGenPerlinValidation struct {
	Register []string `json:"register,omitempty"`
}

func (v TerrainGenPerlinValidation) hasErrors() bool { return len(v.Register) > 0 }

// StageValidation mirrors StageInput.
type StageValidation struct {
	Format          []FormatWordValidation `json:"format,omitempty"`
	InitProgram     []string               `json:"initProgram,omitempty"`
	PairwiseProgram []string               `json:"pairwiseProgram,omitempty"`
	MergeProgram    []string               `json:"mergeProgram,omitempty"`
	FinalProgram    []string               `json:"finalProgram,omitempty"`
}

func (v StageValidation) hasErrors() bool {
	if len(v.InitProgram) > 0 || len(v.PairwiseProgram) > 0 || len(v.MergeProgram) > 0 || len(v.FinalProgram) > 0 {
		return true
	}
	for _, w := range v.Format {
		if w.hasErrors() {
			return true
		}
	}
	return false
}

// TerrainGenValidation mirrors TerrainGenInput.
type TerrainGenValidation struct {
	Perlin TerrainGenPerlinValidation `json:"perlin"`
	Stage  StageValidation            `json:"stage"`
}

func (v TerrainGenValidation) hasErrors() bool { return v.Perlin.hasErrors() || v.Stage.hasErrors() }

// RulesetValidation mirrors RulesetInput. HasErrors reports whether
// any field anywhere in the tree carries a message.
type RulesetValidation struct {
	Name        []string             `json:"name,omitempty"`
	Description []string             `json:"description,omitempty"`
	TerrainGen  TerrainGenValidation `json:"terrainGen"`
	Errors      []string             `json:"errors,omitempty"`
}

// HasErrors reports whether the validation tree carries any message.
func (v *RulesetValidation) HasErrors() bool {
	if v == nil {
		return false
	}
	return len(v.Name) > 0 || len(v.Description) > 0 || len(v.Errors) > 0 || v.TerrainGen.hasErrors()
}
