package session

import (
	"strconv"

	"github.com/kannanvijayan/renfrew-river/data"
)

// WorldDescriptorInput is the string-typed shape a client submits for
// UpdateDescriptorInput, mirroring RulesetInput's pattern (spec.md
// §4.7's CreateWorld mode carries "a world descriptor: dimensions and
// a seed").
type WorldDescriptorInput struct {
	Columns string `json:"columns"`
	Rows    string `json:"rows"`
	Seed    string `json:"seed"`
}

// WorldDescriptor is the validated form BeginGeneration actually runs
// with.
type WorldDescriptor struct {
	Dims data.WorldDims
	Seed uint64
}

// WorldDescriptorValidation mirrors WorldDescriptorInput field-for-
// field.
type WorldDescriptorValidation struct {
	Columns []string `json:"columns,omitempty"`
	Rows    []string `json:"rows,omitempty"`
	Seed    []string `json:"seed,omitempty"`
}

// HasErrors reports whether any field carries a message.
func (v *WorldDescriptorValidation) HasErrors() bool {
	if v == nil {
		return false
	}
	return len(v.Columns) > 0 || len(v.Rows) > 0 || len(v.Seed) > 0
}

// ToValidated parses and range-checks each field, accumulating every
// failure rather than stopping at the first (mirrors
// ruleset.RulesetInput.ToValidated).
func (in WorldDescriptorInput) ToValidated() (*WorldDescriptor, *WorldDescriptorValidation) {
	v := &WorldDescriptorValidation{}
	var out WorldDescriptor

	cols, colsOK := parseDescriptorUint(in.Columns, 1, 65535, "columns", &v.Columns)
	rows, rowsOK := parseDescriptorUint(in.Rows, 1, 65535, "rows", &v.Rows)
	if colsOK {
		out.Dims.Columns = uint16(cols)
	}
	if rowsOK {
		out.Dims.Rows = uint16(rows)
	}

	if in.Seed == "" {
		v.Seed = append(v.Seed, "The seed is required.")
	} else if seed, err := strconv.ParseUint(in.Seed, 10, 64); err != nil {
		v.Seed = append(v.Seed, "The seed must be a number.")
	} else {
		out.Seed = seed
	}

	if v.HasErrors() {
		return nil, v
	}
	return &out, nil
}

// ToInput converts a validated descriptor back to its string-typed
// form, for round-tripping CurrentDescriptorInput.
func (d WorldDescriptor) ToInput() WorldDescriptorInput {
	return WorldDescriptorInput{
		Columns: strconv.Itoa(int(d.Dims.Columns)),
		Rows:    strconv.Itoa(int(d.Dims.Rows)),
		Seed:    strconv.FormatUint(d.Seed, 10),
	}
}

func parseDescriptorUint(field string, lo, hi int, name string, dst *[]string) (int, bool) {
	if field == "" {
		*dst = append(*dst, "The "+name+" is required.")
		return 0, false
	}
	n, err := strconv.ParseUint(field, 10, 32)
	if err != nil {
		*dst = append(*dst, "The "+name+" must be a number.")
		return 0, false
	}
	if int(n) < lo || int(n) > hi {
		*dst = append(*dst, "The "+name+" must be between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi)+".")
		return 0, false
	}
	return int(n), true
}

func collectDescriptorErrors(v *WorldDescriptorValidation) []string {
	var out []string
	out = append(out, v.Columns...)
	out = append(out, v.Rows...)
	out = append(out, v.Seed...)
	return out
}
