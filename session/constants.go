package session

import "github.com/kannanvijayan/renfrew-river/ruleset"

// EngineConstants reports the fixed limits a client needs to build a
// valid RulesetInput without guessing at them (spec.md §5's
// supplemented GetEngineConstants, absent from the distilled spec but
// present in the original's get_constants_cmd).
func EngineConstants() EngineConstantsResponse {
	return EngineConstantsResponse{
		MaxWorldColumns:   65535,
		MaxWorldRows:      65535,
		MaxFormatBits:     32,
		PerlinRegisterMax: 239,
	}
}

// DefaultRulesetInput returns a minimal ruleset input a client can
// save immediately or tweak first (spec.md §5's supplemented
// GetDefaultRulesetInput).
func DefaultRulesetInput() ruleset.RulesetInput {
	return ruleset.RulesetInput{
		Name:        "Default",
		Description: "A minimal starter ruleset: one elevation word seeded by RandGen.",
		TerrainGen: ruleset.TerrainGenInput{
			Perlin: ruleset.TerrainGenPerlinInput{Register: "0"},
			Stage: ruleset.StageInput{
				Format: []ruleset.FormatWordInput{
					{
						Name: "terrain",
						Components: []ruleset.FormatComponentInput{
							{Name: "elevation", Offset: "0", Bits: "16"},
						},
					},
				},
				InitProgram:     "add r0, r0, 0\n",
				PairwiseProgram: "add r0, r0, 0\n",
				MergeProgram:    "add r0, r0, 0\n",
				FinalProgram:    "add r0, r0, 0\n",
			},
		},
	}
}
