package ruleset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validInput() RulesetInput {
	return RulesetInput{
		Name:        "R1",
		Description: "d",
		TerrainGen: TerrainGenInput{
			Perlin: TerrainGenPerlinInput{Register: "3"},
			Stage: StageInput{
				Format: []FormatWordInput{
					{
						Name: "w0",
						Components: []FormatComponentInput{
							{Name: "height", Offset: "0", Bits: "8"},
							{Name: "biome", Offset: "8", Bits: "4", Categorical: true},
						},
					},
				},
				InitProgram:     "add r0, r1, r2\n",
				PairwiseProgram: "add r0, r1, r2\n",
				MergeProgram:    "add r0, r1, r2\n",
				FinalProgram:    "add r0, r1, r2\n",
			},
		},
	}
}

// S3. Component {name:"", offset:"", bits:"-99"} yields per-field
// messages; component {name:"a", offset:"30", bits:"5"} yields a
// combined "errors" message.
func TestS3RulesetValidation(t *testing.T) {
	bad := FormatComponentInput{Name: "", Offset: "", Bits: "-99"}
	_, v := bad.toValidated()
	require.Equal(t, []string{"The name is required."}, v.Name)
	require.Equal(t, []string{"The offset is required."}, v.Offset)
	require.Equal(t, []string{"The bits must be a number."}, v.Bits)
	require.Empty(t, v.Errors)

	overflow := FormatComponentInput{Name: "a", Offset: "30", Bits: "5"}
	_, v2 := overflow.toValidated()
	require.Empty(t, v2.Name)
	require.Empty(t, v2.Offset)
	require.Empty(t, v2.Bits)
	require.Equal(t, []string{"The offset and bits must not exceed 32."}, v2.Errors)
}

// Property 4: a fully valid input validates successfully; editing any
// single field to an invalid value produces exactly one flagged path.
func TestValidInputValidatesCleanly(t *testing.T) {
	rs, v := validInput().ToValidated()
	require.Nil(t, v)
	require.NotNil(t, rs)
	require.Equal(t, "R1", rs.Name)
	require.Equal(t, uint8(3), rs.TerrainGen.Perlin.Register)
	require.Len(t, rs.TerrainGen.Stage.Format.Words, 1)
}

func TestInvalidSingleFieldFlagsExactlyOnePath(t *testing.T) {
	in := validInput()
	in.Name = ""
	_, v := in.ToValidated()
	require.NotNil(t, v)
	require.Equal(t, []string{"The name is required."}, v.Name)
	require.Empty(t, v.Description)
	require.False(t, v.TerrainGen.hasErrors())
}

func TestInvalidPerlinRegisterOutOfRange(t *testing.T) {
	in := validInput()
	in.TerrainGen.Perlin.Register = "999"
	_, v := in.ToValidated()
	require.NotNil(t, v)
	require.Equal(t, []string{"The register must be between 0 and 239."}, v.TerrainGen.Perlin.Register)
}

func TestInvalidProgramAccumulatesLineErrors(t *testing.T) {
	in := validInput()
	in.TerrainGen.Stage.InitProgram = "ifeq addd r0, r1, r2\n"
	_, v := in.ToValidated()
	require.NotNil(t, v)
	require.Len(t, v.TerrainGen.Stage.InitProgram, 1)
}

// Property 3: Ruleset.ToInput().ToValidated() round-trips to a
// structurally equal ruleset.
func TestRulesetInputRoundTrip(t *testing.T) {
	rs, v := validInput().ToValidated()
	require.Nil(t, v)

	roundTripped, v2 := rs.ToInput().ToValidated()
	require.Nil(t, v2)
	require.Equal(t, rs.Name, roundTripped.Name)
	require.Equal(t, rs.Description, roundTripped.Description)
	require.Equal(t, rs.TerrainGen.Perlin, roundTripped.TerrainGen.Perlin)
	require.Equal(t, rs.TerrainGen.Stage.Format, roundTripped.TerrainGen.Stage.Format)
	require.Equal(t, rs.TerrainGen.Stage.InitProgram.Source, roundTripped.TerrainGen.Stage.InitProgram.Source)
}

// A component's Categorical flag must survive Ruleset -> Input ->
// Ruleset, or minimap downsampling silently forgets which components
// need block-max instead of block-average.
func TestCategoricalFlagSurvivesRoundTrip(t *testing.T) {
	rs, v := validInput().ToValidated()
	require.Nil(t, v)
	require.True(t, rs.TerrainGen.Stage.Format.Words[0].Components[1].Categorical)

	input := rs.ToInput()
	require.True(t, input.TerrainGen.Stage.Format[0].Components[1].Categorical)
	require.False(t, input.TerrainGen.Stage.Format[0].Components[0].Categorical)

	roundTripped, v2 := input.ToValidated()
	require.Nil(t, v2)
	require.True(t, roundTripped.TerrainGen.Stage.Format.Words[0].Components[1].Categorical)
}

func TestOverlappingComponentsFlagged(t *testing.T) {
	word := FormatWordInput{
		Name: "w0",
		Components: []FormatComponentInput{
			{Name: "a", Offset: "0", Bits: "8"},
			{Name: "b", Offset: "4", Bits: "8"},
		},
	}
	_, v := word.toValidated()
	require.NotEmpty(t, v.Components[1].Errors)
}
