package rulesetstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kannanvijayan/renfrew-river/ruleset"
)

func sampleRuleset(t *testing.T, name string) ruleset.Ruleset {
	t.Helper()
	in := ruleset.RulesetInput{
		Name:        name,
		Description: "d",
		TerrainGen: ruleset.TerrainGenInput{
			Perlin: ruleset.TerrainGenPerlinInput{Register: "1"},
			Stage: ruleset.StageInput{
				Format: []ruleset.FormatWordInput{
					{Name: "w0", Components: []ruleset.FormatComponentInput{{Name: "h", Offset: "0", Bits: "8"}}},
				},
				InitProgram:     "add r0, r1, r2\n",
				PairwiseProgram: "add r0, r1, r2\n",
				MergeProgram:    "add r0, r1, r2\n",
				FinalProgram:    "add r0, r1, r2\n",
			},
		},
	}
	rs, v := in.ToValidated()
	require.Nil(t, v)
	return *rs
}

// Property 8 / S6: a newly created store on an empty directory writes
// rulesets.json containing []; after write the list contains the new
// entry, filename matches ^rls0_<name>\.json$, and read round-trips.
func TestS6RulesetStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	require.Empty(t, store.List())

	raw, err := os.ReadFile(filepath.Join(dir, "rulesets.json"))
	require.NoError(t, err)
	var initial []Entry
	require.NoError(t, json.Unmarshal(raw, &initial))
	require.Equal(t, []Entry{}, initial)

	rs := sampleRuleset(t, "R1")
	require.NoError(t, store.Write(rs))

	entries := store.List()
	require.Len(t, entries, 1)
	require.Regexp(t, `^rls0_R1\.json$`, entries[0].Filename)

	got, err := store.Read("R1")
	require.NoError(t, err)
	require.Equal(t, rs.Name, got.Name)
	require.Equal(t, rs.TerrainGen.Perlin, got.TerrainGen.Perlin)
}

func TestStoreWriteUpdatesInPlace(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	rs := sampleRuleset(t, "R1")
	require.NoError(t, store.Write(rs))
	firstFilename := store.List()[0].Filename

	rs.Description = "updated"
	require.NoError(t, store.Write(rs))

	entries := store.List()
	require.Len(t, entries, 1)
	require.Equal(t, firstFilename, entries[0].Filename)
	require.Equal(t, "updated", entries[0].Description)
}

func TestStoreDeleteAndReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, store.Write(sampleRuleset(t, "R1")))
	require.NoError(t, store.Write(sampleRuleset(t, "R2")))
	require.NoError(t, store.Delete("R1"))

	entries := store.List()
	require.Len(t, entries, 1)
	require.Equal(t, "R2", entries[0].Name)

	reopened, err := Open(dir)
	require.NoError(t, err)
	require.Len(t, reopened.List(), 1)

	_, err = reopened.Read("R1")
	require.Error(t, err)
}

func TestStoreOrdinalsIncrementAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Write(sampleRuleset(t, "R1")))

	reopened, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, reopened.Write(sampleRuleset(t, "R2")))

	entries := reopened.List()
	require.Len(t, entries, 2)
	require.Regexp(t, `^rls1_R2\.json$`, entries[1].Filename)
}
