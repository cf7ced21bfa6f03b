package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAutomaticMode(t *testing.T) {
	multipliers := map[int]float64{1: 2.0, 2: 1.5}

	result := Compute(Input{Kills: 7, Position: 1, Multipliers: multipliers})
	require.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 14.0, result.Score)

	result = Compute(Input{Kills: 7, Position: 2, Multipliers: multipliers})
	require.True(t, result.Valid)
	assert.Equal(t, 10.5, result.Score)
}

func TestComputeDefaultsMissingMultiplierToOne(t *testing.T) {
	result := Compute(Input{Kills: 9, Position: 15, Multipliers: map[int]float64{1: 2.0}})
	require.True(t, result.Valid)
	assert.Equal(t, 9.0, result.Score)

	// A nil table behaves the same as an empty one.
	result = Compute(Input{Kills: 4, Position: 3})
	require.True(t, result.Valid)
	assert.Equal(t, 4.0, result.Score)
}

func TestComputeRoundsToOneDecimal(t *testing.T) {
	result := Compute(Input{Kills: 3, Position: 4, Multipliers: map[int]float64{4: 1.33}})
	require.True(t, result.Valid)
	assert.Equal(t, 4.0, result.Score) // 3.99 rounds up
}

func TestComputeManualOverrideIgnoresEverythingElse(t *testing.T) {
	manual := 42.5
	result := Compute(Input{
		Kills:       -99,
		Position:    999,
		Multipliers: map[int]float64{1: 2.0},
		Manual:      &manual,
	})
	require.True(t, result.Valid)
	assert.Equal(t, 42.5, result.Score)
}

func TestComputeRejectsNegativeManualScore(t *testing.T) {
	manual := -1.0
	result := Compute(Input{Kills: 5, Position: 1, Manual: &manual})
	require.False(t, result.Valid)
	assert.Equal(t, 0.0, result.Score)
	assert.NotEmpty(t, result.Errors)
}

func TestComputeRejectsInvalidInputs(t *testing.T) {
	cases := []struct {
		name     string
		kills    int
		position int
		errors   int
	}{
		{"negative kills", -1, 5, 1},
		{"position below range", 3, 0, 1},
		{"position above range", 3, 21, 1},
		{"both invalid", -2, 25, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Compute(Input{Kills: tc.kills, Position: tc.position})
			require.False(t, result.Valid)
			assert.Equal(t, 0.0, result.Score)
			assert.Len(t, result.Errors, tc.errors)
		})
	}
}

func TestValidateConsistencyFlagsDuplicatePositions(t *testing.T) {
	entries := []BatchEntry{
		{TeamCode: "AAA", Position: 1, Kills: 5},
		{TeamCode: "BBB", Position: 1, Kills: 3},
		{TeamCode: "CCC", Position: 2, Kills: 0},
	}

	warnings := ValidateConsistency(entries, 10)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "position 1")
}

func TestValidateConsistencyFlagsPositionBeyondTeamCount(t *testing.T) {
	entries := []BatchEntry{
		{TeamCode: "AAA", Position: 8, Kills: 2},
	}

	warnings := ValidateConsistency(entries, 5)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "exceeds participating team count")
}

func TestValidateConsistencyCleanBatch(t *testing.T) {
	entries := []BatchEntry{
		{TeamCode: "AAA", Position: 1, Kills: 5},
		{TeamCode: "BBB", Position: 2, Kills: 3},
	}
	assert.Empty(t, ValidateConsistency(entries, 10))
}
