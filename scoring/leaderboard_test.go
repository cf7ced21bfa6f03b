package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmarzh/scrim-scoreboard/models"
)

func team(code, name string) models.Team {
	return models.Team{ID: "id-" + code, Name: name, AccessCode: code, TournamentID: "t1"}
}

func match(code string, score float64) models.Match {
	return models.Match{TeamCode: code, Score: score, TournamentID: "t1"}
}

func TestLeaderboardCountsTopNMatches(t *testing.T) {
	teams := []models.Team{team("AAA", "Alpha")}
	matches := []models.Match{
		match("AAA", 10), match("AAA", 30), match("AAA", 20), match("AAA", 5),
	}

	stats := ComputeLeaderboard(teams, matches, nil, 3)
	require.Len(t, stats, 1)
	assert.Equal(t, 60.0, stats[0].TotalScore) // 30 + 20 + 10
	assert.Equal(t, 60.0, stats[0].FinalScore)
	assert.Equal(t, 4, stats[0].MatchesPlayed)
	assert.Equal(t, 1, stats[0].Rank)
}

func TestLeaderboardTopNIndependentOfSubmissionOrder(t *testing.T) {
	teams := []models.Team{team("AAA", "Alpha")}
	ordered := []models.Match{match("AAA", 30), match("AAA", 20), match("AAA", 10), match("AAA", 5)}
	shuffled := []models.Match{match("AAA", 5), match("AAA", 10), match("AAA", 30), match("AAA", 20)}

	a := ComputeLeaderboard(teams, ordered, nil, 3)
	b := ComputeLeaderboard(teams, shuffled, nil, 3)
	assert.Equal(t, a, b)
}

func TestLeaderboardAppliesAdjustments(t *testing.T) {
	teams := []models.Team{team("AAA", "Alpha")}
	matches := []models.Match{match("AAA", 10), match("AAA", 30), match("AAA", 20)}
	adjustments := []models.ScoreAdjustment{
		{TeamCode: "AAA", Delta: 3, TournamentID: "t1"},
		{TeamCode: "AAA", Delta: -7, TournamentID: "t1"},
	}

	stats := ComputeLeaderboard(teams, matches, adjustments, 3)
	require.Len(t, stats, 1)
	assert.Equal(t, 60.0, stats[0].TotalScore)
	assert.Equal(t, -4.0, stats[0].AdjustmentTotal)
	assert.Equal(t, 56.0, stats[0].FinalScore)
}

func TestLeaderboardExcludesNonParticipants(t *testing.T) {
	teams := []models.Team{team("AAA", "Alpha"), team("BBB", "Bravo"), team("CCC", "Charlie")}
	matches := []models.Match{match("AAA", 12)}
	adjustments := []models.ScoreAdjustment{{TeamCode: "BBB", Delta: -5}}

	stats := ComputeLeaderboard(teams, matches, adjustments, 3)
	require.Len(t, stats, 2)

	codes := []string{stats[0].TeamCode, stats[1].TeamCode}
	assert.Contains(t, codes, "AAA")
	assert.Contains(t, codes, "BBB")

	// A team with only adjustments still ranks; Charlie does not appear.
	for _, s := range stats {
		assert.NotEqual(t, "CCC", s.TeamCode)
	}
}

func TestLeaderboardRanksDescendingWithStableTies(t *testing.T) {
	teams := []models.Team{team("AAA", "Alpha"), team("BBB", "Bravo"), team("CCC", "Charlie")}
	matches := []models.Match{
		match("AAA", 20),
		match("BBB", 35),
		match("CCC", 20),
	}

	stats := ComputeLeaderboard(teams, matches, nil, 1)
	require.Len(t, stats, 3)

	assert.Equal(t, "BBB", stats[0].TeamCode)
	assert.Equal(t, 1, stats[0].Rank)

	// Alpha and Charlie are tied; insertion order of the teams slice holds.
	assert.Equal(t, "AAA", stats[1].TeamCode)
	assert.Equal(t, 2, stats[1].Rank)
	assert.Equal(t, "CCC", stats[2].TeamCode)
	assert.Equal(t, 3, stats[2].Rank)
}

func TestLeaderboardIsPure(t *testing.T) {
	teams := []models.Team{team("AAA", "Alpha"), team("BBB", "Bravo")}
	matches := []models.Match{match("AAA", 10.5), match("BBB", 7.2), match("AAA", 3.3)}
	adjustments := []models.ScoreAdjustment{{TeamCode: "BBB", Delta: 2.5}}

	first := ComputeLeaderboard(teams, matches, adjustments, 2)
	second := ComputeLeaderboard(teams, matches, adjustments, 2)
	assert.Equal(t, first, second)
}

func TestSumTopNHandlesShortLists(t *testing.T) {
	assert.Equal(t, 15.0, sumTopN([]float64{10, 5}, 5))
	assert.Equal(t, 0.0, sumTopN(nil, 3))
	assert.Equal(t, 0.0, sumTopN([]float64{10}, 0))
}
