package scoring

import (
	"slices"

	"github.com/kmarzh/scrim-scoreboard/models"
)

// ComputeLeaderboard folds approved matches and adjustments into ranked
// per-team stats. For each team the top countedMatches scores are summed into
// TotalScore, all adjustment deltas into AdjustmentTotal, and
// FinalScore = TotalScore + AdjustmentTotal. Teams with neither matches nor
// adjustments have not participated and are excluded.
//
// The sort is stable on FinalScore descending: teams with identical final
// scores keep the order of the teams slice. A secondary tie-break key (kill
// count, earliest submission) is a pending product decision and deliberately
// not guessed here.
//
// The function is pure: identical inputs yield identical output, so every
// actor context can recompute its own view independently.
func ComputeLeaderboard(teams []models.Team, matches []models.Match, adjustments []models.ScoreAdjustment, countedMatches int) []models.TeamStats {
	scoresByCode := make(map[string][]float64)
	for _, m := range matches {
		scoresByCode[m.TeamCode] = append(scoresByCode[m.TeamCode], m.Score)
	}

	adjustmentsByCode := make(map[string]float64)
	hasAdjustment := make(map[string]bool)
	for _, a := range adjustments {
		adjustmentsByCode[a.TeamCode] += a.Delta
		hasAdjustment[a.TeamCode] = true
	}

	stats := make([]models.TeamStats, 0, len(teams))
	for _, team := range teams {
		scores := scoresByCode[team.AccessCode]
		if len(scores) == 0 && !hasAdjustment[team.AccessCode] {
			continue
		}

		total := sumTopN(scores, countedMatches)
		adjustment := round1(adjustmentsByCode[team.AccessCode])

		stats = append(stats, models.TeamStats{
			TeamCode:        team.AccessCode,
			TeamName:        team.Name,
			MatchesPlayed:   len(scores),
			TotalScore:      total,
			AdjustmentTotal: adjustment,
			FinalScore:      round1(total + adjustment),
		})
	}

	slices.SortStableFunc(stats, func(a, b models.TeamStats) int {
		switch {
		case a.FinalScore > b.FinalScore:
			return -1
		case a.FinalScore < b.FinalScore:
			return 1
		default:
			return 0
		}
	})

	for i := range stats {
		stats[i].Rank = i + 1
	}
	return stats
}

// sumTopN sums the n highest values without mutating the input slice.
func sumTopN(scores []float64, n int) float64 {
	if n <= 0 || len(scores) == 0 {
		return 0
	}
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	slices.SortFunc(sorted, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		default:
			return 0
		}
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	total := 0.0
	for _, s := range sorted[:n] {
		total += s
	}
	return round1(total)
}
