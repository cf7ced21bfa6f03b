package models

// TeamStats is the derived per-team leaderboard row. It is computed on demand
// and never persisted as a source of truth, except inside a completed
// tournament's frozen snapshot.
type TeamStats struct {
	TeamCode        string  `json:"team_code"`
	TeamName        string  `json:"team_name"`
	MatchesPlayed   int     `json:"matches_played"`
	TotalScore      float64 `json:"total_score"`
	AdjustmentTotal float64 `json:"adjustment_total"`
	FinalScore      float64 `json:"final_score"`
	Rank            int     `json:"rank"`
}
