package models

import "time"

// AdjustmentCategory classifies a point adjustment.
type AdjustmentCategory string

const (
	AdjustmentPenalty AdjustmentCategory = "penalty"
	AdjustmentReward  AdjustmentCategory = "reward"
	AdjustmentCrash   AdjustmentCategory = "crash"
)

// ScoreAdjustment is a signed point delta applied outside normal match
// scoring. The collection is append-only.
type ScoreAdjustment struct {
	ID           string             `json:"id"`
	TeamCode     string             `json:"team_code"`
	TeamName     string             `json:"team_name"`
	Delta        float64            `json:"delta"`
	Reason       string             `json:"reason"`
	Category     AdjustmentCategory `json:"category"`
	AppliedBy    string             `json:"applied_by"`
	AppliedAt    time.Time          `json:"applied_at"`
	TournamentID string             `json:"tournament_id"`
}
