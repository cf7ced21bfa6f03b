package models

import "time"

// ScoringMode distinguishes how a match's score was produced. It is fixed at
// creation time and never inferred from other fields.
type ScoringMode string

const (
	ScoredAutomatic ScoringMode = "automatic"
	ScoredManual    ScoringMode = "manual"
)

// Match is an approved result. The score is authoritative once written: the
// aggregator never re-derives it from kills and position. Matches are never
// edited in place; the slot re-assignment path deletes and recreates them.
type Match struct {
	ID           string      `json:"id"`
	TeamCode     string      `json:"team_code"`
	Slot         int         `json:"slot"`
	Position     int         `json:"position"`
	Kills        int         `json:"kills"`
	Score        float64     `json:"score"`
	Mode         ScoringMode `json:"mode"`
	EvidenceKeys []string    `json:"evidence_keys,omitempty"`
	SubmittedAt  time.Time   `json:"submitted_at"`
	ReviewedAt   time.Time   `json:"reviewed_at"`
	ReviewedBy   string      `json:"reviewed_by"`
	TournamentID string      `json:"tournament_id"`
}
