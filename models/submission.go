package models

import "time"

// PendingSubmission is a team-reported result waiting for staff review.
// It lives only in the submissions collection: approval converts it to a
// Match, rejection discards it.
type PendingSubmission struct {
	ID           string    `json:"id"`
	TeamCode     string    `json:"team_code"`
	Position     int       `json:"position"`
	Kills        int       `json:"kills"`
	EvidenceKeys []string  `json:"evidence_keys,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
	TournamentID string    `json:"tournament_id"`
}
