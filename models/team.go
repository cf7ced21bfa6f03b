package models

import "time"

// Team is a registered competitor. The access code is handed out at
// registration, is globally unique across tournaments and never changes.
// Matches and adjustments are keyed by the code, not the id, so a renamed
// team keeps its history.
type Team struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	AccessCode   string    `json:"access_code"`
	Lobby        int       `json:"lobby"`
	TournamentID string    `json:"tournament_id"`
	PlayerName   *string   `json:"player_name,omitempty"`
	ClanTag      *string   `json:"clan_tag,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}
