package models

import "time"

// TournamentStatus mirrors the lifecycle enum stored with the tournament document.
type TournamentStatus string

const (
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
	TournamentArchived  TournamentStatus = "archived"
)

// TournamentFormat tags how matches are structured within the tournament.
type TournamentFormat string

const (
	FormatSingleLobby TournamentFormat = "single_lobby"
	FormatMultiLobby  TournamentFormat = "multi_lobby"
)

// ScoringConfig holds the per-tournament scoring rules.
type ScoringConfig struct {
	LobbyCount     int             `json:"lobby_count"`
	SlotsPerLobby  int             `json:"slots_per_lobby"`
	TotalMatches   int             `json:"total_matches"`
	CountedMatches int             `json:"counted_matches"`
	Multipliers    map[int]float64 `json:"multipliers,omitempty"`
}

// Tournament is the root entity every other collection hangs off.
// Once Status becomes completed the record is immutable and FinalLeaderboard
// holds the snapshot taken at that instant; it is never recomputed.
type Tournament struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Format           TournamentFormat `json:"format"`
	Status           TournamentStatus `json:"status"`
	Scoring          ScoringConfig    `json:"scoring"`
	ManagerIDs       []string         `json:"manager_ids,omitempty"`
	FinalLeaderboard []TeamStats      `json:"final_leaderboard,omitempty"`
	CreatedBy        string           `json:"created_by"`
	CreatedAt        time.Time        `json:"created_at"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
}

// HasManager reports whether the given staff id is assigned to this tournament.
func (t *Tournament) HasManager(id string) bool {
	for _, m := range t.ManagerIDs {
		if m == id {
			return true
		}
	}
	return false
}
