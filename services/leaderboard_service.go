package services

import (
	"context"

	"github.com/kmarzh/scrim-scoreboard/models"
	"github.com/kmarzh/scrim-scoreboard/scoring"
	"github.com/kmarzh/scrim-scoreboard/syncstore"
)

// LeaderboardService produces the ranked view for one tournament. For an
// active tournament the computation is always full and stateless from the
// current collections; for a completed one the frozen snapshot is returned
// untouched.
type LeaderboardService interface {
	Compute(ctx context.Context, tournamentID string) ([]models.TeamStats, error)
}

type leaderboardService struct {
	collections *syncstore.Collections
}

func NewLeaderboardService(collections *syncstore.Collections) LeaderboardService {
	return &leaderboardService{collections: collections}
}

func (s *leaderboardService) Compute(ctx context.Context, tournamentID string) ([]models.TeamStats, error) {
	tournament, err := findTournament(ctx, s.collections, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.TournamentActive {
		return tournament.FinalLeaderboard, nil
	}

	var teams []models.Team
	for _, t := range s.collections.Teams.Read(ctx) {
		if t.TournamentID == tournamentID {
			teams = append(teams, t)
		}
	}

	var matches []models.Match
	for _, m := range s.collections.Matches.Read(ctx) {
		if m.TournamentID == tournamentID {
			matches = append(matches, m)
		}
	}

	var adjustments []models.ScoreAdjustment
	for _, a := range s.collections.Adjustments.Read(ctx) {
		if a.TournamentID == tournamentID {
			adjustments = append(adjustments, a)
		}
	}

	return scoring.ComputeLeaderboard(teams, matches, adjustments, tournament.Scoring.CountedMatches), nil
}
