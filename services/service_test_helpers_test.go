package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kmarzh/scrim-scoreboard/broadcast"
	"github.com/kmarzh/scrim-scoreboard/models"
	"github.com/kmarzh/scrim-scoreboard/storage"
	"github.com/kmarzh/scrim-scoreboard/syncstore"
)

type testEnv struct {
	collections *syncstore.Collections
	audit       AuditService
	auth        AuthService
	teams       TeamService
	tournaments TournamentService
	submissions SubmissionService
	adjustments AdjustmentService
	leaderboard LeaderboardService
	reviewer    *Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := storage.NewTieredStore(logger, nil,
		storage.NewMemoryTier("memory:primary"),
		storage.NewMemoryTier("memory:mirror"),
		storage.NewMemoryBackupTier(5),
	)
	require.NoError(t, err)

	syncer := syncstore.NewSyncer(store, broadcast.NewBus(), time.Minute, logger)
	collections := syncstore.NewCollections(syncer)

	codeSeq := 0
	codes := func() (string, error) {
		codeSeq++
		return fmt.Sprintf("TEAM%02d", codeSeq), nil
	}

	audit := NewAuditService(collections, logger)
	leaderboard := NewLeaderboardService(collections)

	return &testEnv{
		collections: collections,
		audit:       audit,
		auth:        NewAuthService(collections, logger),
		teams:       NewTeamService(collections, codes),
		tournaments: NewTournamentService(collections, leaderboard, logger),
		submissions: NewSubmissionService(collections, audit, logger),
		adjustments: NewAdjustmentService(collections, audit),
		leaderboard: leaderboard,
		reviewer:    &Actor{ID: "staff-1", Role: models.RoleManager},
	}
}

func (e *testEnv) createTournament(t *testing.T, totalMatches, countedMatches int) *models.Tournament {
	t.Helper()
	tournament, err := e.tournaments.Create(context.Background(), CreateTournamentInput{
		Name:   fmt.Sprintf("Weekly Scrims %d", len(e.tournaments.List(context.Background()))+1),
		Format: models.FormatSingleLobby,
		Scoring: models.ScoringConfig{
			LobbyCount:     1,
			SlotsPerLobby:  20,
			TotalMatches:   totalMatches,
			CountedMatches: countedMatches,
		},
	}, "admin-1")
	require.NoError(t, err)
	return tournament
}

func (e *testEnv) registerTeam(t *testing.T, tournamentID, name string) *models.Team {
	t.Helper()
	team, err := e.teams.Register(context.Background(), RegisterTeamInput{
		Name:         name,
		Lobby:        1,
		TournamentID: tournamentID,
	})
	require.NoError(t, err)
	return team
}

func (e *testEnv) approveSubmission(t *testing.T, tournamentID, teamCode string, position, kills int) *models.Match {
	t.Helper()
	ctx := context.Background()
	submission, err := e.submissions.Submit(ctx, SubmitInput{
		TournamentID: tournamentID,
		TeamCode:     teamCode,
		Position:     position,
		Kills:        kills,
	})
	require.NoError(t, err)

	match, err := e.submissions.Approve(ctx, submission.ID, e.reviewer)
	require.NoError(t, err)
	require.NotNil(t, match)
	return match
}
