package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmarzh/scrim-scoreboard/models"
)

func TestCreateTournamentDefaultsMultipliers(t *testing.T) {
	env := newTestEnv(t)
	tournament := env.createTournament(t, 6, 4)

	assert.Equal(t, models.TournamentActive, tournament.Status)
	assert.Equal(t, 2.0, tournament.Scoring.Multipliers[1])
	assert.Equal(t, 1.0, tournament.Scoring.Multipliers[10])
}

func TestCreateTournamentValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.tournaments.Create(ctx, CreateTournamentInput{
		Name:   "  ",
		Format: models.FormatSingleLobby,
		Scoring: models.ScoringConfig{
			TotalMatches:   4,
			CountedMatches: 3,
		},
	}, "admin-1")
	assert.ErrorIs(t, err, ErrTournamentNameRequired)

	_, err = env.tournaments.Create(ctx, CreateTournamentInput{
		Name:   "Bad Counts",
		Format: models.FormatSingleLobby,
		Scoring: models.ScoringConfig{
			TotalMatches:   3,
			CountedMatches: 5,
		},
	}, "admin-1")
	assert.ErrorIs(t, err, ErrInvalidScoringConfig)

	_, err = env.tournaments.Create(ctx, CreateTournamentInput{
		Name:   "Bad Format",
		Format: "round_robin",
		Scoring: models.ScoringConfig{
			TotalMatches:   4,
			CountedMatches: 3,
		},
	}, "admin-1")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestCreateTournamentNameConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	input := CreateTournamentInput{
		Name:   "Winter Cup",
		Format: models.FormatSingleLobby,
		Scoring: models.ScoringConfig{
			TotalMatches:   4,
			CountedMatches: 3,
		},
	}
	_, err := env.tournaments.Create(ctx, input, "admin-1")
	require.NoError(t, err)

	input.Name = "winter cup"
	_, err = env.tournaments.Create(ctx, input, "admin-1")
	assert.ErrorIs(t, err, ErrTournamentNameConflict)
}

func TestCompleteFreezesLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createTournament(t, 4, 3)
	alpha := env.registerTeam(t, tournament.ID, "Alpha Squad")
	bravo := env.registerTeam(t, tournament.ID, "Bravo Five")

	env.approveSubmission(t, tournament.ID, alpha.AccessCode, 1, 6) // 12.0
	env.approveSubmission(t, tournament.ID, bravo.AccessCode, 2, 2) // 3.6

	completed, err := env.tournaments.Complete(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	require.Len(t, completed.FinalLeaderboard, 2)
	assert.Equal(t, alpha.AccessCode, completed.FinalLeaderboard[0].TeamCode)
	assert.Equal(t, 1, completed.FinalLeaderboard[0].Rank)

	// New results after completion never reach the frozen snapshot.
	_, err = env.submissions.Submit(ctx, SubmitInput{
		TournamentID: tournament.ID,
		TeamCode:     bravo.AccessCode,
		Position:     1,
		Kills:        20,
	})
	assert.ErrorIs(t, err, ErrTournamentNotActive)

	snapshot, err := env.leaderboard.Compute(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, completed.FinalLeaderboard, snapshot)
}

func TestCompletedTournamentIsImmutable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createTournament(t, 4, 3)

	_, err := env.tournaments.Complete(ctx, tournament.ID)
	require.NoError(t, err)

	newName := "Renamed"
	_, err = env.tournaments.Update(ctx, tournament.ID, UpdateTournamentInput{Name: &newName})
	assert.ErrorIs(t, err, ErrTournamentImmutable)

	_, err = env.tournaments.Complete(ctx, tournament.ID)
	assert.ErrorIs(t, err, ErrTournamentImmutable)
}

func TestArchiveRequiresCompleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createTournament(t, 4, 3)

	_, err := env.tournaments.Archive(ctx, tournament.ID)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = env.tournaments.Complete(ctx, tournament.ID)
	require.NoError(t, err)

	archived, err := env.tournaments.Archive(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentArchived, archived.Status)
}

func TestAssignManagerChecksExistence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createTournament(t, 4, 3)

	_, err := env.tournaments.AssignManager(ctx, tournament.ID, "ghost")
	assert.ErrorIs(t, err, ErrManagerNotFound)

	manager, err := env.auth.CreateManager(ctx, CreateManagerInput{
		Login:       "reviewer",
		DisplayName: "Reviewer",
		Password:    "longenough",
	})
	require.NoError(t, err)

	updated, err := env.tournaments.AssignManager(ctx, tournament.ID, manager.ID)
	require.NoError(t, err)
	assert.True(t, updated.HasManager(manager.ID))

	// Assigning twice does not duplicate the entry.
	updated, err = env.tournaments.AssignManager(ctx, tournament.ID, manager.ID)
	require.NoError(t, err)
	assert.Len(t, updated.ManagerIDs, 1)

	updated, err = env.tournaments.UnassignManager(ctx, tournament.ID, manager.ID)
	require.NoError(t, err)
	assert.False(t, updated.HasManager(manager.ID))
}

func TestUpdateScoringKeepsMultipliersWhenOmitted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createTournament(t, 4, 3)

	cfg := models.ScoringConfig{
		LobbyCount:     1,
		SlotsPerLobby:  20,
		TotalMatches:   6,
		CountedMatches: 4,
	}
	updated, err := env.tournaments.Update(ctx, tournament.ID, UpdateTournamentInput{Scoring: &cfg})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Scoring.TotalMatches)
	assert.Equal(t, 2.0, updated.Scoring.Multipliers[1], "existing multiplier table is retained")
}
