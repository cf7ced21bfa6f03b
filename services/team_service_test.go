package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmarzh/scrim-scoreboard/models"
)

func TestRegisterAssignsUniqueCodes(t *testing.T) {
	env := newTestEnv(t)
	tournament := env.createTournament(t, 4, 3)

	alpha := env.registerTeam(t, tournament.ID, "Alpha Squad")
	bravo := env.registerTeam(t, tournament.ID, "Bravo Five")

	assert.NotEmpty(t, alpha.AccessCode)
	assert.NotEqual(t, alpha.AccessCode, bravo.AccessCode)
}

func TestRegisterRejectsDuplicateNameInTournament(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.createTournament(t, 4, 3)
	second := env.createTournament(t, 4, 3)

	env.registerTeam(t, first.ID, "Alpha Squad")

	_, err := env.teams.Register(ctx, RegisterTeamInput{
		Name:         "alpha squad",
		Lobby:        1,
		TournamentID: first.ID,
	})
	assert.ErrorIs(t, err, ErrTeamNameConflict)

	// The same name is fine in a different tournament.
	_, err = env.teams.Register(ctx, RegisterTeamInput{
		Name:         "Alpha Squad",
		Lobby:        1,
		TournamentID: second.ID,
	})
	assert.NoError(t, err)
}

func TestRegisterRequiresActiveTournament(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createTournament(t, 4, 3)

	_, err := env.tournaments.Complete(ctx, tournament.ID)
	require.NoError(t, err)

	_, err = env.teams.Register(ctx, RegisterTeamInput{
		Name:         "Latecomers",
		Lobby:        1,
		TournamentID: tournament.ID,
	})
	assert.ErrorIs(t, err, ErrTournamentNotActive)
}

func TestRenameKeepsMatchHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createTournament(t, 4, 3)
	team := env.registerTeam(t, tournament.ID, "Alpha Squad")

	env.approveSubmission(t, tournament.ID, team.AccessCode, 1, 4)

	renamed, err := env.teams.Rename(ctx, team.ID, "Alpha Reborn")
	require.NoError(t, err)
	assert.Equal(t, "Alpha Reborn", renamed.Name)
	assert.Equal(t, team.AccessCode, renamed.AccessCode, "access code never changes")

	// Matches are keyed by access code, so the history follows the rename.
	board, err := env.leaderboard.Compute(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "Alpha Reborn", board[0].TeamName)
	assert.Equal(t, 1, board[0].MatchesPlayed)
}

func TestDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createTournament(t, 4, 3)
	alpha := env.registerTeam(t, tournament.ID, "Alpha Squad")
	bravo := env.registerTeam(t, tournament.ID, "Bravo Five")

	env.approveSubmission(t, tournament.ID, alpha.AccessCode, 1, 4)
	env.approveSubmission(t, tournament.ID, bravo.AccessCode, 2, 2)

	_, err := env.submissions.Submit(ctx, SubmitInput{
		TournamentID: tournament.ID,
		TeamCode:     alpha.AccessCode,
		Position:     3,
		Kills:        1,
	})
	require.NoError(t, err)

	_, err = env.adjustments.Apply(ctx, ApplyAdjustmentInput{
		TournamentID: tournament.ID,
		TeamCode:     alpha.AccessCode,
		Delta:        -5,
		Reason:       "zone camping",
		Category:     models.AdjustmentPenalty,
	}, env.reviewer)
	require.NoError(t, err)

	require.NoError(t, env.teams.Delete(ctx, alpha.ID))

	_, err = env.teams.GetByCode(ctx, alpha.AccessCode)
	assert.ErrorIs(t, err, ErrTeamNotFound)

	for _, m := range env.collections.Matches.Read(ctx) {
		assert.NotEqual(t, alpha.AccessCode, m.TeamCode)
	}
	assert.Empty(t, env.submissions.ListPending(ctx, tournament.ID))
	assert.Empty(t, env.adjustments.ListByTournament(ctx, tournament.ID))

	// The other team's record is untouched.
	remaining := env.teams.ListByTournament(ctx, tournament.ID)
	require.Len(t, remaining, 1)
	assert.Equal(t, bravo.AccessCode, remaining[0].AccessCode)
}

func TestDeleteUnknownTeam(t *testing.T) {
	env := newTestEnv(t)
	env.createTournament(t, 4, 3)

	err := env.teams.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestFillIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createTournament(t, 4, 3)
	team := env.registerTeam(t, tournament.ID, "Alpha Squad")

	player := "shroud"
	updated, err := env.teams.FillIdentity(ctx, team.AccessCode, TeamIdentityInput{PlayerName: &player})
	require.NoError(t, err)
	require.NotNil(t, updated.PlayerName)
	assert.Equal(t, "shroud", *updated.PlayerName)
	assert.Nil(t, updated.ClanTag, "omitted fields stay unset")
}
