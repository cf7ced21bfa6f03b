package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmarzh/scrim-scoreboard/models"
)

func TestStaffLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.CreateManager(ctx, CreateManagerInput{
		Login:       "reviewer",
		DisplayName: "Reviewer",
		Password:    "longenough",
	})
	require.NoError(t, err)

	manager, err := env.auth.StaffLogin(ctx, "Reviewer", "longenough")
	require.NoError(t, err, "login is case-insensitive")
	assert.Equal(t, models.RoleManager, manager.Role)

	_, err = env.auth.StaffLogin(ctx, "reviewer", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.StaffLogin(ctx, "nobody", "longenough")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateManagerValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.CreateManager(ctx, CreateManagerInput{Login: "", Password: "longenough"})
	assert.ErrorIs(t, err, ErrLoginRequired)

	_, err = env.auth.CreateManager(ctx, CreateManagerInput{Login: "short", Password: "1234567"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = env.auth.CreateManager(ctx, CreateManagerInput{Login: "reviewer", Password: "longenough"})
	require.NoError(t, err)

	_, err = env.auth.CreateManager(ctx, CreateManagerInput{Login: "REVIEWER", Password: "longenough"})
	assert.ErrorIs(t, err, ErrLoginConflict)
}

func TestTeamLoginNormalizesCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createTournament(t, 4, 3)
	team := env.registerTeam(t, tournament.ID, "Alpha Squad")

	got, err := env.auth.TeamLogin(ctx, "  "+team.AccessCode+" ")
	require.NoError(t, err)
	assert.Equal(t, team.ID, got.ID)

	_, err = env.auth.TeamLogin(ctx, "WRONG1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.auth.EnsureAdmin(ctx, "admin", "bootstrap-secret"))
	require.NoError(t, env.auth.EnsureAdmin(ctx, "admin", "different-secret"))

	managers := env.auth.ListManagers(ctx)
	require.Len(t, managers, 1)
	assert.Equal(t, models.RoleAdmin, managers[0].Role)

	// The first password stays authoritative.
	_, err := env.auth.StaffLogin(ctx, "admin", "bootstrap-secret")
	assert.NoError(t, err)
}
