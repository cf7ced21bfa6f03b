package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmarzh/scrim-scoreboard/models"
	"github.com/kmarzh/scrim-scoreboard/syncstore"
)

type RegisterTeamInput struct {
	Name         string `json:"name"`
	Lobby        int    `json:"lobby"`
	TournamentID string `json:"tournament_id"`
}

type TeamIdentityInput struct {
	PlayerName *string `json:"player_name,omitempty"`
	ClanTag    *string `json:"clan_tag,omitempty"`
}

type TeamService interface {
	Register(ctx context.Context, input RegisterTeamInput) (*models.Team, error)
	Rename(ctx context.Context, teamID, newName string) (*models.Team, error)
	FillIdentity(ctx context.Context, accessCode string, input TeamIdentityInput) (*models.Team, error)
	GetByCode(ctx context.Context, accessCode string) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID string) []models.Team
	Delete(ctx context.Context, teamID string) error
}

type teamService struct {
	collections *syncstore.Collections
	codes       CodeGenerator
}

// CodeGenerator produces team access codes; injected so tests can pin codes.
type CodeGenerator func() (string, error)

func NewTeamService(collections *syncstore.Collections, codes CodeGenerator) TeamService {
	return &teamService{collections: collections, codes: codes}
}

// Register creates a team with a freshly generated access code. Codes are
// globally unique across tournaments; the generator is retried on collision.
func (s *teamService) Register(ctx context.Context, input RegisterTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	tournament, err := findTournament(ctx, s.collections, input.TournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.TournamentActive {
		return nil, ErrTournamentNotActive
	}

	existing := s.collections.Teams.Read(ctx)
	taken := make(map[string]bool, len(existing))
	for _, t := range existing {
		if t.TournamentID == input.TournamentID && strings.EqualFold(t.Name, name) {
			return nil, ErrTeamNameConflict
		}
		taken[t.AccessCode] = true
	}

	code, err := s.uniqueCode(taken)
	if err != nil {
		return nil, err
	}

	team := models.Team{
		ID:           uuid.NewString(),
		Name:         name,
		AccessCode:   code,
		Lobby:        input.Lobby,
		TournamentID: input.TournamentID,
		RegisteredAt: time.Now().UTC(),
	}

	_, err = s.collections.Teams.Write(ctx, func(teams []models.Team) []models.Team {
		return append(teams, team)
	})
	if err != nil {
		return nil, fmt.Errorf("register team: %w", err)
	}
	return &team, nil
}

func (s *teamService) uniqueCode(taken map[string]bool) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code, err := s.codes()
		if err != nil {
			return "", fmt.Errorf("generate access code: %w", err)
		}
		if !taken[code] {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique access code")
}

// Rename changes the display name only. Matches and adjustments are keyed by
// access code, so the team keeps its history.
func (s *teamService) Rename(ctx context.Context, teamID, newName string) (*models.Team, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, ErrTeamNameRequired
	}

	var renamed *models.Team
	_, err := s.collections.Teams.Write(ctx, func(teams []models.Team) []models.Team {
		out := make([]models.Team, len(teams))
		copy(out, teams)
		for i := range out {
			if out[i].ID == teamID {
				out[i].Name = newName
				copied := out[i]
				renamed = &copied
				break
			}
		}
		return out
	})
	if err != nil {
		return nil, fmt.Errorf("rename team: %w", err)
	}
	if renamed == nil {
		return nil, ErrTeamNotFound
	}
	return renamed, nil
}

// FillIdentity sets the optional player/clan fields on first team login.
func (s *teamService) FillIdentity(ctx context.Context, accessCode string, input TeamIdentityInput) (*models.Team, error) {
	var updated *models.Team
	_, err := s.collections.Teams.Write(ctx, func(teams []models.Team) []models.Team {
		out := make([]models.Team, len(teams))
		copy(out, teams)
		for i := range out {
			if out[i].AccessCode == accessCode {
				if input.PlayerName != nil {
					out[i].PlayerName = input.PlayerName
				}
				if input.ClanTag != nil {
					out[i].ClanTag = input.ClanTag
				}
				copied := out[i]
				updated = &copied
				break
			}
		}
		return out
	})
	if err != nil {
		return nil, fmt.Errorf("fill team identity: %w", err)
	}
	if updated == nil {
		return nil, ErrTeamNotFound
	}
	return updated, nil
}

func (s *teamService) GetByCode(ctx context.Context, accessCode string) (*models.Team, error) {
	for _, t := range s.collections.Teams.Read(ctx) {
		if t.AccessCode == accessCode {
			copied := t
			return &copied, nil
		}
	}
	return nil, ErrTeamNotFound
}

func (s *teamService) ListByTournament(ctx context.Context, tournamentID string) []models.Team {
	var out []models.Team
	for _, t := range s.collections.Teams.Read(ctx) {
		if t.TournamentID == tournamentID {
			out = append(out, t)
		}
	}
	return out
}

// Delete removes the team and cascades to its matches, pending submissions
// and adjustments. The writes span collections and cannot be atomic; each
// collection is cleaned in its own updater back to back.
func (s *teamService) Delete(ctx context.Context, teamID string) error {
	var code string
	_, err := s.collections.Teams.Write(ctx, func(teams []models.Team) []models.Team {
		out := make([]models.Team, 0, len(teams))
		for _, t := range teams {
			if t.ID == teamID {
				code = t.AccessCode
				continue
			}
			out = append(out, t)
		}
		return out
	})
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	if code == "" {
		return ErrTeamNotFound
	}

	if _, err := s.collections.Matches.Write(ctx, func(matches []models.Match) []models.Match {
		out := make([]models.Match, 0, len(matches))
		for _, m := range matches {
			if m.TeamCode != code {
				out = append(out, m)
			}
		}
		return out
	}); err != nil {
		return fmt.Errorf("cascade delete matches: %w", err)
	}

	if _, err := s.collections.Submissions.Write(ctx, func(subs []models.PendingSubmission) []models.PendingSubmission {
		out := make([]models.PendingSubmission, 0, len(subs))
		for _, sub := range subs {
			if sub.TeamCode != code {
				out = append(out, sub)
			}
		}
		return out
	}); err != nil {
		return fmt.Errorf("cascade delete submissions: %w", err)
	}

	if _, err := s.collections.Adjustments.Write(ctx, func(adjs []models.ScoreAdjustment) []models.ScoreAdjustment {
		out := make([]models.ScoreAdjustment, 0, len(adjs))
		for _, a := range adjs {
			if a.TeamCode != code {
				out = append(out, a)
			}
		}
		return out
	}); err != nil {
		return fmt.Errorf("cascade delete adjustments: %w", err)
	}

	return nil
}

// findTournament is shared by services that validate the owning tournament.
func findTournament(ctx context.Context, collections *syncstore.Collections, id string) (*models.Tournament, error) {
	for _, t := range collections.Tournaments.Read(ctx) {
		if t.ID == id {
			copied := t
			return &copied, nil
		}
	}
	return nil, ErrTournamentNotFound
}
