package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmarzh/scrim-scoreboard/models"
	"github.com/kmarzh/scrim-scoreboard/scoring"
	"github.com/kmarzh/scrim-scoreboard/syncstore"
)

type CreateTournamentInput struct {
	Name    string                  `json:"name"`
	Format  models.TournamentFormat `json:"format"`
	Scoring models.ScoringConfig    `json:"scoring"`
}

type UpdateTournamentInput struct {
	Name    *string               `json:"name,omitempty"`
	Scoring *models.ScoringConfig `json:"scoring,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput, createdBy string) (*models.Tournament, error)
	Update(ctx context.Context, id string, input UpdateTournamentInput) (*models.Tournament, error)
	Get(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context) []models.Tournament
	AssignManager(ctx context.Context, id, managerID string) (*models.Tournament, error)
	UnassignManager(ctx context.Context, id, managerID string) (*models.Tournament, error)
	Complete(ctx context.Context, id string) (*models.Tournament, error)
	Archive(ctx context.Context, id string) (*models.Tournament, error)
}

type tournamentService struct {
	collections *syncstore.Collections
	leaderboard LeaderboardService
	logger      *slog.Logger
}

func NewTournamentService(collections *syncstore.Collections, leaderboard LeaderboardService, logger *slog.Logger) TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &tournamentService{collections: collections, leaderboard: leaderboard, logger: logger}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput, createdBy string) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.Format != models.FormatSingleLobby && input.Format != models.FormatMultiLobby {
		return nil, ErrInvalidFormat
	}
	if err := validateScoringConfig(input.Scoring); err != nil {
		return nil, err
	}

	for _, t := range s.collections.Tournaments.Read(ctx) {
		if strings.EqualFold(t.Name, name) {
			return nil, ErrTournamentNameConflict
		}
	}

	cfg := input.Scoring
	if cfg.Multipliers == nil {
		cfg.Multipliers = scoring.DefaultMultipliers
	}

	tournament := models.Tournament{
		ID:        uuid.NewString(),
		Name:      name,
		Format:    input.Format,
		Status:    models.TournamentActive,
		Scoring:   cfg,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.collections.Tournaments.Write(ctx, func(ts []models.Tournament) []models.Tournament {
		return append(ts, tournament)
	})
	if err != nil {
		return nil, fmt.Errorf("create tournament: %w", err)
	}
	return &tournament, nil
}

func validateScoringConfig(cfg models.ScoringConfig) error {
	if cfg.TotalMatches <= 0 || cfg.CountedMatches <= 0 {
		return fmt.Errorf("%w: total and counted matches must be positive", ErrInvalidScoringConfig)
	}
	if cfg.CountedMatches > cfg.TotalMatches {
		return fmt.Errorf("%w: counted matches (%d) exceed total matches (%d)", ErrInvalidScoringConfig, cfg.CountedMatches, cfg.TotalMatches)
	}
	if cfg.LobbyCount < 0 || cfg.SlotsPerLobby < 0 {
		return fmt.Errorf("%w: lobby dimensions must not be negative", ErrInvalidScoringConfig)
	}
	for position, multiplier := range cfg.Multipliers {
		if position < scoring.MinPosition || position > scoring.MaxPosition {
			return fmt.Errorf("%w: multiplier position %d out of range", ErrInvalidScoringConfig, position)
		}
		if multiplier < 0 {
			return fmt.Errorf("%w: multiplier for position %d is negative", ErrInvalidScoringConfig, position)
		}
	}
	return nil
}

func (s *tournamentService) Update(ctx context.Context, id string, input UpdateTournamentInput) (*models.Tournament, error) {
	if input.Scoring != nil {
		if err := validateScoringConfig(*input.Scoring); err != nil {
			return nil, err
		}
	}

	return s.mutate(ctx, id, func(t *models.Tournament) error {
		if t.Status != models.TournamentActive {
			return ErrTournamentImmutable
		}
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return ErrTournamentNameRequired
			}
			t.Name = name
		}
		if input.Scoring != nil {
			cfg := *input.Scoring
			if cfg.Multipliers == nil {
				cfg.Multipliers = t.Scoring.Multipliers
			}
			t.Scoring = cfg
		}
		return nil
	})
}

func (s *tournamentService) Get(ctx context.Context, id string) (*models.Tournament, error) {
	return findTournament(ctx, s.collections, id)
}

func (s *tournamentService) List(ctx context.Context) []models.Tournament {
	return s.collections.Tournaments.Read(ctx)
}

func (s *tournamentService) AssignManager(ctx context.Context, id, managerID string) (*models.Tournament, error) {
	managerExists := false
	for _, m := range s.collections.Managers.Read(ctx) {
		if m.ID == managerID {
			managerExists = true
			break
		}
	}
	if !managerExists {
		return nil, ErrManagerNotFound
	}

	return s.mutate(ctx, id, func(t *models.Tournament) error {
		if t.Status != models.TournamentActive {
			return ErrTournamentImmutable
		}
		if t.HasManager(managerID) {
			return nil
		}
		t.ManagerIDs = append(append([]string(nil), t.ManagerIDs...), managerID)
		return nil
	})
}

func (s *tournamentService) UnassignManager(ctx context.Context, id, managerID string) (*models.Tournament, error) {
	return s.mutate(ctx, id, func(t *models.Tournament) error {
		if t.Status != models.TournamentActive {
			return ErrTournamentImmutable
		}
		kept := make([]string, 0, len(t.ManagerIDs))
		for _, m := range t.ManagerIDs {
			if m != managerID {
				kept = append(kept, m)
			}
		}
		t.ManagerIDs = kept
		return nil
	})
}

// Complete freezes the tournament: the leaderboard computed at this instant
// becomes the final snapshot and the record is immutable afterwards.
func (s *tournamentService) Complete(ctx context.Context, id string) (*models.Tournament, error) {
	snapshot, err := s.leaderboard.Compute(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("freeze leaderboard: %w", err)
	}

	now := time.Now().UTC()
	tournament, err := s.mutate(ctx, id, func(t *models.Tournament) error {
		if t.Status != models.TournamentActive {
			return ErrTournamentImmutable
		}
		t.Status = models.TournamentCompleted
		t.FinalLeaderboard = snapshot
		t.CompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("tournament completed",
		slog.String("tournament_id", id),
		slog.Int("ranked_teams", len(snapshot)))
	return tournament, nil
}

func (s *tournamentService) Archive(ctx context.Context, id string) (*models.Tournament, error) {
	return s.mutate(ctx, id, func(t *models.Tournament) error {
		if t.Status != models.TournamentCompleted {
			return fmt.Errorf("%w: only completed tournaments can be archived", ErrValidationFailed)
		}
		t.Status = models.TournamentArchived
		return nil
	})
}

// mutate applies fn to a copy of the tournament inside one updater call.
func (s *tournamentService) mutate(ctx context.Context, id string, fn func(*models.Tournament) error) (*models.Tournament, error) {
	var result *models.Tournament
	var mutateErr error

	_, err := s.collections.Tournaments.Write(ctx, func(ts []models.Tournament) []models.Tournament {
		out := make([]models.Tournament, len(ts))
		copy(out, ts)
		for i := range out {
			if out[i].ID != id {
				continue
			}
			if err := fn(&out[i]); err != nil {
				mutateErr = err
				return ts
			}
			copied := out[i]
			result = &copied
			return out
		}
		mutateErr = ErrTournamentNotFound
		return ts
	})
	if err != nil {
		return nil, fmt.Errorf("update tournament: %w", err)
	}
	if mutateErr != nil {
		return nil, mutateErr
	}
	return result, nil
}
