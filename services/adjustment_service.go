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

type ApplyAdjustmentInput struct {
	TournamentID string                    `json:"tournament_id"`
	TeamCode     string                    `json:"team_code"`
	Delta        float64                   `json:"delta"`
	Reason       string                    `json:"reason"`
	Category     models.AdjustmentCategory `json:"category"`
}

// AdjustmentService appends signed point deltas. The collection is
// append-only: adjustments are never edited, a mistake is corrected by a
// compensating entry.
type AdjustmentService interface {
	Apply(ctx context.Context, input ApplyAdjustmentInput, appliedBy *Actor) (*models.ScoreAdjustment, error)
	ListByTournament(ctx context.Context, tournamentID string) []models.ScoreAdjustment
}

type adjustmentService struct {
	collections *syncstore.Collections
	audit       AuditService
}

func NewAdjustmentService(collections *syncstore.Collections, audit AuditService) AdjustmentService {
	return &adjustmentService{collections: collections, audit: audit}
}

func (s *adjustmentService) Apply(ctx context.Context, input ApplyAdjustmentInput, appliedBy *Actor) (*models.ScoreAdjustment, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, ErrReasonRequired
	}
	switch input.Category {
	case models.AdjustmentPenalty, models.AdjustmentReward, models.AdjustmentCrash:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, input.Category)
	}

	tournament, err := findTournament(ctx, s.collections, input.TournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.TournamentActive {
		return nil, ErrTournamentNotActive
	}

	var teamName string
	for _, t := range s.collections.Teams.Read(ctx) {
		if t.AccessCode == input.TeamCode && t.TournamentID == input.TournamentID {
			teamName = t.Name
			break
		}
	}
	if teamName == "" {
		return nil, ErrTeamNotFound
	}

	adjustment := models.ScoreAdjustment{
		ID:           uuid.NewString(),
		TeamCode:     input.TeamCode,
		TeamName:     teamName,
		Delta:        input.Delta,
		Reason:       strings.TrimSpace(input.Reason),
		Category:     input.Category,
		AppliedBy:    appliedBy.ID,
		AppliedAt:    time.Now().UTC(),
		TournamentID: input.TournamentID,
	}

	_, err = s.collections.Adjustments.Write(ctx, func(adjs []models.ScoreAdjustment) []models.ScoreAdjustment {
		return append(adjs, adjustment)
	})
	if err != nil {
		return nil, fmt.Errorf("apply adjustment: %w", err)
	}

	s.audit.Append(ctx, "adjustment.applied",
		fmt.Sprintf("%s %+.1f points for team %s: %s", adjustment.Category, adjustment.Delta, adjustment.TeamName, adjustment.Reason),
		appliedBy.ID, appliedBy.Role,
		map[string]string{"tournament_id": input.TournamentID, "adjustment_id": adjustment.ID})

	return &adjustment, nil
}

func (s *adjustmentService) ListByTournament(ctx context.Context, tournamentID string) []models.ScoreAdjustment {
	var out []models.ScoreAdjustment
	for _, a := range s.collections.Adjustments.Read(ctx) {
		if a.TournamentID == tournamentID {
			out = append(out, a)
		}
	}
	return out
}
