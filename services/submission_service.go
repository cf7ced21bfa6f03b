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

type SubmitInput struct {
	TournamentID string   `json:"tournament_id"`
	TeamCode     string   `json:"team_code"`
	Position     int      `json:"position"`
	Kills        int      `json:"kills"`
	EvidenceKeys []string `json:"evidence_keys,omitempty"`
}

// SlotEntry is one team's result inside a staff slot assignment. Score is
// only consulted in manual mode and is used verbatim.
type SlotEntry struct {
	TeamCode string   `json:"team_code"`
	Position int      `json:"position"`
	Kills    int      `json:"kills"`
	Score    *float64 `json:"score,omitempty"`
}

type AssignSlotInput struct {
	TournamentID string             `json:"tournament_id"`
	Slot         int                `json:"slot"`
	Mode         models.ScoringMode `json:"mode"`
	Entries      []SlotEntry        `json:"entries"`
}

// SubmissionService is the review workflow: a pending submission either
// becomes an approved match or is discarded. Both outcomes are terminal.
type SubmissionService interface {
	Submit(ctx context.Context, input SubmitInput) (*models.PendingSubmission, error)
	Approve(ctx context.Context, submissionID string, reviewer *Actor) (*models.Match, error)
	Reject(ctx context.Context, submissionID string, reviewer *Actor) error
	AssignSlot(ctx context.Context, input AssignSlotInput, reviewer *Actor) ([]models.Match, []string, error)
	ListPending(ctx context.Context, tournamentID string) []models.PendingSubmission
}

// Actor identifies who performs a reviewed operation.
type Actor struct {
	ID   string
	Role models.StaffRole
}

type submissionService struct {
	collections *syncstore.Collections
	audit       AuditService
	logger      *slog.Logger
}

func NewSubmissionService(collections *syncstore.Collections, audit AuditService, logger *slog.Logger) SubmissionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &submissionService{collections: collections, audit: audit, logger: logger}
}

// Submit files a pending result. The capacity invariant: approved matches
// plus in-flight submissions for the team must never exceed the tournament's
// configured total.
func (s *submissionService) Submit(ctx context.Context, input SubmitInput) (*models.PendingSubmission, error) {
	tournament, err := findTournament(ctx, s.collections, input.TournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.TournamentActive {
		return nil, ErrTournamentNotActive
	}

	teamExists := false
	for _, t := range s.collections.Teams.Read(ctx) {
		if t.AccessCode == input.TeamCode && t.TournamentID == input.TournamentID {
			teamExists = true
			break
		}
	}
	if !teamExists {
		return nil, ErrTeamNotFound
	}

	approved := s.countApproved(ctx, input.TournamentID, input.TeamCode)
	pending := len(s.pendingFor(ctx, input.TournamentID, input.TeamCode))
	if approved+pending >= tournament.Scoring.TotalMatches {
		return nil, fmt.Errorf("%w: %d approved and %d pending of %d total",
			ErrCapacityExceeded, approved, pending, tournament.Scoring.TotalMatches)
	}

	submission := models.PendingSubmission{
		ID:           uuid.NewString(),
		TeamCode:     input.TeamCode,
		Position:     input.Position,
		Kills:        input.Kills,
		EvidenceKeys: input.EvidenceKeys,
		SubmittedAt:  time.Now().UTC(),
		TournamentID: input.TournamentID,
	}

	_, err = s.collections.Submissions.Write(ctx, func(subs []models.PendingSubmission) []models.PendingSubmission {
		return append(subs, submission)
	})
	if err != nil {
		return nil, fmt.Errorf("file submission: %w", err)
	}
	return &submission, nil
}

// Approve scores the submission in automatic mode with the tournament's
// current multiplier table. An invalid result refuses the approval and the
// submission stays pending; a submission already consumed by a concurrent
// reviewer is a warning, not an error.
func (s *submissionService) Approve(ctx context.Context, submissionID string, reviewer *Actor) (*models.Match, error) {
	submission := s.findSubmission(ctx, submissionID)
	if submission == nil {
		s.logger.Warn("approve: submission no longer pending", slog.String("submission_id", submissionID))
		return nil, nil
	}

	tournament, err := findTournament(ctx, s.collections, submission.TournamentID)
	if err != nil {
		return nil, err
	}

	result := scoring.Compute(scoring.Input{
		Kills:       submission.Kills,
		Position:    submission.Position,
		Multipliers: tournament.Scoring.Multipliers,
	})
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(result.Errors, "; "))
	}

	match := models.Match{
		ID:           uuid.NewString(),
		TeamCode:     submission.TeamCode,
		Slot:         s.countApproved(ctx, submission.TournamentID, submission.TeamCode) + 1,
		Position:     submission.Position,
		Kills:        submission.Kills,
		Score:        result.Score,
		Mode:         models.ScoredAutomatic,
		EvidenceKeys: submission.EvidenceKeys,
		SubmittedAt:  submission.SubmittedAt,
		ReviewedAt:   time.Now().UTC(),
		ReviewedBy:   reviewer.ID,
		TournamentID: submission.TournamentID,
	}

	// The two writes cannot span collections atomically; keeping them back to
	// back minimizes the race window.
	if _, err := s.collections.Matches.Write(ctx, func(matches []models.Match) []models.Match {
		return append(matches, match)
	}); err != nil {
		return nil, fmt.Errorf("store approved match: %w", err)
	}
	if _, err := s.collections.Submissions.Write(ctx, removeSubmission(submissionID)); err != nil {
		return nil, fmt.Errorf("clear pending submission: %w", err)
	}

	s.audit.Append(ctx, "submission.approved",
		fmt.Sprintf("team %s position %d kills %d scored %.1f", match.TeamCode, match.Position, match.Kills, match.Score),
		reviewer.ID, reviewer.Role,
		map[string]string{"tournament_id": match.TournamentID, "match_id": match.ID})

	return &match, nil
}

// Reject discards the submission. Beyond the action log no record of the
// rejected values is retained.
func (s *submissionService) Reject(ctx context.Context, submissionID string, reviewer *Actor) error {
	submission := s.findSubmission(ctx, submissionID)
	if submission == nil {
		s.logger.Warn("reject: submission no longer pending", slog.String("submission_id", submissionID))
		return nil
	}

	if _, err := s.collections.Submissions.Write(ctx, removeSubmission(submissionID)); err != nil {
		return fmt.Errorf("reject submission: %w", err)
	}

	s.audit.Append(ctx, "submission.rejected",
		fmt.Sprintf("team %s position %d kills %d", submission.TeamCode, submission.Position, submission.Kills),
		reviewer.ID, reviewer.Role,
		map[string]string{"tournament_id": submission.TournamentID, "submission_id": submissionID})
	return nil
}

// AssignSlot bypasses the review workflow: every prior match for the slot is
// replaced in a single updater. All entries must score valid before anything
// is written. The returned warnings come from the batch consistency check and
// never block the assignment.
func (s *submissionService) AssignSlot(ctx context.Context, input AssignSlotInput, reviewer *Actor) ([]models.Match, []string, error) {
	tournament, err := findTournament(ctx, s.collections, input.TournamentID)
	if err != nil {
		return nil, nil, err
	}
	if tournament.Status != models.TournamentActive {
		return nil, nil, ErrTournamentNotActive
	}
	if input.Slot < 1 || input.Slot > tournament.Scoring.TotalMatches {
		return nil, nil, fmt.Errorf("%w: slot %d of %d", ErrSlotOutOfRange, input.Slot, tournament.Scoring.TotalMatches)
	}
	if len(input.Entries) == 0 {
		return nil, nil, ErrNoEntriesForAssignment
	}
	if input.Mode != models.ScoredAutomatic && input.Mode != models.ScoredManual {
		return nil, nil, fmt.Errorf("%w: unknown scoring mode %q", ErrValidationFailed, input.Mode)
	}

	now := time.Now().UTC()
	replacements := make([]models.Match, 0, len(input.Entries))
	for _, entry := range input.Entries {
		in := scoring.Input{
			Kills:       entry.Kills,
			Position:    entry.Position,
			Multipliers: tournament.Scoring.Multipliers,
		}
		if input.Mode == models.ScoredManual {
			if entry.Score == nil {
				return nil, nil, fmt.Errorf("%w: manual assignment for team %s is missing a score", ErrValidationFailed, entry.TeamCode)
			}
			in.Manual = entry.Score
		}
		result := scoring.Compute(in)
		if !result.Valid {
			return nil, nil, fmt.Errorf("%w: team %s: %s", ErrValidationFailed, entry.TeamCode, strings.Join(result.Errors, "; "))
		}

		replacements = append(replacements, models.Match{
			ID:           uuid.NewString(),
			TeamCode:     entry.TeamCode,
			Slot:         input.Slot,
			Position:     entry.Position,
			Kills:        entry.Kills,
			Score:        result.Score,
			Mode:         input.Mode,
			SubmittedAt:  now,
			ReviewedAt:   now,
			ReviewedBy:   reviewer.ID,
			TournamentID: input.TournamentID,
		})
	}

	batch := make([]scoring.BatchEntry, len(input.Entries))
	for i, e := range input.Entries {
		batch[i] = scoring.BatchEntry{TeamCode: e.TeamCode, Position: e.Position, Kills: e.Kills}
	}
	teamCount := 0
	for _, t := range s.collections.Teams.Read(ctx) {
		if t.TournamentID == input.TournamentID {
			teamCount++
		}
	}
	warnings := scoring.ValidateConsistency(batch, teamCount)

	_, err = s.collections.Matches.Write(ctx, func(matches []models.Match) []models.Match {
		out := make([]models.Match, 0, len(matches)+len(replacements))
		for _, m := range matches {
			if m.TournamentID == input.TournamentID && m.Slot == input.Slot {
				continue
			}
			out = append(out, m)
		}
		return append(out, replacements...)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("assign slot: %w", err)
	}

	s.audit.Append(ctx, "slot.assigned",
		fmt.Sprintf("slot %d replaced with %d entries (%s mode)", input.Slot, len(replacements), input.Mode),
		reviewer.ID, reviewer.Role,
		map[string]string{"tournament_id": input.TournamentID})

	return replacements, warnings, nil
}

func (s *submissionService) ListPending(ctx context.Context, tournamentID string) []models.PendingSubmission {
	var out []models.PendingSubmission
	for _, sub := range s.collections.Submissions.Read(ctx) {
		if sub.TournamentID == tournamentID {
			out = append(out, sub)
		}
	}
	return out
}

func (s *submissionService) findSubmission(ctx context.Context, id string) *models.PendingSubmission {
	for _, sub := range s.collections.Submissions.Read(ctx) {
		if sub.ID == id {
			copied := sub
			return &copied
		}
	}
	return nil
}

func (s *submissionService) countApproved(ctx context.Context, tournamentID, teamCode string) int {
	count := 0
	for _, m := range s.collections.Matches.Read(ctx) {
		if m.TournamentID == tournamentID && m.TeamCode == teamCode {
			count++
		}
	}
	return count
}

func (s *submissionService) pendingFor(ctx context.Context, tournamentID, teamCode string) []models.PendingSubmission {
	var out []models.PendingSubmission
	for _, sub := range s.collections.Submissions.Read(ctx) {
		if sub.TournamentID == tournamentID && sub.TeamCode == teamCode {
			out = append(out, sub)
		}
	}
	return out
}

func removeSubmission(id string) func([]models.PendingSubmission) []models.PendingSubmission {
	return func(subs []models.PendingSubmission) []models.PendingSubmission {
		out := make([]models.PendingSubmission, 0, len(subs))
		for _, sub := range subs {
			if sub.ID != id {
				out = append(out, sub)
			}
		}
		return out
	}
}
