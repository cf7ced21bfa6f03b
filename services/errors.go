package services

import "errors"

// Shared errors used across services and the HTTP mapping.
var (
	// Generic not-found
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business-rule failures
	ErrValidationFailed       = errors.New("validation failed")
	ErrCapacityExceeded       = errors.New("match capacity for the team is exhausted")
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrReasonRequired         = errors.New("adjustment reason is required")
	ErrInvalidCategory        = errors.New("invalid adjustment category")
	ErrInvalidScoringConfig   = errors.New("invalid scoring configuration")
	ErrInvalidFormat          = errors.New("invalid tournament format")
	ErrLoginRequired          = errors.New("login is required")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrInvalidCredentials     = errors.New("invalid login or access code")
	ErrTournamentNotActive    = errors.New("tournament is not active")
	ErrTournamentImmutable    = errors.New("completed tournament can no longer be modified")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current actor")
	ErrSlotOutOfRange         = errors.New("match slot is outside the configured total")
	ErrNoEntriesForAssignment = errors.New("slot assignment requires at least one entry")

	// Conflicts
	ErrTeamNameConflict       = errors.New("team name is already in use")
	ErrLoginConflict          = errors.New("login is already in use")
	ErrTournamentNameConflict = errors.New("tournament name already exists")

	// Entity-specific not-found (more context than the generic one)
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrSubmissionNotFound = errors.New("pending submission not found")
	ErrManagerNotFound    = errors.New("manager not found")
)
