package syncstore

import (
	"github.com/kmarzh/scrim-scoreboard/models"
)

// Collection names double as storage keys and bus topics.
const (
	CollectionTournaments = "tournaments"
	CollectionTeams       = "teams"
	CollectionMatches     = "matches"
	CollectionSubmissions = "submissions"
	CollectionAdjustments = "adjustments"
	CollectionManagers    = "managers"
	CollectionAuditLog    = "audit_log"
)

// Collections bundles every synchronized collection of one actor context.
type Collections struct {
	Tournaments *Collection[[]models.Tournament]
	Teams       *Collection[[]models.Team]
	Matches     *Collection[[]models.Match]
	Submissions *Collection[[]models.PendingSubmission]
	Adjustments *Collection[[]models.ScoreAdjustment]
	Managers    *Collection[[]models.Manager]
	AuditLog    *Collection[[]models.AuditEntry]
}

func NewCollections(s *Syncer) *Collections {
	return &Collections{
		Tournaments: NewCollection[[]models.Tournament](s, CollectionTournaments),
		Teams:       NewCollection[[]models.Team](s, CollectionTeams),
		Matches:     NewCollection[[]models.Match](s, CollectionMatches),
		Submissions: NewCollection[[]models.PendingSubmission](s, CollectionSubmissions),
		Adjustments: NewCollection[[]models.ScoreAdjustment](s, CollectionAdjustments),
		Managers:    NewCollection[[]models.Manager](s, CollectionManagers),
		AuditLog:    NewCollection[[]models.AuditEntry](s, CollectionAuditLog),
	}
}
