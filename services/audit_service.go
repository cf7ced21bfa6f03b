package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kmarzh/scrim-scoreboard/models"
	"github.com/kmarzh/scrim-scoreboard/syncstore"
)

const auditLogCap = 2000

// AuditService is the fire-and-forget action log sink.
type AuditService interface {
	Append(ctx context.Context, action, details, actorID string, actorRole models.StaffRole, metadata map[string]string)
	List(ctx context.Context) []models.AuditEntry
}

type auditService struct {
	collections *syncstore.Collections
	logger      *slog.Logger
}

func NewAuditService(collections *syncstore.Collections, logger *slog.Logger) AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &auditService{collections: collections, logger: logger}
}

// Append records an action. Failures are logged and swallowed: no mutating
// operation may fail because its audit write did.
func (s *auditService) Append(ctx context.Context, action, details, actorID string, actorRole models.StaffRole, metadata map[string]string) {
	entry := models.AuditEntry{
		ID:        uuid.NewString(),
		Action:    action,
		Details:   details,
		ActorID:   actorID,
		ActorRole: actorRole,
		Metadata:  metadata,
		At:        time.Now().UTC(),
	}

	_, err := s.collections.AuditLog.Write(ctx, func(entries []models.AuditEntry) []models.AuditEntry {
		entries = append(entries, entry)
		if len(entries) > auditLogCap {
			entries = entries[len(entries)-auditLogCap:]
		}
		return entries
	})
	if err != nil {
		s.logger.Warn("audit append failed", slog.String("action", action), slog.Any("error", err))
	}
}

func (s *auditService) List(ctx context.Context) []models.AuditEntry {
	return s.collections.AuditLog.Read(ctx)
}
