package models

import "time"

// AuditEntry records a staff or team action. The collection is append-only
// and written fire-and-forget.
type AuditEntry struct {
	ID        string            `json:"id"`
	Action    string            `json:"action"`
	Details   string            `json:"details"`
	ActorID   string            `json:"actor_id"`
	ActorRole StaffRole         `json:"actor_role"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	At        time.Time         `json:"at"`
}
