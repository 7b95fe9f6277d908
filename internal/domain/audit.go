package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditRecord is one append-only audit log entry. Records are never
// mutated or deleted; one entry is written per commit batch, rescore run,
// or individual edit/delete.
type AuditRecord struct {
	ID         uuid.UUID
	ClanID     uuid.UUID
	UserID     uuid.UUID
	EntityType EntityType
	// EntityID is nil for batch actions that target many entities at once.
	EntityID  *uuid.UUID
	Action    AuditAction
	Changes   map[string]any
	CreatedAt time.Time
}
