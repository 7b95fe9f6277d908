package chestdata

import (
	"github.com/google/uuid"

	"github.com/ravenhall/clanchest-backend/internal/domain"
	"github.com/ravenhall/clanchest-backend/internal/rules"
)

// PreviewRow is one annotated line of a preview. Exactly one of Original
// and ParseError is set; Corrected, Violations, Corrections, and Score are
// only populated for successfully parsed lines.
type PreviewRow struct {
	// Line is the 1-based input line, stable across re-runs.
	Line int

	Original   *domain.CandidateRecord
	ParseError string

	Corrected   *domain.CandidateRecord
	Violations  []rules.Violation
	Corrections []rules.AppliedCorrection

	// Score mirrors Corrected.Score; nil means no scoring rule matched.
	Score *int
}

// PreviewResult is the full outcome of one preview invocation, ordered by
// input line. Deterministic for identical input and rule state.
type PreviewResult struct {
	Rows []PreviewRow

	ParsedCount    int
	ErrorCount     int
	ViolationCount int
	UnscoredCount  int
}

// CommitResult reports a committed batch: the new entry ids in input order
// and the batch audit record id.
type CommitResult struct {
	InsertedIDs []uuid.UUID
	AuditLogID  uuid.UUID
}

// RescoreResult reports a rescore run. AuditLogID is uuid.Nil when no
// entry's score changed (no audit record is written for a no-op run).
type RescoreResult struct {
	UpdatedCount int
	AuditLogID   uuid.UUID
}
